package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tutorbook/config"
	"tutorbook/infras/jwt"
	otelMocks "tutorbook/infras/otel/mocks"
	"tutorbook/permissions"
	"tutorbook/shared"
	"tutorbook/shared/constant"
	"tutorbook/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60
	cfg.App.APIKey = "internal-key"

	return cfg
}

func authRouter(cfg *config.Config) http.Handler {
	perms := &permissions.PermissionData{
		Endpoints: []permissions.Permission{
			{Path: "/slots", Method: http.MethodPost, Permissions: []string{constant.RoleAdmin, constant.RoleProfessor}},
			{Path: "/webhook", Method: http.MethodPost, Skip: true},
		},
	}

	authRole := middleware.NewAuthRoleMiddleware(jwt.New(cfg), otelMocks.NewOtel(), perms, cfg)

	echoUser := func(writer http.ResponseWriter, request *http.Request) {
		user, role := shared.UserFromContext(request.Context())
		writer.Header().Set("X-User", user+"/"+role)
		writer.WriteHeader(http.StatusNoContent)
	}

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)
		r.Post("/slots", echoUser)
		r.Post("/webhook", echoUser)
	})

	return router
}

func TestAuthRole(t *testing.T) {
	cfg := authConfig()
	issuer := jwt.New(cfg)

	token := func(role string, tokenType jwt.TokenType) string {
		signed, err := issuer.GenerateToken("user-1", "user@example.com", role, tokenType)
		require.NoError(t, err)

		return "Bearer " + signed
	}

	tests := []struct {
		name       string
		path       string
		headers    map[string]string
		wantStatus int
		wantUser   string
	}{
		{
			name:       "allowed role",
			path:       "/slots",
			headers:    map[string]string{constant.RequestHeaderAuthorization: token(constant.RoleProfessor, jwt.AccessToken)},
			wantStatus: http.StatusNoContent,
			wantUser:   "user-1/" + constant.RoleProfessor,
		},
		{
			name:       "role not allowed",
			path:       "/slots",
			headers:    map[string]string{constant.RequestHeaderAuthorization: token(constant.RoleStudent, jwt.AccessToken)},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing token",
			path:       "/slots",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "refresh token is not an access token",
			path:       "/slots",
			headers:    map[string]string{constant.RequestHeaderAuthorization: token(constant.RoleAdmin, jwt.RefreshToken)},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "skipped endpoint",
			path:       "/webhook",
			wantStatus: http.StatusNoContent,
			wantUser:   "/",
		},
		{
			name:       "internal api key",
			path:       "/slots",
			headers:    map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			wantStatus: http.StatusNoContent,
			wantUser:   "/",
		},
		{
			name:       "wrong api key",
			path:       "/slots",
			headers:    map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, tt.path, http.NoBody)
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}

			recorder := httptest.NewRecorder()
			authRouter(cfg).ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantUser != constant.Empty {
				assert.Equal(t, tt.wantUser, recorder.Header().Get("X-User"))
			}
		})
	}
}
