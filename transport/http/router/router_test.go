package router_test

import (
	"net/http"
	"testing"

	"tutorbook/permissions"
	"tutorbook/transport/http/router"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_EveryRouteHasPermissions(t *testing.T) {
	perms := permissions.Get()
	require.NotNil(t, perms)

	mux := chi.NewRouter()
	r := router.New(router.DomainHandlers{})
	r.SetupRoutes(mux)

	routes := 0
	err := chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes++

		permission := perms.FindPermissions(route, method)
		assert.NotEmpty(t, permission.Path, "%s %s has no permissions entry", method, route)

		return nil
	})
	require.NoError(t, err)

	assert.Len(t, perms.Endpoints, routes)
}
