package middleware

import (
	"bytes"
	"errors"
	"net/http"

	"tutorbook/shared"
	"tutorbook/shared/cache"
	"tutorbook/shared/constant"
	"tutorbook/shared/failure"
	"tutorbook/transport/http/response"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const (
	cacheKeyIdempotency  = "idempotency"
	maxIdempotencyKeyLen = 255
)

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Idempotency replays the stored response of a mutating request that carries an
// Idempotency-Key already seen for the same user and route. Server errors are not stored
// so the client can retry them.
func (a *appMiddleware) Idempotency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		key := request.Header.Get(constant.RequestHeaderIdempotencyKey)
		if key == constant.Empty || (request.Method != http.MethodPost && request.Method != http.MethodPatch) {
			next.ServeHTTP(writer, request)

			return
		}

		if len(key) > maxIdempotencyKeyLen {
			response.WithError(writer, failure.BadRequestFromString("Idempotency-Key is too long"))

			return
		}

		ctx := request.Context()
		user, _ := shared.UserFromContext(ctx)
		cacheKey := shared.BuildCacheKey(cacheKeyIdempotency, user, request.Method, request.URL.Path, key)

		var stored storedResponse

		err := a.cache.Get(ctx, cacheKey, &stored)
		if err == nil {
			writer.Header().Set(constant.RequestHeaderIdempotentReplay, "true")
			writer.Header().Set(constant.RequestHeaderContentType, stored.ContentType)
			writer.WriteHeader(stored.Status)

			if _, err := writer.Write(stored.Body); err != nil {
				log.Error().Err(err).Msg("failed to replay idempotent response")
			}

			return
		}

		if !errors.Is(err, cache.Nil) {
			log.Warn().Err(err).Str("key", cacheKey).Msg("idempotency lookup failed, serving request")
		}

		body := &bytes.Buffer{}
		wrapped := chiMiddleware.NewWrapResponseWriter(writer, request.ProtoMajor)
		wrapped.Tee(body)

		next.ServeHTTP(wrapped, request)

		if wrapped.Status() >= http.StatusInternalServerError {
			return
		}

		stored = storedResponse{
			Status:      wrapped.Status(),
			ContentType: wrapped.Header().Get(constant.RequestHeaderContentType),
			Body:        body.Bytes(),
		}

		if err := a.cache.Save(ctx, cacheKey, stored, a.config.Booking.IdempotencyTTLSeconds); err != nil {
			log.Error().Err(err).Str("key", cacheKey).Msg("failed to store idempotent response")
		}
	})
}
