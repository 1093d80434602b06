package middleware

import (
	"net"
	"net/http"
	"strconv"
	"tutorbook/shared"
	"tutorbook/shared/constant"
	"tutorbook/transport/http/response"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"

	rateLimitRead  = "read"
	rateLimitWrite = "write"
)

// RateLimit counts requests per client address in fixed windows. Reads and writes are
// counted apart, so browsing slots does not use up the budget for booking them.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := a.config.App.RateLimiter
			if !limiter.Enable {
				next.ServeHTTP(w, r)

				return
			}

			kind, maxReqs := rateLimitRead, limiter.MaxRequests
			if isWrite(r.Method) {
				kind = rateLimitWrite
				if limiter.MaxWriteRequests > 0 {
					maxReqs = limiter.MaxWriteRequests
				}
			}

			cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, kind, a.getClientIP(r))

			count, err := a.cache.Increment(r.Context(), cacheKey, limiter.WindowSeconds)
			if err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("rate limiter unavailable, letting the request through")
				next.ServeHTTP(w, r)

				return
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(maxReqs))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, maxReqs-count)))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limiter.WindowSeconds))

			if count > maxReqs {
				w.Header().Set(constant.RequestHeaderRetryAfter, strconv.Itoa(limiter.WindowSeconds))
				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

// getClientIP strips the port from RemoteAddr. chi's RealIP middleware runs first and has
// already put a proxy-forwarded address there.
func (a *appMiddleware) getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
