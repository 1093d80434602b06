package handler

import (
	"net/http"
	"sync"

	"tutorbook/config"
	"tutorbook/di"
	"tutorbook/shared/logger"
	"tutorbook/transport/http/response"

	"github.com/rs/zerolog/log"

	transport "tutorbook/transport/http"
)

var (
	server  *transport.HTTP
	initErr error
	once    sync.Once
)

// Handler serves the API as a serverless function. The periodic sweeps do not run here.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.Init(cfg)

		server, initErr = di.InitializeService()
		if initErr != nil {
			log.Error().Err(initErr).Msg("failed to initialize service")
		}
	})

	if initErr != nil {
		response.WithUnhealthy(w)

		return
	}

	server.ServeHTTP(w, r)
}
