package main

import (
	"tutorbook/config"
	"tutorbook/di"
	"tutorbook/helper"
	"tutorbook/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Tutorbook Booking API
// @version 1.0
// @description Slot scheduling, reservations, payments and the refund and reschedule workflows of a tutoring school.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.Init(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to run database migrations")
		}
	}

	http, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize service")
	}

	http.Serve()
}
