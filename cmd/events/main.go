package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tutorbook/config"
	"tutorbook/infras/kafka"
	"tutorbook/internal/domains/booking/event"
	"tutorbook/shared/logger"

	"github.com/rs/zerolog/log"
)

// Tails the booking event topic into the structured log, one line per committed change.
func main() {
	cfg := config.Get()

	logger.Init(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := kafka.New(cfg)

	defer func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close kafka client")
		}
	}()

	log.Info().Str("topic", cfg.Kafka.Topic).Str("group", cfg.Kafka.ConsumerGroup).Msg("tailing booking events")

	event.Subscribe(ctx, client, cfg, func(evt event.Event) {
		log.Info().
			Str("event_id", evt.ID).
			Str("type", string(evt.Type)).
			Str("aggregate_id", evt.AggregateID).
			Time("occurred_at", evt.OccurredAt).
			Interface("data", evt.Data).
			Msg("booking event")
	})
}
