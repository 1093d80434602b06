// Package jobs runs the periodic booking sweeps.
package jobs

import (
	"context"
	"fmt"
	"time"

	"tutorbook/config"
	"tutorbook/infras/otel"
	bookingService "tutorbook/internal/domains/booking/service"
	"tutorbook/shared/constant"
	"tutorbook/shared/timezone"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	JobExpireReservations = "expire_reservations"
	JobCompleteSlots      = "complete_slots"

	jobTimeout = 2 * time.Minute
)

type job struct {
	name string
	spec string
	run  func(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron *cron.Cron
	jobs []job
	otel otel.Otel
}

func New(cfg *config.Config, booking bookingService.Booking, otel otel.Otel) (*Scheduler, error) {
	logger := cronLogger{}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(timezone.Location()),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		otel: otel,
		jobs: []job{
			{name: JobExpireReservations, spec: cfg.Booking.ExpirySweepSpec, run: booking.ExpireStaleReservations},
			{name: JobCompleteSlots, spec: cfg.Booking.CompletionSweepSpec, run: booking.CompleteEndedSlots},
		},
	}

	for _, j := range s.jobs {
		if _, err := s.cron.AddFunc(j.spec, func() { s.Run(context.Background(), j.name) }); err != nil {
			return nil, fmt.Errorf("failed to schedule %s with %q: %w", j.name, j.spec, err)
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	log.Info().Int("jobs", len(s.jobs)).Msg("Starting job scheduler.")

	s.cron.Start()
}

// Stop prevents new runs. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	log.Info().Msg("Stopping job scheduler.")

	return s.cron.Stop()
}

// Run executes the named job once and reports how many records it changed.
func (s *Scheduler) Run(ctx context.Context, name string) int {
	for _, j := range s.jobs {
		if j.name != name {
			continue
		}

		ctx, cancel := context.WithTimeout(ctx, jobTimeout)
		defer cancel()

		ctx, scope := s.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+"."+name)
		defer scope.End()

		started := time.Now()

		count, err := j.run(ctx)
		if err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("job", name).Msg("job failed")

			return count
		}

		scope.SetAttribute("job.affected", count)
		log.Info().Str("job", name).Int("affected", count).Dur("took", time.Since(started)).Msg("job finished")

		return count
	}

	log.Warn().Str("job", name).Msg("unknown job")

	return 0
}

// cronLogger routes the scheduler's own messages to zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
