package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutorbook/config"
	"tutorbook/infras/otel"
	"tutorbook/internal/domains/ledger/model"
	"tutorbook/internal/domains/ledger/repository"
	"tutorbook/shared"
	"tutorbook/shared/constant"
	gDto "tutorbook/shared/dto"
	"tutorbook/shared/failure"
	"tutorbook/shared/timezone"

	"github.com/cenkalti/backoff/v5"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var errVersionConflict = errors.New("ledger version changed")

const (
	backoffInitialInterval = 5 * time.Millisecond
	backoffMaxInterval     = 100 * time.Millisecond
)

// Ledger owns the seat counters. Every write is a versioned compare-and-swap that is
// retried when another writer got there first.
type Ledger interface {
	Open(ctx context.Context, tx *sqlx.Tx, slotID string, capacity int) (model.Ledger, error)
	Get(ctx context.Context, slotID string) (model.Ledger, error)
	GetMany(ctx context.Context, slotIDs []string) (map[string]model.Ledger, error)
	Reserve(ctx context.Context, tx *sqlx.Tx, slotID string) (model.Ledger, error)
	ReserveConfirmed(ctx context.Context, tx *sqlx.Tx, slotID string) (model.Ledger, error)
	Confirm(ctx context.Context, tx *sqlx.Tx, slotID string) (model.Ledger, error)
	Release(ctx context.Context, tx *sqlx.Tx, slotID string, confirmed bool) (model.Ledger, error)
	Resize(ctx context.Context, tx *sqlx.Tx, slotID string, capacity int) (model.Ledger, error)
}

type serviceImpl struct {
	repo repository.Ledger
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.Ledger, cfg *config.Config, otel otel.Otel) Ledger {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: otel,
	}
}

func (s *serviceImpl) Open(ctx context.Context, tx *sqlx.Tx, slotID string, capacity int) (res model.Ledger, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.Open")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res = model.New(slotID, capacity, timezone.Now())

	if err = s.repo.InsertTx(ctx, tx, res); err != nil {
		log.Error().Err(err).Str("slot_id", slotID).Msg("failed to open ledger")

		return res, fmt.Errorf("failed to open ledger: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, slotID string) (res model.Ledger, err error) {
	ledgers, err := s.GetMany(ctx, []string{slotID})
	if err != nil {
		return res, err
	}

	res, ok := ledgers[slotID]
	if !ok {
		return res, failure.NotFound("ledger not found") // nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) GetMany(ctx context.Context, slotIDs []string) (res map[string]model.Ledger, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.GetMany")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res = make(map[string]model.Ledger, len(slotIDs))
	if len(slotIDs) == 0 {
		return res, nil
	}

	ledgers, err := s.repo.GetAll(ctx, gDto.QueryParams{}, shared.FilterByIDs(slotIDs, model.FieldSlotID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get ledgers")

		return res, fmt.Errorf("failed to get ledgers: %w", err)
	}

	for _, ledger := range ledgers {
		res[ledger.SlotID] = ledger
	}

	return res, nil
}

func (s *serviceImpl) Reserve(ctx context.Context, tx *sqlx.Tx, slotID string) (model.Ledger, error) {
	return s.mutate(ctx, tx, slotID, "Reserve", (*model.Ledger).Reserve)
}

func (s *serviceImpl) ReserveConfirmed(ctx context.Context, tx *sqlx.Tx, slotID string) (model.Ledger, error) {
	return s.mutate(ctx, tx, slotID, "ReserveConfirmed", (*model.Ledger).ReserveConfirmed)
}

func (s *serviceImpl) Confirm(ctx context.Context, tx *sqlx.Tx, slotID string) (model.Ledger, error) {
	return s.mutate(ctx, tx, slotID, "Confirm", (*model.Ledger).Confirm)
}

func (s *serviceImpl) Release(ctx context.Context, tx *sqlx.Tx, slotID string, confirmed bool) (model.Ledger, error) {
	return s.mutate(ctx, tx, slotID, "Release", func(l *model.Ledger) error {
		return l.Release(confirmed)
	})
}

func (s *serviceImpl) Resize(ctx context.Context, tx *sqlx.Tx, slotID string, capacity int) (model.Ledger, error) {
	return s.mutate(ctx, tx, slotID, "Resize", func(l *model.Ledger) error {
		return l.Resize(capacity)
	})
}

// mutate applies change to a fresh snapshot and stores it with a compare-and-swap.
// Business errors from change stop the loop at once; version conflicts are retried.
func (s *serviceImpl) mutate(ctx context.Context, tx *sqlx.Tx, slotID, operation string, change func(*model.Ledger) error) (res model.Ledger, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger."+operation)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("slot_id", slotID)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = backoffInitialInterval
	policy.MaxInterval = backoffMaxInterval

	res, err = backoff.Retry(ctx, func() (model.Ledger, error) {
		current, err := s.repo.SnapshotTx(ctx, tx, slotID)
		if err != nil {
			return current, backoff.Permanent(err)
		}

		if current.SlotID == constant.Empty {
			return current, backoff.Permanent(failure.NotFound("ledger not found"))
		}

		next := current
		if err := change(&next); err != nil {
			return current, backoff.Permanent(err)
		}

		next.ModifiedAt = timezone.Now()

		swapped, err := s.repo.CompareAndSwapTx(ctx, tx, next)
		if err != nil {
			return current, backoff.Permanent(err)
		}

		if !swapped {
			return current, errVersionConflict
		}

		next.Version++

		return next, nil
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(max(s.cfg.Booking.LedgerMaxRetries, 1)))
	if err != nil {
		if errors.Is(err, errVersionConflict) {
			log.Warn().Str("slot_id", slotID).Str("operation", operation).Msg("ledger compare-and-swap retries exhausted")

			return res, failure.ErrCapacityRaceLost
		}

		var fail *failure.Failure
		if errors.As(err, &fail) {
			return res, fail
		}

		log.Error().Err(err).Str("slot_id", slotID).Str("operation", operation).Msg("failed to update ledger")

		return res, fmt.Errorf("failed to update ledger: %w", err)
	}

	log.Debug().Str("slot_id", slotID).Str("operation", operation).Int("occupied", res.Occupied).Int("confirmed", res.Confirmed).Msg("ledger updated")

	return res, nil
}
