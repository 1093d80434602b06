package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"tutorbook/config"
	"tutorbook/infras/otel"
	"tutorbook/infras/postgres"
	ledgerService "tutorbook/internal/domains/ledger/service"
	"tutorbook/internal/domains/slot/model"
	"tutorbook/internal/domains/slot/model/dto"
	"tutorbook/internal/domains/slot/repository"
	"tutorbook/shared"
	"tutorbook/shared/cache"
	"tutorbook/shared/constant"
	gDto "tutorbook/shared/dto"
	"tutorbook/shared/failure"
	"tutorbook/shared/lock"
	"tutorbook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Slot interface {
	Create(ctx context.Context, req dto.CreateSlotRequest) (dto.SlotResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetSlotsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.SlotResponse, error)
	Update(ctx context.Context, req dto.UpdateSlotRequest, id string) error
}

type serviceImpl struct {
	repo       repository.Slot
	ledger     ledgerService.Ledger
	transactor postgres.Transactor
	locker     lock.Locker
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Slot,
	ledger ledgerService.Ledger,
	transactor postgres.Transactor,
	locker lock.Locker,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Slot {
	return &serviceImpl{
		repo:       repo,
		ledger:     ledger,
		transactor: transactor,
		locker:     locker,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func validateBounds(slot model.Slot) error {
	if !slot.EndTime.After(slot.StartTime) {
		return failure.BadRequestFromString("end_time must be after start_time") // nolint:wrapcheck
	}

	if slot.MaxStudents < 1 {
		return failure.BadRequestFromString("max_students must be at least 1") // nolint:wrapcheck
	}

	if slot.StudentsGroup == model.GroupPrivate && slot.MaxStudents != 1 {
		return failure.BadRequestFromString("private slots seat exactly one student") // nolint:wrapcheck
	}

	if slot.MinStudents > slot.MaxStudents {
		return failure.BadRequestFromString("min_students cannot exceed max_students") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateSlotRequest) (res dto.SlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := shared.UserFromContext(ctx)

	slot := req.ToModel(user)
	if err = validateBounds(slot); err != nil {
		return res, err
	}

	err = s.transactor.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, slot); err != nil {
			log.Error().Err(err).Msg("failed to create slot")

			return fmt.Errorf("failed to create slot: %w", err)
		}

		ledger, err := s.ledger.Open(ctx, tx, slot.ID, slot.Capacity())
		if err != nil {
			return err //nolint:wrapcheck
		}

		res.FromModel(slot)
		res.Seats = &dto.SeatsResponse{}
		res.Seats.FromModel(ledger)

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	log.Info().Str("slot_id", slot.ID).Str("professor_id", slot.ProfessorID).Msg("slot created")

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, model.CacheGetAll)
		shared.InvalidateCaches(c, s.cache, model.CacheCount)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAll, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for slots")

		return s.withSeats(ctx, res)
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count slots")

		return res, fmt.Errorf("failed to count slots: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get slots")

		return res, fmt.Errorf("failed to get slots: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save slots to cache")
		}
	}()

	return s.withSeats(ctx, res)
}

// withSeats overlays live ledger counters. Seat counts are never served from cache.
func (s *serviceImpl) withSeats(ctx context.Context, res dto.GetSlotsResponse) (dto.GetSlotsResponse, error) {
	ledgers, err := s.ledger.GetMany(ctx, res.IDs())
	if err != nil {
		return res, fmt.Errorf("failed to get slot seats: %w", err)
	}

	slots := make([]dto.SlotResponse, len(res.Slots))
	for i, slot := range res.Slots {
		slot.WithSeats(ledgers)
		slots[i] = slot
	}

	res.Slots = slots

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheCount, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for slot count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count slots")

		return res, fmt.Errorf("failed to count slots: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save slot count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.SlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(model.CacheGet, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err != nil {
		slot, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get slot")

			return res, fmt.Errorf("failed to get slot: %w", err)
		}

		if slot.ID == constant.Empty {
			return res, failure.NotFound("slot not found") // nolint:wrapcheck
		}

		res.FromModel(slot)

		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save slot to cache")
			}
		}()
	} else {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for slot")
	}

	ledger, err := s.ledger.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("slot_id", id).Msg("failed to get slot seats")

		return res, fmt.Errorf("failed to get slot seats: %w", err)
	}

	res.Seats = &dto.SeatsResponse{}
	res.Seats.FromModel(ledger)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateSlotRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := shared.UserFromContext(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	release, err := s.locker.Acquire(ctx, model.LockKey(id))
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer release()

	err = s.transactor.WithinTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.repo.GetTx(ctx, tx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to check slot existence")

			return fmt.Errorf("failed to get slot: %w", err)
		}

		if current.ID == constant.Empty {
			return failure.NotFound("slot not found") // nolint:wrapcheck
		}

		if !current.IsBookable() {
			return failure.WithMessage(failure.ErrSlotClosed, "slot is "+string(current.Status)+" and can no longer be edited") // nolint:wrapcheck
		}

		next := req.Apply(current)
		if err := validateBounds(next); err != nil {
			return err
		}

		if next.Capacity() != current.Capacity() {
			if _, err := s.ledger.Resize(ctx, tx, id, next.Capacity()); err != nil {
				return err //nolint:wrapcheck
			}
		}

		updatedFields := map[string]any{
			model.FieldStartTime:     next.StartTime,
			model.FieldEndTime:       next.EndTime,
			model.FieldModality:      next.Modality,
			model.FieldMinStudents:   next.MinStudents,
			model.FieldMaxStudents:   next.MaxStudents,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if err := s.repo.UpdateTx(ctx, tx, updatedFields, filter); err != nil {
			log.Error().Err(err).Msg("failed to update slot")

			return fmt.Errorf("failed to update slot: %w", err)
		}

		return nil
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheGet, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete slot cache")
		}

		shared.InvalidateCaches(c, s.cache, model.CacheGetAll)
		shared.InvalidateCaches(c, s.cache, model.CacheCount)
	}()

	return nil
}
