package service

import (
	"context"
	"errors"
	"fmt"

	"tutorbook/internal/domains/booking/event"
	"tutorbook/internal/domains/booking/model/dto"
	reservationModel "tutorbook/internal/domains/reservation/model"
	reservationDto "tutorbook/internal/domains/reservation/model/dto"
	slotModel "tutorbook/internal/domains/slot/model"
	slotDto "tutorbook/internal/domains/slot/model/dto"
	workflowModel "tutorbook/internal/domains/workflow/model"
	"tutorbook/shared"
	"tutorbook/shared/constant"
	gDto "tutorbook/shared/dto"
	"tutorbook/shared/failure"
	gModel "tutorbook/shared/model"
	"tutorbook/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// RequestReschedule moves a confirmed reservation to another slot in one step: the seat
// on the target is taken and the old seat given back in the same transaction, so the
// reservation is never without a seat and never holds two.
func (s *serviceImpl) RequestReschedule(ctx context.Context, id string, req dto.RescheduleRequest) (res reservationDto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.RequestReschedule")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	current, err := s.getReservation(ctx, id)
	if err != nil {
		return res, err
	}

	if err = authorize(ctx, current.StudentID); err != nil {
		return res, err
	}

	if req.TargetSlotID == current.SlotID {
		return res, failure.BadRequestFromString("target slot is the slot already reserved") // nolint:wrapcheck
	}

	user := actor(ctx)
	now := timezone.Now()
	fromSlotID := current.SlotID

	err = s.withinSlots(ctx, []string{fromSlotID, req.TargetSlotID}, func(tx *sqlx.Tx, u *unit) error {
		reservation, err := s.getReservationTx(ctx, tx, id, fromSlotID)
		if err != nil {
			return err
		}

		if err := reservation.TransitionTo(reservationModel.StatusReschedulePending); err != nil {
			return err //nolint:wrapcheck
		}

		source, err := s.getSlotTx(ctx, tx, fromSlotID)
		if err != nil {
			return err
		}

		if !source.IsBookable() {
			return failure.WithMessage(failure.ErrSlotClosed, "reserved slot is "+string(source.Status)) // nolint:wrapcheck
		}

		if !now.Before(source.StartTime) {
			return failure.WithMessage(failure.ErrSlotClosed, "reserved slot has already started") // nolint:wrapcheck
		}

		target, err := s.getSlotTx(ctx, tx, req.TargetSlotID)
		if err != nil {
			return err
		}

		if !target.IsBookable() {
			return failure.WithMessage(failure.ErrSlotClosed, "target slot is "+string(target.Status)) // nolint:wrapcheck
		}

		if !now.Before(target.StartTime) {
			return failure.WithMessage(failure.ErrSlotClosed, "target slot has already started") // nolint:wrapcheck
		}

		if err := s.ensureNoSeatHeld(ctx, tx, target.ID, reservation.StudentID); err != nil {
			return err
		}

		ledger, err := s.ledger.ReserveConfirmed(ctx, tx, target.ID)
		if err != nil {
			if errors.Is(err, failure.ErrSlotFull) {
				return failure.WithMessage(failure.ErrTargetSlotFull, "target slot "+target.ID+" is full") // nolint:wrapcheck
			}

			return err //nolint:wrapcheck
		}

		if _, err := s.ledger.Release(ctx, tx, fromSlotID, true); err != nil {
			return err //nolint:wrapcheck
		}

		reservation.SlotID = target.ID
		if err := reservation.TransitionTo(reservationModel.StatusConfirmed); err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.updateReservationTx(ctx, tx, reservation, user); err != nil {
			return err
		}

		workflow := workflowModel.NewReschedule(uuid.NewString(), reservation.ID, fromSlotID, target.ID, gModel.NewMetadata(user, now))
		if err := workflow.Complete(); err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.workflowRepo.InsertTx(ctx, tx, workflow); err != nil {
			log.Error().Err(err).Str("reservation_id", id).Msg("failed to record reschedule")

			return fmt.Errorf("failed to record reschedule: %w", err)
		}

		u.reservation(event.ReservationRescheduled, reservation)
		res.FromModel(reservation)

		return s.promote(ctx, tx, u, &target, ledger.Confirmed, user)
	})
	if err != nil {
		s.recordFailedReschedule(ctx, current, req.TargetSlotID, user, err)

		return res, err
	}

	log.Info().Str("reservation_id", id).Str("from_slot_id", fromSlotID).Str("to_slot_id", req.TargetSlotID).Msg("reservation rescheduled")

	return res, nil
}

// recordFailedReschedule keeps a trace of a reschedule refused because one of the two
// slots was full or closed. The reservation itself was left untouched by the rolled back transaction.
func (s *serviceImpl) recordFailedReschedule(ctx context.Context, reservation reservationModel.Reservation, targetSlotID, user string, cause error) {
	if !errors.Is(cause, failure.ErrSlotFull) && !errors.Is(cause, failure.ErrSlotClosed) {
		return
	}

	workflow := workflowModel.NewReschedule(uuid.NewString(), reservation.ID, reservation.SlotID, targetSlotID, gModel.NewMetadata(user, timezone.Now()))
	if err := workflow.Fail(cause.Error()); err != nil {
		return
	}

	if err := s.workflowRepo.Insert(context.WithoutCancel(ctx), workflow); err != nil {
		log.Error().Err(err).Str("reservation_id", reservation.ID).Msg("failed to record failed reschedule")
	}
}

// RescheduleCandidates lists the upcoming open slots of the same class that still have a free seat.
func (s *serviceImpl) RescheduleCandidates(ctx context.Context, id string, params gDto.QueryParams) (res slotDto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.RescheduleCandidates")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return res, err
	}

	if err = authorize(ctx, reservation.StudentID); err != nil {
		return res, err
	}

	if !reservation.Status.CanTransitionTo(reservationModel.StatusReschedulePending) {
		return res, failure.WithMessage(failure.ErrInvalidTransition, "only confirmed reservations can be rescheduled") // nolint:wrapcheck
	}

	current, err := s.slotRepo.Get(ctx, shared.FilterByID(reservation.SlotID, slotModel.FieldID, slotModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reserved slot")

		return res, fmt.Errorf("failed to get reserved slot: %w", err)
	}

	if current.ID == constant.Empty {
		return res, failure.NotFound("slot not found") // nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: slotModel.FieldClassID, Value: current.ClassID, Operator: gDto.FilterOperatorEq, Table: slotModel.TableName},
			gDto.Filter{Field: slotModel.FieldID, Value: current.ID, Operator: gDto.FilterOperatorNotEq, Table: slotModel.TableName},
			gDto.Filter{
				Field:    slotModel.FieldStatus,
				Value:    []string{string(slotModel.StatusCandidate), string(slotModel.StatusConfirmed)},
				Operator: gDto.FilterOperatorIn,
				Table:    slotModel.TableName,
			},
			gDto.Filter{Field: slotModel.FieldStartTime, Value: timezone.Now(), Operator: gDto.FilterOperatorGreater, Table: slotModel.TableName},
		},
	}

	if params.SortBy == constant.Empty {
		params.SortBy = slotModel.FieldStartTime
	}

	if params.SortDir == constant.Empty {
		params.SortDir = gDto.SortDirAsc
	}

	slots, err := s.slotRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get candidate slots")

		return res, fmt.Errorf("failed to get candidate slots: %w", err)
	}

	ids := make([]string, len(slots))
	for i, slot := range slots {
		ids[i] = slot.ID
	}

	ledgers, err := s.ledger.GetMany(ctx, ids)
	if err != nil {
		return res, fmt.Errorf("failed to get slot seats: %w", err)
	}

	open := make([]slotModel.Slot, 0, len(slots))
	for _, slot := range slots {
		if ledger, ok := ledgers[slot.ID]; ok && ledger.Available() > 0 {
			open = append(open, slot)
		}
	}

	res.FromModels(open, len(open), params.Limit)

	for i := range res.Slots {
		res.Slots[i].WithSeats(ledgers)
	}

	return res, nil
}
