package service

import (
	"context"
	"fmt"
	"time"

	"tutorbook/internal/domains/booking/event"
	"tutorbook/internal/domains/booking/model"
	"tutorbook/internal/domains/booking/model/dto"
	reservationModel "tutorbook/internal/domains/reservation/model"
	slotModel "tutorbook/internal/domains/slot/model"
	"tutorbook/shared/constant"
	gDto "tutorbook/shared/dto"
	"tutorbook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// CancelSlot cancels a slot and everything booked on it. Unpaid reservations are
// cancelled, paid ones are queued for a refund.
func (s *serviceImpl) CancelSlot(ctx context.Context, slotID string) (res dto.CancelSlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CancelSlot")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := actor(ctx)
	now := timezone.Now()

	err = s.withinSlots(ctx, []string{slotID}, func(tx *sqlx.Tx, u *unit) error {
		res = dto.CancelSlotResponse{SlotID: slotID}

		slot, err := s.getSlotTx(ctx, tx, slotID)
		if err != nil {
			return err
		}

		if err := slot.TransitionTo(slotModel.StatusCancelled); err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.updateSlotStatusTx(ctx, tx, slot, user); err != nil {
			return err
		}

		res.Status = string(slot.Status)
		u.slot(event.SlotCancelled, slot)

		reservations, err := s.reservationRepo.GetAllTx(ctx, tx, gDto.QueryParams{}, reservationsBySlot(slotID, reservationModel.SeatHolding...))
		if err != nil {
			log.Error().Err(err).Str("slot_id", slotID).Msg("failed to lock slot reservations")

			return fmt.Errorf("failed to get slot reservations: %w", err)
		}

		for i := range reservations {
			reservation := &reservations[i]

			switch reservation.Status {
			case reservationModel.StatusPending:
				if err := s.transition(ctx, tx, reservation, reservationModel.StatusCancelled, user); err != nil {
					return err
				}

				u.reservation(event.ReservationCancelled, *reservation)
				res.CancelledReservations++
			case reservationModel.StatusConfirmed:
				if err := s.requestRefund(ctx, tx, u, reservation, user, now); err != nil {
					return err
				}

				res.RefundRequests++
			default:
				log.Warn().Str("reservation_id", reservation.ID).Str("status", string(reservation.Status)).Msg("reservation left as is by slot cancellation")
			}
		}

		return nil
	})
	if err != nil {
		return res, err
	}

	log.Info().Str("slot_id", slotID).Int("cancelled", res.CancelledReservations).Int("refunds", res.RefundRequests).Msg("slot cancelled")

	return res, nil
}

// CompleteEndedSlots closes slots whose end time has passed. Reservations still unpaid
// at that point are cancelled; paid ones wait for attendance to be recorded.
func (s *serviceImpl) CompleteEndedSlots(ctx context.Context) (completed int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CompleteEndedSlots")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := timezone.Now()
	params := gDto.QueryParams{Limit: model.SweepBatchSize, SortBy: slotModel.FieldEndTime, SortDir: gDto.SortDirAsc}
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    slotModel.FieldStatus,
				Value:    []string{string(slotModel.StatusCandidate), string(slotModel.StatusConfirmed)},
				Operator: gDto.FilterOperatorIn,
				Table:    slotModel.TableName,
			},
			gDto.Filter{Field: slotModel.FieldEndTime, Value: now, Operator: gDto.FilterOperatorLessEq, Table: slotModel.TableName},
		},
	}

	slots, err := s.slotRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get ended slots")

		return 0, fmt.Errorf("failed to get ended slots: %w", err)
	}

	for _, slot := range slots {
		done, err := s.completeSlot(ctx, slot.ID, now)
		if err != nil {
			log.Error().Err(err).Str("slot_id", slot.ID).Msg("failed to complete slot")

			continue
		}

		if done {
			completed++
		}
	}

	if completed > 0 {
		log.Info().Int("completed", completed).Msg("completed ended slots")
	}

	return completed, nil
}

func (s *serviceImpl) completeSlot(ctx context.Context, slotID string, now time.Time) (done bool, err error) {
	err = s.withinSlots(ctx, []string{slotID}, func(tx *sqlx.Tx, u *unit) error {
		slot, err := s.getSlotTx(ctx, tx, slotID)
		if err != nil {
			return err
		}

		if !slot.IsBookable() || !slot.HasEnded(now) {
			return nil
		}

		if err := slot.TransitionTo(slotModel.StatusCompleted); err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.updateSlotStatusTx(ctx, tx, slot, model.ActorSystem); err != nil {
			return err
		}

		u.slot(event.SlotCompleted, slot)

		pending, err := s.reservationRepo.GetAllTx(ctx, tx, gDto.QueryParams{}, reservationsBySlot(slotID, reservationModel.StatusPending))
		if err != nil {
			log.Error().Err(err).Str("slot_id", slotID).Msg("failed to lock pending reservations")

			return fmt.Errorf("failed to get pending reservations: %w", err)
		}

		for i := range pending {
			if err := s.transition(ctx, tx, &pending[i], reservationModel.StatusCancelled, model.ActorSystem); err != nil {
				return err
			}

			u.reservation(event.ReservationCancelled, pending[i])
		}

		done = true

		return nil
	})

	return done, err
}

// ExpireStaleReservations cancels unpaid reservations older than the configured expiry
// and gives their seats back. Their payments stay pending, so a late confirmation is
// still recorded and flagged for review.
func (s *serviceImpl) ExpireStaleReservations(ctx context.Context) (expired int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ExpireStaleReservations")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if s.cfg.Booking.ReservationExpiryMinutes <= 0 {
		return 0, nil
	}

	now := timezone.Now()
	ttl := time.Duration(s.cfg.Booking.ReservationExpiryMinutes) * time.Minute

	params := gDto.QueryParams{Limit: model.SweepBatchSize, SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: reservationModel.FieldStatus, Value: string(reservationModel.StatusPending), Operator: gDto.FilterOperatorEq, Table: reservationModel.TableName},
			gDto.Filter{Field: constant.FieldCreatedAt, Value: now.Add(-ttl), Operator: gDto.FilterOperatorLessEq, Table: reservationModel.TableName},
		},
	}

	stale, err := s.reservationRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get stale reservations")

		return 0, fmt.Errorf("failed to get stale reservations: %w", err)
	}

	for _, reservation := range stale {
		done, err := s.expireReservation(ctx, reservation, now, ttl)
		if err != nil {
			log.Error().Err(err).Str("reservation_id", reservation.ID).Msg("failed to expire reservation")

			continue
		}

		if done {
			expired++
		}
	}

	if expired > 0 {
		log.Info().Int("expired", expired).Msg("expired stale reservations")
	}

	return expired, nil
}

func (s *serviceImpl) expireReservation(ctx context.Context, stale reservationModel.Reservation, now time.Time, ttl time.Duration) (done bool, err error) {
	err = s.withinSlots(ctx, []string{stale.SlotID}, func(tx *sqlx.Tx, u *unit) error {
		reservation, err := s.getReservationTx(ctx, tx, stale.ID, stale.SlotID)
		if err != nil {
			return err
		}

		if !reservation.IsExpired(now, ttl) {
			return nil
		}

		if err := s.transition(ctx, tx, &reservation, reservationModel.StatusCancelled, model.ActorSystem); err != nil {
			return err
		}

		u.reservation(event.ReservationCancelled, reservation)
		done = true

		return nil
	})

	return done, err
}
