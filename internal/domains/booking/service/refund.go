package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"tutorbook/internal/domains/booking/event"
	paymentModel "tutorbook/internal/domains/payment/model"
	reservationModel "tutorbook/internal/domains/reservation/model"
	reservationDto "tutorbook/internal/domains/reservation/model/dto"
	slotModel "tutorbook/internal/domains/slot/model"
	workflowModel "tutorbook/internal/domains/workflow/model"
	"tutorbook/shared/constant"
	gDto "tutorbook/shared/dto"
	"tutorbook/shared/failure"
	"tutorbook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// RequestRefund asks for the money of a confirmed reservation back. It is only allowed
// up to the refund cutoff before the slot starts, unless the slot was cancelled.
func (s *serviceImpl) RequestRefund(ctx context.Context, id string) (res reservationDto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.RequestRefund")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	current, err := s.getReservation(ctx, id)
	if err != nil {
		return res, err
	}

	if err = authorize(ctx, current.StudentID); err != nil {
		return res, err
	}

	if current.PaymentID == nil {
		return res, failure.WithMessage(failure.ErrInvalidTransition, "reservation has no payment to refund") // nolint:wrapcheck
	}

	user := actor(ctx)
	now := timezone.Now()
	cutoff := time.Duration(s.cfg.Booking.RefundCutoffHours) * time.Hour

	err = s.withinSlots(ctx, []string{current.SlotID}, func(tx *sqlx.Tx, u *unit) error {
		payment, err := s.getPaymentTx(ctx, tx, *current.PaymentID)
		if err != nil {
			return err
		}

		reservation, err := s.getReservationTx(ctx, tx, id, current.SlotID)
		if err != nil {
			return err
		}

		if payment.Status != paymentModel.StatusPaid {
			return failure.WithMessage(failure.ErrInvalidTransition, "only paid reservations can be refunded, payment is "+string(payment.Status)) // nolint:wrapcheck
		}

		slot, err := s.getSlotTx(ctx, tx, reservation.SlotID)
		if err != nil {
			return err
		}

		if slot.Status != slotModel.StatusCancelled && slot.StartTime.Before(now.Add(cutoff)) {
			return failure.WithMessage(failure.ErrRefundWindowClosed, fmt.Sprintf("refunds close %d hours before the slot starts", s.cfg.Booking.RefundCutoffHours)) // nolint:wrapcheck
		}

		if err := s.requestRefund(ctx, tx, u, &reservation, user, now); err != nil {
			return err
		}

		res.FromModel(reservation)

		return nil
	})
	if err != nil {
		return res, err
	}

	log.Info().Str("reservation_id", id).Msg("refund requested")

	return res, nil
}

// ProcessRefund settles a requested refund.
//
// A payment is refunded as a whole, so every other reservation it funds must already be
// waiting for a refund or be cancelled. All of them move to refunded together and their
// refund workflows complete.
func (s *serviceImpl) ProcessRefund(ctx context.Context, id string) (res reservationDto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ProcessRefund")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	current, err := s.getReservation(ctx, id)
	if err != nil {
		return res, err
	}

	if current.PaymentID == nil {
		return res, failure.WithMessage(failure.ErrInvalidTransition, "reservation has no payment to refund") // nolint:wrapcheck
	}

	paymentID := *current.PaymentID
	user := actor(ctx)

	err = s.withinSlots(ctx, nil, func(tx *sqlx.Tx, u *unit) error {
		payment, err := s.getPaymentTx(ctx, tx, paymentID)
		if err != nil {
			return err
		}

		reservations, err := s.reservationRepo.GetAllTx(ctx, tx, gDto.QueryParams{}, reservationsByPayment(paymentID))
		if err != nil {
			log.Error().Err(err).Str("payment_id", paymentID).Msg("failed to lock payment reservations")

			return fmt.Errorf("failed to get payment reservations: %w", err)
		}

		idx := slices.IndexFunc(reservations, func(r reservationModel.Reservation) bool { return r.ID == id })
		if idx < 0 {
			return failure.NotFound("reservation not found") // nolint:wrapcheck
		}

		if target := reservations[idx]; target.Status != reservationModel.StatusToRefund {
			return target.TransitionTo(reservationModel.StatusRefunded) //nolint:wrapcheck
		}

		for _, reservation := range reservations {
			switch reservation.Status {
			case reservationModel.StatusToRefund, reservationModel.StatusCancelled, reservationModel.StatusRefunded:
			default:
				return failure.WithMessage(failure.ErrInvalidTransition, "reservation "+reservation.ID+" paid by the same payment is still "+string(reservation.Status)) // nolint:wrapcheck
			}
		}

		if err := payment.TransitionTo(paymentModel.StatusRefunded); err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.updatePaymentTx(ctx, tx, payment, user); err != nil {
			return err
		}

		u.payment(event.PaymentRefunded, payment)

		for i := range reservations {
			reservation := &reservations[i]
			if reservation.Status != reservationModel.StatusToRefund {
				continue
			}

			if err := s.transition(ctx, tx, reservation, reservationModel.StatusRefunded, user); err != nil {
				return err
			}

			if err := s.completeRefundWorkflow(ctx, tx, reservation.ID, user); err != nil {
				return err
			}

			u.reservation(event.ReservationRefunded, *reservation)

			if reservation.ID == id {
				res.FromModel(*reservation)
			}
		}

		return nil
	})
	if err != nil {
		return res, err
	}

	log.Info().Str("reservation_id", id).Str("payment_id", paymentID).Msg("refund processed")

	return res, nil
}

func (s *serviceImpl) completeRefundWorkflow(ctx context.Context, tx *sqlx.Tx, reservationID, user string) error {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: workflowModel.FieldReservationID, Value: reservationID, Operator: gDto.FilterOperatorEq, Table: workflowModel.TableName},
			gDto.Filter{Field: workflowModel.FieldKind, Value: string(workflowModel.KindRefund), Operator: gDto.FilterOperatorEq, Table: workflowModel.TableName},
			gDto.Filter{Field: workflowModel.FieldState, Value: string(workflowModel.StateRequested), Operator: gDto.FilterOperatorEq, Table: workflowModel.TableName},
		},
	}

	workflow, err := s.workflowRepo.GetTx(ctx, tx, filter)
	if err != nil {
		log.Error().Err(err).Str("reservation_id", reservationID).Msg("failed to get refund workflow")

		return fmt.Errorf("failed to get refund workflow: %w", err)
	}

	if workflow.ID == constant.Empty {
		log.Warn().Str("reservation_id", reservationID).Msg("no open refund workflow for reservation")

		return nil
	}

	if err := workflow.Complete(); err != nil {
		return err //nolint:wrapcheck
	}

	return s.updateWorkflowTx(ctx, tx, workflow, user)
}
