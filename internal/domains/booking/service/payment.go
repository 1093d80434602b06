package service

import (
	"context"
	"fmt"

	"tutorbook/internal/domains/booking/event"
	paymentModel "tutorbook/internal/domains/payment/model"
	paymentDto "tutorbook/internal/domains/payment/model/dto"
	reservationModel "tutorbook/internal/domains/reservation/model"
	"tutorbook/shared/constant"
	gDto "tutorbook/shared/dto"
	"tutorbook/shared/failure"
	"tutorbook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

func (s *serviceImpl) GetPayment(ctx context.Context, id string) (res paymentDto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetPayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	payment, err := s.getPayment(ctx, id)
	if err != nil {
		return res, err
	}

	if err = authorize(ctx, payment.StudentID); err != nil {
		return res, err
	}

	res.FromModel(payment)

	return res, nil
}

// pendingSlots lists the slots of the reservations still waiting on a payment.
func (s *serviceImpl) pendingSlots(ctx context.Context, paymentID string) ([]string, error) {
	pending, err := s.reservationRepo.GetAll(ctx, gDto.QueryParams{}, reservationsByPayment(paymentID, reservationModel.StatusPending))
	if err != nil {
		log.Error().Err(err).Str("payment_id", paymentID).Msg("failed to get pending reservations")

		return nil, fmt.Errorf("failed to get pending reservations: %w", err)
	}

	slotIDs := make([]string, len(pending))
	for i, reservation := range pending {
		slotIDs[i] = reservation.SlotID
	}

	return slotIDs, nil
}

// ConfirmPayment records a settled payment and confirms every reservation it funds.
//
// A reservation whose slot closed in the meantime is cancelled instead, and a
// reservation that was already cancelled is left alone. Either case flags the payment
// for manual review. Confirming a paid payment again changes nothing. A settlement for
// a failed payment is kept on the payment, flagged, and reported as RequiresManualReview.
func (s *serviceImpl) ConfirmPayment(ctx context.Context, id string, req paymentDto.ConfirmPaymentRequest) (res paymentDto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ConfirmPayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.getPayment(ctx, id); err != nil {
		return res, err
	}

	slotIDs, err := s.pendingSlots(ctx, id)
	if err != nil {
		return res, err
	}

	user := actor(ctx)
	settledAfterFailure := false

	err = s.withinSlots(ctx, slotIDs, func(tx *sqlx.Tx, u *unit) error {
		payment, err := s.getPaymentTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if payment.Status == paymentModel.StatusPaid {
			log.Info().Str("payment_id", id).Msg("payment already confirmed")
			res.FromModel(payment)

			return nil
		}

		if payment.Status == paymentModel.StatusFailed {
			settledAfterFailure = true

			return s.flagLateSettlement(ctx, tx, u, &payment, req, user, &res)
		}

		if err := payment.TransitionTo(paymentModel.StatusPaid); err != nil {
			return err //nolint:wrapcheck
		}

		payment.Provider = firstNonEmpty(req.Provider, payment.Provider, paymentModel.ProviderManual)
		payment.TransactionReference = firstNonEmpty(req.TransactionReference, payment.TransactionReference)

		reservations, err := s.reservationRepo.GetAllTx(ctx, tx, gDto.QueryParams{}, reservationsByPayment(id))
		if err != nil {
			log.Error().Err(err).Str("payment_id", id).Msg("failed to lock payment reservations")

			return fmt.Errorf("failed to get payment reservations: %w", err)
		}

		for i := range reservations {
			reservation := &reservations[i]

			switch reservation.Status {
			case reservationModel.StatusPending:
				if err := s.confirmReservation(ctx, tx, u, &payment, reservation, slotIDs, user); err != nil {
					return err
				}
			case reservationModel.StatusCancelled:
				payment.FlagForReview("reservation " + reservation.ID + " was cancelled before payment")
			}
		}

		if err := s.updatePaymentTx(ctx, tx, payment, user); err != nil {
			return err
		}

		u.payment(event.PaymentPaid, payment)

		if payment.RequiresManualReview {
			log.Warn().Str("payment_id", id).Str("reason", payment.ReviewReason).Msg("payment requires manual review")
			u.payment(event.PaymentReviewRequired, payment)
		}

		res.FromModel(payment)

		return nil
	})
	if err != nil {
		return res, err
	}

	if settledAfterFailure {
		return res, failure.WithMessage(failure.ErrRequiresManualReview, "payment "+id+" had already failed, the settlement needs manual review") // nolint:wrapcheck
	}

	return res, nil
}

// flagLateSettlement records a provider settlement that arrived for a failed payment.
// Its reservations were already cancelled and their seats released, so nothing is
// confirmed; the payment keeps its status and waits for an operator.
func (s *serviceImpl) flagLateSettlement(
	ctx context.Context,
	tx *sqlx.Tx,
	u *unit,
	payment *paymentModel.Payment,
	req paymentDto.ConfirmPaymentRequest,
	user string,
	res *paymentDto.PaymentResponse,
) error {
	payment.Provider = firstNonEmpty(req.Provider, payment.Provider)
	payment.TransactionReference = firstNonEmpty(req.TransactionReference, payment.TransactionReference)
	payment.FlagForReview("settled after the payment had failed")

	if err := s.updatePaymentTx(ctx, tx, *payment, user); err != nil {
		return err
	}

	log.Warn().Str("payment_id", payment.ID).Str("reference", payment.TransactionReference).Msg("settlement received for a failed payment")
	u.payment(event.PaymentReviewRequired, *payment)
	res.FromModel(*payment)

	return nil
}

// confirmReservation settles one pending reservation of a payment being confirmed.
func (s *serviceImpl) confirmReservation(
	ctx context.Context,
	tx *sqlx.Tx,
	u *unit,
	payment *paymentModel.Payment,
	reservation *reservationModel.Reservation,
	lockedSlots []string,
	user string,
) error {
	if err := ensureLocked(*reservation, lockedSlots); err != nil {
		return err
	}

	slot, err := s.getSlotTx(ctx, tx, reservation.SlotID)
	if err != nil {
		return err
	}

	closed := constant.Empty

	switch {
	case !slot.IsBookable():
		closed = "slot " + slot.ID + " is " + string(slot.Status)
	case slot.HasEnded(timezone.Now()):
		closed = "slot " + slot.ID + " has already ended"
	}

	if closed != constant.Empty {
		if err := s.transition(ctx, tx, reservation, reservationModel.StatusCancelled, user); err != nil {
			return err
		}

		payment.FlagForReview(closed)
		u.reservation(event.ReservationCancelled, *reservation)

		return nil
	}

	ledger, err := s.ledger.Confirm(ctx, tx, reservation.SlotID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err := s.transition(ctx, tx, reservation, reservationModel.StatusConfirmed, user); err != nil {
		return err
	}

	u.reservation(event.ReservationConfirmed, *reservation)

	return s.promote(ctx, tx, u, &slot, ledger.Confirmed, user)
}

// RejectPayment records a failed payment and cancels the reservations waiting on it.
// A failed payment is terminal, so rejecting it again fails with AlreadyTerminal.
func (s *serviceImpl) RejectPayment(ctx context.Context, id string, req paymentDto.RejectPaymentRequest) (res paymentDto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.RejectPayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.getPayment(ctx, id); err != nil {
		return res, err
	}

	slotIDs, err := s.pendingSlots(ctx, id)
	if err != nil {
		return res, err
	}

	user := actor(ctx)

	err = s.withinSlots(ctx, slotIDs, func(tx *sqlx.Tx, u *unit) error {
		payment, err := s.getPaymentTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := payment.TransitionTo(paymentModel.StatusFailed); err != nil {
			return err //nolint:wrapcheck
		}

		payment.Provider = firstNonEmpty(req.Provider, payment.Provider)
		payment.TransactionReference = firstNonEmpty(req.TransactionReference, payment.TransactionReference)

		pending, err := s.reservationRepo.GetAllTx(ctx, tx, gDto.QueryParams{}, reservationsByPayment(id, reservationModel.StatusPending))
		if err != nil {
			log.Error().Err(err).Str("payment_id", id).Msg("failed to lock pending reservations")

			return fmt.Errorf("failed to get pending reservations: %w", err)
		}

		for i := range pending {
			reservation := &pending[i]

			if err := ensureLocked(*reservation, slotIDs); err != nil {
				return err
			}

			if err := s.transition(ctx, tx, reservation, reservationModel.StatusCancelled, user); err != nil {
				return err
			}

			u.reservation(event.ReservationCancelled, *reservation)
		}

		if err := s.updatePaymentTx(ctx, tx, payment, user); err != nil {
			return err
		}

		log.Info().Str("payment_id", id).Str("reason", req.Reason).Int("cancelled", len(pending)).Msg("payment rejected")
		u.payment(event.PaymentFailed, payment)
		res.FromModel(payment)

		return nil
	})
	if err != nil {
		return res, err
	}

	return res, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != constant.Empty {
			return value
		}
	}

	return constant.Empty
}
