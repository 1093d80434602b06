package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutorbook/internal/domains/booking/event"
	"tutorbook/internal/domains/booking/model"
	"tutorbook/internal/domains/booking/model/dto"
	paymentModel "tutorbook/internal/domains/payment/model"
	paymentDto "tutorbook/internal/domains/payment/model/dto"
	planModel "tutorbook/internal/domains/pricingplan/model"
	reservationModel "tutorbook/internal/domains/reservation/model"
	reservationDto "tutorbook/internal/domains/reservation/model/dto"
	workflowModel "tutorbook/internal/domains/workflow/model"
	workflowDto "tutorbook/internal/domains/workflow/model/dto"
	"tutorbook/shared"
	"tutorbook/shared/constant"
	gDto "tutorbook/shared/dto"
	"tutorbook/shared/failure"
	gModel "tutorbook/shared/model"
	"tutorbook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

func (s *serviceImpl) CreateReservation(ctx context.Context, req dto.CreateReservationRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CreateReservation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	studentID, err := studentFor(ctx, req.StudentID)
	if err != nil {
		return res, err
	}

	return s.book(ctx, studentID, req.PricingPlanID, []string{req.SlotID})
}

func (s *serviceImpl) CreateBundleReservation(ctx context.Context, req dto.CreateBundleReservationRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CreateBundleReservation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	studentID, err := studentFor(ctx, req.StudentID)
	if err != nil {
		return res, err
	}

	return s.book(ctx, studentID, req.PricingPlanID, req.SlotIDs)
}

// book holds one seat per slot and records the pending payment for all of them.
// Either every seat is taken or none is.
func (s *serviceImpl) book(ctx context.Context, studentID, planID string, slotIDs []string) (res dto.BookingResponse, err error) {
	plan, err := s.planRepo.Get(ctx, shared.FilterByID(planID, planModel.FieldID, planModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get pricing plan")

		return res, fmt.Errorf("failed to get pricing plan: %w", err)
	}

	if plan.ID == constant.Empty {
		return res, failure.NotFound("pricing plan not found") // nolint:wrapcheck
	}

	if err = model.CheckPlan(plan, slotIDs); err != nil {
		return res, err //nolint:wrapcheck
	}

	user := actor(ctx)
	now := timezone.Now()
	booking := model.New(studentID, plan, slotIDs, gModel.NewMetadata(user, now))

	err = s.withinSlots(ctx, slotIDs, func(tx *sqlx.Tx, u *unit) error {
		for _, slotID := range slotIDs {
			if err := s.holdSeat(ctx, tx, slotID, studentID, now); err != nil {
				return err
			}
		}

		if err := s.paymentRepo.InsertTx(ctx, tx, booking.Payment); err != nil {
			log.Error().Err(err).Msg("failed to create payment")

			return fmt.Errorf("failed to create payment: %w", err)
		}

		if err := s.reservationRepo.InsertBulkTx(ctx, tx, booking.Reservations); err != nil {
			log.Error().Err(err).Msg("failed to create reservations")

			return fmt.Errorf("failed to create reservations: %w", err)
		}

		for _, reservation := range booking.Reservations {
			u.reservation(event.ReservationCreated, reservation)
		}

		return nil
	})
	if err != nil {
		return res, err
	}

	log.Info().Str("payment_id", booking.Payment.ID).Str("student_id", studentID).Strs("slot_ids", slotIDs).Msg("reservations created")

	res.FromModel(booking)

	return res, nil
}

// holdSeat takes one unpaid seat on a slot the caller has locked.
func (s *serviceImpl) holdSeat(ctx context.Context, tx *sqlx.Tx, slotID, studentID string, now time.Time) error {
	slot, err := s.getSlotTx(ctx, tx, slotID)
	if err != nil {
		return err
	}

	if !slot.IsBookable() {
		return failure.WithMessage(failure.ErrSlotClosed, "slot "+slotID+" is "+string(slot.Status)) // nolint:wrapcheck
	}

	if !now.Before(slot.StartTime) {
		return failure.WithMessage(failure.ErrSlotClosed, "slot "+slotID+" has already started") // nolint:wrapcheck
	}

	if err := s.ensureNoSeatHeld(ctx, tx, slotID, studentID); err != nil {
		return err
	}

	if _, err := s.ledger.Reserve(ctx, tx, slotID); err != nil {
		if errors.Is(err, failure.ErrSlotFull) {
			return failure.WithMessage(failure.ErrSlotFull, "slot "+slotID+" is full") // nolint:wrapcheck
		}

		return err //nolint:wrapcheck
	}

	return nil
}

// ensureNoSeatHeld fails when the student already holds a seat on the slot.
func (s *serviceImpl) ensureNoSeatHeld(ctx context.Context, tx *sqlx.Tx, slotID, studentID string) error {
	filter := reservationsBySlot(slotID, reservationModel.SeatHolding...)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    reservationModel.FieldStudentID,
		Value:    studentID,
		Operator: gDto.FilterOperatorEq,
		Table:    reservationModel.TableName,
	})

	held, err := s.reservationRepo.GetAllTx(ctx, tx, gDto.QueryParams{Limit: 1}, filter)
	if err != nil {
		log.Error().Err(err).Str("slot_id", slotID).Msg("failed to check existing reservations")

		return fmt.Errorf("failed to check existing reservations: %w", err)
	}

	if len(held) > 0 {
		return failure.Conflict("student already holds a seat on slot " + slotID) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) GetReservation(ctx context.Context, id string) (res dto.ReservationDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetReservation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return res, err
	}

	if err = authorize(ctx, reservation.StudentID); err != nil {
		return res, err
	}

	res.FromModel(reservation)

	if reservation.PaymentID != nil {
		payment, err := s.getPayment(ctx, *reservation.PaymentID)
		if err != nil {
			return res, err
		}

		res.Payment = &paymentDto.PaymentResponse{}
		res.Payment.FromModel(payment)
	}

	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}
	filter := shared.FilterByID(id, workflowModel.FieldReservationID, workflowModel.TableName)

	workflows, err := s.workflowRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation workflows")

		return res, fmt.Errorf("failed to get reservation workflows: %w", err)
	}

	res.Workflows = workflowDto.FromModels(workflows)

	return res, nil
}

// GetReservations lists reservations. Students only ever see their own.
func (s *serviceImpl) GetReservations(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res reservationDto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetReservations")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, role := shared.UserFromContext(ctx)
	if !shared.IsStaff(role) {
		own := shared.FilterByID(user, reservationModel.FieldStudentID, reservationModel.TableName)
		if len(filter.Filters) > 0 {
			own = gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: []any{filter, own}}
		}

		filter = own
	}

	total, err := s.reservationRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.reservationRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

// CancelReservation gives up an unpaid reservation. When nothing else is left waiting
// on its payment the payment fails too.
func (s *serviceImpl) CancelReservation(ctx context.Context, id string) (res reservationDto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CancelReservation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	current, err := s.getReservation(ctx, id)
	if err != nil {
		return res, err
	}

	if err = authorize(ctx, current.StudentID); err != nil {
		return res, err
	}

	user := actor(ctx)

	err = s.withinSlots(ctx, []string{current.SlotID}, func(tx *sqlx.Tx, u *unit) error {
		var (
			payment    paymentModel.Payment
			hasPayment = current.PaymentID != nil
		)

		if hasPayment {
			var err error
			if payment, err = s.getPaymentTx(ctx, tx, *current.PaymentID); err != nil {
				return err
			}
		}

		reservation, err := s.getReservationTx(ctx, tx, id, current.SlotID)
		if err != nil {
			return err
		}

		if err := s.transition(ctx, tx, &reservation, reservationModel.StatusCancelled, user); err != nil {
			return err
		}

		u.reservation(event.ReservationCancelled, reservation)
		res.FromModel(reservation)

		if !hasPayment || payment.Status != paymentModel.StatusPending {
			return nil
		}

		waiting, err := s.reservationRepo.GetAllTx(ctx, tx, gDto.QueryParams{Limit: 1}, reservationsByPayment(payment.ID, reservationModel.StatusPending))
		if err != nil {
			log.Error().Err(err).Msg("failed to check remaining reservations")

			return fmt.Errorf("failed to check remaining reservations: %w", err)
		}

		if len(waiting) > 0 {
			return nil
		}

		if err := payment.TransitionTo(paymentModel.StatusFailed); err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.updatePaymentTx(ctx, tx, payment, user); err != nil {
			return err
		}

		u.payment(event.PaymentFailed, payment)

		return nil
	})
	if err != nil {
		return res, err
	}

	log.Info().Str("reservation_id", id).Msg("reservation cancelled")

	return res, nil
}

// MarkAttendance closes a confirmed reservation once its slot has ended.
func (s *serviceImpl) MarkAttendance(ctx context.Context, id string, req dto.AttendanceRequest) (res reservationDto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.MarkAttendance")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	current, err := s.getReservation(ctx, id)
	if err != nil {
		return res, err
	}

	next, eventType := reservationModel.StatusNoShow, event.ReservationNoShow
	if req.Attended != nil && *req.Attended {
		next, eventType = reservationModel.StatusAttended, event.ReservationAttended
	}

	user := actor(ctx)

	err = s.withinSlots(ctx, []string{current.SlotID}, func(tx *sqlx.Tx, u *unit) error {
		reservation, err := s.getReservationTx(ctx, tx, id, current.SlotID)
		if err != nil {
			return err
		}

		slot, err := s.getSlotTx(ctx, tx, reservation.SlotID)
		if err != nil {
			return err
		}

		if !slot.HasEnded(timezone.Now()) {
			return failure.WithMessage(failure.ErrInvalidTransition, "attendance can only be recorded after the slot has ended") // nolint:wrapcheck
		}

		if err := s.transition(ctx, tx, &reservation, next, user); err != nil {
			return err
		}

		u.reservation(eventType, reservation)
		res.FromModel(reservation)

		return nil
	})
	if err != nil {
		return res, err
	}

	return res, nil
}
