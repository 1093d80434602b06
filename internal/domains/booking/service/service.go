package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"slices"
	"time"

	"tutorbook/config"
	"tutorbook/infras/otel"
	"tutorbook/infras/postgres"
	"tutorbook/internal/domains/booking/event"
	"tutorbook/internal/domains/booking/model"
	"tutorbook/internal/domains/booking/model/dto"
	ledgerService "tutorbook/internal/domains/ledger/service"
	paymentModel "tutorbook/internal/domains/payment/model"
	paymentDto "tutorbook/internal/domains/payment/model/dto"
	paymentRepo "tutorbook/internal/domains/payment/repository"
	planRepo "tutorbook/internal/domains/pricingplan/repository"
	reservationModel "tutorbook/internal/domains/reservation/model"
	reservationDto "tutorbook/internal/domains/reservation/model/dto"
	reservationRepo "tutorbook/internal/domains/reservation/repository"
	slotModel "tutorbook/internal/domains/slot/model"
	slotDto "tutorbook/internal/domains/slot/model/dto"
	slotRepo "tutorbook/internal/domains/slot/repository"
	workflowModel "tutorbook/internal/domains/workflow/model"
	workflowRepo "tutorbook/internal/domains/workflow/repository"
	"tutorbook/shared"
	"tutorbook/shared/cache"
	"tutorbook/shared/constant"
	gDto "tutorbook/shared/dto"
	"tutorbook/shared/failure"
	"tutorbook/shared/lock"
	gModel "tutorbook/shared/model"
	"tutorbook/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Booking drives reservations and their payments through their lifecycles.
//
// Every operation that changes seats first takes the locks of the slots involved
// (in ascending order) and then runs in a single transaction, so the ledger and the
// reservation rows always move together. Inside a transaction rows are locked
// payment first, then reservations, then slots.
type Booking interface {
	CreateReservation(ctx context.Context, req dto.CreateReservationRequest) (dto.BookingResponse, error)
	CreateBundleReservation(ctx context.Context, req dto.CreateBundleReservationRequest) (dto.BookingResponse, error)
	GetReservation(ctx context.Context, id string) (dto.ReservationDetailResponse, error)
	GetReservations(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (reservationDto.GetReservationsResponse, error)
	CancelReservation(ctx context.Context, id string) (reservationDto.ReservationResponse, error)
	RequestRefund(ctx context.Context, id string) (reservationDto.ReservationResponse, error)
	ProcessRefund(ctx context.Context, id string) (reservationDto.ReservationResponse, error)
	RequestReschedule(ctx context.Context, id string, req dto.RescheduleRequest) (reservationDto.ReservationResponse, error)
	RescheduleCandidates(ctx context.Context, id string, params gDto.QueryParams) (slotDto.GetSlotsResponse, error)
	MarkAttendance(ctx context.Context, id string, req dto.AttendanceRequest) (reservationDto.ReservationResponse, error)
	GetPayment(ctx context.Context, id string) (paymentDto.PaymentResponse, error)
	ConfirmPayment(ctx context.Context, id string, req paymentDto.ConfirmPaymentRequest) (paymentDto.PaymentResponse, error)
	RejectPayment(ctx context.Context, id string, req paymentDto.RejectPaymentRequest) (paymentDto.PaymentResponse, error)
	CancelSlot(ctx context.Context, slotID string) (dto.CancelSlotResponse, error)
	CompleteEndedSlots(ctx context.Context) (int, error)
	ExpireStaleReservations(ctx context.Context) (int, error)
}

type serviceImpl struct {
	cfg             *config.Config
	transactor      postgres.Transactor
	locker          lock.Locker
	slotRepo        slotRepo.Slot
	planRepo        planRepo.PricingPlan
	reservationRepo reservationRepo.Reservation
	paymentRepo     paymentRepo.Payment
	workflowRepo    workflowRepo.Workflow
	ledger          ledgerService.Ledger
	publisher       event.Publisher
	cache           cache.RedisCache
	otel            otel.Otel
}

func New(
	cfg *config.Config,
	transactor postgres.Transactor,
	locker lock.Locker,
	slotRepo slotRepo.Slot,
	planRepo planRepo.PricingPlan,
	reservationRepo reservationRepo.Reservation,
	paymentRepo paymentRepo.Payment,
	workflowRepo workflowRepo.Workflow,
	ledger ledgerService.Ledger,
	publisher event.Publisher,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		cfg:             cfg,
		transactor:      transactor,
		locker:          locker,
		slotRepo:        slotRepo,
		planRepo:        planRepo,
		reservationRepo: reservationRepo,
		paymentRepo:     paymentRepo,
		workflowRepo:    workflowRepo,
		ledger:          ledger,
		publisher:       publisher,
		cache:           cache,
		otel:            otel,
	}
}

// unit collects what a transaction has to announce once it commits.
type unit struct {
	event.Recorder
	slots []string
}

func (u *unit) reservation(eventType event.Type, reservation reservationModel.Reservation) {
	var data reservationDto.ReservationResponse
	data.FromModel(reservation)

	u.Record(eventType, reservation.ID, data)
}

func (u *unit) payment(eventType event.Type, payment paymentModel.Payment) {
	var data paymentDto.PaymentResponse
	data.FromModel(payment)

	u.Record(eventType, payment.ID, data)
}

func (u *unit) slot(eventType event.Type, slot slotModel.Slot) {
	var data slotDto.SlotResponse
	data.FromModel(slot)

	u.Record(eventType, slot.ID, data)
	u.slots = append(u.slots, slot.ID)
}

// withinSlots locks slotIDs, runs fn in one transaction and publishes what fn recorded
// after the commit. Nothing is published when fn fails.
func (s *serviceImpl) withinSlots(ctx context.Context, slotIDs []string, fn func(tx *sqlx.Tx, u *unit) error) error {
	keys := make([]string, len(slotIDs))
	for i, slotID := range slotIDs {
		keys[i] = slotModel.LockKey(slotID)
	}

	release, err := s.locker.Acquire(ctx, keys...)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer release()

	var u unit

	err = s.transactor.WithinTx(ctx, func(tx *sqlx.Tx) error {
		u = unit{}

		return fn(tx, &u)
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	s.publisher.Publish(ctx, u.Events()...)

	if len(u.slots) > 0 {
		go func() {
			c := context.WithoutCancel(ctx)

			for _, slotID := range u.slots {
				if err := s.cache.Delete(c, shared.BuildCacheKey(slotModel.CacheGet, slotID)); err != nil {
					log.Error().Err(err).Str("slot_id", slotID).Msg("failed to delete slot cache")
				}
			}

			shared.InvalidateCaches(c, s.cache, slotModel.CacheGetAll)
		}()
	}

	return nil
}

// actor names who is making a change. Background work runs as the system.
func actor(ctx context.Context) string {
	user, _ := shared.UserFromContext(ctx)
	if user == constant.Empty {
		return model.ActorSystem
	}

	return user
}

// authorize lets staff act on anything and students only on what they own.
func authorize(ctx context.Context, studentID string) error {
	user, role := shared.UserFromContext(ctx)
	if user == constant.Empty || shared.IsStaff(role) || user == studentID {
		return nil
	}

	return failure.ResourceRestrictedError
}

// studentFor resolves whom a new booking is for. Staff must name the student.
func studentFor(ctx context.Context, requested string) (string, error) {
	user, role := shared.UserFromContext(ctx)
	if user == constant.Empty {
		return "", failure.Unauthorized("authentication required") // nolint:wrapcheck
	}

	if !shared.IsStaff(role) {
		if requested != constant.Empty && requested != user {
			return "", failure.ResourceRestrictedError
		}

		return user, nil
	}

	if requested == constant.Empty {
		return "", failure.BadRequestFromString("student_id is required when booking on behalf of a student") // nolint:wrapcheck
	}

	return requested, nil
}

func reservationByID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, reservationModel.FieldID, reservationModel.TableName)
}

func reservationsByPayment(paymentID string, statuses ...reservationModel.Status) gDto.FilterGroup {
	filter := shared.FilterByID(paymentID, reservationModel.FieldPaymentID, reservationModel.TableName)
	if len(statuses) == 0 {
		return filter
	}

	filter.Operator = gDto.FilterGroupOperatorAnd
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    reservationModel.FieldStatus,
		Value:    reservationModel.StatusStrings(statuses...),
		Operator: gDto.FilterOperatorIn,
		Table:    reservationModel.TableName,
	})

	return filter
}

func reservationsBySlot(slotID string, statuses ...reservationModel.Status) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    reservationModel.FieldSlotID,
				Value:    slotID,
				Operator: gDto.FilterOperatorEq,
				Table:    reservationModel.TableName,
			},
			gDto.Filter{
				Field:    reservationModel.FieldStatus,
				Value:    reservationModel.StatusStrings(statuses...),
				Operator: gDto.FilterOperatorIn,
				Table:    reservationModel.TableName,
			},
		},
	}
}

func (s *serviceImpl) getReservation(ctx context.Context, id string) (reservationModel.Reservation, error) {
	reservation, err := s.reservationRepo.Get(ctx, reservationByID(id))
	if err != nil {
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	return reservation, nil
}

// getReservationTx reloads a reservation under its row lock and makes sure it still
// sits on the slot whose lock the caller holds.
func (s *serviceImpl) getReservationTx(ctx context.Context, tx *sqlx.Tx, id string, lockedSlots ...string) (reservationModel.Reservation, error) {
	reservation, err := s.reservationRepo.GetTx(ctx, tx, reservationByID(id))
	if err != nil {
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to lock reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if len(lockedSlots) > 0 {
		return reservation, ensureLocked(reservation, lockedSlots)
	}

	return reservation, nil
}

// ensureLocked fails when the reservation sits on a slot the caller did not lock,
// which happens when it moved between the unlocked read and taking the locks.
func ensureLocked(reservation reservationModel.Reservation, lockedSlots []string) error {
	if slices.Contains(lockedSlots, reservation.SlotID) {
		return nil
	}

	log.Warn().Str("reservation_id", reservation.ID).Msg("reservation moved while waiting for its slot lock")

	return failure.ErrUnavailable
}

func (s *serviceImpl) getSlotTx(ctx context.Context, tx *sqlx.Tx, id string) (slotModel.Slot, error) {
	slot, err := s.slotRepo.GetTx(ctx, tx, shared.FilterByID(id, slotModel.FieldID, slotModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("slot_id", id).Msg("failed to lock slot")

		return slot, fmt.Errorf("failed to get slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return slot, failure.NotFound("slot not found") // nolint:wrapcheck
	}

	return slot, nil
}

func (s *serviceImpl) getPayment(ctx context.Context, id string) (paymentModel.Payment, error) {
	payment, err := s.paymentRepo.Get(ctx, shared.FilterByID(id, paymentModel.FieldID, paymentModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("payment_id", id).Msg("failed to get payment")

		return payment, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return payment, failure.NotFound("payment not found") // nolint:wrapcheck
	}

	return payment, nil
}

func (s *serviceImpl) getPaymentTx(ctx context.Context, tx *sqlx.Tx, id string) (paymentModel.Payment, error) {
	payment, err := s.paymentRepo.GetTx(ctx, tx, shared.FilterByID(id, paymentModel.FieldID, paymentModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("payment_id", id).Msg("failed to lock payment")

		return payment, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return payment, failure.NotFound("payment not found") // nolint:wrapcheck
	}

	return payment, nil
}

func (s *serviceImpl) updateReservationTx(ctx context.Context, tx *sqlx.Tx, reservation reservationModel.Reservation, user string) error {
	updatedFields := map[string]any{
		reservationModel.FieldStatus: reservation.Status,
		reservationModel.FieldSlotID: reservation.SlotID,
		constant.FieldModifiedAt:     timezone.Now(),
		constant.FieldModifiedBy:     user,
	}

	if err := s.reservationRepo.UpdateTx(ctx, tx, updatedFields, reservationByID(reservation.ID)); err != nil {
		log.Error().Err(err).Str("reservation_id", reservation.ID).Msg("failed to update reservation")

		return fmt.Errorf("failed to update reservation: %w", err)
	}

	return nil
}

func (s *serviceImpl) updatePaymentTx(ctx context.Context, tx *sqlx.Tx, payment paymentModel.Payment, user string) error {
	updatedFields := map[string]any{
		paymentModel.FieldStatus:               payment.Status,
		paymentModel.FieldProvider:             payment.Provider,
		paymentModel.FieldTransactionReference: payment.TransactionReference,
		paymentModel.FieldRequiresManualReview: payment.RequiresManualReview,
		paymentModel.FieldReviewReason:         payment.ReviewReason,
		constant.FieldModifiedAt:               timezone.Now(),
		constant.FieldModifiedBy:               user,
	}

	filter := shared.FilterByID(payment.ID, paymentModel.FieldID, paymentModel.TableName)
	if err := s.paymentRepo.UpdateTx(ctx, tx, updatedFields, filter); err != nil {
		log.Error().Err(err).Str("payment_id", payment.ID).Msg("failed to update payment")

		return fmt.Errorf("failed to update payment: %w", err)
	}

	return nil
}

func (s *serviceImpl) updateSlotStatusTx(ctx context.Context, tx *sqlx.Tx, slot slotModel.Slot, user string) error {
	updatedFields := map[string]any{
		slotModel.FieldStatus:    slot.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	filter := shared.FilterByID(slot.ID, slotModel.FieldID, slotModel.TableName)
	if err := s.slotRepo.UpdateTx(ctx, tx, updatedFields, filter); err != nil {
		log.Error().Err(err).Str("slot_id", slot.ID).Msg("failed to update slot status")

		return fmt.Errorf("failed to update slot status: %w", err)
	}

	return nil
}

func (s *serviceImpl) updateWorkflowTx(ctx context.Context, tx *sqlx.Tx, workflow workflowModel.Workflow, user string) error {
	updatedFields := map[string]any{
		workflowModel.FieldState:  workflow.State,
		workflowModel.FieldReason: workflow.Reason,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  user,
	}

	filter := shared.FilterByID(workflow.ID, workflowModel.FieldID, workflowModel.TableName)
	if err := s.workflowRepo.UpdateTx(ctx, tx, updatedFields, filter); err != nil {
		log.Error().Err(err).Str("workflow_id", workflow.ID).Msg("failed to update workflow")

		return fmt.Errorf("failed to update workflow: %w", err)
	}

	return nil
}

// transition moves a reservation to next, gives back the seat it held when next no
// longer holds one and stores the result.
func (s *serviceImpl) transition(ctx context.Context, tx *sqlx.Tx, reservation *reservationModel.Reservation, next reservationModel.Status, user string) error {
	previous := reservation.Status
	if err := reservation.TransitionTo(next); err != nil {
		return err //nolint:wrapcheck
	}

	if previous.HoldsSeat() && !next.HoldsSeat() {
		if _, err := s.ledger.Release(ctx, tx, reservation.SlotID, previous.HoldsConfirmedSeat()); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return s.updateReservationTx(ctx, tx, *reservation, user)
}

// promote confirms a candidate slot once it has enough paid seats.
func (s *serviceImpl) promote(ctx context.Context, tx *sqlx.Tx, u *unit, slot *slotModel.Slot, confirmedSeats int, user string) error {
	if !slot.ShouldPromote(confirmedSeats) {
		return nil
	}

	if err := slot.TransitionTo(slotModel.StatusConfirmed); err != nil {
		return err //nolint:wrapcheck
	}

	if err := s.updateSlotStatusTx(ctx, tx, *slot, user); err != nil {
		return err
	}

	log.Info().Str("slot_id", slot.ID).Int("confirmed", confirmedSeats).Msg("slot reached its minimum and is confirmed")
	u.slot(event.SlotConfirmed, *slot)

	return nil
}

// requestRefund moves a confirmed reservation to to_refund, frees its seat and opens a refund workflow.
func (s *serviceImpl) requestRefund(ctx context.Context, tx *sqlx.Tx, u *unit, reservation *reservationModel.Reservation, user string, now time.Time) error {
	if reservation.PaymentID == nil {
		return failure.WithMessage(failure.ErrInvalidTransition, "reservation has no payment to refund") // nolint:wrapcheck
	}

	if err := s.transition(ctx, tx, reservation, reservationModel.StatusToRefund, user); err != nil {
		return err
	}

	workflow := workflowModel.NewRefund(uuid.NewString(), reservation.ID, reservation.SlotID, *reservation.PaymentID, gModel.NewMetadata(user, now))
	if err := s.workflowRepo.InsertTx(ctx, tx, workflow); err != nil {
		log.Error().Err(err).Str("reservation_id", reservation.ID).Msg("failed to open refund workflow")

		return fmt.Errorf("failed to open refund workflow: %w", err)
	}

	u.reservation(event.ReservationRefundRequested, *reservation)

	return nil
}
