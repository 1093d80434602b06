package model

import (
	"fmt"
	"slices"

	paymentModel "tutorbook/internal/domains/payment/model"
	planModel "tutorbook/internal/domains/pricingplan/model"
	reservationModel "tutorbook/internal/domains/reservation/model"
	"tutorbook/shared/failure"
	"tutorbook/shared/model"

	"github.com/google/uuid"
)

// SweepBatchSize bounds how many rows one background sweep handles per run.
const SweepBatchSize = 100

// ActorSystem is recorded as the author of changes made without a user, such as sweeps and webhooks.
const ActorSystem = "system"

// Booking is one purchase: a payment and the reservations it funds.
type Booking struct {
	Payment      paymentModel.Payment
	Reservations []reservationModel.Reservation
}

// CheckPlan verifies that plan can pay for exactly the given slots.
func CheckPlan(plan planModel.PricingPlan, slotIDs []string) error {
	if !plan.Active {
		return failure.BadRequestFromString("pricing plan is not active") // nolint:wrapcheck
	}

	if len(slotIDs) != plan.Sessions {
		return failure.BadRequestFromString(fmt.Sprintf("pricing plan covers %d sessions, got %d slots", plan.Sessions, len(slotIDs))) // nolint:wrapcheck
	}

	sorted := slices.Clone(slotIDs)
	slices.Sort(sorted)

	if len(slices.Compact(sorted)) != len(slotIDs) {
		return failure.BadRequestFromString("a slot can only be booked once per purchase") // nolint:wrapcheck
	}

	return nil
}

// New builds a pending payment for plan and one pending reservation per slot, in the given order.
func New(studentID string, plan planModel.PricingPlan, slotIDs []string, meta model.Metadata) Booking {
	paymentID := uuid.NewString()

	booking := Booking{
		Payment: paymentModel.Payment{
			ID:            paymentID,
			StudentID:     studentID,
			PricingPlanID: plan.ID,
			Amount:        plan.Price,
			Currency:      plan.Currency,
			Status:        paymentModel.StatusPending,
			Metadata:      meta,
		},
		Reservations: make([]reservationModel.Reservation, len(slotIDs)),
	}

	for i, slotID := range slotIDs {
		booking.Reservations[i] = reservationModel.Reservation{
			ID:        uuid.NewString(),
			StudentID: studentID,
			SlotID:    slotID,
			Status:    reservationModel.StatusPending,
			PaymentID: &paymentID,
			Metadata:  meta,
		}
	}

	return booking
}
