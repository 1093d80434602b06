package model

import (
	"slices"
	"time"

	"tutorbook/shared/failure"
	"tutorbook/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID        = "id"
	FieldStudentID = "student_id"
	FieldSlotID    = "slot_id"
	FieldStatus    = "status"
	FieldPaymentID = "payment_id"
)

type Status string

const (
	StatusPending           Status = "pending"
	StatusConfirmed         Status = "confirmed"
	StatusCancelled         Status = "cancelled"
	StatusReschedulePending Status = "reschedule_pending"
	StatusToRefund          Status = "to_refund"
	StatusRefunded          Status = "refunded"
	StatusAttended          Status = "attended"
	StatusNoShow            Status = "no_show"
)

var (
	// SeatHolding lists the statuses that occupy a ledger seat.
	SeatHolding = []Status{StatusPending, StatusConfirmed, StatusReschedulePending}
	// Active lists every non terminal status.
	Active = []Status{StatusPending, StatusConfirmed, StatusReschedulePending, StatusToRefund}

	transitions = map[Status][]Status{
		StatusPending:           {StatusConfirmed, StatusCancelled},
		StatusConfirmed:         {StatusToRefund, StatusReschedulePending, StatusAttended, StatusNoShow},
		StatusReschedulePending: {StatusConfirmed},
		StatusToRefund:          {StatusRefunded},
	}
)

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCancelled, StatusRefunded, StatusAttended, StatusNoShow:
		return true
	default:
		return false
	}
}

// HoldsSeat reports whether a reservation in this status counts against slot capacity.
func (s Status) HoldsSeat() bool {
	return slices.Contains(SeatHolding, s)
}

// HoldsConfirmedSeat reports whether the held seat is counted as confirmed in the ledger.
func (s Status) HoldsConfirmedSeat() bool {
	return s == StatusConfirmed || s == StatusReschedulePending
}

func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

type Reservation struct {
	ID        string  `db:"id"`
	StudentID string  `db:"student_id"`
	SlotID    string  `db:"slot_id"`
	Status    Status  `db:"status"`
	PaymentID *string `db:"payment_id"`
	model.Metadata
}

// TransitionTo moves the reservation to next or returns AlreadyTerminal / InvalidTransition.
// The reservation is left unchanged on error.
func (r *Reservation) TransitionTo(next Status) error {
	if r.Status.IsTerminal() {
		return failure.WithMessage(failure.ErrAlreadyTerminal, "reservation is already "+string(r.Status)) // nolint:wrapcheck
	}

	if !r.Status.CanTransitionTo(next) {
		return failure.WithMessage(failure.ErrInvalidTransition, "reservation cannot move from "+string(r.Status)+" to "+string(next)) // nolint:wrapcheck
	}

	r.Status = next

	return nil
}

func (r *Reservation) HasPayment(paymentID string) bool {
	return r.PaymentID != nil && *r.PaymentID == paymentID
}

// IsExpired reports whether an unpaid hold is older than ttl.
func (r *Reservation) IsExpired(now time.Time, ttl time.Duration) bool {
	return r.Status == StatusPending && !now.Before(r.CreatedAt.Add(ttl))
}

// StatusStrings is used to build IN filters.
func StatusStrings(statuses ...Status) []string {
	res := make([]string, len(statuses))
	for i, status := range statuses {
		res[i] = string(status)
	}

	return res
}
