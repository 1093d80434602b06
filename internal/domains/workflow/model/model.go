package model

import (
	"tutorbook/shared/failure"
	"tutorbook/shared/model"
)

const (
	TableName  = "workflows"
	EntityName = "workflow"

	FieldID            = "id"
	FieldKind          = "kind"
	FieldReservationID = "reservation_id"
	FieldPaymentID     = "payment_id"
	FieldFromSlotID    = "from_slot_id"
	FieldToSlotID      = "to_slot_id"
	FieldState         = "state"
	FieldReason        = "reason"
)

type Kind string

const (
	KindRefund     Kind = "refund"
	KindReschedule Kind = "reschedule"
)

type State string

const (
	StateRequested State = "requested"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Workflow records one multi step request against a reservation so partial
// progress can be inspected. Kind decides which of the optional ids are set:
// refunds carry PaymentID, reschedules carry ToSlotID.
type Workflow struct {
	ID            string  `db:"id"`
	Kind          Kind    `db:"kind"`
	ReservationID string  `db:"reservation_id"`
	PaymentID     *string `db:"payment_id"`
	FromSlotID    string  `db:"from_slot_id"`
	ToSlotID      *string `db:"to_slot_id"`
	State         State   `db:"state"`
	Reason        string  `db:"reason"`
	model.Metadata
}

func NewRefund(id, reservationID, slotID, paymentID string, meta model.Metadata) Workflow {
	return Workflow{
		ID:            id,
		Kind:          KindRefund,
		ReservationID: reservationID,
		PaymentID:     &paymentID,
		FromSlotID:    slotID,
		State:         StateRequested,
		Metadata:      meta,
	}
}

func NewReschedule(id, reservationID, fromSlotID, toSlotID string, meta model.Metadata) Workflow {
	return Workflow{
		ID:            id,
		Kind:          KindReschedule,
		ReservationID: reservationID,
		FromSlotID:    fromSlotID,
		ToSlotID:      &toSlotID,
		State:         StateRequested,
		Metadata:      meta,
	}
}

func (w *Workflow) Complete() error {
	return w.finish(StateCompleted, "")
}

func (w *Workflow) Fail(reason string) error {
	return w.finish(StateFailed, reason)
}

func (w *Workflow) finish(state State, reason string) error {
	if w.State != StateRequested {
		return failure.WithMessage(failure.ErrAlreadyTerminal, string(w.Kind)+" workflow is already "+string(w.State)) // nolint:wrapcheck
	}

	w.State = state
	w.Reason = reason

	return nil
}
