package model

import (
	"fmt"
	"time"

	"tutorbook/shared/failure"
)

const (
	TableName  = "slot_ledgers"
	EntityName = "ledger"

	FieldSlotID     = "slot_id"
	FieldCapacity   = "capacity"
	FieldOccupied   = "occupied"
	FieldConfirmed  = "confirmed"
	FieldVersion    = "version"
	FieldModifiedAt = "modified_at"
)

// Ledger is the seat counter of one slot. Occupied counts every seat holding reservation,
// Confirmed the subset that is paid for.
type Ledger struct {
	SlotID     string    `db:"slot_id"     json:"slot_id"`
	Capacity   int       `db:"capacity"    json:"capacity"`
	Occupied   int       `db:"occupied"    json:"occupied"`
	Confirmed  int       `db:"confirmed"   json:"confirmed"`
	Version    int64     `db:"version"     json:"version"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
}

func New(slotID string, capacity int, now time.Time) Ledger {
	return Ledger{
		SlotID:     slotID,
		Capacity:   capacity,
		Version:    1,
		ModifiedAt: now,
	}
}

func (l *Ledger) Available() int {
	return max(l.Capacity-l.Occupied, 0)
}

func (l *Ledger) IsFull() bool {
	return l.Occupied >= l.Capacity
}

// Reserve holds one unpaid seat.
func (l *Ledger) Reserve() error {
	if l.IsFull() {
		return failure.ErrSlotFull
	}

	l.Occupied++

	return nil
}

// ReserveConfirmed holds one seat that is already paid for.
func (l *Ledger) ReserveConfirmed() error {
	if err := l.Reserve(); err != nil {
		return err
	}

	l.Confirmed++

	return nil
}

// Confirm marks one held seat as paid.
func (l *Ledger) Confirm() error {
	if l.Confirmed >= l.Occupied {
		return fmt.Errorf("ledger %s has no unconfirmed seat to confirm", l.SlotID)
	}

	l.Confirmed++

	return nil
}

// Release gives one seat back. confirmed tells whether the seat was a paid one.
func (l *Ledger) Release(confirmed bool) error {
	if l.Occupied == 0 || (confirmed && l.Confirmed == 0) {
		return fmt.Errorf("ledger %s has no seat to release", l.SlotID)
	}

	l.Occupied--

	if confirmed {
		l.Confirmed--
	}

	return nil
}

// Resize changes the capacity. It never drops below the seats already held.
func (l *Ledger) Resize(capacity int) error {
	if capacity < 1 || capacity < l.Occupied {
		return failure.Conflict(fmt.Sprintf("capacity cannot be lower than the %d seats already held", max(l.Occupied, 1))) // nolint:wrapcheck
	}

	l.Capacity = capacity

	return nil
}
