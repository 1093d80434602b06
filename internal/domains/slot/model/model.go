package model

import (
	"slices"
	"time"

	"tutorbook/shared/failure"
	"tutorbook/shared/model"
)

const (
	TableName  = "slots"
	EntityName = "slot"

	FieldID            = "id"
	FieldClassID       = "class_id"
	FieldProfessorID   = "professor_id"
	FieldStartTime     = "start_time"
	FieldEndTime       = "end_time"
	FieldModality      = "modality"
	FieldStudentsGroup = "students_group"
	FieldMinStudents   = "min_students"
	FieldMaxStudents   = "max_students"
	FieldStatus        = "status"
)

const (
	CacheGet    = "slot:get"
	CacheGetAll = "slot:gets"
	CacheCount  = "slot:count"
)

const (
	ModalityRemote = "remote"
	ModalityOnsite = "onsite"

	GroupShared  = "group"
	GroupPrivate = "private"
)

type Status string

const (
	StatusCandidate Status = "candidate"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusCandidate: {StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

type Slot struct {
	ID            string    `db:"id"`
	ClassID       string    `db:"class_id"`
	ProfessorID   string    `db:"professor_id"`
	StartTime     time.Time `db:"start_time"`
	EndTime       time.Time `db:"end_time"`
	Modality      string    `db:"modality"`
	StudentsGroup string    `db:"students_group"`
	MinStudents   int       `db:"min_students"`
	MaxStudents   int       `db:"max_students"`
	Status        Status    `db:"status"`
	model.Metadata
}

// LockKey names the lock that serializes seat changes on one slot.
func LockKey(slotID string) string {
	return EntityName + ":" + slotID
}

// TransitionTo moves the slot to next or explains why it cannot.
func (s *Slot) TransitionTo(next Status) error {
	if s.Status.IsTerminal() {
		return failure.WithMessage(failure.ErrAlreadyTerminal, "slot is already "+string(s.Status)) // nolint:wrapcheck
	}

	if !s.Status.CanTransitionTo(next) {
		return failure.WithMessage(failure.ErrInvalidTransition, "slot cannot move from "+string(s.Status)+" to "+string(next)) // nolint:wrapcheck
	}

	s.Status = next

	return nil
}

// IsBookable reports whether new seats may be taken on the slot.
func (s *Slot) IsBookable() bool {
	return s.Status == StatusCandidate || s.Status == StatusConfirmed
}

// HasEnded reports whether the slot end time is at or before now.
func (s *Slot) HasEnded(now time.Time) bool {
	return !now.Before(s.EndTime)
}

// ShouldPromote reports whether enough confirmed seats exist to confirm a candidate slot.
func (s *Slot) ShouldPromote(confirmedSeats int) bool {
	return s.Status == StatusCandidate && confirmedSeats >= max(s.MinStudents, 1)
}

// Capacity returns the seat count the ledger must enforce. Private slots always seat one student.
func (s *Slot) Capacity() int {
	if s.StudentsGroup == GroupPrivate {
		return 1
	}

	return s.MaxStudents
}
