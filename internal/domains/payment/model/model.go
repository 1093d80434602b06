package model

import (
	"slices"
	"strings"

	"tutorbook/shared/failure"
	"tutorbook/shared/model"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID                   = "id"
	FieldStudentID            = "student_id"
	FieldPricingPlanID        = "pricing_plan_id"
	FieldAmount               = "amount"
	FieldCurrency             = "currency"
	FieldStatus               = "status"
	FieldProvider             = "provider"
	FieldTransactionReference = "transaction_reference"
	FieldRequiresManualReview = "requires_manual_review"
	FieldReviewReason         = "review_reason"
)

const ProviderManual = "manual"

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusPaid, StatusFailed},
	StatusPaid:    {StatusRefunded},
}

func (s Status) IsTerminal() bool {
	return s == StatusFailed || s == StatusRefunded
}

func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// Payment funds one or more reservations. Amount is in minor currency units.
type Payment struct {
	ID                   string `db:"id"`
	StudentID            string `db:"student_id"`
	PricingPlanID        string `db:"pricing_plan_id"`
	Amount               int64  `db:"amount"`
	Currency             string `db:"currency"`
	Status               Status `db:"status"`
	Provider             string `db:"provider"`
	TransactionReference string `db:"transaction_reference"`
	RequiresManualReview bool   `db:"requires_manual_review"`
	ReviewReason         string `db:"review_reason"`
	model.Metadata
}

func (p *Payment) TransitionTo(next Status) error {
	if p.Status.IsTerminal() {
		return failure.WithMessage(failure.ErrAlreadyTerminal, "payment is already "+string(p.Status)) // nolint:wrapcheck
	}

	if !p.Status.CanTransitionTo(next) {
		return failure.WithMessage(failure.ErrInvalidTransition, "payment cannot move from "+string(p.Status)+" to "+string(next)) // nolint:wrapcheck
	}

	p.Status = next

	return nil
}

// FlagForReview marks the payment for an operator. Reasons accumulate, a repeated reason is kept once.
func (p *Payment) FlagForReview(reason string) {
	p.RequiresManualReview = true

	if strings.Contains(p.ReviewReason, reason) {
		return
	}

	if p.ReviewReason == "" {
		p.ReviewReason = reason

		return
	}

	p.ReviewReason += "; " + reason
}
