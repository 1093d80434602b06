package dto

import (
	"tutorbook/internal/domains/payment/model"
	gDto "tutorbook/shared/dto"
)

type PaymentResponse struct {
	ID                   string `json:"id"`
	StudentID            string `json:"student_id"`
	PricingPlanID        string `json:"pricing_plan_id"`
	Amount               int64  `json:"amount"`
	Currency             string `json:"currency"`
	Status               string `json:"status"`
	Provider             string `json:"provider"`
	TransactionReference string `json:"transaction_reference,omitempty"`
	RequiresManualReview bool   `json:"requires_manual_review"`
	ReviewReason         string `json:"review_reason,omitempty"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(model model.Payment) {
	r.ID = model.ID
	r.StudentID = model.StudentID
	r.PricingPlanID = model.PricingPlanID
	r.Amount = model.Amount
	r.Currency = model.Currency
	r.Status = string(model.Status)
	r.Provider = model.Provider
	r.TransactionReference = model.TransactionReference
	r.RequiresManualReview = model.RequiresManualReview
	r.ReviewReason = model.ReviewReason
	r.Metadata.FromModel(model.Metadata)
}

// ConfirmPaymentRequest carries what the collector knows about the settled transaction.
type ConfirmPaymentRequest struct {
	Provider             string `json:"provider"              validate:"omitempty,max=50"`
	TransactionReference string `json:"transaction_reference" validate:"omitempty,max=255"`
}

type RejectPaymentRequest struct {
	Provider             string `json:"provider"              validate:"omitempty,max=50"`
	TransactionReference string `json:"transaction_reference" validate:"omitempty,max=255"`
	Reason               string `json:"reason"                validate:"omitempty,max=255"`
}
