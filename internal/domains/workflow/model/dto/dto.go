package dto

import (
	"tutorbook/internal/domains/workflow/model"
	gDto "tutorbook/shared/dto"
)

type WorkflowResponse struct {
	ID            string  `json:"id"`
	Kind          string  `json:"kind"`
	ReservationID string  `json:"reservation_id"`
	PaymentID     *string `json:"payment_id,omitempty"`
	FromSlotID    string  `json:"from_slot_id"`
	ToSlotID      *string `json:"to_slot_id,omitempty"`
	State         string  `json:"state"`
	Reason        string  `json:"reason,omitempty"`
	gDto.Metadata
}

func (r *WorkflowResponse) FromModel(model model.Workflow) {
	r.ID = model.ID
	r.Kind = string(model.Kind)
	r.ReservationID = model.ReservationID
	r.PaymentID = model.PaymentID
	r.FromSlotID = model.FromSlotID
	r.ToSlotID = model.ToSlotID
	r.State = string(model.State)
	r.Reason = model.Reason
	r.Metadata.FromModel(model.Metadata)
}

func FromModels(models []model.Workflow) []WorkflowResponse {
	res := make([]WorkflowResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
