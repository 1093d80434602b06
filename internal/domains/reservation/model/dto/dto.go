package dto

import (
	"tutorbook/internal/domains/reservation/model"
	"tutorbook/shared"
	gDto "tutorbook/shared/dto"
)

type ReservationResponse struct {
	ID        string  `json:"id"`
	StudentID string  `json:"student_id"`
	SlotID    string  `json:"slot_id"`
	Status    string  `json:"status"`
	PaymentID *string `json:"payment_id"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.StudentID = model.StudentID
	r.SlotID = model.SlotID
	r.Status = string(model.Status)
	r.PaymentID = model.PaymentID
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}
