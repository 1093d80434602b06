package dto

import (
	"tutorbook/internal/domains/booking/model"
	paymentDto "tutorbook/internal/domains/payment/model/dto"
	reservationDto "tutorbook/internal/domains/reservation/model/dto"
	workflowDto "tutorbook/internal/domains/workflow/model/dto"
)

type CreateReservationRequest struct {
	SlotID        string `json:"slot_id"         validate:"required,max=64"`
	PricingPlanID string `json:"pricing_plan_id" validate:"required,max=64"`
	// StudentID lets staff book on behalf of a student. It is ignored for students.
	StudentID string `json:"student_id" validate:"omitempty,max=64"`
}

type CreateBundleReservationRequest struct {
	SlotIDs       []string `json:"slot_ids"        validate:"required,min=1,max=50,unique,dive,required,max=64"`
	PricingPlanID string   `json:"pricing_plan_id" validate:"required,max=64"`
	StudentID     string   `json:"student_id"      validate:"omitempty,max=64"`
}

type RescheduleRequest struct {
	TargetSlotID string `json:"target_slot_id" validate:"required,max=64"`
}

type AttendanceRequest struct {
	Attended *bool `json:"attended" validate:"required"`
}

type BookingResponse struct {
	Payment      paymentDto.PaymentResponse           `json:"payment"`
	Reservations []reservationDto.ReservationResponse `json:"reservations"`
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.Payment.FromModel(booking.Payment)

	r.Reservations = make([]reservationDto.ReservationResponse, len(booking.Reservations))
	for i, reservation := range booking.Reservations {
		r.Reservations[i].FromModel(reservation)
	}
}

// ReservationDetailResponse is a reservation with its payment and workflow history.
type ReservationDetailResponse struct {
	reservationDto.ReservationResponse
	Payment   *paymentDto.PaymentResponse    `json:"payment,omitempty"`
	Workflows []workflowDto.WorkflowResponse `json:"workflows"`
}

type CancelSlotResponse struct {
	SlotID                string `json:"slot_id"`
	Status                string `json:"status"`
	CancelledReservations int    `json:"cancelled_reservations"`
	RefundRequests        int    `json:"refund_requests"`
}
