package dto

import (
	"tutorbook/internal/domains/calendar/layout"
	slotDto "tutorbook/internal/domains/slot/model/dto"
)

type DayRequest struct {
	Date        string `json:"date"         validate:"required,datetime=2006-01-02"`
	ProfessorID string `json:"professor_id" validate:"omitempty,max=64"`
	ClassID     string `json:"class_id"     validate:"omitempty,max=64"`
	// IncludeCancelled keeps cancelled slots on the calendar.
	IncludeCancelled bool `json:"include_cancelled"`
}

// Entry is a slot together with where it renders on the day.
type Entry struct {
	slotDto.SlotResponse
	Column       int     `json:"column"`
	TotalColumns int     `json:"total_columns"`
	Width        float64 `json:"width"`
	Left         float64 `json:"left"`
}

func (e *Entry) WithPlacement(placement layout.Placement) {
	e.Column = placement.Column
	e.TotalColumns = placement.TotalColumns
	e.Width = placement.Width
	e.Left = placement.Left
}

type DayResponse struct {
	Date    string  `json:"date"`
	Entries []Entry `json:"entries"`
}
