package dto

import (
	"time"

	ledgerModel "tutorbook/internal/domains/ledger/model"
	"tutorbook/internal/domains/slot/model"
	"tutorbook/shared"
	"tutorbook/shared/constant"
	gDto "tutorbook/shared/dto"
	gModel "tutorbook/shared/model"
	"tutorbook/shared/timezone"

	"github.com/google/uuid"
)

type CreateSlotRequest struct {
	ClassID       string    `json:"class_id"       validate:"required,max=64"`
	ProfessorID   string    `json:"professor_id"   validate:"omitempty,max=64"`
	StartTime     time.Time `json:"start_time"     validate:"required"`
	EndTime       time.Time `json:"end_time"       validate:"required,gtfield=StartTime"`
	Modality      string    `json:"modality"       validate:"required,oneof=remote onsite"`
	StudentsGroup string    `json:"students_group" validate:"required,oneof=group private"`
	MinStudents   int       `json:"min_students"   validate:"gte=0"`
	MaxStudents   int       `json:"max_students"   validate:"gte=0"`
}

func (c *CreateSlotRequest) ToModel(user string) model.Slot {
	maxStudents := c.MaxStudents
	minStudents := c.MinStudents

	if c.StudentsGroup == model.GroupPrivate {
		maxStudents = 1
		minStudents = min(minStudents, 1)
	}

	professorID := c.ProfessorID
	if professorID == constant.Empty {
		professorID = user
	}

	return model.Slot{
		ID:            uuid.NewString(),
		ClassID:       c.ClassID,
		ProfessorID:   professorID,
		StartTime:     c.StartTime,
		EndTime:       c.EndTime,
		Modality:      c.Modality,
		StudentsGroup: c.StudentsGroup,
		MinStudents:   minStudents,
		MaxStudents:   maxStudents,
		Status:        model.StatusCandidate,
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdateSlotRequest struct {
	StartTime   *time.Time `db:"start_time"   json:"start_time"   validate:"omitempty"`
	EndTime     *time.Time `db:"end_time"     json:"end_time"     validate:"omitempty"`
	Modality    string     `db:"modality"     json:"modality"     validate:"omitempty,oneof=remote onsite"`
	MinStudents *int       `db:"min_students" json:"min_students" validate:"omitempty,gte=0"`
	MaxStudents *int       `db:"max_students" json:"max_students" validate:"omitempty,gte=1"`
}

// Apply returns a copy of current with the requested changes.
func (u *UpdateSlotRequest) Apply(current model.Slot) model.Slot {
	next := current

	if u.StartTime != nil {
		next.StartTime = *u.StartTime
	}

	if u.EndTime != nil {
		next.EndTime = *u.EndTime
	}

	if u.Modality != constant.Empty {
		next.Modality = u.Modality
	}

	if u.MinStudents != nil {
		next.MinStudents = *u.MinStudents
	}

	if u.MaxStudents != nil {
		next.MaxStudents = *u.MaxStudents
	}

	return next
}

type SeatsResponse struct {
	Capacity  int `json:"capacity"`
	Occupied  int `json:"occupied"`
	Confirmed int `json:"confirmed"`
	Available int `json:"available"`
}

func (s *SeatsResponse) FromModel(ledger ledgerModel.Ledger) {
	s.Capacity = ledger.Capacity
	s.Occupied = ledger.Occupied
	s.Confirmed = ledger.Confirmed
	s.Available = ledger.Available()
}

type SlotResponse struct {
	ID            string         `json:"id"`
	ClassID       string         `json:"class_id"`
	ProfessorID   string         `json:"professor_id"`
	StartTime     string         `json:"start_time"`
	EndTime       string         `json:"end_time"`
	Modality      string         `json:"modality"`
	StudentsGroup string         `json:"students_group"`
	MinStudents   int            `json:"min_students"`
	MaxStudents   int            `json:"max_students"`
	Status        string         `json:"status"`
	Seats         *SeatsResponse `json:"seats,omitempty"`
	gDto.Metadata
}

func (r *SlotResponse) FromModel(model model.Slot) {
	r.ID = model.ID
	r.ClassID = model.ClassID
	r.ProfessorID = model.ProfessorID
	r.StartTime = timezone.Format(model.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.DateFormat)
	r.Modality = model.Modality
	r.StudentsGroup = model.StudentsGroup
	r.MinStudents = model.MinStudents
	r.MaxStudents = model.MaxStudents
	r.Status = string(model.Status)
	r.Metadata.FromModel(model.Metadata)
}

// WithSeats attaches the live seat counters. Slots without a ledger row are left untouched.
func (r *SlotResponse) WithSeats(ledgers map[string]ledgerModel.Ledger) {
	ledger, ok := ledgers[r.ID]
	if !ok {
		return
	}

	r.Seats = &SeatsResponse{}
	r.Seats.FromModel(ledger)
}

type GetSlotsResponse struct {
	Slots     []SlotResponse `json:"slots"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetSlotsResponse) FromModels(models []model.Slot, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Slots = make([]SlotResponse, len(models))
	for i, mod := range models {
		r.Slots[i].FromModel(mod)
	}
}

func (r *GetSlotsResponse) IDs() []string {
	ids := make([]string, len(r.Slots))
	for i, slot := range r.Slots {
		ids[i] = slot.ID
	}

	return ids
}
