package dto

import (
	"tutorbook/internal/domains/pricingplan/model"
	"tutorbook/shared"
	gDto "tutorbook/shared/dto"
	gModel "tutorbook/shared/model"
	"tutorbook/shared/timezone"

	"github.com/google/uuid"
)

type CreatePricingPlanRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Price    int64  `json:"price"    validate:"gte=0"`
	Currency string `json:"currency" validate:"required,currency"`
	Sessions int    `json:"sessions" validate:"omitempty,min=1,max=50"`
	Active   *bool  `json:"active"   validate:"omitempty"`
}

func (c *CreatePricingPlanRequest) ToModel(user string) model.PricingPlan {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.PricingPlan{
		ID:       uuid.NewString(),
		Name:     c.Name,
		Price:    c.Price,
		Currency: c.Currency,
		Sessions: max(c.Sessions, 1),
		Active:   active,
		Metadata: gModel.NewMetadata(user, timezone.Now()),
	}
}

type PricingPlanResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Currency string `json:"currency"`
	Sessions int    `json:"sessions"`
	Active   bool   `json:"active"`
	gDto.Metadata
}

func (r *PricingPlanResponse) FromModel(model model.PricingPlan) {
	r.ID = model.ID
	r.Name = model.Name
	r.Price = model.Price
	r.Currency = model.Currency
	r.Sessions = model.Sessions
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetPricingPlansResponse struct {
	PricingPlans []PricingPlanResponse `json:"pricing_plans"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetPricingPlansResponse) FromModels(models []model.PricingPlan, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.PricingPlans = make([]PricingPlanResponse, len(models))
	for i, mod := range models {
		r.PricingPlans[i].FromModel(mod)
	}
}
