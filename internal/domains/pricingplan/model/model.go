package model

import "tutorbook/shared/model"

const (
	TableName  = "pricing_plans"
	EntityName = "pricing_plan"

	FieldID       = "id"
	FieldName     = "name"
	FieldPrice    = "price"
	FieldCurrency = "currency"
	FieldSessions = "sessions"
	FieldActive   = "active"
)

const (
	CacheGet    = "pricing_plan:get"
	CacheGetAll = "pricing_plan:gets"
	CacheCount  = "pricing_plan:count"
)

// PricingPlan is an immutable catalog entry. Price is in minor currency units and
// covers Sessions reservations paid with one payment.
type PricingPlan struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Price    int64  `db:"price"`
	Currency string `db:"currency"`
	Sessions int    `db:"sessions"`
	Active   bool   `db:"active"`
	model.Metadata
}

func (p *PricingPlan) IsBundle() bool {
	return p.Sessions > 1
}
