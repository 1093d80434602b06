package router

import (
	"tutorbook/internal/handlers/calendar"
	"tutorbook/internal/handlers/payment"
	"tutorbook/internal/handlers/pricingplan"
	"tutorbook/internal/handlers/reservation"
	"tutorbook/internal/handlers/slot"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Slot        slot.Handler
	PricingPlan pricingplan.Handler
	Reservation reservation.Handler
	Payment     payment.Handler
	Calendar    calendar.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Slot.Router(routerGroup)
		r.DomainHandlers.PricingPlan.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Calendar.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
