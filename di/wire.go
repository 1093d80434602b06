//go:build wireinject
// +build wireinject

package di

import (
	"tutorbook/config"
	"tutorbook/infras/jwt"
	"tutorbook/infras/kafka"
	"tutorbook/infras/otel"
	"tutorbook/infras/postgres"
	"tutorbook/infras/redis"
	"tutorbook/infras/stripe"
	"tutorbook/internal/jobs"
	"tutorbook/permissions"
	"tutorbook/shared/cache"
	"tutorbook/shared/lock"
	"tutorbook/transport/http"
	"tutorbook/transport/http/middleware"
	"tutorbook/transport/http/router"

	bookingEvent "tutorbook/internal/domains/booking/event"
	bookingService "tutorbook/internal/domains/booking/service"
	calendarService "tutorbook/internal/domains/calendar/service"
	ledgerRepository "tutorbook/internal/domains/ledger/repository"
	ledgerService "tutorbook/internal/domains/ledger/service"
	paymentRepository "tutorbook/internal/domains/payment/repository"
	pricingPlanRepository "tutorbook/internal/domains/pricingplan/repository"
	pricingPlanService "tutorbook/internal/domains/pricingplan/service"
	reservationRepository "tutorbook/internal/domains/reservation/repository"
	slotRepository "tutorbook/internal/domains/slot/repository"
	slotService "tutorbook/internal/domains/slot/service"
	workflowRepository "tutorbook/internal/domains/workflow/repository"

	calendarHandler "tutorbook/internal/handlers/calendar"
	paymentHandler "tutorbook/internal/handlers/payment"
	pricingPlanHandler "tutorbook/internal/handlers/pricingplan"
	reservationHandler "tutorbook/internal/handlers/reservation"
	slotHandler "tutorbook/internal/handlers/slot"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	stripe.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	lock.New,
)

var ledgerDomain = wire.NewSet(
	ledgerRepository.New,
	ledgerService.New,
)

var slotDomain = wire.NewSet(
	slotRepository.New,
	slotService.New,
)

var pricingPlanDomain = wire.NewSet(
	pricingPlanRepository.New,
	pricingPlanService.New,
)

var bookingDomain = wire.NewSet(
	reservationRepository.New,
	paymentRepository.New,
	workflowRepository.New,
	bookingEvent.NewPublisher,
	bookingService.New,
)

var calendarDomain = wire.NewSet(
	calendarService.New,
)

var domains = wire.NewSet(
	ledgerDomain,
	slotDomain,
	pricingPlanDomain,
	bookingDomain,
	calendarDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	slotHandler.New,
	pricingPlanHandler.New,
	reservationHandler.New,
	paymentHandler.New,
	calendarHandler.New,
	router.New,
)

var scheduling = wire.NewSet(
	jobs.New,
)

func InitializeService() (*http.HTTP, error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		scheduling,
		http.New,
	)

	return &http.HTTP{}, nil
}
