package pricingplan

import (
	"net/http"

	"tutorbook/infras/otel"
	"tutorbook/internal/domains/pricingplan/model"
	"tutorbook/internal/domains/pricingplan/model/dto"
	"tutorbook/internal/domains/pricingplan/service"
	"tutorbook/shared"
	"tutorbook/shared/constant"
	gDto "tutorbook/shared/dto"
	"tutorbook/shared/validator"
	"tutorbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.PricingPlan
	otel    otel.Otel
}

func New(service service.PricingPlan, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/pricing-plans", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePricingPlan)
		routerGroup.Get("/", handler.GetPricingPlans)
		routerGroup.Get("/{id}", handler.GetPricingPlanByID)
	})
}

// CreatePricingPlan handles the creation of a new pricing plan.
// @Summary Create a new pricing plan
// @Description Plans are immutable once created. Sessions above one make a multi-class plan.
// @Tags PricingPlan
// @Accept json
// @Produce json
// @Param request body dto.CreatePricingPlanRequest true "Create Pricing Plan Request"
// @Success 201 {object} response.Data[dto.PricingPlanResponse] "Created plan"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/pricing-plans [post]
// @Security BearerAuth
func (handler *Handler) CreatePricingPlan(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePricingPlan")
	defer scope.End()

	req := dto.CreatePricingPlanRequest{}

	if err := validator.Validate(http.MaxBytesReader(writer, request.Body, constant.RequestMaxBody), &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	plan, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create pricing plan")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Pricing plan created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, plan)
}

// GetPricingPlans retrieves all pricing plans.
// @Summary Get all pricing plans
// @Description Retrieve pricing plans with optional filtering and pagination.
// @Tags PricingPlan
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.GetPricingPlansResponse] "List of pricing plans"
// @Failure 500 {object} response.Error
// @Router /v1/pricing-plans [get]
// @Security BearerAuth
func (handler *Handler) GetPricingPlans(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPricingPlans")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true, model.FieldName, model.FieldPrice, model.FieldSessions, constant.FieldCreatedAt)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if name := request.URL.Query().Get(model.FieldName); name != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	if active := shared.ConvertStringToBool(request.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	plans, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get pricing plans")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Pricing plans retrieved successfully")

	response.WithJSON(writer, http.StatusOK, plans)
}

// GetPricingPlanByID retrieves a pricing plan by its ID.
// @Summary Get a pricing plan by ID
// @Tags PricingPlan
// @Accept json
// @Produce json
// @Param id path string true "Pricing plan ID"
// @Success 200 {object} response.Data[dto.PricingPlanResponse] "Pricing plan details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/pricing-plans/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetPricingPlanByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPricingPlanByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	plan, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("pricing_plan_id", id).Msg("failed to get pricing plan by ID")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Pricing plan retrieved successfully")

	response.WithJSON(writer, http.StatusOK, plan)
}
