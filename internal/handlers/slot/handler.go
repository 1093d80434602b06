package slot

import (
	"net/http"

	"tutorbook/infras/otel"
	bookingDto "tutorbook/internal/domains/booking/model/dto"
	bookingService "tutorbook/internal/domains/booking/service"
	"tutorbook/internal/domains/slot/model"
	"tutorbook/internal/domains/slot/model/dto"
	"tutorbook/internal/domains/slot/service"
	"tutorbook/shared/constant"
	gDto "tutorbook/shared/dto"
	"tutorbook/shared/failure"
	"tutorbook/shared/timezone"
	"tutorbook/shared/validator"
	"tutorbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	queryFrom = "from"
	queryTo   = "to"
)

type Handler struct {
	service service.Slot
	booking bookingService.Booking
	otel    otel.Otel
}

func New(service service.Slot, booking bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		booking: booking,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/slots", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateSlot)
		routerGroup.Get("/", handler.GetSlots)
		routerGroup.Get("/{id}", handler.GetSlotByID)
		routerGroup.Patch("/{id}", handler.UpdateSlot)
		routerGroup.Post("/{id}/cancel", handler.CancelSlot)
	})
}

// CreateSlot handles the creation of a new class slot.
// @Summary Create a new slot
// @Description Open a class slot. Private slots always seat a single student.
// @Tags Slot
// @Accept json
// @Produce json
// @Param request body dto.CreateSlotRequest true "Create Slot Request"
// @Success 201 {object} response.Data[dto.SlotResponse] "Created slot"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots [post]
// @Security BearerAuth
func (handler *Handler) CreateSlot(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSlot")
	defer scope.End()

	req := dto.CreateSlotRequest{}

	if err := validator.Validate(http.MaxBytesReader(writer, request.Body, constant.RequestMaxBody), &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	slot, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create slot")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Slot created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, slot)
}

// GetSlots retrieves slots with their live seat counts.
// @Summary Get all slots
// @Description Retrieve slots with optional filtering and pagination.
// @Tags Slot
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param class_id query string false "Filter by class ID"
// @Param professor_id query string false "Filter by professor ID"
// @Param status query string false "Filter by status (candidate, confirmed, completed, cancelled)"
// @Param from query string false "Only slots starting at or after this RFC3339 time"
// @Param to query string false "Only slots starting before this RFC3339 time"
// @Success 200 {object} response.Data[dto.GetSlotsResponse] "List of slots"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots [get]
// @Security BearerAuth
func (handler *Handler) GetSlots(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true, model.FieldStartTime, model.FieldEndTime, model.FieldMaxStudents, constant.FieldCreatedAt)

	filterGroup, err := slotFilter(request)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse slot filters")

		response.WithError(writer, err)

		return
	}

	slots, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slots")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Slots retrieved successfully")

	response.WithJSON(writer, http.StatusOK, slots)
}

func slotFilter(request *http.Request) (gDto.FilterGroup, error) {
	query := request.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldClassID, model.FieldProfessorID, model.FieldStatus} {
		if value := query.Get(field); value != constant.Empty {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	bounds := []struct {
		param    string
		operator string
	}{
		{queryFrom, gDto.FilterOperatorGreaterEq},
		{queryTo, gDto.FilterOperatorLess},
	}

	for _, bound := range bounds {
		value := query.Get(bound.param)
		if value == constant.Empty {
			continue
		}

		at, err := timezone.Parse(constant.DateFormat, value)
		if err != nil {
			return filterGroup, failure.BadRequestFromString(bound.param + " must be an RFC3339 time") // nolint:wrapcheck
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  model.FieldStartTime + "_" + bound.param,
			Field:    model.FieldStartTime,
			Operator: bound.operator,
			Value:    at,
			Table:    model.TableName,
		})
	}

	return filterGroup, nil
}

// GetSlotByID retrieves a slot by its ID.
// @Summary Get a slot by ID
// @Description Retrieve a slot and its seat counts.
// @Tags Slot
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Data[dto.SlotResponse] "Slot details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetSlotByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlotByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	slot, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("slot_id", id).Msg("failed to get slot by ID")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Slot retrieved successfully")

	response.WithJSON(writer, http.StatusOK, slot)
}

// UpdateSlot updates the schedule or capacity of a slot.
// @Summary Update a slot by ID
// @Description Change times, modality or capacity. Capacity never drops below the confirmed seats.
// @Tags Slot
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param request body dto.UpdateSlotRequest true "Update Slot Request"
// @Success 200 {object} response.Message "Slot updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateSlot(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSlot")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)
	req := dto.UpdateSlotRequest{}

	if err := validator.Validate(http.MaxBytesReader(writer, request.Body, constant.RequestMaxBody), &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("slot_id", id).Msg("failed to update slot")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Slot updated successfully by user " + user)

	response.WithMessage(writer, http.StatusOK, "Slot updated successfully")
}

// CancelSlot cancels a slot and every reservation on it.
// @Summary Cancel a slot
// @Description Pending reservations are cancelled, paid ones move to refund.
// @Tags Slot
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Data[bookingDto.CancelSlotResponse] "Cancellation summary"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelSlot(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelSlot")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	var (
		res bookingDto.CancelSlotResponse
		err error
	)

	res, err = handler.booking.CancelSlot(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("slot_id", id).Msg("failed to cancel slot")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Slot cancelled by user " + user)

	response.WithJSON(writer, http.StatusOK, res)
}
