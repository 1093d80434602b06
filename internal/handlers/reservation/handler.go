package reservation

import (
	"context"
	"net/http"

	"tutorbook/infras/otel"
	"tutorbook/internal/domains/booking/model/dto"
	"tutorbook/internal/domains/booking/service"
	"tutorbook/internal/domains/reservation/model"
	slotModel "tutorbook/internal/domains/slot/model"
	"tutorbook/shared"
	"tutorbook/shared/constant"
	gDto "tutorbook/shared/dto"
	"tutorbook/shared/failure"
	"tutorbook/shared/validator"
	"tutorbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Post("/bundle", handler.CreateBundleReservation)
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Get("/mine", handler.GetMyReservations)
		routerGroup.Get("/{id}", handler.GetReservationByID)
		routerGroup.Post("/{id}/cancel", handler.CancelReservation)
		routerGroup.Post("/{id}/refund-request", handler.RequestRefund)
		routerGroup.Post("/{id}/refund", handler.ProcessRefund)
		routerGroup.Post("/{id}/reschedule", handler.RequestReschedule)
		routerGroup.Get("/{id}/reschedule-candidates", handler.GetRescheduleCandidates)
		routerGroup.Post("/{id}/attendance", handler.MarkAttendance)
	})
}

// CreateReservation reserves a seat on a slot.
// @Summary Reserve a slot
// @Description Creates a pending reservation and its pending payment. The seat is held until the payment settles or the reservation expires.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Param request body dto.CreateReservationRequest true "Create Reservation Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Reservation and payment"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Slot full or closed"
// @Failure 503 {object} response.Error
// @Router /v1/reservations [post]
// @Security BearerAuth
func (handler *Handler) CreateReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	req := dto.CreateReservationRequest{}

	if err := validator.Validate(http.MaxBytesReader(writer, request.Body, constant.RequestMaxBody), &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.CreateReservation(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("slot_id", req.SlotID).Msg("failed to create reservation")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Reservation created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, booking)
}

// CreateBundleReservation reserves several slots paid with one multi-class plan.
// @Summary Reserve several slots with one payment
// @Description Either every slot gets a pending reservation or none does.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Param request body dto.CreateBundleReservationRequest true "Create Bundle Reservation Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Reservations and payment"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/reservations/bundle [post]
// @Security BearerAuth
func (handler *Handler) CreateBundleReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBundleReservation")
	defer scope.End()

	req := dto.CreateBundleReservationRequest{}

	if err := validator.Validate(http.MaxBytesReader(writer, request.Body, constant.RequestMaxBody), &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.CreateBundleReservation(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Strs("slot_ids", req.SlotIDs).Msg("failed to create bundle reservation")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Bundle reservation created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetReservations lists reservations. Students only ever see their own.
// @Summary Get all reservations
// @Tags Reservation
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param slot_id query string false "Filter by slot ID"
// @Param student_id query string false "Filter by student ID"
// @Success 200 {object} response.Data[reservationDto.GetReservationsResponse] "List of reservations"
// @Failure 500 {object} response.Error
// @Router /v1/reservations [get]
// @Security BearerAuth
func (handler *Handler) GetReservations(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true, reservationSortable...)

	handler.list(ctx, writer, scope, queryParams, reservationFilter(request, constant.Empty))
}

// GetMyReservations lists the reservations of the caller.
// @Summary Get my reservations
// @Tags Reservation
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[reservationDto.GetReservationsResponse] "List of reservations"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyReservations(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyReservations")
	defer scope.End()

	user, _ := shared.UserFromContext(ctx)
	if user == constant.Empty {
		err := failure.Unauthorized("authentication required")
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true, reservationSortable...)

	handler.list(ctx, writer, scope, queryParams, reservationFilter(request, user))
}

func (handler *Handler) list(ctx context.Context, writer http.ResponseWriter, scope otel.Scope, params gDto.QueryParams, filter gDto.FilterGroup) {
	reservations, err := handler.service.GetReservations(ctx, params, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Reservations retrieved successfully")

	response.WithJSON(writer, http.StatusOK, reservations)
}

// reservationFilter builds the list filter from the query. A non-empty studentID
// overrides the student_id query parameter.
var reservationSortable = []string{model.FieldStatus, model.FieldSlotID, constant.FieldCreatedAt, constant.FieldModifiedAt}

func reservationFilter(request *http.Request, studentID string) gDto.FilterGroup {
	query := request.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	values := map[string]string{
		model.FieldStatus:    query.Get(model.FieldStatus),
		model.FieldSlotID:    query.Get(model.FieldSlotID),
		model.FieldStudentID: query.Get(model.FieldStudentID),
	}

	if studentID != constant.Empty {
		values[model.FieldStudentID] = studentID
	}

	for _, field := range []string{model.FieldStatus, model.FieldSlotID, model.FieldStudentID} {
		if values[field] == constant.Empty {
			continue
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    field,
			Operator: gDto.FilterOperatorEq,
			Value:    values[field],
			Table:    model.TableName,
		})
	}

	return filterGroup
}

// GetReservationByID retrieves a reservation with its payment and workflow history.
// @Summary Get a reservation by ID
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationDetailResponse] "Reservation details"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReservationByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	reservation, err := handler.service.GetReservation(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to get reservation by ID")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Reservation retrieved successfully")

	response.WithJSON(writer, http.StatusOK, reservation)
}

// CancelReservation gives up a reservation that has not been paid yet.
// @Summary Cancel a pending reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[reservationDto.ReservationResponse] "Cancelled reservation"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelReservation")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	reservation, err := handler.service.CancelReservation(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to cancel reservation")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Reservation cancelled")

	response.WithJSON(writer, http.StatusOK, reservation)
}

// RequestRefund asks for the payment of a confirmed reservation back.
// @Summary Request a refund
// @Description Allowed until the refund cutoff before the slot starts, or any time after the slot was cancelled.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[reservationDto.ReservationResponse] "Reservation waiting for refund"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/refund-request [post]
// @Security BearerAuth
func (handler *Handler) RequestRefund(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RequestRefund")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	reservation, err := handler.service.RequestRefund(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to request refund")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Refund requested")

	response.WithJSON(writer, http.StatusOK, reservation)
}

// ProcessRefund settles a requested refund.
// @Summary Process a refund
// @Tags Reservation
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[reservationDto.ReservationResponse] "Refunded reservation"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/refund [post]
// @Security BearerAuth
func (handler *Handler) ProcessRefund(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ProcessRefund")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	reservation, err := handler.service.ProcessRefund(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to process refund")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Refund processed by user " + user)

	response.WithJSON(writer, http.StatusOK, reservation)
}

// RequestReschedule moves a confirmed reservation to another slot.
// @Summary Reschedule a reservation
// @Description The seat on the target slot is taken before the current one is released. On failure the reservation is left as it was.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Param id path string true "Reservation ID"
// @Param request body dto.RescheduleRequest true "Reschedule Request"
// @Success 200 {object} response.Data[reservationDto.ReservationResponse] "Rescheduled reservation"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Target slot full or closed"
// @Failure 503 {object} response.Error
// @Router /v1/reservations/{id}/reschedule [post]
// @Security BearerAuth
func (handler *Handler) RequestReschedule(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RequestReschedule")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)
	req := dto.RescheduleRequest{}

	if err := validator.Validate(http.MaxBytesReader(writer, request.Body, constant.RequestMaxBody), &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	reservation, err := handler.service.RequestReschedule(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", id).Str("target_slot_id", req.TargetSlotID).Msg("failed to reschedule reservation")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Reservation rescheduled to slot " + req.TargetSlotID)

	response.WithJSON(writer, http.StatusOK, reservation)
}

// GetRescheduleCandidates lists the slots a reservation could move to.
// @Summary Get reschedule candidates
// @Description Upcoming open slots of the same class with a free seat.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[slotDto.GetSlotsResponse] "Candidate slots"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/reschedule-candidates [get]
// @Security BearerAuth
func (handler *Handler) GetRescheduleCandidates(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRescheduleCandidates")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, false, slotModel.FieldStartTime, slotModel.FieldEndTime)

	slots, err := handler.service.RescheduleCandidates(ctx, id, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to get reschedule candidates")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Reschedule candidates retrieved successfully")

	response.WithJSON(writer, http.StatusOK, slots)
}

// MarkAttendance records whether the student came to the class.
// @Summary Mark attendance
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.AttendanceRequest true "Attendance Request"
// @Success 200 {object} response.Data[reservationDto.ReservationResponse] "Reservation"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/attendance [post]
// @Security BearerAuth
func (handler *Handler) MarkAttendance(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkAttendance")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)
	req := dto.AttendanceRequest{}

	if err := validator.Validate(http.MaxBytesReader(writer, request.Body, constant.RequestMaxBody), &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	reservation, err := handler.service.MarkAttendance(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to mark attendance")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Attendance marked as " + reservation.Status)

	response.WithJSON(writer, http.StatusOK, reservation)
}
