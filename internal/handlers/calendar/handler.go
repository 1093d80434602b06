package calendar

import (
	"net/http"

	"tutorbook/infras/otel"
	"tutorbook/internal/domains/calendar/model/dto"
	"tutorbook/internal/domains/calendar/service"
	slotModel "tutorbook/internal/domains/slot/model"
	"tutorbook/shared"
	"tutorbook/shared/constant"
	"tutorbook/shared/validator"
	"tutorbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const queryIncludeCancelled = "include_cancelled"

type Handler struct {
	service service.Calendar
	otel    otel.Otel
}

func New(service service.Calendar, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/calendar", func(routerGroup chi.Router) {
		routerGroup.Get("/day", handler.GetDay)
	})
}

// GetDay lays out the slots of one day as side by side columns.
// @Summary Get a calendar day
// @Description Slots overlapping the day with their column placement and live seat counts.
// @Tags Calendar
// @Accept json
// @Produce json
// @Param date query string true "Day (YYYY-MM-DD)"
// @Param professor_id query string false "Filter by professor ID"
// @Param class_id query string false "Filter by class ID"
// @Param include_cancelled query boolean false "Include cancelled slots"
// @Success 200 {object} response.Data[dto.DayResponse] "Calendar day"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/calendar/day [get]
// @Security BearerAuth
func (handler *Handler) GetDay(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDay")
	defer scope.End()

	query := request.URL.Query()

	req := dto.DayRequest{
		Date:        query.Get(constant.RequestParamDate),
		ProfessorID: query.Get(slotModel.FieldProfessorID),
		ClassID:     query.Get(slotModel.FieldClassID),
	}

	if include := shared.ConvertStringToBool(query.Get(queryIncludeCancelled)); include != nil {
		req.IncludeCancelled = *include
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate calendar query")

		response.WithError(writer, err)

		return
	}

	day, err := handler.service.Day(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("date", req.Date).Msg("failed to get calendar day")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Calendar day retrieved successfully")

	response.WithJSON(writer, http.StatusOK, day)
}
