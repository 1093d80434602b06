package calendar_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	otelMocks "tutorbook/infras/otel/mocks"
	calendarMocks "tutorbook/internal/domains/calendar/mocks"
	"tutorbook/internal/domains/calendar/model/dto"
	"tutorbook/internal/handlers/calendar"
	"tutorbook/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestHandler_GetDay(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setupMock  func(service *calendarMocks.MockCalendar)
		wantStatus int
	}{
		{
			name:   "day with filters",
			target: "/calendar/day?date=2026-05-04&professor_id=prof-1&include_cancelled=true",
			setupMock: func(service *calendarMocks.MockCalendar) {
				service.EXPECT().
					Day(gomock.Any(), dto.DayRequest{Date: "2026-05-04", ProfessorID: "prof-1", IncludeCancelled: true}).
					Return(dto.DayResponse{Date: "2026-05-04", Entries: []dto.Entry{{Column: 0, TotalColumns: 2, Width: 0.5}}}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing date",
			target:     "/calendar/day",
			setupMock:  func(*calendarMocks.MockCalendar) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed date",
			target:     "/calendar/day?date=04/05/2026",
			setupMock:  func(*calendarMocks.MockCalendar) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "service failure",
			target: "/calendar/day?date=2026-05-04",
			setupMock: func(service *calendarMocks.MockCalendar) {
				service.EXPECT().Day(gomock.Any(), gomock.Any()).Return(dto.DayResponse{}, failure.InternalError(assert.AnError))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := calendarMocks.NewMockCalendar(ctrl)
			tt.setupMock(service)

			handler := calendar.New(service, otelMocks.NewOtel())

			router := chi.NewRouter()
			handler.Router(router)

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, tt.target, http.NoBody))

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}
