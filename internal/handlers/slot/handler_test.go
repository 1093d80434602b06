package slot_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMocks "tutorbook/infras/otel/mocks"
	bookingMocks "tutorbook/internal/domains/booking/mocks"
	bookingDto "tutorbook/internal/domains/booking/model/dto"
	"tutorbook/internal/domains/slot/model"
	"tutorbook/internal/domains/slot/model/dto"
	slotMocks "tutorbook/internal/domains/slot/service/mocks"
	"tutorbook/internal/handlers/slot"
	gDto "tutorbook/shared/dto"
	"tutorbook/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	slots   *slotMocks.MockSlot
	booking *bookingMocks.MockBooking
	router  http.Handler
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		slots:   slotMocks.NewMockSlot(ctrl),
		booking: bookingMocks.NewMockBooking(ctrl),
	}

	handler := slot.New(f.slots, f.booking, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)
	f.router = router

	return f
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))

	return recorder
}

func TestHandler_CreateSlot(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(f fixture)
		wantStatus int
	}{
		{
			name: "created",
			body: `{"class_id":"math","start_time":"2026-05-04T10:00:00Z","end_time":"2026-05-04T11:00:00Z","modality":"remote","students_group":"group","max_students":4}`,
			setupMock: func(f fixture) {
				f.slots.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req dto.CreateSlotRequest) (dto.SlotResponse, error) {
						assert.Equal(t, "math", req.ClassID)
						assert.Equal(t, 4, req.MaxStudents)

						return dto.SlotResponse{ID: "slot-1", Status: string(model.StatusCandidate)}, nil
					})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "end before start",
			body:       `{"class_id":"math","start_time":"2026-05-04T10:00:00Z","end_time":"2026-05-04T09:00:00Z","modality":"remote","students_group":"group"}`,
			setupMock:  func(fixture) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown modality",
			body:       `{"class_id":"math","start_time":"2026-05-04T10:00:00Z","end_time":"2026-05-04T11:00:00Z","modality":"hybrid","students_group":"group"}`,
			setupMock:  func(fixture) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			recorder := f.do(http.MethodPost, "/slots", tt.body)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

func TestHandler_GetSlots(t *testing.T) {
	t.Run("builds filters from the query", func(t *testing.T) {
		f := newFixture(t)

		f.slots.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetSlotsResponse, error) {
				assert.Equal(t, 1, params.Page)
				require.Len(t, filter.Filters, 3)

				where, args := filter.GetWhereClause()
				assert.Contains(t, where, "slots.start_time >= :start_time_from")
				assert.Contains(t, where, "slots.start_time < :start_time_to")
				assert.Equal(t, "prof-1", args[model.FieldProfessorID])

				return dto.GetSlotsResponse{TotalData: 2}, nil
			})

		recorder := f.do(http.MethodGet, "/slots?professor_id=prof-1&from=2026-05-04T00:00:00Z&to=2026-05-05T00:00:00Z", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("rejects a malformed bound", func(t *testing.T) {
		f := newFixture(t)

		recorder := f.do(http.MethodGet, "/slots?from=tomorrow", "")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestHandler_GetSlotByID(t *testing.T) {
	f := newFixture(t)

	f.slots.EXPECT().Get(gomock.Any(), "slot-1").Return(dto.SlotResponse{
		ID:    "slot-1",
		Seats: &dto.SeatsResponse{Capacity: 4, Occupied: 2, Confirmed: 1, Available: 2},
	}, nil)
	f.slots.EXPECT().Get(gomock.Any(), "missing").Return(dto.SlotResponse{}, failure.NotFound("slot not found"))

	recorder := f.do(http.MethodGet, "/slots/slot-1", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"available":2`)

	recorder = f.do(http.MethodGet, "/slots/missing", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandler_UpdateSlot(t *testing.T) {
	f := newFixture(t)

	f.slots.EXPECT().
		Update(gomock.Any(), gomock.Any(), "slot-1").
		DoAndReturn(func(_ context.Context, req dto.UpdateSlotRequest, _ string) error {
			require.NotNil(t, req.MaxStudents)
			assert.Equal(t, 1, *req.MaxStudents)

			return failure.Conflict("capacity cannot drop below 2 confirmed seats")
		})

	recorder := f.do(http.MethodPatch, "/slots/slot-1", `{"max_students":1}`)

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestHandler_CancelSlot(t *testing.T) {
	f := newFixture(t)

	f.booking.EXPECT().CancelSlot(gomock.Any(), "slot-1").Return(bookingDto.CancelSlotResponse{
		SlotID:                "slot-1",
		Status:                string(model.StatusCancelled),
		CancelledReservations: 2,
		RefundRequests:        1,
	}, nil)
	f.booking.EXPECT().CancelSlot(gomock.Any(), "slot-2").Return(bookingDto.CancelSlotResponse{}, failure.ErrAlreadyTerminal)

	recorder := f.do(http.MethodPost, "/slots/slot-1/cancel", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"refund_requests":1`)

	recorder = f.do(http.MethodPost, "/slots/slot-2/cancel", "")
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Contains(t, recorder.Body.String(), failure.ReasonAlreadyTerminal)
}
