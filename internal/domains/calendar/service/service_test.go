package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutorbook/infras/otel/mocks"
	"tutorbook/internal/domains/calendar/model/dto"
	"tutorbook/internal/domains/calendar/service"
	ledgerModel "tutorbook/internal/domains/ledger/model"
	ledgerMocks "tutorbook/internal/domains/ledger/service/mocks"
	slotMocks "tutorbook/internal/domains/slot/mocks"
	slotModel "tutorbook/internal/domains/slot/model"
	"tutorbook/shared/failure"
	"tutorbook/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCalendarService_Day(t *testing.T) {
	day, err := timezone.Parse(time.DateOnly, "2026-03-09")
	require.NoError(t, err)

	slot := func(id string, startHour, endHour float64) slotModel.Slot {
		return slotModel.Slot{
			ID:        id,
			StartTime: day.Add(time.Duration(startHour * float64(time.Hour))),
			EndTime:   day.Add(time.Duration(endHour * float64(time.Hour))),
			Status:    slotModel.StatusCandidate,
		}
	}

	tests := []struct {
		name      string
		req       dto.DayRequest
		setupMock func(repo *slotMocks.MockSlot, ledger *ledgerMocks.MockLedger)
		wantCode  int
		check     func(t *testing.T, res dto.DayResponse)
	}{
		{
			name: "overlapping slots render side by side",
			req:  dto.DayRequest{Date: "2026-03-09"},
			setupMock: func(repo *slotMocks.MockSlot, ledger *ledgerMocks.MockLedger) {
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]slotModel.Slot{slot("a", 9, 10), slot("b", 9.5, 10.5), slot("c", 10, 11)}, nil)
				ledger.EXPECT().GetMany(gomock.Any(), []string{"a", "b", "c"}).
					Return(map[string]ledgerModel.Ledger{"a": {SlotID: "a", Capacity: 4, Occupied: 1}}, nil)
			},
			check: func(t *testing.T, res dto.DayResponse) {
				t.Helper()

				require.Len(t, res.Entries, 3)
				assert.Equal(t, "2026-03-09", res.Date)

				assert.Equal(t, 0, res.Entries[0].Column)
				assert.Equal(t, 1, res.Entries[1].Column)
				assert.Equal(t, 0, res.Entries[2].Column)

				for _, entry := range res.Entries {
					assert.Equal(t, 2, entry.TotalColumns)
					assert.InDelta(t, 50.0, entry.Width, 1e-9)
				}

				assert.InDelta(t, 50.0, res.Entries[1].Left, 1e-9)
				require.NotNil(t, res.Entries[0].Seats)
				assert.Equal(t, 3, res.Entries[0].Seats.Available)
				assert.Nil(t, res.Entries[1].Seats)
			},
		},
		{
			name: "empty day",
			req:  dto.DayRequest{Date: "2026-03-09", ProfessorID: "prof-1"},
			setupMock: func(repo *slotMocks.MockSlot, ledger *ledgerMocks.MockLedger) {
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				ledger.EXPECT().GetMany(gomock.Any(), []string{}).Return(map[string]ledgerModel.Ledger{}, nil)
			},
			check: func(t *testing.T, res dto.DayResponse) {
				t.Helper()

				assert.Empty(t, res.Entries)
			},
		},
		{
			name:      "malformed date",
			req:       dto.DayRequest{Date: "09/03/2026"},
			setupMock: func(_ *slotMocks.MockSlot, _ *ledgerMocks.MockLedger) {},
			wantCode:  400,
		},
		{
			name: "repository error",
			req:  dto.DayRequest{Date: "2026-03-09"},
			setupMock: func(repo *slotMocks.MockSlot, _ *ledgerMocks.MockLedger) {
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := slotMocks.NewMockSlot(ctrl)
			ledger := ledgerMocks.NewMockLedger(ctrl)
			tt.setupMock(repo, ledger)

			svc := service.New(repo, ledger, mocks.NewOtel())

			res, err := svc.Day(context.Background(), tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}
