package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutorbook/config"
	"tutorbook/infras/otel/mocks"
	ledgerModel "tutorbook/internal/domains/ledger/model"
	ledgerMocks "tutorbook/internal/domains/ledger/service/mocks"
	slotMocks "tutorbook/internal/domains/slot/mocks"
	"tutorbook/internal/domains/slot/model"
	"tutorbook/internal/domains/slot/model/dto"
	"tutorbook/internal/domains/slot/service"
	cacheMocks "tutorbook/shared/cache/mocks"
	"tutorbook/shared/constant"
	"tutorbook/shared/failure"
	"tutorbook/shared/lock"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type inlineTx struct{}

func (inlineTx) WithinTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type fixture struct {
	svc    service.Slot
	repo   *slotMocks.MockSlot
	ledger *ledgerMocks.MockLedger
	cache  *cacheMocks.MockRedisCache
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:   slotMocks.NewMockSlot(ctrl),
		ledger: ledgerMocks.NewMockLedger(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 300

	locker := lock.NewLocal(lock.Options{TTL: time.Second, MaxTries: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond})
	f.svc = service.New(f.repo, f.ledger, inlineTx{}, locker, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func staffContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "prof-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleProfessor)
}

func TestSlotService_Create(t *testing.T) {
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		req       dto.CreateSlotRequest
		setupMock func(f fixture)
		wantCode  int
		wantCap   int
	}{
		{
			name: "group slot opens a ledger with max students",
			req: dto.CreateSlotRequest{
				ClassID: "chem", StartTime: start, EndTime: start.Add(time.Hour),
				Modality: model.ModalityOnsite, StudentsGroup: model.GroupShared, MinStudents: 2, MaxStudents: 6,
			},
			setupMock: func(f fixture) {
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.ledger.EXPECT().Open(gomock.Any(), gomock.Any(), gomock.Any(), 6).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, slotID string, capacity int) (ledgerModel.Ledger, error) {
						return ledgerModel.New(slotID, capacity, start), nil
					})
			},
			wantCap: 6,
		},
		{
			name: "private slot opens a single seat",
			req: dto.CreateSlotRequest{
				ClassID: "chem", StartTime: start, EndTime: start.Add(time.Hour),
				Modality: model.ModalityRemote, StudentsGroup: model.GroupPrivate, MaxStudents: 9,
			},
			setupMock: func(f fixture) {
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.ledger.EXPECT().Open(gomock.Any(), gomock.Any(), gomock.Any(), 1).
					Return(ledgerModel.Ledger{SlotID: "x", Capacity: 1}, nil)
			},
			wantCap: 1,
		},
		{
			name: "group slot without seats",
			req: dto.CreateSlotRequest{
				ClassID: "chem", StartTime: start, EndTime: start.Add(time.Hour),
				Modality: model.ModalityRemote, StudentsGroup: model.GroupShared,
			},
			setupMock: func(_ fixture) {},
			wantCode:  400,
		},
		{
			name: "min above max",
			req: dto.CreateSlotRequest{
				ClassID: "chem", StartTime: start, EndTime: start.Add(time.Hour),
				Modality: model.ModalityRemote, StudentsGroup: model.GroupShared, MinStudents: 5, MaxStudents: 4,
			},
			setupMock: func(_ fixture) {},
			wantCode:  400,
		},
		{
			name: "insert fails",
			req: dto.CreateSlotRequest{
				ClassID: "chem", StartTime: start, EndTime: start.Add(time.Hour),
				Modality: model.ModalityRemote, StudentsGroup: model.GroupShared, MaxStudents: 4,
			},
			setupMock: func(f fixture) {
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(staffContext(), tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "prof-1", res.ProfessorID)
			assert.Equal(t, string(model.StatusCandidate), res.Status)
			require.NotNil(t, res.Seats)
			assert.Equal(t, tt.wantCap, res.Seats.Capacity)
		})
	}
}

func TestSlotService_Get(t *testing.T) {
	t.Run("cache miss reads the repository and live seats", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "slot:get:s1", gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Slot{ID: "s1", Status: model.StatusCandidate}, nil)
		f.ledger.EXPECT().Get(gomock.Any(), "s1").Return(ledgerModel.Ledger{SlotID: "s1", Capacity: 3, Occupied: 2}, nil)

		res, err := f.svc.Get(context.Background(), "s1")
		require.NoError(t, err)
		assert.Equal(t, "s1", res.ID)
		assert.Equal(t, 1, res.Seats.Available)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Slot{}, nil)

		_, err := f.svc.Get(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("cache hit still reads live seats", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "slot:get:s1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res, _ := value.(*dto.SlotResponse)
				res.ID = "s1"

				return nil
			})
		f.ledger.EXPECT().Get(gomock.Any(), "s1").Return(ledgerModel.Ledger{SlotID: "s1", Capacity: 3}, nil)

		res, err := f.svc.Get(context.Background(), "s1")
		require.NoError(t, err)
		assert.Equal(t, 3, res.Seats.Available)
	})
}

func TestSlotService_Update(t *testing.T) {
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	current := model.Slot{
		ID: "s1", StartTime: start, EndTime: start.Add(time.Hour), StudentsGroup: model.GroupShared,
		MaxStudents: 4, Status: model.StatusCandidate,
	}

	tests := []struct {
		name      string
		req       dto.UpdateSlotRequest
		setupMock func(f fixture)
		wantErr   error
		wantCode  int
	}{
		{
			name: "capacity change resizes the ledger",
			req:  dto.UpdateSlotRequest{MaxStudents: ptr(6)},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(current, nil)
				f.ledger.EXPECT().Resize(gomock.Any(), gomock.Any(), "s1", 6).Return(ledgerModel.Ledger{}, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "modality change leaves the ledger alone",
			req:  dto.UpdateSlotRequest{Modality: model.ModalityRemote},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(current, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "shrinking below held seats",
			req:  dto.UpdateSlotRequest{MaxStudents: ptr(1)},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(current, nil)
				f.ledger.EXPECT().Resize(gomock.Any(), gomock.Any(), "s1", 1).
					Return(ledgerModel.Ledger{}, failure.Conflict("capacity cannot be lower than the 2 seats already held"))
			},
			wantCode: 409,
		},
		{
			name: "cancelled slot",
			req:  dto.UpdateSlotRequest{Modality: model.ModalityRemote},
			setupMock: func(f fixture) {
				cancelled := current
				cancelled.Status = model.StatusCancelled
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(cancelled, nil)
			},
			wantErr: failure.ErrSlotClosed,
		},
		{
			name: "end before start",
			req:  dto.UpdateSlotRequest{EndTime: ptr(start.Add(-time.Hour))},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(current, nil)
			},
			wantCode: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(staffContext(), tt.req, "s1")

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != 0:
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			default:
				require.NoError(t, err)
			}
		})
	}
}

func ptr[T any](value T) *T {
	return &value
}
