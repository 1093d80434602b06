package service_test

import (
	"context"
	"errors"
	"testing"

	"tutorbook/config"
	"tutorbook/infras/otel/mocks"
	ledgerMocks "tutorbook/internal/domains/ledger/mocks"
	"tutorbook/internal/domains/ledger/model"
	"tutorbook/internal/domains/ledger/service"
	"tutorbook/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newService(t *testing.T, maxRetries uint) (service.Ledger, *ledgerMocks.MockLedger) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := ledgerMocks.NewMockLedger(ctrl)

	cfg := &config.Config{}
	cfg.Booking.LedgerMaxRetries = maxRetries

	return service.New(repo, cfg, mocks.NewOtel()), repo
}

func TestLedgerService_Reserve(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *ledgerMocks.MockLedger)
		wantErr   error
		wantLedg  model.Ledger
	}{
		{
			name: "free seat",
			setupMock: func(repo *ledgerMocks.MockLedger) {
				repo.EXPECT().SnapshotTx(gomock.Any(), gomock.Any(), "slot-1").
					Return(model.Ledger{SlotID: "slot-1", Capacity: 2, Occupied: 1, Version: 4}, nil)
				repo.EXPECT().CompareAndSwapTx(gomock.Any(), gomock.Any(), gomock.Cond(func(l model.Ledger) bool {
					return l.Occupied == 2 && l.Version == 4
				})).Return(true, nil)
			},
			wantLedg: model.Ledger{SlotID: "slot-1", Capacity: 2, Occupied: 2, Version: 5},
		},
		{
			name: "slot full is not retried",
			setupMock: func(repo *ledgerMocks.MockLedger) {
				repo.EXPECT().SnapshotTx(gomock.Any(), gomock.Any(), "slot-1").
					Return(model.Ledger{SlotID: "slot-1", Capacity: 1, Occupied: 1, Version: 2}, nil).Times(1)
			},
			wantErr: failure.ErrSlotFull,
		},
		{
			name: "version conflict then success",
			setupMock: func(repo *ledgerMocks.MockLedger) {
				gomock.InOrder(
					repo.EXPECT().SnapshotTx(gomock.Any(), gomock.Any(), "slot-1").
						Return(model.Ledger{SlotID: "slot-1", Capacity: 3, Occupied: 0, Version: 1}, nil),
					repo.EXPECT().CompareAndSwapTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil),
					repo.EXPECT().SnapshotTx(gomock.Any(), gomock.Any(), "slot-1").
						Return(model.Ledger{SlotID: "slot-1", Capacity: 3, Occupied: 1, Version: 2}, nil),
					repo.EXPECT().CompareAndSwapTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil),
				)
			},
			wantLedg: model.Ledger{SlotID: "slot-1", Capacity: 3, Occupied: 2, Version: 3},
		},
		{
			name: "conflicts exhaust the retry budget",
			setupMock: func(repo *ledgerMocks.MockLedger) {
				repo.EXPECT().SnapshotTx(gomock.Any(), gomock.Any(), "slot-1").
					Return(model.Ledger{SlotID: "slot-1", Capacity: 3, Version: 1}, nil).Times(3)
				repo.EXPECT().CompareAndSwapTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(3)
			},
			wantErr: failure.ErrCapacityRaceLost,
		},
		{
			name: "missing ledger",
			setupMock: func(repo *ledgerMocks.MockLedger) {
				repo.EXPECT().SnapshotTx(gomock.Any(), gomock.Any(), "slot-1").Return(model.Ledger{}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t, 3)
			tt.setupMock(repo)

			res, err := svc.Reserve(context.Background(), nil, "slot-1")

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantLedg.SlotID == "":
				require.Error(t, err)
				assert.Equal(t, 404, failure.GetCode(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantLedg.Occupied, res.Occupied)
				assert.Equal(t, tt.wantLedg.Version, res.Version)
			}
		})
	}
}

func TestLedgerService_RepositoryErrorIsNotRetried(t *testing.T) {
	svc, repo := newService(t, 5)

	repo.EXPECT().SnapshotTx(gomock.Any(), gomock.Any(), "slot-1").
		Return(model.Ledger{}, errors.New("connection reset")).Times(1)

	_, err := svc.Confirm(context.Background(), nil, "slot-1")
	require.Error(t, err)
	assert.Equal(t, 500, failure.GetCode(err))
}

func TestLedgerService_Release(t *testing.T) {
	svc, repo := newService(t, 3)

	repo.EXPECT().SnapshotTx(gomock.Any(), gomock.Any(), "slot-1").
		Return(model.Ledger{SlotID: "slot-1", Capacity: 2, Occupied: 2, Confirmed: 1, Version: 7}, nil)
	repo.EXPECT().CompareAndSwapTx(gomock.Any(), gomock.Any(), gomock.Cond(func(l model.Ledger) bool {
		return l.Occupied == 1 && l.Confirmed == 0
	})).Return(true, nil)

	res, err := svc.Release(context.Background(), nil, "slot-1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Available())
}

func TestLedgerService_Open(t *testing.T) {
	svc, repo := newService(t, 3)

	repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Cond(func(l model.Ledger) bool {
		return l.SlotID == "slot-1" && l.Capacity == 4 && l.Occupied == 0 && l.Version == 1
	})).Return(nil)

	res, err := svc.Open(context.Background(), nil, "slot-1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Available())
}

func TestLedgerService_GetMany(t *testing.T) {
	svc, repo := newService(t, 3)

	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Ledger{{SlotID: "a", Capacity: 1}, {SlotID: "b", Capacity: 2}}, nil)

	res, err := svc.GetMany(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t, 2, res["b"].Capacity)

	empty, err := svc.GetMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
