package model_test

import (
	"testing"
	"time"

	"tutorbook/internal/domains/ledger/model"
	"tutorbook/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_Reserve(t *testing.T) {
	ledger := model.New("slot-1", 2, time.Now())

	require.NoError(t, ledger.Reserve())
	require.NoError(t, ledger.Reserve())

	err := ledger.Reserve()
	require.ErrorIs(t, err, failure.ErrSlotFull)
	assert.Equal(t, 2, ledger.Occupied)
	assert.Equal(t, 0, ledger.Available())
	assert.True(t, ledger.IsFull())
}

func TestLedger_ConfirmAndRelease(t *testing.T) {
	ledger := model.New("slot-1", 3, time.Now())

	require.NoError(t, ledger.Reserve())
	require.NoError(t, ledger.Confirm())
	assert.Error(t, ledger.Confirm(), "only one seat is held")

	require.NoError(t, ledger.ReserveConfirmed())
	assert.Equal(t, 2, ledger.Occupied)
	assert.Equal(t, 2, ledger.Confirmed)

	require.NoError(t, ledger.Release(true))
	require.NoError(t, ledger.Release(true))
	assert.Equal(t, 0, ledger.Occupied)
	assert.Equal(t, 0, ledger.Confirmed)

	assert.Error(t, ledger.Release(false))
}

func TestLedger_ReleaseUnconfirmedKeepsConfirmed(t *testing.T) {
	ledger := model.New("slot-1", 3, time.Now())

	require.NoError(t, ledger.ReserveConfirmed())
	require.NoError(t, ledger.Reserve())
	require.NoError(t, ledger.Release(false))

	assert.Equal(t, 1, ledger.Occupied)
	assert.Equal(t, 1, ledger.Confirmed)
}

func TestLedger_Resize(t *testing.T) {
	tests := []struct {
		name     string
		occupied int
		capacity int
		wantErr  bool
	}{
		{name: "grow", occupied: 2, capacity: 5},
		{name: "shrink to held seats", occupied: 2, capacity: 2},
		{name: "shrink below held seats", occupied: 2, capacity: 1, wantErr: true},
		{name: "zero capacity", occupied: 0, capacity: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := model.New("slot-1", 4, time.Now())
			ledger.Occupied = tt.occupied

			err := ledger.Resize(tt.capacity)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, 409, failure.GetCode(err))
				assert.Equal(t, 4, ledger.Capacity)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.capacity, ledger.Capacity)
		})
	}
}
