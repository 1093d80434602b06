package model_test

import (
	"testing"
	"time"

	"tutorbook/internal/domains/reservation/model"
	"tutorbook/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []model.Status{
	model.StatusPending, model.StatusConfirmed, model.StatusCancelled, model.StatusReschedulePending,
	model.StatusToRefund, model.StatusRefunded, model.StatusAttended, model.StatusNoShow,
}

var listed = map[model.Status][]model.Status{
	model.StatusPending:           {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed:         {model.StatusToRefund, model.StatusReschedulePending, model.StatusAttended, model.StatusNoShow},
	model.StatusReschedulePending: {model.StatusConfirmed},
	model.StatusToRefund:          {model.StatusRefunded},
}

func isListed(from, to model.Status) bool {
	for _, next := range listed[from] {
		if next == to {
			return true
		}
	}

	return false
}

// Every pair outside the table must fail; nothing silently no-ops.
func TestReservation_TransitionTotality(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			reservation := model.Reservation{ID: "r1", Status: from}
			err := reservation.TransitionTo(to)

			switch {
			case isListed(from, to):
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, reservation.Status)
			case from.IsTerminal():
				require.ErrorIs(t, err, failure.ErrAlreadyTerminal, "%s -> %s", from, to)
				require.ErrorIs(t, err, failure.ErrInvalidTransition, "%s -> %s", from, to)
				assert.Equal(t, from, reservation.Status)
			default:
				require.ErrorIs(t, err, failure.ErrInvalidTransition, "%s -> %s", from, to)
				assert.NotErrorIs(t, err, failure.ErrAlreadyTerminal)
				assert.Equal(t, from, reservation.Status)
			}
		}
	}
}

func TestStatus_SeatHolding(t *testing.T) {
	holding := map[model.Status]bool{
		model.StatusPending:           true,
		model.StatusConfirmed:         true,
		model.StatusReschedulePending: true,
	}

	for _, status := range allStatuses {
		assert.Equal(t, holding[status], status.HoldsSeat(), status)
	}

	assert.False(t, model.StatusPending.HoldsConfirmedSeat())
	assert.True(t, model.StatusReschedulePending.HoldsConfirmedSeat())
}

func TestReservation_IsExpired(t *testing.T) {
	created := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	reservation := model.Reservation{Status: model.StatusPending}
	reservation.CreatedAt = created

	assert.False(t, reservation.IsExpired(created.Add(14*time.Minute), 15*time.Minute))
	assert.True(t, reservation.IsExpired(created.Add(15*time.Minute), 15*time.Minute))

	reservation.Status = model.StatusConfirmed
	assert.False(t, reservation.IsExpired(created.Add(time.Hour), 15*time.Minute))
}

func TestReservation_HasPayment(t *testing.T) {
	paymentID := "p1"
	reservation := model.Reservation{}

	assert.False(t, reservation.HasPayment("p1"))

	reservation.PaymentID = &paymentID
	assert.True(t, reservation.HasPayment("p1"))
	assert.False(t, reservation.HasPayment("p2"))
}
