package layout_test

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"tutorbook/internal/domains/calendar/layout"
	"tutorbook/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func event(id string, startHour, startMinute, endHour, endMinute int) layout.Event {
	return layout.Event{ID: id, Start: at(startHour, startMinute), End: at(endHour, endMinute)}
}

func TestArrange(t *testing.T) {
	tests := []struct {
		name    string
		events  []layout.Event
		columns map[string]int
		totals  map[string]int
	}{
		{
			name:    "empty day",
			events:  nil,
			columns: map[string]int{},
			totals:  map[string]int{},
		},
		{
			name: "chain of partial overlaps",
			events: []layout.Event{
				event("a", 9, 0, 10, 0),
				event("b", 9, 30, 10, 30),
				event("c", 10, 0, 11, 0),
			},
			columns: map[string]int{"a": 0, "b": 1, "c": 0},
			totals:  map[string]int{"a": 2, "b": 2, "c": 2},
		},
		{
			name: "touching events share a column",
			events: []layout.Event{
				event("a", 9, 0, 10, 0),
				event("b", 10, 0, 11, 0),
				event("c", 11, 0, 12, 0),
			},
			columns: map[string]int{"a": 0, "b": 0, "c": 0},
			totals:  map[string]int{"a": 1, "b": 1, "c": 1},
		},
		{
			name: "three way overlap then a gap",
			events: []layout.Event{
				event("late", 14, 0, 15, 0),
				event("long", 9, 0, 12, 0),
				event("mid", 10, 0, 11, 0),
				event("short", 10, 30, 11, 30),
			},
			columns: map[string]int{"long": 0, "mid": 1, "short": 2, "late": 0},
			totals:  map[string]int{"long": 3, "mid": 3, "short": 3, "late": 1},
		},
		{
			name: "ties break on end time then id",
			events: []layout.Event{
				event("b", 9, 0, 10, 0),
				event("a", 9, 0, 10, 0),
				event("c", 9, 0, 9, 30),
			},
			columns: map[string]int{"c": 0, "a": 1, "b": 2},
			totals:  map[string]int{"a": 3, "b": 3, "c": 3},
		},
		{
			name: "freed column is reused",
			events: []layout.Event{
				event("a", 9, 0, 12, 0),
				event("b", 9, 0, 10, 0),
				event("c", 10, 0, 11, 0),
			},
			columns: map[string]int{"b": 0, "a": 1, "c": 0},
			totals:  map[string]int{"a": 2, "b": 2, "c": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placements, err := layout.Arrange(tt.events)
			require.NoError(t, err)
			require.Len(t, placements, len(tt.events))

			for i, placement := range placements {
				assert.Equal(t, tt.events[i].ID, placement.ID)
				assert.Equal(t, tt.columns[placement.ID], placement.Column, "column of %s", placement.ID)
				assert.Equal(t, tt.totals[placement.ID], placement.TotalColumns, "total columns of %s", placement.ID)
				assert.InDelta(t, 100.0/float64(placement.TotalColumns), placement.Width, 1e-9)
				assert.InDelta(t, float64(placement.Column)*placement.Width, placement.Left, 1e-9)
			}
		})
	}
}

func TestArrange_RejectsEmptyIntervals(t *testing.T) {
	for _, ev := range []layout.Event{
		event("zero", 9, 0, 9, 0),
		event("negative", 10, 0, 9, 0),
	} {
		t.Run(ev.ID, func(t *testing.T) {
			_, err := layout.Arrange([]layout.Event{event("ok", 8, 0, 9, 0), ev})
			require.Error(t, err)
			assert.Equal(t, 400, failure.GetCode(err))
		})
	}
}

func TestArrange_OverlappingEventsNeverShareAColumn(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for round := range 50 {
		events := make([]layout.Event, 30)
		for i := range events {
			start := rng.IntN(20 * 60)
			length := 15 + rng.IntN(180)

			events[i] = layout.Event{
				ID:    fmt.Sprintf("r%d-e%d", round, i),
				Start: day.Add(time.Duration(start) * time.Minute),
				End:   day.Add(time.Duration(start+length) * time.Minute),
			}
		}

		placements, err := layout.Arrange(events)
		require.NoError(t, err)

		for i := range events {
			overlapping := false

			for j := range events {
				if i == j || !events[i].Start.Before(events[j].End) || !events[i].End.After(events[j].Start) {
					continue
				}

				overlapping = true

				assert.NotEqual(t, placements[i].Column, placements[j].Column, "%s and %s overlap", events[i].ID, events[j].ID)
				assert.Less(t, placements[j].Column, placements[i].TotalColumns)
			}

			assert.Less(t, placements[i].Column, placements[i].TotalColumns)

			if !overlapping {
				assert.Equal(t, 1, placements[i].TotalColumns)
			}
		}
	}
}
