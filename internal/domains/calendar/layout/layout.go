// Package layout places time ranged events of one day into side by side columns so
// that overlapping events never share a column.
package layout

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"tutorbook/shared/failure"
)

const fullWidth = 100.0

type Event struct {
	ID    string
	Start time.Time
	End   time.Time
}

func (e Event) overlaps(other Event) bool {
	return e.Start.Before(other.End) && e.End.After(other.Start)
}

// Placement tells where an event renders. Width and Left are percentages of the day column.
type Placement struct {
	ID           string
	Column       int
	TotalColumns int
	Width        float64
	Left         float64
}

// Arrange assigns every event the lowest column not taken by an overlapping event that
// starts earlier, then sizes it by the widest column used among the events it overlaps.
// Placements are returned in the order of events.
func Arrange(events []Event) ([]Placement, error) {
	for _, event := range events {
		if !event.End.After(event.Start) {
			return nil, failure.BadRequestFromString(fmt.Sprintf("event %s must end after it starts", event.ID)) // nolint:wrapcheck
		}
	}

	order := make([]int, len(events))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Or(
			events[a].Start.Compare(events[b].Start),
			events[a].End.Compare(events[b].End),
			cmp.Compare(events[a].ID, events[b].ID),
		)
	})

	columns := make([]int, len(events))
	// occupants[c] holds the events already placed in column c.
	var occupants [][]int

	for _, idx := range order {
		column := slices.IndexFunc(occupants, func(placed []int) bool {
			return !slices.ContainsFunc(placed, func(other int) bool {
				return events[idx].overlaps(events[other])
			})
		})

		if column < 0 {
			column = len(occupants)
			occupants = append(occupants, nil)
		}

		occupants[column] = append(occupants[column], idx)
		columns[idx] = column
	}

	placements := make([]Placement, len(events))

	for i, event := range events {
		widest := columns[i]

		for j, other := range events {
			if j != i && event.overlaps(other) {
				widest = max(widest, columns[j])
			}
		}

		total := widest + 1
		width := fullWidth / float64(total)

		placements[i] = Placement{
			ID:           event.ID,
			Column:       columns[i],
			TotalColumns: total,
			Width:        width,
			Left:         float64(columns[i]) * width,
		}
	}

	return placements, nil
}
