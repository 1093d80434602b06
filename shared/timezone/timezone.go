// Package timezone pins wall-clock work to the school's timezone (APP_TIMEZONE).
// Slot times are stored as instants. Only calendar days, sweep schedules and
// rendered timestamps depend on the location.
package timezone

import (
	"sync"
	"time"
	"tutorbook/config"
	"tutorbook/shared/constant"

	"github.com/rs/zerolog/log"
)

var (
	location *time.Location
	once     sync.Once
)

func load() {
	name := config.Get().App.Timezone
	if name == constant.Empty {
		location = time.UTC

		return
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("unknown APP_TIMEZONE, falling back to UTC")

		location = time.UTC

		return
	}

	location = loc
}

// Location is the configured location, loaded on first use.
func Location() *time.Location {
	once.Do(load)

	return location
}

// Set overrides the configured location.
func Set(loc *time.Location) {
	once.Do(func() {})

	location = loc
}

func Now() time.Time {
	return time.Now().In(Location())
}

func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, Location()) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}

// DayBounds returns the start of the local calendar day named by date (YYYY-MM-DD) and the
// start of the next one. Around DST changes the day is 23 or 25 hours long.
func DayBounds(date string) (start, end time.Time, err error) {
	start, err = Parse(constant.DayFormat, date)
	if err != nil {
		return start, end, err
	}

	return start, start.AddDate(0, 0, 1), nil
}
