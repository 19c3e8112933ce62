// Package period provides pure date-range arithmetic for analysis windows.
// All functions take the reference time explicitly so results are reproducible
// in tests and stable within a calendar day. Crossing midnight changes the
// computed windows; that is expected behavior, not a bug.
package period

import (
	"time"

	"github.com/guildpulse/guildpulse/internal/models"
)

// DayRange returns the window ending at the end of now's calendar day and
// starting at the beginning of the day days-1 days earlier, so days=7 spans
// exactly 7 calendar days including today. days < 1 is treated as 1.
// The window is computed in now's location.
func DayRange(now time.Time, days int) models.TimeWindow {
	if days < 1 {
		days = 1
	}
	end := startOfDay(now).AddDate(0, 0, 1).Add(-time.Nanosecond)
	start := startOfDay(now.AddDate(0, 0, -(days - 1)))
	return models.TimeWindow{Start: start, End: end}
}

// ComparisonPeriods returns the current days-long window paired with the
// immediately preceding window of equal length. The previous window ends
// exactly one instant before the current one starts: no gap, no overlap.
func ComparisonPeriods(now time.Time, days int) models.PeriodComparison {
	if days < 1 {
		days = 1
	}
	current := DayRange(now, days)
	previous := models.TimeWindow{
		Start: startOfDay(now.AddDate(0, 0, -(2*days - 1))),
		End:   current.Start.Add(-time.Nanosecond),
	}
	return models.PeriodComparison{Current: current, Previous: previous}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
