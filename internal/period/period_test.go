package period

import (
	"testing"
	"time"
)

func TestDayRange_SpansRequestedDays(t *testing.T) {
	now := time.Date(2025, 3, 15, 18, 30, 0, 0, time.UTC)

	w := DayRange(now, 7)

	wantStart := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	if !w.Start.Equal(wantStart) {
		t.Errorf("Expected start %v, got %v", wantStart, w.Start)
	}
	wantEnd := time.Date(2025, 3, 15, 23, 59, 59, 999999999, time.UTC)
	if !w.End.Equal(wantEnd) {
		t.Errorf("Expected end %v, got %v", wantEnd, w.End)
	}
	if err := w.Validate(); err != nil {
		t.Errorf("Expected valid window, got %v", err)
	}
}

func TestDayRange_SingleDayIncludesToday(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 1, 0, time.UTC)

	w := DayRange(now, 1)

	if !w.Start.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected start of today, got %v", w.Start)
	}
	if !w.Contains(now) {
		t.Error("Expected window to contain now")
	}
}

func TestDayRange_NormalizesInvalidDays(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	if got, want := DayRange(now, 0), DayRange(now, 1); got != want {
		t.Errorf("Expected days=0 to behave like days=1, got %v", got)
	}
	if got, want := DayRange(now, -3), DayRange(now, 1); got != want {
		t.Errorf("Expected days=-3 to behave like days=1, got %v", got)
	}
}

func TestDayRange_StableWithinCalendarDay(t *testing.T) {
	morning := time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 15, 23, 0, 0, 0, time.UTC)

	if DayRange(morning, 7) != DayRange(evening, 7) {
		t.Error("Expected identical windows for calls within the same calendar day")
	}

	// Crossing midnight shifts the window; expected, not a bug.
	nextDay := time.Date(2025, 3, 16, 0, 0, 1, 0, time.UTC)
	if DayRange(morning, 7) == DayRange(nextDay, 7) {
		t.Error("Expected a different window after midnight")
	}
}

func TestComparisonPeriods_AdjacentWindows(t *testing.T) {
	now := time.Date(2025, 3, 15, 18, 30, 0, 0, time.UTC)

	for _, days := range []int{1, 7, 30, 365} {
		cmp := ComparisonPeriods(now, days)

		if err := cmp.Validate(); err != nil {
			t.Errorf("days=%d: expected valid comparison, got %v", days, err)
		}
		if !cmp.Previous.End.Add(time.Nanosecond).Equal(cmp.Current.Start) {
			t.Errorf("days=%d: expected previous to end one instant before current starts (prev end %v, curr start %v)",
				days, cmp.Previous.End, cmp.Current.Start)
		}
		if cmp.Previous.Duration() != cmp.Current.Duration() {
			t.Errorf("days=%d: expected equal durations, got prev %v curr %v",
				days, cmp.Previous.Duration(), cmp.Current.Duration())
		}
	}
}

func TestComparisonPeriods_PreviousCoversEarlierDays(t *testing.T) {
	now := time.Date(2025, 3, 15, 18, 30, 0, 0, time.UTC)

	cmp := ComparisonPeriods(now, 7)

	wantPrevStart := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	if !cmp.Previous.Start.Equal(wantPrevStart) {
		t.Errorf("Expected previous start %v, got %v", wantPrevStart, cmp.Previous.Start)
	}

	// A timestamp inside the previous week must not be in the current window.
	midPrev := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	if cmp.Current.Contains(midPrev) {
		t.Error("Expected no overlap between previous and current windows")
	}
	if !cmp.Previous.Contains(midPrev) {
		t.Error("Expected previous window to contain its own midpoint")
	}
}
