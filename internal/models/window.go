// Package models defines the core domain entities for the guildpulse engine.
// These models represent analysis time windows, activity aggregates, health
// scores, alerts, and recommendations. Everything here is a transient value
// object computed on demand; nothing in this package is persisted directly.
//
// Terminology (matching Discord's own naming):
//   - Guild: a Discord server. The tenant unit every analysis is scoped to.
//   - Channel: a text channel within a guild.
package models

import (
	"errors"
	"time"
)

// TimeWindow is a closed interval of time used to scope aggregate queries.
// Windows are immutable once created; Start is always <= End.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate checks the window invariant.
func (w TimeWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return errors.New("window bounds must not be zero")
	}
	if w.End.Before(w.Start) {
		return errors.New("window start must be <= end")
	}
	return nil
}

// Duration returns the span of the window.
func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether t falls inside the window (inclusive bounds).
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// PeriodComparison pairs a current window with the immediately preceding
// window of equal length. Previous.End is exactly one instant before
// Current.Start: no gap, no overlap.
type PeriodComparison struct {
	Current  TimeWindow `json:"current"`
	Previous TimeWindow `json:"previous"`
}

// Validate checks the adjacency and equal-span invariants.
func (p PeriodComparison) Validate() error {
	if err := p.Current.Validate(); err != nil {
		return err
	}
	if err := p.Previous.Validate(); err != nil {
		return err
	}
	if !p.Previous.End.Add(time.Nanosecond).Equal(p.Current.Start) {
		return errors.New("previous window must end exactly one instant before current starts")
	}
	if p.Previous.Duration() != p.Current.Duration() {
		return errors.New("previous window must span the same duration as current")
	}
	return nil
}
