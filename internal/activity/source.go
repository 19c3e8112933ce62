// Package activity provides the activity data source: time-ranged aggregate
// queries over recorded message activity. The analytics engine never touches
// raw message rows; everything it needs is expressed as one of the aggregate
// operations below.
package activity

import (
	"context"

	"github.com/guildpulse/guildpulse/internal/models"
)

// Source is the aggregate query contract the analytics engine consumes.
// Any store satisfying these contracts is acceptable; the engine propagates
// query errors unchanged and adds no retry logic of its own.
type Source interface {
	// MessageCount returns the number of messages in the window (inclusive bounds).
	MessageCount(ctx context.Context, guildID string, w models.TimeWindow) (int, error)

	// ActiveAuthorCount returns the number of distinct authors in the window.
	ActiveAuthorCount(ctx context.Context, guildID string, w models.TimeWindow) (int, error)

	// ChannelActivity returns per-channel message counts for the window,
	// sorted by count descending with ties broken by ascending channel ID.
	ChannelActivity(ctx context.Context, guildID string, w models.TimeWindow) ([]models.ChannelActivity, error)

	// HourlyActivity returns all 24 hour-of-day buckets in hour order,
	// zero-filled, with message counts summed over the window.
	HourlyActivity(ctx context.Context, guildID string, w models.TimeWindow) ([]models.HourCount, error)

	// NewAuthorCount returns the number of distinct authors whose first
	// message ever (all-time, not just in-window) falls inside the window.
	NewAuthorCount(ctx context.Context, guildID string, w models.TimeWindow) (int, error)

	// DailyMessageCounts returns one entry per calendar day of the window in
	// date order, zero-filled for days without activity.
	DailyMessageCounts(ctx context.Context, guildID string, w models.TimeWindow) ([]models.DayCount, error)
}
