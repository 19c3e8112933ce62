package models

import (
	"errors"
	"time"
)

// ComponentScores holds the four independently computed sub-scores that make
// up a health score. Each is an integer in [0,100].
type ComponentScores struct {
	Activity    int `json:"activity"`
	Engagement  int `json:"engagement"`
	Trend       int `json:"trend"`
	Consistency int `json:"consistency"`
}

// HealthScore is the composite 0-100 metric summarizing a guild's short-term
// activity health. It is created fresh on every scoring request and never
// cached by the engine. The raw counts are carried alongside the score so
// callers can distinguish a genuinely unhealthy guild from one with no
// recorded data yet.
type HealthScore struct {
	GuildID        string          `json:"guild_id"`
	Score          int             `json:"score"`
	Components     ComponentScores `json:"components"`
	Interpretation string          `json:"interpretation"`
	Trend          TrendResult     `json:"trend"`

	AvgMessagesPerDay float64 `json:"avg_messages_per_day"`
	MessageCount7d    int     `json:"message_count_7d"`
	ActiveUsers7d     int     `json:"active_users_7d"`
	MessageCount30d   int     `json:"message_count_30d"`
	ActiveUsers30d    int     `json:"active_users_30d"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Validate checks that the score and all components are within contractual
// bounds. An out-of-range value is a bug in the scorer, not a valid edge case.
func (h *HealthScore) Validate() error {
	if h.GuildID == "" {
		return errors.New("guild ID must not be empty")
	}
	for _, v := range []int{h.Score, h.Components.Activity, h.Components.Engagement, h.Components.Trend, h.Components.Consistency} {
		if v < 0 || v > 100 {
			return errors.New("scores must be between 0 and 100")
		}
	}
	if h.MessageCount7d < 0 || h.ActiveUsers7d < 0 || h.MessageCount30d < 0 || h.ActiveUsers30d < 0 {
		return errors.New("raw counts must not be negative")
	}
	return h.Trend.Validate()
}
