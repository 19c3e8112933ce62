package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/guildpulse/guildpulse/internal/models"
)

// AlertThresholds holds every tunable constant of the alert rules. Defaults
// mirror the shipped configuration; nothing inside the rules is hardcoded.
type AlertThresholds struct {
	// GuildDropPercent is the guild-wide downward trend (in percent) that
	// raises an alert; GuildDropCriticalPercent escalates it to CRITICAL.
	GuildDropPercent         float64
	GuildDropCriticalPercent float64

	// ChannelMinPrevMessages is the previous-period floor below which a
	// channel is too small to evaluate. ChannelDropPercent raises a WARNING;
	// ChannelDropCriticalPercent escalates to CRITICAL.
	ChannelMinPrevMessages     int
	ChannelDropPercent         float64
	ChannelDropCriticalPercent float64

	// ActivationMinMessages and ActivationMaxNewAuthors define the stagnant
	// new-member activation rule: enough overall traffic, yet almost no
	// first-time posters.
	ActivationMinMessages   int
	ActivationMaxNewAuthors int
}

// DefaultAlertThresholds returns the shipped rule constants.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		GuildDropPercent:           30,
		GuildDropCriticalPercent:   50,
		ChannelMinPrevMessages:     50,
		ChannelDropPercent:         50,
		ChannelDropCriticalPercent: 80,
		ActivationMinMessages:      50,
		ActivationMaxNewAuthors:    1,
	}
}

// alertInputs is the per-guild data bundle the rules evaluate against.
type alertInputs struct {
	guildID          string
	trend            models.TrendResult
	currentTotal     int
	newAuthors       int
	currentChannels  []models.ChannelActivity
	previousChannels []models.ChannelActivity
	now              time.Time
}

// buildAlerts evaluates the three rule families in order (guild-wide drop,
// per-channel risk, new-member activation) and returns the results stably
// sorted by severity rank: CRITICAL before WARNING before INFO, generation
// order preserved within a rank.
func buildAlerts(t AlertThresholds, in alertInputs) []models.Alert {
	var alerts []models.Alert

	// Rule 1: guild-wide activity drop.
	if in.trend.Trend == models.TrendDown && in.trend.Percentage >= t.GuildDropPercent {
		level := models.LevelWarning
		if in.trend.Percentage >= t.GuildDropCriticalPercent {
			level = models.LevelCritical
		}
		alerts = append(alerts, models.Alert{
			ID:      uuid.New().String(),
			GuildID: in.guildID,
			Type:    models.AlertActivity,
			Level:   level,
			Title:   "Server activity is dropping",
			Description: fmt.Sprintf("Messages are down %.0f%% compared to the previous 7 days.",
				in.trend.Percentage),
			CreatedAt: in.now,
		})
	}

	// Rule 2: per-channel risk, in data-source order.
	current := make(map[string]int, len(in.currentChannels))
	for _, c := range in.currentChannels {
		current[c.ChannelID] = c.Count
	}
	for _, prev := range in.previousChannels {
		if prev.Count < t.ChannelMinPrevMessages {
			continue
		}
		drop := float64(prev.Count-current[prev.ChannelID]) / float64(prev.Count) * 100
		if drop < t.ChannelDropPercent {
			continue
		}
		level := models.LevelWarning
		if drop >= t.ChannelDropCriticalPercent {
			level = models.LevelCritical
		}
		alerts = append(alerts, models.Alert{
			ID:      uuid.New().String(),
			GuildID: in.guildID,
			Type:    models.AlertChannel,
			Level:   level,
			Title:   "Channel activity is fading",
			Description: fmt.Sprintf("Channel activity dropped %.0f%% (%d → %d messages) versus the previous period.",
				drop, prev.Count, current[prev.ChannelID]),
			ChannelID: prev.ChannelID,
			CreatedAt: in.now,
		})
	}

	// Rule 3: low new-member activation.
	if in.currentTotal > t.ActivationMinMessages && in.newAuthors <= t.ActivationMaxNewAuthors {
		alerts = append(alerts, models.Alert{
			ID:      uuid.New().String(),
			GuildID: in.guildID,
			Type:    models.AlertActivation,
			Level:   models.LevelInfo,
			Title:   "New members aren't posting",
			Description: fmt.Sprintf("%d messages this period but only %d first-time poster(s). New members may need an easier way in.",
				in.currentTotal, in.newAuthors),
			CreatedAt: in.now,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Level.Rank() < alerts[j].Level.Rank()
	})
	return alerts
}
