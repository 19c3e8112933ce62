package analytics

import (
	"fmt"
	"sort"

	"github.com/guildpulse/guildpulse/internal/logger"
	"github.com/guildpulse/guildpulse/internal/models"
)

// QuietChannel is a channel that was meaningfully active in the previous
// period and has now gone mostly silent.
type QuietChannel struct {
	ChannelID     string
	PreviousCount int
	CurrentCount  int
	DropPercent   float64
}

// MetricsBundle is the union of engine outputs the recommendation rules
// evaluate against.
type MetricsBundle struct {
	Health   *models.HealthScore
	Insights *models.InsightsBundle
	Alerts   []models.Alert
	Quiet    []QuietChannel
}

// rule is one entry of the recommendation table. Rules are discrete types so
// the set is statically enumerable and each one unit-testable in isolation;
// a misbehaving rule cannot take the others down with it.
type rule interface {
	ID() string
	Priority() int
	Matches(m *MetricsBundle) bool
	Build(m *MetricsBundle) models.Recommendation
}

// ruleTable is the fixed table, listed in priority order for readability.
// Selection checks every rule regardless of order; only truncation depends
// on priority.
func ruleTable() []rule {
	return []rule{
		reviveServerRule{},
		reverseDeclineRule{},
		activateLurkersRule{},
		reviveQuietChannelRule{},
		spreadConversationRule{},
		steadyRhythmRule{},
		celebrateMomentumRule{},
	}
}

// QuietChannels derives the quiet-channel list from current and previous
// per-channel activity: a channel qualifies when its previous count is at
// least minPrev and its current count fell below ratio×previous. Results are
// sorted by drop percentage descending, ties by ascending channel ID.
func QuietChannels(current, previous []models.ChannelActivity, minPrev int, ratio float64) []QuietChannel {
	currentByID := make(map[string]int, len(current))
	for _, c := range current {
		currentByID[c.ChannelID] = c.Count
	}

	var quiet []QuietChannel
	for _, prev := range previous {
		if prev.Count < minPrev {
			continue
		}
		curr := currentByID[prev.ChannelID]
		if float64(curr) >= float64(prev.Count)*ratio {
			continue
		}
		quiet = append(quiet, QuietChannel{
			ChannelID:     prev.ChannelID,
			PreviousCount: prev.Count,
			CurrentCount:  curr,
			DropPercent:   float64(prev.Count-curr) / float64(prev.Count) * 100,
		})
	}

	sort.SliceStable(quiet, func(i, j int) bool {
		if quiet[i].DropPercent != quiet[j].DropPercent {
			return quiet[i].DropPercent > quiet[j].DropPercent
		}
		return quiet[i].ChannelID < quiet[j].ChannelID
	})
	return quiet
}

// evaluateRules runs every rule in the table against the bundle, collects the
// matches, sorts ascending by priority (stable) and truncates to maxResults.
// A rule that panics is logged and skipped; one bad rule never aborts the
// whole pass.
func evaluateRules(m *MetricsBundle, maxResults int) []models.Recommendation {
	var recs []models.Recommendation

	for _, r := range ruleTable() {
		rec, ok := safeEvaluate(r, m)
		if ok {
			recs = append(recs, rec)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority < recs[j].Priority
	})

	if maxResults <= 0 {
		maxResults = 5
	}
	if len(recs) > maxResults {
		recs = recs[:maxResults]
	}
	return recs
}

func safeEvaluate(r rule, m *MetricsBundle) (rec models.Recommendation, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			logger.Warn("recommendation rule %s panicked, skipping: %v", r.ID(), p)
			ok = false
		}
	}()

	if !r.Matches(m) {
		return models.Recommendation{}, false
	}
	return r.Build(m), true
}

// ─── Rule implementations ───────────────────────────────────────────────────

// reviveServerRule fires when overall health is in the warning/critical band.
type reviveServerRule struct{}

func (reviveServerRule) ID() string    { return "revive-server" }
func (reviveServerRule) Priority() int { return 1 }

func (reviveServerRule) Matches(m *MetricsBundle) bool {
	return m.Health != nil && m.Health.Score < 40
}

func (r reviveServerRule) Build(m *MetricsBundle) models.Recommendation {
	return models.Recommendation{
		ID:          r.ID(),
		Priority:    r.Priority(),
		Title:       "Plan a community event",
		Description: fmt.Sprintf("Overall health is %d/100. A scheduled event gives members a concrete reason to come back.", m.Health.Score),
		Example:     "Announce a game night or AMA this week with a fixed date and ping @everyone once.",
	}
}

// reverseDeclineRule fires on a significant guild-wide downward trend.
type reverseDeclineRule struct{}

func (reverseDeclineRule) ID() string    { return "reverse-decline" }
func (reverseDeclineRule) Priority() int { return 2 }

func (reverseDeclineRule) Matches(m *MetricsBundle) bool {
	return m.Health != nil &&
		m.Health.Trend.Trend == models.TrendDown &&
		m.Health.Trend.Percentage >= 30
}

func (r reverseDeclineRule) Build(m *MetricsBundle) models.Recommendation {
	return models.Recommendation{
		ID:          r.ID(),
		Priority:    r.Priority(),
		Title:       "Run a re-engagement push",
		Description: fmt.Sprintf("Activity dropped %.0f%% week over week. Reach out before the quiet becomes the norm.", m.Health.Trend.Percentage),
		Example:     "Post a discussion starter on a topic that was popular last month and DM your most active members.",
	}
}

// activateLurkersRule fires when traffic is healthy but first-time posters
// are missing.
type activateLurkersRule struct{}

func (activateLurkersRule) ID() string    { return "activate-lurkers" }
func (activateLurkersRule) Priority() int { return 3 }

func (activateLurkersRule) Matches(m *MetricsBundle) bool {
	return m.Insights != nil &&
		m.Insights.MessageCount > 50 &&
		m.Insights.NewAuthors <= 1
}

func (r activateLurkersRule) Build(m *MetricsBundle) models.Recommendation {
	return models.Recommendation{
		ID:          r.ID(),
		Priority:    r.Priority(),
		Title:       "Lower the bar for first posts",
		Description: fmt.Sprintf("%d messages this week but only %d first-time poster(s). Lurkers need an easy entry point.", m.Insights.MessageCount, m.Insights.NewAuthors),
		Example:     "Add an #introductions prompt or a weekly question thread where one-line replies are welcome.",
	}
}

// reviveQuietChannelRule fires when a previously active channel went silent;
// it targets the channel with the steepest drop.
type reviveQuietChannelRule struct{}

func (reviveQuietChannelRule) ID() string    { return "revive-quiet-channel" }
func (reviveQuietChannelRule) Priority() int { return 4 }

func (reviveQuietChannelRule) Matches(m *MetricsBundle) bool {
	return len(m.Quiet) > 0
}

func (r reviveQuietChannelRule) Build(m *MetricsBundle) models.Recommendation {
	q := m.Quiet[0]
	return models.Recommendation{
		ID:            r.ID(),
		Priority:      r.Priority(),
		Title:         "Revive a quiet channel",
		Description:   fmt.Sprintf("This channel went from %d to %d messages week over week (%.0f%% drop).", q.PreviousCount, q.CurrentCount, q.DropPercent),
		Example:       "Seed it with a fresh question or merge it into a busier channel if the topic has run its course.",
		TargetChannel: q.ChannelID,
	}
}

// spreadConversationRule fires when one channel dominates the guild's
// conversation.
type spreadConversationRule struct{}

func (spreadConversationRule) ID() string    { return "spread-conversation" }
func (spreadConversationRule) Priority() int { return 5 }

func (spreadConversationRule) Matches(m *MetricsBundle) bool {
	if m.Insights == nil || len(m.Insights.TopChannels) == 0 || m.Insights.MessageCount == 0 {
		return false
	}
	top := m.Insights.TopChannels[0]
	return float64(top.Count) > float64(m.Insights.MessageCount)*0.6
}

func (r spreadConversationRule) Build(m *MetricsBundle) models.Recommendation {
	top := m.Insights.TopChannels[0]
	share := float64(top.Count) / float64(m.Insights.MessageCount) * 100
	return models.Recommendation{
		ID:            r.ID(),
		Priority:      r.Priority(),
		Title:         "Spread the conversation",
		Description:   fmt.Sprintf("One channel carries %.0f%% of all messages. The rest of the server looks empty to newcomers.", share),
		Example:       "Cross-post highlights into topic channels or start threads to branch busy discussions out.",
		TargetChannel: top.ChannelID,
	}
}

// steadyRhythmRule fires when daily activity is erratic.
type steadyRhythmRule struct{}

func (steadyRhythmRule) ID() string    { return "steady-rhythm" }
func (steadyRhythmRule) Priority() int { return 6 }

func (steadyRhythmRule) Matches(m *MetricsBundle) bool {
	return m.Health != nil && m.Health.Components.Consistency < 50 && m.Health.MessageCount7d > 0
}

func (r steadyRhythmRule) Build(m *MetricsBundle) models.Recommendation {
	return models.Recommendation{
		ID:          r.ID(),
		Priority:    r.Priority(),
		Title:       "Build a daily rhythm",
		Description: "Activity comes in bursts with dead days in between. Predictable touchpoints smooth that out.",
		Example:     "Schedule a recurring daily prompt or news digest at your peak hour.",
	}
}

// celebrateMomentumRule fires when a healthy server is growing; positive
// reinforcement keeps the streak going.
type celebrateMomentumRule struct{}

func (celebrateMomentumRule) ID() string    { return "celebrate-momentum" }
func (celebrateMomentumRule) Priority() int { return 7 }

func (celebrateMomentumRule) Matches(m *MetricsBundle) bool {
	return m.Health != nil &&
		m.Health.Score >= 60 &&
		m.Health.Trend.Trend == models.TrendUp &&
		m.Health.Trend.Percentage >= 20
}

func (r celebrateMomentumRule) Build(m *MetricsBundle) models.Recommendation {
	return models.Recommendation{
		ID:          r.ID(),
		Priority:    r.Priority(),
		Title:       "Celebrate the momentum",
		Description: fmt.Sprintf("Activity is up %.0f%% and health sits at %d/100. Members notice when growth is acknowledged.", m.Health.Trend.Percentage, m.Health.Score),
		Example:     "Shout out the most helpful members of the week and share the server's growth numbers.",
	}
}
