// Package analytics implements the guild analytics engine: a composite 0-100
// health score, windowed insights, threshold alerts, and rule-based
// recommendations, all computed on demand from aggregate activity queries.
//
// The health score combines four independently computed components:
//
//	score = 0.40×activity + 0.30×engagement + 0.20×trend + 0.10×consistency
//
// Activity uses logarithmic scaling of average messages/day (doubling a busy
// server should not double the score). Engagement rates messages per active
// user per week against an ideal band. Trend rewards growth and penalizes
// decline around a neutral baseline. Consistency scores the coefficient of
// variation of daily counts, so steady servers beat bursty ones.
//
// Every function here is pure given its inputs; data-source errors propagate
// unchanged and there is no shared state between computations for different
// guilds.
package analytics

import (
	"fmt"
	"math"

	"github.com/guildpulse/guildpulse/internal/models"
)

// Component weights. They sum to 1.0; the composite is rounded once and
// clamped to [0,100].
const (
	weightActivity    = 0.40
	weightEngagement  = 0.30
	weightTrend       = 0.20
	weightConsistency = 0.10
)

// Engagement ideal band: messages per active user per week.
const (
	engagementIdealLow    = 5.0
	engagementIdealHigh   = 20.0
	engagementMaxPenalty  = 40.0
	engagementPenaltyRate = 1.33
)

// ActivityScore scores average messages/day on a logarithmic curve.
// Returns 0 for avg <= 0 and 100 for avg >= 100; in between the score is
// round(log10(avg+1)/2 × 100). Monotonically non-decreasing in avg.
func ActivityScore(avg float64) int {
	if avg <= 0 {
		return 0
	}
	if avg >= 100 {
		return 100
	}
	return int(math.Round(math.Log10(avg+1) / 2 * 100))
}

// EngagementScore scores the implied messages-per-active-user-per-week ratio.
// Zero active users scores 0. Ratios inside [5,20] score exactly 100. Below
// the band the score scales linearly up to 100 at ratio 5; above it a penalty
// of min(40, (ratio-20)×1.33) is subtracted from 100, so over-concentration
// in a few very loud users bottoms out around 60 rather than 0.
func EngagementScore(avgPerDay float64, activeUsers int) int {
	if activeUsers <= 0 {
		return 0
	}
	if avgPerDay < 0 {
		avgPerDay = 0
	}

	ratio := avgPerDay * 7 / float64(activeUsers)

	switch {
	case ratio < engagementIdealLow:
		return int(math.Round(ratio / engagementIdealLow * 100))
	case ratio <= engagementIdealHigh:
		return 100
	default:
		penalty := math.Min(engagementMaxPenalty, (ratio-engagementIdealHigh)*engagementPenaltyRate)
		return int(math.Round(100 - penalty))
	}
}

// TrendScore maps a trend classification onto [20,100] around a neutral 70.
// Stable is always 70. Up adds min(30, pct×0.6), capping at 100. Down
// subtracts min(50, pct) with a floor of 20, so even a severe decline never
// zeroes the component.
func TrendScore(trend models.Trend, pct float64) int {
	if pct < 0 {
		pct = 0
	}
	switch trend {
	case models.TrendUp:
		return int(math.Round(70 + math.Min(30, pct*0.6)))
	case models.TrendDown:
		return int(math.Round(math.Max(20, 70-math.Min(50, pct))))
	default:
		return 70
	}
}

// ConsistencyScore scores the coefficient of variation (stddev/mean) of daily
// message counts: max(0, round(100 − CV×50)). Lower day-to-day variance means
// a higher score. Fewer than 2 data points is insufficient data and scores a
// neutral 50; a zero mean scores 0.
func ConsistencyScore(daily []models.DayCount) int {
	if len(daily) < 2 {
		return 50
	}

	var sum float64
	for _, d := range daily {
		sum += float64(d.Count)
	}
	mean := sum / float64(len(daily))
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, d := range daily {
		diff := float64(d.Count) - mean
		variance += diff * diff
	}
	variance /= float64(len(daily))
	cv := math.Sqrt(variance) / mean

	score := math.Round(100 - cv*50)
	if score < 0 {
		return 0
	}
	return int(score)
}

// CompositeScore combines the four components with their weights, rounds, and
// clamps to [0,100].
func CompositeScore(c models.ComponentScores) int {
	score := math.Round(
		weightActivity*float64(c.Activity) +
			weightEngagement*float64(c.Engagement) +
			weightTrend*float64(c.Trend) +
			weightConsistency*float64(c.Consistency))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

// Interpretation buckets: the 80/60/40 thresholds are contractual; the
// wording is presentation detail.
const (
	bucketExcellent = 80
	bucketGood      = 60
	bucketWarning   = 40
)

// Interpret renders the deterministic natural-language reading of a score.
func Interpret(score int, trend models.TrendResult, avgPerDay float64, activeUsers int) string {
	stats := fmt.Sprintf("averaging %.0f messages/day from %d active members", avgPerDay, activeUsers)

	var direction string
	switch trend.Trend {
	case models.TrendUp:
		direction = fmt.Sprintf("activity is up %.0f%% week over week", trend.Percentage)
	case models.TrendDown:
		direction = fmt.Sprintf("activity is down %.0f%% week over week", trend.Percentage)
	default:
		direction = "activity is holding steady week over week"
	}

	switch {
	case score >= bucketExcellent:
		return fmt.Sprintf("Excellent health: %s, %s. Keep doing what you're doing.", direction, stats)
	case score >= bucketGood:
		return fmt.Sprintf("Good health: %s, %s. There is room to grow engagement.", direction, stats)
	case score >= bucketWarning:
		return fmt.Sprintf("Warning: %s, %s. The community needs attention soon.", direction, stats)
	default:
		return fmt.Sprintf("Critical: %s, %s. Immediate re-engagement is recommended.", direction, stats)
	}
}
