package analytics

import (
	"math"

	"github.com/guildpulse/guildpulse/internal/models"
)

// trendDeadband is the relative change (in percent) below which a
// period-over-period move is classified as stable rather than up or down.
const trendDeadband = 5.0

// ClassifyTrend compares a current count against the previous period's count
// and returns the direction plus the absolute relative change in percent.
// Moves of 5% or less in either direction are stable. A previous count of
// zero with any current activity is reported as up 100%; zero against zero
// is stable 0%.
func ClassifyTrend(current, previous int) models.TrendResult {
	if previous == 0 {
		if current > 0 {
			return models.TrendResult{Trend: models.TrendUp, Percentage: 100}
		}
		return models.TrendResult{Trend: models.TrendStable, Percentage: 0}
	}

	pct := math.Abs(float64(current-previous)) / float64(previous) * 100

	switch {
	case current > previous && pct > trendDeadband:
		return models.TrendResult{Trend: models.TrendUp, Percentage: pct}
	case current < previous && pct > trendDeadband:
		return models.TrendResult{Trend: models.TrendDown, Percentage: pct}
	default:
		return models.TrendResult{Trend: models.TrendStable, Percentage: pct}
	}
}
