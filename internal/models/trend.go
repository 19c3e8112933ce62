package models

import "errors"

// Trend classifies the direction of a period-over-period change.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// TrendResult describes a period-over-period comparison. Percentage is the
// absolute relative change (always >= 0); Trend tells the direction. A change
// of 5% or less in either direction is classified as stable.
type TrendResult struct {
	Trend      Trend   `json:"trend"`
	Percentage float64 `json:"percentage"`
}

// Validate checks that the trend classification is well formed.
func (t TrendResult) Validate() error {
	switch t.Trend {
	case TrendUp, TrendDown, TrendStable:
	default:
		return errors.New("trend must be 'up', 'down' or 'stable'")
	}
	if t.Percentage < 0 {
		return errors.New("trend percentage must not be negative")
	}
	return nil
}
