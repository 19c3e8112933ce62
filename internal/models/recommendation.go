package models

import "errors"

// Recommendation is an actionable suggestion produced by matching a fixed,
// priority-ordered rule table against a guild's combined metrics. Lower
// priority numbers are more urgent; at most five recommendations are returned
// per request, sorted ascending by priority.
type Recommendation struct {
	ID            string `json:"id"`
	Priority      int    `json:"priority"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Example       string `json:"example"`
	TargetChannel string `json:"target_channel,omitempty"`
}

// Validate checks that all recommendation fields are valid.
func (r *Recommendation) Validate() error {
	if r.ID == "" {
		return errors.New("recommendation ID must not be empty")
	}
	if r.Priority < 0 {
		return errors.New("recommendation priority must not be negative")
	}
	if r.Title == "" {
		return errors.New("recommendation title must not be empty")
	}
	return nil
}
