package models

import (
	"errors"
	"time"
)

// AlertType identifies which rule family produced an alert.
type AlertType string

const (
	// AlertActivity flags a guild-wide activity drop.
	AlertActivity AlertType = "activity"
	// AlertChannel flags a single channel at risk of going silent.
	AlertChannel AlertType = "channel"
	// AlertActivation flags stagnant new-member activation.
	AlertActivation AlertType = "activation"
)

// AlertLevel is the severity of an alert.
type AlertLevel string

const (
	LevelCritical AlertLevel = "CRITICAL"
	LevelWarning  AlertLevel = "WARNING"
	LevelInfo     AlertLevel = "INFO"
)

// Rank returns the explicit total order used for severity sorting:
// CRITICAL(0) < WARNING(1) < INFO(2). Unknown levels sort last.
func (l AlertLevel) Rank() int {
	switch l {
	case LevelCritical:
		return 0
	case LevelWarning:
		return 1
	case LevelInfo:
		return 2
	default:
		return 3
	}
}

// Alert is a structured threshold-crossing notification. Alerts are generated
// fresh on every request; the engine does no deduplication or suppression of
// repeats across calls.
type Alert struct {
	ID          string     `json:"id"`
	GuildID     string     `json:"guild_id"`
	Type        AlertType  `json:"type"`
	Level       AlertLevel `json:"level"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ChannelID   string     `json:"channel_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Validate checks that all alert fields are valid.
func (a *Alert) Validate() error {
	if a.ID == "" {
		return errors.New("alert ID must not be empty")
	}
	if a.GuildID == "" {
		return errors.New("guild ID must not be empty")
	}
	switch a.Type {
	case AlertActivity, AlertChannel, AlertActivation:
	default:
		return errors.New("alert type must be 'activity', 'channel' or 'activation'")
	}
	if a.Level.Rank() > 2 {
		return errors.New("alert level must be CRITICAL, WARNING or INFO")
	}
	if a.Title == "" {
		return errors.New("alert title must not be empty")
	}
	if a.Type == AlertChannel && a.ChannelID == "" {
		return errors.New("channel alerts must name a channel")
	}
	return nil
}
