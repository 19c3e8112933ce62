// Package notify delivers generated alerts to the guild's staff channel via a
// Discord webhook. Alerts are rendered as embeds with severity colors; the
// notifier rate-limits itself and retries transient failures with a linear
// backoff.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/guildpulse/guildpulse/internal/models"
)

// Discord embed payloads are capped at 10 embeds per message.
const maxEmbedsPerMessage = 10

// Config configures the webhook notifier.
type Config struct {
	WebhookURL     string
	Enabled        bool
	RateLimit      time.Duration
	MaxRetries     int
	RetryDelayBase time.Duration
}

// DiscordNotifier sends alerts to a Discord webhook.
type DiscordNotifier struct {
	webhookURL     string
	enabled        bool
	rateLimit      time.Duration
	maxRetries     int
	retryDelayBase time.Duration

	client   *http.Client
	lastSent time.Time
}

// NewDiscordNotifier creates a webhook notifier. Zero-valued retry and rate
// limit settings fall back to 3 retries, 1s backoff base and a 1s rate limit.
func NewDiscordNotifier(cfg Config) *DiscordNotifier {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelayBase <= 0 {
		cfg.RetryDelayBase = time.Second
	}

	return &DiscordNotifier{
		webhookURL:     cfg.WebhookURL,
		enabled:        cfg.Enabled,
		rateLimit:      cfg.RateLimit,
		maxRetries:     cfg.MaxRetries,
		retryDelayBase: cfg.RetryDelayBase,
		client:         &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether the notifier will actually send anything.
func (n *DiscordNotifier) Enabled() bool {
	return n.enabled && n.webhookURL != ""
}

// Send delivers the alerts as one webhook message. A disabled notifier is a
// no-op. The context governs both the rate-limit wait and the HTTP requests.
func (n *DiscordNotifier) Send(ctx context.Context, alerts []models.Alert) error {
	if !n.Enabled() || len(alerts) == 0 {
		return nil
	}

	if wait := n.rateLimit - time.Since(n.lastSent); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if len(alerts) > maxEmbedsPerMessage {
		alerts = alerts[:maxEmbedsPerMessage]
	}
	embeds := make([]discordEmbed, len(alerts))
	for i, a := range alerts {
		embeds[i] = buildEmbed(a)
	}

	body, err := json.Marshal(discordWebhookPayload{Embeds: embeds})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	var lastErr error
	for i := 0; i < n.maxRetries; i++ {
		if err := n.post(ctx, body); err != nil {
			lastErr = err
			select {
			case <-time.After(n.retryDelayBase * time.Duration(i+1)):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		n.lastSent = time.Now()
		return nil
	}

	return fmt.Errorf("failed to send webhook after %d retries: %w", n.maxRetries, lastErr)
}

func (n *DiscordNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func buildEmbed(a models.Alert) discordEmbed {
	fields := []discordEmbedField{
		{Name: "Severity", Value: string(a.Level), Inline: true},
		{Name: "Type", Value: string(a.Type), Inline: true},
	}
	if a.ChannelID != "" {
		fields = append(fields, discordEmbedField{Name: "Channel", Value: "<#" + a.ChannelID + ">", Inline: true})
	}

	return discordEmbed{
		Title:       a.Title,
		Description: a.Description,
		Color:       severityColor(a.Level),
		Timestamp:   a.CreatedAt.Format(time.RFC3339),
		Fields:      fields,
		Footer:      discordEmbedFooter{Text: "GuildPulse"},
	}
}

// severityColor returns the embed accent color for an alert level.
func severityColor(level models.AlertLevel) int {
	switch level {
	case models.LevelCritical:
		return 0xFF0000 // Red
	case models.LevelWarning:
		return 0xFFA500 // Orange
	case models.LevelInfo:
		return 0x3498DB // Blue
	default:
		return 0x95A5A6 // Gray
	}
}

// Discord webhook structures
type discordWebhookPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds,omitempty"`
}

type discordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Footer      discordEmbedFooter  `json:"footer,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordEmbedFooter struct {
	Text string `json:"text,omitempty"`
}
