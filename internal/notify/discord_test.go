package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/guildpulse/guildpulse/internal/models"
)

func testAlert(level models.AlertLevel) models.Alert {
	return models.Alert{
		ID:          "a-1",
		GuildID:     "g-1",
		Type:        models.AlertActivity,
		Level:       level,
		Title:       "Server activity is dropping",
		Description: "Messages are down 55% compared to the previous 7 days.",
		CreatedAt:   time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func testNotifier(url string) *DiscordNotifier {
	return NewDiscordNotifier(Config{
		WebhookURL:     url,
		Enabled:        true,
		RateLimit:      time.Millisecond,
		MaxRetries:     3,
		RetryDelayBase: time.Millisecond,
	})
}

func TestSend_DisabledIsNoOp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	n := NewDiscordNotifier(Config{WebhookURL: srv.URL, Enabled: false})

	if err := n.Send(context.Background(), []models.Alert{testAlert(models.LevelCritical)}); err != nil {
		t.Errorf("Expected disabled notifier to succeed silently, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("Expected no webhook calls, got %d", calls.Load())
	}
}

func TestSend_EmptyAlertsIsNoOp(t *testing.T) {
	n := testNotifier("http://127.0.0.1:0/unreachable")
	if err := n.Send(context.Background(), nil); err != nil {
		t.Errorf("Expected no-op for empty alert list, got %v", err)
	}
}

func TestSend_RendersEmbeds(t *testing.T) {
	var got discordWebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode payload: %v", err)
		}
	}))
	defer srv.Close()

	channelAlert := testAlert(models.LevelWarning)
	channelAlert.Type = models.AlertChannel
	channelAlert.ChannelID = "123"

	n := testNotifier(srv.URL)
	err := n.Send(context.Background(), []models.Alert{
		testAlert(models.LevelCritical),
		channelAlert,
		testAlert(models.LevelInfo),
	})
	if err != nil {
		t.Fatalf("Expected send to succeed, got %v", err)
	}

	if len(got.Embeds) != 3 {
		t.Fatalf("Expected 3 embeds, got %d", len(got.Embeds))
	}
	if got.Embeds[0].Color != 0xFF0000 {
		t.Errorf("Expected red for CRITICAL, got %#x", got.Embeds[0].Color)
	}
	if got.Embeds[1].Color != 0xFFA500 {
		t.Errorf("Expected orange for WARNING, got %#x", got.Embeds[1].Color)
	}
	if got.Embeds[2].Color != 0x3498DB {
		t.Errorf("Expected blue for INFO, got %#x", got.Embeds[2].Color)
	}
	if got.Embeds[0].Title == "" || got.Embeds[0].Timestamp == "" {
		t.Errorf("Expected title and timestamp, got %+v", got.Embeds[0])
	}

	// The channel alert carries a channel mention field.
	var hasChannelField bool
	for _, f := range got.Embeds[1].Fields {
		if f.Name == "Channel" && f.Value == "<#123>" {
			hasChannelField = true
		}
	}
	if !hasChannelField {
		t.Errorf("Expected a channel mention field, got %+v", got.Embeds[1].Fields)
	}
}

func TestSend_TruncatesToEmbedLimit(t *testing.T) {
	var got discordWebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode payload: %v", err)
		}
	}))
	defer srv.Close()

	alerts := make([]models.Alert, 15)
	for i := range alerts {
		alerts[i] = testAlert(models.LevelInfo)
	}

	if err := testNotifier(srv.URL).Send(context.Background(), alerts); err != nil {
		t.Fatalf("Expected send to succeed, got %v", err)
	}
	if len(got.Embeds) != 10 {
		t.Errorf("Expected truncation to 10 embeds, got %d", len(got.Embeds))
	}
}

func TestSend_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	if err := testNotifier(srv.URL).Send(context.Background(), []models.Alert{testAlert(models.LevelCritical)}); err != nil {
		t.Fatalf("Expected send to recover on retry, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls.Load())
	}
}

func TestSend_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if err := testNotifier(srv.URL).Send(context.Background(), []models.Alert{testAlert(models.LevelCritical)}); err == nil {
		t.Error("Expected error after exhausting retries")
	}
	if calls.Load() != 3 {
		t.Errorf("Expected exactly 3 attempts, got %d", calls.Load())
	}
}

func TestSend_RespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewDiscordNotifier(Config{
		WebhookURL:     srv.URL,
		Enabled:        true,
		MaxRetries:     5,
		RetryDelayBase: time.Hour,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := n.Send(ctx, []models.Alert{testAlert(models.LevelCritical)})
	if err == nil {
		t.Error("Expected error from canceled context")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Expected cancellation to short-circuit the retry backoff")
	}
}

func TestEnabled(t *testing.T) {
	if NewDiscordNotifier(Config{Enabled: true}).Enabled() {
		t.Error("Expected notifier without webhook URL to report disabled")
	}
	if NewDiscordNotifier(Config{WebhookURL: "https://example.com/hook"}).Enabled() {
		t.Error("Expected notifier with Enabled=false to report disabled")
	}
	if !NewDiscordNotifier(Config{WebhookURL: "https://example.com/hook", Enabled: true}).Enabled() {
		t.Error("Expected enabled notifier with URL to report enabled")
	}
}
