package analytics

import (
	"testing"
	"time"

	"github.com/guildpulse/guildpulse/internal/models"
)

var alertRefTime = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func healthyInputs() alertInputs {
	return alertInputs{
		guildID:      "guild-1",
		trend:        models.TrendResult{Trend: models.TrendStable, Percentage: 2},
		currentTotal: 200,
		newAuthors:   5,
		currentChannels: []models.ChannelActivity{
			{ChannelID: "general", Count: 120},
			{ChannelID: "help", Count: 80},
		},
		previousChannels: []models.ChannelActivity{
			{ChannelID: "general", Count: 115},
			{ChannelID: "help", Count: 82},
		},
		now: alertRefTime,
	}
}

func TestBuildAlerts_HealthyGuildHasNone(t *testing.T) {
	got := buildAlerts(DefaultAlertThresholds(), healthyInputs())
	if len(got) != 0 {
		t.Errorf("Expected no alerts for healthy inputs, got %d: %+v", len(got), got)
	}
}

func TestBuildAlerts_GuildDropWarning(t *testing.T) {
	in := healthyInputs()
	in.trend = models.TrendResult{Trend: models.TrendDown, Percentage: 35}

	got := buildAlerts(DefaultAlertThresholds(), in)

	if len(got) != 1 {
		t.Fatalf("Expected exactly one alert, got %d", len(got))
	}
	a := got[0]
	if a.Type != models.AlertActivity || a.Level != models.LevelWarning {
		t.Errorf("Expected WARNING activity alert, got %s %s", a.Level, a.Type)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Expected valid alert, got %v", err)
	}
}

func TestBuildAlerts_GuildDropEscalatesToCritical(t *testing.T) {
	in := healthyInputs()
	in.trend = models.TrendResult{Trend: models.TrendDown, Percentage: 55}

	got := buildAlerts(DefaultAlertThresholds(), in)

	if len(got) != 1 {
		t.Fatalf("Expected exactly one alert, got %d", len(got))
	}
	if got[0].Level != models.LevelCritical {
		t.Errorf("Expected CRITICAL for a 55%% drop, got %s", got[0].Level)
	}
}

func TestBuildAlerts_GuildDropBelowThresholdIgnored(t *testing.T) {
	in := healthyInputs()
	in.trend = models.TrendResult{Trend: models.TrendDown, Percentage: 25}

	if got := buildAlerts(DefaultAlertThresholds(), in); len(got) != 0 {
		t.Errorf("Expected no alert for a 25%% drop, got %d", len(got))
	}
}

func TestBuildAlerts_ChannelDropWarning(t *testing.T) {
	in := healthyInputs()
	in.previousChannels = []models.ChannelActivity{{ChannelID: "general", Count: 100}}
	in.currentChannels = []models.ChannelActivity{{ChannelID: "general", Count: 40}}

	got := buildAlerts(DefaultAlertThresholds(), in)

	if len(got) != 1 {
		t.Fatalf("Expected exactly one channel alert for a 60%% drop, got %d", len(got))
	}
	a := got[0]
	if a.Type != models.AlertChannel || a.Level != models.LevelWarning {
		t.Errorf("Expected WARNING channel alert, got %s %s", a.Level, a.Type)
	}
	if a.ChannelID != "general" {
		t.Errorf("Expected alert to name channel general, got %q", a.ChannelID)
	}
}

func TestBuildAlerts_ChannelDropEscalatesToCritical(t *testing.T) {
	in := healthyInputs()
	in.previousChannels = []models.ChannelActivity{{ChannelID: "general", Count: 100}}
	in.currentChannels = []models.ChannelActivity{{ChannelID: "general", Count: 15}}

	got := buildAlerts(DefaultAlertThresholds(), in)

	if len(got) != 1 || got[0].Level != models.LevelCritical {
		t.Fatalf("Expected one CRITICAL channel alert for an 85%% drop, got %+v", got)
	}
}

func TestBuildAlerts_SmallChannelsAreSkipped(t *testing.T) {
	in := healthyInputs()
	// Previous count below the 50-message floor: even a 100% drop is ignored.
	in.previousChannels = []models.ChannelActivity{{ChannelID: "niche", Count: 40}}
	in.currentChannels = nil

	if got := buildAlerts(DefaultAlertThresholds(), in); len(got) != 0 {
		t.Errorf("Expected small channels to be exempt, got %d alert(s)", len(got))
	}
}

func TestBuildAlerts_VanishedChannelCountsAsZero(t *testing.T) {
	in := healthyInputs()
	in.previousChannels = []models.ChannelActivity{{ChannelID: "events", Count: 80}}
	in.currentChannels = nil

	got := buildAlerts(DefaultAlertThresholds(), in)

	if len(got) != 1 || got[0].Level != models.LevelCritical {
		t.Fatalf("Expected a CRITICAL alert for a channel that went fully silent, got %+v", got)
	}
}

func TestBuildAlerts_ActivationInfo(t *testing.T) {
	in := healthyInputs()
	in.currentTotal = 60
	in.newAuthors = 1

	got := buildAlerts(DefaultAlertThresholds(), in)

	if len(got) != 1 {
		t.Fatalf("Expected exactly one alert, got %d", len(got))
	}
	if got[0].Type != models.AlertActivation || got[0].Level != models.LevelInfo {
		t.Errorf("Expected INFO activation alert, got %s %s", got[0].Level, got[0].Type)
	}
}

func TestBuildAlerts_ActivationRequiresTraffic(t *testing.T) {
	in := healthyInputs()
	// A quiet guild with zero new authors is not an activation problem.
	in.currentTotal = 30
	in.newAuthors = 0

	if got := buildAlerts(DefaultAlertThresholds(), in); len(got) != 0 {
		t.Errorf("Expected no activation alert below the traffic floor, got %d", len(got))
	}
}

func TestBuildAlerts_SortedBySeverity(t *testing.T) {
	in := healthyInputs()
	// Trigger all three rules: INFO activation, WARNING channel, CRITICAL guild.
	in.trend = models.TrendResult{Trend: models.TrendDown, Percentage: 60}
	in.currentTotal = 100
	in.newAuthors = 0
	in.previousChannels = []models.ChannelActivity{{ChannelID: "general", Count: 100}}
	in.currentChannels = []models.ChannelActivity{{ChannelID: "general", Count: 45}}

	got := buildAlerts(DefaultAlertThresholds(), in)

	if len(got) != 3 {
		t.Fatalf("Expected 3 alerts, got %d", len(got))
	}
	wantLevels := []models.AlertLevel{models.LevelCritical, models.LevelWarning, models.LevelInfo}
	for i, want := range wantLevels {
		if got[i].Level != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, got[i].Level)
		}
	}
}

func TestBuildAlerts_UniqueIDs(t *testing.T) {
	in := healthyInputs()
	in.trend = models.TrendResult{Trend: models.TrendDown, Percentage: 60}
	in.currentTotal = 100
	in.newAuthors = 0

	got := buildAlerts(DefaultAlertThresholds(), in)

	seen := make(map[string]bool)
	for _, a := range got {
		if a.ID == "" {
			t.Error("Expected every alert to carry an ID")
		}
		if seen[a.ID] {
			t.Errorf("Duplicate alert ID %s", a.ID)
		}
		seen[a.ID] = true
		if !a.CreatedAt.Equal(alertRefTime) {
			t.Errorf("Expected CreatedAt %v, got %v", alertRefTime, a.CreatedAt)
		}
	}
}
