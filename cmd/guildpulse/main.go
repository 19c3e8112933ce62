package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guildpulse/guildpulse/internal/activity"
	"github.com/guildpulse/guildpulse/internal/analytics"
	"github.com/guildpulse/guildpulse/internal/config"
	"github.com/guildpulse/guildpulse/internal/logger"
	"github.com/guildpulse/guildpulse/internal/notify"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	// Open activity store
	store, err := activity.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to open activity store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close activity store: %v", err)
		}
	}()

	// Initialize analytics engine
	engine := analytics.New(store, analytics.Config{
		InsightDays:     cfg.Scan.InsightDays,
		TopChannels:     cfg.Scan.TopChannels,
		TopSlots:        cfg.Scan.TopSlots,
		SlotSize:        cfg.Scan.SlotSize,
		TrendDays:       cfg.Scan.TrendDays,
		ConsistencyDays: cfg.Scan.ConsistDays,
		Alerts: analytics.AlertThresholds{
			GuildDropPercent:           cfg.Alerts.GuildDropPercent,
			GuildDropCriticalPercent:   cfg.Alerts.GuildDropCriticalPct,
			ChannelMinPrevMessages:     cfg.Alerts.ChannelMinPrevMessages,
			ChannelDropPercent:         cfg.Alerts.ChannelDropPercent,
			ChannelDropCriticalPercent: cfg.Alerts.ChannelDropCriticalPct,
			ActivationMinMessages:      cfg.Alerts.ActivationMinMessages,
			ActivationMaxNewAuthors:    cfg.Alerts.ActivationMaxNewAuthors,
		},
		MaxRecommendations:   cfg.Recommend.MaxResults,
		QuietMinPrevMessages: cfg.Recommend.QuietMinPrevMessages,
		QuietCurrentRatio:    cfg.Recommend.QuietCurrentRatio,
	})

	// Initialize alert notifier
	notifier := notify.NewDiscordNotifier(notify.Config{
		WebhookURL:     cfg.Discord.WebhookURL,
		Enabled:        cfg.Discord.Enabled,
		RateLimit:      cfg.Discord.RateLimit,
		MaxRetries:     cfg.Discord.MaxRetries,
		RetryDelayBase: cfg.Discord.RetryDelayBase,
	})
	if notifier.Enabled() {
		logger.Info("Discord alert notifier enabled")
	} else {
		logger.Debug("Discord alert notifications disabled")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	logger.Info("Starting analytics service (scan interval: %v, retention: %d days)",
		cfg.Scan.Interval, cfg.Database.RetentionDays)

	ticker := time.NewTicker(cfg.Scan.Interval)
	defer ticker.Stop()

	consecutiveFailures := 0

	handleScanResult := func(err error) {
		if err != nil {
			consecutiveFailures++
			logger.Error("Analysis scan failed: %v", err)
		} else {
			if consecutiveFailures > 0 {
				logger.Info("Analysis scans recovered after %d failure(s)", consecutiveFailures)
			}
			consecutiveFailures = 0
		}
	}

	// Run initial scan immediately
	logger.Debug("Running initial analysis scan")
	handleScanResult(runScan(ctx, engine, store, notifier))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Service stopped")
			return

		case <-ticker.C:
			logger.Debug("Starting scheduled analysis scan")
			handleScanResult(runScan(ctx, engine, store, notifier))

			// Rotate old activity rows
			cutoff := time.Now().AddDate(0, 0, -cfg.Database.RetentionDays)
			if pruned, err := store.PruneBefore(ctx, cutoff); err != nil {
				logger.Warn("Failed to prune old activity: %v", err)
			} else if pruned > 0 {
				logger.Debug("Pruned %d activity rows older than %v", pruned, cutoff.Format("2006-01-02"))
			}
		}
	}
}

// runScan analyzes every guild with recorded activity: logs the health score,
// generates alerts and sends them through the notifier, and logs the top
// recommendation. Per-guild failures are logged and do not abort the scan.
func runScan(ctx context.Context, engine *analytics.Engine, store *activity.Store, notifier *notify.DiscordNotifier) error {
	startTime := time.Now()
	logger.Info("Starting analysis scan")

	guilds, err := store.ListGuilds(ctx)
	if err != nil {
		return err
	}
	logger.Info("Scanning %d guild(s)", len(guilds))

	for _, guildID := range guilds {
		health, err := engine.CalculateHealthScore(ctx, guildID)
		if err != nil {
			logger.Warn("Failed to score guild %s: %v", guildID, err)
			continue
		}
		logger.Info("Guild %s: health %d/100 (activity=%d engagement=%d trend=%d consistency=%d)",
			guildID, health.Score,
			health.Components.Activity, health.Components.Engagement,
			health.Components.Trend, health.Components.Consistency)

		alerts, err := engine.GenerateAlerts(ctx, guildID)
		if err != nil {
			logger.Warn("Failed to generate alerts for guild %s: %v", guildID, err)
			continue
		}
		if len(alerts) > 0 {
			logger.Info("Guild %s: %d alert(s), highest severity %s", guildID, len(alerts), alerts[0].Level)
			if err := notifier.Send(ctx, alerts); err != nil {
				logger.Error("Failed to deliver alerts for guild %s: %v", guildID, err)
			}
		}

		recs, err := engine.GenerateRecommendations(ctx, guildID)
		if err != nil {
			logger.Warn("Failed to generate recommendations for guild %s: %v", guildID, err)
			continue
		}
		if len(recs) > 0 {
			logger.Info("Guild %s: %d recommendation(s), top: %s", guildID, len(recs), recs[0].Title)
		}
	}

	logger.Info("Analysis scan completed in %v", time.Since(startTime))
	return nil
}
