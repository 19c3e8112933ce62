// pulse-report prints a full analysis report for one guild to stdout.
// It reads the activity database directly and is safe to run next to a live
// service; nothing is written.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/guildpulse/guildpulse/internal/activity"
	"github.com/guildpulse/guildpulse/internal/analytics"
	"github.com/guildpulse/guildpulse/internal/models"
)

var (
	dbPath  = flag.String("db", "./data/guildpulse.db", "Path to activity database")
	guildID = flag.String("guild", "", "Guild ID to report on (required)")
	days    = flag.Int("days", 7, "Insights window in days")
)

func main() {
	flag.Parse()

	if *guildID == "" {
		flag.Usage()
		os.Exit(2)
	}

	store, err := activity.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open activity store: %v", err)
	}
	defer store.Close()

	engine := analytics.New(store, analytics.DefaultConfig())
	ctx := context.Background()

	health, err := engine.CalculateHealthScore(ctx, *guildID)
	if err != nil {
		log.Fatalf("Failed to calculate health score: %v", err)
	}
	insights, err := engine.GetInsights(ctx, *guildID, *days)
	if err != nil {
		log.Fatalf("Failed to get insights: %v", err)
	}
	alerts, err := engine.GenerateAlerts(ctx, *guildID)
	if err != nil {
		log.Fatalf("Failed to generate alerts: %v", err)
	}
	recs, err := engine.GenerateRecommendations(ctx, *guildID)
	if err != nil {
		log.Fatalf("Failed to generate recommendations: %v", err)
	}

	printHealth(health)
	printInsights(insights, *days)
	printAlerts(alerts)
	printRecommendations(recs)
}

func section(title string) {
	fmt.Printf("\n%s\n%s\n", title, strings.Repeat("=", len(title)))
}

func printHealth(h *models.HealthScore) {
	section(fmt.Sprintf("Health Score: %d/100", h.Score))
	fmt.Printf("  Activity:    %3d  (weight 0.40)\n", h.Components.Activity)
	fmt.Printf("  Engagement:  %3d  (weight 0.30)\n", h.Components.Engagement)
	fmt.Printf("  Trend:       %3d  (weight 0.20)\n", h.Components.Trend)
	fmt.Printf("  Consistency: %3d  (weight 0.10)\n", h.Components.Consistency)
	fmt.Printf("\n  7d:  %d messages, %d active members\n", h.MessageCount7d, h.ActiveUsers7d)
	fmt.Printf("  30d: %d messages, %d active members\n", h.MessageCount30d, h.ActiveUsers30d)
	fmt.Printf("\n  %s\n", h.Interpretation)
}

func printInsights(in *models.InsightsBundle, days int) {
	section(fmt.Sprintf("Insights (last %d days)", days))
	if len(in.TopChannels) == 0 {
		fmt.Println("  No recorded activity in this window.")
		return
	}

	fmt.Printf("  Messages: %d | Active authors: %d | First-time posters: %d\n\n",
		in.MessageCount, in.ActiveAuthors, in.NewAuthors)

	fmt.Println("  Top channels:")
	for i, c := range in.TopChannels {
		fmt.Printf("    %d. #%s — %d messages\n", i+1, c.ChannelID, c.Count)
	}

	fmt.Println("  Peak times (UTC):")
	for i, s := range in.PeakSlots {
		fmt.Printf("    %d. %s — %d messages\n", i+1, s.Label, s.Count)
	}
}

func printAlerts(alerts []models.Alert) {
	section(fmt.Sprintf("Alerts (%d)", len(alerts)))
	if len(alerts) == 0 {
		fmt.Println("  None. All thresholds clear.")
		return
	}
	for _, a := range alerts {
		target := ""
		if a.ChannelID != "" {
			target = fmt.Sprintf(" [#%s]", a.ChannelID)
		}
		fmt.Printf("  [%s] %s%s\n      %s\n", a.Level, a.Title, target, a.Description)
	}
}

func printRecommendations(recs []models.Recommendation) {
	section(fmt.Sprintf("Recommendations (%d)", len(recs)))
	if len(recs) == 0 {
		fmt.Println("  Nothing actionable right now.")
		return
	}
	for _, r := range recs {
		target := ""
		if r.TargetChannel != "" {
			target = fmt.Sprintf(" [#%s]", r.TargetChannel)
		}
		fmt.Printf("  P%d %s%s\n      %s\n      e.g. %s\n", r.Priority, r.Title, target, r.Description, r.Example)
	}
}
