package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/guildpulse/guildpulse/internal/activity"
	"github.com/guildpulse/guildpulse/internal/models"
	"github.com/guildpulse/guildpulse/internal/period"
)

// Config holds the engine tunables. Zero values are replaced with the shipped
// defaults by New.
type Config struct {
	// InsightDays is the default insights window length.
	InsightDays int
	// TopChannels and TopSlots bound the insight rankings.
	TopChannels int
	TopSlots    int
	// SlotSize is the peak-time bucket width in hours; must divide 24.
	SlotSize int
	// TrendDays is the comparison window for trend classification.
	TrendDays int
	// ConsistencyDays is the window for the consistency component.
	ConsistencyDays int

	Alerts AlertThresholds

	// MaxRecommendations caps the recommendation list.
	MaxRecommendations int
	// QuietMinPrevMessages and QuietCurrentRatio define quiet channels: at
	// least the former in the previous period, now below ratio×previous.
	QuietMinPrevMessages int
	QuietCurrentRatio    float64
}

// DefaultConfig returns the shipped engine tunables.
func DefaultConfig() Config {
	return Config{
		InsightDays:          7,
		TopChannels:          3,
		TopSlots:             3,
		SlotSize:             3,
		TrendDays:            7,
		ConsistencyDays:      30,
		Alerts:               DefaultAlertThresholds(),
		MaxRecommendations:   5,
		QuietMinPrevMessages: 10,
		QuietCurrentRatio:    0.3,
	}
}

// Engine computes health scores, insights, alerts and recommendations for a
// guild on demand. It holds no per-guild state: every operation is pure given
// the data source, so concurrent requests for different guilds never
// interfere. Scheduling of periodic runs belongs to the caller.
type Engine struct {
	source activity.Source
	cfg    Config
	now    func() time.Time
}

// New creates an engine over the given data source. Zero-valued config fields
// fall back to DefaultConfig.
func New(source activity.Source, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.InsightDays < 1 {
		cfg.InsightDays = def.InsightDays
	}
	if cfg.TopChannels < 1 {
		cfg.TopChannels = def.TopChannels
	}
	if cfg.TopSlots < 1 {
		cfg.TopSlots = def.TopSlots
	}
	if cfg.SlotSize < 1 || 24%cfg.SlotSize != 0 {
		cfg.SlotSize = def.SlotSize
	}
	if cfg.TrendDays < 1 {
		cfg.TrendDays = def.TrendDays
	}
	if cfg.ConsistencyDays < 2 {
		cfg.ConsistencyDays = def.ConsistencyDays
	}
	if cfg.Alerts == (AlertThresholds{}) {
		cfg.Alerts = def.Alerts
	}
	if cfg.MaxRecommendations < 1 {
		cfg.MaxRecommendations = def.MaxRecommendations
	}
	if cfg.QuietMinPrevMessages < 1 {
		cfg.QuietMinPrevMessages = def.QuietMinPrevMessages
	}
	if cfg.QuietCurrentRatio <= 0 || cfg.QuietCurrentRatio >= 1 {
		cfg.QuietCurrentRatio = def.QuietCurrentRatio
	}

	return &Engine{source: source, cfg: cfg, now: time.Now}
}

// WithClock overrides the engine's clock. Tests use this to pin windows to a
// known reference time.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// CalculateHealthScore computes a fresh composite health score for the guild.
// Activity and engagement come from the 7-day window, consistency from the
// 30-day daily series, and trend from the 7-day period comparison. Data
// source errors propagate unchanged: callers own the "insufficient data" UX
// and can tell a genuinely quiet guild from an empty one via the raw counts.
func (e *Engine) CalculateHealthScore(ctx context.Context, guildID string) (*models.HealthScore, error) {
	now := e.now()

	week := period.DayRange(now, 7)
	month := period.DayRange(now, 30)
	cmp := period.ComparisonPeriods(now, e.cfg.TrendDays)

	count7, err := e.source.MessageCount(ctx, guildID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query 7d message count: %w", err)
	}
	active7, err := e.source.ActiveAuthorCount(ctx, guildID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query 7d active authors: %w", err)
	}
	count30, err := e.source.MessageCount(ctx, guildID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query 30d message count: %w", err)
	}
	active30, err := e.source.ActiveAuthorCount(ctx, guildID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query 30d active authors: %w", err)
	}
	daily, err := e.source.DailyMessageCounts(ctx, guildID, period.DayRange(now, e.cfg.ConsistencyDays))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily counts: %w", err)
	}
	prevCount, err := e.source.MessageCount(ctx, guildID, cmp.Previous)
	if err != nil {
		return nil, fmt.Errorf("failed to query previous period count: %w", err)
	}
	currCount, err := e.source.MessageCount(ctx, guildID, cmp.Current)
	if err != nil {
		return nil, fmt.Errorf("failed to query current period count: %w", err)
	}

	trend := ClassifyTrend(currCount, prevCount)
	avg := float64(count7) / 7

	components := models.ComponentScores{
		Activity:    ActivityScore(avg),
		Engagement:  EngagementScore(avg, active7),
		Trend:       TrendScore(trend.Trend, trend.Percentage),
		Consistency: ConsistencyScore(daily),
	}
	score := CompositeScore(components)

	return &models.HealthScore{
		GuildID:           guildID,
		Score:             score,
		Components:        components,
		Interpretation:    Interpret(score, trend, avg, active7),
		Trend:             trend,
		AvgMessagesPerDay: avg,
		MessageCount7d:    count7,
		ActiveUsers7d:     active7,
		MessageCount30d:   count30,
		ActiveUsers30d:    active30,
		GeneratedAt:       now,
	}, nil
}

// GetInsights summarizes the last days days (default when days < 1) into
// rankable facts. A guild with no recorded activity yields empty TopChannels
// and zero counts, which callers must treat as "no data".
func (e *Engine) GetInsights(ctx context.Context, guildID string, days int) (*models.InsightsBundle, error) {
	if days < 1 {
		days = e.cfg.InsightDays
	}
	w := period.DayRange(e.now(), days)

	count, err := e.source.MessageCount(ctx, guildID, w)
	if err != nil {
		return nil, fmt.Errorf("failed to query message count: %w", err)
	}
	authors, err := e.source.ActiveAuthorCount(ctx, guildID, w)
	if err != nil {
		return nil, fmt.Errorf("failed to query active authors: %w", err)
	}
	newAuthors, err := e.source.NewAuthorCount(ctx, guildID, w)
	if err != nil {
		return nil, fmt.Errorf("failed to query new authors: %w", err)
	}
	channels, err := e.source.ChannelActivity(ctx, guildID, w)
	if err != nil {
		return nil, fmt.Errorf("failed to query channel activity: %w", err)
	}
	hours, err := e.source.HourlyActivity(ctx, guildID, w)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly activity: %w", err)
	}

	return &models.InsightsBundle{
		GuildID:       guildID,
		Window:        w,
		MessageCount:  count,
		ActiveAuthors: authors,
		NewAuthors:    newAuthors,
		TopChannels:   TopChannels(channels, e.cfg.TopChannels),
		PeakSlots:     PeakTimeSlots(hours, e.cfg.SlotSize, e.cfg.TopSlots),
	}, nil
}

// GenerateAlerts evaluates the alert rules against the current-vs-previous
// period comparison and returns zero or more alerts sorted by severity.
// Alerts are freshly computed on every call; deduplication across calls is a
// caller concern.
func (e *Engine) GenerateAlerts(ctx context.Context, guildID string) ([]models.Alert, error) {
	now := e.now()
	cmp := period.ComparisonPeriods(now, e.cfg.TrendDays)

	currCount, err := e.source.MessageCount(ctx, guildID, cmp.Current)
	if err != nil {
		return nil, fmt.Errorf("failed to query current period count: %w", err)
	}
	prevCount, err := e.source.MessageCount(ctx, guildID, cmp.Previous)
	if err != nil {
		return nil, fmt.Errorf("failed to query previous period count: %w", err)
	}
	currChannels, err := e.source.ChannelActivity(ctx, guildID, cmp.Current)
	if err != nil {
		return nil, fmt.Errorf("failed to query current channel activity: %w", err)
	}
	prevChannels, err := e.source.ChannelActivity(ctx, guildID, cmp.Previous)
	if err != nil {
		return nil, fmt.Errorf("failed to query previous channel activity: %w", err)
	}
	newAuthors, err := e.source.NewAuthorCount(ctx, guildID, cmp.Current)
	if err != nil {
		return nil, fmt.Errorf("failed to query new authors: %w", err)
	}

	return buildAlerts(e.cfg.Alerts, alertInputs{
		guildID:          guildID,
		trend:            ClassifyTrend(currCount, prevCount),
		currentTotal:     currCount,
		newAuthors:       newAuthors,
		currentChannels:  currChannels,
		previousChannels: prevChannels,
		now:              now,
	}), nil
}

// GenerateRecommendations assembles the metrics bundle (health score,
// insights, alerts, quiet channels) and matches it against the rule table,
// returning at most MaxRecommendations suggestions sorted by priority.
func (e *Engine) GenerateRecommendations(ctx context.Context, guildID string) ([]models.Recommendation, error) {
	health, err := e.CalculateHealthScore(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate health score: %w", err)
	}
	insights, err := e.GetInsights(ctx, guildID, e.cfg.InsightDays)
	if err != nil {
		return nil, fmt.Errorf("failed to get insights: %w", err)
	}
	alerts, err := e.GenerateAlerts(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate alerts: %w", err)
	}

	cmp := period.ComparisonPeriods(e.now(), 7)
	currChannels, err := e.source.ChannelActivity(ctx, guildID, cmp.Current)
	if err != nil {
		return nil, fmt.Errorf("failed to query current channel activity: %w", err)
	}
	prevChannels, err := e.source.ChannelActivity(ctx, guildID, cmp.Previous)
	if err != nil {
		return nil, fmt.Errorf("failed to query previous channel activity: %w", err)
	}

	bundle := &MetricsBundle{
		Health:   health,
		Insights: insights,
		Alerts:   alerts,
		Quiet:    QuietChannels(currChannels, prevChannels, e.cfg.QuietMinPrevMessages, e.cfg.QuietCurrentRatio),
	}
	return evaluateRules(bundle, e.cfg.MaxRecommendations), nil
}
