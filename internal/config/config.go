package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Scan      ScanConfig      `mapstructure:"scan"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DatabaseConfig holds activity store configuration
type DatabaseConfig struct {
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// ScanConfig holds the periodic analysis loop configuration
type ScanConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	InsightDays int           `mapstructure:"insight_days"`
	TopChannels int           `mapstructure:"top_channels"`
	SlotSize    int           `mapstructure:"slot_size"`
	TopSlots    int           `mapstructure:"top_slots"`
	TrendDays   int           `mapstructure:"trend_days"`
	ConsistDays int           `mapstructure:"consistency_days"`
}

// AlertsConfig holds every alert rule threshold. Nothing in the rules is
// hardcoded; tuning happens here.
type AlertsConfig struct {
	GuildDropPercent        float64 `mapstructure:"guild_drop_percent"`
	GuildDropCriticalPct    float64 `mapstructure:"guild_drop_critical_percent"`
	ChannelMinPrevMessages  int     `mapstructure:"channel_min_prev_messages"`
	ChannelDropPercent      float64 `mapstructure:"channel_drop_percent"`
	ChannelDropCriticalPct  float64 `mapstructure:"channel_drop_critical_percent"`
	ActivationMinMessages   int     `mapstructure:"activation_min_messages"`
	ActivationMaxNewAuthors int     `mapstructure:"activation_max_new_authors"`
}

// RecommendConfig holds recommendation engine tunables
type RecommendConfig struct {
	MaxResults           int     `mapstructure:"max_results"`
	QuietMinPrevMessages int     `mapstructure:"quiet_min_prev_messages"`
	QuietCurrentRatio    float64 `mapstructure:"quiet_current_ratio"`
}

// DiscordConfig holds alert delivery configuration for the bot's own
// alert channel
type DiscordConfig struct {
	WebhookURL     string        `mapstructure:"webhook_url"`
	Enabled        bool          `mapstructure:"enabled"`
	RateLimit      time.Duration `mapstructure:"rate_limit"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	setDefaults(v)

	v.SetEnvPrefix("GUILDPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "./data/guildpulse.db")
	v.SetDefault("database.retention_days", 90)

	// Scan defaults
	v.SetDefault("scan.interval", "6h")
	v.SetDefault("scan.insight_days", 7)
	v.SetDefault("scan.top_channels", 3)
	v.SetDefault("scan.slot_size", 3)
	v.SetDefault("scan.top_slots", 3)
	v.SetDefault("scan.trend_days", 7)
	v.SetDefault("scan.consistency_days", 30)

	// Alert rule defaults
	v.SetDefault("alerts.guild_drop_percent", 30.0)
	v.SetDefault("alerts.guild_drop_critical_percent", 50.0)
	v.SetDefault("alerts.channel_min_prev_messages", 50)
	v.SetDefault("alerts.channel_drop_percent", 50.0)
	v.SetDefault("alerts.channel_drop_critical_percent", 80.0)
	v.SetDefault("alerts.activation_min_messages", 50)
	v.SetDefault("alerts.activation_max_new_authors", 1)

	// Recommendation defaults
	v.SetDefault("recommend.max_results", 5)
	v.SetDefault("recommend.quiet_min_prev_messages", 10)
	v.SetDefault("recommend.quiet_current_ratio", 0.3)

	// Discord defaults
	v.SetDefault("discord.enabled", false)
	v.SetDefault("discord.rate_limit", "1s")
	v.SetDefault("discord.max_retries", 3)
	v.SetDefault("discord.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.RetentionDays < 30 {
		return fmt.Errorf("database.retention_days must be at least 30")
	}

	if c.Scan.Interval < 1*time.Minute {
		return fmt.Errorf("scan.interval must be at least 1 minute")
	}
	if c.Scan.InsightDays < 1 {
		return fmt.Errorf("scan.insight_days must be at least 1")
	}
	if c.Scan.TopChannels < 1 {
		return fmt.Errorf("scan.top_channels must be at least 1")
	}
	if c.Scan.SlotSize < 1 || c.Scan.SlotSize > 24 || 24%c.Scan.SlotSize != 0 {
		return fmt.Errorf("scan.slot_size must divide 24 evenly")
	}
	if c.Scan.TopSlots < 1 {
		return fmt.Errorf("scan.top_slots must be at least 1")
	}
	if c.Scan.TrendDays < 1 {
		return fmt.Errorf("scan.trend_days must be at least 1")
	}
	if c.Scan.ConsistDays < 2 {
		return fmt.Errorf("scan.consistency_days must be at least 2")
	}

	if c.Alerts.GuildDropPercent <= 0 || c.Alerts.GuildDropPercent > 100 {
		return fmt.Errorf("alerts.guild_drop_percent must be in (0,100]")
	}
	if c.Alerts.GuildDropCriticalPct < c.Alerts.GuildDropPercent {
		return fmt.Errorf("alerts.guild_drop_critical_percent must be >= alerts.guild_drop_percent")
	}
	if c.Alerts.ChannelMinPrevMessages < 1 {
		return fmt.Errorf("alerts.channel_min_prev_messages must be at least 1")
	}
	if c.Alerts.ChannelDropPercent <= 0 || c.Alerts.ChannelDropPercent > 100 {
		return fmt.Errorf("alerts.channel_drop_percent must be in (0,100]")
	}
	if c.Alerts.ChannelDropCriticalPct < c.Alerts.ChannelDropPercent {
		return fmt.Errorf("alerts.channel_drop_critical_percent must be >= alerts.channel_drop_percent")
	}
	if c.Alerts.ActivationMinMessages < 0 {
		return fmt.Errorf("alerts.activation_min_messages must not be negative")
	}
	if c.Alerts.ActivationMaxNewAuthors < 0 {
		return fmt.Errorf("alerts.activation_max_new_authors must not be negative")
	}

	if c.Recommend.MaxResults < 1 {
		return fmt.Errorf("recommend.max_results must be at least 1")
	}
	if c.Recommend.QuietMinPrevMessages < 1 {
		return fmt.Errorf("recommend.quiet_min_prev_messages must be at least 1")
	}
	if c.Recommend.QuietCurrentRatio <= 0 || c.Recommend.QuietCurrentRatio >= 1 {
		return fmt.Errorf("recommend.quiet_current_ratio must be in (0,1)")
	}

	if c.Discord.Enabled {
		if c.Discord.WebhookURL == "" {
			return fmt.Errorf("discord.webhook_url is required when discord is enabled")
		}
		if c.Discord.MaxRetries < 1 {
			return fmt.Errorf("discord.max_retries must be at least 1")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, console")
	}

	return nil
}
