package models

import "time"

// ChannelActivity is a per-channel message count within a window.
// Rankings sort by count descending; ties break by ascending channel ID so
// results are reproducible regardless of query iteration order.
type ChannelActivity struct {
	ChannelID string `json:"channel_id"`
	Count     int    `json:"count"`
}

// HourCount is a per-hour-of-day message count (hour in [0,24)).
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// DayCount is a per-calendar-day message count.
type DayCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// TimeSlot is a fixed-size bucket of hours with its summed message count.
// SlotStart is aligned to the slot size; Label is zero-padded and wraps at 24,
// e.g. "21h-00h".
type TimeSlot struct {
	SlotStart int    `json:"slot_start"`
	Label     string `json:"label"`
	Count     int    `json:"count"`
}

// InsightsBundle summarizes a window into rankable facts. When the guild has
// no recorded activity in the window, TopChannels is empty and the raw counts
// are zero; callers must treat that as "no data" rather than an error.
type InsightsBundle struct {
	GuildID       string            `json:"guild_id"`
	Window        TimeWindow        `json:"window"`
	MessageCount  int               `json:"message_count"`
	ActiveAuthors int               `json:"active_authors"`
	NewAuthors    int               `json:"new_authors"`
	TopChannels   []ChannelActivity `json:"top_channels"`
	PeakSlots     []TimeSlot        `json:"peak_slots"`
}
