package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/guildpulse/guildpulse/internal/models"
)

// Store is a sqlite-backed implementation of Source. It owns the single
// messages table the wider bot's ingestion layer writes into and answers the
// aggregate queries the analytics engine asks for.
//
// Timestamps are stored as unix epoch seconds and all bucketing (hour of day,
// calendar day) happens in UTC, so results do not depend on the host timezone.
type Store struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY,
	guild_id   TEXT    NOT NULL,
	channel_id TEXT    NOT NULL,
	author_id  TEXT    NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_guild_time ON messages (guild_id, created_at);
CREATE INDEX IF NOT EXISTS idx_messages_guild_author_time ON messages (guild_id, author_id, created_at);
`

// Open opens (creating if necessary) the activity database at path.
// Use ":memory:" for an ephemeral store in tests.
func Open(path string) (*Store, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)"
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open activity database: %w", err)
	}

	// modernc sqlite serializes writes on a single connection; keeping the
	// pool at one connection avoids SQLITE_BUSY under concurrent scans.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordMessage records one message activity row. The ingestion side of the
// bot calls this for every gateway message event; message content is never
// stored, only the activity tuple.
func (s *Store) RecordMessage(ctx context.Context, guildID, channelID, authorID string, at time.Time) error {
	if guildID == "" || channelID == "" || authorID == "" {
		return fmt.Errorf("guild, channel and author IDs must not be empty")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (guild_id, channel_id, author_id, created_at) VALUES (?, ?, ?, ?)`,
		guildID, channelID, authorID, at.UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record message: %w", err)
	}
	return nil
}

// ListGuilds returns every guild with recorded activity, sorted by ID.
func (s *Store) ListGuilds(ctx context.Context) ([]string, error) {
	var guilds []string
	err := s.db.SelectContext(ctx, &guilds,
		`SELECT DISTINCT guild_id FROM messages ORDER BY guild_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list guilds: %w", err)
	}
	return guilds, nil
}

// PruneBefore deletes activity rows older than cutoff and reports how many
// were removed. Retention rotation; run periodically by the scheduler.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM messages WHERE created_at < ?`, cutoff.UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune messages: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned messages: %w", err)
	}
	return n, nil
}

// MessageCount implements Source.
func (s *Store) MessageCount(ctx context.Context, guildID string, w models.TimeWindow) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM messages WHERE guild_id = ? AND created_at BETWEEN ? AND ?`,
		guildID, w.Start.UTC().Unix(), w.End.UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// ActiveAuthorCount implements Source.
func (s *Store) ActiveAuthorCount(ctx context.Context, guildID string, w models.TimeWindow) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(DISTINCT author_id) FROM messages WHERE guild_id = ? AND created_at BETWEEN ? AND ?`,
		guildID, w.Start.UTC().Unix(), w.End.UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to count active authors: %w", err)
	}
	return count, nil
}

// ChannelActivity implements Source. The count-descending, channel-ID-ascending
// order is part of the contract; callers rely on it for stable rankings.
func (s *Store) ChannelActivity(ctx context.Context, guildID string, w models.TimeWindow) ([]models.ChannelActivity, error) {
	var rows []struct {
		ChannelID string `db:"channel_id"`
		Count     int    `db:"cnt"`
	}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT channel_id, COUNT(*) AS cnt
		 FROM messages
		 WHERE guild_id = ? AND created_at BETWEEN ? AND ?
		 GROUP BY channel_id
		 ORDER BY cnt DESC, channel_id ASC`,
		guildID, w.Start.UTC().Unix(), w.End.UTC().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query channel activity: %w", err)
	}

	result := make([]models.ChannelActivity, len(rows))
	for i, r := range rows {
		result[i] = models.ChannelActivity{ChannelID: r.ChannelID, Count: r.Count}
	}
	return result, nil
}

// HourlyActivity implements Source. Hours are UTC hours of day.
func (s *Store) HourlyActivity(ctx context.Context, guildID string, w models.TimeWindow) ([]models.HourCount, error) {
	var rows []struct {
		Hour  int `db:"hour"`
		Count int `db:"cnt"`
	}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT CAST(strftime('%H', created_at, 'unixepoch') AS INTEGER) AS hour, COUNT(*) AS cnt
		 FROM messages
		 WHERE guild_id = ? AND created_at BETWEEN ? AND ?
		 GROUP BY hour`,
		guildID, w.Start.UTC().Unix(), w.End.UTC().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly activity: %w", err)
	}

	result := make([]models.HourCount, 24)
	for h := range result {
		result[h] = models.HourCount{Hour: h}
	}
	for _, r := range rows {
		if r.Hour >= 0 && r.Hour < 24 {
			result[r.Hour].Count = r.Count
		}
	}
	return result, nil
}

// NewAuthorCount implements Source. An author is new when no message of theirs
// exists anywhere before the window start: first message ever, not merely
// first message in-window.
func (s *Store) NewAuthorCount(ctx context.Context, guildID string, w models.TimeWindow) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(DISTINCT m.author_id)
		 FROM messages m
		 WHERE m.guild_id = ? AND m.created_at BETWEEN ? AND ?
		 AND NOT EXISTS (
			SELECT 1 FROM messages p
			WHERE p.guild_id = m.guild_id AND p.author_id = m.author_id AND p.created_at < ?
		 )`,
		guildID, w.Start.UTC().Unix(), w.End.UTC().Unix(), w.Start.UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to count new authors: %w", err)
	}
	return count, nil
}

// DailyMessageCounts implements Source. Days without activity appear with a
// zero count so the consistency calculation sees dead days.
func (s *Store) DailyMessageCounts(ctx context.Context, guildID string, w models.TimeWindow) ([]models.DayCount, error) {
	var rows []struct {
		Day   string `db:"day"`
		Count int    `db:"cnt"`
	}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT date(created_at, 'unixepoch') AS day, COUNT(*) AS cnt
		 FROM messages
		 WHERE guild_id = ? AND created_at BETWEEN ? AND ?
		 GROUP BY day
		 ORDER BY day`,
		guildID, w.Start.UTC().Unix(), w.End.UTC().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query daily counts: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Day] = r.Count
	}

	start := w.Start.UTC().Truncate(24 * time.Hour)
	var result []models.DayCount
	for d := start; !d.After(w.End.UTC()); d = d.Add(24 * time.Hour) {
		key := d.Format("2006-01-02")
		result = append(result, models.DayCount{Date: d, Count: counts[key]})
	}
	return result, nil
}

var _ Source = (*Store)(nil)
