// Package sqlstore persists giveaways in PostgreSQL (lib/pq) or SQLite
// (modernc.org/sqlite) through database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
)

// Dialect selects placeholder style and driver.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// DriverName returns the database/sql driver name for d.
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

const schema = `
CREATE TABLE IF NOT EXISTS giveaways (
	id           TEXT PRIMARY KEY,
	guild_id     TEXT NOT NULL,
	channel_id   TEXT NOT NULL,
	message_id   TEXT NOT NULL DEFAULT '',
	hosted_by    TEXT NOT NULL DEFAULT '',
	prize        TEXT NOT NULL,
	winner_count INTEGER NOT NULL,
	started_at   BIGINT NOT NULL,
	end_at       BIGINT NOT NULL,
	ended        BOOLEAN NOT NULL DEFAULT FALSE,
	ended_at     BIGINT,
	winner_ids   TEXT NOT NULL DEFAULT '[]',
	requirements TEXT
)`

const columns = "id, guild_id, channel_id, message_id, hosted_by, prize, winner_count, started_at, end_at, ended, ended_at, winner_ids, requirements"

// Repository implements giveaway.Repository on a SQL database. Times are
// stored as unix milliseconds, requirements and winners as JSON.
type Repository struct {
	db      *sql.DB
	dialect Dialect
}

func NewRepository(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{db: db, dialect: dialect}
}

// Migrate creates the giveaways table if it does not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create giveaways table: %w", err)
	}
	return nil
}

func (r *Repository) Save(ctx context.Context, g *dg.Giveaway) error {
	args, err := toRow(g)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO giveaways (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			guild_id = excluded.guild_id,
			channel_id = excluded.channel_id,
			message_id = excluded.message_id,
			hosted_by = excluded.hosted_by,
			prize = excluded.prize,
			winner_count = excluded.winner_count,
			started_at = excluded.started_at,
			end_at = excluded.end_at,
			ended = excluded.ended,
			ended_at = excluded.ended_at,
			winner_ids = excluded.winner_ids,
			requirements = excluded.requirements`
	if _, err := r.db.ExecContext(ctx, r.rebind(query), args...); err != nil {
		return fmt.Errorf("failed to save giveaway: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*dg.Giveaway, error) {
	row := r.db.QueryRowContext(ctx, r.rebind("SELECT "+columns+" FROM giveaways WHERE id = ?"), id)
	g, err := scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get giveaway: %w", err)
	}
	return g, nil
}

func (r *Repository) GetAll(ctx context.Context) ([]*dg.Giveaway, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+columns+" FROM giveaways ORDER BY end_at")
	if err != nil {
		return nil, fmt.Errorf("failed to list giveaways: %w", err)
	}
	defer rows.Close()

	out := []*dg.Giveaway{}
	for rows.Next() {
		g, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan giveaway: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.rebind("DELETE FROM giveaways WHERE id = ?"), id); err != nil {
		return fmt.Errorf("failed to delete giveaway: %w", err)
	}
	return nil
}

func (r *Repository) Edit(ctx context.Context, id string, g *dg.Giveaway) error {
	c := g.Clone()
	c.ID = id
	args, err := toRow(c)
	if err != nil {
		return err
	}
	query := `
		UPDATE giveaways SET
			guild_id = ?, channel_id = ?, message_id = ?, hosted_by = ?, prize = ?,
			winner_count = ?, started_at = ?, end_at = ?, ended = ?, ended_at = ?,
			winner_ids = ?, requirements = ?
		WHERE id = ?`
	// id идёт последним в WHERE
	args = append(args[1:], id)
	res, err := r.db.ExecContext(ctx, r.rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to edit giveaway: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to edit giveaway: %w", err)
	}
	if n == 0 {
		return dg.ErrGiveawayNotFound
	}
	return nil
}

// rebind converts ? placeholders to $n for PostgreSQL.
func (r *Repository) rebind(query string) string {
	if r.dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func toRow(g *dg.Giveaway) ([]any, error) {
	winners := g.WinnerIDs
	if winners == nil {
		winners = []string{}
	}
	winnersJSON, err := json.Marshal(winners)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal winners: %w", err)
	}

	var reqs sql.NullString
	if g.Requirements != nil {
		data, err := json.Marshal(g.Requirements)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal requirements: %w", err)
		}
		reqs = sql.NullString{String: string(data), Valid: true}
	}

	var endedAt sql.NullInt64
	if g.EndedAt != nil {
		endedAt = sql.NullInt64{Int64: g.EndedAt.UnixMilli(), Valid: true}
	}

	return []any{
		g.ID, g.GuildID, g.ChannelID, g.MessageID, g.HostedBy, g.Prize, g.WinnerCount,
		g.StartedAt.UnixMilli(), g.EndAt.UnixMilli(), g.Ended, endedAt, string(winnersJSON), reqs,
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*dg.Giveaway, error) {
	var (
		g         dg.Giveaway
		startedAt int64
		endAt     int64
		endedAt   sql.NullInt64
		winners   string
		reqs      sql.NullString
	)
	err := s.Scan(
		&g.ID, &g.GuildID, &g.ChannelID, &g.MessageID, &g.HostedBy, &g.Prize, &g.WinnerCount,
		&startedAt, &endAt, &g.Ended, &endedAt, &winners, &reqs,
	)
	if err != nil {
		return nil, err
	}

	g.StartedAt = time.UnixMilli(startedAt).UTC()
	g.EndAt = time.UnixMilli(endAt).UTC()
	if endedAt.Valid {
		t := time.UnixMilli(endedAt.Int64).UTC()
		g.EndedAt = &t
	}
	if winners != "" {
		if err := json.Unmarshal([]byte(winners), &g.WinnerIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal winners: %w", err)
		}
		if len(g.WinnerIDs) == 0 {
			g.WinnerIDs = nil
		}
	}
	if reqs.Valid && reqs.String != "" {
		var rs dg.RequirementSet
		if err := json.Unmarshal([]byte(reqs.String), &rs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal requirements: %w", err)
		}
		g.Requirements = &rs
	}
	return &g, nil
}
