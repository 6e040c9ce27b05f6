package matchstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mcdev12/matchday/go/internal/models"
)

//go:embed schema.sql
var schema string

// DB is the subset of *pgxpool.Pool the store uses
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store reads match rosters from Postgres
type Store struct {
	db DB
}

// New creates a Store over a pgx pool
func New(db DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the match tables if they are missing
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create match schema: %w", err)
	}
	return nil
}

const getMatchSQL = `
SELECT id, title, format, kickoff_at, home_open, away_open
FROM matches
WHERE id = $1`

const listPlayersSQL = `
SELECT team, player_id, display_name, avatar_ref, position_label
FROM match_players
WHERE match_id = $1
ORDER BY team, seq`

// GetMatch loads a match and its roster. Players keep their stored order.
func (s *Store) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	var (
		m                  models.Match
		format             *string
		kickoff            *time.Time
		homeOpen, awayOpen int
	)
	err := s.db.QueryRow(ctx, getMatchSQL, matchID).Scan(&m.ID, &m.Title, &format, &kickoff, &homeOpen, &awayOpen)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("match %q: %w", matchID, models.ErrMatchNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if format != nil {
		m.Format = models.MatchFormat(*format)
	}
	m.KickoffAt = kickoff

	rows, err := s.db.Query(ctx, listPlayersSQL, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list match players: %w", err)
	}
	defer rows.Close()

	home := models.TeamRoster{OpenPositions: homeOpen}
	away := models.TeamRoster{OpenPositions: awayOpen}
	for rows.Next() {
		var (
			team   string
			p      models.RosterPlayer
			avatar *string
		)
		if err := rows.Scan(&team, &p.ID, &p.DisplayName, &avatar, &p.PositionLabel); err != nil {
			return nil, fmt.Errorf("failed to scan match player: %w", err)
		}
		if avatar != nil {
			p.AvatarRef = *avatar
		}
		switch models.Team(team) {
		case models.TeamHome:
			home.Players = append(home.Players, p)
		case models.TeamAway:
			away.Players = append(away.Players, p)
		default:
			return nil, fmt.Errorf("match %q has player %q on unknown team %q", matchID, p.ID, team)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read match players: %w", err)
	}

	m.Teams = map[models.Team]models.TeamRoster{
		models.TeamHome: home,
		models.TeamAway: away,
	}
	return &m, nil
}

const upsertMatchSQL = `
INSERT INTO matches (id, title, format, kickoff_at, home_open, away_open, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    format = EXCLUDED.format,
    kickoff_at = EXCLUDED.kickoff_at,
    home_open = EXCLUDED.home_open,
    away_open = EXCLUDED.away_open,
    updated_at = now()`

const insertPlayerSQL = `
INSERT INTO match_players (match_id, team, seq, player_id, display_name, avatar_ref, position_label)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// SaveMatch replaces a match and its roster in one transaction
func (s *Store) SaveMatch(ctx context.Context, m models.Match) error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}

	var format *string
	if m.Format != "" {
		f := string(m.Format)
		format = &f
	}

	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		home, away := m.Teams[models.TeamHome], m.Teams[models.TeamAway]
		if _, err := tx.Exec(ctx, upsertMatchSQL, m.ID, m.Title, format, m.KickoffAt, home.OpenPositions, away.OpenPositions); err != nil {
			return fmt.Errorf("failed to upsert match: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM match_players WHERE match_id = $1`, m.ID); err != nil {
			return fmt.Errorf("failed to clear match players: %w", err)
		}
		for _, team := range models.Teams {
			for seq, p := range m.Teams[team].Players {
				var avatar *string
				if p.AvatarRef != "" {
					a := p.AvatarRef
					avatar = &a
				}
				if _, err := tx.Exec(ctx, insertPlayerSQL, m.ID, string(team), seq, p.ID, p.DisplayName, avatar, p.PositionLabel); err != nil {
					return fmt.Errorf("failed to insert player %s: %w", p.ID, err)
				}
			}
		}
		return nil
	})
}
