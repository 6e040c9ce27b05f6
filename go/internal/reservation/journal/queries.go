package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// DBTX is satisfied by *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Queries holds the journal statements bound to a connection or tx
type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

// Entry is one journaled ledger event
type Entry struct {
	ID        uuid.UUID             `json:"id"`
	EventType string                `json:"event_type"`
	MatchID   string                `json:"match_id"`
	UserID    string                `json:"user_id"`
	SlotID    string                `json:"slot_id"`
	Payload   json.RawMessage       `json:"payload"`
	Metadata  pqtype.NullRawMessage `json:"metadata"`
	CreatedAt time.Time             `json:"created_at"`
}

const insertEntry = `
INSERT INTO reservation_journal (id, event_type, match_id, user_id, slot_id, payload, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO NOTHING`

// InsertEntry journals an entry, reporting false for an already known id
func (q *Queries) InsertEntry(ctx context.Context, e Entry) (bool, error) {
	res, err := q.db.ExecContext(ctx, insertEntry,
		e.ID, e.EventType, e.MatchID, e.UserID, e.SlotID, []byte(e.Payload), e.Metadata, e.CreatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ActiveReservation is a reservation not yet released
type ActiveReservation struct {
	ReservationID uuid.UUID
	UserID        string
	MatchID       string
	SlotID        string
	OccupantID    string
	OccupantKind  string
	Cost          int
	ReservedBy    string
	ReservedAt    time.Time
}

const insertActive = `
INSERT INTO active_reservations (reservation_id, user_id, match_id, slot_id, occupant_id, occupant_kind, cost, reserved_by, reserved_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (q *Queries) InsertActive(ctx context.Context, r ActiveReservation) error {
	_, err := q.db.ExecContext(ctx, insertActive,
		r.ReservationID, r.UserID, r.MatchID, r.SlotID, r.OccupantID, r.OccupantKind, r.Cost, r.ReservedBy, r.ReservedAt)
	return err
}

const deleteActive = `DELETE FROM active_reservations WHERE reservation_id = $1`

func (q *Queries) DeleteActive(ctx context.Context, reservationID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteActive, reservationID)
	return err
}

const notify = `SELECT pg_notify($1, $2)`

// Notify signals LISTENers on channel; delivery happens at commit
func (q *Queries) Notify(ctx context.Context, channel, message string) error {
	_, err := q.db.ExecContext(ctx, notify, channel, message)
	return err
}

const listEntries = `
SELECT id, event_type, match_id, user_id, slot_id, payload, metadata, created_at
FROM reservation_journal
WHERE match_id = $1
ORDER BY created_at, id`

// ListEntries returns a match's journal in commit order
func (q *Queries) ListEntries(ctx context.Context, matchID string) ([]Entry, error) {
	rows, err := q.db.QueryContext(ctx, listEntries, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			payload []byte
		)
		if err := rows.Scan(&e.ID, &e.EventType, &e.MatchID, &e.UserID, &e.SlotID, &payload, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.Payload = json.RawMessage(payload)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
