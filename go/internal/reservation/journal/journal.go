package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/matchday/go/internal/events"
	"github.com/mcdev12/matchday/go/internal/reservation"
	"github.com/mcdev12/matchday/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
)

//go:embed schema.sql
var schema string

// uniqueViolation is the Postgres SQLSTATE for a duplicate key
const uniqueViolation = "23505"

// ErrSlotConflict is returned when the same user's ledger already has an
// active reservation for the slot
var ErrSlotConflict = errors.New("slot already has an active reservation")

type Config struct {
	// NotifyChannel is the LISTEN/NOTIFY channel told about new entries;
	// empty disables notifications
	NotifyChannel string
	// Source is recorded in each entry's metadata
	Source string
}

func DefaultConfig() Config {
	return Config{
		NotifyChannel: "reservation_journal_events",
		Source:        "matchday",
	}
}

// Journal persists ledger events to Postgres
type Journal struct {
	db  *sql.DB
	cfg Config
}

var _ reservation.Observer = (*Journal)(nil)

func New(db *sql.DB, cfg Config) *Journal {
	return &Journal{db: db, cfg: cfg}
}

// EnsureSchema creates the journal tables if they are missing
func (j *Journal) EnsureSchema(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create journal schema: %w", err)
	}
	return nil
}

// Observe journals a ledger event and keeps active_reservations in step,
// all in one transaction. Replaying a known event is a no-op.
func (j *Journal) Observe(ctx context.Context, env events.Envelope) error {
	payload, err := events.ParsePayload(env)
	if err != nil {
		return fmt.Errorf("failed to parse %s payload: %w", env.EventType, err)
	}

	entry := Entry{
		ID:        env.ID,
		EventType: env.EventType,
		MatchID:   env.MatchID,
		UserID:    env.UserID,
		Payload:   env.Payload,
		Metadata:  sqlutil.ToNullRawMessage(j.metadata()),
		CreatedAt: env.CreatedAt,
	}

	err = sqlutil.Run(ctx, j.db, func(tx *sql.Tx) *Queries { return NewQueries(tx) }, func(q *Queries) error {
		switch p := payload.(type) {
		case events.SlotReservedPayload:
			entry.SlotID = p.SlotID
			inserted, err := q.InsertEntry(ctx, entry)
			if err != nil || !inserted {
				return err
			}
			id, err := uuid.Parse(p.ReservationID)
			if err != nil {
				return fmt.Errorf("invalid reservation id %q: %w", p.ReservationID, err)
			}
			if err := q.InsertActive(ctx, ActiveReservation{
				ReservationID: id,
				UserID:        env.UserID,
				MatchID:       p.MatchID,
				SlotID:        p.SlotID,
				OccupantID:    p.OccupantID,
				OccupantKind:  p.OccupantKind,
				Cost:          p.Cost,
				ReservedBy:    p.ReservedBy,
				ReservedAt:    p.ReservedAt,
			}); err != nil {
				return classify(err, p.SlotID)
			}
		case events.SlotReleasedPayload:
			entry.SlotID = p.SlotID
			inserted, err := q.InsertEntry(ctx, entry)
			if err != nil || !inserted {
				return err
			}
			id, err := uuid.Parse(p.ReservationID)
			if err != nil {
				return fmt.Errorf("invalid reservation id %q: %w", p.ReservationID, err)
			}
			if err := q.DeleteActive(ctx, id); err != nil {
				return err
			}
		}

		if j.cfg.NotifyChannel == "" {
			return nil
		}
		return q.Notify(ctx, j.cfg.NotifyChannel, env.ID.String())
	})
	if err != nil {
		return fmt.Errorf("failed to journal %s: %w", env.EventType, err)
	}

	log.Debug().
		Str("event_id", env.ID.String()).
		Str("event_type", env.EventType).
		Str("match_id", env.MatchID).
		Msg("journaled ledger event")
	return nil
}

// History returns a match's journaled events in commit order
func (j *Journal) History(ctx context.Context, matchID string) ([]Entry, error) {
	entries, err := NewQueries(j.db).ListEntries(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal: %w", err)
	}
	return entries, nil
}

func (j *Journal) metadata() json.RawMessage {
	if j.cfg.Source == "" {
		return nil
	}
	data, _ := json.Marshal(map[string]string{"source": j.cfg.Source})
	return data
}

func classify(err error, slotID string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return fmt.Errorf("slot %s: %w", slotID, ErrSlotConflict)
	}
	return err
}
