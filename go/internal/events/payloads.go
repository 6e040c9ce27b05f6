package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the reservation ledger
const (
	EventTypeSlotReserved = "SlotReserved"
	EventTypeSlotReleased = "SlotReleased"
)

// Envelope wraps one ledger event for observers (journal, bus)
type Envelope struct {
	ID        uuid.UUID       `json:"id"`
	EventType string          `json:"event_type"`
	MatchID   string          `json:"match_id"`
	UserID    string          `json:"user_id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// SlotReservedPayload is the payload of a SlotReserved event
type SlotReservedPayload struct {
	ReservationID string    `json:"reservation_id"`
	MatchID       string    `json:"match_id"`
	SlotID        string    `json:"slot_id"`
	Team          string    `json:"team"`
	Category      string    `json:"category"`
	Cost          int       `json:"cost"`
	OccupantID    string    `json:"occupant_id"`
	OccupantName  string    `json:"occupant_name"`
	OccupantKind  string    `json:"occupant_kind"`
	ReservedBy    string    `json:"reserved_by"`
	BalanceAfter  int       `json:"balance_after"`
	ReservedAt    time.Time `json:"reserved_at"`
}

// SlotReleasedPayload is the payload of a SlotReleased event
type SlotReleasedPayload struct {
	ReservationID string    `json:"reservation_id"`
	MatchID       string    `json:"match_id"`
	SlotID        string    `json:"slot_id"`
	Refund        int       `json:"refund"`
	OccupantID    string    `json:"occupant_id"`
	ReleasedBy    string    `json:"released_by"`
	BalanceAfter  int       `json:"balance_after"`
	ReleasedAt    time.Time `json:"released_at"`
}

// NewEnvelope marshals payload into an envelope with a fresh id
func NewEnvelope(eventType, matchID, userID string, payload any, at time.Time) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		ID:        uuid.New(),
		EventType: eventType,
		MatchID:   matchID,
		UserID:    userID,
		Payload:   data,
		CreatedAt: at,
	}, nil
}

// ParsePayload decodes an envelope payload into the matching struct
func ParsePayload(env Envelope) (interface{}, error) {
	switch env.EventType {
	case EventTypeSlotReserved:
		var payload SlotReservedPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeSlotReleased:
		var payload SlotReleasedPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, fmt.Errorf("unknown event type %q", env.EventType)
	}
}
