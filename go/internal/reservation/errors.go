package reservation

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientCredits is returned when the balance does not cover a slot's cost
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrSlotUnavailable is returned when a slot already has an occupant
	ErrSlotUnavailable = errors.New("slot is unavailable")
	// ErrNotAuthorized is returned when the caller may not release a slot
	ErrNotAuthorized = errors.New("not authorized to release slot")
	// ErrNotReserved is returned when cancelling a slot nobody holds
	ErrNotReserved = errors.New("slot is not reserved")
	// ErrSlotNotFound is returned for slot ids outside the loaded field
	ErrSlotNotFound = errors.New("slot not found")
	// ErrMatchNotLoaded is returned when no field was loaded for a match
	ErrMatchNotLoaded = errors.New("match not loaded")
	// ErrInvalidOccupant is returned when an invitee has no identity or is the user
	ErrInvalidOccupant = errors.New("invalid occupant")
)

// Error carries the operation and slot a ledger failure refers to
type Error struct {
	Op      string
	MatchID string
	SlotID  string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s/%s: %v", e.Op, e.MatchID, e.SlotID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
