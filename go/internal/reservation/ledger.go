package reservation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/matchday/go/internal/events"
	"github.com/mcdev12/matchday/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Observer is told about every committed ledger mutation. Observers run
// after the mutation; their errors are logged and never undo it.
type Observer interface {
	Observe(ctx context.Context, env events.Envelope) error
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(ctx context.Context, env events.Envelope) error

func (f ObserverFunc) Observe(ctx context.Context, env events.Envelope) error {
	return f(ctx, env)
}

// Reservation is a paid occupancy recorded by the ledger
type Reservation struct {
	ID         uuid.UUID       `json:"id"`
	MatchID    string          `json:"match_id"`
	SlotID     string          `json:"slot_id"`
	Cost       int             `json:"cost"`
	Occupant   models.Occupant `json:"occupant"`
	ReservedAt time.Time       `json:"reserved_at"`
}

type field struct {
	order        []string
	slots        map[string]*models.Slot
	reservations map[string]*Reservation
}

// Ledger owns slot occupancy per match and the acting user's credit
// balance. All reads and writes go through its methods.
type Ledger struct {
	mu        sync.Mutex
	self      models.Occupant
	balance   int
	fields    map[string]*field
	observers []Observer
	clock     clockwork.Clock
}

// Option configures a Ledger
type Option func(*Ledger)

// WithClock sets the clock used to timestamp reservations
func WithClock(clock clockwork.Clock) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// WithObserver registers an observer of ledger events
func WithObserver(observer Observer) Option {
	return func(l *Ledger) {
		l.observers = append(l.observers, observer)
	}
}

// NewLedger creates a ledger for the acting user with an initial balance
func NewLedger(self models.Occupant, balance int, opts ...Option) (*Ledger, error) {
	if self.ID == "" {
		return nil, fmt.Errorf("acting user id is required")
	}
	if balance < 0 {
		return nil, fmt.Errorf("initial balance must not be negative, got %d", balance)
	}

	self.Kind = models.OccupantSelf
	self.InvitedBy = ""
	l := &Ledger{
		self:    self,
		balance: balance,
		fields:  make(map[string]*field),
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// UserID returns the acting user's id
func (l *Ledger) UserID() string {
	return l.self.ID
}

// Balance returns the current credit balance
func (l *Ledger) Balance() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Load registers a match's field. Loading a match that is already known
// keeps the existing occupancy and returns it.
func (l *Ledger) Load(matchID string, slots []models.Slot) []models.Slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.fields[matchID]; !exists {
		f := &field{
			order:        make([]string, 0, len(slots)),
			slots:        make(map[string]*models.Slot, len(slots)),
			reservations: make(map[string]*Reservation),
		}
		for _, slot := range slots {
			if _, dup := f.slots[slot.ID]; dup {
				continue
			}
			clone := slot.Clone()
			clone.MatchID = matchID
			f.order = append(f.order, slot.ID)
			f.slots[slot.ID] = &clone
		}
		l.fields[matchID] = f
	}
	return l.snapshot(matchID)
}

// Slots returns copies of a match's slots in layout order
func (l *Ledger) Slots(matchID string) ([]models.Slot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.fields[matchID]; !ok {
		return nil, &Error{Op: "slots", MatchID: matchID, Err: ErrMatchNotLoaded}
	}
	return l.snapshot(matchID), nil
}

// Slot returns a copy of one slot
func (l *Ledger) Slot(matchID, slotID string) (models.Slot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, err := l.lookup("slot", matchID, slotID)
	if err != nil {
		return models.Slot{}, err
	}
	return slot.Clone(), nil
}

// Reservations returns the paid reservations of a match
func (l *Ledger) Reservations(matchID string) []Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, ok := l.fields[matchID]
	if !ok {
		return nil
	}
	out := make([]Reservation, 0, len(f.reservations))
	for _, id := range f.order {
		if r, ok := f.reservations[id]; ok {
			out = append(out, *r)
		}
	}
	return out
}

// CanAfford checks that a slot exists, is free, and that the balance covers
// its cost. It is the check run before any confirmation dialog opens.
func (l *Ledger) CanAfford(matchID, slotID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.checkReservable("check", matchID, slotID)
	return err
}

// ReserveForSelf occupies a slot with the acting user and debits its cost
func (l *Ledger) ReserveForSelf(ctx context.Context, matchID, slotID string) (models.Slot, error) {
	return l.reserve(ctx, "reserve_for_self", matchID, slotID, l.self)
}

// ReserveForFriend occupies a slot with an invitee; the acting user pays
func (l *Ledger) ReserveForFriend(ctx context.Context, matchID, slotID string, occupant models.Occupant) (models.Slot, error) {
	if occupant.ID == "" || occupant.ID == l.self.ID {
		return models.Slot{}, &Error{Op: "reserve_for_friend", MatchID: matchID, SlotID: slotID, Err: ErrInvalidOccupant}
	}
	occupant.Kind = models.OccupantInvited
	occupant.InvitedBy = l.self.ID
	return l.reserve(ctx, "reserve_for_friend", matchID, slotID, occupant)
}

func (l *Ledger) reserve(ctx context.Context, op, matchID, slotID string, occupant models.Occupant) (models.Slot, error) {
	l.mu.Lock()
	slot, err := l.checkReservable(op, matchID, slotID)
	if err != nil {
		l.mu.Unlock()
		return models.Slot{}, err
	}

	now := l.clock.Now()
	r := &Reservation{
		ID:         uuid.New(),
		MatchID:    matchID,
		SlotID:     slotID,
		Cost:       slot.Cost,
		Occupant:   occupant,
		ReservedAt: now,
	}
	l.balance -= slot.Cost
	occ := occupant
	slot.Occupant = &occ
	l.fields[matchID].reservations[slotID] = r

	result := slot.Clone()
	balanceAfter := l.balance
	l.mu.Unlock()

	log.Info().
		Str("op", op).
		Str("match_id", matchID).
		Str("slot_id", slotID).
		Str("occupant_id", occupant.ID).
		Int("cost", r.Cost).
		Int("balance", balanceAfter).
		Msg("slot reserved")

	l.notify(ctx, events.EventTypeSlotReserved, matchID, events.SlotReservedPayload{
		ReservationID: r.ID.String(),
		MatchID:       matchID,
		SlotID:        slotID,
		Team:          string(result.Team),
		Category:      string(result.Category),
		Cost:          r.Cost,
		OccupantID:    occupant.ID,
		OccupantName:  occupant.DisplayName,
		OccupantKind:  string(occupant.Kind),
		ReservedBy:    l.self.ID,
		BalanceAfter:  balanceAfter,
		ReservedAt:    now,
	}, now)

	return result, nil
}

// Cancel frees a slot and refunds its full cost. Only the occupant of a
// self reservation or the inviter of a friend reservation may cancel.
func (l *Ledger) Cancel(ctx context.Context, matchID, slotID, callerID string) (models.Slot, error) {
	const op = "cancel"

	l.mu.Lock()
	slot, err := l.lookup(op, matchID, slotID)
	if err != nil {
		l.mu.Unlock()
		return models.Slot{}, err
	}
	if slot.Available() {
		l.mu.Unlock()
		return models.Slot{}, &Error{Op: op, MatchID: matchID, SlotID: slotID, Err: ErrNotReserved}
	}

	f := l.fields[matchID]
	r, paid := f.reservations[slotID]
	if !paid || !mayRelease(r.Occupant, callerID) {
		l.mu.Unlock()
		return models.Slot{}, &Error{Op: op, MatchID: matchID, SlotID: slotID, Err: ErrNotAuthorized}
	}

	l.balance += r.Cost
	slot.Occupant = nil
	delete(f.reservations, slotID)

	result := slot.Clone()
	balanceAfter := l.balance
	now := l.clock.Now()
	l.mu.Unlock()

	log.Info().
		Str("match_id", matchID).
		Str("slot_id", slotID).
		Str("occupant_id", r.Occupant.ID).
		Int("refund", r.Cost).
		Int("balance", balanceAfter).
		Msg("slot released")

	l.notify(ctx, events.EventTypeSlotReleased, matchID, events.SlotReleasedPayload{
		ReservationID: r.ID.String(),
		MatchID:       matchID,
		SlotID:        slotID,
		Refund:        r.Cost,
		OccupantID:    r.Occupant.ID,
		ReleasedBy:    callerID,
		BalanceAfter:  balanceAfter,
		ReleasedAt:    now,
	}, now)

	return result, nil
}

// MayRelease reports whether callerID is allowed to cancel the slot
func (l *Ledger) MayRelease(matchID, slotID, callerID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, ok := l.fields[matchID]
	if !ok {
		return false
	}
	r, ok := f.reservations[slotID]
	return ok && mayRelease(r.Occupant, callerID)
}

func mayRelease(occupant models.Occupant, callerID string) bool {
	switch occupant.Kind {
	case models.OccupantSelf:
		return occupant.ID == callerID
	case models.OccupantInvited:
		return occupant.InvitedBy == callerID
	default:
		return false
	}
}

// lookup must be called with mu held
func (l *Ledger) lookup(op, matchID, slotID string) (*models.Slot, error) {
	f, ok := l.fields[matchID]
	if !ok {
		return nil, &Error{Op: op, MatchID: matchID, SlotID: slotID, Err: ErrMatchNotLoaded}
	}
	slot, ok := f.slots[slotID]
	if !ok {
		return nil, &Error{Op: op, MatchID: matchID, SlotID: slotID, Err: ErrSlotNotFound}
	}
	return slot, nil
}

// checkReservable must be called with mu held
func (l *Ledger) checkReservable(op, matchID, slotID string) (*models.Slot, error) {
	slot, err := l.lookup(op, matchID, slotID)
	if err != nil {
		return nil, err
	}
	if !slot.Available() {
		return nil, &Error{Op: op, MatchID: matchID, SlotID: slotID, Err: ErrSlotUnavailable}
	}
	if l.balance < slot.Cost {
		return nil, &Error{
			Op:      op,
			MatchID: matchID,
			SlotID:  slotID,
			Err:     fmt.Errorf("%w: balance %d, cost %d", ErrInsufficientCredits, l.balance, slot.Cost),
		}
	}
	return slot, nil
}

// snapshot must be called with mu held
func (l *Ledger) snapshot(matchID string) []models.Slot {
	f := l.fields[matchID]
	out := make([]models.Slot, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.slots[id].Clone())
	}
	return out
}

func (l *Ledger) notify(ctx context.Context, eventType, matchID string, payload any, at time.Time) {
	if len(l.observers) == 0 {
		return
	}
	env, err := events.NewEnvelope(eventType, matchID, l.self.ID, payload, at)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to build ledger event")
		return
	}
	for _, observer := range l.observers {
		if err := observer.Observe(ctx, env); err != nil {
			log.Error().
				Err(err).
				Str("event_type", eventType).
				Str("event_id", env.ID.String()).
				Str("match_id", matchID).
				Msg("ledger observer failed")
		}
	}
}
