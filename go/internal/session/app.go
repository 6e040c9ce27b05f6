package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/matchday/go/internal/assignment"
	"github.com/mcdev12/matchday/go/internal/formation"
	"github.com/mcdev12/matchday/go/internal/invitation"
	"github.com/mcdev12/matchday/go/internal/models"
	"github.com/mcdev12/matchday/go/internal/notify"
	"github.com/mcdev12/matchday/go/internal/reservation"
	"github.com/mcdev12/matchday/go/internal/workflow"
	"github.com/rs/zerolog/log"
)

// MatchProvider supplies match rosters by id
type MatchProvider interface {
	GetMatch(ctx context.Context, matchID string) (*models.Match, error)
}

// CreditsProvider supplies a user's starting credit balance
type CreditsProvider interface {
	InitialBalance(ctx context.Context, userID string) (int, error)
}

// FriendDirectory supplies a user's existing friends
type FriendDirectory = invitation.FriendDirectory

// ErrUserRequired is returned when no acting user is given
var ErrUserRequired = errors.New("user id is required")

// Session is one user's ledger and workflow. Its mutex serialises every
// action the user takes.
type Session struct {
	mu     sync.Mutex
	userID string
	ledger *reservation.Ledger
	flow   *workflow.Orchestrator
	notes  *notify.Recorder

	// matches laid out so far, with the format actually used
	matches map[string]models.Match
}

// App owns the sessions of all users
type App struct {
	matches   MatchProvider
	credits   CreditsProvider
	friends   FriendDirectory
	catalog   *formation.Catalog
	observers []reservation.Observer
	notifier  workflow.Notifier
	clock     clockwork.Clock

	mu       sync.Mutex
	sessions map[string]*Session
}

// Option configures an App
type Option func(*App)

// WithCatalog replaces the built-in formation catalog
func WithCatalog(catalog *formation.Catalog) Option {
	return func(a *App) {
		a.catalog = catalog
	}
}

// WithObservers registers ledger observers on every new session
func WithObservers(observers ...reservation.Observer) Option {
	return func(a *App) {
		a.observers = append(a.observers, observers...)
	}
}

// WithNotifier adds a notifier that sees every workflow outcome
func WithNotifier(notifier workflow.Notifier) Option {
	return func(a *App) {
		a.notifier = notifier
	}
}

// WithClock sets the clock handed to session ledgers
func WithClock(clock clockwork.Clock) Option {
	return func(a *App) {
		a.clock = clock
	}
}

// NewApp creates a new session App
func NewApp(matches MatchProvider, credits CreditsProvider, friends FriendDirectory, opts ...Option) *App {
	a := &App{
		matches:  matches,
		credits:  credits,
		friends:  friends,
		catalog:  formation.Default(),
		clock:    clockwork.NewRealClock(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// session returns the user's session, opening it on first use. The balance
// lookup runs without a.mu held; if two requests race to open the same
// session, the first one stored wins.
func (a *App) session(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	a.mu.Lock()
	s, ok := a.sessions[userID]
	a.mu.Unlock()
	if ok {
		return s, nil
	}

	balance, err := a.credits.InitialBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get initial balance: %w", err)
	}

	ledgerOpts := []reservation.Option{reservation.WithClock(a.clock)}
	for _, observer := range a.observers {
		ledgerOpts = append(ledgerOpts, reservation.WithObserver(observer))
	}
	ledger, err := reservation.NewLedger(models.Occupant{ID: userID, DisplayName: userID}, balance, ledgerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	notes := notify.NewRecorder()
	var notifier workflow.Notifier = notes
	if a.notifier != nil {
		notifier = notify.Fanout{notes, a.notifier}
	}

	s = &Session{
		userID:  userID,
		ledger:  ledger,
		flow:    workflow.New(ledger, a.friends, notifier),
		notes:   notes,
		matches: make(map[string]models.Match),
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if existing, ok := a.sessions[userID]; ok {
		return existing, nil
	}
	a.sessions[userID] = s

	log.Info().Str("user_id", userID).Int("balance", balance).Msg("session opened")
	return s, nil
}

// ensureField loads and lays out a match the session has not seen yet.
// Must be called with s.mu held.
func (a *App) ensureField(ctx context.Context, s *Session, matchID string) (models.Match, error) {
	if match, ok := s.matches[matchID]; ok {
		return match, nil
	}

	match, err := a.matches.GetMatch(ctx, matchID)
	if err != nil {
		return models.Match{}, fmt.Errorf("failed to get match: %w", err)
	}

	format, home, away, err := a.catalog.Resolve(match.Format, match.TotalPositions())
	if err != nil {
		return models.Match{}, fmt.Errorf("failed to resolve formation: %w", err)
	}
	if !strings.EqualFold(string(format), string(match.Format)) {
		log.Warn().
			Str("match_id", matchID).
			Str("declared_format", string(match.Format)).
			Str("format", string(format)).
			Int("total_positions", match.TotalPositions()).
			Msg("match format inferred from roster size")
	}

	var slots []models.Slot
	for _, template := range []models.FormationTemplate{home, away} {
		roster := match.Teams[template.Team]
		if len(roster.Players) > len(template.Slots) {
			log.Warn().
				Str("match_id", matchID).
				Str("team", string(template.Team)).
				Int("players", len(roster.Players)).
				Int("slots", len(template.Slots)).
				Msg("roster larger than formation, extra players left off the field")
		}
		assigned := assignment.Assign(template, roster.Players)
		slots = append(slots, assignment.Layout(matchID, template, assigned)...)
	}

	s.ledger.Load(matchID, slots)
	match.ID = matchID
	match.Format = format
	s.matches[matchID] = *match

	log.Info().Str("match_id", matchID).Str("format", string(format)).Int("slots", len(slots)).Msg("field loaded")
	return *match, nil
}

// Field returns a match's field with the user's reservations
func (a *App) Field(ctx context.Context, userID, matchID string) (*FieldView, error) {
	s, err := a.session(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	match, err := a.ensureField(ctx, s, matchID)
	if err != nil {
		return nil, err
	}
	slots, err := s.ledger.Slots(matchID)
	if err != nil {
		return nil, err
	}

	return &FieldView{
		MatchID:   match.ID,
		Title:     match.Title,
		Format:    match.Format,
		KickoffAt: match.KickoffAt,
		Slots:     slots,
		Balance:   s.ledger.Balance(),
	}, nil
}

// Workflow returns the user's workflow state without acting on it
func (a *App) Workflow(ctx context.Context, userID string) (*Result, error) {
	return a.run(ctx, userID, func(context.Context, *Session) error { return nil })
}

// SelectSlot handles a click on a slot of a match
func (a *App) SelectSlot(ctx context.Context, userID, matchID, slotID string) (*Result, error) {
	return a.run(ctx, userID, func(ctx context.Context, s *Session) error {
		if _, err := a.ensureField(ctx, s, matchID); err != nil {
			return err
		}
		return s.flow.SelectSlot(ctx, matchID, slotID)
	})
}

// ChooseSelf opens the self reservation dialog
func (a *App) ChooseSelf(ctx context.Context, userID string) (*Result, error) {
	return a.run(ctx, userID, func(_ context.Context, s *Session) error {
		return s.flow.ChooseSelf()
	})
}

// ChooseInvite opens the invitation dialog
func (a *App) ChooseInvite(ctx context.Context, userID string) (*Result, error) {
	return a.run(ctx, userID, func(ctx context.Context, s *Session) error {
		return s.flow.ChooseInvite(ctx)
	})
}

// Confirm reserves the selected slot for the user
func (a *App) Confirm(ctx context.Context, userID string) (*Result, error) {
	return a.run(ctx, userID, func(ctx context.Context, s *Session) error {
		return s.flow.Confirm(ctx)
	})
}

// SetInviteMode switches the invitation form mode
func (a *App) SetInviteMode(ctx context.Context, userID string, mode invitation.Mode) (*Result, error) {
	return a.withForm(ctx, userID, func(form *invitation.Form) error {
		return form.SetMode(mode)
	})
}

// SelectFriend picks the invitee from the user's friends
func (a *App) SelectFriend(ctx context.Context, userID, friendID string) (*Result, error) {
	return a.withForm(ctx, userID, func(form *invitation.Form) error {
		return form.SelectFriend(friendID)
	})
}

// SetContact fills the new-contact invitee
func (a *App) SetContact(ctx context.Context, userID string, contact invitation.Contact) (*Result, error) {
	return a.withForm(ctx, userID, func(form *invitation.Form) error {
		form.SetContact(contact.Name, contact.Email, contact.Phone)
		return nil
	})
}

// SubmitInvite reserves the selected slot for the invitee
func (a *App) SubmitInvite(ctx context.Context, userID string) (*Result, error) {
	return a.run(ctx, userID, func(ctx context.Context, s *Session) error {
		return s.flow.SubmitInvite(ctx)
	})
}

// Release cancels the viewed reservation
func (a *App) Release(ctx context.Context, userID string) (*Result, error) {
	return a.run(ctx, userID, func(ctx context.Context, s *Session) error {
		return s.flow.Release(ctx)
	})
}

// Close dismisses the open dialog
func (a *App) Close(ctx context.Context, userID string) (*Result, error) {
	return a.run(ctx, userID, func(_ context.Context, s *Session) error {
		return s.flow.Close()
	})
}

func (a *App) withForm(ctx context.Context, userID string, fn func(form *invitation.Form) error) (*Result, error) {
	return a.run(ctx, userID, func(_ context.Context, s *Session) error {
		form, ok := s.flow.Invitation()
		if !ok {
			return fmt.Errorf("no invitation open: %w", workflow.ErrInvalidTransition)
		}
		return fn(form)
	})
}

// run executes fn under the session lock. The result reflects the state
// after fn, including on error, when a session exists.
func (a *App) run(ctx context.Context, userID string, fn func(ctx context.Context, s *Session) error) (*Result, error) {
	s, err := a.session(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = fn(ctx, s)
	notifications := s.notes.Drain()
	if notifications == nil {
		notifications = []workflow.Notification{}
	}
	return &Result{
		Workflow:      workflowView(s.flow),
		Balance:       s.ledger.Balance(),
		Notifications: notifications,
	}, err
}
