package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcdev12/matchday/go/internal/invitation"
	"github.com/mcdev12/matchday/go/internal/models"
	"github.com/mcdev12/matchday/go/internal/reservation"
	"github.com/rs/zerolog/log"
)

// ErrInvalidTransition is returned for an operation the current state does
// not accept. The state is left unchanged.
var ErrInvalidTransition = errors.New("invalid workflow transition")

// Ledger is the part of the reservation ledger the orchestrator drives
type Ledger interface {
	UserID() string
	Slot(matchID, slotID string) (models.Slot, error)
	CanAfford(matchID, slotID string) error
	ReserveForSelf(ctx context.Context, matchID, slotID string) (models.Slot, error)
	ReserveForFriend(ctx context.Context, matchID, slotID string, occupant models.Occupant) (models.Slot, error)
	Cancel(ctx context.Context, matchID, slotID, callerID string) (models.Slot, error)
	MayRelease(matchID, slotID, callerID string) bool
}

// Orchestrator decides which dialog is open for one user. It is not safe
// for concurrent use; callers serialise access.
type Orchestrator struct {
	ledger   Ledger
	friends  invitation.FriendDirectory
	notifier Notifier
	state    State
}

// New creates an orchestrator in the Idle state
func New(ledger Ledger, friends invitation.FriendDirectory, notifier Notifier) *Orchestrator {
	return &Orchestrator{
		ledger:   ledger,
		friends:  friends,
		notifier: notifier,
		state:    Idle{},
	}
}

// State returns the active state
func (o *Orchestrator) State() State {
	return o.state
}

// Invitation returns the open invitation form while inviting a friend
func (o *Orchestrator) Invitation() (*invitation.Form, bool) {
	st, ok := o.state.(InvitingFriend)
	if !ok {
		return nil, false
	}
	return st.form, true
}

// SelectSlot handles a click on a slot. Occupied slots open the occupant
// view; available slots are selected only if the user can afford them.
func (o *Orchestrator) SelectSlot(ctx context.Context, matchID, slotID string) error {
	if _, ok := o.state.(Idle); !ok {
		return o.invalid("select_slot")
	}

	slot, err := o.ledger.Slot(matchID, slotID)
	if err != nil {
		return o.fail(ctx, "select_slot", err)
	}

	if !slot.Available() {
		o.state = ViewingOccupant{
			MatchID:    matchID,
			Slot:       slot,
			CanRelease: o.ledger.MayRelease(matchID, slotID, o.ledger.UserID()),
		}
		return nil
	}

	if err := o.ledger.CanAfford(matchID, slotID); err != nil {
		return o.fail(ctx, "select_slot", err)
	}
	o.state = SlotSelected{MatchID: matchID, Slot: slot}
	return nil
}

// ChooseSelf opens the self reservation dialog
func (o *Orchestrator) ChooseSelf() error {
	st, ok := o.state.(SlotSelected)
	if !ok {
		return o.invalid("choose_self")
	}
	o.state = ConfirmingForSelf(st)
	return nil
}

// ChooseInvite opens the invitation dialog with the user's friend list
func (o *Orchestrator) ChooseInvite(ctx context.Context) error {
	st, ok := o.state.(SlotSelected)
	if !ok {
		return o.invalid("choose_invite")
	}

	var friends []models.Friend
	if o.friends != nil {
		list, err := o.friends.ListFriends(ctx, o.ledger.UserID())
		if err != nil {
			return o.fail(ctx, "choose_invite", fmt.Errorf("failed to load friends: %w", err))
		}
		friends = list
	}

	o.state = InvitingFriend{MatchID: st.MatchID, Slot: st.Slot, form: invitation.NewForm(friends)}
	return nil
}

// Confirm reserves the selected slot for the user
func (o *Orchestrator) Confirm(ctx context.Context) error {
	st, ok := o.state.(ConfirmingForSelf)
	if !ok {
		return o.invalid("confirm")
	}

	slot, err := o.ledger.ReserveForSelf(ctx, st.MatchID, st.Slot.ID)
	if err != nil {
		return o.fail(ctx, "confirm", err)
	}

	o.reset()
	o.notify(ctx, LevelSuccess, fmt.Sprintf("%s reserved for you, %d credits spent", slot.Label, slot.Cost))
	return nil
}

// SubmitInvite resolves the invitation form and reserves the slot for the
// invitee. Validation errors keep the dialog open.
func (o *Orchestrator) SubmitInvite(ctx context.Context) error {
	st, ok := o.state.(InvitingFriend)
	if !ok {
		return o.invalid("submit_invite")
	}

	occupant, err := st.form.Submit(o.ledger.UserID())
	if err != nil {
		return err
	}

	slot, err := o.ledger.ReserveForFriend(ctx, st.MatchID, st.Slot.ID, occupant)
	if err != nil {
		return o.fail(ctx, "submit_invite", err)
	}

	o.reset()
	o.notify(ctx, LevelSuccess, fmt.Sprintf("%s reserved for %s, %d credits spent", slot.Label, occupant.DisplayName, slot.Cost))
	return nil
}

// Release cancels the viewed reservation and refunds its cost
func (o *Orchestrator) Release(ctx context.Context) error {
	st, ok := o.state.(ViewingOccupant)
	if !ok {
		return o.invalid("release")
	}

	if _, err := o.ledger.Cancel(ctx, st.MatchID, st.Slot.ID, o.ledger.UserID()); err != nil {
		return o.fail(ctx, "release", err)
	}

	o.reset()
	o.notify(ctx, LevelSuccess, fmt.Sprintf("%s released, %d credits refunded", st.Slot.Label, st.Slot.Cost))
	return nil
}

// Close dismisses the open dialog without touching the ledger
func (o *Orchestrator) Close() error {
	if _, ok := o.state.(Idle); ok {
		return o.invalid("close")
	}
	o.reset()
	return nil
}

// reset is the only way back to Idle; it forgets the slot and the form
func (o *Orchestrator) reset() {
	o.state = Idle{}
}

func (o *Orchestrator) invalid(op string) error {
	return fmt.Errorf("%s from %s: %w", op, o.state.Name(), ErrInvalidTransition)
}

// fail reports err to the user and returns to Idle
func (o *Orchestrator) fail(ctx context.Context, op string, err error) error {
	level := LevelWarning
	var message string
	switch {
	case errors.Is(err, reservation.ErrInsufficientCredits):
		message = "Not enough credits for this position"
	case errors.Is(err, reservation.ErrSlotUnavailable):
		message = "This position was just taken, refresh the field"
	case errors.Is(err, reservation.ErrNotAuthorized):
		message = "Only the player or whoever invited them can release this position"
	case errors.Is(err, reservation.ErrNotReserved):
		message = "This position is already free"
	default:
		level = LevelError
		message = "Something went wrong, try again"
		log.Error().Err(err).Str("op", op).Str("user_id", o.ledger.UserID()).Msg("workflow operation failed")
	}

	o.reset()
	o.notify(ctx, level, message)
	return err
}

func (o *Orchestrator) notify(ctx context.Context, level Level, message string) {
	if o.notifier == nil {
		return
	}
	o.notifier.Notify(ctx, Notification{Level: level, Message: message})
}
