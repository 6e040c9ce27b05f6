package workflow

import (
	"github.com/mcdev12/matchday/go/internal/invitation"
	"github.com/mcdev12/matchday/go/internal/models"
)

// StateName identifies a workflow state on the wire
type StateName string

const (
	StateIdle              StateName = "idle"
	StateSlotSelected      StateName = "slot_selected"
	StateConfirmingForSelf StateName = "confirming_for_self"
	StateInvitingFriend    StateName = "inviting_friend"
	StateViewingOccupant   StateName = "viewing_occupant"
)

// State is the single active workflow state. The set of implementations
// is closed to this package.
type State interface {
	Name() StateName
	isState()
}

// Idle has no dialog open and remembers no slot
type Idle struct{}

// SlotSelected holds an available, affordable slot awaiting a choice
type SlotSelected struct {
	MatchID string
	Slot    models.Slot
}

// ConfirmingForSelf shows the self reservation dialog
type ConfirmingForSelf struct {
	MatchID string
	Slot    models.Slot
}

// InvitingFriend shows the invitation dialog
type InvitingFriend struct {
	MatchID string
	Slot    models.Slot
	form    *invitation.Form
}

// ViewingOccupant shows who holds an occupied slot
type ViewingOccupant struct {
	MatchID    string
	Slot       models.Slot
	CanRelease bool
}

func (Idle) Name() StateName              { return StateIdle }
func (SlotSelected) Name() StateName      { return StateSlotSelected }
func (ConfirmingForSelf) Name() StateName { return StateConfirmingForSelf }
func (InvitingFriend) Name() StateName    { return StateInvitingFriend }
func (ViewingOccupant) Name() StateName   { return StateViewingOccupant }

func (Idle) isState()              {}
func (SlotSelected) isState()      {}
func (ConfirmingForSelf) isState() {}
func (InvitingFriend) isState()    {}
func (ViewingOccupant) isState()   {}

// SelectedSlot returns the slot a state refers to, if any
func SelectedSlot(s State) (models.Slot, bool) {
	switch st := s.(type) {
	case SlotSelected:
		return st.Slot, true
	case ConfirmingForSelf:
		return st.Slot, true
	case InvitingFriend:
		return st.Slot, true
	case ViewingOccupant:
		return st.Slot, true
	default:
		return models.Slot{}, false
	}
}
