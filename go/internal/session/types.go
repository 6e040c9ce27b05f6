package session

import (
	"time"

	"github.com/mcdev12/matchday/go/internal/invitation"
	"github.com/mcdev12/matchday/go/internal/models"
	"github.com/mcdev12/matchday/go/internal/workflow"
)

// FieldView is a match field as rendered for one user
type FieldView struct {
	MatchID   string             `json:"match_id"`
	Title     string             `json:"title"`
	Format    models.MatchFormat `json:"format"`
	KickoffAt *time.Time         `json:"kickoff_at,omitempty"`
	Slots     []models.Slot      `json:"slots"`
	Balance   int                `json:"balance"`
}

// InvitationView is the open invitation form
type InvitationView struct {
	Mode      invitation.Mode    `json:"mode"`
	Friends   []models.Friend    `json:"friends"`
	FriendID  string             `json:"friend_id,omitempty"`
	Contact   invitation.Contact `json:"contact"`
	CanSubmit bool               `json:"can_submit"`
	Problem   string             `json:"problem,omitempty"`
}

// WorkflowView is the active workflow state
type WorkflowView struct {
	State      workflow.StateName `json:"state"`
	MatchID    string             `json:"match_id,omitempty"`
	Slot       *models.Slot       `json:"slot,omitempty"`
	CanRelease bool               `json:"can_release,omitempty"`
	Invitation *InvitationView    `json:"invitation,omitempty"`
}

// Result is returned by every workflow action
type Result struct {
	Workflow      WorkflowView            `json:"workflow"`
	Balance       int                     `json:"balance"`
	Notifications []workflow.Notification `json:"notifications"`
}

func workflowView(flow *workflow.Orchestrator) WorkflowView {
	state := flow.State()
	view := WorkflowView{State: state.Name()}

	switch st := state.(type) {
	case workflow.SlotSelected:
		view.MatchID = st.MatchID
	case workflow.ConfirmingForSelf:
		view.MatchID = st.MatchID
	case workflow.InvitingFriend:
		view.MatchID = st.MatchID
	case workflow.ViewingOccupant:
		view.MatchID = st.MatchID
		view.CanRelease = st.CanRelease
	}
	if slot, ok := workflow.SelectedSlot(state); ok {
		view.Slot = &slot
	}

	if form, ok := flow.Invitation(); ok {
		inv := &InvitationView{
			Mode:      form.Mode(),
			Friends:   form.Friends(),
			FriendID:  form.SelectedFriendID(),
			Contact:   form.Contact(),
			CanSubmit: form.CanSubmit(),
		}
		if err := form.Validate(); err != nil {
			inv.Problem = err.Error()
		}
		view.Invitation = inv
	}
	return view
}
