package invitation

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/mcdev12/matchday/go/internal/models"
)

// FriendDirectory supplies the acting user's existing friends
type FriendDirectory interface {
	ListFriends(ctx context.Context, userID string) ([]models.Friend, error)
}

// Mode selects how the invitee is resolved
type Mode string

const (
	ModeNone           Mode = ""
	ModeExistingFriend Mode = "existing-friend"
	ModeNewContact     Mode = "new-contact"
)

// ValidationError blocks submission; it never leaves the dialog
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

var (
	ErrNoMode         = &ValidationError{Field: "mode", Reason: "choose an existing friend or a new contact"}
	ErrInvalidMode    = &ValidationError{Field: "mode", Reason: "unknown invitation mode"}
	ErrFriendRequired = &ValidationError{Field: "friend_id", Reason: "select a friend"}
	ErrUnknownFriend  = &ValidationError{Field: "friend_id", Reason: "not in your friend list"}
	ErrNameRequired   = &ValidationError{Field: "name", Reason: "name is required"}
	ErrEmailRequired  = &ValidationError{Field: "email", Reason: "email is required"}
	ErrEmailInvalid   = &ValidationError{Field: "email", Reason: "email is not valid"}
)

// IsValidation reports whether err is a form validation error
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// emailShape is the usual local@domain.tld check; nothing is verified remotely
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Contact is the new-contact input
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Form holds the input of one invitation dialog
type Form struct {
	friends  []models.Friend
	mode     Mode
	friendID string
	contact  Contact
}

// NewForm opens an empty form over the user's friend list
func NewForm(friends []models.Friend) *Form {
	list := make([]models.Friend, len(friends))
	copy(list, friends)
	return &Form{friends: list}
}

// Mode returns the active mode
func (f *Form) Mode() Mode {
	return f.mode
}

// Friends returns the selectable friends
func (f *Form) Friends() []models.Friend {
	list := make([]models.Friend, len(f.friends))
	copy(list, f.friends)
	return list
}

// SetMode switches mode. Input of the mode being left is discarded.
func (f *Form) SetMode(mode Mode) error {
	switch mode {
	case ModeExistingFriend, ModeNewContact:
	default:
		return ErrInvalidMode
	}
	if mode == f.mode {
		return nil
	}
	f.mode = mode
	f.friendID = ""
	f.contact = Contact{}
	return nil
}

// SelectFriend picks a friend, switching to existing-friend mode
func (f *Form) SelectFriend(friendID string) error {
	if _, ok := f.friend(friendID); !ok {
		return ErrUnknownFriend
	}
	_ = f.SetMode(ModeExistingFriend)
	f.friendID = friendID
	return nil
}

// SetContact fills the new-contact fields, switching to new-contact mode
func (f *Form) SetContact(name, email, phone string) {
	_ = f.SetMode(ModeNewContact)
	f.contact = Contact{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Phone: strings.TrimSpace(phone),
	}
}

// SelectedFriendID returns the chosen friend, if any
func (f *Form) SelectedFriendID() string {
	return f.friendID
}

// Contact returns the new-contact input
func (f *Form) Contact() Contact {
	return f.contact
}

// Validate returns the first problem blocking submission
func (f *Form) Validate() error {
	switch f.mode {
	case ModeExistingFriend:
		if f.friendID == "" {
			return ErrFriendRequired
		}
		if _, ok := f.friend(f.friendID); !ok {
			return ErrUnknownFriend
		}
		return nil
	case ModeNewContact:
		if f.contact.Name == "" {
			return ErrNameRequired
		}
		if f.contact.Email == "" {
			return ErrEmailRequired
		}
		if !emailShape.MatchString(f.contact.Email) {
			return ErrEmailInvalid
		}
		return nil
	default:
		return ErrNoMode
	}
}

// CanSubmit reports whether Submit would succeed
func (f *Form) CanSubmit() bool {
	return f.Validate() == nil
}

// Submit resolves the form into the occupant inviterID reserves for. New
// contacts get a freshly minted identity.
func (f *Form) Submit(inviterID string) (models.Occupant, error) {
	if err := f.Validate(); err != nil {
		return models.Occupant{}, err
	}

	if f.mode == ModeExistingFriend {
		friend, _ := f.friend(f.friendID)
		return models.Occupant{
			ID:          friend.ID,
			DisplayName: friend.DisplayName,
			AvatarRef:   friend.AvatarRef,
			Kind:        models.OccupantInvited,
			InvitedBy:   inviterID,
		}, nil
	}

	return models.Occupant{
		ID:          uuid.NewString(),
		DisplayName: f.contact.Name,
		Email:       f.contact.Email,
		Phone:       f.contact.Phone,
		Kind:        models.OccupantInvited,
		InvitedBy:   inviterID,
	}, nil
}

func (f *Form) friend(id string) (models.Friend, bool) {
	if id == "" {
		return models.Friend{}, false
	}
	for _, friend := range f.friends {
		if friend.ID == id {
			return friend, true
		}
	}
	return models.Friend{}, false
}
