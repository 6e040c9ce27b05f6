package models

import "strconv"

// Category is the tactical line a slot belongs to
type Category string

const (
	CategoryGoalkeeper Category = "goalkeeper"
	CategoryDefense    Category = "defense"
	CategoryMidfield   Category = "midfield"
	CategoryForward    Category = "forward"
)

// Categories in the fixed order used for classification
var Categories = []Category{CategoryGoalkeeper, CategoryDefense, CategoryMidfield, CategoryForward}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	switch c {
	case CategoryGoalkeeper, CategoryDefense, CategoryMidfield, CategoryForward:
		return true
	default:
		return false
	}
}

// OccupantKind tells who holds a slot and therefore who may release it
type OccupantKind string

const (
	// OccupantSelf is the acting user, reserved through the ledger
	OccupantSelf OccupantKind = "self"
	// OccupantInvited is a friend or new contact the acting user paid for
	OccupantInvited OccupantKind = "invited"
	// OccupantRoster is a player already on the match roster
	OccupantRoster OccupantKind = "roster"
)

// Occupant is whoever fills a slot
type Occupant struct {
	ID          string       `json:"id"`
	DisplayName string       `json:"display_name"`
	AvatarRef   string       `json:"avatar_ref,omitempty"`
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	Kind        OccupantKind `json:"kind"`
	InvitedBy   string       `json:"invited_by,omitempty"`
}

// Slot is one position on the field. A slot is available exactly when it
// has no occupant.
type Slot struct {
	ID       string    `json:"id"`
	MatchID  string    `json:"match_id"`
	Team     Team      `json:"team"`
	Category Category  `json:"category"`
	Label    string    `json:"label"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Cost     int       `json:"cost"`
	Occupant *Occupant `json:"occupant,omitempty"`
}

// Available reports whether the slot can be reserved
func (s Slot) Available() bool {
	return s.Occupant == nil
}

// Clone returns a deep copy so callers never alias ledger state
func (s Slot) Clone() Slot {
	if s.Occupant != nil {
		occ := *s.Occupant
		s.Occupant = &occ
	}
	return s
}

// SlotBlueprint is a slot of a formation template before layout
type SlotBlueprint struct {
	Category Category `json:"category" yaml:"category"`
	Label    string   `json:"label" yaml:"label"`
	X        float64  `json:"x" yaml:"x"`
	Y        float64  `json:"y" yaml:"y"`
	Cost     int      `json:"cost" yaml:"cost"`
}

// FormationTemplate is the ordered slot layout of one team for a format
type FormationTemplate struct {
	Format MatchFormat     `json:"format"`
	Team   Team            `json:"team"`
	Slots  []SlotBlueprint `json:"slots"`
}

// SlotID is the deterministic id of the n-th slot (1-based) of a category
func SlotID(team Team, category Category, n int) string {
	return string(team) + "-" + string(category) + "-" + strconv.Itoa(n)
}
