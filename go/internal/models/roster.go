package models

// RosterPlayer is a player as delivered by the match data provider.
// PositionLabel is free text and never normalised at the source.
type RosterPlayer struct {
	ID            string `json:"id" yaml:"id"`
	DisplayName   string `json:"display_name" yaml:"display_name"`
	AvatarRef     string `json:"avatar_ref,omitempty" yaml:"avatar_ref"`
	PositionLabel string `json:"position_label" yaml:"position_label"`
}

// TeamRoster is one side's confirmed players plus positions still open
type TeamRoster struct {
	Players       []RosterPlayer `json:"players" yaml:"players"`
	OpenPositions int            `json:"open_positions" yaml:"open_positions"`
}

// Size returns filled plus open positions
func (r TeamRoster) Size() int {
	return len(r.Players) + r.OpenPositions
}
