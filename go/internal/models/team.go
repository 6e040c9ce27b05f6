package models

// Team identifies one side of the pitch
type Team string

const (
	TeamHome Team = "home"
	TeamAway Team = "away"
)

// Teams lists both sides in rendering order
var Teams = []Team{TeamHome, TeamAway}

// Valid reports whether t is one of the two sides
func (t Team) Valid() bool {
	return t == TeamHome || t == TeamAway
}
