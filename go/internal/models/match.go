package models

import "time"

// MatchFormat names a formation layout, e.g. "F5" for five-a-side
type MatchFormat string

// Match is what the match data provider returns for a match id
type Match struct {
	ID        string              `json:"id" yaml:"id"`
	Title     string              `json:"title" yaml:"title"`
	Format    MatchFormat         `json:"format,omitempty" yaml:"format"`
	KickoffAt *time.Time          `json:"kickoff_at,omitempty" yaml:"kickoff_at"`
	Teams     map[Team]TeamRoster `json:"teams" yaml:"teams"`
}

// TotalPositions sums filled and open positions over both teams
func (m *Match) TotalPositions() int {
	total := 0
	for _, roster := range m.Teams {
		total += roster.Size()
	}
	return total
}
