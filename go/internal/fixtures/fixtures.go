package fixtures

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mcdev12/matchday/go/internal/models"
	"gopkg.in/yaml.v3"
)

type file struct {
	Users   []user         `yaml:"users"`
	Matches []models.Match `yaml:"matches"`
}

type user struct {
	ID          string          `yaml:"id"`
	DisplayName string          `yaml:"display_name"`
	Credits     int             `yaml:"credits"`
	Friends     []models.Friend `yaml:"friends"`
}

// Store serves matches, balances and friend lists from a YAML document.
// It is read-only after loading.
type Store struct {
	users   map[string]user
	matches map[string]models.Match
}

// LoadFile reads a fixtures file from disk
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a fixtures document
func Load(r io.Reader) (*Store, error) {
	var doc file
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	s := &Store{
		users:   make(map[string]user, len(doc.Users)),
		matches: make(map[string]models.Match, len(doc.Matches)),
	}
	for _, u := range doc.Users {
		if u.ID == "" {
			return nil, fmt.Errorf("fixtures: user without id")
		}
		if _, dup := s.users[u.ID]; dup {
			return nil, fmt.Errorf("fixtures: duplicate user %q", u.ID)
		}
		if u.Credits < 0 {
			return nil, fmt.Errorf("fixtures: user %q has negative credits", u.ID)
		}
		s.users[u.ID] = u
	}
	for _, m := range doc.Matches {
		if m.ID == "" {
			return nil, fmt.Errorf("fixtures: match without id")
		}
		if _, dup := s.matches[m.ID]; dup {
			return nil, fmt.Errorf("fixtures: duplicate match %q", m.ID)
		}
		for team := range m.Teams {
			if !team.Valid() {
				return nil, fmt.Errorf("fixtures: match %q has unknown team %q", m.ID, team)
			}
		}
		s.matches[m.ID] = m
	}
	return s, nil
}

// GetMatch returns a copy of the match with the given id
func (s *Store) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	m, ok := s.matches[matchID]
	if !ok {
		return nil, fmt.Errorf("match %q: %w", matchID, models.ErrMatchNotFound)
	}
	teams := make(map[models.Team]models.TeamRoster, len(m.Teams))
	for team, roster := range m.Teams {
		players := make([]models.RosterPlayer, len(roster.Players))
		copy(players, roster.Players)
		teams[team] = models.TeamRoster{Players: players, OpenPositions: roster.OpenPositions}
	}
	m.Teams = teams
	return &m, nil
}

// InitialBalance returns the user's configured credits
func (s *Store) InitialBalance(ctx context.Context, userID string) (int, error) {
	u, ok := s.users[userID]
	if !ok {
		return 0, fmt.Errorf("user %q: %w", userID, models.ErrUserNotFound)
	}
	return u.Credits, nil
}

// ListFriends returns the user's friends. Unknown users have none.
func (s *Store) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	u := s.users[userID]
	friends := make([]models.Friend, len(u.Friends))
	copy(friends, u.Friends)
	return friends, nil
}

// MatchIDs returns the known match ids in lexical order
func (s *Store) MatchIDs() []string {
	ids := make([]string, 0, len(s.matches))
	for id := range s.matches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
