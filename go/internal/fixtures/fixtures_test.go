package fixtures

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mcdev12/matchday/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	s, err := LoadFile("testdata/fixtures.yaml")
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, []string{"sunday-seven", "thursday-five"}, s.MatchIDs())

	m, err := s.GetMatch(ctx, "thursday-five")
	require.NoError(t, err)
	assert.Equal(t, models.MatchFormat("F5"), m.Format)
	assert.Equal(t, 10, m.TotalPositions())
	require.NotNil(t, m.KickoffAt)
	assert.True(t, m.KickoffAt.Equal(time.Date(2026, 10, 15, 19, 30, 0, 0, time.UTC)))
	assert.Equal(t, "Portero", m.Teams[models.TeamHome].Players[0].PositionLabel)

	seven, err := s.GetMatch(ctx, "sunday-seven")
	require.NoError(t, err)
	assert.Empty(t, seven.Format)
	assert.Equal(t, 14, seven.TotalPositions())

	balance, err := s.InitialBalance(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, 40, balance)

	friends, err := s.ListFriends(ctx, "me")
	require.NoError(t, err)
	assert.Len(t, friends, 2)

	friends, err = s.ListFriends(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestLookupMisses(t *testing.T) {
	s, err := LoadFile("testdata/fixtures.yaml")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.GetMatch(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrMatchNotFound)

	_, err = s.InitialBalance(ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestGetMatchReturnsCopy(t *testing.T) {
	s, err := LoadFile("testdata/fixtures.yaml")
	require.NoError(t, err)
	ctx := context.Background()

	m, err := s.GetMatch(ctx, "thursday-five")
	require.NoError(t, err)
	m.Teams[models.TeamHome].Players[0].DisplayName = "changed"

	again, err := s.GetMatch(ctx, "thursday-five")
	require.NoError(t, err)
	assert.Equal(t, "Pablo", again.Teams[models.TeamHome].Players[0].DisplayName)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"user without id", "users:\n  - credits: 3\n", "user without id"},
		{"duplicate user", "users:\n  - id: a\n  - id: a\n", "duplicate user"},
		{"negative credits", "users:\n  - id: a\n    credits: -1\n", "negative credits"},
		{"match without id", "matches:\n  - title: x\n", "match without id"},
		{"duplicate match", "matches:\n  - id: m\n  - id: m\n", "duplicate match"},
		{"unknown team", "matches:\n  - id: m\n    teams:\n      visitors: {open_positions: 2}\n", "unknown team"},
		{"bad yaml", "users: [", "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	s, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, s.MatchIDs())
}
