package social_api_client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/mcdev12/matchday/go/internal/models"
)

type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Position string `json:"position"`
}

type Side struct {
	Players       []Player `json:"players"`
	OpenPositions int      `json:"open_positions"`
}

type Match struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Format   string     `json:"format"`
	Kickoff  *time.Time `json:"kickoff"`
	HomeTeam Side       `json:"home_team"`
	AwayTeam Side       `json:"away_team"`
}

type MatchResponse struct {
	Match Match `json:"match"`
}

// GetMatch fetches a match roster
func (c *SocialApiClient) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	body, err := c.Get(ctx, fmt.Sprintf(MatchEndpoint, url.PathEscape(matchID)))
	if err != nil {
		return nil, notFound(err, models.ErrMatchNotFound, "match "+matchID)
	}

	var response MatchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	m := response.Match
	if m.ID == "" {
		m.ID = matchID
	}
	return &models.Match{
		ID:        m.ID,
		Title:     m.Title,
		Format:    models.MatchFormat(m.Format),
		KickoffAt: m.Kickoff,
		Teams: map[models.Team]models.TeamRoster{
			models.TeamHome: m.HomeTeam.roster(),
			models.TeamAway: m.AwayTeam.roster(),
		},
	}, nil
}

func (s Side) roster() models.TeamRoster {
	players := make([]models.RosterPlayer, len(s.Players))
	for i, p := range s.Players {
		players[i] = models.RosterPlayer{
			ID:            p.ID,
			DisplayName:   p.Name,
			AvatarRef:     p.Avatar,
			PositionLabel: p.Position,
		}
	}
	return models.TeamRoster{Players: players, OpenPositions: s.OpenPositions}
}
