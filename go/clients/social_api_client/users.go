package social_api_client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/mcdev12/matchday/go/internal/models"
)

type CreditsResponse struct {
	Balance int `json:"balance"`
}

type Friend struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type FriendsResponse struct {
	Friends []Friend `json:"friends"`
}

// InitialBalance fetches the user's credit balance
func (c *SocialApiClient) InitialBalance(ctx context.Context, userID string) (int, error) {
	body, err := c.Get(ctx, fmt.Sprintf(CreditsEndpoint, url.PathEscape(userID)))
	if err != nil {
		return 0, notFound(err, models.ErrUserNotFound, "credits of "+userID)
	}

	var response CreditsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return 0, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}
	if response.Balance < 0 {
		return 0, fmt.Errorf("API returned negative balance %d for user %s", response.Balance, userID)
	}
	return response.Balance, nil
}

// ListFriends fetches the user's friends
func (c *SocialApiClient) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	body, err := c.Get(ctx, fmt.Sprintf(FriendsEndpoint, url.PathEscape(userID)))
	if err != nil {
		return nil, notFound(err, models.ErrUserNotFound, "friends of "+userID)
	}

	var response FriendsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	friends := make([]models.Friend, len(response.Friends))
	for i, f := range response.Friends {
		friends[i] = models.Friend{ID: f.ID, DisplayName: f.Name, AvatarRef: f.Avatar}
	}
	return friends, nil
}
