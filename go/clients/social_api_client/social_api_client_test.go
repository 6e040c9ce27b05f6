package social_api_client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mcdev12/matchday/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/matches/m1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get(AuthorizationHeader))
		w.Write([]byte(`{"match":{"id":"m1","title":"Five","format":"F5","kickoff":"2026-10-15T19:30:00Z",
			"home_team":{"open_positions":3,"players":[{"id":"p1","name":"Pablo","position":"Portero"}]},
			"away_team":{"open_positions":5}}}`))
	})
	mux.HandleFunc("GET /v1/users/me/credits", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"balance":40}`))
	})
	mux.HandleFunc("GET /v1/users/neg/credits", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"balance":-3}`))
	})
	mux.HandleFunc("GET /v1/users/me/friends", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"friends":[{"id":"f1","name":"Lucia","avatar":"l.png"}]}`))
	})
	mux.HandleFunc("GET /v1/users/broken/friends", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetMatch(t *testing.T) {
	srv := newServer(t)
	client := NewSocialApiClient(srv.URL, "secret")

	m, err := client.GetMatch(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Five", m.Title)
	assert.Equal(t, models.MatchFormat("F5"), m.Format)
	require.NotNil(t, m.KickoffAt)
	assert.Equal(t, 9, m.TotalPositions())
	assert.Equal(t, models.RosterPlayer{ID: "p1", DisplayName: "Pablo", PositionLabel: "Portero"},
		m.Teams[models.TeamHome].Players[0])

	_, err = client.GetMatch(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
}

func TestInitialBalance(t *testing.T) {
	srv := newServer(t)
	client := NewSocialApiClient(srv.URL, "secret")

	balance, err := client.InitialBalance(context.Background(), "me")
	require.NoError(t, err)
	assert.Equal(t, 40, balance)

	_, err = client.InitialBalance(context.Background(), "neg")
	assert.Error(t, err)

	_, err = client.InitialBalance(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestListFriends(t *testing.T) {
	srv := newServer(t)
	client := NewSocialApiClient(srv.URL, "secret")

	friends, err := client.ListFriends(context.Background(), "me")
	require.NoError(t, err)
	assert.Equal(t, []models.Friend{{ID: "f1", DisplayName: "Lucia", AvatarRef: "l.png"}}, friends)

	_, err = client.ListFriends(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrUserNotFound)
}
