package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mcdev12/matchday/go/internal/formation"
	"github.com/mcdev12/matchday/go/internal/invitation"
	"github.com/mcdev12/matchday/go/internal/models"
	"github.com/mcdev12/matchday/go/internal/reservation"
	"github.com/mcdev12/matchday/go/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	app, _ := newTestApp()
	mux := http.NewServeMux()
	NewService(app).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, user, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	return resp.StatusCode, raw
}

func decodeResult(t *testing.T, raw []byte) Result {
	t.Helper()
	var res Result
	require.NoError(t, json.Unmarshal(raw, &res))
	return res
}

func TestServiceReservationFlow(t *testing.T) {
	srv := newTestServer(t)

	status, raw := call(t, srv, http.MethodGet, "/api/matches/m1/field", "me", "")
	require.Equal(t, http.StatusOK, status)
	var field FieldView
	require.NoError(t, json.Unmarshal(raw, &field))
	assert.Len(t, field.Slots, 10)

	status, raw = call(t, srv, http.MethodPost, "/api/matches/m1/slots/away-goalkeeper-1/select", "me", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, workflow.StateSlotSelected, decodeResult(t, raw).Workflow.State)

	status, _ = call(t, srv, http.MethodPost, "/api/workflow/invite", "me", "")
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, srv, http.MethodPost, "/api/workflow/invite/mode", "me", `{"mode":"new-contact"}`)
	require.Equal(t, http.StatusOK, status)

	status, raw = call(t, srv, http.MethodPost, "/api/workflow/invite/contact", "me", `{"name":"Ana","email":"ana@example.com"}`)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decodeResult(t, raw).Workflow.Invitation.CanSubmit)

	status, raw = call(t, srv, http.MethodPost, "/api/workflow/submit-invite", "me", "")
	require.Equal(t, http.StatusOK, status)
	res := decodeResult(t, raw)
	assert.Equal(t, workflow.StateIdle, res.Workflow.State)
	assert.Equal(t, 8, res.Balance)
	require.Len(t, res.Notifications, 1)

	status, raw = call(t, srv, http.MethodGet, "/api/workflow", "me", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decodeResult(t, raw).Notifications, "notifications are delivered once")
}

func TestServiceErrorStatuses(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		setup  []string
		method string
		path   string
		user   string
		body   string
		want   int
	}{
		{name: "missing user", method: http.MethodGet, path: "/api/workflow", want: http.StatusUnauthorized},
		{name: "unknown match", method: http.MethodGet, path: "/api/matches/nope/field", user: "me", want: http.StatusNotFound},
		{name: "unknown slot", method: http.MethodPost, path: "/api/matches/m1/slots/home-sweeper-1/select", user: "me", want: http.StatusNotFound},
		{name: "confirm from idle", method: http.MethodPost, path: "/api/workflow/confirm", user: "me", want: http.StatusConflict},
		{name: "bad body", method: http.MethodPost, path: "/api/workflow/invite/mode", user: "me", body: `{`, want: http.StatusBadRequest},
		{name: "unaffordable slot", method: http.MethodPost, path: "/api/matches/m1/slots/home-defense-1/select", user: "other", want: http.StatusPaymentRequired},
		{name: "release roster player", method: http.MethodPost, path: "/api/workflow/release", user: "me",
			setup: []string{"/api/matches/m1/slots/home-goalkeeper-1/select"}, want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, path := range tt.setup {
				status, _ := call(t, srv, http.MethodPost, path, tt.user, "")
				require.Equal(t, http.StatusOK, status)
			}
			status, raw := call(t, srv, tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.want, status)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestServiceValidationKeepsDialog(t *testing.T) {
	srv := newTestServer(t)

	call(t, srv, http.MethodPost, "/api/matches/m1/slots/away-defense-1/select", "me", "")
	call(t, srv, http.MethodPost, "/api/workflow/invite", "me", "")

	status, raw := call(t, srv, http.MethodPost, "/api/workflow/submit-invite", "me", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	require.NotNil(t, body.Result)
	assert.Equal(t, workflow.StateInvitingFriend, body.Result.Workflow.State)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", reservation.ErrInsufficientCredits), http.StatusPaymentRequired},
		{reservation.ErrSlotUnavailable, http.StatusConflict},
		{reservation.ErrNotReserved, http.StatusConflict},
		{workflow.ErrInvalidTransition, http.StatusConflict},
		{reservation.ErrNotAuthorized, http.StatusForbidden},
		{invitation.ErrNameRequired, http.StatusUnprocessableEntity},
		{&formation.UnknownFormatError{Format: "F9"}, http.StatusUnprocessableEntity},
		{fmt.Errorf("failed to get match: %w", models.ErrMatchNotFound), http.StatusNotFound},
		{errors.New("database is down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}
