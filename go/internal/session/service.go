package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcdev12/matchday/go/internal/formation"
	"github.com/mcdev12/matchday/go/internal/invitation"
	"github.com/mcdev12/matchday/go/internal/models"
	"github.com/mcdev12/matchday/go/internal/reservation"
	"github.com/mcdev12/matchday/go/internal/workflow"
	"github.com/rs/zerolog/log"
)

// UserHeader carries the authenticated user id, set by the fronting proxy
const UserHeader = "X-User-ID"

// SessionApp defines what the service layer needs from the session application
type SessionApp interface {
	Field(ctx context.Context, userID, matchID string) (*FieldView, error)
	Workflow(ctx context.Context, userID string) (*Result, error)
	SelectSlot(ctx context.Context, userID, matchID, slotID string) (*Result, error)
	ChooseSelf(ctx context.Context, userID string) (*Result, error)
	ChooseInvite(ctx context.Context, userID string) (*Result, error)
	Confirm(ctx context.Context, userID string) (*Result, error)
	SetInviteMode(ctx context.Context, userID string, mode invitation.Mode) (*Result, error)
	SelectFriend(ctx context.Context, userID, friendID string) (*Result, error)
	SetContact(ctx context.Context, userID string, contact invitation.Contact) (*Result, error)
	SubmitInvite(ctx context.Context, userID string) (*Result, error)
	Release(ctx context.Context, userID string) (*Result, error)
	Close(ctx context.Context, userID string) (*Result, error)
}

// Service exposes sessions as a JSON HTTP API
type Service struct {
	app SessionApp
}

// NewService creates a new session HTTP service
func NewService(app SessionApp) *Service {
	return &Service{
		app: app,
	}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string  `json:"error"`
	Result *Result `json:"result,omitempty"`
}

type modeRequest struct {
	Mode invitation.Mode `json:"mode"`
}

type friendRequest struct {
	FriendID string `json:"friend_id"`
}

// RegisterRoutes registers the session routes on mux
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/matches/{matchID}/field", s.HandleGetField)
	mux.HandleFunc("POST /api/matches/{matchID}/slots/{slotID}/select", s.HandleSelectSlot)

	mux.HandleFunc("GET /api/workflow", s.action(s.app.Workflow))
	mux.HandleFunc("POST /api/workflow/reserve-self", s.action(s.app.ChooseSelf))
	mux.HandleFunc("POST /api/workflow/invite", s.action(s.app.ChooseInvite))
	mux.HandleFunc("POST /api/workflow/confirm", s.action(s.app.Confirm))
	mux.HandleFunc("POST /api/workflow/submit-invite", s.action(s.app.SubmitInvite))
	mux.HandleFunc("POST /api/workflow/release", s.action(s.app.Release))
	mux.HandleFunc("POST /api/workflow/close", s.action(s.app.Close))

	mux.HandleFunc("POST /api/workflow/invite/mode", s.HandleSetInviteMode)
	mux.HandleFunc("POST /api/workflow/invite/friend", s.HandleSelectFriend)
	mux.HandleFunc("POST /api/workflow/invite/contact", s.HandleSetContact)
}

// HandleGetField handles GET /api/matches/{matchID}/field
func (s *Service) HandleGetField(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(UserHeader)
	field, err := s.app.Field(r.Context(), userID, r.PathValue("matchID"))
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, field)
}

// HandleSelectSlot handles POST /api/matches/{matchID}/slots/{slotID}/select
func (s *Service) HandleSelectSlot(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(UserHeader)
	result, err := s.app.SelectSlot(r.Context(), userID, r.PathValue("matchID"), r.PathValue("slotID"))
	respond(w, result, err)
}

// HandleSetInviteMode handles POST /api/workflow/invite/mode
func (s *Service) HandleSetInviteMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := s.app.SetInviteMode(r.Context(), r.Header.Get(UserHeader), req.Mode)
	respond(w, result, err)
}

// HandleSelectFriend handles POST /api/workflow/invite/friend
func (s *Service) HandleSelectFriend(w http.ResponseWriter, r *http.Request) {
	var req friendRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := s.app.SelectFriend(r.Context(), r.Header.Get(UserHeader), req.FriendID)
	respond(w, result, err)
}

// HandleSetContact handles POST /api/workflow/invite/contact
func (s *Service) HandleSetContact(w http.ResponseWriter, r *http.Request) {
	var req invitation.Contact
	if !decode(w, r, &req) {
		return
	}
	result, err := s.app.SetContact(r.Context(), r.Header.Get(UserHeader), req)
	respond(w, result, err)
}

func (s *Service) action(fn func(ctx context.Context, userID string) (*Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := fn(r.Context(), r.Header.Get(UserHeader))
		respond(w, result, err)
	}
}

func respond(w http.ResponseWriter, result *Result, err error) {
	if err != nil {
		writeError(w, err, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// StatusFor maps a session error to its HTTP status
func StatusFor(err error) int {
	var unknownFormat *formation.UnknownFormatError
	switch {
	case errors.Is(err, ErrUserRequired):
		return http.StatusUnauthorized
	case errors.Is(err, reservation.ErrInsufficientCredits):
		return http.StatusPaymentRequired
	case errors.Is(err, reservation.ErrSlotUnavailable),
		errors.Is(err, reservation.ErrNotReserved),
		errors.Is(err, workflow.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, reservation.ErrNotAuthorized):
		return http.StatusForbidden
	case invitation.IsValidation(err),
		errors.Is(err, reservation.ErrInvalidOccupant),
		errors.As(err, &unknownFormat):
		return http.StatusUnprocessableEntity
	case errors.Is(err, reservation.ErrSlotNotFound),
		errors.Is(err, reservation.ErrMatchNotLoaded),
		errors.Is(err, models.ErrMatchNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error, result *Result) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("session request failed")
		message = "internal error"
	}
	writeJSON(w, status, ErrorResponse{Error: message, Result: result})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
