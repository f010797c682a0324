package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/careslot/backend/internal/domain/entities"
)

// SessionService defines the interface for the demo session flag
type SessionService interface {
	Login(ctx context.Context, email string, role entities.UserRole) (entities.CurrentUser, error)
	Current(ctx context.Context) (*entities.CurrentUser, error)
	Logout(ctx context.Context) error
}

// SessionHandler handles session requests
type SessionHandler struct {
	service SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service SessionService) *SessionHandler {
	return &SessionHandler{
		service: service,
	}
}

type loginRequest struct {
	Email string            `json:"email"`
	Role  entities.UserRole `json:"role"`
}

// Login handles POST /api/session
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.Email == "" {
		respondWithError(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Role != entities.RoleAdmin && req.Role != entities.RoleUser {
		respondWithError(w, http.StatusBadRequest, "role must be admin or user")
		return
	}

	user, err := h.service.Login(r.Context(), req.Email, req.Role)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

// Current handles GET /api/session
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Current(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// Logout handles DELETE /api/session
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		respondWithAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
