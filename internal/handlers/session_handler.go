package handlers

import (
	"net/http"
	"time"

	"codespark/internal/service"
)

// SessionHandler serves session and health endpoints
type SessionHandler struct {
	progress   *service.ProgressService
	middleware *Middleware
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(progress *service.ProgressService, middleware *Middleware) *SessionHandler {
	return &SessionHandler{progress: progress, middleware: middleware}
}

type sessionResponse struct {
	Handle    string `json:"handle"`
	CSRFToken string `json:"csrfToken,omitempty"`
}

// Session returns the learner's handle and, when enabled, the CSRF token for POST requests
func (h *SessionHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, _ := GetSessionFromContext(r.Context())

	handle, err := h.progress.Session(r.Context(), session.Learner())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load session", err)
		return
	}

	token, err := h.middleware.CSRFToken(session.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to generate CSRF token", err)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{Handle: handle, CSRFToken: token})
}

// Health reports that the API is up
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
