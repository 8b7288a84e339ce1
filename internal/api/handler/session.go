package handler

import (
	"errors"
	"net/http"

	"github.com/Rrens/doc-chat/internal/api/middleware"
	"github.com/Rrens/doc-chat/internal/api/response"
	"github.com/Rrens/doc-chat/internal/domain"
	"github.com/Rrens/doc-chat/internal/service"
)

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Get returns session details
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		response.BadRequest(w, "missing session ID")
		return
	}

	session, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			response.NotFound(w, "session not found")
			return
		}
		response.InternalError(w, "failed to get session")
		return
	}

	response.OK(w, session)
}

// History returns the full conversation history for a session
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		response.BadRequest(w, "missing session ID")
		return
	}

	history, err := h.sessions.History(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			response.NotFound(w, "session not found")
			return
		}
		response.InternalError(w, "failed to get history")
		return
	}

	if history == nil {
		history = []domain.Message{}
	}
	response.OK(w, map[string]any{
		"session_id": sessionID,
		"messages":   history,
	})
}

// Delete clears the session: its vectors, history and record. Deleting
// an unknown session succeeds.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		response.BadRequest(w, "missing session ID")
		return
	}

	if err := h.sessions.ClearSession(r.Context(), sessionID); err != nil {
		response.InternalError(w, "failed to clear session")
		return
	}

	response.OK(w, map[string]string{
		"message": "session cleared",
	})
}
