package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rrens/doc-chat/internal/api/middleware"
	"github.com/Rrens/doc-chat/internal/api/response"
	"github.com/Rrens/doc-chat/internal/domain"
	"github.com/Rrens/doc-chat/internal/service"
)

// QueryHandler handles question endpoints
type QueryHandler struct {
	chat *service.ChatService
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(chat *service.ChatService) *QueryHandler {
	return &QueryHandler{chat: chat}
}

// Ask answers one question against the session's document
func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		response.BadRequest(w, "missing session ID")
		return
	}

	var req domain.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.chat.Ask(r.Context(), sessionID, req.Question)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			response.NotFound(w, "session not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, result)
}
