package handler

import (
	"io"
	"net/http"

	"github.com/Rrens/doc-chat/internal/api/response"
	"github.com/Rrens/doc-chat/internal/domain"
	"github.com/Rrens/doc-chat/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// UploadHandler handles document upload endpoints
type UploadHandler struct {
	indexing  *service.IndexingService
	sessions  *service.SessionService
	maxUpload int64
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(indexing *service.IndexingService, sessions *service.SessionService, maxUpload int64) *UploadHandler {
	return &UploadHandler{
		indexing:  indexing,
		sessions:  sessions,
		maxUpload: maxUpload,
	}
}

// Upload accepts one document, indexes it and opens a fresh session.
// The multipart field is named "pdf" although plain text uploads are
// accepted too.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		response.BadRequest(w, "file too large or malformed form")
		return
	}

	file, header, err := r.FormFile("pdf")
	if err != nil {
		response.BadRequest(w, "no file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.InternalError(w, "failed to read uploaded file")
		return
	}

	sessionID := uuid.New()

	chunkCount, err := h.indexing.Index(r.Context(), data, header.Filename, sessionID)
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("indexing failed")
		response.InternalError(w, "failed to process PDF: "+err.Error())
		return
	}

	if _, err := h.sessions.Create(r.Context(), sessionID, header.Filename, chunkCount); err != nil {
		log.Error().Err(err).Str("session_id", sessionID.String()).Msg("failed to persist session")
		response.InternalError(w, "failed to create session")
		return
	}

	response.Created(w, domain.UploadResult{
		SessionID:  sessionID.String(),
		Filename:   header.Filename,
		ChunkCount: chunkCount,
	})
}
