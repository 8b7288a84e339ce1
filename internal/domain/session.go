package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session id has no backing row,
// either because the document was never indexed or the session expired.
var ErrSessionNotFound = errors.New("session not found")

// ChatSession ties one uploaded document to one vector-index namespace.
// The namespace key is the session id string; the session exists from
// successful indexing until explicit reset or idle expiry.
type ChatSession struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// Namespace returns the vector-index namespace for this session.
func (s *ChatSession) Namespace() string {
	return s.ID.String()
}

// SessionRepository defines the interface for session storage
type SessionRepository interface {
	Create(ctx context.Context, session *ChatSession) error
	Get(ctx context.Context, id uuid.UUID) (*ChatSession, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	ListIdle(ctx context.Context, lastActiveBefore time.Time) ([]ChatSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
