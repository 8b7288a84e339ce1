package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one turn in a session's conversation history. History is
// append-only: messages are never updated or reordered once written.
type Message struct {
	ID        uuid.UUID   `json:"id"`
	SessionID uuid.UUID   `json:"session_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// MessageRepository defines the interface for conversation history
// storage. Deliberately append-only plus bulk delete.
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	// ListBySession returns up to limit most recent messages in
	// chronological order. limit <= 0 means no limit.
	ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]Message, error)
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) error
}
