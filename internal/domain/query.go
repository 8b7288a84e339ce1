package domain

import "github.com/google/uuid"

// AnswerStatus is the terminal state of a single question's pipeline.
type AnswerStatus string

const (
	// StatusAnswered means the generator produced a grounded answer.
	StatusAnswered AnswerStatus = "answered"
	// StatusDegraded means the generator was rate limited and the answer
	// contains raw retrieved context instead of a synthesized response.
	StatusDegraded AnswerStatus = "degraded"
	// StatusNoContext means retrieval found nothing usable and the
	// generator was never invoked.
	StatusNoContext AnswerStatus = "no_context"
)

// QueryRequest represents a question against an indexed document
type QueryRequest struct {
	Question string `json:"question" validate:"required,max=2000"`
}

// QueryResponse represents the outcome of a single question
type QueryResponse struct {
	SessionID uuid.UUID      `json:"session_id"`
	Question  string         `json:"question"`
	Answer    string         `json:"answer"`
	Status    AnswerStatus   `json:"status"`
	Metadata  *QueryMetadata `json:"metadata,omitempty"`
}

// QueryMetadata contains per-question execution details
type QueryMetadata struct {
	RewrittenQuestion string `json:"rewritten_question,omitempty"`
	RetrievedChunks   int    `json:"retrieved_chunks"`
	ContextChars      int    `json:"context_chars"`
	ExecutionTimeMs   int64  `json:"execution_time_ms"`
}
