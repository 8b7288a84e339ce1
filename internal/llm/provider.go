package llm

import "context"

// Role tags a message in a generation request.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one role-tagged turn sent to the generation model.
type Message struct {
	Role Role
	Text string
}

// Request contains generation parameters. The system instruction
// carries the grounding context; Messages carry the conversation.
type Request struct {
	System   string
	Messages []Message
}

// Response contains a generation result
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for generation model providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Generate produces text for the request. Quota and rate-limit
	// failures are returned as *QuotaError; everything else is an
	// ordinary error.
	Generate(ctx context.Context, req Request, model string) (*Response, error)
}
