// Package embedding converts text into fixed-dimension vectors. The
// same embedder instance serves both the indexing and the query path so
// vectors stay comparable under the index's similarity metric.
package embedding

import "context"

// Embedder converts text into a numeric vector. Implementations must
// be deterministic for a given model version.
type Embedder interface {
	// Embed returns the embedding vector for text. Failures are
	// returned as *EmbeddingError.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Model returns the embedding model identifier.
	Model() string
}

// EmbeddingError wraps transport, auth and quota failures from the
// embedding endpoint.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return "embedding failed: " + e.Err.Error()
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}
