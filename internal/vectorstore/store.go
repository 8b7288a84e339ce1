// Package vectorstore defines the session-partitioned vector index
// boundary. Every vector lives in exactly one namespace, keyed by the
// session id; queries never cross namespaces.
package vectorstore

import "context"

// Metadata travels with every vector and comes back on query matches.
// JSON keys match the wire format used by the index.
type Metadata struct {
	Text       string `json:"text"`
	SessionID  string `json:"sessionId"`
	ChunkIndex int    `json:"chunkIndex"`
	Source     string `json:"source"`
}

// Vector is one embedded chunk ready for upsert.
type Vector struct {
	ID       string    `json:"id"`
	Values   []float32 `json:"values"`
	Metadata Metadata  `json:"metadata"`
}

// Match is a query hit, ordered by descending similarity.
type Match struct {
	Metadata Metadata `json:"metadata"`
	Score    float64  `json:"score"`
}

// Store is the vector index contract.
//
// Upsert is idempotent by vector id within a namespace. Query against
// an empty or unknown namespace returns an empty slice, not an error.
// DeleteNamespace is idempotent: deleting a missing namespace succeeds.
type Store interface {
	Upsert(ctx context.Context, namespace string, vectors []Vector) error
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]Match, error)
	DeleteNamespace(ctx context.Context, namespace string) error
}

// IndexError wraps transport/auth failures from the backing store.
// The store layer never swallows them.
type IndexError struct {
	Op  string
	Err error
}

func (e *IndexError) Error() string {
	return "vector index " + e.Op + " failed: " + e.Err.Error()
}

func (e *IndexError) Unwrap() error {
	return e.Err
}
