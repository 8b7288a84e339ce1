// Package memory is an in-process vector store with brute-force cosine
// similarity. It backs tests and local development where no Pinecone
// index is available.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/Rrens/doc-chat/internal/vectorstore"
)

type entry struct {
	values   []float32
	metadata vectorstore.Metadata
}

// Store keeps one id-keyed map per namespace.
type Store struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]entry
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{namespaces: make(map[string]map[string]entry)}
}

func (s *Store) Upsert(ctx context.Context, namespace string, vectors []vectorstore.Vector) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		ns = make(map[string]entry, len(vectors))
		s.namespaces[namespace] = ns
	}
	for _, v := range vectors {
		values := make([]float32, len(v.Values))
		copy(values, v.Values)
		ns[v.ID] = entry{values: values, metadata: v.Metadata}
	}
	return nil
}

func (s *Store) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]vectorstore.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ns := s.namespaces[namespace]
	if len(ns) == 0 || topK <= 0 {
		return nil, nil
	}

	matches := make([]vectorstore.Match, 0, len(ns))
	for _, e := range ns {
		matches = append(matches, vectorstore.Match{
			Metadata: e.metadata,
			Score:    cosine(vector, e.values),
		})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (s *Store) DeleteNamespace(ctx context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.namespaces, namespace)
	return nil
}

// Count returns the number of vectors in a namespace.
func (s *Store) Count(namespace string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.namespaces[namespace])
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
