package service

import (
	"context"

	"github.com/Rrens/doc-chat/internal/domain"
	"github.com/Rrens/doc-chat/internal/embedding"
	"github.com/Rrens/doc-chat/internal/vectorstore"
)

// Retriever embeds a standalone question and runs a top-K similarity
// query against the session's namespace.
type Retriever struct {
	embedder embedding.Embedder
	store    vectorstore.Store
	topK     int
}

// NewRetriever creates a retriever with a default top-K.
func NewRetriever(embedder embedding.Embedder, store vectorstore.Store, topK int) *Retriever {
	if topK <= 0 {
		topK = 10
	}
	return &Retriever{embedder: embedder, store: store, topK: topK}
}

// Retrieve returns matching chunks in descending similarity order. An
// empty result is a valid outcome, not an error.
func (r *Retriever) Retrieve(ctx context.Context, question, namespace string, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = r.topK
	}

	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	matches, err := r.store.Query(ctx, namespace, vector, topK)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, domain.SearchResult{
			Text:       m.Metadata.Text,
			SessionID:  m.Metadata.SessionID,
			ChunkIndex: m.Metadata.ChunkIndex,
			Source:     m.Metadata.Source,
			Score:      m.Score,
		})
	}
	return results, nil
}
