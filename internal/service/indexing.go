package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/doc-chat/internal/chunker"
	"github.com/Rrens/doc-chat/internal/embedding"
	"github.com/Rrens/doc-chat/internal/extractor"
	"github.com/Rrens/doc-chat/internal/vectorstore"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DelayPolicy decides how long to pause between embedding batches.
// The pause is a throttling measure for external rate limits, not a
// correctness requirement; tests inject a zero-delay policy.
type DelayPolicy interface {
	Wait(ctx context.Context, batch int) error
}

// FixedDelay pauses the same duration after every batch.
type FixedDelay time.Duration

func (d FixedDelay) Wait(ctx context.Context, batch int) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(time.Duration(d)):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IndexingService builds a session's vector namespace from one
// uploaded document.
type IndexingService struct {
	extractor *extractor.Extractor
	chunker   *chunker.Chunker
	embedder  embedding.Embedder
	store     vectorstore.Store
	batchSize int
	delay     DelayPolicy
}

// NewIndexingService creates a new indexing service
func NewIndexingService(
	ex *extractor.Extractor,
	ch *chunker.Chunker,
	embedder embedding.Embedder,
	store vectorstore.Store,
	batchSize int,
	delay DelayPolicy,
) *IndexingService {
	if batchSize <= 0 {
		batchSize = 20
	}
	if delay == nil {
		delay = FixedDelay(0)
	}
	return &IndexingService{
		extractor: ex,
		chunker:   ch,
		embedder:  embedder,
		store:     store,
		batchSize: batchSize,
		delay:     delay,
	}
}

// Index extracts, chunks, embeds and upserts one document into the
// session's namespace. Embeddings run concurrently within a batch;
// batches are strictly sequential. Any embed or upsert failure aborts
// the whole run with an *IndexingError; a retry with the same session
// id overwrites the partial namespace because chunk ids are
// deterministic (<sessionID>-chunk-<n>).
func (s *IndexingService) Index(ctx context.Context, data []byte, filename string, sessionID uuid.UUID) (int, error) {
	namespace := sessionID.String()

	text := s.extractor.Extract(data, filename)
	chunks := s.chunker.Split(text)

	log.Info().
		Str("session_id", namespace).
		Str("filename", filename).
		Int("chars", len(text)).
		Int("chunks", len(chunks)).
		Msg("indexing document")

	totalBatches := (len(chunks) + s.batchSize - 1) / s.batchSize
	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]
		batchNum := start/s.batchSize + 1

		vectors := make([]vectorstore.Vector, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		for j, chunkText := range batch {
			j, chunkText := j, chunkText
			g.Go(func() error {
				values, err := s.embedder.Embed(gctx, chunkText)
				if err != nil {
					return err
				}
				vectors[j] = vectorstore.Vector{
					ID:     fmt.Sprintf("%s-chunk-%d", namespace, start+j),
					Values: values,
					Metadata: vectorstore.Metadata{
						Text:       chunkText,
						SessionID:  namespace,
						ChunkIndex: start + j,
						Source:     filename,
					},
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return 0, &IndexingError{Err: err}
		}

		if err := s.store.Upsert(ctx, namespace, vectors); err != nil {
			return 0, &IndexingError{Err: err}
		}

		log.Debug().
			Str("session_id", namespace).
			Int("batch", batchNum).
			Int("total_batches", totalBatches).
			Msg("batch indexed")

		if end < len(chunks) {
			if err := s.delay.Wait(ctx, batchNum); err != nil {
				return 0, &IndexingError{Err: err}
			}
		}
	}

	log.Info().
		Str("session_id", namespace).
		Int("chunks", len(chunks)).
		Msg("document indexed")

	return len(chunks), nil
}
