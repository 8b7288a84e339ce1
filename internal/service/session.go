package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/doc-chat/internal/domain"
	"github.com/Rrens/doc-chat/internal/vectorstore"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SessionService owns session lifecycle: creation after indexing,
// history access, and teardown of all session-scoped resources.
type SessionService struct {
	store       vectorstore.Store
	sessionRepo domain.SessionRepository
	messageRepo domain.MessageRepository
	ttl         time.Duration
	interval    time.Duration
}

// NewSessionService creates a new session service
func NewSessionService(
	store vectorstore.Store,
	sessionRepo domain.SessionRepository,
	messageRepo domain.MessageRepository,
	ttl time.Duration,
	interval time.Duration,
) *SessionService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SessionService{
		store:       store,
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		ttl:         ttl,
		interval:    interval,
	}
}

// Create records a session for a freshly indexed document.
func (s *SessionService) Create(ctx context.Context, id uuid.UUID, filename string, chunkCount int) (*domain.ChatSession, error) {
	now := time.Now()
	session := &domain.ChatSession{
		ID:         id,
		Filename:   filename,
		ChunkCount: chunkCount,
		CreatedAt:  now,
		LastActive: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Get retrieves a session.
func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error) {
	return s.sessionRepo.Get(ctx, id)
}

// History returns the full conversation history in order.
func (s *SessionService) History(ctx context.Context, id uuid.UUID) ([]domain.Message, error) {
	if _, err := s.sessionRepo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.messageRepo.ListBySession(ctx, id, 0)
}

// ClearSession releases everything a session owns: its vector
// namespace first, then history and the session row. It is the single
// entry point for teardown and is safe to call repeatedly.
func (s *SessionService) ClearSession(ctx context.Context, id uuid.UUID) error {
	namespace := id.String()

	if err := s.store.DeleteNamespace(ctx, namespace); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", namespace, err)
	}
	if err := s.messageRepo.DeleteBySession(ctx, id); err != nil {
		return fmt.Errorf("failed to clear session %s history: %w", namespace, err)
	}
	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", namespace, err)
	}

	log.Info().Str("session_id", namespace).Msg("session cleared")
	return nil
}

// StartJanitor sweeps idle sessions until ctx is cancelled. Each
// expired session goes through ClearSession so the vector namespace is
// released with the rows.
func (s *SessionService) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

func (s *SessionService) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.ttl)
	idle, err := s.sessionRepo.ListIdle(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("janitor: failed to list idle sessions")
		return
	}

	for _, session := range idle {
		if err := s.ClearSession(ctx, session.ID); err != nil {
			log.Error().Err(err).Str("session_id", session.ID.String()).Msg("janitor: failed to clear session")
		}
	}

	if len(idle) > 0 {
		log.Info().Int("cleared", len(idle)).Msg("janitor: swept idle sessions")
	}
}
