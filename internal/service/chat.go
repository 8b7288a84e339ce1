package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/doc-chat/internal/domain"
	"github.com/Rrens/doc-chat/internal/llm"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ContextDelimiter separates retrieved chunks inside the grounding
// context. It must not occur inside legitimate chunk text.
const ContextDelimiter = "\n\n--\n\n"

// Canned answers for short-circuit outcomes.
const (
	NoRelevantContentAnswer = "I couldn't find any relevant information in the uploaded document to answer your question."
	UnreadableContextAnswer = "I found some relevant sections, but couldn't extract readable text. Please try rephrasing your question."
	emptyGenerationAnswer   = "I apologize, but I couldn't generate a proper response. Please try asking your question differently."
)

const degradedAnswerFormat = `I found relevant information in your document, but I'm currently experiencing API rate limits. Here's the raw context I found:

%s...

Please try again in a few minutes, or check your API quota limits.`

// ChatService answers questions grounded in a session's indexed
// document. One question runs REWRITING → RETRIEVING → ASSEMBLING →
// GENERATING; history is appended only after the full round-trip.
type ChatService struct {
	rewriter      *QueryRewriter
	retriever     *Retriever
	providers     *llm.Router
	model         string
	sessionRepo   domain.SessionRepository
	messageRepo   domain.MessageRepository
	historyWindow int
	degradedLimit int
}

// NewChatService creates a new chat service
func NewChatService(
	rewriter *QueryRewriter,
	retriever *Retriever,
	providers *llm.Router,
	model string,
	sessionRepo domain.SessionRepository,
	messageRepo domain.MessageRepository,
	historyWindow int,
	degradedLimit int,
) *ChatService {
	if historyWindow <= 0 {
		historyWindow = 6
	}
	if degradedLimit <= 0 {
		degradedLimit = 1500
	}
	return &ChatService{
		rewriter:      rewriter,
		retriever:     retriever,
		providers:     providers,
		model:         model,
		sessionRepo:   sessionRepo,
		messageRepo:   messageRepo,
		historyWindow: historyWindow,
		degradedLimit: degradedLimit,
	}
}

// Ask answers one question against the session's document. Quota
// failures degrade into a raw-context answer; other generation
// failures surface as *GenerationError and leave history untouched.
func (s *ChatService) Ask(ctx context.Context, sessionID uuid.UUID, question string) (*domain.QueryResponse, error) {
	start := time.Now()

	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	history, err := s.messageRepo.ListBySession(ctx, sessionID, s.historyWindow)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID.String()).Msg("failed to fetch history, continuing without it")
		history = nil
	}

	standalone := s.rewriter.Rewrite(ctx, question, history)
	if standalone != question {
		log.Debug().
			Str("session_id", sessionID.String()).
			Str("rewritten", standalone).
			Msg("question rewritten")
	}

	results, err := s.retriever.Retrieve(ctx, standalone, session.Namespace(), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to process query: %w", err)
	}

	grounding := BuildContext(results)

	var answer string
	var status domain.AnswerStatus
	switch {
	case len(results) == 0:
		answer = NoRelevantContentAnswer
		status = domain.StatusNoContext
	case strings.TrimSpace(grounding) == "":
		answer = UnreadableContextAnswer
		status = domain.StatusNoContext
	default:
		answer, status, err = s.generate(ctx, standalone, grounding)
		if err != nil {
			return nil, err
		}
	}

	s.appendTurns(ctx, sessionID, question, answer)

	resp := &domain.QueryResponse{
		SessionID: sessionID,
		Question:  question,
		Answer:    answer,
		Status:    status,
		Metadata: &domain.QueryMetadata{
			RetrievedChunks: len(results),
			ContextChars:    len(grounding),
			ExecutionTimeMs: time.Since(start).Milliseconds(),
		},
	}
	if standalone != question {
		resp.Metadata.RewrittenQuestion = standalone
	}
	return resp, nil
}

// BuildContext joins non-empty result texts with the fixed delimiter,
// preserving the retriever's similarity-descending order.
func BuildContext(results []domain.SearchResult) string {
	texts := make([]string, 0, len(results))
	for _, r := range results {
		if r.Text != "" {
			texts = append(texts, r.Text)
		}
	}
	return strings.Join(texts, ContextDelimiter)
}

func (s *ChatService) generate(ctx context.Context, question, grounding string) (string, domain.AnswerStatus, error) {
	provider, err := s.providers.GetProvider("")
	if err != nil {
		return "", "", &GenerationError{Err: err}
	}

	req := llm.Request{
		System: llm.AnswerSystemInstruction(grounding),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Text: question},
		},
	}

	resp, err := provider.Generate(ctx, req, s.model)
	if err != nil {
		if llm.IsQuotaExceeded(err) {
			log.Warn().Err(err).Msg("generation quota exceeded, returning degraded answer")
			return s.degradedAnswer(grounding), domain.StatusDegraded, nil
		}
		return "", "", &GenerationError{Err: err}
	}

	answer := strings.TrimSpace(resp.Text)
	if answer == "" {
		answer = emptyGenerationAnswer
	}
	return answer, domain.StatusAnswered, nil
}

// degradedAnswer returns the raw evidence instead of a synthesized
// answer: a bounded prefix of the grounding context plus an
// explanation.
func (s *ChatService) degradedAnswer(grounding string) string {
	runes := []rune(grounding)
	if len(runes) > s.degradedLimit {
		runes = runes[:s.degradedLimit]
	}
	return fmt.Sprintf(degradedAnswerFormat, string(runes))
}

// appendTurns records the question/answer pair after the round-trip
// completes. Persistence failures are logged, not surfaced: the user
// already has their answer.
func (s *ChatService) appendTurns(ctx context.Context, sessionID uuid.UUID, question, answer string) {
	now := time.Now()

	userMsg := &domain.Message{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   question,
		CreatedAt: now,
	}
	if err := s.messageRepo.Create(ctx, userMsg); err != nil {
		log.Error().Err(err).Msg("failed to save user message")
	}

	assistantMsg := &domain.Message{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   answer,
		CreatedAt: now.Add(time.Millisecond),
	}
	if err := s.messageRepo.Create(ctx, assistantMsg); err != nil {
		log.Error().Err(err).Msg("failed to save assistant message")
	}

	if err := s.sessionRepo.Touch(ctx, sessionID, now); err != nil {
		log.Error().Err(err).Msg("failed to update session activity")
	}
}
