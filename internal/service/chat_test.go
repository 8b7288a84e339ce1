package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Rrens/doc-chat/internal/domain"
	"github.com/Rrens/doc-chat/internal/llm"
	"github.com/Rrens/doc-chat/internal/vectorstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	embedder    *MockEmbedder
	store       *MockStore
	provider    *MockProvider
	sessionRepo *MockSessionRepo
	messageRepo *MockMessageRepo
	svc         *ChatService
	sessionID   uuid.UUID
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	f := &chatFixture{
		embedder:    new(MockEmbedder),
		store:       new(MockStore),
		provider:    newMockProvider(),
		sessionRepo: new(MockSessionRepo),
		messageRepo: new(MockMessageRepo),
		sessionID:   uuid.New(),
	}
	router := routerWith(f.provider)
	rewriter := NewQueryRewriter(router, "", 6)
	retriever := NewRetriever(f.embedder, f.store, 10)
	f.svc = NewChatService(rewriter, retriever, router, "", f.sessionRepo, f.messageRepo, 6, 1500)

	f.sessionRepo.On("Get", mock.Anything, f.sessionID).Return(&domain.ChatSession{
		ID:         f.sessionID,
		Filename:   "doc.pdf",
		ChunkCount: 3,
		CreatedAt:  time.Now(),
		LastActive: time.Now(),
	}, nil)
	return f
}

func (f *chatFixture) withHistory(history []domain.Message) {
	f.messageRepo.On("ListBySession", mock.Anything, f.sessionID, 6).Return(history, nil)
}

func (f *chatFixture) allowPersistence() {
	f.messageRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.sessionRepo.On("Touch", mock.Anything, f.sessionID, mock.Anything).Return(nil)
}

func matchesOf(texts ...string) []vectorstore.Match {
	out := make([]vectorstore.Match, len(texts))
	for i, text := range texts {
		out[i] = vectorstore.Match{
			Metadata: vectorstore.Metadata{Text: text, ChunkIndex: i},
			Score:    1.0 - float64(i)*0.1,
		}
	}
	return out
}

func TestAsk_UnknownSession(t *testing.T) {
	f := newChatFixture(t)
	missing := uuid.New()
	f.sessionRepo.On("Get", mock.Anything, missing).Return(nil, domain.ErrSessionNotFound)

	_, err := f.svc.Ask(context.Background(), missing, "anything")

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAsk_NoMatchesReturnsCannedAnswer(t *testing.T) {
	f := newChatFixture(t)
	f.withHistory(nil)
	f.allowPersistence()

	f.embedder.On("Embed", mock.Anything, "what is this about?").Return([]float32{0.1}, nil)
	f.store.On("Query", mock.Anything, f.sessionID.String(), mock.Anything, 10).
		Return([]vectorstore.Match{}, nil)

	resp, err := f.svc.Ask(context.Background(), f.sessionID, "what is this about?")
	require.NoError(t, err)

	assert.Equal(t, NoRelevantContentAnswer, resp.Answer)
	assert.Equal(t, domain.StatusNoContext, resp.Status)
	assert.Zero(t, resp.Metadata.RetrievedChunks)
	f.provider.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAsk_EmptyChunkTextsReturnUnreadableAnswer(t *testing.T) {
	f := newChatFixture(t)
	f.withHistory(nil)
	f.allowPersistence()

	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.store.On("Query", mock.Anything, f.sessionID.String(), mock.Anything, 10).
		Return(matchesOf("", ""), nil)

	resp, err := f.svc.Ask(context.Background(), f.sessionID, "question")
	require.NoError(t, err)

	assert.Equal(t, UnreadableContextAnswer, resp.Answer)
	assert.Equal(t, domain.StatusNoContext, resp.Status)
	f.provider.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAsk_AnswersWithGroundedContext(t *testing.T) {
	f := newChatFixture(t)
	f.withHistory(nil)
	f.allowPersistence()

	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.store.On("Query", mock.Anything, f.sessionID.String(), mock.Anything, 10).
		Return(matchesOf("chunk one", "chunk two"), nil)
	f.provider.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(&llm.Response{Text: "The document says X."}, nil)

	resp, err := f.svc.Ask(context.Background(), f.sessionID, "question")
	require.NoError(t, err)

	assert.Equal(t, "The document says X.", resp.Answer)
	assert.Equal(t, domain.StatusAnswered, resp.Status)
	assert.Equal(t, 2, resp.Metadata.RetrievedChunks)

	req := f.provider.Calls[0].Arguments.Get(1).(llm.Request)
	assert.Contains(t, req.System, "chunk one"+ContextDelimiter+"chunk two")
}

func TestAsk_QuotaExceededDegradesToRawContext(t *testing.T) {
	f := newChatFixture(t)
	f.withHistory(nil)
	f.allowPersistence()

	longChunk := strings.Repeat("z", 3000)
	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.store.On("Query", mock.Anything, f.sessionID.String(), mock.Anything, 10).
		Return(matchesOf(longChunk), nil)
	f.provider.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &llm.QuotaError{Err: errors.New("429 too many requests")})

	resp, err := f.svc.Ask(context.Background(), f.sessionID, "question")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusDegraded, resp.Status)
	assert.Contains(t, resp.Answer, "rate limits")
	assert.Contains(t, resp.Answer, strings.Repeat("z", 1500))
	assert.NotContains(t, resp.Answer, strings.Repeat("z", 1501))
}

func TestAsk_GenerationFailureLeavesHistoryUntouched(t *testing.T) {
	f := newChatFixture(t)
	f.withHistory(nil)

	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.store.On("Query", mock.Anything, f.sessionID.String(), mock.Anything, 10).
		Return(matchesOf("some chunk"), nil)
	f.provider.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("model exploded"))

	_, err := f.svc.Ask(context.Background(), f.sessionID, "question")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	f.messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.sessionRepo.AssertNotCalled(t, "Touch", mock.Anything, mock.Anything, mock.Anything)
}

func TestAsk_FollowUpIsRewrittenWithHistory(t *testing.T) {
	f := newChatFixture(t)
	f.allowPersistence()

	history := []domain.Message{
		{Role: domain.RoleUser, Content: "what is the warranty period?"},
		{Role: domain.RoleAssistant, Content: "Two years."},
	}
	f.withHistory(history)

	f.provider.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return strings.Contains(req.System, "what is the warranty period?")
	}), mock.Anything).Return(&llm.Response{Text: "does the two-year warranty cover batteries?"}, nil).Once()

	f.embedder.On("Embed", mock.Anything, "does the two-year warranty cover batteries?").
		Return([]float32{0.1}, nil)
	f.store.On("Query", mock.Anything, f.sessionID.String(), mock.Anything, 10).
		Return(matchesOf("battery warranty chunk"), nil)
	f.provider.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(&llm.Response{Text: "Yes, batteries are covered."}, nil)

	resp, err := f.svc.Ask(context.Background(), f.sessionID, "does it cover batteries?")
	require.NoError(t, err)

	assert.Equal(t, "Yes, batteries are covered.", resp.Answer)
	assert.Equal(t, "does the two-year warranty cover batteries?", resp.Metadata.RewrittenQuestion)
	assert.Equal(t, "does it cover batteries?", resp.Question)
}

func TestAsk_EmptyGenerationGetsFallbackText(t *testing.T) {
	f := newChatFixture(t)
	f.withHistory(nil)
	f.allowPersistence()

	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.store.On("Query", mock.Anything, f.sessionID.String(), mock.Anything, 10).
		Return(matchesOf("chunk"), nil)
	f.provider.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(&llm.Response{Text: "  "}, nil)

	resp, err := f.svc.Ask(context.Background(), f.sessionID, "question")
	require.NoError(t, err)

	assert.Equal(t, emptyGenerationAnswer, resp.Answer)
	assert.Equal(t, domain.StatusAnswered, resp.Status)
}

func TestBuildContext(t *testing.T) {
	results := []domain.SearchResult{
		{Text: "first"},
		{Text: ""},
		{Text: "second"},
	}

	assert.Equal(t, "first"+ContextDelimiter+"second", BuildContext(results))
	assert.Empty(t, BuildContext(nil))
}
