package service

import (
	"context"
	"time"

	"github.com/Rrens/doc-chat/internal/domain"
	"github.com/Rrens/doc-chat/internal/llm"
	"github.com/Rrens/doc-chat/internal/vectorstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockEmbedder is a mock embedding.Embedder
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbedder) Model() string {
	args := m.Called()
	return args.String(0)
}

// MockStore is a mock vectorstore.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Upsert(ctx context.Context, namespace string, vectors []vectorstore.Vector) error {
	args := m.Called(ctx, namespace, vectors)
	return args.Error(0)
}

func (m *MockStore) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]vectorstore.Match, error) {
	args := m.Called(ctx, namespace, vector, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vectorstore.Match), args.Error(1)
}

func (m *MockStore) DeleteNamespace(ctx context.Context, namespace string) error {
	args := m.Called(ctx, namespace)
	return args.Error(0)
}

// MockProvider is a mock llm.Provider
type MockProvider struct {
	mock.Mock
	name       string
	configured bool
}

func newMockProvider() *MockProvider {
	return &MockProvider{name: "mock", configured: true}
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) DefaultModel() string {
	return "mock-model"
}

func (m *MockProvider) IsConfigured() bool {
	return m.configured
}

func (m *MockProvider) Generate(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	args := m.Called(ctx, req, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

// MockSessionRepo is a mock domain.SessionRepository
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, session *domain.ChatSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepo) Get(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepo) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockSessionRepo) ListIdle(ctx context.Context, lastActiveBefore time.Time) ([]domain.ChatSession, error) {
	args := m.Called(ctx, lastActiveBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMessageRepo is a mock domain.MessageRepository
type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepo) ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepo) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// staticStrategy always extracts the same text.
type staticStrategy struct {
	text string
}

func (s *staticStrategy) Name() string { return "static" }

func (s *staticStrategy) Extract(data []byte, filename string) (string, error) {
	return s.text, nil
}

func routerWith(p llm.Provider) *llm.Router {
	r := llm.NewRouter(p.Name())
	r.RegisterProvider(p)
	return r
}
