package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rrens/doc-chat/internal/domain"
	"github.com/Rrens/doc-chat/internal/vectorstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSessionFixture() (*MockStore, *MockSessionRepo, *MockMessageRepo, *SessionService) {
	store := new(MockStore)
	sessionRepo := new(MockSessionRepo)
	messageRepo := new(MockMessageRepo)
	svc := NewSessionService(store, sessionRepo, messageRepo, 30*time.Minute, 5*time.Minute)
	return store, sessionRepo, messageRepo, svc
}

func TestClearSession_ReleasesNamespaceBeforeRows(t *testing.T) {
	store, sessionRepo, messageRepo, svc := newSessionFixture()
	id := uuid.New()

	var order []string
	store.On("DeleteNamespace", mock.Anything, id.String()).
		Run(func(mock.Arguments) { order = append(order, "namespace") }).Return(nil)
	messageRepo.On("DeleteBySession", mock.Anything, id).
		Run(func(mock.Arguments) { order = append(order, "messages") }).Return(nil)
	sessionRepo.On("Delete", mock.Anything, id).
		Run(func(mock.Arguments) { order = append(order, "session") }).Return(nil)

	err := svc.ClearSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"namespace", "messages", "session"}, order)
}

func TestClearSession_NamespaceFailureStopsTeardown(t *testing.T) {
	store, sessionRepo, messageRepo, svc := newSessionFixture()
	id := uuid.New()

	store.On("DeleteNamespace", mock.Anything, id.String()).
		Return(&vectorstore.IndexError{Op: "delete", Err: errors.New("unreachable")})

	err := svc.ClearSession(context.Background(), id)
	require.Error(t, err)

	messageRepo.AssertNotCalled(t, "DeleteBySession", mock.Anything, mock.Anything)
	sessionRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestClearSession_Idempotent(t *testing.T) {
	store, sessionRepo, messageRepo, svc := newSessionFixture()
	id := uuid.New()

	store.On("DeleteNamespace", mock.Anything, id.String()).Return(nil)
	messageRepo.On("DeleteBySession", mock.Anything, id).Return(nil)
	sessionRepo.On("Delete", mock.Anything, id).Return(nil)

	require.NoError(t, svc.ClearSession(context.Background(), id))
	require.NoError(t, svc.ClearSession(context.Background(), id))
}

func TestHistory_UnknownSession(t *testing.T) {
	_, sessionRepo, _, svc := newSessionFixture()
	id := uuid.New()

	sessionRepo.On("Get", mock.Anything, id).Return(nil, domain.ErrSessionNotFound)

	_, err := svc.History(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestHistory_ReturnsAllMessages(t *testing.T) {
	_, sessionRepo, messageRepo, svc := newSessionFixture()
	id := uuid.New()

	sessionRepo.On("Get", mock.Anything, id).Return(&domain.ChatSession{ID: id}, nil)
	messageRepo.On("ListBySession", mock.Anything, id, 0).Return([]domain.Message{
		{Role: domain.RoleUser, Content: "q"},
		{Role: domain.RoleAssistant, Content: "a"},
	}, nil)

	history, err := svc.History(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSweep_ClearsIdleSessions(t *testing.T) {
	store, sessionRepo, messageRepo, svc := newSessionFixture()
	idle := domain.ChatSession{ID: uuid.New()}

	sessionRepo.On("ListIdle", mock.Anything, mock.Anything).
		Return([]domain.ChatSession{idle}, nil)
	store.On("DeleteNamespace", mock.Anything, idle.ID.String()).Return(nil)
	messageRepo.On("DeleteBySession", mock.Anything, idle.ID).Return(nil)
	sessionRepo.On("Delete", mock.Anything, idle.ID).Return(nil)

	svc.sweep(context.Background())

	store.AssertCalled(t, "DeleteNamespace", mock.Anything, idle.ID.String())
	sessionRepo.AssertCalled(t, "Delete", mock.Anything, idle.ID)
}
