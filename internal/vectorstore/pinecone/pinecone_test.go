package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/doc-chat/internal/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := New(Config{Host: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)
	return store
}

func TestNew_RequiresHostAndKey(t *testing.T) {
	_, err := New(Config{APIKey: "k"})
	assert.Error(t, err)

	_, err = New(Config{Host: "https://example.test"})
	assert.Error(t, err)
}

func TestUpsert_SendsNamespaceAndAuth(t *testing.T) {
	var gotPath, gotKey string
	var gotBody upsertRequest

	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("Api-Key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	})

	vectors := []vectorstore.Vector{
		{ID: "s-chunk-0", Values: []float32{0.1, 0.2}, Metadata: vectorstore.Metadata{Text: "hello"}},
	}
	err := store.Upsert(context.Background(), "session-ns", vectors)
	require.NoError(t, err)

	assert.Equal(t, "/vectors/upsert", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "session-ns", gotBody.Namespace)
	require.Len(t, gotBody.Vectors, 1)
	assert.Equal(t, "s-chunk-0", gotBody.Vectors[0].ID)
}

func TestUpsert_EmptyBatchIsNoop(t *testing.T) {
	called := false
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	require.NoError(t, store.Upsert(context.Background(), "ns", nil))
	assert.False(t, called)
}

func TestQuery_DecodesMatches(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)

		var req queryRequest
		json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "ns", req.Namespace)
		assert.Equal(t, 5, req.TopK)
		assert.True(t, req.IncludeMetadata)

		json.NewEncoder(w).Encode(map[string]any{
			"matches": []map[string]any{
				{"id": "a", "score": 0.9, "metadata": map[string]any{"text": "first", "chunkIndex": 0}},
				{"id": "b", "score": 0.7, "metadata": map[string]any{"text": "second", "chunkIndex": 3}},
			},
		})
	})

	matches, err := store.Query(context.Background(), "ns", []float32{0.5}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "first", matches[0].Metadata.Text)
	assert.InDelta(t, 0.9, matches[0].Score, 1e-9)
	assert.Equal(t, 3, matches[1].Metadata.ChunkIndex)
}

func TestQuery_ServerErrorWrapped(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := store.Query(context.Background(), "ns", []float32{0.5}, 5)

	var idxErr *vectorstore.IndexError
	require.ErrorAs(t, err, &idxErr)
	assert.Equal(t, "query", idxErr.Op)
}

func TestDeleteNamespace_MissingNamespaceIsIdempotent(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vectors/delete", r.URL.Path)
		http.Error(w, "namespace not found", http.StatusNotFound)
	})

	assert.NoError(t, store.DeleteNamespace(context.Background(), "never-written"))
}

func TestDeleteNamespace_OtherFailuresSurface(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	err := store.DeleteNamespace(context.Background(), "ns")

	var idxErr *vectorstore.IndexError
	require.ErrorAs(t, err, &idxErr)
}
