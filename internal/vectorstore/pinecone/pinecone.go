// Package pinecone is a minimal REST client for a Pinecone index,
// scoped to the namespace operations the pipeline needs.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/doc-chat/internal/vectorstore"
)

// Config holds connection settings for one Pinecone index.
type Config struct {
	// Host is the index endpoint, e.g.
	// https://my-index-abc123.svc.us-east-1.pinecone.io
	Host    string
	APIKey  string
	Timeout time.Duration
}

// Store implements vectorstore.Store against the Pinecone data plane.
type Store struct {
	host   string
	apiKey string
	client *http.Client
}

// New creates a Pinecone-backed store.
func New(cfg Config) (*Store, error) {
	if cfg.Host == "" {
		return nil, errors.New("pinecone host is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("pinecone API key is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Store{
		host:   strings.TrimRight(cfg.Host, "/"),
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type upsertRequest struct {
	Vectors   []vectorstore.Vector `json:"vectors"`
	Namespace string               `json:"namespace"`
}

func (s *Store) Upsert(ctx context.Context, namespace string, vectors []vectorstore.Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	body := upsertRequest{Vectors: vectors, Namespace: namespace}
	if err := s.postJSON(ctx, "/vectors/upsert", body, nil); err != nil {
		return &vectorstore.IndexError{Op: "upsert", Err: err}
	}
	return nil
}

type queryRequest struct {
	Namespace       string    `json:"namespace"`
	TopK            int       `json:"topK"`
	Vector          []float32 `json:"vector"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []struct {
		ID       string               `json:"id"`
		Score    float64              `json:"score"`
		Metadata vectorstore.Metadata `json:"metadata"`
	} `json:"matches"`
}

func (s *Store) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]vectorstore.Match, error) {
	body := queryRequest{
		Namespace:       namespace,
		TopK:            topK,
		Vector:          vector,
		IncludeMetadata: true,
	}

	var resp queryResponse
	if err := s.postJSON(ctx, "/query", body, &resp); err != nil {
		return nil, &vectorstore.IndexError{Op: "query", Err: err}
	}

	matches := make([]vectorstore.Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, vectorstore.Match{Metadata: m.Metadata, Score: m.Score})
	}
	return matches, nil
}

type deleteRequest struct {
	DeleteAll bool   `json:"deleteAll"`
	Namespace string `json:"namespace"`
}

func (s *Store) DeleteNamespace(ctx context.Context, namespace string) error {
	body := deleteRequest{DeleteAll: true, Namespace: namespace}
	err := s.postJSON(ctx, "/vectors/delete", body, nil)
	if err != nil {
		// Serverless indexes report 404 for namespaces that were never
		// written; the contract makes deletion idempotent.
		var httpErr *httpError
		if errors.As(err, &httpErr) && httpErr.status == http.StatusNotFound {
			return nil
		}
		return &vectorstore.IndexError{Op: "delete", Err: err}
	}
	return nil
}

type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.body)
}

func (s *Store) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.host+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("pinecone POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &httpError{status: resp.StatusCode, body: strings.TrimSpace(string(msg))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
