package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rrens/doc-chat/internal/domain"
	"github.com/Rrens/doc-chat/internal/llm"
	"github.com/rs/zerolog/log"
)

// QueryRewriter turns follow-up questions into standalone ones using
// recent conversation turns. Rewriting is best-effort: any failure
// falls back to the original question.
type QueryRewriter struct {
	providers *llm.Router
	model     string
	window    int
}

// NewQueryRewriter creates a rewriter with a bounded history window
// (number of turns, not exchanges).
func NewQueryRewriter(providers *llm.Router, model string, window int) *QueryRewriter {
	if window <= 0 {
		window = 6
	}
	return &QueryRewriter{providers: providers, model: model, window: window}
}

// Rewrite returns a self-contained version of question. With no
// history it returns the question unchanged without any network call.
func (r *QueryRewriter) Rewrite(ctx context.Context, question string, history []domain.Message) string {
	if len(history) == 0 {
		return question
	}

	if len(history) > r.window {
		history = history[len(history)-r.window:]
	}

	provider, err := r.providers.GetProvider("")
	if err != nil {
		log.Warn().Err(err).Msg("query rewrite skipped: no provider")
		return question
	}

	req := llm.Request{
		System: llm.RewriteSystemInstruction(formatHistory(history)),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Text: question},
		},
	}

	resp, err := provider.Generate(ctx, req, r.model)
	if err != nil {
		log.Warn().Err(err).Msg("query rewrite failed, using original question")
		return question
	}

	rewritten := strings.TrimSpace(resp.Text)
	if rewritten == "" {
		return question
	}
	return rewritten
}

func formatHistory(history []domain.Message) string {
	var b strings.Builder
	for i, m := range history {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", m.Role, m.Content)
	}
	return b.String()
}
