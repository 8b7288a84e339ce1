// Package extractor converts raw uploaded documents into plain text.
// Extraction strategies are tried in order; when all of them fail the
// extractor returns a fixed placeholder document instead of an error,
// so the indexing pipeline always has something to index.
package extractor

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// minMeaningfulRunes is the threshold below which extracted text is
// treated as an extraction failure rather than real content.
const minMeaningfulRunes = 10

// PlaceholderText is indexed when no strategy can extract text. It is a
// document whose content explains the failure, not an error.
const PlaceholderText = `This document could not be processed for text extraction. This might be because:
1. The document contains only images/scanned content
2. The document is password protected
3. The document has an unsupported format

Please try uploading a different file with selectable text content.`

// Strategy is one independent way of pulling text out of a document.
// A strategy fails by returning an error or too little text.
type Strategy interface {
	Name() string
	Extract(data []byte, filename string) (string, error)
}

// Extractor runs an ordered list of strategies.
type Extractor struct {
	strategies []Strategy
}

// New creates an Extractor trying the given strategies in order.
func New(strategies ...Strategy) *Extractor {
	return &Extractor{strategies: strategies}
}

// Default returns the production strategy chain: PDF first, then a
// plain-text sniff for non-PDF uploads.
func Default() *Extractor {
	return New(&PDFStrategy{}, &PlainTextStrategy{})
}

// Extract returns the first successful strategy's text, trimmed. It
// never fails: if every strategy fails, the placeholder text is
// returned so the caller indexes an honest description of the problem.
func (e *Extractor) Extract(data []byte, filename string) string {
	for _, s := range e.strategies {
		text, err := s.Extract(data, filename)
		if err != nil {
			log.Warn().
				Err(err).
				Str("strategy", s.Name()).
				Str("filename", filename).
				Msg("extraction strategy failed")
			continue
		}

		text = strings.TrimSpace(text)
		if utf8.RuneCountInString(text) < minMeaningfulRunes {
			log.Warn().
				Str("strategy", s.Name()).
				Str("filename", filename).
				Int("length", len(text)).
				Msg("extraction produced no meaningful text")
			continue
		}

		log.Info().
			Str("strategy", s.Name()).
			Str("filename", filename).
			Int("chars", len(text)).
			Msg("text extracted")
		return text
	}

	log.Warn().Str("filename", filename).Msg("all extraction strategies failed, indexing placeholder")
	return PlaceholderText
}
