package extractor

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

// printableThreshold is the minimum fraction of printable runes for a
// byte stream to count as plain text.
const printableThreshold = 0.9

// PlainTextStrategy accepts uploads that are already readable text
// (txt, md and similar). It is the fallback when PDF parsing fails.
type PlainTextStrategy struct{}

func (s *PlainTextStrategy) Name() string { return "plaintext" }

func (s *PlainTextStrategy) Extract(data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty document")
	}
	if !utf8.Valid(data) {
		return "", errors.New("not valid UTF-8 text")
	}

	text := string(data)
	printable := 0
	total := 0
	for _, r := range text {
		total++
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}
	if total == 0 || float64(printable)/float64(total) < printableThreshold {
		return "", errors.New("content does not look like text")
	}

	return text, nil
}
