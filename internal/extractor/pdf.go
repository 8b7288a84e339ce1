package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFStrategy extracts text from PDF bytes page by page.
type PDFStrategy struct{}

func (s *PDFStrategy) Name() string { return "pdf" }

func (s *PDFStrategy) Extract(data []byte, filename string) (text string, err error) {
	// The pdf package panics on some malformed cross-reference tables;
	// a broken upload must surface as a strategy failure, not a crash.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d: %w", i, err)
		}
		b.WriteString(content)
		b.WriteString("\n\n")
	}

	return b.String(), nil
}
