// Package pdftext reads the embedded text layer of PDF result documents.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"

	"vtuportal/internal/port"
)

type loader struct{}

// New returns a TextExtractor backed by the langchaingo PDF loader.
// Scanned documents with no text layer yield empty text, not an error.
func New() port.TextExtractor {
	return loader{}
}

func (loader) ExtractText(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("pdftext: empty document")
	}

	docs, err := documentloaders.NewPDF(bytes.NewReader(data), int64(len(data))).Load(ctx)
	if err != nil {
		return "", fmt.Errorf("pdftext: loading pdf: %w", err)
	}

	var b strings.Builder
	for _, doc := range docs {
		b.WriteString(doc.PageContent)
		b.WriteString("\n")
	}
	return b.String(), nil
}
