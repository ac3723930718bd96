package port

import "context"

// TextExtractor returns the concatenated text layer of a document, one page
// after another separated by newlines. It performs no OCR.
type TextExtractor interface {
	ExtractText(ctx context.Context, document []byte) (string, error)
}
