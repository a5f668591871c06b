package providers

import "context"

// ExtractionProvider defines the interface to the OCR/text-extraction
// service. The storage key identifies the uploaded object to extract.
type ExtractionProvider interface {
	Extract(ctx context.Context, storageKey string) (string, error)
}
