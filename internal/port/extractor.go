package port

import (
	"context"

	"aria/internal/domain"
)

// ExtractInput carries the document handed to the inference provider.
type ExtractInput struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ExtractOutput contains the validated report and provenance of one extraction.
type ExtractOutput struct {
	Report    domain.ExtractionReport
	RawText   string
	ModelUsed string
}

// Extractor abstracts LLM-based structured extraction.
type Extractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
