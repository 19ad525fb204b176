package port

import (
	"context"
	"iter"

	"aria/internal/domain"
)

// DocumentDecoder turns submitted bytes into a single-use sequence of raster pages.
type DocumentDecoder interface {
	Decode(ctx context.Context, data []byte, contentType string) (iter.Seq[domain.RasterPage], error)
}

// CodeScanner looks for a machine-readable verification code. It never fails;
// any trouble degrades to an AI-analysis-only record.
type CodeScanner interface {
	Scan(ctx context.Context, pages iter.Seq[domain.RasterPage]) domain.VerificationRecord
}
