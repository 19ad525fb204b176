// Package scanner locates and decodes QR verification codes in raster pages.
package scanner

import (
	"context"
	"fmt"
	"image"
	"iter"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/rs/zerolog"

	"aria/internal/domain"
)

// Scanner implements port.CodeScanner with the gozxing QR reader.
type Scanner struct {
	log   zerolog.Logger
	hints map[gozxing.DecodeHintType]interface{}
}

// New creates a Scanner.
func New(log zerolog.Logger) *Scanner {
	return &Scanner{
		log: log.With().Str("component", "scanner").Logger(),
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// Scan returns the payload of the first page, in document order, that holds a
// decodable code. Per-page failures are logged and skipped.
func (s *Scanner) Scan(ctx context.Context, pages iter.Seq[domain.RasterPage]) domain.VerificationRecord {
	if pages == nil {
		return domain.AIAnalysisOnly()
	}
	for page := range pages {
		if ctx.Err() != nil {
			break
		}
		if page.Err != nil {
			s.log.Debug().Err(page.Err).Int("page", page.PageNr).Msg("skipping undecodable image")
			continue
		}
		text, err := s.decode(page.Image)
		if err != nil {
			s.log.Debug().Err(err).Int("page", page.PageNr).Str("image", page.Name).Msg("no code on image")
			continue
		}
		s.log.Info().Int("page", page.PageNr).Msg("verification code found")
		return domain.CodeConfirmed(text)
	}
	return domain.AIAnalysisOnly()
}

func (s *Scanner) decode(img image.Image) (text string, err error) {
	if img == nil {
		return "", fmt.Errorf("nil image")
	}
	// gozxing indexes bit matrices directly; malformed regions can panic.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("qr decoder panic: %v", r)
		}
	}()

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarizing image: %w", err)
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, s.hints)
	if err != nil {
		return "", err
	}
	if result.GetText() == "" {
		return "", fmt.Errorf("empty code payload")
	}
	return result.GetText(), nil
}
