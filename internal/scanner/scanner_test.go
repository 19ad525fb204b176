package scanner_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"iter"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aria/internal/domain"
	"aria/internal/scanner"
)

func qrImage(t *testing.T, text string) image.Image {
	t.Helper()
	bm, err := qrcode.NewQRCodeWriter().Encode(text, gozxing.BarcodeFormat_QR_CODE, 240, 240, nil)
	require.NoError(t, err)

	img := image.NewGray(image.Rect(0, 0, bm.GetWidth(), bm.GetHeight()))
	for y := 0; y < bm.GetHeight(); y++ {
		for x := 0; x < bm.GetWidth(); x++ {
			if bm.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func blankImage() image.Image {
	img := image.NewGray(image.Rect(0, 0, 120, 120))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func seqOf(pages ...domain.RasterPage) iter.Seq[domain.RasterPage] {
	return func(yield func(domain.RasterPage) bool) {
		for _, p := range pages {
			if !yield(p) {
				return
			}
		}
	}
}

func TestScanner_Scan_SingleImageWithCode(t *testing.T) {
	s := scanner.New(zerolog.Nop())

	rec := s.Scan(context.Background(), seqOf(domain.RasterPage{PageNr: 1, Image: qrImage(t, "CODE123")}))

	payload, found := rec.Payload()
	assert.True(t, found)
	assert.Equal(t, "CODE123", payload)
	assert.Equal(t, domain.VerificationCodeConfirmed, rec.Method())
}

func TestScanner_Scan_FirstPageInDocumentOrderWins(t *testing.T) {
	s := scanner.New(zerolog.Nop())

	rec := s.Scan(context.Background(), seqOf(
		domain.RasterPage{Index: 0, PageNr: 1, Image: blankImage()},
		domain.RasterPage{Index: 1, PageNr: 2, Image: qrImage(t, "SECOND")},
		domain.RasterPage{Index: 2, PageNr: 3, Image: qrImage(t, "THIRD")},
	))

	payload, found := rec.Payload()
	assert.True(t, found)
	assert.Equal(t, "SECOND", payload)
}

func TestScanner_Scan_StopsConsumingAfterMatch(t *testing.T) {
	s := scanner.New(zerolog.Nop())
	visited := 0
	pages := func(yield func(domain.RasterPage) bool) {
		for i, img := range []image.Image{qrImage(t, "FIRST"), qrImage(t, "SECOND")} {
			visited++
			if !yield(domain.RasterPage{Index: i, PageNr: i + 1, Image: img}) {
				return
			}
		}
	}

	rec := s.Scan(context.Background(), pages)

	payload, _ := rec.Payload()
	assert.Equal(t, "FIRST", payload)
	assert.Equal(t, 1, visited)
}

func TestScanner_Scan_CorruptPageDoesNotAbort(t *testing.T) {
	s := scanner.New(zerolog.Nop())

	rec := s.Scan(context.Background(), seqOf(
		domain.RasterPage{Index: 0, PageNr: 1, Err: errors.New("corrupt jpeg stream")},
		domain.RasterPage{Index: 1, PageNr: 1, Image: nil},
		domain.RasterPage{Index: 2, PageNr: 2, Image: qrImage(t, "AFTER-CORRUPT")},
	))

	payload, found := rec.Payload()
	assert.True(t, found)
	assert.Equal(t, "AFTER-CORRUPT", payload)
}

func TestScanner_Scan_NoCodeIsAIAnalysisOnly(t *testing.T) {
	s := scanner.New(zerolog.Nop())

	rec := s.Scan(context.Background(), seqOf(
		domain.RasterPage{PageNr: 1, Image: blankImage()},
		domain.RasterPage{PageNr: 2, Image: blankImage()},
	))

	_, found := rec.Payload()
	assert.False(t, found)
	assert.Equal(t, domain.VerificationAIAnalysisOnly, rec.Method())
}

func TestScanner_Scan_EmptyAndNilSequences(t *testing.T) {
	s := scanner.New(zerolog.Nop())

	assert.Equal(t, domain.VerificationAIAnalysisOnly, s.Scan(context.Background(), seqOf()).Method())
	assert.Equal(t, domain.VerificationAIAnalysisOnly, s.Scan(context.Background(), nil).Method())
}

func TestScanner_Scan_CancelledContext(t *testing.T) {
	s := scanner.New(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := s.Scan(ctx, seqOf(domain.RasterPage{PageNr: 1, Image: qrImage(t, "CODE123")}))

	assert.Equal(t, domain.VerificationAIAnalysisOnly, rec.Method())
}
