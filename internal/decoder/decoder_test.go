package decoder_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aria/internal/decoder"
	"aria/internal/decoder/pdftest"
	"aria/internal/domain"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func buildPDF(t *testing.T, pages ...pdftest.Page) []byte {
	t.Helper()
	data, err := pdftest.Build(pages...)
	require.NoError(t, err)
	return data
}

func collect(t *testing.T, seq func(func(domain.RasterPage) bool)) []domain.RasterPage {
	t.Helper()
	var pages []domain.RasterPage
	for p := range seq {
		pages = append(pages, p)
	}
	return pages
}

func TestDecoder_Decode_SingleImage(t *testing.T) {
	d := decoder.New()

	seq, err := d.Decode(context.Background(), pngBytes(t), "image/png")
	require.NoError(t, err)

	pages := collect(t, seq)
	require.Len(t, pages, 1)
	assert.NoError(t, pages[0].Err)
	assert.NotNil(t, pages[0].Image)
	assert.Equal(t, 1, pages[0].PageNr)
}

func TestDecoder_Decode_SequenceIsSingleUse(t *testing.T) {
	d := decoder.New()

	seq, err := d.Decode(context.Background(), pngBytes(t), "image/png")
	require.NoError(t, err)

	assert.Len(t, collect(t, seq), 1)
	assert.Empty(t, collect(t, seq))
}

func TestDecoder_Decode_CorruptImage(t *testing.T) {
	d := decoder.New()

	seq, err := d.Decode(context.Background(), []byte("definitely not a png"), "image/png")

	assert.Nil(t, seq)
	var decErr *domain.DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, "image/png", decErr.ContentType)
}

func TestDecoder_Decode_UnparseablePDF(t *testing.T) {
	d := decoder.New()

	_, err := d.Decode(context.Background(), []byte("%PDF-1.4 garbage without structure"), "application/pdf")

	var decErr *domain.DecodeError
	assert.True(t, errors.As(err, &decErr))
}

func TestDecoder_Decode_EmptyPDF(t *testing.T) {
	d := decoder.New()

	_, err := d.Decode(context.Background(), nil, "application/pdf")

	var decErr *domain.DecodeError
	assert.True(t, errors.As(err, &decErr))
}

func TestDecoder_Decode_PDFImagesInPageOrder(t *testing.T) {
	d := decoder.New()

	seq, err := d.Decode(context.Background(), buildPDF(t, pdftest.Solid(40), pdftest.Solid(80), pdftest.Solid(120)), "application/pdf")
	require.NoError(t, err)

	pages := collect(t, seq)
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, i, p.Index)
		assert.Equal(t, i+1, p.PageNr)
		assert.NoError(t, p.Err)
		assert.NotNil(t, p.Image)
	}
}

func TestDecoder_Decode_PDFCorruptImageDoesNotAbort(t *testing.T) {
	d := decoder.New()

	seq, err := d.Decode(context.Background(),
		buildPDF(t, pdftest.Solid(40), pdftest.CorruptPage(), pdftest.Solid(120)), "application/pdf")
	require.NoError(t, err)

	pages := collect(t, seq)
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, i+1, p.PageNr)
	}
	assert.NoError(t, pages[0].Err)
	assert.NotNil(t, pages[0].Image)
	assert.Error(t, pages[1].Err)
	assert.Nil(t, pages[1].Image)
	assert.NoError(t, pages[2].Err)
	assert.NotNil(t, pages[2].Image)
}

func TestDecoder_Decode_PDFOnlyCorruptImages(t *testing.T) {
	d := decoder.New()

	seq, err := d.Decode(context.Background(), buildPDF(t, pdftest.CorruptPage()), "application/pdf")
	require.NoError(t, err)

	pages := collect(t, seq)
	require.Len(t, pages, 1)
	assert.Error(t, pages[0].Err)
}

func TestDecoder_Decode_PDFStopsOnCancel(t *testing.T) {
	d := decoder.New()
	ctx, cancel := context.WithCancel(context.Background())

	seq, err := d.Decode(ctx, buildPDF(t, pdftest.Solid(40), pdftest.Solid(80)), "application/pdf")
	require.NoError(t, err)
	cancel()

	assert.Empty(t, collect(t, seq))
}

func TestIsPaginated(t *testing.T) {
	assert.True(t, decoder.IsPaginated("application/pdf"))
	assert.True(t, decoder.IsPaginated("application/x-PDF"))
	assert.False(t, decoder.IsPaginated("image/jpeg"))
}
