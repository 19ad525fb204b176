// Package decoder normalizes uploaded documents into raster images for code scanning.
package decoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"iter"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder (pdfcpu emits CCITT/LZW images as .tif)
	_ "golang.org/x/image/webp" // register WEBP decoder

	"aria/internal/domain"
)

// Decoder implements port.DocumentDecoder for PDFs and single raster images.
type Decoder struct {
	conf *model.Configuration
}

// New creates a Decoder with relaxed PDF validation, which real-world invoices need.
func New() *Decoder {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.Cmd = model.EXTRACTIMAGES
	return &Decoder{conf: conf}
}

// IsPaginated reports whether the content type is a paginated document format.
func IsPaginated(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "pdf")
}

// Decode returns the raster pages of a document. The sequence can be ranged
// over once; images are decoded as the iteration reaches them.
func (d *Decoder) Decode(ctx context.Context, data []byte, contentType string) (iter.Seq[domain.RasterPage], error) {
	if IsPaginated(contentType) {
		return d.decodePDF(ctx, data, contentType)
	}
	return decodeImage(data, contentType)
}

func decodeImage(data []byte, contentType string) (iter.Seq[domain.RasterPage], error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.DecodeError{ContentType: contentType, Err: err}
	}
	page := domain.RasterPage{Index: 0, PageNr: 1, Name: format, Image: img}
	return once(func(yield func(domain.RasterPage) bool) {
		yield(page)
	}), nil
}

func (d *Decoder) decodePDF(ctx context.Context, data []byte, contentType string) (iter.Seq[domain.RasterPage], error) {
	if len(data) == 0 {
		return nil, &domain.DecodeError{ContentType: contentType, Err: errors.New("empty document")}
	}

	// Only the document structure is read here; image streams are decoded per image during iteration.
	pdf, err := api.ReadValidateAndOptimize(bytes.NewReader(data), d.conf)
	if err != nil {
		return nil, &domain.DecodeError{ContentType: contentType, Err: fmt.Errorf("reading pdf: %w", err)}
	}

	return once(func(yield func(domain.RasterPage) bool) {
		index := 0
		for pageNr := 1; pageNr <= pdf.PageCount; pageNr++ {
			objNrs := pdfcpu.ImageObjNrs(pdf, pageNr)
			sort.Ints(objNrs)
			for _, objNr := range objNrs {
				if ctx.Err() != nil {
					return
				}
				page := domain.RasterPage{Index: index, PageNr: pageNr}
				page.Name, page.Image, page.Err = extractImage(pdf, pageNr, objNr)
				index++
				if !yield(page) {
					return
				}
			}
		}
	}), nil
}

// extractImage decodes a single embedded image. A failure here concerns this image only.
func extractImage(pdf *model.Context, pageNr, objNr int) (name string, img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("image object %d on page %d: pdf decoder panic: %v", objNr, pageNr, r)
		}
	}()

	obj, ok := pdf.Optimize.ImageObjects[objNr]
	if !ok || obj == nil || obj.ImageDict == nil {
		return "", nil, fmt.Errorf("image object %d on page %d not found", objNr, pageNr)
	}
	name = obj.ResourceNames[pageNr-1]

	raw, err := pdfcpu.ExtractImage(pdf, obj.ImageDict, false, name, objNr, false)
	if err != nil {
		return name, nil, fmt.Errorf("extracting image %s on page %d: %w", name, pageNr, err)
	}
	if raw == nil || raw.Reader == nil {
		return name, nil, fmt.Errorf("image %s on page %d has no data", name, pageNr)
	}
	if img, _, err = image.Decode(raw); err != nil {
		return name, nil, fmt.Errorf("decoding image %s (%s) on page %d: %w", name, raw.FileType, pageNr, err)
	}
	return name, img, nil
}

// once wraps seq so that only the first range over it produces values.
func once(seq iter.Seq[domain.RasterPage]) iter.Seq[domain.RasterPage] {
	var used atomic.Bool
	return func(yield func(domain.RasterPage) bool) {
		if used.Swap(true) {
			return
		}
		seq(yield)
	}
}
