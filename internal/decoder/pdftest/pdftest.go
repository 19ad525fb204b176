// Package pdftest builds minimal PDFs with one embedded grayscale image per page.
package pdftest

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
)

// Page describes the image placed on one page. A Corrupt page carries an image
// stream that claims FlateDecode but is not zlib data.
type Page struct {
	Image   *image.Gray
	Corrupt bool
}

// Solid returns an 8x8 page filled with one gray level.
func Solid(level uint8) Page {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = level
	}
	return Page{Image: img}
}

// CorruptPage returns an 8x8 page whose image stream cannot be inflated.
func CorruptPage() Page {
	p := Solid(0)
	p.Corrupt = true
	return p
}

// Build writes a PDF 1.4 document with a valid cross-reference table.
func Build(pages ...Page) ([]byte, error) {
	var out bytes.Buffer
	offsets := map[int]int{}
	writeObj := func(num int, body string) {
		offsets[num] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	out.WriteString("%PDF-1.4\n")
	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 3+3*i)
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))

	for i, p := range pages {
		pageNum, imgNum, contentNum := 3+3*i, 4+3*i, 5+3*i
		writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 100 100] /Resources << /XObject << /Im1 %d 0 R >> >> /Contents %d 0 R >>",
			imgNum, contentNum))

		stream, err := imageStream(p)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		b := p.Image.Bounds()
		writeObj(imgNum, fmt.Sprintf(
			"<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceGray /BitsPerComponent 8 /Filter /FlateDecode /Length %d >>\nstream\n%s\nendstream",
			b.Dx(), b.Dy(), len(stream), stream))

		content := "q 100 0 0 100 0 0 cm /Im1 Do Q"
		writeObj(contentNum, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	total := 3 + 3*len(pages)
	xref := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n0000000000 65535 f \n", total)
	for n := 1; n < total; n++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[n])
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", total, xref)
	return out.Bytes(), nil
}

func imageStream(p Page) ([]byte, error) {
	if p.Corrupt {
		return []byte("not zlib"), nil
	}
	b := p.Image.Bounds()
	var raw bytes.Buffer
	zw := zlib.NewWriter(&raw)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := p.Image.PixOffset(b.Min.X, y)
		if _, err := zw.Write(p.Image.Pix[off : off+b.Dx()]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return raw.Bytes(), nil
}
