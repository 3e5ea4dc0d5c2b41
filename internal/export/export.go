// Package export writes composited notebook pages as PNG images or as a
// single PDF document.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"

	"github.com/jung-kurt/gofpdf"
)

// pointsPerUnit converts logical page units (CSS pixels) to PDF points.
const pointsPerUnit = 72.0 / 96.0

// Page is a rendered page ready for export.
type Page interface {
	Width() float64
	Height() float64
	Composite() *image.RGBA
}

// PNG encodes the composited page at its backing resolution.
func PNG(w io.Writer, p Page) error {
	if err := png.Encode(w, p.Composite()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PDF writes pages to w, one PDF page per notebook page, each sized to the
// page's logical dimensions.
func PDF(w io.Writer, pages []Page) error {
	doc, err := build(pages)
	if err != nil {
		return err
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// PDFFile is PDF writing to path.
func PDFFile(path string, pages []Page) error {
	doc, err := build(pages)
	if err != nil {
		return err
	}
	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	slog.Info("pdf exported", "component", "export", "path", path, "pages", len(pages))
	return nil
}

func build(pages []Page) (*gofpdf.Fpdf, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("export pdf: no pages")
	}
	first := size(pages[0])
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           first,
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}

	for i, p := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, p.Composite()); err != nil {
			return nil, fmt.Errorf("export pdf page %d: %w", i+1, err)
		}
		sz := size(p)
		name := fmt.Sprintf("page-%d", i+1)
		doc.AddPageFormat("P", sz)
		doc.RegisterImageOptionsReader(name, opts, &buf)
		doc.ImageOptions(name, 0, 0, sz.Wd, sz.Ht, false, opts, 0, "")
		if err := doc.Error(); err != nil {
			return nil, fmt.Errorf("export pdf page %d: %w", i+1, err)
		}
	}
	return doc, nil
}

func size(p Page) gofpdf.SizeType {
	return gofpdf.SizeType{Wd: p.Width() * pointsPerUnit, Ht: p.Height() * pointsPerUnit}
}
