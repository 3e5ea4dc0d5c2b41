// Package document opens page sources and builds an editor whose pages are
// ready for drawing.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Blank notebook page size in logical units (US Letter at 96 dpi).
const (
	BlankWidth  = 816
	BlankHeight = 1056
)

var (
	// ErrNoPages is returned for a source with nothing to draw on.
	ErrNoPages = errors.New("document has no pages")
	// ErrPageRange is returned for a page number outside the source.
	ErrPageRange = errors.New("page out of range")
)

// Rasterizer opens document bytes into a page source.
type Rasterizer interface {
	Open(data []byte) (Source, error)
}

// Source is an opened document. Pages are numbered from zero.
type Source interface {
	NumPages() int
	// PageSize returns the logical size of page i.
	PageSize(i int) (width, height float64, err error)
	// RenderPage paints page i into dst, which is scale times the logical size.
	RenderPage(i int, dst draw.Image, scale float64) error
	Close() error
}

// Blank produces empty white notebook pages.
type Blank struct {
	Pages  int
	Width  float64
	Height float64
}

func (b Blank) Open([]byte) (Source, error) {
	if b.Pages == 0 {
		b.Pages = 1
	}
	if b.Width == 0 || b.Height == 0 {
		b.Width, b.Height = BlankWidth, BlankHeight
	}
	if b.Pages < 0 || b.Width < 0 || b.Height < 0 {
		return nil, fmt.Errorf("blank notebook: invalid layout %d x %gx%g", b.Pages, b.Width, b.Height)
	}
	return blankSource(b), nil
}

type blankSource Blank

func (s blankSource) NumPages() int { return s.Pages }

func (s blankSource) PageSize(i int) (float64, float64, error) {
	if i < 0 || i >= s.Pages {
		return 0, 0, fmt.Errorf("%w: %d", ErrPageRange, i)
	}
	return s.Width, s.Height, nil
}

func (s blankSource) RenderPage(i int, dst draw.Image, _ float64) error {
	if i < 0 || i >= s.Pages {
		return fmt.Errorf("%w: %d", ErrPageRange, i)
	}
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	return nil
}

func (blankSource) Close() error { return nil }

// Images opens a single raster image (PNG, JPEG, GIF, BMP, TIFF or WebP) as a
// one-page document. The page is Scale logical units per image pixel; zero
// means one.
type Images struct {
	Scale float64
}

func (r Images) Open(data []byte) (Source, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode page image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, ErrNoPages
	}
	scale := r.Scale
	if scale <= 0 {
		scale = 1
	}
	slog.Debug("decoded page image", "component", "document", "format", format, "size", img.Bounds().Size())
	return &imageSource{img: img, scale: scale}, nil
}

type imageSource struct {
	img   image.Image
	scale float64
}

func (s *imageSource) NumPages() int { return 1 }

func (s *imageSource) PageSize(i int) (float64, float64, error) {
	if i != 0 {
		return 0, 0, fmt.Errorf("%w: %d", ErrPageRange, i)
	}
	b := s.img.Bounds()
	return float64(b.Dx()) * s.scale, float64(b.Dy()) * s.scale, nil
}

func (s *imageSource) RenderPage(i int, dst draw.Image, _ float64) error {
	if i != 0 {
		return fmt.Errorf("%w: %d", ErrPageRange, i)
	}
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), s.img, s.img.Bounds(), draw.Over, nil)
	return nil
}

func (s *imageSource) Close() error { return nil }

// Detect picks a rasterizer for data by its leading bytes: PDF, a page
// bundle, or a single image otherwise.
func Detect(data []byte) Rasterizer {
	switch {
	case IsPDF(data):
		return PDF{}
	case IsBundle(data):
		return Bundle{}
	default:
		return Images{}
	}
}
