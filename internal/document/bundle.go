package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"sort"
	"strings"

	xdraw "golang.org/x/image/draw"
)

var zipMagic = []byte("PK\x03\x04")

// IsBundle reports whether data looks like a page bundle.
func IsBundle(data []byte) bool { return bytes.HasPrefix(data, zipMagic) }

var pageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// BundleDir packs the images in dir into a page bundle, one page per image
// in name order. Other files are skipped.
func BundleDir(dir string) ([]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	n := 0
	for _, e := range entries {
		if e.IsDir() || !pageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		// Images are already compressed.
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name(), Method: zip.Store})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		n++
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoPages)
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Bundle opens a zip archive of page images as a multi-page document.
// Pages follow entry names in order; each image pixel is Scale logical
// units, zero meaning one.
type Bundle struct {
	Scale float64
}

func (r Bundle) Open(data []byte) (Source, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open page bundle: %w", err)
	}
	var files []*zip.File
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() && pageExts[strings.ToLower(filepath.Ext(f.Name))] {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return nil, ErrNoPages
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	scale := r.Scale
	if scale <= 0 {
		scale = 1
	}
	s := &bundleSource{files: files, scale: scale, sizes: make([]image.Point, len(files))}
	for i, f := range files {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		cfg, _, err := image.DecodeConfig(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		if cfg.Width <= 0 || cfg.Height <= 0 {
			return nil, fmt.Errorf("%s: %w", f.Name, ErrNoPages)
		}
		s.sizes[i] = image.Pt(cfg.Width, cfg.Height)
	}
	return s, nil
}

// bundleSource decodes each page only when it is rendered.
type bundleSource struct {
	files []*zip.File
	sizes []image.Point
	scale float64
}

func (s *bundleSource) NumPages() int { return len(s.files) }

func (s *bundleSource) PageSize(i int) (float64, float64, error) {
	if i < 0 || i >= len(s.files) {
		return 0, 0, fmt.Errorf("%w: %d", ErrPageRange, i)
	}
	return float64(s.sizes[i].X) * s.scale, float64(s.sizes[i].Y) * s.scale, nil
}

func (s *bundleSource) RenderPage(i int, dst draw.Image, _ float64) error {
	if i < 0 || i >= len(s.files) {
		return fmt.Errorf("%w: %d", ErrPageRange, i)
	}
	rc, err := s.files[i].Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	img, _, err := image.Decode(rc)
	if err != nil {
		return fmt.Errorf("%s: %w", s.files[i].Name, err)
	}
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return nil
}

func (s *bundleSource) Close() error { return nil }
