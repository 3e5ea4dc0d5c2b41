package document

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"

	xdraw "golang.org/x/image/draw"
)

// PDFScale is the default zoom applied to PDF point sizes.
const PDFScale = 1.5

// ErrNoRenderer is returned when the poppler tools cannot be found.
var ErrNoRenderer = errors.New("pdf renderer not installed")

var pdfMagic = []byte("%PDF-")

// IsPDF reports whether data starts with a PDF header.
func IsPDF(data []byte) bool { return bytes.HasPrefix(data, pdfMagic) }

// PDF renders pages with the poppler command line tools, pdfinfo and
// pdftoppm. A page is its size in points times Scale logical units; zero
// means PDFScale.
type PDF struct {
	Scale float64
	// Bin is the directory holding the tools. Empty searches PATH.
	Bin string
}

func (r PDF) tool(name string) (string, error) {
	if r.Bin != "" {
		name = filepath.Join(r.Bin, name)
	}
	p, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoRenderer, filepath.Base(name))
	}
	return p, nil
}

func (r PDF) Open(data []byte) (Source, error) {
	if !IsPDF(data) {
		return nil, errors.New("not a PDF document")
	}
	info, err := r.tool("pdfinfo")
	if err != nil {
		return nil, err
	}
	render, err := r.tool("pdftoppm")
	if err != nil {
		return nil, err
	}
	scale := r.Scale
	if scale <= 0 {
		scale = PDFScale
	}

	dir, err := os.MkdirTemp("", "notebook-pdf-")
	if err != nil {
		return nil, err
	}
	s := &pdfSource{dir: dir, path: filepath.Join(dir, "source.pdf"), render: render, scale: scale}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.readSizes(info); err != nil {
		s.Close()
		return nil, err
	}
	slog.Debug("opened pdf", "component", "document", "pages", len(s.sizes))
	return s, nil
}

type pdfSource struct {
	dir    string
	path   string
	render string
	scale  float64
	sizes  [][2]float64
}

var (
	pagesLine = regexp.MustCompile(`^Pages:\s+(\d+)`)
	sizeLine  = regexp.MustCompile(`^Page\s+(\d+)\s+size:\s+([\d.]+) x ([\d.]+) pts`)
	rotLine   = regexp.MustCompile(`^Page\s+(\d+)\s+rot:\s+(\d+)`)
)

func (s *pdfSource) readSizes(info string) error {
	out, err := exec.Command(info, s.path).Output()
	if err != nil {
		return fmt.Errorf("pdfinfo: %w", err)
	}
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		if m := pagesLine.FindStringSubmatch(sc.Text()); m != nil {
			n, _ = strconv.Atoi(m[1])
		}
	}
	if n <= 0 {
		return ErrNoPages
	}

	out, err = exec.Command(info, "-f", "1", "-l", strconv.Itoa(n), s.path).Output()
	if err != nil {
		return fmt.Errorf("pdfinfo: %w", err)
	}
	s.sizes = make([][2]float64, n)
	sc = bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if m := sizeLine.FindStringSubmatch(line); m != nil {
			i, _ := strconv.Atoi(m[1])
			w, _ := strconv.ParseFloat(m[2], 64)
			h, _ := strconv.ParseFloat(m[3], 64)
			if i >= 1 && i <= n {
				s.sizes[i-1] = [2]float64{w, h}
			}
		} else if m := rotLine.FindStringSubmatch(line); m != nil {
			i, _ := strconv.Atoi(m[1])
			rot, _ := strconv.Atoi(m[2])
			if i >= 1 && i <= n && (rot == 90 || rot == 270) {
				s.sizes[i-1][0], s.sizes[i-1][1] = s.sizes[i-1][1], s.sizes[i-1][0]
			}
		}
	}
	for i, sz := range s.sizes {
		if sz[0] <= 0 || sz[1] <= 0 {
			return fmt.Errorf("pdfinfo: no size for page %d", i+1)
		}
	}
	return nil
}

func (s *pdfSource) NumPages() int { return len(s.sizes) }

func (s *pdfSource) PageSize(i int) (float64, float64, error) {
	if i < 0 || i >= len(s.sizes) {
		return 0, 0, fmt.Errorf("%w: %d", ErrPageRange, i)
	}
	return s.sizes[i][0] * s.scale, s.sizes[i][1] * s.scale, nil
}

func (s *pdfSource) RenderPage(i int, dst draw.Image, _ float64) error {
	if i < 0 || i >= len(s.sizes) {
		return fmt.Errorf("%w: %d", ErrPageRange, i)
	}
	b := dst.Bounds()
	page := strconv.Itoa(i + 1)
	root := filepath.Join(s.dir, "page"+page)
	cmd := exec.Command(s.render, "-f", page, "-l", page, "-png", "-singlefile",
		"-scale-to-x", strconv.Itoa(b.Dx()), "-scale-to-y", strconv.Itoa(b.Dy()),
		s.path, root)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("pdftoppm page %d: %w: %s", i+1, err, bytes.TrimSpace(out))
	}
	f, err := os.Open(root + ".png")
	if err != nil {
		return err
	}
	defer os.Remove(root + ".png")
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("decode page %d: %w", i+1, err)
	}

	draw.Draw(dst, b, image.White, image.Point{}, draw.Src)
	if img.Bounds().Size() == b.Size() {
		draw.Draw(dst, b, img, img.Bounds().Min, draw.Over)
	} else {
		xdraw.CatmullRom.Scale(dst, b, img, img.Bounds(), draw.Over, nil)
	}
	return nil
}

func (s *pdfSource) Close() error { return os.RemoveAll(s.dir) }
