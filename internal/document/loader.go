package document

import (
	"fmt"
	"image/draw"
	"log/slog"

	"MyLocalNotes/internal/ink"
	"MyLocalNotes/internal/state"
)

// Target is a page surface the loader can render a background into.
type Target interface {
	ink.Surface
	Background() draw.Image
	Scale() float64
}

// SurfaceFactory creates one Target per page.
type SurfaceFactory interface {
	NewSurface(width, height float64) (Target, error)
}

// Options tunes Open.
type Options struct {
	// OnPage is called as soon as a page's background is complete, in page
	// order. It is where a caller wires the page up for input.
	OnPage func(p *ink.Pad, t Target)
}

// Open builds an editor for data. Pages are created strictly one at a time:
// page i's surface is made and its background rendered before page i+1 is
// touched, and a pad only exists once its background is complete. Any failure
// abandons the whole document and no editor is returned; pages already handed
// to OnPage must then be discarded by the caller.
func Open(r Rasterizer, data []byte, f SurfaceFactory, tools *state.Registry, opts Options) (*ink.Editor, error) {
	src, err := r.Open(data)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer src.Close()

	n := src.NumPages()
	if n <= 0 {
		return nil, ErrNoPages
	}

	ed := ink.NewEditor(tools)
	for i := 0; i < n; i++ {
		w, h, err := src.PageSize(i)
		if err != nil {
			return nil, fmt.Errorf("page %d size: %w", i+1, err)
		}
		t, err := f.NewSurface(w, h)
		if err != nil {
			return nil, fmt.Errorf("page %d surface: %w", i+1, err)
		}
		if err := src.RenderPage(i, t.Background(), t.Scale()); err != nil {
			return nil, fmt.Errorf("page %d background: %w", i+1, err)
		}
		p := ed.AddPage(w, h, t)
		slog.Debug("page ready", "component", "document", "page", i+1, "width", w, "height", h)
		if opts.OnPage != nil {
			opts.OnPage(p, t)
		}
	}
	slog.Info("document opened", "component", "document", "pages", n)
	return ed, nil
}

// Restore loads saved page histories into a freshly opened editor. The
// record count must match the page count.
func Restore(ed *ink.Editor, recs []state.PageRecord) error {
	if len(recs) != ed.Len() {
		return fmt.Errorf("%w: %d saved pages for a %d page document", state.ErrInvalidRecord, len(recs), ed.Len())
	}
	for i, rec := range recs {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
	}
	for i, rec := range recs {
		if err := ed.Pad(i).Restore(rec); err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
	}
	return nil
}
