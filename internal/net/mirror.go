package net

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	"MyLocalNotes/internal/document"
	"MyLocalNotes/internal/ink"
	"MyLocalNotes/internal/state"
)

// Mirror builds a local editor from a hello. Backgrounds come from the
// shared source document when the host sent one and it can be rendered
// here, white otherwise.
func Mirror(hello Message, f document.SurfaceFactory, opts document.Options) (*ink.Editor, error) {
	if hello.Type != TypeHello {
		return nil, fmt.Errorf("mirror needs a hello, got %q", hello.Type)
	}
	if err := hello.validate(); err != nil {
		return nil, err
	}
	l := layout{sizes: hello.Sizes}
	if len(hello.Source) > 0 {
		src, err := document.Detect(hello.Source).Open(hello.Source)
		if err != nil {
			slog.Warn("shared source unreadable, using blank pages", "component", "viewer", "err", err)
		} else {
			l.backdrop = src
		}
	}
	tools := state.NewRegistry(state.DefaultTools(), state.ErasePixel)
	ed, err := document.Open(l, nil, f, tools, opts)
	if err != nil {
		return nil, err
	}
	if err := document.Restore(ed, hello.Records); err != nil {
		return nil, err
	}
	return ed, nil
}

// Apply replaces one page of a mirrored editor.
func Apply(ed *ink.Editor, m Message) error {
	if m.Type != TypePage {
		return fmt.Errorf("apply: unexpected %q message", m.Type)
	}
	if m.Page < 0 || m.Page >= ed.Len() {
		return fmt.Errorf("%w: %d", document.ErrPageRange, m.Page)
	}
	return ed.Pad(m.Page).Restore(*m.Record)
}

// layout is a document of fixed page sizes; it is both the Rasterizer and
// the Source.
type layout struct {
	sizes    []PageSize
	backdrop document.Source
}

func (l layout) Open([]byte) (document.Source, error) { return l, nil }

func (l layout) NumPages() int { return len(l.sizes) }

func (l layout) PageSize(i int) (float64, float64, error) {
	if i < 0 || i >= len(l.sizes) {
		return 0, 0, fmt.Errorf("%w: %d", document.ErrPageRange, i)
	}
	return l.sizes[i].Width, l.sizes[i].Height, nil
}

func (l layout) RenderPage(i int, dst draw.Image, scale float64) error {
	if l.backdrop != nil && i < l.backdrop.NumPages() {
		return l.backdrop.RenderPage(i, dst, scale)
	}
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	return nil
}

func (l layout) Close() error {
	if l.backdrop != nil {
		return l.backdrop.Close()
	}
	return nil
}
