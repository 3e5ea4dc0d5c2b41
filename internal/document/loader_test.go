package document

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MyLocalNotes/internal/ink"
	"MyLocalNotes/internal/state"
)

// fakeTarget records surface calls and exposes a small background.
type fakeTarget struct {
	bg     *image.RGBA
	clears int
}

func (f *fakeTarget) Clear()                    { f.clears++ }
func (f *fakeTarget) BeginPath()                {}
func (f *fakeTarget) MoveTo(float64, float64)   {}
func (f *fakeTarget) LineTo(float64, float64)   {}
func (f *fakeTarget) QuadTo(_, _, _, _ float64) {}
func (f *fakeTarget) Stroke(ink.Style)          {}
func (f *fakeTarget) Background() draw.Image    { return f.bg }
func (f *fakeTarget) Scale() float64            { return 1 }

type fakeFactory struct {
	log    *[]string
	made   []*fakeTarget
	failAt int
}

func (f *fakeFactory) NewSurface(w, h float64) (Target, error) {
	if f.failAt > 0 && len(f.made)+1 == f.failAt {
		return nil, errors.New("out of surfaces")
	}
	*f.log = append(*f.log, "surface")
	t := &fakeTarget{bg: image.NewRGBA(image.Rect(0, 0, int(w), int(h)))}
	f.made = append(f.made, t)
	return t, nil
}

// loggingSource wraps a source and records render calls.
type loggingSource struct {
	Source
	log *[]string
}

func (s loggingSource) RenderPage(i int, dst draw.Image, scale float64) error {
	*s.log = append(*s.log, "render")
	return s.Source.RenderPage(i, dst, scale)
}

type loggingRasterizer struct {
	Rasterizer
	log *[]string
}

func (r loggingRasterizer) Open(data []byte) (Source, error) {
	src, err := r.Rasterizer.Open(data)
	if err != nil {
		return nil, err
	}
	return loggingSource{Source: src, log: r.log}, nil
}

func tools() *state.Registry {
	return state.NewRegistry(state.DefaultTools(), state.ErasePixel)
}

func TestOpenSequencesPages(t *testing.T) {
	var log []string
	f := &fakeFactory{log: &log}
	r := loggingRasterizer{Rasterizer: Blank{Pages: 3, Width: 20, Height: 30}, log: &log}

	ed, err := Open(r, nil, f, tools(), Options{
		OnPage: func(p *ink.Pad, _ Target) {
			log = append(log, "ready")
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, ed.Len())
	assert.Equal(t, []string{
		"surface", "render", "ready",
		"surface", "render", "ready",
		"surface", "render", "ready",
	}, log)
	for i, p := range ed.Pads() {
		assert.Equal(t, i, p.Index)
		assert.Equal(t, 20.0, p.Width)
	}
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, f.made[2].bg.RGBAAt(1, 1))
}

func TestOpenFailsAsAUnit(t *testing.T) {
	var log []string
	f := &fakeFactory{log: &log, failAt: 2}

	ed, err := Open(Blank{Pages: 3, Width: 10, Height: 10}, nil, f, tools(), Options{})
	assert.Error(t, err)
	assert.Nil(t, ed)
}

func TestOpenRejectsMalformedDocument(t *testing.T) {
	var log []string
	f := &fakeFactory{log: &log}
	called := false

	ed, err := Open(Images{}, []byte("definitely not an image"), f, tools(), Options{
		OnPage: func(*ink.Pad, Target) { called = true },
	})
	assert.Error(t, err)
	assert.Nil(t, ed)
	assert.Empty(t, log, "no page surface is created")
	assert.False(t, called)
}

func TestBlankDefaults(t *testing.T) {
	src, err := Blank{}.Open(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, src.NumPages())
	w, h, err := src.PageSize(0)
	require.NoError(t, err)
	assert.Equal(t, float64(BlankWidth), w)
	assert.Equal(t, float64(BlankHeight), h)

	_, _, err = src.PageSize(1)
	assert.ErrorIs(t, err, ErrPageRange)
}

func TestImagesOpensPNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	src, err := Images{Scale: 0.5}.Open(buf.Bytes())
	require.NoError(t, err)
	w, h, err := src.PageSize(0)
	require.NoError(t, err)
	assert.Equal(t, 20.0, w)
	assert.Equal(t, 10.0, h)

	dst := image.NewRGBA(image.Rect(0, 0, 40, 20))
	require.NoError(t, src.RenderPage(0, dst, 2))
	got := dst.RGBAAt(20, 10)
	assert.InDelta(t, 200, int(got.R), 1)
	assert.InDelta(t, 0, int(got.G), 1)
	assert.Equal(t, uint8(255), got.A)
}

func TestRestore(t *testing.T) {
	var log []string
	ed, err := Open(Blank{Pages: 2, Width: 10, Height: 10}, nil, &fakeFactory{log: &log}, tools(), Options{})
	require.NoError(t, err)

	pen := state.Tool{Kind: state.ToolPen, Color: "#000000", Weight: 2}
	recs := []state.PageRecord{
		{Strokes: []state.Stroke{}},
		{Strokes: []state.Stroke{{Tool: pen, Points: []state.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}}}},
	}
	require.NoError(t, Restore(ed, recs))
	assert.Len(t, ed.Pad(1).Page.Strokes, 1)

	err = Restore(ed, recs[:1])
	assert.ErrorIs(t, err, state.ErrInvalidRecord)
}
