// Package raster implements drawing surfaces backed by in-memory RGBA images.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"MyLocalNotes/internal/ink"
)

// DefaultScale is the backing-store resolution relative to logical units.
const DefaultScale = 2

// Canvas is a page surface: a background image and a transparent ink
// overlay, both at Scale times the logical page size. Path coordinates are in
// logical units; the scale is applied once here.
type Canvas struct {
	width, height float64
	scale         float64

	background *image.RGBA
	overlay    *image.RGBA
	scratch    *image.RGBA

	dasher *rasterx.Dasher
	path   rasterx.Path
	hasPt  bool
	minX   float64
	minY   float64
	maxX   float64
	maxY   float64
}

var _ ink.Surface = (*Canvas)(nil)

// NewCanvas allocates a canvas for a width x height logical page.
func NewCanvas(width, height, scale float64) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster: invalid page size %gx%g", width, height)
	}
	if scale <= 0 {
		scale = DefaultScale
	}
	pw := int(math.Ceil(width * scale))
	ph := int(math.Ceil(height * scale))
	bounds := image.Rect(0, 0, pw, ph)

	c := &Canvas{
		width:      width,
		height:     height,
		scale:      scale,
		background: image.NewRGBA(bounds),
		overlay:    image.NewRGBA(bounds),
		scratch:    image.NewRGBA(bounds),
	}
	draw.Draw(c.background, bounds, image.White, image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(pw, ph, c.scratch, bounds)
	c.dasher = rasterx.NewDasher(pw, ph, scanner)
	return c, nil
}

func (c *Canvas) Width() float64  { return c.width }
func (c *Canvas) Height() float64 { return c.height }
func (c *Canvas) Scale() float64  { return c.scale }

// Background is the page image the document is rendered into.
func (c *Canvas) Background() draw.Image { return c.background }

// Overlay is the ink layer.
func (c *Canvas) Overlay() *image.RGBA { return c.overlay }

// Composite returns the ink layer drawn over the background.
func (c *Canvas) Composite() *image.RGBA {
	out := image.NewRGBA(c.background.Bounds())
	draw.Draw(out, out.Bounds(), c.background, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), c.overlay, image.Point{}, draw.Over)
	return out
}

func (c *Canvas) Clear() {
	clear(c.overlay.Pix)
	c.BeginPath()
}

func (c *Canvas) BeginPath() {
	c.path.Clear()
	c.hasPt = false
}

func (c *Canvas) MoveTo(x, y float64) {
	c.grow(x, y)
	c.path.Start(c.fixed(x, y))
}

func (c *Canvas) LineTo(x, y float64) {
	c.grow(x, y)
	c.path.Line(c.fixed(x, y))
}

func (c *Canvas) QuadTo(cx, cy, x, y float64) {
	// A quadratic curve stays inside the hull of its control points.
	c.grow(cx, cy)
	c.grow(x, y)
	c.path.QuadBezier(c.fixed(cx, cy), c.fixed(x, y))
}

// Stroke rasterizes the current path as coverage into the scratch image and
// blends it into the overlay with the style's composite mode.
func (c *Canvas) Stroke(st ink.Style) {
	if !c.hasPt {
		return
	}
	area := c.pathArea(st.Width)
	if area.Empty() {
		return
	}
	clearRect(c.scratch, area)

	c.dasher.SetStroke(
		fixed.Int26_6(st.Width*c.scale*64),
		fixed.Int26_6(4*64),
		capFunc(st.Cap), nil, nil, rasterx.Round,
		nil, 0)
	c.path.AddTo(c.dasher)
	c.dasher.SetColor(color.NRGBA{A: 0xff})
	c.dasher.Draw()
	c.dasher.Clear()

	blend(c.overlay, c.scratch, area, st.Color, st.Composite)
}

func (c *Canvas) fixed(x, y float64) fixed.Point26_6 {
	return rasterx.ToFixedP(x*c.scale, y*c.scale)
}

func (c *Canvas) grow(x, y float64) {
	if !c.hasPt {
		c.minX, c.maxX, c.minY, c.maxY = x, x, y, y
		c.hasPt = true
		return
	}
	c.minX = math.Min(c.minX, x)
	c.maxX = math.Max(c.maxX, x)
	c.minY = math.Min(c.minY, y)
	c.maxY = math.Max(c.maxY, y)
}

// pathArea is the device-pixel rectangle a stroke of the given width can touch.
func (c *Canvas) pathArea(width float64) image.Rectangle {
	pad := width/2 + 2/c.scale
	r := image.Rect(
		int(math.Floor((c.minX-pad)*c.scale)),
		int(math.Floor((c.minY-pad)*c.scale)),
		int(math.Ceil((c.maxX+pad)*c.scale)),
		int(math.Ceil((c.maxY+pad)*c.scale)),
	)
	return r.Intersect(c.overlay.Bounds())
}

func capFunc(lc ink.LineCap) rasterx.CapFunc {
	if lc == ink.CapButt {
		return rasterx.ButtCap
	}
	return rasterx.RoundCap
}

func clearRect(img *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		clear(img.Pix[i : i+4*r.Dx()])
	}
}
