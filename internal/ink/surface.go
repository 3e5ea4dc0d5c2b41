// Package ink turns pointer input into strokes and paints a page's stroke
// history onto a drawing surface.
package ink

import "image/color"

type LineCap int

const (
	CapButt LineCap = iota
	CapRound
)

type LineJoin int

const (
	JoinRound LineJoin = iota
)

// Composite selects how stroked pixels combine with what is already on the
// surface.
type Composite int

const (
	SourceOver Composite = iota
	Multiply
	// DestinationOut clears destination pixels under the stroke.
	DestinationOut
)

func (c Composite) String() string {
	switch c {
	case SourceOver:
		return "source-over"
	case Multiply:
		return "multiply"
	case DestinationOut:
		return "destination-out"
	}
	return "unknown"
}

// Style is the paint state applied by Surface.Stroke.
type Style struct {
	Color     color.NRGBA
	Width     float64
	Cap       LineCap
	Join      LineJoin
	Composite Composite
}

// Surface is a drawing target in page-local logical coordinates.
type Surface interface {
	// Clear erases the whole surface to transparent.
	Clear()
	// BeginPath discards the current path.
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	// Stroke paints the current path.
	Stroke(st Style)
}
