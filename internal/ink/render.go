package ink

import (
	"image/color"
	"log/slog"

	"MyLocalNotes/internal/state"
)

// highlighterAlpha is applied to highlighter colors that carry no alpha.
const highlighterAlpha = 0x88

// Render repaints s from scratch: every committed stroke in commit order,
// then candidate on top when it is non-nil. The result depends only on the
// arguments.
func Render(s Surface, strokes []state.Stroke, candidate *state.Stroke) {
	s.Clear()
	for i := range strokes {
		paint(s, &strokes[i])
	}
	if candidate != nil {
		paint(s, candidate)
	}
}

func paint(s Surface, st *state.Stroke) {
	if !st.Drawable() {
		return
	}
	pts := st.Points
	style, ok := styleFor(st.Tool)
	if !ok {
		return
	}

	s.BeginPath()
	if st.Tool.Kind == state.ToolHighlighter {
		last := pts[len(pts)-1]
		s.MoveTo(pts[0].X, pts[0].Y)
		s.LineTo(last.X, last.Y)
	} else {
		smooth(s, pts)
	}
	s.Stroke(style)
}

// smooth walks the samples drawing quadratic curves whose control points are
// the samples and whose end points are the midpoints between neighbours, then
// finishes with a straight segment to the last sample.
func smooth(s Surface, pts []state.Point) {
	s.MoveTo(pts[0].X, pts[0].Y)
	for i := 1; i < len(pts)-2; i++ {
		xc := (pts[i].X + pts[i+1].X) / 2
		yc := (pts[i].Y + pts[i+1].Y) / 2
		s.QuadTo(pts[i].X, pts[i].Y, xc, yc)
	}
	last := pts[len(pts)-1]
	s.LineTo(last.X, last.Y)
}

func styleFor(t state.Tool) (Style, bool) {
	st := Style{
		Width: float64(t.Weight),
		Cap:   CapRound,
		Join:  JoinRound,
	}
	switch t.Kind {
	case state.ToolEraser:
		// Only pixel-mode eraser strokes are ever committed.
		st.Composite = DestinationOut
		st.Color = color.NRGBA{A: 0xff}
		return st, true
	case state.ToolHighlighter:
		st.Cap = CapButt
		st.Composite = Multiply
	default:
		st.Composite = SourceOver
	}
	c, err := t.Color.NRGBA()
	if err != nil {
		slog.Warn("skipping stroke with unreadable color", "component", "ink", "color", string(t.Color), "err", err)
		return Style{}, false
	}
	if t.Kind == state.ToolHighlighter && !t.Color.HasAlpha() {
		c.A = highlighterAlpha
	}
	st.Color = c
	return st, true
}
