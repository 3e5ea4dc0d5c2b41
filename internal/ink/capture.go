package ink

import "MyLocalNotes/internal/state"

type PointerKind int

const (
	PointerMouse PointerKind = iota
	PointerPen
	PointerTouch
)

// Button bits, as in a pointer event's buttons mask.
const (
	ButtonPrimary   = 1 << 0
	ButtonSecondary = 1 << 1
	ButtonMiddle    = 1 << 2
)

// PointerEvent is a pointer sample in surface-local logical coordinates.
type PointerEvent struct {
	Kind    PointerKind
	Buttons int
	X, Y    float64
}

func (e PointerEvent) point() state.Point {
	return state.Point{X: e.X, Y: e.Y}
}

// Capture is the per-surface input state machine: Idle until a stylus or
// primary-button press, Drawing until release. It is not safe for concurrent
// use; events for one surface arrive strictly in order.
type Capture struct {
	page   *state.Page
	tools  *state.Registry
	redraw func(candidate *state.Stroke)

	drawing   bool
	start     state.Point
	candidate state.Stroke
	eraseMode state.EraseMode
}

// NewCapture wires a capture to its page. redraw is called after every state
// change with the in-progress stroke, or nil once the gesture has ended.
func NewCapture(page *state.Page, tools *state.Registry, redraw func(candidate *state.Stroke)) *Capture {
	if redraw == nil {
		redraw = func(*state.Stroke) {}
	}
	return &Capture{page: page, tools: tools, redraw: redraw}
}

// Drawing reports whether a gesture is in progress.
func (c *Capture) Drawing() bool { return c.drawing }

// Candidate returns the in-progress stroke, or nil when idle.
func (c *Capture) Candidate() *state.Stroke {
	if !c.drawing {
		return nil
	}
	return &c.candidate
}

// PointerDown starts a gesture. It returns false when the event does not
// qualify. A press while already drawing restarts the gesture.
func (c *Capture) PointerDown(e PointerEvent) bool {
	if e.Kind != PointerPen && e.Buttons != ButtonPrimary {
		return false
	}
	c.drawing = true
	c.start = e.point()
	c.candidate = state.Stroke{
		Tool:   c.tools.Snapshot(),
		Points: []state.Point{c.start},
	}
	c.eraseMode = c.tools.EraseMode()
	return true
}

// PointerMove extends the candidate and repaints. Moves while idle are
// ignored.
func (c *Capture) PointerMove(e PointerEvent) {
	if !c.drawing {
		return
	}
	p := e.point()
	switch {
	case c.strokeErasing():
		c.page.EraseAt(p, float64(c.candidate.Tool.Weight)/2)
	case c.candidate.Tool.Kind == state.ToolHighlighter:
		c.candidate.Points = []state.Point{c.start, p}
	default:
		c.candidate.Points = append(c.candidate.Points, p)
	}
	c.redraw(&c.candidate)
}

// PointerUp ends the gesture, committing the candidate unless it was a
// stroke-mode erase, whose effect already happened during the moves.
func (c *Capture) PointerUp(PointerEvent) {
	if !c.drawing {
		return
	}
	c.drawing = false
	if !c.strokeErasing() {
		c.page.Commit(c.candidate)
	}
	c.candidate = state.Stroke{}
	c.redraw(nil)
}

func (c *Capture) strokeErasing() bool {
	return c.candidate.Tool.Kind == state.ToolEraser && c.eraseMode == state.EraseStroke
}
