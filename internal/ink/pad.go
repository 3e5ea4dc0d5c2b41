package ink

import (
	"fmt"

	"MyLocalNotes/internal/state"
)

// Pad is one drawable page: its stroke history, its surface and the input
// capture feeding it.
type Pad struct {
	Index   int
	Page    *state.Page
	Width   float64
	Height  float64
	surface Surface
	capture *Capture
	editor  *Editor
}

// Surface returns the overlay the pad paints on.
func (p *Pad) Surface() Surface { return p.surface }

// Candidate returns the in-progress stroke, or nil.
func (p *Pad) Candidate() *state.Stroke { return p.capture.Candidate() }

// Drawing reports whether a gesture is in progress on this page.
func (p *Pad) Drawing() bool { return p.capture.Drawing() }

// Redraw repaints the committed history plus any in-progress stroke.
func (p *Pad) Redraw() {
	Render(p.surface, p.Page.Strokes, p.capture.Candidate())
	p.editor.painted(p)
}

func (p *Pad) PointerDown(e PointerEvent) {
	if p.capture.PointerDown(e) {
		p.editor.active = p.Index
	}
}

func (p *Pad) PointerMove(e PointerEvent) {
	rev := p.Page.Rev()
	p.capture.PointerMove(e)
	p.notifyIfChanged(rev)
}

func (p *Pad) PointerUp(e PointerEvent) {
	rev := p.Page.Rev()
	p.capture.PointerUp(e)
	p.notifyIfChanged(rev)
}

// Undo reverts the newest stroke on this page and repaints.
func (p *Pad) Undo() bool {
	if !p.Page.Undo() {
		return false
	}
	p.Redraw()
	p.editor.changed(p)
	return true
}

// Redo reapplies the last undone stroke on this page and repaints.
func (p *Pad) Redo() bool {
	if !p.Page.Redo() {
		return false
	}
	p.Redraw()
	p.editor.changed(p)
	return true
}

// Restore replaces the page history wholesale and repaints.
func (p *Pad) Restore(rec state.PageRecord) error {
	q, err := state.PageFromRecord(rec)
	if err != nil {
		return err
	}
	p.Page.Replace(q.Strokes, q.RedoStack)
	p.Redraw()
	p.editor.changed(p)
	return nil
}

func (p *Pad) notifyIfChanged(rev uint64) {
	if p.Page.Rev() != rev {
		p.editor.changed(p)
	}
}

// Editor is the application state for one open document: the tool registry,
// the pads in document order and the page that undo and redo act on.
type Editor struct {
	Tools *state.Registry

	// OnChange is called after a page's committed history changes.
	OnChange func(p *Pad)
	// OnPaint is called after a pad has been repainted.
	OnPaint func(p *Pad)

	pads   []*Pad
	active int
}

func NewEditor(tools *state.Registry) *Editor {
	return &Editor{Tools: tools}
}

// AddPage appends a pad for a new page drawing onto s. Pages are numbered in
// the order they are added.
func (e *Editor) AddPage(width, height float64, s Surface) *Pad {
	p := &Pad{
		Index:   len(e.pads),
		Page:    state.NewPage(),
		Width:   width,
		Height:  height,
		surface: s,
		editor:  e,
	}
	p.capture = NewCapture(p.Page, e.Tools, func(*state.Stroke) { p.Redraw() })
	e.pads = append(e.pads, p)
	return p
}

func (e *Editor) Pads() []*Pad { return e.pads }

func (e *Editor) Len() int { return len(e.pads) }

// Pad returns page i. Out-of-range indexes panic.
func (e *Editor) Pad(i int) *Pad {
	if i < 0 || i >= len(e.pads) {
		panic(fmt.Sprintf("ink: page index %d out of range [0,%d)", i, len(e.pads)))
	}
	return e.pads[i]
}

// Active returns the index of the page undo and redo act on.
func (e *Editor) Active() int { return e.active }

func (e *Editor) SetActive(i int) {
	e.Pad(i)
	e.active = i
}

// Undo reverts the newest stroke on the active page.
func (e *Editor) Undo() bool {
	if len(e.pads) == 0 {
		return false
	}
	return e.pads[e.active].Undo()
}

// Redo reapplies the last undone stroke on the active page.
func (e *Editor) Redo() bool {
	if len(e.pads) == 0 {
		return false
	}
	return e.pads[e.active].Redo()
}

// Records captures every page's history in document order.
func (e *Editor) Records(withRedo bool) []state.PageRecord {
	recs := make([]state.PageRecord, len(e.pads))
	for i, p := range e.pads {
		recs[i] = p.Page.Record(withRedo)
	}
	return recs
}

func (e *Editor) changed(p *Pad) {
	if e.OnChange != nil {
		e.OnChange(p)
	}
}

func (e *Editor) painted(p *Pad) {
	if e.OnPaint != nil {
		e.OnPaint(p)
	}
}
