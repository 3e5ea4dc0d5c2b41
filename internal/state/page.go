package state

import "math"

// Page is the ordered stroke history of one document page plus its redo stack.
// A page is only ever mutated from the goroutine handling its pointer events.
type Page struct {
	Strokes   []Stroke
	RedoStack []Stroke

	rev Clock
}

func NewPage() *Page { return &Page{} }

// Rev returns the page revision; it changes on every mutation.
func (p *Page) Rev() uint64 { return p.rev.Now() }

// Commit appends s to the history. Any redo history is dropped.
func (p *Page) Commit(s Stroke) {
	p.Strokes = append(p.Strokes, s)
	p.RedoStack = nil
	p.rev.Tick()
}

// Undo moves the newest stroke onto the redo stack.
func (p *Page) Undo() bool {
	n := len(p.Strokes)
	if n == 0 {
		return false
	}
	p.RedoStack = append(p.RedoStack, p.Strokes[n-1])
	p.Strokes = p.Strokes[:n-1]
	p.rev.Tick()
	return true
}

// Redo restores the most recently undone stroke.
func (p *Page) Redo() bool {
	n := len(p.RedoStack)
	if n == 0 {
		return false
	}
	p.Strokes = append(p.Strokes, p.RedoStack[n-1])
	p.RedoStack = p.RedoStack[:n-1]
	p.rev.Tick()
	return true
}

// EraseAt removes every committed stroke having a point closer than radius
// to at. Only at itself is tested, not the path leading to it. Removed strokes
// are gone for good: they are not pushed onto the redo stack.
func (p *Page) EraseAt(at Point, radius float64) int {
	kept := p.Strokes[:0]
	removed := 0
	for _, s := range p.Strokes {
		if hits(s, at, radius) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(p.Strokes); i++ {
		p.Strokes[i] = Stroke{}
	}
	p.Strokes = kept
	if removed > 0 {
		p.rev.Tick()
	}
	return removed
}

// Replace swaps in a whole history, used when restoring or mirroring a page.
func (p *Page) Replace(strokes, redo []Stroke) {
	p.Strokes = strokes
	p.RedoStack = redo
	p.rev.Tick()
}

func hits(s Stroke, at Point, radius float64) bool {
	if !s.Bounds().Grow(radius).Contains(at) {
		return false
	}
	for _, q := range s.Points {
		if math.Hypot(q.X-at.X, q.Y-at.Y) < radius {
			return true
		}
	}
	return false
}
