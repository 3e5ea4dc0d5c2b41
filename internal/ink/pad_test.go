package ink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MyLocalNotes/internal/state"
)

func newTestEditor(pages int) (*Editor, []*recorder) {
	e := NewEditor(state.NewRegistry(state.DefaultTools(), state.ErasePixel))
	recs := make([]*recorder, pages)
	for i := range recs {
		recs[i] = &recorder{}
		e.AddPage(816, 1056, recs[i])
	}
	return e, recs
}

func stroke(p *Pad, xs ...float64) {
	p.PointerDown(mouse(xs[0], 0))
	for _, x := range xs[1:] {
		p.PointerMove(mouse(x, 0))
	}
	p.PointerUp(mouse(xs[len(xs)-1], 0))
}

func TestEditorUndoActsOnActivePageOnly(t *testing.T) {
	e, _ := newTestEditor(2)
	stroke(e.Pad(0), 0, 10)
	stroke(e.Pad(1), 0, 10)
	require.Equal(t, 1, e.Active())

	require.True(t, e.Undo())
	assert.Len(t, e.Pad(0).Page.Strokes, 1)
	assert.Empty(t, e.Pad(1).Page.Strokes)

	e.SetActive(0)
	require.True(t, e.Undo())
	assert.Empty(t, e.Pad(0).Page.Strokes)
	assert.Len(t, e.Pad(1).Page.RedoStack, 1)

	require.True(t, e.Redo())
	assert.Len(t, e.Pad(0).Page.Strokes, 1)
	assert.Len(t, e.Pad(1).Page.RedoStack, 1)
}

func TestUndoOnEmptyPageDoesNotRepaint(t *testing.T) {
	e, recs := newTestEditor(1)
	assert.False(t, e.Undo())
	assert.False(t, e.Redo())
	assert.Empty(t, recs[0].ops)
}

func TestUndoRepaintsWithoutTheStroke(t *testing.T) {
	e, recs := newTestEditor(1)
	stroke(e.Pad(0), 0, 10, 20)
	recs[0].reset()

	e.Undo()
	assert.Equal(t, []string{"clear"}, recs[0].ops)

	recs[0].reset()
	e.Redo()
	assert.Contains(t, recs[0].ops, "stroke")
}

func TestEveryMoveRepaintsFromScratch(t *testing.T) {
	e, recs := newTestEditor(1)
	p := e.Pad(0)
	stroke(p, 0, 10)
	recs[0].reset()

	p.PointerDown(mouse(0, 50))
	p.PointerMove(mouse(10, 50))
	p.PointerMove(mouse(20, 50))

	clears, strokes := 0, 0
	for _, op := range recs[0].ops {
		switch op {
		case "clear":
			clears++
		case "stroke":
			strokes++
		}
	}
	assert.Equal(t, 2, clears)
	assert.Equal(t, 4, strokes, "history and candidate on each move")
}

func TestOnChangeFiresForHistoryMutations(t *testing.T) {
	e, _ := newTestEditor(1)
	var changes []int
	e.OnChange = func(p *Pad) { changes = append(changes, p.Index) }
	p := e.Pad(0)

	p.PointerDown(mouse(0, 0))
	p.PointerMove(mouse(5, 0))
	assert.Empty(t, changes, "candidate moves are not history changes")
	p.PointerUp(mouse(5, 0))
	assert.Len(t, changes, 1)

	e.Undo()
	e.Redo()
	e.Undo()
	e.Undo()
	assert.Len(t, changes, 4)
}

func TestOnChangeFiresForStrokeErase(t *testing.T) {
	e, _ := newTestEditor(1)
	p := e.Pad(0)
	stroke(p, 0, 10)
	changes := 0
	e.OnChange = func(*Pad) { changes++ }

	e.Tools.SetEraseMode(state.EraseStroke)
	e.Tools.Select(4)
	p.PointerDown(mouse(100, 100))
	p.PointerMove(mouse(10, 1))
	p.PointerUp(mouse(10, 1))

	assert.Empty(t, p.Page.Strokes)
	assert.Equal(t, 1, changes)
}

func TestRestoreAndRecords(t *testing.T) {
	e, recs := newTestEditor(2)
	stroke(e.Pad(1), 0, 10, 20)
	saved := e.Records(true)

	f, _ := newTestEditor(2)
	for i, rec := range saved {
		require.NoError(t, f.Pad(i).Restore(rec))
	}
	assert.Equal(t, e.Pad(1).Page.Strokes, f.Pad(1).Page.Strokes)

	a := &recorder{}
	b := &recorder{}
	Render(a, e.Pad(1).Page.Strokes, nil)
	Render(b, f.Pad(1).Page.Strokes, nil)
	assert.Equal(t, a.ops, b.ops)
	assert.NotEmpty(t, recs[1].ops)
}

func TestPadIndexOutOfRangePanics(t *testing.T) {
	e, _ := newTestEditor(1)
	assert.Panics(t, func() { e.Pad(1) })
	assert.Panics(t, func() { e.SetActive(-1) })
}
