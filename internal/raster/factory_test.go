package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MyLocalNotes/internal/document"
	"MyLocalNotes/internal/ink"
	"MyLocalNotes/internal/state"
)

func openBlank(t *testing.T) *ink.Editor {
	t.Helper()
	tools := state.NewRegistry(state.DefaultTools(), state.ErasePixel)
	ed, err := document.Open(document.Blank{Pages: 2, Width: 120, Height: 80}, nil, Factory{Scale: 2}, tools, document.Options{})
	require.NoError(t, err)
	return ed
}

func drag(p *ink.Pad, pts ...state.Point) {
	ev := func(q state.Point) ink.PointerEvent {
		return ink.PointerEvent{Kind: ink.PointerPen, X: q.X, Y: q.Y}
	}
	p.PointerDown(ev(pts[0]))
	for _, q := range pts[1:] {
		p.PointerMove(ev(q))
	}
	p.PointerUp(ev(pts[len(pts)-1]))
}

func TestSavedHistoryRendersIdentically(t *testing.T) {
	ed := openBlank(t)
	pad := ed.Pad(1)
	drag(pad, state.Point{X: 10, Y: 10}, state.Point{X: 40, Y: 30}, state.Point{X: 70, Y: 20}, state.Point{X: 100, Y: 60})
	ed.Tools.Select(3)
	drag(pad, state.Point{X: 5, Y: 40}, state.Point{X: 60, Y: 42}, state.Point{X: 110, Y: 45})
	ed.Tools.Select(4)
	drag(pad, state.Point{X: 40, Y: 30}, state.Point{X: 45, Y: 35}, state.Point{X: 50, Y: 40})

	data, err := state.MarshalPages(ed.Records(true))
	require.NoError(t, err)
	recs, err := state.UnmarshalPages(data)
	require.NoError(t, err)

	copyEd := openBlank(t)
	require.NoError(t, document.Restore(copyEd, recs))

	orig := pad.Surface().(*Canvas)
	restored := copyEd.Pad(1).Surface().(*Canvas)
	assert.Equal(t, orig.Overlay().Pix, restored.Overlay().Pix)
	assert.Equal(t, orig.Composite().Pix, restored.Composite().Pix)
}

func TestUndoRestoresPreviousPixels(t *testing.T) {
	ed := openBlank(t)
	pad := ed.Pad(0)
	drag(pad, state.Point{X: 10, Y: 10}, state.Point{X: 50, Y: 50})
	before := append([]uint8(nil), pad.Surface().(*Canvas).Overlay().Pix...)

	drag(pad, state.Point{X: 10, Y: 60}, state.Point{X: 100, Y: 60})
	require.True(t, ed.Undo())

	assert.Equal(t, before, pad.Surface().(*Canvas).Overlay().Pix)
}
