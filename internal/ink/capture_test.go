package ink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MyLocalNotes/internal/state"
)

const (
	slotBlackPen    = 0
	slotHighlighter = 3
	slotEraser      = 4
)

func mouse(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerMouse, Buttons: ButtonPrimary, X: x, Y: y}
}

type captureFixture struct {
	page    *state.Page
	tools   *state.Registry
	capture *Capture
	redraws []*state.Stroke
}

func newCaptureFixture(slot int, mode state.EraseMode) *captureFixture {
	f := &captureFixture{
		page:  state.NewPage(),
		tools: state.NewRegistry(state.DefaultTools(), mode),
	}
	f.tools.Select(slot)
	f.capture = NewCapture(f.page, f.tools, func(c *state.Stroke) {
		f.redraws = append(f.redraws, c)
	})
	return f
}

func TestPenScenario(t *testing.T) {
	f := newCaptureFixture(slotBlackPen, state.ErasePixel)

	require.True(t, f.capture.PointerDown(mouse(10, 10)))
	f.capture.PointerMove(mouse(20, 10))
	f.capture.PointerMove(mouse(30, 15))
	f.capture.PointerUp(mouse(30, 15))

	require.Len(t, f.page.Strokes, 1)
	assert.Equal(t, pts(10, 10, 20, 10, 30, 15), f.page.Strokes[0].Points)
	assert.Equal(t, state.Tool{Kind: state.ToolPen, Color: "#000000", Weight: 3}, f.page.Strokes[0].Tool)
	assert.Empty(t, f.page.RedoStack)

	require.True(t, f.page.Undo())
	assert.Empty(t, f.page.Strokes)
	assert.Len(t, f.page.RedoStack, 1)

	require.True(t, f.page.Redo())
	assert.Len(t, f.page.Strokes, 1)
	assert.Empty(t, f.page.RedoStack)
}

func TestPenPointsGrowByOnePerMove(t *testing.T) {
	f := newCaptureFixture(slotBlackPen, state.ErasePixel)
	f.capture.PointerDown(mouse(0, 0))

	for n := 1; n <= 25; n++ {
		f.capture.PointerMove(mouse(float64(n), float64(n%3)))
		require.Len(t, f.capture.Candidate().Points, n+1)
	}
}

func TestHighlighterAlwaysHoldsTwoPoints(t *testing.T) {
	f := newCaptureFixture(slotHighlighter, state.ErasePixel)
	f.capture.PointerDown(mouse(5, 5))

	for _, ev := range []PointerEvent{mouse(10, 5), mouse(40, 8), mouse(12, 30)} {
		f.capture.PointerMove(ev)
		assert.Equal(t, []state.Point{{X: 5, Y: 5}, {X: ev.X, Y: ev.Y}}, f.capture.Candidate().Points)
	}
	f.capture.PointerUp(mouse(12, 30))
	assert.Len(t, f.page.Strokes[0].Points, 2)
}

func TestDownRequiresStylusOrPrimaryButton(t *testing.T) {
	f := newCaptureFixture(slotBlackPen, state.ErasePixel)

	assert.False(t, f.capture.PointerDown(PointerEvent{Kind: PointerMouse, Buttons: ButtonSecondary}))
	assert.False(t, f.capture.PointerDown(PointerEvent{Kind: PointerTouch}))
	assert.False(t, f.capture.Drawing())

	assert.True(t, f.capture.PointerDown(PointerEvent{Kind: PointerPen}))
	assert.True(t, f.capture.Drawing())
}

func TestEventsWhileIdleAreIgnored(t *testing.T) {
	f := newCaptureFixture(slotBlackPen, state.ErasePixel)

	f.capture.PointerMove(mouse(1, 1))
	f.capture.PointerUp(mouse(1, 1))

	assert.Empty(t, f.page.Strokes)
	assert.Empty(t, f.redraws)
	assert.Nil(t, f.capture.Candidate())
}

func TestRedrawCarriesCandidateThenNil(t *testing.T) {
	f := newCaptureFixture(slotBlackPen, state.ErasePixel)
	f.capture.PointerDown(mouse(0, 0))
	f.capture.PointerMove(mouse(1, 1))
	f.capture.PointerUp(mouse(1, 1))

	require.Len(t, f.redraws, 2)
	assert.NotNil(t, f.redraws[0])
	assert.Nil(t, f.redraws[1])
}

func TestToolEditsDoNotReachCommittedStrokes(t *testing.T) {
	f := newCaptureFixture(slotBlackPen, state.ErasePixel)
	f.capture.PointerDown(mouse(0, 0))
	f.tools.SetColor("#ff0000")
	f.capture.PointerMove(mouse(1, 1))
	f.capture.PointerUp(mouse(1, 1))
	f.tools.SetWeight(12)

	assert.Equal(t, state.Color("#000000"), f.page.Strokes[0].Tool.Color)
	assert.Equal(t, 3, f.page.Strokes[0].Tool.Weight)
}

func TestCommitClearsRedoThroughCapture(t *testing.T) {
	f := newCaptureFixture(slotBlackPen, state.ErasePixel)
	draw := func(x float64) {
		f.capture.PointerDown(mouse(x, 0))
		f.capture.PointerMove(mouse(x, 10))
		f.capture.PointerUp(mouse(x, 10))
	}
	draw(0)
	f.page.Undo()
	draw(50)

	assert.Empty(t, f.page.RedoStack)
	require.Len(t, f.page.Strokes, 1)
	assert.Equal(t, 50.0, f.page.Strokes[0].Points[0].X)
}

func TestStrokeEraseRemovesLiveAndDiscardsCandidate(t *testing.T) {
	f := newCaptureFixture(slotBlackPen, state.EraseStroke)
	f.page.Commit(state.Stroke{Tool: pen, Points: pts(0, 0, 100, 0)})
	f.page.Commit(state.Stroke{Tool: pen, Points: pts(0, 80, 100, 80)})

	f.tools.Select(slotEraser)
	f.capture.PointerDown(mouse(200, 200))
	f.capture.PointerMove(mouse(105, 3))

	require.Len(t, f.page.Strokes, 1, "erasure happens during the move")
	assert.Len(t, f.capture.Candidate().Points, 1, "stroke eraser never grows")

	f.capture.PointerUp(mouse(105, 3))
	assert.Len(t, f.page.Strokes, 1)
	assert.Equal(t, 80.0, f.page.Strokes[0].Points[0].Y)
	assert.Empty(t, f.page.RedoStack)
}

func TestPixelEraseIsCommittedLikeAPen(t *testing.T) {
	f := newCaptureFixture(slotBlackPen, state.ErasePixel)
	f.page.Commit(state.Stroke{Tool: pen, Points: pts(0, 0, 100, 0)})

	f.tools.Select(slotEraser)
	f.capture.PointerDown(mouse(100, 0))
	f.capture.PointerMove(mouse(101, 0))
	f.capture.PointerMove(mouse(102, 0))
	f.capture.PointerUp(mouse(102, 0))

	require.Len(t, f.page.Strokes, 2)
	assert.Equal(t, state.ToolEraser, f.page.Strokes[1].Tool.Kind)
	assert.Len(t, f.page.Strokes[1].Points, 3)

	require.True(t, f.page.Undo())
	assert.Len(t, f.page.Strokes, 1)
}

func TestEraseModeIsFixedForTheGesture(t *testing.T) {
	f := newCaptureFixture(slotEraser, state.ErasePixel)
	f.page.Commit(state.Stroke{Tool: pen, Points: pts(0, 0, 1, 0)})

	f.capture.PointerDown(mouse(0, 0))
	f.tools.SetEraseMode(state.EraseStroke)
	f.capture.PointerMove(mouse(0, 1))
	f.capture.PointerUp(mouse(0, 1))

	assert.Len(t, f.page.Strokes, 2)
}

func TestDownWhileDrawingRestarts(t *testing.T) {
	f := newCaptureFixture(slotBlackPen, state.ErasePixel)
	f.capture.PointerDown(mouse(0, 0))
	f.capture.PointerMove(mouse(1, 1))
	f.capture.PointerDown(mouse(50, 50))

	assert.Equal(t, pts(50, 50), f.capture.Candidate().Points)
	assert.Empty(t, f.page.Strokes)
}
