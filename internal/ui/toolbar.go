package ui

import (
	"fmt"
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"MyLocalNotes/internal/ink"
	"MyLocalNotes/internal/state"
)

// colorSwatch is one palette entry. The selected swatch gets a heavy border
// in the theme's primary color.
type colorSwatch struct {
	widget.BaseWidget
	Color    state.Color
	Selected bool
	OnTapped func(state.Color)
}

func newColorSwatch(c state.Color, tapped func(state.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	fill, err := s.Color.NRGBA()
	if err != nil {
		slog.Warn("palette color unreadable", "component", "ui", "color", s.Color)
	}
	r := &swatchRenderer{
		swatch: s,
		fill:   canvas.NewRectangle(fill),
		border: canvas.NewRectangle(color.Transparent),
	}
	r.Refresh()
	return r
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

type swatchRenderer struct {
	swatch *colorSwatch
	fill   *canvas.Rectangle
	border *canvas.Rectangle
}

func (r *swatchRenderer) Layout(size fyne.Size) {
	r.fill.Resize(size)
	r.border.Resize(size)
}

func (r *swatchRenderer) MinSize() fyne.Size { return fyne.NewSize(28, 28) }

func (r *swatchRenderer) Refresh() {
	if r.swatch.Selected {
		r.border.StrokeColor = theme.Color(theme.ColorNamePrimary)
		r.border.StrokeWidth = 3
	} else {
		r.border.StrokeColor = color.Gray{Y: 150}
		r.border.StrokeWidth = 1
	}
	r.fill.Refresh()
	r.border.Refresh()
}

func (r *swatchRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.fill, r.border}
}

func (r *swatchRenderer) Destroy() {}

// Toolbar edits the tool registry and triggers editor-wide actions.
type Toolbar struct {
	tools   *state.Registry
	editor  *ink.Editor
	actions Actions

	slots    []*widget.Button
	palette  *fyne.Container
	swatches []*colorSwatch
	weight  *widget.Slider
	erase   *widget.RadioGroup
	object  fyne.CanvasObject
}

func slotLabel(t state.Tool, i int) string {
	switch t.Kind {
	case state.ToolPen:
		return fmt.Sprintf("Pen %d", i+1)
	case state.ToolHighlighter:
		return "Highlighter"
	default:
		return "Eraser"
	}
}

func NewToolbar(ed *ink.Editor, actions Actions) *Toolbar {
	tb := &Toolbar{tools: ed.Tools, editor: ed, actions: actions}

	slotBox := container.NewHBox()
	for i := 0; i < tb.tools.Len(); i++ {
		b := widget.NewButton(slotLabel(tb.tools.Tool(i), i), func() { tb.Select(i) })
		tb.slots = append(tb.slots, b)
		slotBox.Add(b)
	}

	tb.palette = container.NewHBox()

	tb.weight = widget.NewSlider(1, 50)
	tb.weight.Step = 1
	tb.weight.OnChanged = func(v float64) {
		if int(v) >= 1 {
			tb.tools.SetWeight(int(v))
		}
	}
	weightBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), tb.weight)

	tb.erase = widget.NewRadioGroup([]string{string(state.ErasePixel), string(state.EraseStroke)}, func(v string) {
		if m := state.EraseMode(v); m.Valid() {
			tb.tools.SetEraseMode(m)
		}
	})
	tb.erase.Horizontal = true
	tb.erase.Required = true
	tb.erase.SetSelected(string(tb.tools.EraseMode()))

	actionBar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() { tb.editor.Undo() }),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() { tb.editor.Redo() }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), tb.run(actions.Save)),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), tb.run(actions.Export)),
		widget.NewToolbarAction(theme.MailForwardIcon(), tb.run(actions.Share)),
	)

	tb.object = container.NewHBox(
		slotBox,
		widget.NewSeparator(),
		tb.palette,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		weightBox,
		widget.NewSeparator(),
		tb.erase,
		layout.NewSpacer(),
		actionBar,
	)
	tb.Select(tb.tools.Active())
	return tb
}

func (tb *Toolbar) Object() fyne.CanvasObject { return tb.object }

// Select makes slot i current and shows its palette and weight.
func (tb *Toolbar) Select(i int) {
	tb.tools.Select(i)
	for j, b := range tb.slots {
		if j == i {
			b.Importance = widget.HighImportance
		} else {
			b.Importance = widget.MediumImportance
		}
		b.Refresh()
	}

	tb.palette.RemoveAll()
	tb.swatches = nil
	if tb.tools.Snapshot().Kind != state.ToolEraser {
		for _, c := range tb.tools.Palette() {
			sw := newColorSwatch(c, tb.pickColor)
			tb.swatches = append(tb.swatches, sw)
			tb.palette.Add(sw)
		}
	}
	tb.markColor()
	tb.palette.Refresh()

	tb.weight.SetValue(float64(tb.tools.Snapshot().Weight))
	if tb.tools.Snapshot().Kind == state.ToolEraser {
		tb.erase.Enable()
	} else {
		tb.erase.Disable()
	}
}

func (tb *Toolbar) pickColor(c state.Color) {
	tb.tools.SetColor(c)
	tb.markColor()
}

// markColor selects the swatch matching the active tool's color.
func (tb *Toolbar) markColor() {
	active := tb.tools.Snapshot().Color
	for _, sw := range tb.swatches {
		sw.Selected = sw.Color == active
		sw.Refresh()
	}
}

func (tb *Toolbar) run(f func()) func() {
	if f == nil {
		return func() {}
	}
	return f
}
