package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"MyLocalNotes/internal/document"
	"MyLocalNotes/internal/ink"
)

// Page is what a PadWidget shows: a background and a transparent overlay at
// backing resolution.
type Page interface {
	document.Target
	Overlay() *image.RGBA
}

// PadWidget shows one page and feeds mouse and stylus input to its pad.
type PadWidget struct {
	widget.BaseWidget
	pad      *ink.Pad
	page     Page
	readOnly bool

	mouseDown bool
}

var _ fyne.Widget = (*PadWidget)(nil)
var _ fyne.Draggable = (*PadWidget)(nil)
var _ desktop.Mouseable = (*PadWidget)(nil)

func NewPadWidget(pad *ink.Pad, page Page, readOnly bool) *PadWidget {
	w := &PadWidget{pad: pad, page: page, readOnly: readOnly}
	w.ExtendBaseWidget(w)
	return w
}

// event maps a widget position to page coordinates.
func (w *PadWidget) event(pos fyne.Position, kind ink.PointerKind, buttons int) ink.PointerEvent {
	size := w.Size()
	x, y := float64(pos.X), float64(pos.Y)
	if size.Width > 0 && size.Height > 0 {
		x *= w.pad.Width / float64(size.Width)
		y *= w.pad.Height / float64(size.Height)
	}
	return ink.PointerEvent{Kind: kind, Buttons: buttons, X: x, Y: y}
}

func buttonsOf(b desktop.MouseButton) int {
	var out int
	if b&desktop.MouseButtonPrimary != 0 {
		out |= ink.ButtonPrimary
	}
	if b&desktop.MouseButtonSecondary != 0 {
		out |= ink.ButtonSecondary
	}
	if b&desktop.MouseButtonTertiary != 0 {
		out |= ink.ButtonMiddle
	}
	return out
}

func (w *PadWidget) MouseDown(e *desktop.MouseEvent) {
	if w.readOnly {
		return
	}
	w.mouseDown = true
	w.pad.PointerDown(w.event(e.Position, ink.PointerMouse, buttonsOf(e.Button)))
}

func (w *PadWidget) MouseUp(e *desktop.MouseEvent) {
	w.mouseDown = false
	if w.readOnly || !w.pad.Drawing() {
		return
	}
	w.pad.PointerUp(w.event(e.Position, ink.PointerMouse, 0))
}

// Dragged also covers touch screens, where no MouseDown arrives first. A
// drag started with a non-primary mouse button never draws.
func (w *PadWidget) Dragged(e *fyne.DragEvent) {
	if w.readOnly {
		return
	}
	if !w.pad.Drawing() {
		if w.mouseDown {
			return
		}
		start := e.Position.Subtract(e.Dragged)
		w.pad.PointerDown(w.event(start, ink.PointerTouch, ink.ButtonPrimary))
	}
	w.pad.PointerMove(w.event(e.Position, ink.PointerTouch, ink.ButtonPrimary))
}

func (w *PadWidget) DragEnd() {
	if w.readOnly || !w.pad.Drawing() {
		return
	}
	w.pad.PointerUp(ink.PointerEvent{Kind: ink.PointerTouch})
}

func (w *PadWidget) MinSize() fyne.Size {
	return fyne.NewSize(float32(w.pad.Width), float32(w.pad.Height))
}

func (w *PadWidget) CreateRenderer() fyne.WidgetRenderer {
	w.ExtendBaseWidget(w)
	bg := canvas.NewImageFromImage(w.page.Background())
	bg.FillMode = canvas.ImageFillStretch
	bg.ScaleMode = canvas.ImageScaleSmooth
	overlay := canvas.NewImageFromImage(w.page.Overlay())
	overlay.FillMode = canvas.ImageFillStretch
	overlay.ScaleMode = canvas.ImageScaleSmooth
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1
	return &padRenderer{w: w, bg: bg, overlay: overlay, border: border}
}

type padRenderer struct {
	w       *PadWidget
	bg      *canvas.Image
	overlay *canvas.Image
	border  *canvas.Rectangle
}

func (r *padRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.overlay, r.border}
}

func (r *padRenderer) Layout(size fyne.Size) {
	for _, o := range r.Objects() {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(size)
	}
}

func (r *padRenderer) MinSize() fyne.Size { return r.w.MinSize() }

func (r *padRenderer) Refresh() {
	r.overlay.Refresh()
}

func (r *padRenderer) Destroy() {}
