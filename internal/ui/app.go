// Package ui is the fyne desktop shell around an editor: one widget per page
// in a scrolling column, a toolbar and a status line.
package ui

import (
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"MyLocalNotes/internal/ink"
)

const appID = "io.localnotes.app"

// Actions are the toolbar commands that reach outside the editor. Nil
// entries do nothing.
type Actions struct {
	Save   func()
	Export func()
	Share  func()
}

type App struct {
	fyne   fyne.App
	win    fyne.Window
	status *widget.Label
	pads   []*PadWidget
}

func NewApp(title string) *App {
	return newApp(app.NewWithID(appID), title)
}

func newApp(fa fyne.App, title string) *App {
	a := &App{fyne: fa, status: widget.NewLabel("Ready")}
	a.win = fa.NewWindow(title)
	a.win.Resize(fyne.NewSize(1024, 768))
	a.win.SetContent(container.NewCenter(widget.NewLabel("Opening...")))
	return a
}

func (a *App) Window() fyne.Window { return a.win }

func (a *App) SetStatus(text string) { a.status.SetText(text) }

// ShowError reports err in a dialog and on the status line.
func (a *App) ShowError(err error) {
	a.status.SetText(err.Error())
	dialog.ShowError(err, a.win)
}

// ShowEditor lays out ed's pages. pages[i] is the surface of ed.Pad(i). A
// read-only editor gets no toolbar and ignores input.
func (a *App) ShowEditor(ed *ink.Editor, pages []Page, readOnly bool, actions Actions) {
	a.pads = a.pads[:0]
	column := container.NewVBox()
	for i, p := range ed.Pads() {
		w := NewPadWidget(p, pages[i], readOnly)
		a.pads = append(a.pads, w)
		column.Add(container.NewCenter(w))
	}
	ed.OnPaint = func(p *ink.Pad) {
		if p.Index < len(a.pads) {
			a.pads[p.Index].Refresh()
		}
	}

	var top fyne.CanvasObject
	if !readOnly {
		top = NewToolbar(ed, actions).Object()
		a.bindShortcuts(ed)
	}
	a.win.SetContent(container.NewBorder(top, a.status, nil, nil, container.NewVScroll(column)))
}

func (a *App) bindShortcuts(ed *ink.Editor) {
	c := a.win.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { ed.Undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { ed.Redo() })
}

// Post runs f on the UI goroutine. Network goroutines hand their results
// over through it.
func (a *App) Post(f func()) { fyne.Do(f) }

// ShowLink tells the user where viewers can connect and copies the link.
func (a *App) ShowLink(link string) {
	a.win.Clipboard().SetContent(link)
	a.status.SetText("Sharing at " + link)
	dialog.ShowInformation("Sharing", fmt.Sprintf("Viewers can open\n%s\n(copied to clipboard)", link), a.win)
}

// SaveAs asks for a destination file and hands it to write.
func (a *App) SaveAs(name string, write func(io.Writer) error) {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			a.ShowError(err)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()
		if err := write(w); err != nil {
			a.ShowError(err)
			return
		}
		a.status.SetText("Wrote " + w.URI().Name())
	}, a.win)
	d.SetFileName(name)
	d.Show()
}

// Run shows the window and blocks until it is closed.
func (a *App) Run() {
	a.win.ShowAndRun()
}
