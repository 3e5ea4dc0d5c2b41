package state

import "fmt"

// Fixed color palettes offered for the active tool.
var (
	PenPalette = []Color{
		"#add8e6", "#00008b", "#000000", "#ff0000", "#90ee90",
		"#006400", "#e6e6fa", "#800080", "#ffa500", "#40e0d0",
	}
	HighlighterPalette = []Color{
		"#ffff00", "#ffa500", "#90ee90", "#add8e6", "#ffc0cb",
	}
)

// DefaultTools returns the stock tool slots: three pens, a highlighter and an eraser.
func DefaultTools() []Tool {
	return []Tool{
		{Kind: ToolPen, Color: "#000000", Weight: 3},
		{Kind: ToolPen, Color: "#0000ff", Weight: 3},
		{Kind: ToolPen, Color: "#ff0000", Weight: 3},
		{Kind: ToolHighlighter, Color: "rgba(255, 255, 0, 0.5)", Weight: 30},
		{Kind: ToolEraser, Weight: 20},
	}
}

// Registry holds the fixed tool slots and the current selection.
// Only the active slot is ever edited; strokes carry their own copy.
type Registry struct {
	tools     []Tool
	active    int
	eraseMode EraseMode
}

// NewRegistry creates a registry over a copy of tools. It panics on an
// empty slot list.
func NewRegistry(tools []Tool, mode EraseMode) *Registry {
	if len(tools) == 0 {
		panic("state: registry needs at least one tool")
	}
	if !mode.Valid() {
		mode = ErasePixel
	}
	slots := make([]Tool, len(tools))
	copy(slots, tools)
	return &Registry{tools: slots, eraseMode: mode}
}

func (r *Registry) Len() int { return len(r.tools) }

// Tool returns a copy of slot i.
func (r *Registry) Tool(i int) Tool {
	r.check(i)
	return r.tools[i]
}

// Select makes slot i active. Out-of-range indexes panic.
func (r *Registry) Select(i int) {
	r.check(i)
	r.active = i
}

func (r *Registry) Active() int { return r.active }

// Snapshot copies the active tool for attaching to a new stroke.
func (r *Registry) Snapshot() Tool {
	return r.tools[r.active]
}

// SetWeight stores w unchecked; the toolbar slider keeps it at one or more.
func (r *Registry) SetWeight(w int) {
	r.tools[r.active].Weight = w
}

func (r *Registry) SetColor(c Color) {
	r.tools[r.active].Color = c
}

// Palette returns the colors offered for the active tool.
func (r *Registry) Palette() []Color {
	if r.tools[r.active].Kind == ToolHighlighter {
		return HighlighterPalette
	}
	return PenPalette
}

func (r *Registry) EraseMode() EraseMode { return r.eraseMode }

func (r *Registry) SetEraseMode(m EraseMode) {
	if !m.Valid() {
		panic(fmt.Sprintf("state: unknown erase mode %q", m))
	}
	r.eraseMode = m
}

func (r *Registry) check(i int) {
	if i < 0 || i >= len(r.tools) {
		panic(fmt.Sprintf("state: tool index %d out of range [0,%d)", i, len(r.tools)))
	}
}
