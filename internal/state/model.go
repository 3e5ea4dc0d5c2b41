package state

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

type ToolKind string

const (
	ToolPen         ToolKind = "pen"
	ToolHighlighter ToolKind = "highlighter"
	ToolEraser      ToolKind = "eraser"
)

func (k ToolKind) Valid() bool {
	switch k {
	case ToolPen, ToolHighlighter, ToolEraser:
		return true
	}
	return false
}

// EraseMode selects how an eraser gesture is applied to a page.
type EraseMode string

const (
	// ErasePixel stores the gesture as a stroke that clears overlay pixels.
	ErasePixel EraseMode = "pixel"
	// EraseStroke removes whole committed strokes under the cursor.
	EraseStroke EraseMode = "stroke"
)

func (m EraseMode) Valid() bool {
	return m == ErasePixel || m == EraseStroke
}

// Color is a CSS-style color string: "#rrggbb", "#rrggbbaa" or "rgba(r, g, b, a)".
type Color string

// HasAlpha reports whether the color spells out its own alpha channel.
func (c Color) HasAlpha() bool {
	s := strings.TrimSpace(string(c))
	if strings.HasPrefix(s, "rgba(") {
		return true
	}
	return strings.HasPrefix(s, "#") && (len(s) == 9 || len(s) == 5)
}

// NRGBA parses the color. Colors without an alpha channel are opaque.
func (c Color) NRGBA() (color.NRGBA, error) {
	s := strings.TrimSpace(string(c))
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[len("rgba("):len(s)-1], 4)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[len("rgb("):len(s)-1], 3)
	}
	return color.NRGBA{}, fmt.Errorf("unsupported color %q", string(c))
}

func parseHex(h string) (color.NRGBA, error) {
	if len(h) == 3 || len(h) == 4 {
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	}
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("bad hex color length %d", len(h))
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad hex color: %w", err)
	}
	if len(h) == 6 {
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func parseFunc(args string, n int) (color.NRGBA, error) {
	parts := strings.Split(args, ",")
	if len(parts) != n {
		return color.NRGBA{}, fmt.Errorf("expected %d color components, got %d", n, len(parts))
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("bad color component %q", parts[i])
		}
		ch[i] = uint8(v)
	}
	a := uint8(0xff)
	if n == 4 {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || f < 0 || f > 1 {
			return color.NRGBA{}, fmt.Errorf("bad alpha component %q", parts[3])
		}
		a = uint8(f*255 + 0.5)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: a}, nil
}

// Tool is a flat value; assigning it copies it.
type Tool struct {
	Kind   ToolKind `json:"kind"`
	Color  Color    `json:"color,omitempty"`
	Weight int      `json:"weight"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one gesture from pointer-down to pointer-up.
type Stroke struct {
	Tool   Tool    `json:"tool"`
	Points []Point `json:"points"`
}

// Drawable reports whether the stroke has enough points to render.
func (s Stroke) Drawable() bool {
	return len(s.Points) >= 2
}

// Clone returns a deep copy of the stroke.
func (s Stroke) Clone() Stroke {
	pts := make([]Point, len(s.Points))
	copy(pts, s.Points)
	return Stroke{Tool: s.Tool, Points: pts}
}
