package ink

import "fmt"

// recorder is a Surface that logs the commands it receives.
type recorder struct {
	ops    []string
	styles []Style
}

func (r *recorder) Clear()     { r.ops = append(r.ops, "clear") }
func (r *recorder) BeginPath() { r.ops = append(r.ops, "begin") }

func (r *recorder) MoveTo(x, y float64) {
	r.ops = append(r.ops, fmt.Sprintf("move %g,%g", x, y))
}

func (r *recorder) LineTo(x, y float64) {
	r.ops = append(r.ops, fmt.Sprintf("line %g,%g", x, y))
}

func (r *recorder) QuadTo(cx, cy, x, y float64) {
	r.ops = append(r.ops, fmt.Sprintf("quad %g,%g %g,%g", cx, cy, x, y))
}

func (r *recorder) Stroke(st Style) {
	r.ops = append(r.ops, "stroke")
	r.styles = append(r.styles, st)
}

func (r *recorder) reset() {
	r.ops = nil
	r.styles = nil
}
