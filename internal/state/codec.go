package state

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidRecord is returned when a saved page cannot be reconstructed.
var ErrInvalidRecord = errors.New("invalid page record")

// PageRecord is the saved form of a page: plain nested records of numbers
// and strings.
type PageRecord struct {
	Strokes []Stroke `json:"strokes"`
	Redo    []Stroke `json:"redo,omitempty"`
}

// Record captures the page history. The redo stack is included only when
// withRedo is set.
func (p *Page) Record(withRedo bool) PageRecord {
	rec := PageRecord{Strokes: cloneStrokes(p.Strokes)}
	if rec.Strokes == nil {
		rec.Strokes = []Stroke{}
	}
	if withRedo && len(p.RedoStack) > 0 {
		rec.Redo = cloneStrokes(p.RedoStack)
	}
	return rec
}

// PageFromRecord rebuilds a page from its saved form.
func PageFromRecord(rec PageRecord) (*Page, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	p := NewPage()
	p.Replace(cloneStrokes(rec.Strokes), cloneStrokes(rec.Redo))
	return p, nil
}

// Validate checks every stroke in the record.
func (rec PageRecord) Validate() error {
	for i, s := range rec.Strokes {
		if err := validateStroke(s); err != nil {
			return fmt.Errorf("%w: stroke %d: %v", ErrInvalidRecord, i, err)
		}
	}
	for i, s := range rec.Redo {
		if err := validateStroke(s); err != nil {
			return fmt.Errorf("%w: redo %d: %v", ErrInvalidRecord, i, err)
		}
	}
	return nil
}

func validateStroke(s Stroke) error {
	if !s.Tool.Kind.Valid() {
		return fmt.Errorf("unknown tool kind %q", s.Tool.Kind)
	}
	if s.Tool.Weight < 1 {
		return fmt.Errorf("tool weight %d < 1", s.Tool.Weight)
	}
	if s.Tool.Kind != ToolEraser {
		if _, err := s.Tool.Color.NRGBA(); err != nil {
			return err
		}
	}
	if s.Tool.Kind == ToolHighlighter && len(s.Points) > 2 {
		return fmt.Errorf("highlighter stroke with %d points", len(s.Points))
	}
	return nil
}

// MarshalPages encodes page records as JSON.
func MarshalPages(recs []PageRecord) ([]byte, error) {
	return json.Marshal(recs)
}

// UnmarshalPages decodes and validates JSON page records.
func UnmarshalPages(data []byte) ([]PageRecord, error) {
	var recs []PageRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	for i, rec := range recs {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
	}
	return recs, nil
}

func cloneStrokes(in []Stroke) []Stroke {
	if len(in) == 0 {
		return nil
	}
	out := make([]Stroke, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
