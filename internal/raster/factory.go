package raster

import "MyLocalNotes/internal/document"

// Factory creates canvases at a fixed backing scale.
type Factory struct {
	Scale float64
}

func (f Factory) NewSurface(width, height float64) (document.Target, error) {
	c, err := NewCanvas(width, height, f.Scale)
	if err != nil {
		return nil, err
	}
	return c, nil
}
