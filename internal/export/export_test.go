package export

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MyLocalNotes/internal/ink"
	"MyLocalNotes/internal/raster"
	"MyLocalNotes/internal/state"
)

func drawnCanvas(t *testing.T) *raster.Canvas {
	t.Helper()
	c, err := raster.NewCanvas(100, 60, 2)
	require.NoError(t, err)
	st := state.Stroke{
		Tool:   state.Tool{Kind: state.ToolPen, Color: "#ff0000", Weight: 6},
		Points: []state.Point{{X: 10, Y: 30}, {X: 50, Y: 30}, {X: 90, Y: 30}},
	}
	ink.Render(c, []state.Stroke{st}, nil)
	return c
}

func TestPNGWritesComposite(t *testing.T) {
	c := drawnCanvas(t)

	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, c))
	img, err := png.Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())
	r, g, b, _ := img.At(100, 60).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0), b)
	assert.Equal(t, color.RGBAModel.Convert(color.White), color.RGBAModel.Convert(img.At(1, 1)))
}

func TestPDF(t *testing.T) {
	pages := []Page{drawnCanvas(t), drawnCanvas(t)}

	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, pages))
	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	pageObjs := bytes.Count(out, []byte("/Type /Page")) - bytes.Count(out, []byte("/Type /Pages"))
	assert.Equal(t, 2, pageObjs)

	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, PDFFile(path, pages))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestPDFNoPages(t *testing.T) {
	assert.Error(t, PDF(&bytes.Buffer{}, nil))
}
