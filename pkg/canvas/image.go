package canvas

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
)

// Image is a raster Surface backed by a gg.Context.
type Image struct {
	dc *gg.Context
}

// NewImage creates a transparent raster surface of the given size.
func NewImage(width, height int) *Image {
	return &Image{dc: gg.NewContext(width, height)}
}

// Size implements Surface.
func (m *Image) Size() (int, int) {
	return m.dc.Width(), m.dc.Height()
}

// SetFill implements Surface.
func (m *Image) SetFill(c color.NRGBA) {
	m.dc.SetColor(c)
}

// FillRect implements Surface.
func (m *Image) FillRect(x, y, w, h float64) {
	m.dc.DrawRectangle(x, y, w, h)
	m.dc.Fill()
}

// FillCircle implements Surface.
func (m *Image) FillCircle(cx, cy, r float64) {
	m.dc.DrawCircle(cx, cy, r)
	m.dc.Fill()
}

// FillEllipse implements Surface.
func (m *Image) FillEllipse(cx, cy, rx, ry float64) {
	m.dc.DrawEllipse(cx, cy, rx, ry)
	m.dc.Fill()
}

// Image returns the underlying raster.
func (m *Image) Image() image.Image {
	return m.dc.Image()
}

// EncodePNG writes the surface as PNG.
func (m *Image) EncodePNG(w io.Writer) error {
	return m.dc.EncodePNG(w)
}

// PNG returns the surface encoded as PNG bytes.
func (m *Image) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG encodes the surface to path, replacing the file atomically so a
// viewer watching path never sees a partial image.
func (m *Image) WritePNG(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".musictoart-*.png")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := m.EncodePNG(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var _ Surface = (*Image)(nil)
