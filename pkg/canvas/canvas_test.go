package canvas

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestImageFillRect(t *testing.T) {
	m := NewImage(20, 10)
	if w, h := m.Size(); w != 20 || h != 10 {
		t.Fatalf("Size() = %d, %d", w, h)
	}

	m.SetFill(color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	m.FillRect(0, 0, 20, 10)

	img := m.Image()
	for _, pt := range [][2]int{{0, 0}, {19, 9}, {10, 5}} {
		r, g, b, a := img.At(pt[0], pt[1]).RGBA()
		if r>>8 != 10 || g>>8 != 10 || b>>8 != 10 || a>>8 != 255 {
			t.Errorf("pixel %v = %d,%d,%d,%d", pt, r>>8, g>>8, b>>8, a>>8)
		}
	}
}

func TestImageFillCircle(t *testing.T) {
	m := NewImage(40, 40)
	m.SetFill(color.NRGBA{A: 255})
	m.FillRect(0, 0, 40, 40)
	m.SetFill(color.NRGBA{R: 255, A: 255})
	m.FillCircle(20, 20, 8)

	r, _, _, _ := m.Image().At(20, 20).RGBA()
	if r>>8 != 255 {
		t.Errorf("centre red = %d, want 255", r>>8)
	}
	r, _, _, _ = m.Image().At(2, 2).RGBA()
	if r != 0 {
		t.Errorf("corner red = %d, want 0", r>>8)
	}
}

func TestImagePNGRoundTrip(t *testing.T) {
	m := NewImage(8, 4)
	m.SetFill(color.NRGBA{G: 200, A: 255})
	m.FillEllipse(4, 2, 3, 1)

	data, err := m.PNG()
	if err != nil {
		t.Fatalf("PNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("bounds = %v", b)
	}
}

func TestImageWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "art.png")
	m := NewImage(4, 4)
	if err := m.WritePNG(path); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}
	if err := m.WritePNG(path); err != nil {
		t.Fatalf("WritePNG() overwrite error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want only art.png", len(entries))
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(100, 50)
	red := color.NRGBA{R: 255, A: 120}

	r.SetFill(red)
	r.FillRect(1, 2, 3, 4)
	r.FillCircle(5, 6, 7)
	r.FillEllipse(8, 9, 10, 11)
	r.FillCircle(0, 0, 1)

	if len(r.Ops) != 4 {
		t.Fatalf("len(Ops) = %d, want 4", len(r.Ops))
	}
	if r.Count(OpCircle) != 2 || r.Count(OpRect) != 1 || r.Count(OpEllipse) != 1 {
		t.Errorf("counts = rect %d circle %d ellipse %d", r.Count(OpRect), r.Count(OpCircle), r.Count(OpEllipse))
	}
	if got := r.Ops[2]; got.W != 10 || got.H != 11 || got.Fill != red {
		t.Errorf("ellipse op = %+v", got)
	}

	r.Reset()
	if len(r.Ops) != 0 {
		t.Errorf("after Reset len(Ops) = %d", len(r.Ops))
	}
}
