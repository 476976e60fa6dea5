package render_test

import (
	"fmt"

	"github.com/justnchxn/musictoart/pkg/canvas"
	"github.com/justnchxn/musictoart/pkg/params"
	"github.com/justnchxn/musictoart/pkg/render"
)

func ExampleDraw() {
	p := params.RenderParams{
		Palette:      []string{"#264653", "#e9c46a", "#2a9d8f", "#f4a261"},
		Density:      0.5,
		Blur:         0.2,
		Motion:       0.7,
		GeometryBias: params.Lines,
		Symmetry:     0.8,
		NoiseScale:   0.4,
		Seed:         "alice|indie|2010s",
	}

	rec := canvas.NewRecorder(1024, 640)
	stats, err := render.Draw(rec, p)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("primitives:", stats.Primitives)
	fmt.Println("mirrored:", stats.Mirrored)
	fmt.Println("overlay:", stats.Overlay)
	// Output:
	// primitives: 1750
	// mirrored: 1750
	// overlay: true
}
