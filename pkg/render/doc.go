// Package render paints the generative pattern for a set of RenderParams.
//
// # Overview
//
// A render is fully determined by its parameters and the surface size:
//
//  1. The surface is filled with the background colour (#0a0a0a).
//  2. n = floor(density * 3500) primitives are placed along a flow-field of
//     sinusoids of (i*noiseScale + i*0.003*motion), inset to 5%..95% of each
//     axis. Positions depend only on i, not on the RNG.
//  3. Each primitive takes one RNG draw to pick its palette colour, then
//     draws its shape per geometryBias (lines → rectangle, polys → circle,
//     blobs → ellipse, anything else → small circle).
//  4. symmetry > 0.6 adds a mirrored dot at (width - x, y).
//  5. blur > 0 lays a translucent black overlay over everything.
//
// The RNG is seeded from the params seed via [rng.FromString], so the same
// params on the same surface size always produce the same draw calls.
//
// # Usage
//
//	img := canvas.NewImage(1024, 640)
//	stats, err := render.Draw(img, p)
//	if err != nil {
//	    // p failed validation; img is untouched
//	}
//	err = img.WritePNG("art.png")
//
// Rendering is synchronous and never yields. The largest render is bounded
// at [MaxPrimitives] primitives plus as many mirrored copies.
package render
