// Package pkg provides the core libraries for musictoart.
//
// # Overview
//
// musictoart turns a listener's Spotify taste into render parameters and
// draws them as a seeded, reproducible pattern. The pkg directory is
// organized into four areas:
//
//  1. Rendering: [rng], [params], [canvas], [render]
//  2. Taste: [taste] (vector, visual mapping, prompt words)
//  3. Client side: [preview] (fetch, validate, render orchestration)
//  4. Infrastructure: [config], [session], [integrations], [httputil],
//     [observability], [errors], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	Spotify top artists + tracks
//	         ↓
//	    [taste] BuildVector
//	         ↓
//	    [taste] MapToVisuals → [params] RenderParams
//	         ↓
//	    GET /api/preview (internal/server)
//	         ↓
//	    [preview] Orchestrator → [render] Draw → [canvas] Surface
//
// # Quick Start
//
// Render parameters to a PNG:
//
//	p := params.RenderParams{
//	    Palette:      []string{"#0b1d51", "#725cff", "#ff9bd2"},
//	    Density:      0.5,
//	    GeometryBias: params.Blobs,
//	    Symmetry:     0.4,
//	    NoiseScale:   0.5,
//	    Seed:         "demo",
//	}
//	img := canvas.NewImage(1024, 640)
//	if _, err := render.Draw(img, p); err != nil {
//	    return err
//	}
//	return img.WritePNG("art.png")
//
// Drive a surface from a running server:
//
//	o := &preview.Orchestrator{
//	    Fetcher: preview.NewHTTPFetcher("http://localhost:8000", cookie),
//	    Surface: img,
//	    Status:  preview.StatusFunc(func(s string) { fmt.Println(s) }),
//	}
//	_, err := o.Refresh(ctx)
//
// # Testing
//
//	go test ./...                          # All tests
//	REDIS_ADDR=localhost:6379 go test ./pkg/session/...
//	go test -run Example ./pkg/...         # Examples only
//
// [rng]: https://pkg.go.dev/github.com/justnchxn/musictoart/pkg/rng
// [params]: https://pkg.go.dev/github.com/justnchxn/musictoart/pkg/params
// [canvas]: https://pkg.go.dev/github.com/justnchxn/musictoart/pkg/canvas
// [render]: https://pkg.go.dev/github.com/justnchxn/musictoart/pkg/render
// [taste]: https://pkg.go.dev/github.com/justnchxn/musictoart/pkg/taste
// [preview]: https://pkg.go.dev/github.com/justnchxn/musictoart/pkg/preview
// [config]: https://pkg.go.dev/github.com/justnchxn/musictoart/pkg/config
// [session]: https://pkg.go.dev/github.com/justnchxn/musictoart/pkg/session
// [integrations]: https://pkg.go.dev/github.com/justnchxn/musictoart/pkg/integrations
// [httputil]: https://pkg.go.dev/github.com/justnchxn/musictoart/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/justnchxn/musictoart/pkg/observability
// [errors]: https://pkg.go.dev/github.com/justnchxn/musictoart/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/justnchxn/musictoart/pkg/buildinfo
package pkg
