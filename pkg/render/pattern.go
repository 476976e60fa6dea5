package render

import (
	"context"
	"image/color"
	"math"
	"time"

	"github.com/justnchxn/musictoart/pkg/canvas"
	"github.com/justnchxn/musictoart/pkg/observability"
	"github.com/justnchxn/musictoart/pkg/params"
	"github.com/justnchxn/musictoart/pkg/rng"
)

const (
	// MaxPrimitives is the primitive count at density 1.
	MaxPrimitives = 3500

	// MirrorThreshold is the symmetry above which primitives are mirrored.
	MirrorThreshold = 0.6

	phaseStep = 0.003
	inset     = 0.05
	span      = 0.9
)

var (
	// Background fills the surface before any primitive.
	Background = color.NRGBA{R: 0x0a, G: 0x0a, B: 0x0a, A: 0xff}

	// Overlay is the fade laid over the finished pattern when blur > 0
	// (black at 8% opacity).
	Overlay = color.NRGBA{A: 20}
)

// Stats summarises a finished render.
type Stats struct {
	Primitives int  // primitives drawn
	Mirrored   int  // mirrored copies drawn
	Overlay    bool // whether the blur overlay was applied
}

// DrawCalls is the number of shape fills, excluding background and overlay.
func (s Stats) DrawCalls() int {
	return s.Primitives + s.Mirrored
}

// Option configures a render.
type Option func(*config)

type config struct {
	rand *rng.Rand
	seed *string
}

// WithRand draws from r instead of a generator seeded from the params.
func WithRand(r *rng.Rand) Option {
	return func(c *config) { c.rand = r }
}

// WithSeed overrides the params seed string.
func WithSeed(seed string) Option {
	return func(c *config) { c.seed = &seed }
}

// Count returns the primitive count for a density.
func Count(density float64) int {
	return int(math.Floor(density * MaxPrimitives))
}

// Position returns the flow-field location of primitive i on a w×h surface.
func Position(i int, p params.RenderParams, w, h float64) (x, y float64) {
	fi := float64(i)
	t := fi * phaseStep * p.Motion
	a := fi*p.NoiseScale + t
	x = w * ((math.Sin(a)+1)/2*span + inset)
	y = h * ((math.Cos(a)+1)/2*span + inset)
	return x, y
}

// Draw validates p and paints it on s. If validation fails s is not touched
// and the validation error is returned.
func Draw(s canvas.Surface, p params.RenderParams, opts ...Option) (Stats, error) {
	if err := p.Validate(); err != nil {
		return Stats{}, err
	}
	palette, err := p.Colors()
	if err != nil {
		return Stats{}, err
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	r := cfg.rand
	if r == nil {
		seed := p.Seed
		if cfg.seed != nil {
			seed = *cfg.seed
		}
		r = rng.FromString(seed)
	}

	iw, ih := s.Size()
	w, h := float64(iw), float64(ih)

	s.SetFill(Background)
	s.FillRect(0, 0, w, h)

	var st Stats
	alpha := p.Alpha()
	mirror := p.Symmetry > MirrorThreshold
	n := Count(p.Density)

	for i := range n {
		x, y := Position(i, p, w, h)

		c := rng.Pick(r, palette)
		c.A = alpha
		s.SetFill(c)

		switch p.GeometryBias {
		case params.Lines:
			s.FillRect(x, y, 1+r.Float64()*3, 20*(1-p.Symmetry))
		case params.Polys:
			s.FillCircle(x, y, 1+r.Float64()*3)
		case params.Blobs:
			s.FillEllipse(x, y, 6*(1+p.Symmetry), 2*(1+p.Symmetry))
		default:
			s.FillCircle(x, y, 1+r.Float64()*2)
		}
		st.Primitives++

		if mirror {
			s.FillCircle(w-x, y, 1+r.Float64()*2)
			st.Mirrored++
		}
	}

	if p.Blur > 0 {
		s.SetFill(Overlay)
		s.FillRect(0, 0, w, h)
		st.Overlay = true
	}
	return st, nil
}

// DrawContext is Draw with render hooks fired for observability.
func DrawContext(ctx context.Context, s canvas.Surface, p params.RenderParams, opts ...Option) (Stats, error) {
	start := time.Now()
	st, err := Draw(s, p, opts...)
	observability.Render().OnRenderComplete(ctx, string(p.GeometryBias), st.Primitives, time.Since(start), err)
	return st, err
}
