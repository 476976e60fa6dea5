// Package params defines RenderParams, the parameter bundle that controls one
// art render, together with its JSON codec and validation.
//
// Parameters arrive over the wire (GET /api/preview) or from a file, so
// nothing about them is trusted: [RenderParams.Validate] runs before every
// render and fails closed with a coded error instead of letting the renderer
// trip over an empty palette or a NaN.
package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/justnchxn/musictoart/pkg/errors"
)

// GeometryBias selects the primitive shape family.
type GeometryBias string

// Known geometry biases. Any other value renders like Dots.
const (
	Lines GeometryBias = "lines"
	Polys GeometryBias = "polys"
	Blobs GeometryBias = "blobs"
	Dots  GeometryBias = "dots"
)

// Known reports whether g is one of the named biases.
func (g GeometryBias) Known() bool {
	switch g {
	case Lines, Polys, Blobs, Dots:
		return true
	}
	return false
}

// RenderParams controls one render.
type RenderParams struct {
	Palette      []string     `json:"palette"`
	Density      float64      `json:"density"`
	Blur         float64      `json:"blur"`
	Motion       float64      `json:"motion"`
	GeometryBias GeometryBias `json:"geometryBias"`
	Symmetry     float64      `json:"symmetry"`
	NoiseScale   float64      `json:"noiseScale"`
	Seed         string       `json:"seed"`
}

// Envelope is the body of a successful GET /api/preview response.
type Envelope struct {
	Params RenderParams `json:"params"`
}

// Validate checks p and returns the first problem found as an *errors.Error.
// An unknown GeometryBias is not an error.
func (p RenderParams) Validate() error {
	if len(p.Palette) == 0 {
		return errors.New(errors.ErrCodeInvalidPalette, "palette must not be empty")
	}
	for i, c := range p.Palette {
		if _, err := ParseColor(c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidColor, err, "palette[%d] %q is not a hex color", i, c)
		}
	}
	if err := errors.ValidateUnit("density", p.Density); err != nil {
		return err
	}
	if err := errors.ValidateUnit("symmetry", p.Symmetry); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"blur", p.Blur}, {"motion", p.Motion}, {"noiseScale", p.NoiseScale}} {
		if err := errors.ValidateFinite(f.name, f.v); err != nil {
			return err
		}
	}
	if p.Blur < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "blur must not be negative, got %g", p.Blur)
	}
	return nil
}

// Colors parses the palette. Call Validate first; Colors returns the same
// errors for the same inputs.
func (p RenderParams) Colors() ([]color.NRGBA, error) {
	out := make([]color.NRGBA, len(p.Palette))
	for i, c := range p.Palette {
		nc, err := ParseColor(c)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "palette[%d] %q is not a hex color", i, c)
		}
		out[i] = nc
	}
	return out, nil
}

// Alpha is the fill alpha applied to every primitive: 120 + symmetry*100,
// truncated and clamped to a byte.
func (p RenderParams) Alpha() uint8 {
	a := math.Floor(120 + p.Symmetry*100)
	switch {
	case math.IsNaN(a) || a < 0:
		return 0
	case a > 255:
		return 255
	}
	return uint8(a)
}

// ParseColor parses "#rgb" or "#rrggbb" into an opaque colour.
func ParseColor(s string) (color.NRGBA, error) {
	if len(s) != 4 && len(s) != 7 {
		return color.NRGBA{}, fmt.Errorf("color %q: want #rgb or #rrggbb", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Decode reads params from r. Both the preview envelope ({"params": {...}})
// and a bare params object are accepted.
func Decode(r io.Reader) (RenderParams, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return RenderParams{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read params")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return RenderParams{}, errors.Wrap(errors.ErrCodeInvalidParams, err, "decode params")
	}
	if raw, ok := probe["params"]; ok {
		data = raw
	}

	var p RenderParams
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&p); err != nil {
		return RenderParams{}, errors.Wrap(errors.ErrCodeInvalidParams, err, "decode params")
	}
	return p, nil
}
