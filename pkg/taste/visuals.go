package taste

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/justnchxn/musictoart/pkg/params"
	"github.com/justnchxn/musictoart/pkg/rng"
)

// Palettes by genre family. "default" covers everything else.
var Palettes = map[string][]string{
	"dream-pop":  {"#f8e1f4", "#c9d6ff", "#b8c6db", "#fdfbfb"},
	"electronic": {"#0d0d0d", "#2a2a72", "#009ffd", "#2a9d8f"},
	"indie":      {"#264653", "#e9c46a", "#2a9d8f", "#f4a261"},
	"classical":  {"#eae2b7", "#003049", "#d62828", "#f77f00"},
	"jazz":       {"#001219", "#005f73", "#0a9396", "#94d2bd"},
	"metal":      {"#111", "#444", "#ddd", "#e63946"},
	"default":    {"#101010", "#444", "#999", "#f1faee"},
}

// Nebula is a bias the mapper emits that the renderer draws as dots.
const Nebula params.GeometryBias = "nebula"

var biases = []params.GeometryBias{params.Lines, params.Blobs, params.Polys, Nebula}

// Palette returns a copy of the palette for a genre family.
func Palette(genre string) []string {
	p, ok := Palettes[genre]
	if !ok {
		p = Palettes["default"]
	}
	return append([]string(nil), p...)
}

// StableSeed is the first four bytes of SHA-256(s), big endian.
func StableSeed(s string) uint32 {
	sum := sha256.Sum256([]byte(s))
	return binary.BigEndian.Uint32(sum[:4])
}

// MapToVisuals derives render parameters from a taste vector.
func MapToVisuals(v Vector, userID string) params.RenderParams {
	genre, era := v.TopGenre(), v.TopEra()
	seed := fmt.Sprintf("%s|%s|%s", userID, genre, era)
	r := rng.New(StableSeed(seed))

	density := clamp(0.2+(100-v.PopularityAvg)/100*0.8, 0.2, 1)
	symmetry := clamp(1-Entropy(v.GenreCounts), 0, 1)

	return params.RenderParams{
		Seed:         seed,
		Palette:      Palette(genre),
		Density:      density,
		Blur:         math.Min(0.7, 0.1+v.ExplicitRatio*0.5),
		Motion:       r.Range(0.3, 1),
		GeometryBias: rng.Pick(r, biases),
		Symmetry:     symmetry,
		NoiseScale:   r.Range(0.2, 0.8),
	}
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
