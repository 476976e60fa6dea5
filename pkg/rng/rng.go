package rng

import "unicode/utf16"

// DefaultSeed replaces a zero seed. xorshift32 maps 0 to 0, so a zero state
// would never advance.
const DefaultSeed uint32 = 123456789

// scale converts a uint32 state into [0, 1).
const scale = 1.0 / 4294967296.0

// Hash folds s into a 32-bit seed using h = h*31 + c over the UTF-16 code
// units of s. The same string always yields the same value.
func Hash(s string) uint32 {
	var h uint32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + uint32(c)
	}
	return h
}

// Rand is a xorshift32 generator (shift triple 13/17/5).
type Rand struct {
	state uint32
}

// New returns a generator seeded with seed, or DefaultSeed when seed is 0.
func New(seed uint32) *Rand {
	if seed == 0 {
		seed = DefaultSeed
	}
	return &Rand{state: seed}
}

// FromString is shorthand for New(Hash(seed)).
func FromString(seed string) *Rand {
	return New(Hash(seed))
}

// Make returns the generator as a closure producing floats in [0, 1).
func Make(seed uint32) func() float64 {
	return New(seed).Float64
}

// Uint32 advances the generator and returns the new state.
func (r *Rand) Uint32() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Float64 advances the generator and returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.Uint32()) * scale
}

// Range returns a value in [lo, hi).
func (r *Rand) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Intn returns an int in [0, n). It panics if n <= 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with non-positive n")
	}
	i := int(r.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Pick returns a uniformly chosen element of items using exactly one draw.
// It panics on an empty slice; callers validate inputs first.
func Pick[T any](r *Rand, items []T) T {
	return items[r.Intn(len(items))]
}
