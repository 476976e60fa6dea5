// Package rng provides the deterministic pseudo-random generator behind every
// render.
//
// A seed string is folded into a 32-bit value with a polynomial rolling hash
// (h = h*31 + unit over UTF-16 code units, wrapping at 32 bits). That value
// seeds a xorshift32 generator whose states are divided by 2^32 to produce
// floats in [0, 1).
//
// All arithmetic is done on uint32, so the sequence for a given seed string is
// bit-for-bit identical to any other implementation using the same rule with
// 32-bit wraparound, including the browser renderer this project grew out of.
//
// # Usage
//
//	r := rng.FromString("alice|indie|2010s")
//	x := r.Float64()                        // first draw
//	c := rng.Pick(r, []string{"#fff", "#000"}) // one draw
//
// A Rand is not safe for concurrent use; give each render its own.
package rng
