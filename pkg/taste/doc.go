// Package taste turns a listener's top artists and tracks into a compact
// taste vector and maps that vector onto render parameters and prompt words.
//
// The mapping is deterministic: [MapToVisuals] seeds its generator from the
// user ID, dominant genre and dominant era, so the same listener with the
// same history always gets the same picture.
package taste
