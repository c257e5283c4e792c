// Package haptic models the force readings gathered while a robotic probe
// drags across a surface, and turns them into per-region friction estimates.
package haptic

import (
	"math"

	"github.com/golang/geo/r3"
)

// Force is a pair of force readings at a single probe location.
type Force struct {
	Tangential float64
	Normal     float64
}

// Coefficient returns the friction coefficient |tangential / normal| for the
// reading. A zero normal force yields zero rather than an infinity.
func (f Force) Coefficient() float64 {
	if f.Normal == 0 {
		return 0
	}
	return math.Abs(f.Tangential / f.Normal)
}

// Sample is a friction estimate attached to a spatial location.
type Sample struct {
	Position r3.Vector
	Friction float64
}

// Track maps exact probe positions to their force readings. Matching against
// cloud points is by exact position equality; approximate lookup is the
// caller's responsibility.
type Track map[r3.Vector]Force

// Average matches the given positions against the track and returns the
// matched samples in input order together with their running mean friction.
// Positions without a reading are skipped. No matches yields (nil, 0);
// a negative mean is clamped to 0.
func (tr Track) Average(positions []r3.Vector) ([]Sample, float64) {
	if len(tr) == 0 {
		return nil, 0
	}
	var matched []Sample
	var count, mean float64
	for _, p := range positions {
		force, ok := tr[p]
		if !ok {
			continue
		}
		f := force.Coefficient()
		count++
		mean += (f - mean) / count
		matched = append(matched, Sample{Position: p, Friction: f})
	}
	if mean < 0 {
		mean = 0
	}
	return matched, mean
}
