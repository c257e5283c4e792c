package haptic

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestForceCoefficient(t *testing.T) {
	test.That(t, Force{Tangential: 1, Normal: 2}.Coefficient(), test.ShouldAlmostEqual, 0.5)
	test.That(t, Force{Tangential: -1, Normal: 2}.Coefficient(), test.ShouldAlmostEqual, 0.5)
	test.That(t, Force{Tangential: 1, Normal: -2}.Coefficient(), test.ShouldAlmostEqual, 0.5)
	test.That(t, Force{Tangential: 3, Normal: 0}.Coefficient(), test.ShouldEqual, 0)
}

func TestAverage(t *testing.T) {
	track := Track{
		r3.Vector{X: 0, Y: 0, Z: 0}: {Tangential: 1, Normal: 2},  // 0.5
		r3.Vector{X: 1, Y: 0, Z: 0}: {Tangential: 1, Normal: 4},  // 0.25
		r3.Vector{X: 9, Y: 9, Z: 9}: {Tangential: 1, Normal: 10}, // not in region
	}
	positions := []r3.Vector{
		{X: 0, Y: 0, Z: 0},
		{X: 0.5, Y: 0, Z: 0}, // no reading here
		{X: 1, Y: 0, Z: 0},
	}
	samples, mean := track.Average(positions)
	test.That(t, len(samples), test.ShouldEqual, 2)
	test.That(t, samples[0].Position, test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: 0})
	test.That(t, samples[0].Friction, test.ShouldAlmostEqual, 0.5)
	test.That(t, samples[1].Friction, test.ShouldAlmostEqual, 0.25)
	test.That(t, mean, test.ShouldAlmostEqual, 0.375)
}

func TestAverageNoMatches(t *testing.T) {
	track := Track{
		r3.Vector{X: 5, Y: 5, Z: 5}: {Tangential: 1, Normal: 1},
	}
	samples, mean := track.Average([]r3.Vector{{X: 0, Y: 0, Z: 0}})
	test.That(t, samples, test.ShouldBeNil)
	test.That(t, mean, test.ShouldEqual, 0)
}

func TestAverageEmptyTrack(t *testing.T) {
	samples, mean := Track{}.Average([]r3.Vector{{X: 0, Y: 0, Z: 0}})
	test.That(t, samples, test.ShouldBeNil)
	test.That(t, mean, test.ShouldEqual, 0)
}
