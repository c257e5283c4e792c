package pointcloud

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestCentroid(t *testing.T) {
	test.That(t, Centroid(nil), test.ShouldResemble, r3.Vector{})

	points := []r3.Vector{
		NewVector(0, 0, 0),
		NewVector(2, 0, 0),
		NewVector(0, 4, 0),
		NewVector(0, 0, 8),
	}
	c := Centroid(points)
	test.That(t, c.X, test.ShouldAlmostEqual, 0.5)
	test.That(t, c.Y, test.ShouldAlmostEqual, 1)
	test.That(t, c.Z, test.ShouldAlmostEqual, 2)
}

func TestPlaneNormalFlat(t *testing.T) {
	// points on the z = 5 plane
	var points []r3.Vector
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			points = append(points, NewVector(float64(x), float64(y), 5))
		}
	}
	normal, curvature := PlaneNormal(points)
	test.That(t, math.Abs(normal.Z), test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, normal.Norm(), test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, curvature, test.ShouldAlmostEqual, 0, 1e-9)
}

func TestPlaneNormalDegenerate(t *testing.T) {
	normal, curvature := PlaneNormal([]r3.Vector{NewVector(1, 1, 1)})
	test.That(t, normal, test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: 1})
	test.That(t, curvature, test.ShouldEqual, 0)
}

func TestFlipNormalTowardViewpoint(t *testing.T) {
	normal := r3.Vector{X: 0, Y: 0, Z: -1}
	position := r3.Vector{X: 0, Y: 0, Z: 5}
	flipped := FlipNormalTowardViewpoint(normal, position, r3.Vector{})
	// viewpoint at the origin is below the position, so -z already points at it
	test.That(t, flipped, test.ShouldResemble, normal)

	flipped = FlipNormalTowardViewpoint(r3.Vector{X: 0, Y: 0, Z: 1}, position, r3.Vector{})
	test.That(t, flipped, test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: -1})
}

func TestUnitNormal(t *testing.T) {
	n := UnitNormal(r3.Vector{X: 0, Y: 3, Z: 4})
	test.That(t, n.Norm(), test.ShouldAlmostEqual, 1)
	test.That(t, n.Y, test.ShouldAlmostEqual, 0.6)
	test.That(t, n.Z, test.ShouldAlmostEqual, 0.8)

	// zero vectors fall back to +z instead of NaN
	n = UnitNormal(r3.Vector{})
	test.That(t, n, test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: 1})
}
