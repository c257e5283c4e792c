package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Centroid returns the arithmetic mean position of the given points.
// An empty slice yields the zero vector.
func Centroid(points []r3.Vector) r3.Vector {
	center := r3.Vector{}
	if len(points) == 0 {
		return center
	}
	for _, pt := range points {
		center = center.Add(pt)
	}
	return center.Mul(1. / float64(len(points)))
}

// PlaneNormal fits a plane to the given points and returns its unit normal
// together with the surface curvature, estimated as the ratio of the smallest
// eigenvalue of the scatter matrix to the sum of all three. Fewer than three
// points cannot constrain a plane; the +Z axis with zero curvature is
// returned instead.
func PlaneNormal(points []r3.Vector) (r3.Vector, float64) {
	if len(points) < 3 {
		return r3.Vector{X: 0, Y: 0, Z: 1}, 0
	}
	center := Centroid(points)

	// scatter matrix of the centered points
	var xx, xy, xz, yy, yz, zz float64
	for _, pt := range points {
		d := pt.Sub(center)
		xx += d.X * d.X
		xy += d.X * d.Y
		xz += d.X * d.Z
		yy += d.Y * d.Y
		yz += d.Y * d.Z
		zz += d.Z * d.Z
	}
	scatter := mat.NewSymDense(3, []float64{
		xx, xy, xz,
		xy, yy, yz,
		xz, yz, zz,
	})

	var eig mat.EigenSym
	if ok := eig.Factorize(scatter, true); !ok {
		return r3.Vector{X: 0, Y: 0, Z: 1}, 0
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// eigenvalues come back in ascending order; the smallest one's
	// eigenvector is the plane normal
	normal := r3.Vector{X: vecs.At(0, 0), Y: vecs.At(1, 0), Z: vecs.At(2, 0)}
	if normal.Norm() == 0 {
		return r3.Vector{X: 0, Y: 0, Z: 1}, 0
	}
	normal = normal.Normalize()

	sum := vals[0] + vals[1] + vals[2]
	curvature := 0.0
	if sum > 0 {
		curvature = vals[0] / sum
	}
	return normal, curvature
}

// FlipNormalTowardViewpoint flips the normal so it points from the given
// position toward the viewpoint.
func FlipNormalTowardViewpoint(normal r3.Vector, position, viewpoint r3.Vector) r3.Vector {
	toView := viewpoint.Sub(position)
	if normal.Dot(toView) < 0 {
		return normal.Mul(-1)
	}
	return normal
}

// UnitNormal renormalizes the given vector, guarding against a zero norm.
func UnitNormal(v r3.Vector) r3.Vector {
	n := v.Norm()
	if n == 0 || math.IsNaN(n) {
		return r3.Vector{X: 0, Y: 0, Z: 1}
	}
	return v.Mul(1 / n)
}
