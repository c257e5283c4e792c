package segmentation

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/visuohaptic/svclust/colorutil"
)

// deltas is the per-edge triple of cue dissimilarities.
type deltas struct {
	c, g, h float64
}

// centroidDirection is the unit vector from the second centroid to the first.
// Coincident centroids yield the zero vector, which removes the centroid
// terms from the geometric kernel instead of producing NaNs.
func centroidDirection(c1, c2 r3.Vector) r3.Vector {
	d := c1.Sub(c2)
	n := d.Norm()
	if n == 0 {
		return r3.Vector{}
	}
	return d.Mul(1 / n)
}

// isConvex reports whether two regions form a locally convex join. A convex
// join is perceptually more likely to belong to a single object.
func isConvex(n1 r3.Vector, c1 r3.Vector, n2 r3.Vector, c2 r3.Vector) bool {
	dir := centroidDirection(c1, c2)
	return n1.Dot(dir) >= n2.Dot(dir)
}

// normalsDiff is the geometric dissimilarity between two regions: the norm of
// the normals' cross product plus the absolute alignment of each normal with
// the centroid direction, averaged. In [0,1] for unit normals.
func normalsDiff(n1 r3.Vector, c1 r3.Vector, n2 r3.Vector, c2 r3.Vector) float64 {
	dir := centroidDirection(c1, c2)
	crossNorm := n1.Cross(n2).Norm()
	return (crossNorm + math.Abs(n1.Dot(dir)) + math.Abs(n2.Dot(dir))) / 3
}

// deltaCGH computes the three cue dissimilarities between two regions under
// the configured kernels.
func (c *Clustering) deltaCGH(s1, s2 *Supervoxel) deltas {
	r1, g1, b1 := s1.MeanColor()
	r2, g2, b2 := s2.MeanColor()

	var dc float64
	switch c.deltaCType {
	case LabCIEDE00:
		dc = colorutil.CIEDE2000(r1, g1, b1, r2, g2, b2) / colorutil.LabRange
	case RGBEuclidean:
		dc = colorutil.RGBEuclidean(r1, g1, b1, r2, g2, b2) / colorutil.RGBRange
	}

	var dg float64
	switch c.deltaGType {
	case NormalsDiff:
		dg = normalsDiff(s1.Normal, s1.Centroid, s2.Normal, s2.Centroid)
	case ConvexNormalsDiff:
		dg = normalsDiff(s1.Normal, s1.Centroid, s2.Normal, s2.Centroid)
		if isConvex(s1.Normal, s1.Centroid, s2.Normal, s2.Centroid) {
			dg *= 0.5
		}
	}

	var dh float64
	switch c.deltaHType {
	case AverageFriction:
		dh = math.Abs(s1.Friction - s2.Friction)
	}

	return deltas{c: dc, g: dg, h: dh}
}

// delta unifies the three cue dissimilarities into a single edge weight under
// the configured merging criterion.
func (c *Clustering) delta(s1, s2 *Supervoxel) float64 {
	d := c.deltaCGH(s1, s2)
	return c.tC(d.c) + c.tG(d.g) + c.tH(d.h)
}
