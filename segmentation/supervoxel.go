package segmentation

import (
	"image/color"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/visuohaptic/svclust/colorutil"
	"github.com/visuohaptic/svclust/haptic"
	"github.com/visuohaptic/svclust/pointcloud"
)

// minFrictionVariance keeps the friction dimension of the statistics from
// collapsing when a region carries fewer than two friction samples, so the
// joint covariance stays usable for sampling.
const minFrictionVariance = 1e-4

// ColoredPoint is a 3D position with an RGB color.
type ColoredPoint struct {
	Position r3.Vector
	Color    color.NRGBA
}

// Supervoxel is the per-region aggregate the merge engine operates on. A
// region owns its voxel and normal buffers; merging produces a fresh record
// and retires the two inputs.
type Supervoxel struct {
	// Voxels are the colored points belonging to this region. Normals holds
	// one surface normal per voxel, in the same order.
	Voxels  []ColoredPoint
	Normals []r3.Vector

	// Centroid is the arithmetic mean of the voxel positions. Normal is the
	// representative unit surface normal with its curvature.
	Centroid  r3.Vector
	Normal    r3.Vector
	Curvature float64

	// Frictions are the probe samples that fell inside this region. Friction
	// is their mean, or an imputed value when no sample was taken; 0 doubles
	// as the "unmeasured" sentinel until imputation has run. FrictionVariance
	// is the predictive variance of an imputed value, 0 when measured.
	Frictions        []haptic.Sample
	Friction         float64
	FrictionVariance float64

	// Mean and Covariance are the (R,G,B,friction) statistics used as GMM
	// features and for drawing synthetic samples.
	Mean       []float64
	Covariance *mat.SymDense
}

// NewSupervoxel builds a region record from its voxels and per-voxel normals,
// computing the centroid and representative normal from scratch.
func NewSupervoxel(voxels []ColoredPoint, normals []r3.Vector) (*Supervoxel, error) {
	if len(voxels) != len(normals) {
		return nil, errors.Errorf("voxel/normal count mismatch: %d vs %d", len(voxels), len(normals))
	}
	if len(voxels) == 0 {
		return nil, errors.New("region has no voxels")
	}
	sv := &Supervoxel{Voxels: voxels, Normals: normals}
	positions := sv.Positions()
	sv.Centroid = pointcloud.Centroid(positions)
	normal, curvature := pointcloud.PlaneNormal(positions)
	normal = pointcloud.FlipNormalTowardViewpoint(normal, sv.Centroid, r3.Vector{})
	sv.Normal = pointcloud.UnitNormal(normal)
	sv.Curvature = curvature
	sv.ComputeStatistics()
	return sv, nil
}

// Positions returns the voxel positions as a fresh slice.
func (sv *Supervoxel) Positions() []r3.Vector {
	positions := make([]r3.Vector, len(sv.Voxels))
	for i, v := range sv.Voxels {
		positions[i] = v.Position
	}
	return positions
}

// Colors returns the voxel colors as a fresh slice.
func (sv *Supervoxel) Colors() []color.NRGBA {
	colors := make([]color.NRGBA, len(sv.Voxels))
	for i, v := range sv.Voxels {
		colors[i] = v.Color
	}
	return colors
}

// Touched reports whether the region received any direct friction samples.
// The Friction scalar cannot answer this: 0 is also the unmeasured sentinel.
func (sv *Supervoxel) Touched() bool {
	return len(sv.Frictions) > 0
}

// MeanColor returns the cached mean RGB of the region on the [0,255] scale.
func (sv *Supervoxel) MeanColor() (float64, float64, float64) {
	return sv.Mean[0], sv.Mean[1], sv.Mean[2]
}

// ComputeStatistics refreshes Mean and Covariance from the current voxels,
// friction samples, and Friction scalar. The color block is the sample
// covariance over voxel colors; the friction variance comes from the region's
// own samples, floored so it never degenerates to zero spread.
func (sv *Supervoxel) ComputeStatistics() {
	mr, mg, mb := colorutil.MeanColor(sv.Colors())
	sv.Mean = []float64{mr, mg, mb, sv.Friction}

	cov := mat.NewSymDense(4, nil)
	n := float64(len(sv.Voxels))
	if n > 0 {
		var rr, gg, bb, rg, rb, gb float64
		for _, v := range sv.Voxels {
			dr := float64(v.Color.R) - mr
			dg := float64(v.Color.G) - mg
			db := float64(v.Color.B) - mb
			rr += dr * dr
			gg += dg * dg
			bb += db * db
			rg += dr * dg
			rb += dr * db
			gb += dg * db
		}
		cov.SetSym(0, 0, rr/n)
		cov.SetSym(1, 1, gg/n)
		cov.SetSym(2, 2, bb/n)
		cov.SetSym(0, 1, rg/n)
		cov.SetSym(0, 2, rb/n)
		cov.SetSym(1, 2, gb/n)
	}

	fVar := minFrictionVariance
	if len(sv.Frictions) > 1 {
		var sum float64
		for _, s := range sv.Frictions {
			d := s.Friction - sv.Friction
			sum += d * d
		}
		if v := sum / float64(len(sv.Frictions)); v > fVar {
			fVar = v
		}
	}
	cov.SetSym(3, 3, fVar)
	sv.Covariance = cov
}

// merge combines two regions into a fresh one. The merged buffers are
// concatenated, the centroid and normal are recomputed from all points, the
// normal is flipped toward the viewpoint at the origin, and the friction is a
// sample-count-weighted average when samples exist, a plain average otherwise.
func mergeSupervoxels(a, b *Supervoxel) *Supervoxel {
	voxels := make([]ColoredPoint, 0, len(a.Voxels)+len(b.Voxels))
	voxels = append(voxels, a.Voxels...)
	voxels = append(voxels, b.Voxels...)
	normals := make([]r3.Vector, 0, len(a.Normals)+len(b.Normals))
	normals = append(normals, a.Normals...)
	normals = append(normals, b.Normals...)

	merged := &Supervoxel{Voxels: voxels, Normals: normals}
	positions := merged.Positions()
	merged.Centroid = pointcloud.Centroid(positions)
	normal, curvature := pointcloud.PlaneNormal(positions)
	normal = pointcloud.FlipNormalTowardViewpoint(normal, merged.Centroid, r3.Vector{})
	merged.Normal = pointcloud.UnitNormal(normal)
	merged.Curvature = curvature

	merged.Frictions = make([]haptic.Sample, 0, len(a.Frictions)+len(b.Frictions))
	merged.Frictions = append(merged.Frictions, a.Frictions...)
	merged.Frictions = append(merged.Frictions, b.Frictions...)
	if len(merged.Frictions) != 0 {
		merged.Friction = (float64(len(a.Frictions))*a.Friction +
			float64(len(b.Frictions))*b.Friction) / float64(len(merged.Frictions))
	} else {
		merged.Friction = (a.Friction + b.Friction) / 2
	}

	merged.ComputeStatistics()
	return merged
}
