package segmentation

import (
	"image/color"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/visuohaptic/svclust/haptic"
)

func flatPatch(col color.NRGBA, z float64, xs ...float64) ([]ColoredPoint, []r3.Vector) {
	voxels := make([]ColoredPoint, 0, len(xs)*len(xs))
	normals := make([]r3.Vector, 0, len(xs)*len(xs))
	for _, x := range xs {
		for _, y := range xs {
			voxels = append(voxels, ColoredPoint{Position: r3.Vector{X: x, Y: y, Z: z}, Color: col})
			normals = append(normals, r3.Vector{Z: 1})
		}
	}
	return voxels, normals
}

func TestNewSupervoxel(t *testing.T) {
	red := color.NRGBA{R: 200, G: 10, B: 10, A: 255}
	voxels, normals := flatPatch(red, 5, -1, 0, 1)

	sv, err := NewSupervoxel(voxels, normals)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sv.Centroid, test.ShouldResemble, r3.Vector{Z: 5})
	// flat patch: unit normal along z, flipped toward the origin viewpoint
	test.That(t, math.Abs(sv.Normal.Z), test.ShouldAlmostEqual, 1)
	test.That(t, sv.Normal.Z, test.ShouldBeLessThan, 0)
	test.That(t, sv.Curvature, test.ShouldAlmostEqual, 0)

	mr, mg, mb := sv.MeanColor()
	test.That(t, mr, test.ShouldAlmostEqual, 200)
	test.That(t, mg, test.ShouldAlmostEqual, 10)
	test.That(t, mb, test.ShouldAlmostEqual, 10)
	test.That(t, sv.Touched(), test.ShouldBeFalse)
}

func TestNewSupervoxelValidation(t *testing.T) {
	_, err := NewSupervoxel(nil, nil)
	test.That(t, err, test.ShouldNotBeNil)

	voxels, _ := flatPatch(color.NRGBA{A: 255}, 0, 0, 1)
	_, err = NewSupervoxel(voxels, []r3.Vector{{Z: 1}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "mismatch")
}

func TestComputeStatistics(t *testing.T) {
	sv := &Supervoxel{
		Voxels: []ColoredPoint{
			{Position: r3.Vector{}, Color: color.NRGBA{R: 100, A: 255}},
			{Position: r3.Vector{X: 1}, Color: color.NRGBA{R: 200, A: 255}},
		},
		Normals:  []r3.Vector{{Z: 1}, {Z: 1}},
		Friction: 0.5,
		Frictions: []haptic.Sample{
			{Position: r3.Vector{}, Friction: 0.4},
			{Position: r3.Vector{X: 1}, Friction: 0.6},
		},
	}
	sv.ComputeStatistics()

	test.That(t, sv.Mean, test.ShouldResemble, []float64{150, 0, 0, 0.5})
	test.That(t, sv.Covariance.At(0, 0), test.ShouldAlmostEqual, 2500)
	test.That(t, sv.Covariance.At(1, 1), test.ShouldAlmostEqual, 0)
	test.That(t, sv.Covariance.At(3, 3), test.ShouldAlmostEqual, 0.01)
}

func TestComputeStatisticsFrictionFloor(t *testing.T) {
	sv := &Supervoxel{
		Voxels:    []ColoredPoint{{Position: r3.Vector{}, Color: color.NRGBA{A: 255}}},
		Normals:   []r3.Vector{{Z: 1}},
		Friction:  0.3,
		Frictions: []haptic.Sample{{Position: r3.Vector{}, Friction: 0.3}},
	}
	sv.ComputeStatistics()
	// a single sample has no spread; the floor keeps the covariance usable
	test.That(t, sv.Covariance.At(3, 3), test.ShouldEqual, minFrictionVariance)
}

func TestMergeSupervoxels(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}

	va, na := flatPatch(red, 2, 0, 1)
	a := &Supervoxel{Voxels: va, Normals: na, Friction: 0.2,
		Frictions: []haptic.Sample{{Position: va[0].Position, Friction: 0.2}}}
	a.ComputeStatistics()

	vb, nb := flatPatch(blue, 2, 2, 3)
	b := &Supervoxel{Voxels: vb, Normals: nb, Friction: 0.8,
		Frictions: []haptic.Sample{
			{Position: vb[0].Position, Friction: 0.7},
			{Position: vb[1].Position, Friction: 0.9},
		}}
	b.ComputeStatistics()

	merged := mergeSupervoxels(a, b)
	test.That(t, len(merged.Voxels), test.ShouldEqual, len(va)+len(vb))
	test.That(t, len(merged.Normals), test.ShouldEqual, len(merged.Voxels))
	test.That(t, len(merged.Frictions), test.ShouldEqual, 3)

	// sample-count-weighted friction: (1*0.2 + 2*0.8) / 3
	test.That(t, merged.Friction, test.ShouldAlmostEqual, 1.8/3)

	// the centroid and statistics are recomputed from all points
	test.That(t, merged.Centroid.Z, test.ShouldAlmostEqual, 2)
	mr, _, mb2 := merged.MeanColor()
	test.That(t, mr, test.ShouldAlmostEqual, 127.5)
	test.That(t, mb2, test.ShouldAlmostEqual, 127.5)
}

func TestMergeSupervoxelsNoSamples(t *testing.T) {
	va, na := flatPatch(color.NRGBA{A: 255}, 0, 0, 1)
	a := &Supervoxel{Voxels: va, Normals: na, Friction: 0.2}
	a.ComputeStatistics()
	vb, nb := flatPatch(color.NRGBA{A: 255}, 0, 2, 3)
	b := &Supervoxel{Voxels: vb, Normals: nb, Friction: 0.6}
	b.ComputeStatistics()

	merged := mergeSupervoxels(a, b)
	// without samples the merged friction is the plain average
	test.That(t, merged.Friction, test.ShouldAlmostEqual, 0.4)
	test.That(t, merged.Touched(), test.ShouldBeFalse)
}
