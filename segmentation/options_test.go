package segmentation

import (
	"testing"

	"go.viam.com/test"
)

func TestOptionStrings(t *testing.T) {
	test.That(t, LabCIEDE00.String(), test.ShouldEqual, "LAB_CIEDE00")
	test.That(t, RGBEuclidean.String(), test.ShouldEqual, "RGB_EUCL")
	test.That(t, ColorDistance(99).String(), test.ShouldEqual, "unknown")

	test.That(t, NormalsDiff.String(), test.ShouldEqual, "NORMALS_DIFF")
	test.That(t, ConvexNormalsDiff.String(), test.ShouldEqual, "CONVEX_NORMALS_DIFF")

	test.That(t, AverageFriction.String(), test.ShouldEqual, "AVERAGE_FRICTION")

	test.That(t, ManualLambda.String(), test.ShouldEqual, "MANUAL_LAMBDA")
	test.That(t, AdaptiveLambda.String(), test.ShouldEqual, "ADAPTIVE_LAMBDA")
	test.That(t, Equalization.String(), test.ShouldEqual, "EQUALIZATION")
}
