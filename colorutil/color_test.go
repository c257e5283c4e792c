package colorutil

import (
	"image/color"
	"testing"

	"go.viam.com/test"
)

func TestMeanColor(t *testing.T) {
	r, g, b := MeanColor(nil)
	test.That(t, r, test.ShouldEqual, 0)
	test.That(t, g, test.ShouldEqual, 0)
	test.That(t, b, test.ShouldEqual, 0)

	colors := []color.NRGBA{
		{R: 0, G: 100, B: 200},
		{R: 50, G: 100, B: 100},
	}
	r, g, b = MeanColor(colors)
	test.That(t, r, test.ShouldEqual, 25)
	test.That(t, g, test.ShouldEqual, 100)
	test.That(t, b, test.ShouldEqual, 150)
}

func TestDistancesOfIdenticalColors(t *testing.T) {
	test.That(t, CIEDE2000(128, 64, 32, 128, 64, 32), test.ShouldAlmostEqual, 0)
	test.That(t, RGBEuclidean(128, 64, 32, 128, 64, 32), test.ShouldAlmostEqual, 0)
}

func TestRGBEuclideanExtremes(t *testing.T) {
	d := RGBEuclidean(0, 0, 0, 255, 255, 255)
	test.That(t, d, test.ShouldAlmostEqual, RGBRange, 1e-9)
	// normalization keeps any distance inside [0,1]
	test.That(t, d/RGBRange, test.ShouldBeLessThanOrEqualTo, 1)
}

func TestCIEDE2000Normalized(t *testing.T) {
	d := CIEDE2000(0, 0, 0, 255, 255, 255) / LabRange
	test.That(t, d, test.ShouldBeGreaterThan, 0)
	test.That(t, d, test.ShouldBeLessThanOrEqualTo, 1)
}

func TestRGBToLab(t *testing.T) {
	l, _, _ := RGBToLab(255, 255, 255)
	test.That(t, l, test.ShouldAlmostEqual, 1, 1e-3)
	l, a, b := RGBToLab(0, 0, 0)
	test.That(t, l, test.ShouldAlmostEqual, 0, 1e-3)
	test.That(t, a, test.ShouldAlmostEqual, 0, 1e-3)
	test.That(t, b, test.ShouldAlmostEqual, 0, 1e-3)
}

func TestPalette(t *testing.T) {
	seen := make(map[color.NRGBA]bool)
	for i := 0; i < PaletteSize; i++ {
		seen[Palette(i)] = true
	}
	// all entries are distinct
	test.That(t, len(seen), test.ShouldEqual, PaletteSize)
	// labels wrap around
	test.That(t, Palette(PaletteSize), test.ShouldResemble, Palette(0))
	test.That(t, Palette(PaletteSize+3), test.ShouldResemble, Palette(3))
}
