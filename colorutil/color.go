// Package colorutil provides the color arithmetic used by the region merger:
// mean colors, perceptual color distances, and a fixed palette for label
// visualization.
package colorutil

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// LabRange normalizes CIEDE2000 distances into [0,1]. go-colorful computes
// the metric on its unit-scaled L*a*b* space (standard deltaE divided by 100),
// so 1.2 corresponds to the conventional headroom of 120.
const LabRange = 1.2

// RGBRange is the maximum Euclidean distance between two RGB colors,
// sqrt(3) * 255.
const RGBRange = 441.6729559300637

// MeanColor returns the component-wise arithmetic mean of the given colors
// on the [0,255] scale. An empty slice yields black.
func MeanColor(colors []color.NRGBA) (float64, float64, float64) {
	if len(colors) == 0 {
		return 0, 0, 0
	}
	var r, g, b float64
	for _, c := range colors {
		r += float64(c.R)
		g += float64(c.G)
		b += float64(c.B)
	}
	n := float64(len(colors))
	return r / n, g / n, b / n
}

// RGBToLab converts an RGB color on the [0,255] scale to L*a*b*.
func RGBToLab(r, g, b float64) (float64, float64, float64) {
	return toColorful(r, g, b).Lab()
}

// CIEDE2000 returns the CIEDE2000 perceptual distance between two RGB colors
// on the [0,255] scale.
func CIEDE2000(r1, g1, b1, r2, g2, b2 float64) float64 {
	return toColorful(r1, g1, b1).DistanceCIEDE2000(toColorful(r2, g2, b2))
}

// RGBEuclidean returns the Euclidean distance between two RGB colors on the
// [0,255] scale.
func RGBEuclidean(r1, g1, b1, r2, g2, b2 float64) float64 {
	dr := r1 - r2
	dg := g1 - g2
	db := b1 - b2
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

func toColorful(r, g, b float64) colorful.Color {
	return colorful.Color{R: clamp01(r / 255), G: clamp01(g / 255), B: clamp01(b / 255)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
