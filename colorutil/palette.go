package colorutil

import (
	"image/color"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// PaletteSize is the number of entries in the label palette.
const PaletteSize = 256

var (
	paletteOnce sync.Once
	palette     [PaletteSize]color.NRGBA
)

// Palette returns the color assigned to the given label. Labels wrap around
// after PaletteSize entries. The palette is built once with a greedy
// max-min perceptual distance selection over a uniform RGB grid, so
// consecutive labels are maximally distinct (Glasbey-style).
func Palette(label int) color.NRGBA {
	paletteOnce.Do(buildPalette)
	i := label % PaletteSize
	if i < 0 {
		i += PaletteSize
	}
	return palette[i]
}

func buildPalette() {
	const levels = 8
	candidates := make([]colorful.Color, 0, levels*levels*levels)
	for r := 0; r < levels; r++ {
		for g := 0; g < levels; g++ {
			for b := 0; b < levels; b++ {
				candidates = append(candidates, colorful.Color{
					R: float64(r) / (levels - 1),
					G: float64(g) / (levels - 1),
					B: float64(b) / (levels - 1),
				})
			}
		}
	}

	// minDist[i] tracks the distance from candidate i to the nearest color
	// chosen so far; each new pick only needs one pass to update it.
	minDist := make([]float64, len(candidates))
	for i := range minDist {
		minDist[i] = 1e12
	}

	current := colorful.Color{R: 1, G: 0, B: 0}
	palette[0] = toNRGBA(current)
	for n := 1; n < PaletteSize; n++ {
		bestIdx := -1
		best := -1.0
		for i, c := range candidates {
			d := current.DistanceCIEDE2000(c)
			if d < minDist[i] {
				minDist[i] = d
			}
			if minDist[i] > best {
				best = minDist[i]
				bestIdx = i
			}
		}
		current = candidates[bestIdx]
		minDist[bestIdx] = 0
		palette[n] = toNRGBA(current)
	}
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
