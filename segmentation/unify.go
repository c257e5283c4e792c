package segmentation

import "math"

// initMergingParameters derives the mode-specific unification parameters from
// the cue distributions observed over the initial edge set.
func (c *Clustering) initMergingParameters(dc, dg, dh []float64) {
	switch c.mergingType {
	case ManualLambda:
		// nothing to derive; lambdas are user-set
	case AdaptiveLambda:
		meanC := runningMean(dc)
		meanH := runningMean(dh)
		if meanC+meanH == 0 {
			c.lambdaC = 0
		} else {
			c.lambdaC = meanH / (meanC + meanH)
		}
		// the geometric cue is dropped under the adaptive criterion
		c.lambdaG = 0
	case Equalization:
		c.cdfC = computeCDF(dc, c.binsNum)
		c.cdfG = computeCDF(dg, c.binsNum)
		c.cdfH = computeCDF(dh, c.binsNum)
	}
}

// computeCDF builds the empirical cumulative distribution of the samples over
// bins uniform bins spanning [0,1].
func computeCDF(samples []float64, bins int) []float64 {
	counts := make([]int, bins)
	for _, s := range samples {
		counts[binOf(s, bins)]++
	}
	cdf := make([]float64, bins)
	total := 0
	for i, count := range counts {
		total += count
		cdf[i] = float64(total)
	}
	if len(samples) > 0 {
		for i := range cdf {
			cdf[i] /= float64(len(samples))
		}
	}
	return cdf
}

func binOf(v float64, bins int) int {
	b := int(math.Floor(v * float64(bins)))
	if b >= bins {
		b = bins - 1
	}
	if b < 0 {
		b = 0
	}
	return b
}

// runningMean matches the incremental mean used elsewhere in the pipeline so
// the adaptive lambdas are bit-stable across runs.
func runningMean(samples []float64) float64 {
	var count, mean float64
	for _, s := range samples {
		count++
		mean += (s - mean) / count
	}
	return mean
}

// tC transforms the color dissimilarity under the configured criterion.
func (c *Clustering) tC(deltaC float64) float64 {
	switch c.mergingType {
	case ManualLambda, AdaptiveLambda:
		return c.lambdaC * deltaC
	case Equalization:
		return c.cdfC[binOf(deltaC, c.binsNum)] / 3
	}
	return 0
}

// tG transforms the geometric dissimilarity under the configured criterion.
func (c *Clustering) tG(deltaG float64) float64 {
	switch c.mergingType {
	case ManualLambda, AdaptiveLambda:
		return c.lambdaG * deltaG
	case Equalization:
		return c.cdfG[binOf(deltaG, c.binsNum)] / 3
	}
	return 0
}

// tH transforms the haptic dissimilarity under the configured criterion.
func (c *Clustering) tH(deltaH float64) float64 {
	switch c.mergingType {
	case ManualLambda, AdaptiveLambda:
		return (1 - c.lambdaC - c.lambdaG) * deltaH
	case Equalization:
		return c.cdfH[binOf(deltaH, c.binsNum)] / 3
	}
	return 0
}
