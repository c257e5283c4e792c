// Package eval scores a candidate segmentation against a ground-truth
// labeling: pair-counting F-score, variation of information, and weighted
// overlap. Both clouds are matched point by point on exact positions.
package eval

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/visuohaptic/svclust/pointcloud"
)

// Performance collects the three scores for one segmentation.
type Performance struct {
	// FScore is the pair-counting F1: precision and recall over point pairs
	// grouped together in the segmentation versus the ground truth.
	FScore float64
	// VOI is the variation of information in nats; 0 means identical
	// partitions, lower is better.
	VOI float64
	// WOV is the weighted overlap: for each ground-truth region, the best
	// single-segment coverage, averaged weighted by region size. 1 is
	// perfect, higher is better.
	WOV float64
}

// Evaluator scores segmentations against a fixed ground truth.
type Evaluator struct {
	truth map[r3.Vector]int
}

// New builds an evaluator from a labeled ground-truth cloud. Every point must
// carry a label value.
func New(groundTruth pointcloud.PointCloud) (*Evaluator, error) {
	truth := make(map[r3.Vector]int, groundTruth.Size())
	var err error
	groundTruth.Iterate(func(p r3.Vector, d pointcloud.Data) bool {
		if !d.HasValue() {
			err = errors.Errorf("ground-truth point (%v, %v, %v) has no label", p.X, p.Y, p.Z)
			return false
		}
		truth[p] = d.Value()
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(truth) == 0 {
		return nil, errors.New("ground truth is empty")
	}
	return &Evaluator{truth: truth}, nil
}

// Evaluate scores a labeled segmentation cloud. Points absent from the
// ground truth are ignored; a segmentation sharing no point with the truth is
// an error.
func (ev *Evaluator) Evaluate(segm pointcloud.PointCloud) (Performance, error) {
	counts := make(map[[2]int]float64)
	segTotals := make(map[int]float64)
	truthTotals := make(map[int]float64)
	var n float64
	var err error
	segm.Iterate(func(p r3.Vector, d pointcloud.Data) bool {
		truthLabel, ok := ev.truth[p]
		if !ok {
			return true
		}
		if !d.HasValue() {
			err = errors.Errorf("segmentation point (%v, %v, %v) has no label", p.X, p.Y, p.Z)
			return false
		}
		segLabel := d.Value()
		counts[[2]int{segLabel, truthLabel}]++
		segTotals[segLabel]++
		truthTotals[truthLabel]++
		n++
		return true
	})
	if err != nil {
		return Performance{}, err
	}
	if n == 0 {
		return Performance{}, errors.New("segmentation shares no points with the ground truth")
	}

	return Performance{
		FScore: fScore(counts, segTotals, truthTotals),
		VOI:    variationOfInformation(counts, segTotals, truthTotals, n),
		WOV:    weightedOverlap(counts, truthTotals, n),
	}, nil
}

// fScore computes the pair-counting F1 over the contingency table.
func fScore(counts map[[2]int]float64, segTotals, truthTotals map[int]float64) float64 {
	var tp, pairsSeg, pairsTruth float64
	for _, c := range counts {
		tp += pairs(c)
	}
	for _, c := range segTotals {
		pairsSeg += pairs(c)
	}
	for _, c := range truthTotals {
		pairsTruth += pairs(c)
	}
	if pairsSeg == 0 || pairsTruth == 0 || tp == 0 {
		return 0
	}
	precision := tp / pairsSeg
	recall := tp / pairsTruth
	return 2 * precision * recall / (precision + recall)
}

func pairs(c float64) float64 {
	return c * (c - 1) / 2
}

// variationOfInformation computes H(S) + H(G) - 2 I(S;G) in nats.
func variationOfInformation(
	counts map[[2]int]float64,
	segTotals, truthTotals map[int]float64,
	n float64,
) float64 {
	hSeg := entropy(segTotals, n)
	hTruth := entropy(truthTotals, n)
	var mutual float64
	for key, c := range counts {
		p := c / n
		mutual += p * math.Log(p*n*n/(segTotals[key[0]]*truthTotals[key[1]]))
	}
	voi := hSeg + hTruth - 2*mutual
	if voi < 0 {
		voi = 0 // guard tiny negative round-off
	}
	return voi
}

func entropy(totals map[int]float64, n float64) float64 {
	var h float64
	for _, c := range totals {
		p := c / n
		h -= p * math.Log(p)
	}
	return h
}

// weightedOverlap averages, over ground-truth regions weighted by size, the
// fraction of each region covered by its best-matching segment.
func weightedOverlap(counts map[[2]int]float64, truthTotals map[int]float64, n float64) float64 {
	best := make(map[int]float64)
	for key, c := range counts {
		if c > best[key[1]] {
			best[key[1]] = c
		}
	}
	var wov float64
	for label, total := range truthTotals {
		wov += (total / n) * (best[label] / total)
	}
	return wov
}
