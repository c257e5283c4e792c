package segmentation

import (
	"github.com/pkg/errors"

	"github.com/visuohaptic/svclust/eval"
	"github.com/visuohaptic/svclust/pointcloud"
)

// Scorer scores a labeled segmentation cloud against some ground truth. The
// eval package provides the in-tree implementation; callers may substitute
// their own.
type Scorer interface {
	Evaluate(segm pointcloud.PointCloud) (eval.Performance, error)
}

// ThresholdPerformance is one row of a sweep result.
type ThresholdPerformance struct {
	Threshold   float64
	Performance eval.Performance
}

// AllThresholds clusters at every threshold in [start, end] with the given
// step and scores each resulting partition. The first threshold runs from
// the initial state; later thresholds continue from the current state, so
// the sweep is a monotone coarsening. An inverted span is swapped with a
// warning rather than rejected.
func (c *Clustering) AllThresholds(scorer Scorer, start, end, step float64) ([]ThresholdPerformance, error) {
	if start < 0 || start > 1 || end < 0 || end > 1 || step < 0 || step > 1 {
		return nil, errors.New("start, end, and step thresholds must all lie in [0,1]")
	}
	if step == 0 {
		return nil, errors.New("step threshold must be positive")
	}
	if start > end {
		c.logger.Warn("start threshold greater than end threshold, inverting")
		start, end = end, start
	}
	c.logger.Debugf("testing thresholds from %f to %f (step %f)", start, end, step)

	if err := c.Cluster(start); err != nil {
		return nil, err
	}
	results := make([]ThresholdPerformance, 0, int((end-start)/step)+1)
	score, err := c.scoreCurrent(scorer, start)
	if err != nil {
		return nil, err
	}
	results = append(results, score)

	for t := start + step; t <= end+1e-9; t += step {
		c.clusterFrom(c.state, t)
		score, err := c.scoreCurrent(scorer, t)
		if err != nil {
			return nil, err
		}
		results = append(results, score)
	}
	return results, nil
}

// BestThreshold sweeps the span and returns the row with the highest F-score.
func (c *Clustering) BestThreshold(scorer Scorer, start, end, step float64) (ThresholdPerformance, error) {
	results, err := c.AllThresholds(scorer, start, end, step)
	if err != nil {
		return ThresholdPerformance{}, err
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Performance.FScore > best.Performance.FScore {
			best = r
		}
	}
	return best, nil
}

func (c *Clustering) scoreCurrent(scorer Scorer, threshold float64) (ThresholdPerformance, error) {
	labeled, err := c.LabeledCloud()
	if err != nil {
		return ThresholdPerformance{}, err
	}
	perf, err := scorer.Evaluate(labeled)
	if err != nil {
		return ThresholdPerformance{}, errors.Wrapf(err, "scoring threshold %f", threshold)
	}
	c.logger.Debugf("<T, Fscore, voi, wov> = <%f, %f, %f, %f>",
		threshold, perf.FScore, perf.VOI, perf.WOV)
	return ThresholdPerformance{Threshold: threshold, Performance: perf}, nil
}
