package segmentation

import (
	"math/rand/v2"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/visuohaptic/svclust/gmm"
	"github.com/visuohaptic/svclust/haptic"
	"github.com/visuohaptic/svclust/pointcloud"
)

// estimateFrictionsAndStatistics builds the engine-owned region records from
// the caller's over-segmentation, attaches measured frictions from the probe
// track, computes per-region statistics, and imputes frictions for regions
// the probe never touched.
func (c *Clustering) estimateFrictionsAndStatistics(
	segm map[uint32]*Supervoxel,
	track haptic.Track,
) (map[uint32]*Supervoxel, error) {
	ids := make([]uint32, 0, len(segm))
	for id := range segm {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	regions := make(map[uint32]*Supervoxel, len(segm))
	for _, id := range ids {
		in := segm[id]
		if len(in.Voxels) != len(in.Normals) {
			return nil, errors.Errorf("region %d: voxel/normal count mismatch: %d vs %d",
				id, len(in.Voxels), len(in.Normals))
		}
		if len(in.Voxels) == 0 {
			return nil, errors.Errorf("region %d has no voxels", id)
		}

		sv := &Supervoxel{
			Voxels:    append([]ColoredPoint(nil), in.Voxels...),
			Normals:   append([]r3.Vector(nil), in.Normals...),
			Curvature: in.Curvature,
		}
		positions := sv.Positions()
		sv.Centroid = pointcloud.Centroid(positions)
		if in.Normal.Norm() == 0 {
			normal, curvature := pointcloud.PlaneNormal(positions)
			normal = pointcloud.FlipNormalTowardViewpoint(normal, sv.Centroid, r3.Vector{})
			sv.Normal = pointcloud.UnitNormal(normal)
			sv.Curvature = curvature
		} else {
			sv.Normal = pointcloud.UnitNormal(in.Normal)
		}

		samples, mean := track.Average(positions)
		sv.Frictions = samples
		sv.Friction = mean
		sv.ComputeStatistics()
		regions[id] = sv
	}

	if err := c.estimateMissingFrictions(regions, ids); err != nil {
		return nil, err
	}
	return regions, nil
}

// estimateMissingFrictions fits a Gaussian mixture over (R,G,B,friction)
// samples drawn from the touched regions, augments it with a soft background
// component built over all regions, and regresses a friction estimate for
// every region still carrying the unmeasured sentinel.
func (c *Clustering) estimateMissingFrictions(regions map[uint32]*Supervoxel, ids []uint32) error {
	var untouched int
	for _, id := range ids {
		if regions[id].Friction == 0 {
			untouched++
		}
	}
	if untouched == 0 {
		c.logger.Debug("all regions carry measured frictions; skipping imputation")
		return nil
	}

	var touched []uint32
	for _, id := range ids {
		if regions[id].Touched() {
			touched = append(touched, id)
		}
	}
	if len(touched) == 0 {
		c.logger.Warn("no region was touched by the probe; frictions stay unmeasured")
		return nil
	}

	bgMean, bgCov := backgroundStatistics(regions, ids, touched)

	src := rand.New(rand.NewPCG(c.seed, c.seed))
	blocks := make([]*mat.Dense, 0, len(touched))
	for _, id := range touched {
		sv := regions[id]
		block, err := gmm.Sample(sv.Mean, sv.Covariance, c.sampleRows, src)
		if err != nil {
			return errors.Wrapf(err, "sampling region %d", id)
		}
		blocks = append(blocks, block)
	}
	samples, err := gmm.VStack(blocks)
	if err != nil {
		return errors.Wrap(err, "stacking GMM input")
	}

	mixture, err := gmm.Fit(samples, 2)
	if err != nil {
		return errors.Wrap(err, "fitting friction mixture")
	}
	if mixture.Components() == 2 {
		mixture.Append(c.backgroundWeight, bgMean, bgCov)
	}
	c.mixture = mixture

	for _, id := range ids {
		sv := regions[id]
		if sv.Friction != 0 {
			continue
		}
		mean, variance, err := mixture.Regress(sv.Mean[:3])
		if err != nil {
			return errors.Wrapf(err, "regressing friction for region %d", id)
		}
		if mean >= 1 {
			// the historical correction subtracts the variance, not the
			// standard deviation
			mean -= variance
		}
		if mean < 0 {
			mean = 0
		}
		if mean > 1 {
			mean = 1
		}
		sv.Friction = mean
		sv.FrictionVariance = variance
		sv.Mean[3] = mean
		c.logger.Debugf("region %d imputed friction %f (variance %f)", id, mean, variance)
	}
	return nil
}

// backgroundStatistics accumulates the background (R,G,B,friction) mean and
// covariance: color statistics over every region weighted per point, the
// friction mean over touched regions weighted per sample. The covariance's
// last row and column are padded with ones to soften untouched
// color-friction correlations; that padding is not positive-semidefinite in
// general, so consumers regularize before factorizing.
func backgroundStatistics(
	regions map[uint32]*Supervoxel,
	ids, touched []uint32,
) ([]float64, *mat.SymDense) {
	mean := make([]float64, 4)
	var last [3]float64
	var rr, gg, bb, rg, rb, gb float64
	var totalCount, colorCount float64
	for _, id := range ids {
		sv := regions[id]
		totalCount++
		for k := 0; k < 3; k++ {
			last[k] = mean[k]
			mean[k] += (sv.Mean[k] - mean[k]) / totalCount
		}
		for _, v := range sv.Voxels {
			r := float64(v.Color.R)
			g := float64(v.Color.G)
			b := float64(v.Color.B)
			rr += (r - last[0]) * (r - mean[0])
			gg += (g - last[1]) * (g - mean[1])
			bb += (b - last[2]) * (b - mean[2])
			rg += (r - last[0]) * (g - mean[1])
			rb += (r - last[0]) * (b - mean[2])
			gb += (g - last[1]) * (b - mean[2])
			colorCount++
		}
	}

	var touchedCount float64
	for _, id := range touched {
		touchedCount++
		mean[3] += (regions[id].Mean[3] - mean[3]) / touchedCount
	}

	if colorCount > 0 {
		rr /= colorCount
		gg /= colorCount
		bb /= colorCount
		rg /= colorCount
		rb /= colorCount
		gb /= colorCount
	}

	cov := mat.NewSymDense(4, []float64{
		rr, rg, rb, 1,
		rg, gg, gb, 1,
		rb, gb, bb, 1,
		1, 1, 1, 1,
	})
	return mean, cov
}
