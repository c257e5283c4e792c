package gmm

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Regress computes Gaussian mixture regression of the last model dimension
// conditioned on x, which must cover all the preceding dimensions. It returns
// the conditional mean and the conditional (predictive) variance.
func (m *Mixture) Regress(x []float64) (float64, float64, error) {
	if m.Components() == 0 {
		return 0, 0, errors.New("empty mixture")
	}
	q := len(x)
	d := len(m.Means[0])
	if q != d-1 {
		return 0, 0, errors.Errorf("conditioning input has %d dims, model needs %d", q, d-1)
	}

	type conditional struct {
		mean     float64
		variance float64
	}
	conds := make([]conditional, m.Components())
	logResp := make([]float64, m.Components())

	diff := mat.NewVecDense(q, nil)
	cross := mat.NewVecDense(q, nil)
	var solved, gain mat.VecDense
	for j := 0; j < m.Components(); j++ {
		muIn := m.Means[j][:q]
		muOut := m.Means[j][q]
		cov := m.Covariances[j]

		sigmaIn := mat.NewSymDense(q, nil)
		for a := 0; a < q; a++ {
			for b := a; b < q; b++ {
				sigmaIn.SetSym(a, b, cov.At(a, b))
			}
		}
		for a := 0; a < q; a++ {
			cross.SetVec(a, cov.At(q, a))
			diff.SetVec(a, x[a]-muIn[a])
		}

		chol, err := choleskyRidged(sigmaIn)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "component %d input covariance", j)
		}
		if err := chol.SolveVecTo(&solved, diff); err != nil {
			return 0, 0, errors.Wrapf(err, "component %d conditioning solve", j)
		}
		if err := chol.SolveVecTo(&gain, cross); err != nil {
			return 0, 0, errors.Wrapf(err, "component %d gain solve", j)
		}

		conds[j].mean = muOut + mat.Dot(cross, &solved)
		conds[j].variance = cov.At(q, q) - mat.Dot(cross, &gain)
		if conds[j].variance < 0 {
			conds[j].variance = 0
		}

		normal, err := newNormalRidged(muIn, sigmaIn, nil)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "component %d responsibility", j)
		}
		logResp[j] = math.Log(m.Weights[j]) + normal.LogProb(x)
	}

	total := logSumExp(logResp)
	if math.IsInf(total, -1) {
		// x is infinitely unlikely under every component; fall back to
		// uniform responsibilities
		for j := range logResp {
			logResp[j] = 0
		}
		total = math.Log(float64(len(logResp)))
	}

	var mean float64
	resp := make([]float64, len(logResp))
	for j := range logResp {
		resp[j] = math.Exp(logResp[j] - total)
		mean += resp[j] * conds[j].mean
	}
	var variance float64
	for j := range resp {
		dm := conds[j].mean - mean
		variance += resp[j] * (conds[j].variance + dm*dm)
	}
	return mean, variance, nil
}

// choleskyRidged factorizes an SPD matrix, adding progressively larger
// diagonal ridge terms if the bare matrix fails.
func choleskyRidged(sym *mat.SymDense) (*mat.Cholesky, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(sym); ok {
		return &chol, nil
	}
	d := sym.SymmetricDim()
	eps := ridge
	for attempt := 0; attempt < 12; attempt++ {
		padded := mat.NewSymDense(d, nil)
		padded.CopySym(sym)
		for a := 0; a < d; a++ {
			padded.SetSym(a, a, padded.At(a, a)+eps)
		}
		if ok := chol.Factorize(padded); ok {
			return &chol, nil
		}
		eps *= 10
	}
	return nil, errors.New("matrix is not positive definite even after regularization")
}
