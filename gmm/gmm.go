// Package gmm fits Gaussian mixture models with expectation-maximization and
// derives conditional (regression) estimates from them. It is used to impute
// friction coefficients for regions a probe never touched, conditioning a
// joint (R,G,B,friction) model on region color.
package gmm

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

const (
	maxIterations = 100
	tolerance     = 1e-6
	ridge         = 1e-6
)

// Mixture is a fitted Gaussian mixture. Weights are non-negative and sum to 1.
type Mixture struct {
	Weights     []float64
	Means       [][]float64
	Covariances []*mat.SymDense
}

// Components returns the number of mixture components.
func (m *Mixture) Components() int {
	return len(m.Weights)
}

// Append adds a component with the given weight, rescaling the existing
// weights by (1 - weight) so the total stays 1.
func (m *Mixture) Append(weight float64, mean []float64, cov *mat.SymDense) {
	for i := range m.Weights {
		m.Weights[i] *= 1 - weight
	}
	m.Weights = append(m.Weights, weight)
	m.Means = append(m.Means, mean)
	m.Covariances = append(m.Covariances, cov)
}

// Fit runs expectation-maximization on the rows of x with k components.
// Initialization is deterministic: component means start at evenly spaced
// rows of the data ordered by the last column, covariances at the overall
// data covariance. Components whose weight collapses below 1e-6 are dropped
// from the result.
func Fit(x *mat.Dense, k int) (*Mixture, error) {
	n, d := x.Dims()
	if k < 1 {
		return nil, errors.Errorf("component count must be positive, got %d", k)
	}
	if n < k {
		return nil, errors.Errorf("cannot fit %d components to %d samples", k, n)
	}

	mixture := initMixture(x, k)

	resp := mat.NewDense(n, k, nil)
	logLik := math.Inf(-1)
	row := make([]float64, d)
	for iter := 0; iter < maxIterations; iter++ {
		// E step
		normals, err := mixture.normals()
		if err != nil {
			return nil, err
		}
		newLogLik := 0.0
		for i := 0; i < n; i++ {
			mat.Row(row, i, x)
			var logs []float64
			for j := 0; j < k; j++ {
				logs = append(logs, math.Log(mixture.Weights[j])+normals[j].LogProb(row))
			}
			total := logSumExp(logs)
			newLogLik += total
			for j := 0; j < k; j++ {
				resp.Set(i, j, math.Exp(logs[j]-total))
			}
		}

		// M step
		for j := 0; j < k; j++ {
			var nj float64
			mean := make([]float64, d)
			for i := 0; i < n; i++ {
				r := resp.At(i, j)
				nj += r
				mat.Row(row, i, x)
				for c := 0; c < d; c++ {
					mean[c] += r * row[c]
				}
			}
			if nj < 1e-12 {
				nj = 1e-12
			}
			for c := 0; c < d; c++ {
				mean[c] /= nj
			}
			cov := mat.NewSymDense(d, nil)
			for i := 0; i < n; i++ {
				r := resp.At(i, j)
				mat.Row(row, i, x)
				for a := 0; a < d; a++ {
					for b := a; b < d; b++ {
						cov.SetSym(a, b, cov.At(a, b)+r*(row[a]-mean[a])*(row[b]-mean[b]))
					}
				}
			}
			for a := 0; a < d; a++ {
				for b := a; b < d; b++ {
					cov.SetSym(a, b, cov.At(a, b)/nj)
				}
				cov.SetSym(a, a, cov.At(a, a)+ridge)
			}
			mixture.Weights[j] = nj / float64(n)
			mixture.Means[j] = mean
			mixture.Covariances[j] = cov
		}

		if math.Abs(newLogLik-logLik) < tolerance*math.Abs(newLogLik) {
			logLik = newLogLik
			break
		}
		logLik = newLogLik
	}

	mixture.prune()
	return mixture, nil
}

func initMixture(x *mat.Dense, k int) *Mixture {
	n, d := x.Dims()

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	last := d - 1
	sort.SliceStable(order, func(a, b int) bool {
		return x.At(order[a], last) < x.At(order[b], last)
	})

	baseCov := covarianceOf(x)
	mixture := &Mixture{}
	for j := 0; j < k; j++ {
		idx := order[j*(n-1)/max(k-1, 1)]
		mean := make([]float64, d)
		mat.Row(mean, idx, x)
		cov := mat.NewSymDense(d, nil)
		cov.CopySym(baseCov)
		mixture.Weights = append(mixture.Weights, 1/float64(k))
		mixture.Means = append(mixture.Means, mean)
		mixture.Covariances = append(mixture.Covariances, cov)
	}
	return mixture
}

func covarianceOf(x *mat.Dense) *mat.SymDense {
	n, d := x.Dims()
	mean := make([]float64, d)
	row := make([]float64, d)
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		for c := 0; c < d; c++ {
			mean[c] += row[c]
		}
	}
	for c := 0; c < d; c++ {
		mean[c] /= float64(n)
	}
	cov := mat.NewSymDense(d, nil)
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		for a := 0; a < d; a++ {
			for b := a; b < d; b++ {
				cov.SetSym(a, b, cov.At(a, b)+(row[a]-mean[a])*(row[b]-mean[b]))
			}
		}
	}
	for a := 0; a < d; a++ {
		for b := a; b < d; b++ {
			cov.SetSym(a, b, cov.At(a, b)/float64(n))
		}
		cov.SetSym(a, a, cov.At(a, a)+ridge)
	}
	return cov
}

// normals builds a frozen distmv.Normal per component, regularizing
// covariances that are not positive definite.
func (m *Mixture) normals() ([]*distmv.Normal, error) {
	normals := make([]*distmv.Normal, m.Components())
	for j := range normals {
		normal, err := newNormalRidged(m.Means[j], m.Covariances[j], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "component %d", j)
		}
		normals[j] = normal
	}
	return normals, nil
}

func (m *Mixture) prune() {
	var weights []float64
	var means [][]float64
	var covs []*mat.SymDense
	for j, w := range m.Weights {
		if w < 1e-6 {
			continue
		}
		weights = append(weights, w)
		means = append(means, m.Means[j])
		covs = append(covs, m.Covariances[j])
	}
	var total float64
	for _, w := range weights {
		total += w
	}
	for i := range weights {
		weights[i] /= total
	}
	m.Weights = weights
	m.Means = means
	m.Covariances = covs
}

// newNormalRidged wraps distmv.NewNormal, adding progressively larger ridge
// terms to the diagonal until the covariance factorizes.
func newNormalRidged(mean []float64, cov mat.Symmetric, src rand.Source) (*distmv.Normal, error) {
	if normal, ok := distmv.NewNormal(mean, cov, src); ok {
		return normal, nil
	}
	d := cov.SymmetricDim()
	eps := ridge
	for attempt := 0; attempt < 12; attempt++ {
		padded := mat.NewSymDense(d, nil)
		for a := 0; a < d; a++ {
			for b := a; b < d; b++ {
				padded.SetSym(a, b, cov.At(a, b))
			}
			padded.SetSym(a, a, cov.At(a, a)+eps)
		}
		if normal, ok := distmv.NewNormal(mean, padded, src); ok {
			return normal, nil
		}
		eps *= 10
	}
	return nil, errors.New("covariance is not positive definite even after regularization")
}

func logSumExp(logs []float64) float64 {
	maxLog := math.Inf(-1)
	for _, l := range logs {
		if l > maxLog {
			maxLog = l
		}
	}
	if math.IsInf(maxLog, -1) {
		return maxLog
	}
	var sum float64
	for _, l := range logs {
		sum += math.Exp(l - maxLog)
	}
	return maxLog + math.Log(sum)
}
