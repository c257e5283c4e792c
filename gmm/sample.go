package gmm

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Sample draws n rows from the multivariate normal with the given mean and
// covariance into a dense matrix. Non-positive-definite covariances are
// regularized with a growing diagonal ridge before sampling.
func Sample(mean []float64, cov mat.Symmetric, n int, src rand.Source) (*mat.Dense, error) {
	if n < 1 {
		return nil, errors.Errorf("sample count must be positive, got %d", n)
	}
	normal, err := newNormalRidged(mean, cov, src)
	if err != nil {
		return nil, err
	}
	d := len(mean)
	out := mat.NewDense(n, d, nil)
	row := make([]float64, d)
	for i := 0; i < n; i++ {
		normal.Rand(row)
		out.SetRow(i, row)
	}
	return out, nil
}

// VStack concatenates the given matrices vertically. All inputs must share
// the same column count.
func VStack(blocks []*mat.Dense) (*mat.Dense, error) {
	if len(blocks) == 0 {
		return nil, errors.New("nothing to stack")
	}
	var rows int
	_, cols := blocks[0].Dims()
	for _, b := range blocks {
		r, c := b.Dims()
		if c != cols {
			return nil, errors.Errorf("column mismatch: %d vs %d", c, cols)
		}
		rows += r
	}
	out := mat.NewDense(rows, cols, nil)
	offset := 0
	row := make([]float64, cols)
	for _, b := range blocks {
		r, _ := b.Dims()
		for i := 0; i < r; i++ {
			mat.Row(row, i, b)
			out.SetRow(offset+i, row)
		}
		offset += r
	}
	return out, nil
}
