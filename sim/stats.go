package sim

import (
	"fmt"
	"math"

	"github.com/milosgajdos/go-kalman/matrix"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MeanAbsError returns mean absolute difference between truth and est over steps [from, to).
// It returns error if the slices differ in length or the window is empty or out of range.
func MeanAbsError(truth, est []float64, from, to int) (float64, error) {
	if len(truth) != len(est) {
		return 0, fmt.Errorf("%w: %d truth values, %d estimates", matrix.ErrDimensionMismatch, len(truth), len(est))
	}

	if from < 0 || to > len(truth) || from >= to {
		return 0, fmt.Errorf("invalid window [%d, %d) of %d values", from, to, len(truth))
	}

	var sum float64
	for k := from; k < to; k++ {
		sum += math.Abs(truth[k] - est[k])
	}

	return sum / float64(to-from), nil
}

// ErrorCov returns the empirical covariance of estimation errors est[k] - truth[k].
// Every element of truth and est must be a column vector of the same length.
// It returns error if fewer than two pairs are given or their shapes differ.
func ErrorCov(truth, est []*matrix.Dense) (*matrix.Dense, error) {
	if len(truth) != len(est) {
		return nil, fmt.Errorf("%w: %d truth values, %d estimates", matrix.ErrDimensionMismatch, len(truth), len(est))
	}

	if len(truth) < 2 {
		return nil, fmt.Errorf("at least two samples required, got %d", len(truth))
	}

	n, _ := truth[0].Dims()
	// every row is a single error observation
	obs := mat.NewDense(len(truth), n, nil)
	for k := range truth {
		e, err := matrix.Sub(est[k], truth[k])
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", k, err)
		}

		if r, c := e.Dims(); r != n || c != 1 {
			return nil, fmt.Errorf("step %d: error of shape [%d x %d]: %w", k, r, c, matrix.ErrDimensionMismatch)
		}
		obs.SetRow(k, e.RawData())
	}

	cov := mat.NewSymDense(n, nil)
	stat.CovarianceMatrix(cov, obs, nil)

	return matrix.CopyOf(cov), nil
}
