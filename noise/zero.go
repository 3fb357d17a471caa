package noise

import (
	"fmt"

	"github.com/milosgajdos/go-kalman/matrix"
	"gonum.org/v1/gonum/mat"
)

// Zero is zero noise i.e. no noise
type Zero struct {
	// mean stores zero mean values
	mean []float64
	// cov is zero covariance matrix
	cov *matrix.Dense
}

// NewZero creates new zero noise i.e. zero mean and zero covariance.
// It returns error if size is not positive.
func NewZero(size int) (*Zero, error) {
	cov, err := matrix.New(size, size)
	if err != nil {
		return nil, fmt.Errorf("invalid noise dimension %d: %w", size, err)
	}

	return &Zero{
		mean: make([]float64, size),
		cov:  cov,
	}, nil
}

// Sample generates empty sample and returns it: a vector with zero values.
func (e *Zero) Sample() *matrix.Dense {
	sample, _ := matrix.New(len(e.mean), 1)

	return sample
}

// Cov returns empty covariance matrix: symmetric matrix with zero values.
func (e *Zero) Cov() *matrix.Dense {
	return e.cov.Clone()
}

// Mean returns Zero mean.
func (e *Zero) Mean() []float64 {
	mean := make([]float64, len(e.mean))
	copy(mean, e.mean)

	return mean
}

// Reset does nothing: it's here to implement filter.Noise interface
func (e *Zero) Reset() error { return nil }

// String implements the Stringer interface.
func (e *Zero) String() string {
	return fmt.Sprintf("Zero{\nMean=%v\nCov=%v\n}", e.Mean(), mat.Formatted(e.cov, mat.Prefix("    "), mat.Squeeze()))
}
