package filter

import "github.com/milosgajdos/go-kalman/matrix"

// Filter is a dynamical system filter.
type Filter interface {
	// Predict estimates the next internal state of the system
	Predict() (Estimate, error)
	// Correct corrects the predicted state using external measurement
	Correct(*matrix.Dense) (Estimate, error)
}

// Smoother is a filter smoother
type Smoother interface {
	// Smooth returns smoothed estimates of filtered estimates
	Smooth([]Estimate) ([]Estimate, error)
}

// InitCond is initial state condition of the filter
type InitCond interface {
	// State returns initial filter state
	State() *matrix.Dense
	// Cov returns initial state covariance
	Cov() *matrix.Dense
}

// Estimate is dynamical system filter estimate
type Estimate interface {
	// Val returns estimate value
	Val() *matrix.Dense
	// Cov returns estimate covariance
	Cov() *matrix.Dense
}

// Noise is dynamical system noise
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() *matrix.Dense
	// Sample returns a sample of the noise
	Sample() *matrix.Dense
	// Reset resets the noise
	Reset() error
}
