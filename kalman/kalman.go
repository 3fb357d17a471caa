package kalman

import (
	filter "github.com/milosgajdos/go-kalman"
	"github.com/milosgajdos/go-kalman/matrix"
)

// Kalman is Kalman Filter
type Kalman interface {
	// filter.Filter is dynamical system filter
	filter.Filter
	// Step runs one predict-correct cycle for the given measurement
	Step(*matrix.Dense) (filter.Estimate, error)
	// Cov returns Kalman filter state covariance
	Cov() *matrix.Dense
	// Gain returns Kalman filter gain
	Gain() *matrix.Dense
}
