// Package smooth defines fixed-interval smoothers of filtered estimates.
package smooth

import (
	filter "github.com/milosgajdos/go-kalman"
	"github.com/milosgajdos/go-kalman/matrix"
)

// RTS is Rauch-Tung-Striebel smoother of a linear time-invariant model
type RTS interface {
	// filter.Smoother is filter smoother
	filter.Smoother
	// TransitionMatrix returns the state transition matrix of the model
	TransitionMatrix() *matrix.Dense
	// ProcessNoiseCov returns the process noise covariance of the model
	ProcessNoiseCov() *matrix.Dense
}
