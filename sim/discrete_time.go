package sim

import "github.com/milosgajdos/go-kalman/matrix"

// Discrete is a basic model of a linear, discrete-time, dynamical system
type Discrete struct {
	System
}

// NewDiscrete creates a linear discrete-time model based on the control theory equations.
//
//	x[n+1] = A*x[n] + B*u[n]
//	y[n] = H*x[n]
func NewDiscrete(A, B, H *matrix.Dense) (*Discrete, error) {
	sys, err := newSystem(A, B, H)
	if err != nil {
		return nil, err
	}

	return &Discrete{System: sys}, nil
}

// Propagate returns the next internal state x of a linear, discrete-time
// system given an input vector u and process noise wd.
// Both u and wd may be nil.
func (dt *Discrete) Propagate(x, u, wd *matrix.Dense) (*matrix.Dense, error) {
	return dt.derivative(x, u, wd)
}
