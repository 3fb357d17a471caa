package sim

import (
	"errors"
	"fmt"

	"github.com/milosgajdos/go-kalman/matrix"
	gomatrix "github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// c2dSteps is the number of intervals used to integrate exp(A*t)
// when the system matrix is singular.
const c2dSteps = 100

// Continuous is a basic model of a linear, continuous-time, dynamical system
type Continuous struct {
	System
}

// NewContinuous creates a linear continuous-time model based on the control theory equations.
//
//	dx/dt = A*x + B*u
//	y = H*x
func NewContinuous(A, B, H *matrix.Dense) (*Continuous, error) {
	sys, err := newSystem(A, B, H)
	if err != nil {
		return nil, err
	}

	return &Continuous{System: sys}, nil
}

// ToDiscrete creates a discrete-time model from a continuous time model
// using Ts as the sampling time.
//
//	Ad = exp(A*Ts)
//	Bd = integrate(exp(A*t), 0, Ts) * B
//
// If A is invertible the integral is (Ad - I)*inv(A), otherwise it is
// approximated with the trapezoidal rule.
func (ct *Continuous) ToDiscrete(Ts float64) (*Discrete, error) {
	if Ts <= 0 {
		return nil, fmt.Errorf("invalid sampling time: %v", Ts)
	}

	nx, nu, _ := ct.SystemDims()

	// See Discrete-Time Control Systems by Katsuhiko Ogata
	// Eq. (5-73) p. 315  Second Edition (Spanish)
	ad := mat.NewDense(nx, nx, nil)
	ad.Scale(Ts, ct.A)
	ad.Exp(ad)

	var bd *matrix.Dense
	if ct.B != nil {
		integral, err := ct.expIntegral(ad, Ts)
		if err != nil {
			return nil, err
		}

		b := mat.NewDense(nx, nu, nil)
		b.Mul(integral, ct.B)
		bd = matrix.CopyOf(b)
	}

	return NewDiscrete(matrix.CopyOf(ad), bd, ct.H)
}

func (ct *Continuous) expIntegral(ad *mat.Dense, Ts float64) (*mat.Dense, error) {
	nx, _, _ := ct.SystemDims()

	// Bd(Ts) = (exp(A*Ts) - I)*inv(A)*B  Eq. (5-74 bis) Ogata
	ainv, err := matrix.Invert(ct.A)
	if err == nil {
		eye, _ := gomatrix.NewDenseValIdentity(nx, 1.0)

		aux := mat.NewDense(nx, nx, nil)
		aux.Sub(ad, eye)
		aux.Mul(aux, ainv)

		return aux, nil
	}

	if !errors.Is(err, matrix.ErrSingular) {
		return nil, err
	}

	// Bd = integrate( exp(A*t)dt, 0, Ts ) * B   Eq. (5-74) Ogata
	dt := Ts / c2dSteps
	sum := mat.NewDense(nx, nx, nil)
	aux := mat.NewDense(nx, nx, nil)
	for i := 0; i <= c2dSteps; i++ {
		aux.Scale(dt*float64(i), ct.A)
		aux.Exp(aux)
		w := dt
		if i == 0 || i == c2dSteps {
			w = dt / 2
		}
		aux.Scale(w, aux)
		sum.Add(sum, aux)
	}

	return sum, nil
}

// Propagate propagates the internal state x of a linear, continuous-time
// system by timestep dt given an input vector u and process noise wd,
// integrating dx/dt = A*x + B*u + wd with a single Euler step.
func (ct *Continuous) Propagate(x, u, wd *matrix.Dense, dt float64) (*matrix.Dense, error) {
	dx, err := ct.derivative(x, u, wd)
	if err != nil {
		return nil, err
	}

	if err := dx.Scale(dt); err != nil {
		return nil, err
	}

	return matrix.Add(x, dx)
}
