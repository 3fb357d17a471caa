package noise

import (
	"fmt"
	"math"

	"github.com/milosgajdos/go-kalman/matrix"
)

// Sine is a deterministic sinusoidal disturbance.
// Its k-th sample is amp*sin(omega*k) in every component.
type Sine struct {
	// size is noise dimension
	size int
	// amp is amplitude
	amp float64
	// omega is angular frequency per step
	omega float64
	// k is the next sample step
	k int
	// cov is covariance matrix
	cov *matrix.Dense
}

// NewSine creates new sinusoidal disturbance of given dimension, amplitude and
// angular frequency per step and returns it.
// It returns error if size is not positive, either amp or omega is not finite
// or the covariance amp^2/2 overflows.
func NewSine(size int, amp, omega float64) (*Sine, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid noise dimension %d: %w", size, matrix.ErrBadShape)
	}

	if math.IsNaN(amp) || math.IsInf(amp, 0) || math.IsNaN(omega) || math.IsInf(omega, 0) {
		return nil, fmt.Errorf("invalid sine parameters: amp=%v omega=%v", amp, omega)
	}

	cov, err := matrix.Identity(size)
	if err != nil {
		return nil, err
	}

	if err := cov.Scale(amp * amp / 2); err != nil {
		return nil, fmt.Errorf("invalid sine amplitude %v: %w", amp, err)
	}

	return &Sine{
		size:  size,
		amp:   amp,
		omega: omega,
		cov:   cov,
	}, nil
}

// Sample returns the disturbance at the current step and advances the step.
func (s *Sine) Sample() *matrix.Dense {
	v := s.amp * math.Sin(s.omega*float64(s.k))
	s.k++

	vals := make([]float64, s.size)
	for i := range vals {
		vals[i] = v
	}
	sample, _ := matrix.NewVector(vals...)

	return sample
}

// Cov returns the covariance of a sinusoid sampled over whole periods: amp^2/2 * I.
func (s *Sine) Cov() *matrix.Dense {
	return s.cov.Clone()
}

// Mean returns Sine mean, which is zero.
func (s *Sine) Mean() []float64 {
	return make([]float64, s.size)
}

// Reset rewinds the disturbance to step zero.
func (s *Sine) Reset() error {
	s.k = 0

	return nil
}

// String implements the Stringer interface.
func (s *Sine) String() string {
	return fmt.Sprintf("Sine{\nSize=%d\nAmp=%v\nOmega=%v\n}", s.size, s.amp, s.omega)
}
