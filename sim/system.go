package sim

import (
	"fmt"

	"github.com/milosgajdos/go-kalman/matrix"
)

// System defines a linear model of a plant using
// traditional matrices of modern control theory.
//
// It contains the System (A), input (B) and Observation/Output (H) matrices.
type System struct {
	// System/State matrix A
	A *matrix.Dense
	// Control/Input Matrix B
	B *matrix.Dense
	// Observation/Output Matrix H
	H *matrix.Dense
}

func newSystem(A, B, H *matrix.Dense) (System, error) {
	if A == nil {
		return System{}, fmt.Errorf("system matrix must be defined for a model")
	}

	if !A.IsSquare() {
		return System{}, fmt.Errorf("invalid system matrix: %w", matrix.ErrNotSquare)
	}

	nx, _ := A.Dims()
	sys := System{A: A.Clone()}

	if B != nil {
		if r, c := B.Dims(); r != nx {
			return System{}, fmt.Errorf("invalid control matrix dimensions: [%d x %d]: %w", r, c, matrix.ErrDimensionMismatch)
		}
		sys.B = B.Clone()
	}

	if H != nil {
		if r, c := H.Dims(); c != nx {
			return System{}, fmt.Errorf("invalid output matrix dimensions: [%d x %d]: %w", r, c, matrix.ErrDimensionMismatch)
		}
		sys.H = H.Clone()
	}

	return sys, nil
}

// SystemDims returns internal state length (nx), input vector length (nu) and
// external/observable/output state length (ny).
func (s System) SystemDims() (nx, nu, ny int) {
	nx, _ = s.A.Dims()
	if s.B != nil {
		_, nu = s.B.Dims()
	}
	if s.H != nil {
		ny, _ = s.H.Dims()
	}
	return nx, nu, ny
}

// SystemMatrix returns state propagation matrix `A`.
func (s System) SystemMatrix() *matrix.Dense { return s.A }

// ControlMatrix returns state propagation control matrix `B`
func (s System) ControlMatrix() *matrix.Dense { return s.B }

// OutputMatrix returns observation matrix `H`
func (s System) OutputMatrix() *matrix.Dense { return s.H }

// Observe returns external/observable state given internal state x.
// wn is added to the output as a noise vector if it is not nil.
func (s System) Observe(x, wn *matrix.Dense) (*matrix.Dense, error) {
	nx, _, ny := s.SystemDims()
	if ny == 0 {
		return nil, fmt.Errorf("system has no output matrix")
	}

	if r, c := x.Dims(); r != nx || c != 1 {
		return nil, fmt.Errorf("invalid state vector: %w", matrix.ErrDimensionMismatch)
	}

	out, err := matrix.Mul(s.H, x)
	if err != nil {
		return nil, err
	}

	if wn != nil {
		if out, err = matrix.Add(out, wn); err != nil {
			return nil, fmt.Errorf("invalid output noise: %w", err)
		}
	}

	return out, nil
}

// derivative returns A*x + B*u + wd for the discrete and continuous models.
func (s System) derivative(x, u, wd *matrix.Dense) (*matrix.Dense, error) {
	nx, nu, _ := s.SystemDims()
	if u != nil {
		if r, c := u.Dims(); r != nu || c != 1 {
			return nil, fmt.Errorf("invalid input vector: %w", matrix.ErrDimensionMismatch)
		}
	}

	if r, c := x.Dims(); r != nx || c != 1 {
		return nil, fmt.Errorf("invalid state vector: %w", matrix.ErrDimensionMismatch)
	}

	out, err := matrix.Mul(s.A, x)
	if err != nil {
		return nil, err
	}

	if u != nil && s.B != nil {
		outU, err := matrix.Mul(s.B, u)
		if err != nil {
			return nil, err
		}

		if out, err = matrix.Add(out, outU); err != nil {
			return nil, err
		}
	}

	if wd != nil {
		if out, err = matrix.Add(out, wd); err != nil {
			return nil, fmt.Errorf("invalid state noise: %w", err)
		}
	}

	return out, nil
}
