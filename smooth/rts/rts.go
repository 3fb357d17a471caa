package rts

import (
	"fmt"

	filter "github.com/milosgajdos/go-kalman"
	"github.com/milosgajdos/go-kalman/estimate"
	"github.com/milosgajdos/go-kalman/matrix"
)

// RTS is Rauch-Tung-Striebel smoother
type RTS struct {
	// a is state transition matrix
	a *matrix.Dense
	// q is process noise covariance
	q *matrix.Dense
}

// New creates new RTS for a time-invariant model with state transition
// matrix a and process noise covariance q and returns it.
// It returns error if a is not square or q does not have the same shape as a.
func New(a, q *matrix.Dense) (*RTS, error) {
	if a == nil || q == nil {
		return nil, fmt.Errorf("invalid model matrices: A: %v, Q: %v", a, q)
	}

	if !a.IsSquare() {
		return nil, fmt.Errorf("invalid transition matrix: %w", matrix.ErrNotSquare)
	}

	ra, _ := a.Dims()
	rq, cq := q.Dims()
	if rq != ra || cq != ra {
		return nil, fmt.Errorf("invalid process noise dimensions: [%d x %d], expected [%d x %d]: %w",
			rq, cq, ra, ra, matrix.ErrDimensionMismatch)
	}

	return &RTS{
		a: a.Clone(),
		q: q.Clone(),
	}, nil
}

// TransitionMatrix returns the state transition matrix.
func (s *RTS) TransitionMatrix() *matrix.Dense { return s.a.Clone() }

// ProcessNoiseCov returns the process noise covariance.
func (s *RTS) ProcessNoiseCov() *matrix.Dense { return s.q.Clone() }

// Smooth implements Rauch-Tung-Striebel smoothing algorithm.
// It uses corrected filter estimates est, ordered in time, to compute smoothed estimates and returns them.
// The last estimate is returned unchanged: there is no later measurement to smooth it with.
// It returns error if est is empty, any estimate does not match the model
// dimensions or a predicted covariance can not be inverted.
func (s *RTS) Smooth(est []filter.Estimate) ([]filter.Estimate, error) {
	if len(est) == 0 {
		return nil, fmt.Errorf("invalid estimates size: %d", len(est))
	}

	n := len(est)
	sx := make([]filter.Estimate, n)

	e, err := estimate.NewBaseWithCov(est[n-1].Val(), est[n-1].Cov())
	if err != nil {
		return nil, err
	}
	sx[n-1] = e

	for i := n - 2; i >= 0; i-- {
		xk, pk := est[i].Val(), est[i].Cov()

		// propagate state to the next step
		xk1, err := matrix.Mul(s.a, xk)
		if err != nil {
			return nil, fmt.Errorf("state propagation failed at %d: %w", i, err)
		}

		// propagate covariance matrix to the next step: A*Pk*A' + Q
		apk, err := matrix.Mul(s.a, pk)
		if err != nil {
			return nil, fmt.Errorf("covariance propagation failed at %d: %w", i, err)
		}
		pk1, err := matrix.MulTrans(apk, s.a)
		if err != nil {
			return nil, fmt.Errorf("covariance propagation failed at %d: %w", i, err)
		}
		if pk1, err = matrix.Add(pk1, s.q); err != nil {
			return nil, fmt.Errorf("covariance propagation failed at %d: %w", i, err)
		}

		// P_(k+1)^-1
		pinv, err := matrix.Invert(pk1)
		if err != nil {
			return nil, fmt.Errorf("failed to invert predicted covariance at %d: %w", i, err)
		}

		// smoothing gain: Pk*A'*P_(k+1)^-1
		c, err := matrix.MulTrans(pk, s.a)
		if err != nil {
			return nil, err
		}
		if c, err = matrix.Mul(c, pinv); err != nil {
			return nil, err
		}

		// xk + Ck*(xs_(k+1) - x_(k+1))
		dx, err := matrix.Sub(e.Val(), xk1)
		if err != nil {
			return nil, err
		}
		if dx, err = matrix.Mul(c, dx); err != nil {
			return nil, err
		}
		x, err := matrix.Add(xk, dx)
		if err != nil {
			return nil, err
		}

		// Pk + Ck*(Ps_(k+1) - P_(k+1))*Ck'
		dp, err := matrix.Sub(e.Cov(), pk1)
		if err != nil {
			return nil, err
		}
		if dp, err = matrix.Mul(c, dp); err != nil {
			return nil, err
		}
		if dp, err = matrix.MulTrans(dp, c); err != nil {
			return nil, err
		}
		p, err := matrix.Add(pk, dp)
		if err != nil {
			return nil, err
		}

		e, err = estimate.NewBaseWithCov(x, p)
		if err != nil {
			return nil, err
		}
		sx[i] = e
	}

	return sx, nil
}
