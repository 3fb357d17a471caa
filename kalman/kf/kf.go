// Package kf implements the discrete-time linear Kalman filter.
//
// The filter alternates between two phases: Predict propagates the corrected
// (posterior) state and covariance through the transition model, Correct
// folds a measurement into the prediction. Correct is rejected unless a
// prediction is pending, so a stale predicted covariance is never reused.
package kf

import (
	"errors"
	"fmt"

	filter "github.com/milosgajdos/go-kalman"
	"github.com/milosgajdos/go-kalman/estimate"
	"github.com/milosgajdos/go-kalman/matrix"
)

var (
	// ErrInvalidDims is returned when the filter is created with invalid dimensions.
	ErrInvalidDims = errors.New("kf: invalid dimensions")
	// ErrNotPredicted is returned when Correct is called with no pending prediction.
	ErrNotPredicted = errors.New("kf: correct requires a prediction")
	// ErrNoControl is returned when control matrices are set on a filter without control input.
	ErrNoControl = errors.New("kf: filter has no control input")
)

// Phase is the position of the filter in its predict-correct cycle.
type Phase int

const (
	// AwaitingPredict means the posterior estimate is current and the next call should be Predict.
	AwaitingPredict Phase = iota
	// AwaitingCorrect means a prediction is pending and may be corrected with a measurement.
	AwaitingCorrect
)

// String implements the Stringer interface.
func (p Phase) String() string {
	switch p {
	case AwaitingPredict:
		return "AwaitingPredict"
	case AwaitingCorrect:
		return "AwaitingCorrect"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// CovUpdate selects the form of the posterior covariance update.
type CovUpdate int

const (
	// Simple computes P = P' - K*H*P'.
	Simple CovUpdate = iota
	// Joseph computes P = (I-K*H)*P'*(I-K*H)' + K*R*K', which stays
	// symmetric positive semi-definite under rounding.
	Joseph
)

// String implements the Stringer interface.
func (c CovUpdate) String() string {
	switch c {
	case Simple:
		return "Simple"
	case Joseph:
		return "Joseph"
	default:
		return fmt.Sprintf("CovUpdate(%d)", int(c))
	}
}

// KF is Kalman Filter
type KF struct {
	// nx is state dimension
	nx int
	// ny is measurement dimension
	ny int
	// nu is control dimension; 0 disables control
	nu int
	// a is state transition matrix
	a *matrix.Dense
	// b is control matrix
	b *matrix.Dense
	// u is control input
	u *matrix.Dense
	// h is measurement matrix
	h *matrix.Dense
	// q is process noise covariance
	q *matrix.Dense
	// r is measurement noise covariance
	r *matrix.Dense
	// x is the corrected state
	x *matrix.Dense
	// xPre is the predicted state
	xPre *matrix.Dense
	// p is the corrected state covariance
	p *matrix.Dense
	// pPre is the predicted state covariance
	pPre *matrix.Dense
	// k is Kalman gain
	k *matrix.Dense
	// inn is innovation vector
	inn *matrix.Dense
	// phase is the current cycle phase
	phase Phase
	// update is covariance update form
	update CovUpdate
}

// New creates new KF with state dimension nx, measurement dimension ny and
// control dimension nu and returns it.
//
// The filter starts with zero state, identity transition matrix, identity
// process and measurement noise covariances and identity state covariance.
// Measurement matrix and, if nu > 0, control matrix and control input are
// zero: the measurement matrix must be set before the first Correct.
//
// It returns error if nx or ny is not positive or nu is negative.
func New(nx, ny, nu int) (*KF, error) {
	if nx <= 0 || ny <= 0 || nu < 0 {
		return nil, fmt.Errorf("%w: state %d, measurement %d, control %d", ErrInvalidDims, nx, ny, nu)
	}

	k := &KF{
		nx: nx,
		ny: ny,
		nu: nu,
		a:  eye(nx),
		h:  zeros(ny, nx),
		q:  eye(nx),
		r:  eye(ny),
	}

	if nu > 0 {
		k.b = zeros(nx, nu)
		k.u = zeros(nu, 1)
	}

	k.Reset()

	return k, nil
}

// Reset discards the estimate: state and predicted state are zeroed, state
// covariance is set to identity, gain and innovation are zeroed and the filter
// awaits a prediction. Model matrices and covariance update form are kept.
func (k *KF) Reset() {
	k.x = zeros(k.nx, 1)
	k.xPre = zeros(k.nx, 1)
	k.p = eye(k.nx)
	k.pPre = zeros(k.nx, k.nx)
	k.k = zeros(k.nx, k.ny)
	k.inn = zeros(k.ny, 1)
	k.phase = AwaitingPredict
}

// Predict propagates the corrected state and covariance to the next step:
//
//	x' = A*x + B*u
//	P' = A*P*A' + Q
//
// The control term is omitted if the filter has no control input.
// Predict reads only the corrected estimate, so calling it again before
// Correct recomputes the same prediction.
// It returns the predicted estimate.
func (k *KF) Predict() (filter.Estimate, error) {
	x, err := matrix.Mul(k.a, k.x)
	if err != nil {
		return nil, fmt.Errorf("state propagation failed: %w", err)
	}

	if k.nu > 0 {
		bu, err := matrix.Mul(k.b, k.u)
		if err != nil {
			return nil, fmt.Errorf("control propagation failed: %w", err)
		}

		if x, err = matrix.Add(x, bu); err != nil {
			return nil, fmt.Errorf("control propagation failed: %w", err)
		}
	}

	// A*P
	ap, err := matrix.Mul(k.a, k.p)
	if err != nil {
		return nil, fmt.Errorf("covariance propagation failed: %w", err)
	}

	// A*P*A'
	apa, err := matrix.MulTrans(ap, k.a)
	if err != nil {
		return nil, fmt.Errorf("covariance propagation failed: %w", err)
	}

	pPre, err := matrix.Add(apa, k.q)
	if err != nil {
		return nil, fmt.Errorf("covariance propagation failed: %w", err)
	}

	k.xPre = x
	k.pPre = pPre
	k.phase = AwaitingCorrect

	return estimate.NewBaseWithCov(x, pPre)
}

// Correct corrects the pending prediction using measurement z and returns the corrected estimate:
//
//	S = H*P'*H' + R
//	K = P'*H'*inv(S)
//	x = x' + K*(z - H*x')
//	P = P' - K*H*P'
//
// If the filter uses Joseph form, P = (I-K*H)*P'*(I-K*H)' + K*R*K'.
//
// It returns ErrNotPredicted if there is no pending prediction, an error
// wrapping matrix.ErrDimensionMismatch if z is not a ny x 1 vector and an
// error wrapping matrix.ErrSingular if S can not be inverted.
// The filter is not modified when Correct fails.
func (k *KF) Correct(z *matrix.Dense) (filter.Estimate, error) {
	if k.phase != AwaitingCorrect {
		return nil, ErrNotPredicted
	}

	if err := checkShape("measurement", z, k.ny, 1); err != nil {
		return nil, err
	}

	// P'*H'
	pht, err := matrix.MulTrans(k.pPre, k.h)
	if err != nil {
		return nil, fmt.Errorf("gain calculation failed: %w", err)
	}

	// H*P'*H'
	s, err := matrix.Mul(k.h, pht)
	if err != nil {
		return nil, fmt.Errorf("innovation covariance calculation failed: %w", err)
	}

	if s, err = matrix.Add(s, k.r); err != nil {
		return nil, fmt.Errorf("innovation covariance calculation failed: %w", err)
	}

	sInv, err := matrix.Invert(s)
	if err != nil {
		return nil, fmt.Errorf("failed to invert innovation covariance: %w", err)
	}

	gain, err := matrix.Mul(pht, sInv)
	if err != nil {
		return nil, fmt.Errorf("gain calculation failed: %w", err)
	}

	// z - H*x'
	hx, err := matrix.Mul(k.h, k.xPre)
	if err != nil {
		return nil, fmt.Errorf("failed to observe predicted state: %w", err)
	}

	inn, err := matrix.Sub(z, hx)
	if err != nil {
		return nil, fmt.Errorf("innovation calculation failed: %w", err)
	}

	corr, err := matrix.Mul(gain, inn)
	if err != nil {
		return nil, fmt.Errorf("state correction failed: %w", err)
	}

	x, err := matrix.Add(k.xPre, corr)
	if err != nil {
		return nil, fmt.Errorf("state correction failed: %w", err)
	}

	p, err := k.correctCov(gain)
	if err != nil {
		return nil, fmt.Errorf("covariance correction failed: %w", err)
	}

	k.x = x
	k.p = p
	k.k = gain
	k.inn = inn
	k.phase = AwaitingPredict

	return estimate.NewBaseWithCov(x, p)
}

func (k *KF) correctCov(gain *matrix.Dense) (*matrix.Dense, error) {
	// K*H
	kh, err := matrix.Mul(gain, k.h)
	if err != nil {
		return nil, err
	}

	if k.update == Simple {
		khp, err := matrix.Mul(kh, k.pPre)
		if err != nil {
			return nil, err
		}

		return matrix.Sub(k.pPre, khp)
	}

	// I - K*H
	if err := kh.SubtractFromIdentity(); err != nil {
		return nil, err
	}

	ap, err := matrix.Mul(kh, k.pPre)
	if err != nil {
		return nil, err
	}

	apa, err := matrix.MulTrans(ap, kh)
	if err != nil {
		return nil, err
	}

	kr, err := matrix.Mul(gain, k.r)
	if err != nil {
		return nil, err
	}

	krk, err := matrix.MulTrans(kr, gain)
	if err != nil {
		return nil, err
	}

	return matrix.Add(apa, krk)
}

// Step runs one step of KF for measurement z: it predicts the next state
// and corrects it using z. It returns the corrected estimate.
// It returns error if it either fails to predict or correct the state.
func (k *KF) Step(z *matrix.Dense) (filter.Estimate, error) {
	if _, err := k.Predict(); err != nil {
		return nil, err
	}

	return k.Correct(z)
}

// Dims returns state, measurement and control dimensions of the filter.
func (k *KF) Dims() (nx, ny, nu int) {
	return k.nx, k.ny, k.nu
}

// Phase returns the current phase of the filter cycle.
func (k *KF) Phase() Phase {
	return k.phase
}

// CovUpdate returns the covariance update form.
func (k *KF) CovUpdate() CovUpdate {
	return k.update
}

// SetCovUpdate sets the covariance update form used by Correct.
// It returns error if u is not a known form.
func (k *KF) SetCovUpdate(u CovUpdate) error {
	if u != Simple && u != Joseph {
		return fmt.Errorf("unknown covariance update: %v", u)
	}
	k.update = u

	return nil
}

// State returns the corrected state.
func (k *KF) State() *matrix.Dense {
	return k.x.Clone()
}

// PredictedState returns the most recently predicted state.
func (k *KF) PredictedState() *matrix.Dense {
	return k.xPre.Clone()
}

// Cov returns KF covariance
func (k *KF) Cov() *matrix.Dense {
	return k.p.Clone()
}

// PredictedCov returns the most recently predicted covariance.
func (k *KF) PredictedCov() *matrix.Dense {
	return k.pPre.Clone()
}

// Gain returns Kalman gain
func (k *KF) Gain() *matrix.Dense {
	return k.k.Clone()
}

// Innovation returns the innovation of the most recent correction.
func (k *KF) Innovation() *matrix.Dense {
	return k.inn.Clone()
}

func eye(n int) *matrix.Dense {
	m, _ := matrix.Identity(n)
	return m
}

func zeros(r, c int) *matrix.Dense {
	m, _ := matrix.New(r, c)
	return m
}
