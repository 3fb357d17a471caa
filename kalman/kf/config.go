package kf

import (
	"fmt"

	"github.com/milosgajdos/go-kalman/matrix"
)

// Config holds filter model matrices and estimate.
// Nil fields are left unchanged by Configure.
type Config struct {
	// Transition is state transition matrix A [nx x nx]
	Transition *matrix.Dense
	// Control is control matrix B [nx x nu]
	Control *matrix.Dense
	// ControlInput is control input u [nu x 1]
	ControlInput *matrix.Dense
	// Measurement is measurement matrix H [ny x nx]
	Measurement *matrix.Dense
	// ProcessNoiseCov is process noise covariance Q [nx x nx]
	ProcessNoiseCov *matrix.Dense
	// MeasurementNoiseCov is measurement noise covariance R [ny x ny]
	MeasurementNoiseCov *matrix.Dense
	// State is corrected state x [nx x 1]
	State *matrix.Dense
	// Cov is corrected state covariance P [nx x nx]
	Cov *matrix.Dense
}

// Configure validates every non-nil field of c against the filter
// dimensions and then copies all of them into the filter.
// Nothing is applied if any field is invalid.
//
// Changing the transition, control, process noise or the estimate discards
// a pending prediction: the filter then awaits Predict again.
//
// It returns an error wrapping matrix.ErrDimensionMismatch naming the
// offending matrix, or ErrNoControl if control matrices are given to a
// filter without control input.
func (k *KF) Configure(c Config) error {
	if err := k.validate(c); err != nil {
		return err
	}

	stale := false
	set := func(dst **matrix.Dense, src *matrix.Dense, invalidates bool) {
		if src == nil {
			return
		}
		*dst = src.Clone()
		stale = stale || invalidates
	}

	set(&k.a, c.Transition, true)
	set(&k.b, c.Control, true)
	set(&k.u, c.ControlInput, true)
	set(&k.q, c.ProcessNoiseCov, true)
	set(&k.x, c.State, true)
	set(&k.p, c.Cov, true)
	set(&k.h, c.Measurement, false)
	set(&k.r, c.MeasurementNoiseCov, false)

	if stale {
		k.phase = AwaitingPredict
	}

	return nil
}

func (k *KF) validate(c Config) error {
	if k.nu == 0 && (c.Control != nil || c.ControlInput != nil) {
		return ErrNoControl
	}

	for _, s := range []struct {
		name       string
		m          *matrix.Dense
		rows, cols int
	}{
		{"transition matrix", c.Transition, k.nx, k.nx},
		{"control matrix", c.Control, k.nx, k.nu},
		{"control input", c.ControlInput, k.nu, 1},
		{"measurement matrix", c.Measurement, k.ny, k.nx},
		{"process noise covariance", c.ProcessNoiseCov, k.nx, k.nx},
		{"measurement noise covariance", c.MeasurementNoiseCov, k.ny, k.ny},
		{"state", c.State, k.nx, 1},
		{"state covariance", c.Cov, k.nx, k.nx},
	} {
		if s.m == nil {
			continue
		}

		if err := checkShape(s.name, s.m, s.rows, s.cols); err != nil {
			return err
		}
	}

	return nil
}

func checkShape(name string, m *matrix.Dense, rows, cols int) error {
	if m == nil {
		return fmt.Errorf("invalid %s: nil: %w", name, matrix.ErrDimensionMismatch)
	}

	if r, c := m.Dims(); r != rows || c != cols {
		return fmt.Errorf("invalid %s dimensions: [%d x %d], expected [%d x %d]: %w",
			name, r, c, rows, cols, matrix.ErrDimensionMismatch)
	}

	return nil
}

// SetTransitionMatrix sets state transition matrix A.
func (k *KF) SetTransitionMatrix(a *matrix.Dense) error {
	return k.set("transition matrix", Config{Transition: a}, a)
}

// SetControlMatrix sets control matrix B.
func (k *KF) SetControlMatrix(b *matrix.Dense) error {
	return k.set("control matrix", Config{Control: b}, b)
}

// SetControlInput sets control input u.
func (k *KF) SetControlInput(u *matrix.Dense) error {
	return k.set("control input", Config{ControlInput: u}, u)
}

// SetMeasurementMatrix sets measurement matrix H.
func (k *KF) SetMeasurementMatrix(h *matrix.Dense) error {
	return k.set("measurement matrix", Config{Measurement: h}, h)
}

// SetProcessNoiseCov sets process noise covariance Q.
func (k *KF) SetProcessNoiseCov(q *matrix.Dense) error {
	return k.set("process noise covariance", Config{ProcessNoiseCov: q}, q)
}

// SetMeasurementNoiseCov sets measurement noise covariance R.
func (k *KF) SetMeasurementNoiseCov(r *matrix.Dense) error {
	return k.set("measurement noise covariance", Config{MeasurementNoiseCov: r}, r)
}

// SetState sets the corrected state x.
func (k *KF) SetState(x *matrix.Dense) error {
	return k.set("state", Config{State: x}, x)
}

// SetCov sets KF covariance matrix to cov.
// It returns error if either cov is nil or its dimensions are not the same as KF covariance dimensions.
func (k *KF) SetCov(cov *matrix.Dense) error {
	return k.set("state covariance", Config{Cov: cov}, cov)
}

func (k *KF) set(name string, c Config, m *matrix.Dense) error {
	if m == nil {
		return fmt.Errorf("invalid %s: nil: %w", name, matrix.ErrDimensionMismatch)
	}

	return k.Configure(c)
}

// TransitionMatrix returns state transition matrix A.
func (k *KF) TransitionMatrix() *matrix.Dense { return k.a.Clone() }

// ControlMatrix returns control matrix B or nil if the filter has no control input.
func (k *KF) ControlMatrix() *matrix.Dense { return cloneOrNil(k.b) }

// ControlInput returns control input u or nil if the filter has no control input.
func (k *KF) ControlInput() *matrix.Dense { return cloneOrNil(k.u) }

// MeasurementMatrix returns measurement matrix H.
func (k *KF) MeasurementMatrix() *matrix.Dense { return k.h.Clone() }

// ProcessNoiseCov returns process noise covariance Q.
func (k *KF) ProcessNoiseCov() *matrix.Dense { return k.q.Clone() }

// MeasurementNoiseCov returns measurement noise covariance R.
func (k *KF) MeasurementNoiseCov() *matrix.Dense { return k.r.Clone() }

func cloneOrNil(m *matrix.Dense) *matrix.Dense {
	if m == nil {
		return nil
	}

	return m.Clone()
}
