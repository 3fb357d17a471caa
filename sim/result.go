package sim

import (
	"fmt"

	filter "github.com/milosgajdos/go-kalman"
	"github.com/milosgajdos/go-kalman/matrix"
	"gonum.org/v1/gonum/mat"
)

// Result is a filtered simulation run.
type Result struct {
	// Trajectory is the simulated system run
	Trajectory *Trajectory
	// Estimates are the filter estimates, one per trajectory step
	Estimates []filter.Estimate
	// Gains are the Kalman gains, one per trajectory step
	Gains []*matrix.Dense
}

// Len returns number of steps of the result.
func (r *Result) Len() int {
	return len(r.Estimates)
}

// Truth returns the i-th true state component at every step.
func (r *Result) Truth(i int) ([]float64, error) {
	return series(r.Trajectory.truth, i)
}

// Measured returns the i-th measurement component at every step.
func (r *Result) Measured(i int) ([]float64, error) {
	return series(r.Trajectory.meas, i)
}

// Filtered returns the i-th estimated state component at every step.
func (r *Result) Filtered(i int) ([]float64, error) {
	return series(r.states(), i)
}

// CovTraces returns the trace of the estimate covariance at every step.
func (r *Result) CovTraces() ([]float64, error) {
	out := make([]float64, len(r.Estimates))
	for k, e := range r.Estimates {
		tr, err := matrix.Trace(e.Cov())
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", k, err)
		}
		out[k] = tr
	}

	return out, nil
}

// ErrorCov returns the empirical covariance of the state estimation error.
func (r *Result) ErrorCov() (*matrix.Dense, error) {
	return ErrorCov(r.Trajectory.truth, r.states())
}

// Smooth runs s over the estimates and returns a new result holding the
// smoothed estimates of the same trajectory.
func (r *Result) Smooth(s filter.Smoother) (*Result, error) {
	est, err := s.Smooth(r.Estimates)
	if err != nil {
		return nil, err
	}

	return &Result{
		Trajectory: r.Trajectory,
		Estimates:  est,
	}, nil
}

// PlotData returns step indexed series of the state component state, the
// measurement component output and the estimate of state, suitable for New2DPlot.
func (r *Result) PlotData(state, output int) (model, measure, filtered *mat.Dense, err error) {
	if r.Len() == 0 {
		return nil, nil, nil, fmt.Errorf("empty result")
	}

	truth, err := r.Truth(state)
	if err != nil {
		return nil, nil, nil, err
	}

	meas, err := r.Measured(output)
	if err != nil {
		return nil, nil, nil, err
	}

	est, err := r.Filtered(state)
	if err != nil {
		return nil, nil, nil, err
	}

	return points(truth), points(meas), points(est), nil
}

func (r *Result) states() []*matrix.Dense {
	out := make([]*matrix.Dense, len(r.Estimates))
	for k, e := range r.Estimates {
		out[k] = e.Val()
	}

	return out
}

func series(vecs []*matrix.Dense, i int) ([]float64, error) {
	out := make([]float64, len(vecs))
	for k, v := range vecs {
		if r, _ := v.Dims(); i < 0 || i >= r {
			return nil, fmt.Errorf("component %d of %d at step %d: %w", i, r, k, matrix.ErrIndexOutOfRange)
		}
		out[k] = v.At(i, 0)
	}

	return out, nil
}

func points(vals []float64) *mat.Dense {
	m := mat.NewDense(len(vals), 2, nil)
	for k, v := range vals {
		m.Set(k, 0, float64(k))
		m.Set(k, 1, v)
	}

	return m
}
