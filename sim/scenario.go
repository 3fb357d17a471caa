package sim

import (
	"fmt"
	"io"
	"math"

	filter "github.com/milosgajdos/go-kalman"
	"github.com/milosgajdos/go-kalman/kalman/kf"
	"github.com/milosgajdos/go-kalman/matrix"
	"github.com/milosgajdos/go-kalman/noise"
	"gopkg.in/yaml.v3"
)

// Disturbance kinds
const (
	DisturbanceNone     = "none"
	DisturbanceSine     = "sine"
	DisturbanceGaussian = "gaussian"
)

// Scenario describes a simulated tracking run: a linear discrete system,
// the measurement disturbance applied to it and the filter tracking it.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps int    `yaml:"steps"`
	// SampleTime, if positive, makes Transition and Control the continuous-time
	// system and input matrices, discretized with this sampling period
	SampleTime float64 `yaml:"sampleTime,omitempty"`
	// Transition is state transition matrix, one slice per row
	Transition [][]float64 `yaml:"transition"`
	// Control is optional control matrix, one slice per row
	Control      [][]float64 `yaml:"control,omitempty"`
	ControlInput []float64   `yaml:"controlInput,omitempty"`
	// Measurement is measurement matrix, one slice per row
	Measurement [][]float64 `yaml:"measurement"`
	// ProcessNoise scales the identity process noise covariance
	ProcessNoise float64 `yaml:"processNoise"`
	// MeasurementNoise scales the identity measurement noise covariance
	MeasurementNoise float64 `yaml:"measurementNoise"`
	InitialState     []float64 `yaml:"initialState"`
	// InitialCov scales the identity initial state covariance; zero means 1
	InitialCov  float64     `yaml:"initialCov,omitempty"`
	CovUpdate   string      `yaml:"covUpdate,omitempty"`
	Disturbance Disturbance `yaml:"disturbance"`
}

// Disturbance describes the noise added to every measurement.
type Disturbance struct {
	Kind      string  `yaml:"kind"`
	Amplitude float64 `yaml:"amplitude,omitempty"`
	Omega     float64 `yaml:"omega,omitempty"`
	Sigma     float64 `yaml:"sigma,omitempty"`
	Seed      uint64  `yaml:"seed,omitempty"`
}

// DefaultScenario returns a body moving at constant velocity whose position
// is measured with a sinusoidal disturbance:
//
//	y[k] = 100 + 10*k + 10*sin(40*pi/200*k)
func DefaultScenario() *Scenario {
	return &Scenario{
		Name:             "constant-velocity",
		Steps:            100,
		Transition:       [][]float64{{1, 1}, {0, 1}},
		Measurement:      [][]float64{{1, 0}},
		ProcessNoise:     1e-5,
		MeasurementNoise: 1e-1,
		InitialState:     []float64{100, 10},
		CovUpdate:        kf.Simple.String(),
		Disturbance: Disturbance{
			Kind:      DisturbanceSine,
			Amplitude: 10,
			Omega:     40 * math.Pi / 200,
		},
	}
}

// LoadScenario decodes YAML scenario from r and validates it.
func LoadScenario(r io.Reader) (*Scenario, error) {
	s := &Scenario{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks the scenario is complete and its matrices are conformable.
func (s *Scenario) Validate() error {
	if s.Steps <= 0 {
		return fmt.Errorf("invalid number of steps: %d", s.Steps)
	}

	a, err := dense("transition", s.Transition)
	if err != nil {
		return err
	}
	if !a.IsSquare() {
		return fmt.Errorf("invalid transition matrix: %w", matrix.ErrNotSquare)
	}
	nx, _ := a.Dims()

	h, err := dense("measurement", s.Measurement)
	if err != nil {
		return err
	}
	if _, c := h.Dims(); c != nx {
		return fmt.Errorf("measurement matrix has %d columns, state has %d: %w", c, nx, matrix.ErrDimensionMismatch)
	}

	if len(s.InitialState) != nx {
		return fmt.Errorf("initial state has %d values, state has %d: %w", len(s.InitialState), nx, matrix.ErrDimensionMismatch)
	}

	if len(s.Control) > 0 || len(s.ControlInput) > 0 {
		b, err := dense("control", s.Control)
		if err != nil {
			return err
		}
		r, c := b.Dims()
		if r != nx || c != len(s.ControlInput) {
			return fmt.Errorf("control matrix [%d x %d] does not match state %d and control input %d: %w",
				r, c, nx, len(s.ControlInput), matrix.ErrDimensionMismatch)
		}
	}

	for name, v := range map[string]float64{
		"process noise":     s.ProcessNoise,
		"measurement noise": s.MeasurementNoise,
		"initial cov":       s.InitialCov,
		"sample time":       s.SampleTime,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid %s scale: %v", name, v)
		}
	}

	if _, err := s.covUpdate(); err != nil {
		return err
	}

	switch s.Disturbance.Kind {
	case "", DisturbanceNone, DisturbanceSine:
	case DisturbanceGaussian:
		if !(s.Disturbance.Sigma > 0) {
			return fmt.Errorf("invalid gaussian disturbance sigma: %v", s.Disturbance.Sigma)
		}
	default:
		return fmt.Errorf("unknown disturbance: %q", s.Disturbance.Kind)
	}

	return nil
}

func (s *Scenario) covUpdate() (kf.CovUpdate, error) {
	switch s.CovUpdate {
	case "", "simple", kf.Simple.String():
		return kf.Simple, nil
	case "joseph", kf.Joseph.String():
		return kf.Joseph, nil
	default:
		return 0, fmt.Errorf("unknown covariance update: %q", s.CovUpdate)
	}
}

// System returns the discrete system simulated by the scenario.
// A continuous-time scenario is discretized with its sample time.
func (s *Scenario) System() (*Discrete, error) {
	a, err := dense("transition", s.Transition)
	if err != nil {
		return nil, err
	}

	h, err := dense("measurement", s.Measurement)
	if err != nil {
		return nil, err
	}

	var b *matrix.Dense
	if len(s.Control) > 0 {
		if b, err = dense("control", s.Control); err != nil {
			return nil, err
		}
	}

	if s.SampleTime > 0 {
		ct, err := NewContinuous(a, b, h)
		if err != nil {
			return nil, err
		}

		return ct.ToDiscrete(s.SampleTime)
	}

	return NewDiscrete(a, b, h)
}

// Filter returns a Kalman filter configured to track the scenario system.
func (s *Scenario) Filter() (*kf.KF, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	sys, err := s.System()
	if err != nil {
		return nil, err
	}

	nx, nu, ny := sys.SystemDims()
	f, err := kf.New(nx, ny, nu)
	if err != nil {
		return nil, err
	}

	update, _ := s.covUpdate()
	if err := f.SetCovUpdate(update); err != nil {
		return nil, err
	}

	q, _ := matrix.Identity(nx)
	if err := q.Scale(s.ProcessNoise); err != nil {
		return nil, err
	}

	r, _ := matrix.Identity(ny)
	if err := r.Scale(s.MeasurementNoise); err != nil {
		return nil, err
	}

	ic, err := s.InitCond()
	if err != nil {
		return nil, err
	}

	c := kf.Config{
		Transition:          sys.SystemMatrix(),
		Measurement:         sys.OutputMatrix(),
		ProcessNoiseCov:     q,
		MeasurementNoiseCov: r,
		State:               ic.State(),
		Cov:                 ic.Cov(),
	}

	if nu > 0 {
		c.Control = sys.ControlMatrix()
		if c.ControlInput, err = matrix.NewVector(s.ControlInput...); err != nil {
			return nil, err
		}
	}

	if err := f.Configure(c); err != nil {
		return nil, err
	}

	return f, nil
}

// InitCond returns the initial state of the scenario and its covariance.
func (s *Scenario) InitCond() (*InitCond, error) {
	x0, err := matrix.NewVector(s.InitialState...)
	if err != nil {
		return nil, err
	}

	p, err := matrix.Identity(len(s.InitialState))
	if err != nil {
		return nil, err
	}

	if s.InitialCov > 0 {
		if err := p.Scale(s.InitialCov); err != nil {
			return nil, err
		}
	}

	return NewInitCond(x0, p), nil
}

// Noise returns the measurement disturbance of the scenario or nil if there is none.
func (s *Scenario) Noise() (filter.Noise, error) {
	_, _, ny, err := s.dims()
	if err != nil {
		return nil, err
	}

	d := s.Disturbance
	switch d.Kind {
	case "", DisturbanceNone:
		return nil, nil
	case DisturbanceSine:
		return noise.NewSine(ny, d.Amplitude, d.Omega)
	case DisturbanceGaussian:
		cov, _ := matrix.Identity(ny)
		if err := cov.Scale(d.Sigma * d.Sigma); err != nil {
			return nil, err
		}
		return noise.NewGaussianWithSeed(make([]float64, ny), cov, d.Seed)
	default:
		return nil, fmt.Errorf("unknown disturbance: %q", d.Kind)
	}
}

func (s *Scenario) dims() (nx, nu, ny int, err error) {
	sys, err := s.System()
	if err != nil {
		return 0, 0, 0, err
	}
	nx, nu, ny = sys.SystemDims()

	return nx, nu, ny, nil
}

// Run simulates the scenario and filters its measurements with f, which
// must be configured for the scenario system (see Filter).
// Every measurement is processed with a single predict-correct step.
func (s *Scenario) Run(f *kf.KF) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	sys, err := s.System()
	if err != nil {
		return nil, err
	}

	wn, err := s.Noise()
	if err != nil {
		return nil, err
	}

	ic, err := s.InitCond()
	if err != nil {
		return nil, err
	}

	var u *matrix.Dense
	if len(s.ControlInput) > 0 {
		if u, err = matrix.NewVector(s.ControlInput...); err != nil {
			return nil, err
		}
	}

	traj, err := Generate(sys, ic.State(), u, s.Steps, nil, wn)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Trajectory: traj,
		Estimates:  make([]filter.Estimate, traj.Len()),
		Gains:      make([]*matrix.Dense, traj.Len()),
	}

	for k := 0; k < traj.Len(); k++ {
		est, err := f.Step(traj.Measurement(k))
		if err != nil {
			return nil, fmt.Errorf("filter failed at step %d: %w", k, err)
		}

		res.Estimates[k] = est
		res.Gains[k] = f.Gain()
	}

	return res, nil
}

func dense(name string, rows [][]float64) (*matrix.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%s matrix is empty: %w", name, matrix.ErrBadShape)
	}

	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%s matrix row %d has %d values, expected %d: %w",
				name, i, len(row), cols, matrix.ErrDimensionMismatch)
		}
		data = append(data, row...)
	}

	return matrix.NewWithData(len(rows), cols, data)
}
