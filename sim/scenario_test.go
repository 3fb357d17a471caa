package sim

import (
	"math"
	"strings"
	"testing"

	"github.com/milosgajdos/go-kalman/kalman/kf"
	"github.com/milosgajdos/go-kalman/smooth/rts"
	"github.com/stretchr/testify/assert"
)

const scenarioYAML = `
name: accelerating
steps: 50
transition:
  - [1, 1]
  - [0, 1]
control:
  - [0.5]
  - [1]
controlInput: [0.2]
measurement:
  - [1, 0]
processNoise: 0.00001
measurementNoise: 4
initialState: [0, 1]
initialCov: 10
covUpdate: joseph
disturbance:
  kind: gaussian
  sigma: 2
  seed: 42
`

func TestDefaultScenario(t *testing.T) {
	assert := assert.New(t)

	s := DefaultScenario()
	assert.NoError(s.Validate())

	f, err := s.Filter()
	assert.NoError(err)

	nx, ny, nu := f.Dims()
	assert.Equal(2, nx)
	assert.Equal(1, ny)
	assert.Equal(0, nu)
	assert.Equal(kf.Simple, f.CovUpdate())
	equal(t, []float64{100, 10}, f.State(), 0)
	equal(t, []float64{1e-5, 0, 0, 1e-5}, f.ProcessNoiseCov(), 1e-15)
	equal(t, []float64{1e-1}, f.MeasurementNoiseCov(), 1e-15)
}

func TestScenarioRun(t *testing.T) {
	assert := assert.New(t)

	s := DefaultScenario()
	f, err := s.Filter()
	assert.NoError(err)

	res, err := s.Run(f)
	assert.NoError(err)
	assert.Equal(s.Steps, res.Len())
	assert.Len(res.Gains, s.Steps)

	truth, err := res.Truth(0)
	assert.NoError(err)
	meas, err := res.Measured(0)
	assert.NoError(err)
	est, err := res.Filtered(0)
	assert.NoError(err)

	omega := 40 * math.Pi / 200
	for k := range truth {
		pos := 100 + 10*float64(k)
		assert.InDelta(pos, truth[k], 1e-9)
		assert.InDelta(pos+10*math.Sin(omega*float64(k)), meas[k], 1e-9)
	}

	third := s.Steps / 3
	first, err := MeanAbsError(truth, est, 0, third)
	assert.NoError(err)
	last, err := MeanAbsError(truth, est, s.Steps-third, s.Steps)
	assert.NoError(err)
	assert.Less(last, first)

	for k, g := range res.Gains {
		for _, v := range g.RawData() {
			assert.False(math.IsNaN(v) || math.IsInf(v, 0), "step %d: gain %v", k, v)
		}
	}

	cov, err := res.ErrorCov()
	assert.NoError(err)
	r, c := cov.Dims()
	assert.Equal(2, r)
	assert.Equal(2, c)

	traces, err := res.CovTraces()
	assert.NoError(err)
	assert.Len(traces, s.Steps)
	// the first correction shrinks the unit initial covariance
	assert.Less(traces[0], 2.0)
	assert.Less(traces[s.Steps-1], traces[0])

	_, err = res.Truth(2)
	assert.Error(err)
	_, err = res.Measured(1)
	assert.Error(err)
}

func TestScenarioSmooth(t *testing.T) {
	assert := assert.New(t)

	s := DefaultScenario()
	f, err := s.Filter()
	assert.NoError(err)

	res, err := s.Run(f)
	assert.NoError(err)

	sm, err := rts.New(f.TransitionMatrix(), f.ProcessNoiseCov())
	assert.NoError(err)

	smoothed, err := res.Smooth(sm)
	assert.NoError(err)
	assert.Equal(res.Len(), smoothed.Len())
	assert.Nil(smoothed.Gains)

	truth, _ := res.Truth(0)
	filtered, _ := res.Filtered(0)
	smooth, _ := smoothed.Filtered(0)

	third := s.Steps / 3
	fe, err := MeanAbsError(truth, filtered, third, 2*third)
	assert.NoError(err)
	se, err := MeanAbsError(truth, smooth, third, 2*third)
	assert.NoError(err)
	assert.Less(se, fe)

	// the last estimate is not smoothed
	assert.Equal(filtered[s.Steps-1], smooth[s.Steps-1])
}

func TestLoadScenario(t *testing.T) {
	assert := assert.New(t)

	s, err := LoadScenario(strings.NewReader(scenarioYAML))
	assert.NoError(err)
	assert.Equal("accelerating", s.Name)
	assert.Equal(50, s.Steps)
	assert.Equal([]float64{0.2}, s.ControlInput)
	assert.Equal(DisturbanceGaussian, s.Disturbance.Kind)
	assert.Equal(uint64(42), s.Disturbance.Seed)

	f, err := s.Filter()
	assert.NoError(err)
	assert.Equal(kf.Joseph, f.CovUpdate())

	nx, ny, nu := f.Dims()
	assert.Equal(2, nx)
	assert.Equal(1, ny)
	assert.Equal(1, nu)
	equal(t, []float64{10, 0, 0, 10}, f.Cov(), 0)
	equal(t, []float64{0.2}, f.ControlInput(), 0)

	res, err := s.Run(f)
	assert.NoError(err)
	assert.Equal(50, res.Len())

	// seeded disturbance replays the same measurements
	g, err := s.Filter()
	assert.NoError(err)
	again, err := s.Run(g)
	assert.NoError(err)

	m1, _ := res.Measured(0)
	m2, _ := again.Measured(0)
	assert.Equal(m1, m2)

	e1, _ := res.Filtered(1)
	e2, _ := again.Filtered(1)
	assert.Equal(e1, e2)
}

func TestLoadScenarioInvalid(t *testing.T) {
	assert := assert.New(t)

	testCases := []struct {
		name string
		yaml string
	}{
		{"unknown field", "steps: 10\nfoo: bar\n"},
		{"malformed", "steps: [\n"},
		{"no steps", "transition: [[1]]\nmeasurement: [[1]]\ninitialState: [0]\n"},
		{"no transition", "steps: 10\nmeasurement: [[1]]\ninitialState: [0]\n"},
		{"non square transition", "steps: 10\ntransition: [[1, 2]]\nmeasurement: [[1, 0]]\ninitialState: [0, 0]\n"},
		{"ragged transition", "steps: 10\ntransition: [[1, 2], [3]]\nmeasurement: [[1, 0]]\ninitialState: [0, 0]\n"},
		{"measurement columns", "steps: 10\ntransition: [[1]]\nmeasurement: [[1, 0]]\ninitialState: [0]\n"},
		{"initial state", "steps: 10\ntransition: [[1]]\nmeasurement: [[1]]\ninitialState: [0, 1]\n"},
		{"control rows", "steps: 10\ntransition: [[1]]\nmeasurement: [[1]]\ninitialState: [0]\ncontrol: [[1], [1]]\ncontrolInput: [1]\n"},
		{"control input", "steps: 10\ntransition: [[1]]\nmeasurement: [[1]]\ninitialState: [0]\ncontrol: [[1]]\n"},
		{"negative noise", "steps: 10\ntransition: [[1]]\nmeasurement: [[1]]\ninitialState: [0]\nprocessNoise: -1\n"},
		{"cov update", "steps: 10\ntransition: [[1]]\nmeasurement: [[1]]\ninitialState: [0]\ncovUpdate: fancy\n"},
		{"disturbance", "steps: 10\ntransition: [[1]]\nmeasurement: [[1]]\ninitialState: [0]\ndisturbance: {kind: pink}\n"},
		{"gaussian sigma", "steps: 10\ntransition: [[1]]\nmeasurement: [[1]]\ninitialState: [0]\ndisturbance: {kind: gaussian}\n"},
	}

	for _, tc := range testCases {
		s, err := LoadScenario(strings.NewReader(tc.yaml))
		assert.Nil(s, tc.name)
		assert.Error(err, tc.name)
	}
}

func TestScenarioNoDisturbance(t *testing.T) {
	assert := assert.New(t)

	s := DefaultScenario()
	s.Disturbance = Disturbance{Kind: DisturbanceNone}

	wn, err := s.Noise()
	assert.NoError(err)
	assert.Nil(wn)

	f, err := s.Filter()
	assert.NoError(err)

	res, err := s.Run(f)
	assert.NoError(err)

	// the filter starts one step behind the measured state: the initial
	// error decays and the estimate settles on the truth
	truth, _ := res.Truth(0)
	est, _ := res.Filtered(0)

	third := s.Steps / 3
	first, err := MeanAbsError(truth, est, 0, third)
	assert.NoError(err)
	last, err := MeanAbsError(truth, est, s.Steps-third, s.Steps)
	assert.NoError(err)
	assert.Less(last, first)

	for k := s.Steps - third; k < s.Steps; k++ {
		assert.InDelta(truth[k], est[k], 2e-3, "step %d", k)
	}
	assert.InDelta(truth[s.Steps-1], est[s.Steps-1], 1e-4)
}

func TestScenarioContinuous(t *testing.T) {
	assert := assert.New(t)

	s := DefaultScenario()
	s.SampleTime = 1
	s.Transition = [][]float64{{0, 1}, {0, 0}}

	sys, err := s.System()
	assert.NoError(err)
	equal(t, []float64{1, 1, 0, 1}, sys.SystemMatrix(), 1e-9)

	f, err := s.Filter()
	assert.NoError(err)
	equal(t, []float64{1, 1, 0, 1}, f.TransitionMatrix(), 1e-9)

	res, err := s.Run(f)
	assert.NoError(err)

	d := DefaultScenario()
	g, err := d.Filter()
	assert.NoError(err)
	want, err := d.Run(g)
	assert.NoError(err)

	got, _ := res.Filtered(0)
	exp, _ := want.Filtered(0)
	assert.InDeltaSlice(exp, got, 1e-6)
}

func TestLoadScenarioContinuous(t *testing.T) {
	assert := assert.New(t)

	yml := `
name: pushed
steps: 10
sampleTime: 0.1
transition:
  - [0, 1]
  - [0, 0]
control:
  - [0]
  - [1]
controlInput: [2]
measurement:
  - [1, 0]
processNoise: 0.001
measurementNoise: 0.5
initialState: [0, 0]
`
	s, err := LoadScenario(strings.NewReader(yml))
	assert.NoError(err)
	assert.Equal(0.1, s.SampleTime)

	f, err := s.Filter()
	assert.NoError(err)
	equal(t, []float64{1, 0.1, 0, 1}, f.TransitionMatrix(), 1e-9)
	equal(t, []float64{0.005, 0.1}, f.ControlMatrix(), 1e-9)

	res, err := s.Run(f)
	assert.NoError(err)

	// constant acceleration of 2 from rest
	truth, _ := res.Truth(0)
	for k := range truth {
		tk := 0.1 * float64(k)
		assert.InDelta(tk*tk, truth[k], 1e-9, "step %d", k)
	}

	_, err = LoadScenario(strings.NewReader("steps: 10\nsampleTime: -1\ntransition: [[1]]\nmeasurement: [[1]]\ninitialState: [0]\n"))
	assert.Error(err)
}
