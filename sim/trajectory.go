package sim

import (
	"fmt"

	filter "github.com/milosgajdos/go-kalman"
	"github.com/milosgajdos/go-kalman/matrix"
)

// Trajectory is a simulated run of a discrete system: the true states and
// the noisy measurements taken of them.
type Trajectory struct {
	truth []*matrix.Dense
	meas  []*matrix.Dense
}

// Generate simulates steps steps of the discrete system sys starting at state x0.
// At step k the measurement H*x[k] + wn is taken and the state is advanced to
// x[k+1] = A*x[k] + B*u + wd. Any of u, wd and wn may be nil.
// It returns error if steps is not positive or the vectors do not match sys.
func Generate(sys *Discrete, x0, u *matrix.Dense, steps int, wd, wn filter.Noise) (*Trajectory, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("invalid number of steps: %d", steps)
	}

	if x0 == nil {
		return nil, fmt.Errorf("invalid initial state: %v", x0)
	}

	t := &Trajectory{
		truth: make([]*matrix.Dense, steps),
		meas:  make([]*matrix.Dense, steps),
	}

	x := x0.Clone()
	for k := 0; k < steps; k++ {
		var noise *matrix.Dense
		if wn != nil {
			noise = wn.Sample()
		}

		y, err := sys.Observe(x, noise)
		if err != nil {
			return nil, fmt.Errorf("observation failed at step %d: %w", k, err)
		}

		t.truth[k] = x
		t.meas[k] = y

		noise = nil
		if wd != nil {
			noise = wd.Sample()
		}

		if x, err = sys.Propagate(x, u, noise); err != nil {
			return nil, fmt.Errorf("propagation failed at step %d: %w", k, err)
		}
	}

	return t, nil
}

// Len returns number of steps of the trajectory.
func (t *Trajectory) Len() int {
	return len(t.truth)
}

// Truth returns the true state at step k.
// It panics if k is out of range.
func (t *Trajectory) Truth(k int) *matrix.Dense {
	return t.truth[k].Clone()
}

// Measurement returns the measurement taken at step k.
// It panics if k is out of range.
func (t *Trajectory) Measurement(k int) *matrix.Dense {
	return t.meas[k].Clone()
}
