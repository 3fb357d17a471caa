package sim

import "github.com/milosgajdos/go-kalman/matrix"

// InitCond implements filter.InitCond
type InitCond struct {
	state *matrix.Dense
	cov   *matrix.Dense
}

// NewInitCond creates new InitCond and returns it
func NewInitCond(state, cov *matrix.Dense) *InitCond {
	return &InitCond{
		state: state.Clone(),
		cov:   cov.Clone(),
	}
}

// State returns initial state
func (c *InitCond) State() *matrix.Dense {
	return c.state.Clone()
}

// Cov returns initial covariance
func (c *InitCond) Cov() *matrix.Dense {
	return c.cov.Clone()
}
