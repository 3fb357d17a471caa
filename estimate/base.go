package estimate

import (
	"fmt"

	"github.com/milosgajdos/go-kalman/matrix"
)

// Base is base estimate
type Base struct {
	// val is estimated value
	val *matrix.Dense
	// cov is estimated covariance
	cov *matrix.Dense
}

// NewBase returns base estimate given val with zero covariance.
// It returns error if val is nil or not a column vector.
func NewBase(val *matrix.Dense) (*Base, error) {
	if err := checkVal(val); err != nil {
		return nil, err
	}

	rv, _ := val.Dims()
	c, err := matrix.New(rv, rv)
	if err != nil {
		return nil, err
	}

	return &Base{
		val: val.Clone(),
		cov: c,
	}, nil
}

// NewBaseWithCov returns base estimate given val and its covariance
func NewBaseWithCov(val, cov *matrix.Dense) (*Base, error) {
	if err := checkVal(val); err != nil {
		return nil, err
	}

	if cov == nil {
		return nil, fmt.Errorf("invalid covariance: %v", cov)
	}

	rv, _ := val.Dims()
	rc, cc := cov.Dims()

	if rv != rc || rc != cc {
		return nil, fmt.Errorf("invalid dimensions. Val: %d, Cov: %d x %d: %w", rv, rc, cc, matrix.ErrDimensionMismatch)
	}

	return &Base{
		val: val.Clone(),
		cov: cov.Clone(),
	}, nil
}

func checkVal(val *matrix.Dense) error {
	if val == nil {
		return fmt.Errorf("invalid estimate value: %v", val)
	}

	if _, c := val.Dims(); c != 1 {
		return fmt.Errorf("estimate value must be a column vector, got %d columns: %w", c, matrix.ErrDimensionMismatch)
	}

	return nil
}

// Val returns estimated value
func (b *Base) Val() *matrix.Dense {
	return b.val.Clone()
}

// Cov returns covariance estimate
func (b *Base) Cov() *matrix.Dense {
	return b.cov.Clone()
}
