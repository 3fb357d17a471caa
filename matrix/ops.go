package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Add returns a + b.
// It returns ErrDimensionMismatch if a and b do not have the same shape.
func Add(a, b *Dense) (*Dense, error) {
	if err := sameShape(a, b); err != nil {
		return nil, err
	}

	c := newDense(a.rows, a.cols)
	floats.AddTo(c.data, a.data, b.data)

	return c, nil
}

// Sub returns a - b.
// It returns ErrDimensionMismatch if a and b do not have the same shape.
func Sub(a, b *Dense) (*Dense, error) {
	if err := sameShape(a, b); err != nil {
		return nil, err
	}

	c := newDense(a.rows, a.cols)
	floats.SubTo(c.data, a.data, b.data)

	return c, nil
}

// Mul returns matrix product a * b.
// It returns ErrDimensionMismatch if number of a columns differs from number of b rows.
func Mul(a, b *Dense) (*Dense, error) {
	if a.cols != b.rows {
		return nil, fmt.Errorf("%w: [%d x %d] * [%d x %d]", ErrDimensionMismatch, a.rows, a.cols, b.rows, b.cols)
	}

	c := newDense(a.rows, b.cols)
	for i := 0; i < a.rows; i++ {
		ci := c.rawRow(i)
		for k, aik := range a.rawRow(i) {
			// c[i,:] += a[i,k] * b[k,:]
			floats.AddScaled(ci, aik, b.rawRow(k))
		}
	}

	return c, nil
}

// MulTrans returns a * b' without materializing the transpose of b.
// It returns ErrDimensionMismatch if a and b do not have the same number of columns.
func MulTrans(a, b *Dense) (*Dense, error) {
	if a.cols != b.cols {
		return nil, fmt.Errorf("%w: [%d x %d] * [%d x %d]'", ErrDimensionMismatch, a.rows, a.cols, b.rows, b.cols)
	}

	c := newDense(a.rows, b.rows)
	for i := 0; i < a.rows; i++ {
		ai := a.rawRow(i)
		for j := 0; j < b.rows; j++ {
			c.data[i*c.cols+j] = floats.Dot(ai, b.rawRow(j))
		}
	}

	return c, nil
}

// Transpose returns a new matrix which is the transpose of a.
func Transpose(a *Dense) *Dense {
	t := newDense(a.cols, a.rows)
	for i := 0; i < a.rows; i++ {
		for j, v := range a.rawRow(i) {
			t.data[j*t.cols+i] = v
		}
	}

	return t
}

// EqualApprox returns true if every element of a is within tol of the
// corresponding element of b.
// It returns ErrDimensionMismatch if a and b do not have the same shape.
func EqualApprox(a, b *Dense, tol float64) (bool, error) {
	if err := sameShape(a, b); err != nil {
		return false, err
	}

	return floats.Distance(a.data, b.data, math.Inf(1)) <= tol, nil
}

// Scale multiplies every element of m by s in place.
// It returns ErrInvalidScalar if s is NaN or infinite.
func (m *Dense) Scale(s float64) error {
	if !isFinite(s) {
		return fmt.Errorf("%w: %v", ErrInvalidScalar, s)
	}
	floats.Scale(s, m.data)

	return nil
}

// SwapRows exchanges rows r1 and r2 of m in place.
// It returns error if either row is out of range or r1 == r2.
func (m *Dense) SwapRows(r1, r2 int) error {
	if err := m.checkRowPair(r1, r2); err != nil {
		return err
	}
	m.swapRows(r1, r2)

	return nil
}

// ScaleRow multiplies row r of m by s in place.
// It returns ErrInvalidScalar if s is zero, NaN or infinite: scaling a row
// by zero is not an invertible row operation.
func (m *Dense) ScaleRow(r int, s float64) error {
	if err := m.checkRow(r); err != nil {
		return err
	}
	if s == 0 || !isFinite(s) {
		return fmt.Errorf("%w: row scale %v", ErrInvalidScalar, s)
	}
	m.scaleRow(r, s)

	return nil
}

// ShearRow adds s times row r2 to row r1 of m in place.
// It returns error if either row is out of range, r1 == r2 or s is not finite.
func (m *Dense) ShearRow(r1, r2 int, s float64) error {
	if err := m.checkRowPair(r1, r2); err != nil {
		return err
	}
	if !isFinite(s) {
		return fmt.Errorf("%w: row shear %v", ErrInvalidScalar, s)
	}
	m.shearRow(r1, r2, s)

	return nil
}

func (m *Dense) swapRows(r1, r2 int) {
	a, b := m.rawRow(r1), m.rawRow(r2)
	for j := range a {
		a[j], b[j] = b[j], a[j]
	}
}

func (m *Dense) scaleRow(r int, s float64) {
	floats.Scale(s, m.rawRow(r))
}

func (m *Dense) shearRow(r1, r2 int, s float64) {
	floats.AddScaled(m.rawRow(r1), s, m.rawRow(r2))
}

func (m *Dense) checkRowPair(r1, r2 int) error {
	if err := m.checkRow(r1); err != nil {
		return err
	}
	if err := m.checkRow(r2); err != nil {
		return err
	}
	if r1 == r2 {
		return fmt.Errorf("%w: %d", ErrSameRow, r1)
	}

	return nil
}

func sameShape(a, b *Dense) error {
	if a.rows != b.rows || a.cols != b.cols {
		return fmt.Errorf("%w: [%d x %d] vs [%d x %d]", ErrDimensionMismatch, a.rows, a.cols, b.rows, b.cols)
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
