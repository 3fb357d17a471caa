// Package matrix implements a small dense matrix engine: fixed-shape row-major
// matrices, elementwise and product arithmetic, elementary row operations
// and Gauss-Jordan inversion.
//
// Dense implements gonum's mat.Matrix, so its values can be handed straight
// to gonum formatting, plotting and comparison helpers.
package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Dense is a dense row-major matrix whose shape is fixed at construction.
type Dense struct {
	// rows is number of rows
	rows int
	// cols is number of columns
	cols int
	// data stores rows*cols elements in row-major order
	data []float64
}

// New creates a zero-filled rows x cols matrix and returns it.
// It returns error if either of the dimensions is not positive.
func New(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: [%d x %d]", ErrBadShape, rows, cols)
	}

	return newDense(rows, cols), nil
}

// NewWithData creates a rows x cols matrix and fills it with a copy of data
// stored in row-major order.
// It returns error if the shape is invalid or len(data) != rows*cols.
func NewWithData(rows, cols int, data []float64) (*Dense, error) {
	m, err := New(rows, cols)
	if err != nil {
		return nil, err
	}

	if err := m.SetAll(data...); err != nil {
		return nil, err
	}

	return m, nil
}

// NewVector creates a column vector holding a copy of vals.
// It returns error if vals is empty.
func NewVector(vals ...float64) (*Dense, error) {
	return NewWithData(len(vals), 1, vals)
}

// Identity returns n x n identity matrix.
// It returns error if n is not positive.
func Identity(n int) (*Dense, error) {
	m, err := New(n, n)
	if err != nil {
		return nil, err
	}
	m.setIdentity()

	return m, nil
}

// CopyOf returns a deep copy of any gonum matrix as a Dense.
// It panics if a has a zero dimension.
func CopyOf(a mat.Matrix) *Dense {
	if d, ok := a.(*Dense); ok {
		return d.Clone()
	}

	r, c := a.Dims()
	if r <= 0 || c <= 0 {
		panic(fmt.Sprintf("matrix: cannot copy [%d x %d] matrix", r, c))
	}

	m := newDense(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.data[i*c+j] = a.At(i, j)
		}
	}

	return m
}

func newDense(rows, cols int) *Dense {
	return &Dense{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}
}

// Clone returns a deep copy of m which shares no storage with it.
func (m *Dense) Clone() *Dense {
	data := make([]float64, len(m.data))
	copy(data, m.data)

	return &Dense{
		rows: m.rows,
		cols: m.cols,
		data: data,
	}
}

// Dims returns number of rows and columns of m.
func (m *Dense) Dims() (r, c int) {
	return m.rows, m.cols
}

// At returns the element at row i and column j.
// It panics if either index is out of range; use Get for a checked read.
func (m *Dense) At(i, j int) float64 {
	if err := m.checkIndex(i, j); err != nil {
		panic(err.Error())
	}

	return m.data[i*m.cols+j]
}

// T returns implicit transpose of m.
// Use Transpose to get a materialized transpose.
func (m *Dense) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// Get returns the element at row i and column j.
// It returns ErrIndexOutOfRange if either index is outside of m.
func (m *Dense) Get(i, j int) (float64, error) {
	if err := m.checkIndex(i, j); err != nil {
		return 0, err
	}

	return m.data[i*m.cols+j], nil
}

// Set sets the element at row i and column j to v.
// It returns ErrIndexOutOfRange if either index is outside of m.
func (m *Dense) Set(i, j int, v float64) error {
	if err := m.checkIndex(i, j); err != nil {
		return err
	}
	m.data[i*m.cols+j] = v

	return nil
}

// SetAll overwrites every element of m with vals in row-major order.
// It returns ErrDimensionMismatch unless len(vals) equals rows*cols.
func (m *Dense) SetAll(vals ...float64) error {
	if len(vals) != len(m.data) {
		return fmt.Errorf("%w: %d values for [%d x %d] matrix", ErrDimensionMismatch, len(vals), m.rows, m.cols)
	}
	copy(m.data, vals)

	return nil
}

// Copy overwrites m with the elements of a.
// It returns ErrDimensionMismatch if a and m do not have the same shape.
func (m *Dense) Copy(a *Dense) error {
	if err := sameShape(m, a); err != nil {
		return err
	}
	copy(m.data, a.data)

	return nil
}

// SetIdentity turns m into identity matrix.
// It returns ErrNotSquare if m is not square.
func (m *Dense) SetIdentity() error {
	if err := m.checkSquare(); err != nil {
		return err
	}
	m.setIdentity()

	return nil
}

func (m *Dense) setIdentity() {
	clear(m.data)
	for i := 0; i < m.rows; i++ {
		m.data[i*m.cols+i] = 1.0
	}
}

// SubtractFromIdentity replaces m with I - m.
// It returns ErrNotSquare if m is not square.
func (m *Dense) SubtractFromIdentity() error {
	if err := m.checkSquare(); err != nil {
		return err
	}

	floats.Scale(-1.0, m.data)
	for i := 0; i < m.rows; i++ {
		m.data[i*m.cols+i] += 1.0
	}

	return nil
}

// Zero sets every element of m to zero.
func (m *Dense) Zero() {
	clear(m.data)
}

// IsSquare returns true if m has the same number of rows and columns.
func (m *Dense) IsSquare() bool {
	return m.rows == m.cols
}

// Row returns a copy of the i-th row of m.
// It returns ErrIndexOutOfRange if i is outside of m.
func (m *Dense) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.rows {
		return nil, fmt.Errorf("%w: row %d of [%d x %d]", ErrIndexOutOfRange, i, m.rows, m.cols)
	}
	row := make([]float64, m.cols)
	copy(row, m.rawRow(i))

	return row, nil
}

// RawData returns a copy of the elements of m in row-major order.
func (m *Dense) RawData() []float64 {
	data := make([]float64, len(m.data))
	copy(data, m.data)

	return data
}

// Format implements fmt.Formatter.
func (m *Dense) Format(fs fmt.State, c rune) {
	mat.Formatted(m, mat.Squeeze()).Format(fs, c)
}

// rawRow returns the i-th row backed by m storage.
func (m *Dense) rawRow(i int) []float64 {
	return m.data[i*m.cols : (i+1)*m.cols]
}

func (m *Dense) checkIndex(i, j int) error {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return fmt.Errorf("%w: (%d, %d) in [%d x %d]", ErrIndexOutOfRange, i, j, m.rows, m.cols)
	}

	return nil
}

func (m *Dense) checkRow(i int) error {
	if i < 0 || i >= m.rows {
		return fmt.Errorf("%w: row %d in [%d x %d]", ErrIndexOutOfRange, i, m.rows, m.cols)
	}

	return nil
}

func (m *Dense) checkSquare() error {
	if m.rows != m.cols {
		return fmt.Errorf("%w: [%d x %d]", ErrNotSquare, m.rows, m.cols)
	}

	return nil
}

// Trace returns the sum of diagonal elements of m.
// It returns ErrNotSquare if m is not square.
func Trace(m *Dense) (float64, error) {
	if err := m.checkSquare(); err != nil {
		return 0, err
	}

	var tr float64
	for i := 0; i < m.rows; i++ {
		tr += m.data[i*m.cols+i]
	}

	return tr, nil
}
