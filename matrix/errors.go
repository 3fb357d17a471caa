package matrix

import "errors"

// Errors returned by the matrix engine. Operations wrap them with the
// offending shapes, so callers should match them with errors.Is.
var (
	// ErrBadShape is returned when a matrix is requested with non-positive dimensions.
	ErrBadShape = errors.New("matrix: invalid shape")
	// ErrDimensionMismatch is returned when operand shapes are not conformable.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")
	// ErrIndexOutOfRange is returned when a row or column index is outside the matrix.
	ErrIndexOutOfRange = errors.New("matrix: index out of range")
	// ErrNotSquare is returned when a square matrix is required.
	ErrNotSquare = errors.New("matrix: matrix is not square")
	// ErrSingular is returned when a matrix has no inverse.
	ErrSingular = errors.New("matrix: matrix is singular")
	// ErrInvalidScalar is returned when a scalar multiplier is not allowed.
	ErrInvalidScalar = errors.New("matrix: invalid scalar")
	// ErrSameRow is returned when a two-row operation is given the same row twice.
	ErrSameRow = errors.New("matrix: rows must differ")
)
