package matrix

import "fmt"

// Invert returns the inverse of the square matrix a using Gauss-Jordan elimination.
//
// The elimination applies elementary row operations to a working copy of a
// until it is reduced to identity, and applies the same operations to an
// identity accumulator which ends up holding the inverse. A zero pivot is
// avoided by swapping in the first row below it with a non-zero entry in the
// pivot column; this is not partial pivoting, rows are only swapped when the
// pivot is exactly zero.
//
// It returns ErrNotSquare if a is not square and ErrSingular if a has no inverse.
// a is never modified.
func Invert(a *Dense) (*Dense, error) {
	if err := a.checkSquare(); err != nil {
		return nil, err
	}

	n := a.rows
	w := a.Clone()
	inv := newDense(n, n)
	inv.setIdentity()

	for i := 0; i < n; i++ {
		if w.data[i*n+i] == 0 {
			r := i + 1
			for ; r < n; r++ {
				if w.data[r*n+i] != 0 {
					break
				}
			}
			if r == n {
				return nil, fmt.Errorf("%w: no pivot in column %d of [%d x %d]", ErrSingular, i, n, n)
			}
			w.swapRows(i, r)
			inv.swapRows(i, r)
		}

		// a subnormal pivot overflows its reciprocal
		s := 1.0 / w.data[i*n+i]
		if !isFinite(s) {
			return nil, fmt.Errorf("%w: pivot %g in column %d", ErrSingular, w.data[i*n+i], i)
		}
		w.scaleRow(i, s)
		inv.scaleRow(i, s)

		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			shear := -w.data[j*n+i]
			if shear == 0 {
				continue
			}
			w.shearRow(j, i, shear)
			inv.shearRow(j, i, shear)
		}
	}

	return inv, nil
}
