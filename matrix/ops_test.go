package matrix

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func randDense(rnd *rand.Rand, r, c int) *Dense {
	m := newDense(r, c)
	for i := range m.data {
		m.data[i] = rnd.NormFloat64()
	}

	return m
}

func TestAddSub(t *testing.T) {
	assert := assert.New(t)

	a, _ := NewWithData(2, 2, []float64{1, 2, 3, 4})
	b, _ := NewWithData(2, 2, []float64{0.5, -2, 1, 10})

	sum, err := Add(a, b)
	assert.NoError(err)
	assert.Equal([]float64{1.5, 0, 4, 14}, sum.RawData())

	diff, err := Sub(a, b)
	assert.NoError(err)
	assert.Equal([]float64{0.5, 4, 2, -6}, diff.RawData())

	// operands are left unchanged
	assert.Equal([]float64{1, 2, 3, 4}, a.RawData())
	assert.Equal([]float64{0.5, -2, 1, 10}, b.RawData())

	c, _ := New(2, 3)
	_, err = Add(a, c)
	assert.True(errors.Is(err, ErrDimensionMismatch))
	_, err = Sub(c, a)
	assert.True(errors.Is(err, ErrDimensionMismatch))
}

func TestAdditiveInverse(t *testing.T) {
	assert := assert.New(t)
	rnd := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		r, c := 1+rnd.Intn(5), 1+rnd.Intn(5)
		a, b := randDense(rnd, r, c), randDense(rnd, r, c)

		sum, err := Add(a, b)
		assert.NoError(err)
		back, err := Sub(sum, b)
		assert.NoError(err)

		ok, err := EqualApprox(back, a, 1e-12)
		assert.NoError(err)
		assert.True(ok)
	}
}

func TestMul(t *testing.T) {
	assert := assert.New(t)

	a, _ := NewWithData(2, 3, []float64{1, 2, 3, 4, 5, 6})
	b, _ := NewWithData(3, 2, []float64{7, 8, 9, 10, 11, 12})

	c, err := Mul(a, b)
	assert.NoError(err)
	r, cols := c.Dims()
	assert.Equal(2, r)
	assert.Equal(2, cols)
	assert.Equal([]float64{58, 64, 139, 154}, c.RawData())

	// a: 2x3, d: 2x2 are not conformable
	d, _ := New(2, 2)
	c, err = Mul(a, d)
	assert.Nil(c)
	assert.True(errors.Is(err, ErrDimensionMismatch))
}

func TestMulAgainstGonum(t *testing.T) {
	assert := assert.New(t)
	rnd := rand.New(rand.NewSource(2))

	for i := 0; i < 20; i++ {
		n, k, m := 1+rnd.Intn(6), 1+rnd.Intn(6), 1+rnd.Intn(6)
		a, b := randDense(rnd, n, k), randDense(rnd, k, m)

		c, err := Mul(a, b)
		assert.NoError(err)

		want := &mat.Dense{}
		want.Mul(a, b)
		assert.True(mat.EqualApprox(want, c, 1e-12))

		bt := randDense(rnd, m, k)
		ct, err := MulTrans(a, bt)
		assert.NoError(err)

		want.Mul(a, bt.T())
		assert.True(mat.EqualApprox(want, ct, 1e-12))
	}
}

func TestIdentityMul(t *testing.T) {
	assert := assert.New(t)
	rnd := rand.New(rand.NewSource(3))

	a := randDense(rnd, 3, 4)
	left, _ := Identity(3)
	right, _ := Identity(4)

	c, err := Mul(a, right)
	assert.NoError(err)
	ok, err := EqualApprox(c, a, 1e-15)
	assert.NoError(err)
	assert.True(ok)

	c, err = Mul(left, a)
	assert.NoError(err)
	ok, err = EqualApprox(c, a, 1e-15)
	assert.NoError(err)
	assert.True(ok)
}

func TestMulTrans(t *testing.T) {
	assert := assert.New(t)

	a, _ := NewWithData(2, 2, []float64{1, 2, 3, 4})
	b, _ := NewWithData(1, 2, []float64{1, 0})

	c, err := MulTrans(a, b)
	assert.NoError(err)
	assert.Equal([]float64{1, 3}, c.RawData())

	d, _ := New(2, 3)
	_, err = MulTrans(a, d)
	assert.True(errors.Is(err, ErrDimensionMismatch))
}

func TestTranspose(t *testing.T) {
	assert := assert.New(t)

	a, _ := NewWithData(2, 3, []float64{1, 2, 3, 4, 5, 6})

	at := Transpose(a)
	r, c := at.Dims()
	assert.Equal(3, r)
	assert.Equal(2, c)
	assert.Equal([]float64{1, 4, 2, 5, 3, 6}, at.RawData())

	ok, err := EqualApprox(Transpose(at), a, 0)
	assert.NoError(err)
	assert.True(ok)
}

func TestEqualApprox(t *testing.T) {
	assert := assert.New(t)

	a, _ := NewWithData(1, 3, []float64{1, 2, 3})
	b, _ := NewWithData(1, 3, []float64{1, 2.05, 3})

	ok, err := EqualApprox(a, b, 0.1)
	assert.NoError(err)
	assert.True(ok)

	ok, err = EqualApprox(a, b, 0.01)
	assert.NoError(err)
	assert.False(ok)

	c, _ := New(3, 1)
	_, err = EqualApprox(a, c, 1)
	assert.True(errors.Is(err, ErrDimensionMismatch))
}

func TestScale(t *testing.T) {
	assert := assert.New(t)

	m, _ := NewWithData(2, 2, []float64{1, 0, 0, 1})
	assert.NoError(m.Scale(1e-5))
	assert.Equal([]float64{1e-5, 0, 0, 1e-5}, m.RawData())

	assert.NoError(m.Scale(0))
	assert.Equal([]float64{0, 0, 0, 0}, m.RawData())

	m, _ = NewWithData(1, 1, []float64{2})
	for _, s := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.True(errors.Is(m.Scale(s), ErrInvalidScalar))
	}
	assert.Equal([]float64{2}, m.RawData())
}

func TestRowOps(t *testing.T) {
	assert := assert.New(t)

	m, _ := NewWithData(3, 2, []float64{1, 2, 3, 4, 5, 6})

	assert.NoError(m.SwapRows(0, 2))
	assert.Equal([]float64{5, 6, 3, 4, 1, 2}, m.RawData())

	assert.NoError(m.ScaleRow(1, 0.5))
	assert.Equal([]float64{5, 6, 1.5, 2, 1, 2}, m.RawData())

	assert.NoError(m.ShearRow(0, 2, -5))
	assert.Equal([]float64{0, -4, 1.5, 2, 1, 2}, m.RawData())

	// zero shear is a no-op
	assert.NoError(m.ShearRow(1, 0, 0))
	assert.Equal([]float64{0, -4, 1.5, 2, 1, 2}, m.RawData())

	before := m.RawData()
	for _, err := range []error{
		m.SwapRows(0, 3),
		m.SwapRows(-1, 0),
		m.ScaleRow(3, 2),
		m.ShearRow(0, 3, 1),
	} {
		assert.True(errors.Is(err, ErrIndexOutOfRange))
	}
	assert.True(errors.Is(m.SwapRows(1, 1), ErrSameRow))
	assert.True(errors.Is(m.ShearRow(1, 1, 2), ErrSameRow))
	assert.True(errors.Is(m.ScaleRow(0, 0), ErrInvalidScalar))
	assert.True(errors.Is(m.ScaleRow(0, math.NaN()), ErrInvalidScalar))
	assert.True(errors.Is(m.ShearRow(0, 1, math.Inf(1)), ErrInvalidScalar))
	assert.Equal(before, m.RawData())
}
