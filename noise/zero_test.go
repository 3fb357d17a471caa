package noise

import (
	"errors"
	"testing"

	"github.com/milosgajdos/go-kalman/matrix"
	"github.com/stretchr/testify/assert"
)

func TestNewZero(t *testing.T) {
	assert := assert.New(t)

	e, err := NewZero(2)
	assert.NotNil(e)
	assert.NoError(err)

	for _, size := range []int{0, -10} {
		e, err = NewZero(size)
		assert.Nil(e)
		assert.True(errors.Is(err, matrix.ErrBadShape))
	}
}

func TestZeroMeanCov(t *testing.T) {
	assert := assert.New(t)

	e, err := NewZero(2)
	assert.NotNil(e)
	assert.NoError(err)

	cov := e.Cov()
	rows, cols := cov.Dims()
	assert.Equal(2, rows)
	assert.Equal(2, cols)
	assert.Equal([]float64{0, 0, 0, 0}, cov.RawData())

	assert.EqualValues([]float64{0, 0}, e.Mean())
}

func TestZeroSample(t *testing.T) {
	assert := assert.New(t)

	e, err := NewZero(2)
	assert.NotNil(e)
	assert.NoError(err)

	sample1 := e.Sample()
	assert.Equal([]float64{0, 0}, sample1.RawData())

	assert.NoError(e.Reset())

	sample2 := e.Sample()
	assert.Equal(sample1.RawData(), sample2.RawData())
}

func TestZeroString(t *testing.T) {
	assert := assert.New(t)

	str := `Zero{
Mean=[0 0]
Cov=⎡0  0⎤
    ⎣0  0⎦
}`

	e, err := NewZero(2)
	assert.NotNil(e)
	assert.NoError(err)
	assert.Equal(str, e.String())
}
