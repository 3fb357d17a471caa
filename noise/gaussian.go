package noise

import (
	"fmt"
	"time"

	"github.com/milosgajdos/go-kalman/matrix"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Gaussian is gaussian noise
type Gaussian struct {
	// dist is a multivariate normal distribution
	dist *distmv.Normal
	// mean is Gaussian mean
	mean []float64
	// cov is Gaussian covariance
	cov *mat.SymDense
	// seed is the source seed; zero seeds from the clock
	seed uint64
}

// NewGaussian creates new Gaussian noise with given mean and covariance.
// It returns error if it fails to create Gaussian.
func NewGaussian(mean []float64, cov *matrix.Dense) (*Gaussian, error) {
	return NewGaussianWithSeed(mean, cov, 0)
}

// NewGaussianWithSeed creates new Gaussian noise whose samples are drawn
// from a source seeded with seed. Noise created with the same seed produces
// the same sequence of samples.
// It returns error if cov is not a square symmetric matrix matching the
// length of mean, or if cov is not positive definite.
func NewGaussianWithSeed(mean []float64, cov *matrix.Dense, seed uint64) (*Gaussian, error) {
	sym, err := toSym(cov)
	if err != nil {
		return nil, err
	}

	if sym.SymmetricDim() != len(mean) {
		return nil, fmt.Errorf("invalid Gaussian dimensions. Mean: %d, Cov: %d x %d: %w",
			len(mean), sym.SymmetricDim(), sym.SymmetricDim(), matrix.ErrDimensionMismatch)
	}

	m := make([]float64, len(mean))
	copy(m, mean)

	dist, ok := newGaussianDist(m, sym, seed)
	if !ok {
		return nil, fmt.Errorf("failed to create new Gaussian noise")
	}

	return &Gaussian{
		dist: dist,
		mean: m,
		cov:  sym,
		seed: seed,
	}, nil
}

// Sample generates a sample from Gaussian noise and returns it as a column vector.
func (g *Gaussian) Sample() *matrix.Dense {
	r := g.dist.Rand(nil)
	sample, _ := matrix.NewVector(r...)

	return sample
}

// Cov returns covariance matrix of Gaussian noise.
func (g *Gaussian) Cov() *matrix.Dense {
	return matrix.CopyOf(g.cov)
}

// Mean returns Gaussian mean.
func (g *Gaussian) Mean() []float64 {
	mean := make([]float64, len(g.mean))
	copy(mean, g.mean)

	return mean
}

// Reset resets Gaussian noise.
// Seeded noise restarts its sample sequence.
// It returns error if it fails to reset the noise.
func (g *Gaussian) Reset() error {
	dist, ok := newGaussianDist(g.mean, g.cov, g.seed)
	if !ok {
		return fmt.Errorf("failed to reset Gaussian noise")
	}
	g.dist = dist

	return nil
}

func newGaussianDist(mean []float64, cov mat.Symmetric, seed uint64) (*distmv.Normal, bool) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.New(rand.NewSource(seed))

	return distmv.NewNormal(mean, cov, src)
}

// toSym converts a square symmetric cov into gonum symmetric matrix.
func toSym(cov *matrix.Dense) (*mat.SymDense, error) {
	if cov == nil {
		return nil, fmt.Errorf("invalid covariance matrix: %v", cov)
	}

	n, c := cov.Dims()
	if n != c {
		return nil, fmt.Errorf("invalid covariance matrix: %w", matrix.ErrNotSquare)
	}

	if !mat.EqualApprox(cov, cov.T(), 1e-12) {
		return nil, fmt.Errorf("covariance matrix is not symmetric")
	}

	return mat.NewSymDense(n, cov.RawData()), nil
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{\nMean=%v\nCov=%v\n}", g.mean, mat.Formatted(g.cov, mat.Prefix("    "), mat.Squeeze()))
}
