package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrShapeMismatch = errors.New("feature rows and target length differ")
	ErrEmptyDesign   = errors.New("design matrix has no rows")
	ErrFactorize     = errors.New("svd factorization failed")
)

// rcond is the relative singular value cutoff used to decide the design rank.
const rcond = 1e-12

// LinearRegression is an ordinary least squares fit with an intercept.
// Columns are centred before solving, and the solve goes through a thin SVD,
// so rank-deficient designs get the minimum-norm solution instead of failing.
type LinearRegression struct {
	W    []float64 // weights
	b    float64   // bias
	rank int       // numerical rank of the centred design
}

// NewLinearRegression returns an unfitted model.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit solves for W and the bias given rows of features X and targets y.
func (m *LinearRegression) Fit(X mat.Matrix, y []float64) error {
	r, c := X.Dims()
	if r == 0 {
		return ErrEmptyDesign
	}
	if r != len(y) {
		return fmt.Errorf("%w: %d rows, %d targets", ErrShapeMismatch, r, len(y))
	}

	yMean := 0.0
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(r)

	m.W = make([]float64, c)
	m.b = yMean
	m.rank = 0
	if c == 0 {
		return nil
	}

	means := make([]float64, c)
	xc := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			means[j] += X.At(i, j)
		}
		means[j] /= float64(r)
		for i := 0; i < r; i++ {
			xc.Set(i, j, X.At(i, j)-means[j])
		}
	}
	yc := mat.NewVecDense(r, nil)
	for i, v := range y {
		yc.SetVec(i, v-yMean)
	}

	var svd mat.SVD
	if ok := svd.Factorize(xc, mat.SVDThin); !ok {
		return ErrFactorize
	}
	m.rank = svd.Rank(rcond)
	if m.rank == 0 {
		// every centred column is zero: nothing to explain beyond the mean
		return nil
	}

	var beta mat.Dense
	svd.SolveTo(&beta, yc, m.rank)
	for j := 0; j < c; j++ {
		m.W[j] = beta.At(j, 0)
		m.b -= m.W[j] * means[j]
	}
	return nil
}

// Predict returns predictions for rows in X.
func (m *LinearRegression) Predict(X mat.Matrix) []float64 {
	r, c := X.Dims()
	pred := make([]float64, r)
	for i := 0; i < r; i++ {
		sum := m.b
		for j := 0; j < c; j++ {
			sum += m.W[j] * X.At(i, j)
		}
		pred[i] = sum
	}
	return pred
}

// Score returns the coefficient of determination of the fit on X, y. It is
// not finite when y is constant.
func (m *LinearRegression) Score(X mat.Matrix, y []float64) float64 {
	return stat.RSquaredFrom(m.Predict(X), y, nil)
}

// Bias returns the fitted intercept.
func (m *LinearRegression) Bias() float64 {
	return m.b
}
