package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescriptiveSkipMissing(t *testing.T) {
	x := []float64{1, math.NaN(), 3, 5, math.NaN()}

	require.Equal(t, []float64{1, 3, 5}, Valid(x))
	require.InDelta(t, 3.0, Mean(x), 1e-12)
	require.InDelta(t, 4.0, Variance(x), 1e-12)
	require.Equal(t, 3.0, Median(x))

	lo, hi := MinMax(x)
	require.Equal(t, 1.0, lo)
	require.Equal(t, 5.0, hi)
	require.Equal(t, 4.0, Percentile(x, 75))
}

func TestEmptyInputs(t *testing.T) {
	nan := []float64{math.NaN()}
	require.Equal(t, 0.0, Mean(nan))
	require.Equal(t, 0.0, Variance(nan))
	require.Equal(t, 0.0, Median(nil))
	require.Equal(t, 0.0, Mode(nil))
	require.Equal(t, "", ModeString([]string{"", ""}))
}

func TestMode(t *testing.T) {
	require.Equal(t, 2.0, Mode([]float64{2, 1, 2, 1}))
	require.Equal(t, "b", ModeString([]string{"b", "a", "", "b", "a"}))
}

func TestRanksAverageTies(t *testing.T) {
	require.Equal(t, []float64{1, 2.5, 2.5, 4}, Ranks([]float64{10, 20, 20, 30}))
	require.Equal(t, []float64{3, 1, 2}, Ranks([]float64{9, 1, 5}))
}

func TestParseMethod(t *testing.T) {
	for _, s := range []string{"pearson", "Kendall", " spearman "} {
		_, err := ParseMethod(s)
		require.NoError(t, err)
	}
	_, err := ParseMethod("cosine")
	require.ErrorIs(t, err, ErrUnsupportedMethod)

	_, err = Correlate(Method("bogus"), []float64{1, 2}, []float64{1, 2})
	require.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestCorrelationMethods(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 4, 9, 16, 25}
	rev := []float64{5, 4, 3, 2, 1}

	r, err := Correlate(Pearson, x, y)
	require.NoError(t, err)
	require.InDelta(t, 0.9811, r, 1e-4)

	// monotonic, so rank based methods see a perfect relationship
	r, err = Correlate(Spearman, x, y)
	require.NoError(t, err)
	require.InDelta(t, 1.0, r, 1e-12)

	r, err = Correlate(Kendall, x, rev)
	require.NoError(t, err)
	require.InDelta(t, -1.0, r, 1e-12)
}

func TestKendallTauB(t *testing.T) {
	// one tie on each side: 4 concordant pairs, tau-b = 4 / sqrt(5*5)
	x := []float64{1, 2, 2, 3}
	y := []float64{1, 1, 2, 3}
	require.InDelta(t, 0.8, KendallTau(x, y), 1e-12)
}

func TestPairwiseComplete(t *testing.T) {
	x := []float64{1, math.NaN(), 3, 4}
	y := []float64{2, 5, math.NaN(), 8}
	xs, ys := PairwiseComplete(x, y)
	require.Equal(t, []float64{1, 4}, xs)
	require.Equal(t, []float64{2, 8}, ys)

	r, err := Correlate(Pearson, x, y)
	require.NoError(t, err)
	require.InDelta(t, 1.0, r, 1e-12)

	r, err = Correlate(Pearson, []float64{1, math.NaN()}, []float64{1, 2})
	require.NoError(t, err)
	require.True(t, math.IsNaN(r))
}

func TestConstantInputIsNaN(t *testing.T) {
	r, err := Correlate(Pearson, []float64{1, 1, 1}, []float64{1, 2, 3})
	require.NoError(t, err)
	require.True(t, math.IsNaN(r))
}

func TestClipPercentiles(t *testing.T) {
	x := []float64{0, 10, math.NaN(), 20, 30, 40}
	out := ClipPercentiles(x, 25, 75)
	require.Equal(t, 10.0, out[0])
	require.True(t, math.IsNaN(out[2]))
	require.Equal(t, 30.0, out[5])
	require.Equal(t, 0.0, x[0])
}
