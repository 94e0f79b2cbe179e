package stats

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Method names a pairwise correlation coefficient.
type Method string

const (
	Pearson  Method = "pearson"
	Kendall  Method = "kendall"
	Spearman Method = "spearman"
)

var ErrUnsupportedMethod = errors.New("unsupported correlation method")

// ParseMethod accepts pearson, kendall or spearman (case-insensitive).
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

func (m Method) Validate() error {
	switch m {
	case Pearson, Kendall, Spearman:
		return nil
	}
	return fmt.Errorf("%w: %q (want pearson, kendall or spearman)", ErrUnsupportedMethod, string(m))
}

// Correlate computes the coefficient for x and y over pairwise-complete
// observations: rows where either value is NaN are skipped. The result is
// NaN when fewer than two complete pairs remain or either side is constant.
func Correlate(m Method, x, y []float64) (float64, error) {
	if err := m.Validate(); err != nil {
		return math.NaN(), err
	}
	xs, ys := PairwiseComplete(x, y)
	switch m {
	case Kendall:
		return KendallTau(xs, ys), nil
	case Spearman:
		return SpearmanCorrelation(xs, ys), nil
	default:
		return PearsonCorrelation(xs, ys), nil
	}
}

// PairwiseComplete returns the aligned values of x and y for rows where both are present.
func PairwiseComplete(x, y []float64) ([]float64, []float64) {
	n := min(len(x), len(y))
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

// PearsonCorrelation computes the Pearson coefficient of complete data.
func PearsonCorrelation(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) || isConstant(x) || isConstant(y) {
		return math.NaN()
	}
	return clamp(stat.Correlation(x, y, nil))
}

// SpearmanCorrelation is the Pearson coefficient of the average ranks.
func SpearmanCorrelation(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return math.NaN()
	}
	return PearsonCorrelation(Ranks(x), Ranks(y))
}

// KendallTau computes Kendall's tau-b, which corrects for ties on either side.
func KendallTau(x, y []float64) float64 {
	n := len(x)
	if n < 2 || n != len(y) {
		return math.NaN()
	}
	var concordant, discordant, tiedX, tiedY float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := sign(x[i] - x[j])
			dy := sign(y[i] - y[j])
			switch {
			case dx == 0 && dy == 0:
			case dx == 0:
				tiedX++
			case dy == 0:
				tiedY++
			case dx == dy:
				concordant++
			default:
				discordant++
			}
		}
	}
	denom := math.Sqrt((concordant + discordant + tiedX) * (concordant + discordant + tiedY))
	if denom == 0 {
		return math.NaN()
	}
	return clamp((concordant - discordant) / denom)
}

func isConstant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func clamp(r float64) float64 {
	return math.Max(-1, math.Min(1, r))
}
