package selection

import (
	"bytes"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HisDaoMaterials/data-engine/pkg/frame"
	"github.com/HisDaoMaterials/data-engine/pkg/stats"
)

func normal(rng *rand.Rand, n int, scale float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.NormFloat64() * scale
	}
	return out
}

func add(xs ...[]float64) []float64 {
	out := make([]float64, len(xs[0]))
	for _, x := range xs {
		for i, v := range x {
			out[i] += v
		}
	}
	return out
}

// collinearTable returns A, B, C ~= A+B and an independent D.
func collinearTable(t *testing.T, noise float64) *frame.Table {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	n := 200
	a := normal(rng, n, 1)
	b := normal(rng, n, 1)
	c := add(a, b, normal(rng, n, noise))
	d := normal(rng, n, 1)
	return frame.MustNew(
		frame.NewFloat("A", a),
		frame.NewFloat("B", b),
		frame.NewFloat("C", c),
		frame.NewFloat("D", d),
	)
}

func gradedTable(t *testing.T) *frame.Table {
	t.Helper()
	rng := rand.New(rand.NewSource(3))
	n := 300
	x1 := normal(rng, n, 1)
	x2 := add(x1, normal(rng, n, 0.5))
	x3 := add(x1, x2, normal(rng, n, 0.3))
	x4 := normal(rng, n, 1)
	x5 := add(x4, normal(rng, n, 1))
	return frame.MustNew(
		frame.NewFloat("x1", x1),
		frame.NewFloat("x2", x2),
		frame.NewFloat("x3", x3),
		frame.NewFloat("x4", x4),
		frame.NewFloat("x5", x5),
	)
}

func TestComputeVIFOnePerColumnInOrder(t *testing.T) {
	tbl := gradedTable(t)
	report, err := ComputeVIF(tbl)
	require.NoError(t, err)
	require.Equal(t, tbl.Names(), report.Features())
	for _, s := range report {
		require.GreaterOrEqual(t, s.VIF, 1.0-1e-9, s.Feature)
	}
}

func TestComputeVIFPerfectCollinearityIsInf(t *testing.T) {
	tbl, err := collinearTable(t, 0).SelectNames("A", "B", "C")
	require.NoError(t, err)

	report, err := ComputeVIF(tbl)
	require.NoError(t, err)
	require.Len(t, report, 3)
	require.True(t, math.IsInf(report[2].VIF, 1))

	_, err = ComputeVIFStrict(tbl)
	require.ErrorIs(t, err, ErrSingularDesign)
}

func TestComputeVIFIndependentColumnsNearOne(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tbl := frame.MustNew(
		frame.NewFloat("a", normal(rng, 500, 1)),
		frame.NewFloat("b", normal(rng, 500, 3)),
		frame.NewFloat("c", normal(rng, 500, 0.2)),
	)
	report, err := ComputeVIFStrict(tbl)
	require.NoError(t, err)
	for _, s := range report {
		require.InDelta(t, 1.0, s.VIF, 0.1, s.Feature)
	}
}

func TestComputeVIFEdgeCases(t *testing.T) {
	report, err := ComputeVIF(frame.MustNew())
	require.NoError(t, err)
	require.Empty(t, report)

	report, err = ComputeVIF(frame.MustNew(frame.NewFloat("only", []float64{1, 2, 3})))
	require.NoError(t, err)
	require.Equal(t, VIFReport{{Feature: "only", VIF: 1}}, report)

	report, err = ComputeVIF(frame.MustNew(
		frame.NewFloat("flat", []float64{2, 2, 2}),
		frame.NewFloat("x", []float64{1, 5, 3}),
	))
	require.NoError(t, err)
	require.True(t, math.IsInf(report[0].VIF, 1))

	_, err = ComputeVIF(frame.MustNew(frame.NewFloat("x", []float64{1}), frame.NewFloat("y", []float64{2})))
	require.ErrorIs(t, err, ErrInsufficientRows)
}

func TestComputeVIFRejectsBadInput(t *testing.T) {
	_, err := ComputeVIF(frame.MustNew(
		frame.NewFloat("x", []float64{1, 2, 3}),
		frame.NewString("s", []string{"a", "b", "c"}),
	))
	require.ErrorIs(t, err, frame.ErrNonNumericInput)

	_, err = ComputeVIF(frame.MustNew(
		frame.NewFloat("x", []float64{1, 2, 3}),
		frame.NewFloat("y", []float64{1, math.NaN(), 3}),
	))
	require.ErrorIs(t, err, ErrMissingValues)
}

func TestReportSortedAndMax(t *testing.T) {
	r := VIFReport{{"a", 2}, {"b", 7}, {"c", 7}, {"d", 1}}
	top, ok := r.Max()
	require.True(t, ok)
	require.Equal(t, "b", top.Feature)
	require.Equal(t, []string{"b", "c", "a", "d"}, r.Sorted().Features())
	require.Equal(t, []string{"a", "b", "c", "d"}, r.Features())

	_, ok = VIFReport{}.Max()
	require.False(t, ok)
}

func TestDropHighVIFRemovesNearCombination(t *testing.T) {
	tbl := collinearTable(t, 1e-3)

	var events []Event
	out, err := DropHighVIFFeatures(tbl, DefaultVIFThreshold, WithObserver(ObserverFunc(func(e Event) {
		events = append(events, e)
	})))
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "D"}, out.Names())

	require.Len(t, events, 2)
	require.Equal(t, EventFeatureDropped, events[0].Type)
	require.Equal(t, "C", events[0].Feature)
	require.Equal(t, DefaultVIFThreshold, events[0].Threshold)
	require.Greater(t, events[0].Score, DefaultVIFThreshold)
	require.Equal(t, 3, events[0].Remaining)
	require.Equal(t, EventSelectionDone, events[1].Type)

	a, _ := tbl.Column("A")
	kept, _ := out.Column("A")
	require.Equal(t, a.Floats, kept.Floats)
	require.Equal(t, 4, tbl.NumCols())
}

func TestDropHighVIFExactCombination(t *testing.T) {
	tbl := collinearTable(t, 0)

	report, err := ComputeVIF(tbl)
	require.NoError(t, err)
	for _, s := range report[:3] {
		require.True(t, math.IsInf(s.VIF, 1), s.Feature)
	}

	var dropped []string
	out, err := DropHighVIFFeatures(tbl, DefaultVIFThreshold, WithObserver(ObserverFunc(func(e Event) {
		if e.Type == EventFeatureDropped {
			dropped = append(dropped, e.Feature)
		}
	})))
	require.NoError(t, err)
	require.Equal(t, []string{"C"}, dropped)
	require.Equal(t, []string{"A", "B", "D"}, out.Names())
}

func TestDropHighVIFExactIntegerCombination(t *testing.T) {
	a := []int64{1, 2, 3, 4, 5, 6, 7, 8}
	b := []int64{2, 7, 1, 8, 2, 8, 1, 8}
	c := make([]int64, len(a))
	for i := range a {
		c[i] = a[i] + b[i]
	}
	tbl := frame.MustNew(
		frame.NewInt("A", a),
		frame.NewInt("B", b),
		frame.NewInt("C", c),
		frame.NewInt("D", []int64{3, 1, 4, 1, 5, 9, 2, 6}),
	)
	out, err := DropHighVIFFeatures(tbl, DefaultVIFThreshold, WithObserver(Discard))
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "D"}, out.Names())
}

func TestCollinearLoadings(t *testing.T) {
	X, err := collinearTable(t, 0).Dense()
	require.NoError(t, err)
	load := collinearLoadings(X)
	require.Len(t, load, 4)
	require.Greater(t, load[2], load[0])
	require.Greater(t, load[2], load[1])
	require.InDelta(t, 1.0, load[0]+load[1]+load[2]+load[3], 1e-6)
	require.InDelta(t, 0.0, load[3], 0.05)

	withConst := frame.MustNew(
		frame.NewFloat("k", []float64{2, 2, 2, 2}),
		frame.NewFloat("x", []float64{1, 2, 3, 5}),
		frame.NewFloat("y", []float64{4, 1, 0, 2}),
	)
	X, err = withConst.Dense()
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0, 0}, collinearLoadings(X))
}

func TestDropHighVIFTieBreaksOnColumnOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	a := normal(rng, 50, 1)
	tbl := frame.MustNew(
		frame.NewFloat("a", a),
		frame.NewFloat("a_copy", append([]float64(nil), a...)),
		frame.NewFloat("z", normal(rng, 50, 1)),
	)
	out, err := DropHighVIFFeatures(tbl, DefaultVIFThreshold, WithObserver(Discard))
	require.NoError(t, err)
	require.Equal(t, []string{"a_copy", "z"}, out.Names())
}

func TestDropHighVIFUncorrelatedUnchanged(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	tbl := frame.MustNew(
		frame.NewFloat("a", normal(rng, 400, 1)),
		frame.NewFloat("b", normal(rng, 400, 1)),
		frame.NewFloat("c", normal(rng, 400, 1)),
		frame.NewFloat("d", normal(rng, 400, 1)),
	)
	out, err := DropHighVIFFeatures(tbl, DefaultVIFThreshold, WithObserver(Discard))
	require.NoError(t, err)
	require.Equal(t, tbl.Names(), out.Names())
	for i := 0; i < tbl.NumCols(); i++ {
		require.Equal(t, tbl.ColumnAt(i).Floats, out.ColumnAt(i).Floats)
	}
}

func TestDropHighVIFIdempotent(t *testing.T) {
	tbl := gradedTable(t)
	for _, th := range []float64{2, 5, 10} {
		once, err := DropHighVIFFeatures(tbl, th, WithObserver(Discard))
		require.NoError(t, err)
		twice, err := DropHighVIFFeatures(once, th, WithObserver(Discard))
		require.NoError(t, err)
		require.Equal(t, once.Names(), twice.Names())
	}
}

func TestDropHighVIFMonotoneInThreshold(t *testing.T) {
	tbl := gradedTable(t)
	thresholds := []float64{0.5, 1.5, 2, 3, 5, 10, 50, 1000}
	prev := -1
	for _, th := range thresholds {
		out, err := DropHighVIFFeatures(tbl, th, WithObserver(Discard))
		require.NoError(t, err)
		require.GreaterOrEqual(t, out.NumCols(), prev, "threshold %v", th)
		prev = out.NumCols()
	}
	// every VIF is >= 1, so a threshold below 1 strips down to one column
	out, err := DropHighVIFFeatures(tbl, 0.5, WithObserver(Discard))
	require.NoError(t, err)
	require.Equal(t, 1, out.NumCols())
}

func TestDropHighVIFInvalidThreshold(t *testing.T) {
	tbl := gradedTable(t)
	for _, th := range []float64{0, -3, math.NaN()} {
		_, err := DropHighVIFFeatures(tbl, th)
		require.ErrorIs(t, err, ErrInvalidThreshold)
	}
}

func TestDropHighVIFSmallTables(t *testing.T) {
	one := frame.MustNew(frame.NewFloat("x", []float64{1, 2}))
	out, err := DropHighVIFFeatures(one, 1, WithObserver(Discard))
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, out.Names())

	out, err = DropHighVIFFeatures(frame.MustNew(), 1, WithObserver(Discard))
	require.NoError(t, err)
	require.Zero(t, out.NumCols())
}

func TestDropHighVIFPropagatesErrors(t *testing.T) {
	tbl := frame.MustNew(
		frame.NewFloat("x", []float64{1, 2, 3}),
		frame.NewCategorical("g", []string{"a", "b", "a"}),
	)
	_, err := DropHighVIFFeatures(tbl, 10, WithObserver(Discard))
	require.ErrorIs(t, err, frame.ErrNonNumericInput)
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, err := DropHighVIFFeatures(collinearTable(t, 1e-3), 10, WithLogger(logger))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "dropping feature")
	require.Contains(t, buf.String(), "feature=C")
	require.Contains(t, buf.String(), "selector=vif")
}

func TestDropLowVarianceFeatures(t *testing.T) {
	tbl := frame.MustNew(
		frame.NewFloat("flat", []float64{1, 1, 1, math.NaN()}),
		frame.NewFloat("wide", []float64{1, 10, 20, 30}),
		frame.NewString("name", []string{"a", "a", "a", "a"}),
	)
	out, err := DropLowVarianceFeatures(tbl, 0.01, WithObserver(Discard))
	require.NoError(t, err)
	require.Equal(t, []string{"wide", "name"}, out.Names())

	_, err = DropLowVarianceFeatures(tbl, -1)
	require.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestDropCorrelatedFeatures(t *testing.T) {
	tbl := collinearTable(t, 1e-3)
	a, _ := tbl.Column("A")
	withDup, err := frame.New(append(columns(tbl), frame.NewFloat("A2", scale(a.Floats, 3)))...)
	require.NoError(t, err)

	var dropped []string
	out, err := DropCorrelatedFeatures(withDup, stats.Pearson, 0.95, WithObserver(ObserverFunc(func(e Event) {
		if e.Type == EventFeatureDropped {
			dropped = append(dropped, e.Feature)
		}
	})))
	require.NoError(t, err)
	require.Equal(t, []string{"A2"}, dropped)
	require.Equal(t, []string{"A", "B", "C", "D"}, out.Names())

	_, err = DropCorrelatedFeatures(tbl, stats.Pearson, 1.5)
	require.ErrorIs(t, err, ErrInvalidThreshold)
	_, err = DropCorrelatedFeatures(tbl, stats.Method("cosine"), 0.9)
	require.ErrorIs(t, err, stats.ErrUnsupportedMethod)
}

func columns(t *frame.Table) []*frame.Column {
	out := make([]*frame.Column, t.NumCols())
	for i := range out {
		out[i] = t.ColumnAt(i).Clone()
	}
	return out
}

func scale(x []float64, k float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v * k
	}
	return out
}
