package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HisDaoMaterials/data-engine/pkg/frame"
)

func TestPipelineRunsStepsInOrder(t *testing.T) {
	tbl := frame.MustNew(
		frame.NewFloat("a", []float64{1, 2}),
		frame.NewFloat("b", []float64{3, 4}),
		frame.NewFloat("c", []float64{5, 6}),
	)
	var seen []string
	record := func(name, drop string) Step {
		return StepFunc(name, func(t *frame.Table) (*frame.Table, error) {
			seen = append(seen, name)
			return t.Drop(drop)
		})
	}

	p := NewPipeline(nil, record("first", "a")).Add(record("second", "c"))
	require.Equal(t, []string{"first", "second"}, p.Steps())

	out, err := p.Run(tbl)
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second"}, seen)
	require.Equal(t, []string{"b"}, out.Names())
	require.Equal(t, 3, tbl.NumCols())
}

func TestPipelineStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	called := false
	p := NewPipeline(nil,
		StepFunc("explode", func(*frame.Table) (*frame.Table, error) { return nil, boom }),
		StepFunc("never", func(t *frame.Table) (*frame.Table, error) {
			called = true
			return t, nil
		}),
	)

	_, err := p.Run(frame.MustNew())
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "step explode")
	require.False(t, called)
}
