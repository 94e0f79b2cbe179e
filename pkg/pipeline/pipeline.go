package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/HisDaoMaterials/data-engine/pkg/frame"
)

// Step is one table transformation in a pipeline.
type Step interface {
	Name() string
	Apply(t *frame.Table) (*frame.Table, error)
}

type stepFunc struct {
	name string
	fn   func(*frame.Table) (*frame.Table, error)
}

func (s stepFunc) Name() string { return s.name }

func (s stepFunc) Apply(t *frame.Table) (*frame.Table, error) { return s.fn(t) }

// StepFunc wraps a function as a named Step.
func StepFunc(name string, fn func(*frame.Table) (*frame.Table, error)) Step {
	return stepFunc{name: name, fn: fn}
}

// Pipeline chains steps, feeding each step's output to the next.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// NewPipeline builds a pipeline; logger may be nil for slog.Default().
func NewPipeline(logger *slog.Logger, steps ...Step) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{steps: steps, logger: logger}
}

// Add appends steps and returns the pipeline for chaining.
func (p *Pipeline) Add(steps ...Step) *Pipeline {
	p.steps = append(p.steps, steps...)
	return p
}

// Steps returns the step names in run order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Run applies every step in order and stops at the first failure.
func (p *Pipeline) Run(t *frame.Table) (*frame.Table, error) {
	for _, step := range p.steps {
		start := time.Now()
		out, err := step.Apply(t)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", step.Name(), err)
		}
		p.logger.Debug("pipeline step done",
			"step", step.Name(),
			"cols_in", t.NumCols(),
			"cols_out", out.NumCols(),
			"elapsed", time.Since(start),
		)
		t = out
	}
	return t, nil
}
