package selection

import (
	"log/slog"
	"time"
)

// EventType names a step in a feature elimination run.
type EventType string

const (
	EventFeatureDropped EventType = "feature_dropped"
	EventSelectionDone  EventType = "selection_done"
)

// Event is emitted by the elimination routines.
type Event struct {
	Type      EventType
	Selector  string  // routine that produced the event, e.g. "vif"
	Feature   string  // dropped feature (empty for EventSelectionDone)
	Score     float64 // score that triggered the drop
	Threshold float64 // threshold in effect
	Remaining int     // columns left after this step
	Timestamp time.Time
}

// Observer receives elimination events synchronously on the caller's goroutine.
type Observer interface {
	OnEvent(event Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// Discard drops every event.
var Discard Observer = ObserverFunc(func(Event) {})

// LoggingObserver writes events as structured log records.
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver logs through l, or slog.Default() when l is nil.
func NewLoggingObserver(l *slog.Logger) *LoggingObserver {
	if l == nil {
		l = slog.Default()
	}
	return &LoggingObserver{logger: l}
}

func (lo *LoggingObserver) OnEvent(e Event) {
	switch e.Type {
	case EventFeatureDropped:
		lo.logger.Info("dropping feature",
			"selector", e.Selector,
			"feature", e.Feature,
			"score", e.Score,
			"threshold", e.Threshold,
			"remaining", e.Remaining,
		)
	default:
		lo.logger.Debug("selection finished",
			"selector", e.Selector,
			"threshold", e.Threshold,
			"remaining", e.Remaining,
		)
	}
}

type options struct {
	observer Observer
}

// Option configures an elimination run.
type Option func(*options)

// WithObserver routes events to o.
func WithObserver(o Observer) Option {
	return func(opts *options) { opts.observer = o }
}

// WithLogger routes events to a LoggingObserver on l.
func WithLogger(l *slog.Logger) Option {
	return func(opts *options) { opts.observer = NewLoggingObserver(l) }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.observer == nil {
		o.observer = NewLoggingObserver(nil)
	}
	return o
}

func (o options) emit(e Event) {
	e.Timestamp = time.Now()
	o.observer.OnEvent(e)
}
