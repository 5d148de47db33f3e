package graph

import (
	"github.com/randalmurphal/docassist/pkg/docassist/observability"
	"github.com/randalmurphal/docassist/pkg/docassist/state"
)

// runConfig holds configuration for graph execution.
type runConfig struct {
	maxIterations  int
	reducers       *state.Registry
	fallbackNode   string
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool
}

// defaultRunConfig returns the default execution configuration.
func defaultRunConfig() runConfig {
	return runConfig{
		maxIterations: 100,
		reducers:      state.NewRegistry(),
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
	}
}

// RunOption configures execution behavior.
type RunOption func(*runConfig)

// WithMaxIterations sets the maximum number of node executions.
// Default: 100. Prevents a miswired graph from looping forever.
func WithMaxIterations(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithReducers sets the reducer registry used to merge node updates.
// Default: state.NewRegistry().
func WithReducers(r *state.Registry) RunOption {
	return func(c *runConfig) {
		if r != nil {
			c.reducers = r
		}
	}
}

// WithFallbackNode sets the node the executor routes to when a
// conditional edge returns an empty or unknown target. The fallback
// is recorded in actions_taken as RouteFallbackEntry. Without a
// fallback, a bad route fails the run with a RouterError.
func WithFallbackNode(id string) RunOption {
	return func(c *runConfig) {
		c.fallbackNode = id
	}
}

// WithMetrics sets the metrics recorder for the run.
func WithMetrics(m observability.MetricsRecorder) RunOption {
	return func(c *runConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables span creation using the given span manager.
func WithTracing(s observability.SpanManager) RunOption {
	return func(c *runConfig) {
		if s != nil {
			c.spans = s
			c.tracingEnabled = true
		}
	}
}
