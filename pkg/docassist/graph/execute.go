package graph

import (
	"context"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/docassist/pkg/docassist/observability"
	"github.com/randalmurphal/docassist/pkg/docassist/state"
)

// Run executes the graph for one turn with the given initial state.
// Returns the final reducer-merged state and any error encountered.
//
// Execution flow:
//  1. Start at the entry point node
//  2. Check for cancellation
//  3. Execute the current node (panic-recovered)
//  4. Merge the node's partial update through the reducer registry
//  5. Determine the next node (simple or conditional edge, with
//     fallback routing on an unroutable conditional result)
//  6. Repeat until END is reached or an error occurs
//
// On error, the returned state is the merged state at the point of
// failure; callers must not persist it (all-or-nothing per turn).
func (cg *CompiledGraph) Run(ctx Context, s state.State, opts ...RunOption) (result state.State, runErr error) {
	if ctx == nil {
		return s, ErrNilContext
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	elapsed := observability.TimedOperation()

	var execCtx context.Context = ctx
	var runSpan trace.Span
	if cfg.tracingEnabled {
		execCtx, runSpan = cfg.spans.StartTurnSpan(ctx, ctx.ThreadID())
		defer func() {
			cfg.spans.EndSpanWithError(runSpan, runErr)
		}()
	}

	result, nodeCount, runErr := cg.run(execCtx, ctx, s, &cfg)

	durationMs := elapsed()

	if runErr != nil {
		lastNode := ""
		switch e := runErr.(type) {
		case *NodeError:
			lastNode = e.NodeID
		case *MaxIterationsError:
			lastNode = e.LastNodeID
		case *CancellationError:
			lastNode = e.NodeID
		case *PanicError:
			lastNode = e.NodeID
		}
		observability.LogTurnError(ctx.Logger(), ctx.ThreadID(), runErr, durationMs, lastNode)
	} else {
		observability.LogTurnComplete(ctx.Logger(), ctx.ThreadID(), durationMs, string(result.Intent), nodeCount)
	}

	return result, runErr
}

// run drives the node loop. tracingCtx carries span context; gctx is
// the workflow Context. Returns the final state, node count, and any
// error.
func (cg *CompiledGraph) run(tracingCtx context.Context, gctx Context, s state.State, cfg *runConfig) (state.State, int, error) {
	current := cg.entryPoint
	iterations := 0
	nodeCount := 0

	for current != END {
		iterations++
		if iterations > cfg.maxIterations {
			return s, nodeCount, &MaxIterationsError{
				Max:        cfg.maxIterations,
				LastNodeID: current,
			}
		}

		// Check for cancellation before executing the node. A
		// cancelled turn produces no checkpoint, so bail out before
		// doing any work.
		select {
		case <-gctx.Done():
			return s, nodeCount, &CancellationError{
				NodeID: current,
				Cause:  gctx.Err(),
			}
		default:
		}

		observability.LogNodeStart(gctx.Logger(), current)

		nodeTracingCtx := tracingCtx
		var nodeSpan trace.Span
		if cfg.tracingEnabled {
			nodeTracingCtx, nodeSpan = cfg.spans.StartNodeSpan(tracingCtx, current)
		}

		nodeStart := time.Now()

		update, nodeErr := cg.executeNode(gctx, current, s)

		nodeDuration := time.Since(nodeStart)
		cfg.metrics.RecordNodeExecution(nodeTracingCtx, current, nodeDuration, nodeErr)

		if cfg.tracingEnabled {
			cfg.spans.EndSpanWithError(nodeSpan, nodeErr)
		}

		if nodeErr != nil {
			observability.LogNodeError(gctx.Logger(), current, nodeErr)
			return s, nodeCount, nodeErr
		}
		observability.LogNodeComplete(gctx.Logger(), current, float64(nodeDuration.Milliseconds()))
		nodeCount++

		// Merge the partial update before routing, so the router and
		// every later node observe reducer-merged state, never raw
		// deltas.
		s = cfg.reducers.Apply(s, update)

		next, fellBack, err := cg.nextNode(gctx, s, current, cfg)
		if err != nil {
			return s, nodeCount, err
		}
		if fellBack {
			s = cfg.reducers.Apply(s, state.Update{ActionsTaken: []string{RouteFallbackEntry}})
			if cfg.tracingEnabled {
				cfg.spans.AddSpanEvent(tracingCtx, "route.fallback", attribute.String("node.id", current))
			}
		}

		current = next
	}

	return s, nodeCount, nil
}

// executeNode executes a single node with panic recovery.
func (cg *CompiledGraph) executeNode(ctx Context, nodeID string, s state.State) (update state.Update, err error) {
	fn, exists := cg.getNode(nodeID)
	if !exists {
		// This shouldn't happen if compilation was successful
		return state.Update{}, &NodeError{
			NodeID: nodeID,
			Op:     "lookup",
			Err:    ErrNodeNotFound,
		}
	}

	nodeCtx := ctx
	if ec, ok := ctx.(*executionContext); ok {
		nodeCtx = ec.withNodeID(nodeID)
	}

	defer func() {
		if r := recover(); r != nil {
			update = state.Update{}
			err = &PanicError{
				NodeID: nodeID,
				Value:  r,
				Stack:  string(debug.Stack()),
			}
		}
	}()

	update, err = fn(nodeCtx, s)
	if err != nil {
		return update, &NodeError{
			NodeID: nodeID,
			Op:     "execute",
			Err:    err,
		}
	}

	return update, nil
}

// nextNode determines the next node to execute. Conditional edges are
// checked first, then simple edges. An unroutable conditional result
// goes to the configured fallback node (reported via the second
// return) rather than failing the run.
func (cg *CompiledGraph) nextNode(ctx Context, s state.State, current string, cfg *runConfig) (string, bool, error) {
	if router, exists := cg.getRouter(current); exists {
		routerCtx := ctx
		if ec, ok := ctx.(*executionContext); ok {
			routerCtx = ec.withNodeID(current)
		}

		next := router(routerCtx, s)

		if next == END || cg.HasNode(next) {
			return next, false, nil
		}

		if cfg.fallbackNode != "" && cg.HasNode(cfg.fallbackNode) {
			observability.LogRouteFallback(ctx.Logger(), current, next, cfg.fallbackNode)
			return cfg.fallbackNode, true, nil
		}

		return "", false, &RouterError{
			FromNode: current,
			Returned: next,
			Err:      ErrInvalidRouterResult,
		}
	}

	edges := cg.getEdges(current)
	if len(edges) == 0 {
		// No outgoing edges - this shouldn't happen if compilation was successful
		return "", false, &NodeError{
			NodeID: current,
			Op:     "routing",
			Err:    ErrNoPathToEnd,
		}
	}

	// Simple edges are unconditional; the first one wins.
	return edges[0], false, nil
}
