package graph

import "github.com/randalmurphal/docassist/pkg/docassist/state"

// END is the terminal node identifier.
// Use this as an edge target to indicate the graph should terminate.
const END = "__end__"

// RouteFallbackEntry is appended to actions_taken when the executor
// falls back to the configured default node because the conditional
// edge produced an unroutable target. It makes the fallback visible
// in the audit trail instead of failing the turn.
const RouteFallbackEntry = "route_fallback"

// NodeFunc is the signature for all node functions.
//
// A node receives the reducer-merged state and returns only the fields
// it changes as a partial Update. Nodes must not mutate the state they
// receive; the executor applies the update through the reducer
// registry before the next node runs.
//
// A node that cannot complete its task should return a degraded but
// well-formed Update (explanatory current_response, its own name in
// actions_taken) rather than an error; errors are reserved for
// failures that should abort the turn.
type NodeFunc func(ctx Context, s state.State) (state.Update, error)

// RouterFunc determines the next node based on state.
// It is used for conditional edges where the next node depends on
// runtime state. The router should return a valid node ID or END;
// anything else triggers the configured fallback node, or a
// RouterError when no fallback is set.
type RouterFunc func(ctx Context, s state.State) string
