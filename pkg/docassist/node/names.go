// Package node implements the five workflow nodes: intent
// classification, the three specialized agents (qa, summarization,
// calculation), and memory update. Each node follows the same
// contract: read the merged state, return only the fields it changes,
// and always record its own name in the audit trail, even when it
// degrades.
package node

import (
	"github.com/randalmurphal/docassist/pkg/docassist/graph"
	"github.com/randalmurphal/docassist/pkg/docassist/state"
)

// Node names. These are the values recorded in actions_taken and used
// for routing via next_step.
const (
	ClassifyIntent     = "classify_intent"
	QAAgent            = "qa_agent"
	SummarizationAgent = "summarization_agent"
	CalculationAgent   = "calculation_agent"
	UpdateMemory       = "update_memory"
)

// routeForIntent is the closed dispatch table from classified intent
// to agent node. Unknown intents take the default arm below.
var routeForIntent = map[state.Intent]string{
	state.IntentQA:            QAAgent,
	state.IntentSummarization: SummarizationAgent,
	state.IntentCalculation:   CalculationAgent,
}

// RouteFor returns the agent node for an intent. The default arm is
// the qa agent: answering is the least destructive thing to do with
// an utterance we could not classify.
func RouteFor(intent state.Intent) string {
	if target, ok := routeForIntent[intent]; ok {
		return target
	}
	return QAAgent
}

// Route is the conditional-edge router attached to classify_intent.
// It is a pure function of next_step; the executor handles fallback
// when the value is missing or unknown.
func Route(_ graph.Context, s state.State) string {
	return s.NextStep
}
