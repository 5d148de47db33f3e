package node

import (
	"github.com/randalmurphal/docassist/pkg/docassist/graph"
	"github.com/randalmurphal/docassist/pkg/docassist/llm"
	"github.com/randalmurphal/docassist/pkg/docassist/observability"
	"github.com/randalmurphal/docassist/pkg/docassist/state"
)

// Classifier is the classify_intent node. It asks the model for a
// constrained intent classification and sets next_step for the
// conditional edge.
//
// Given a deterministic model response the node is deterministic;
// tests stub the client at this seam.
type Classifier struct {
	Client llm.Client
}

// Execute implements the node contract.
//
// If the model output violates the intent schema after one local
// repair attempt, the intent is forced to unknown and routing falls
// back to the qa agent. The node never fails the turn and always
// appends itself to actions_taken.
func (c *Classifier) Execute(ctx graph.Context, s state.State) (state.Update, error) {
	req := llm.CompletionRequest{
		SystemPrompt: classifySystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: classifyPrompt(s)},
		},
	}

	cls, err := llm.InvokeStructured[IntentClassification](ctx, c.Client, req)
	if err != nil {
		observability.LogNodeDegraded(ctx.Logger(), ClassifyIntent, err)
		return state.Update{
			Intent:       state.Ptr(state.IntentUnknown),
			NextStep:     state.Ptr(RouteFor(state.IntentUnknown)),
			Confidence:   state.Ptr(0.0),
			ActionsTaken: []string{ClassifyIntent},
		}, nil
	}

	intent := state.ParseIntent(cls.Intent)
	return state.Update{
		Intent:       state.Ptr(intent),
		NextStep:     state.Ptr(RouteFor(intent)),
		Confidence:   state.Ptr(cls.Confidence),
		ActionsTaken: []string{ClassifyIntent},
	}, nil
}
