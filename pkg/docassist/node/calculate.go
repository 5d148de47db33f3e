package node

import (
	"fmt"
	"strconv"

	"github.com/randalmurphal/docassist/pkg/docassist/graph"
	"github.com/randalmurphal/docassist/pkg/docassist/llm"
	"github.com/randalmurphal/docassist/pkg/docassist/observability"
	"github.com/randalmurphal/docassist/pkg/docassist/state"
	"github.com/randalmurphal/docassist/pkg/docassist/tools"
)

// Calculation is the calculation_agent node. The model isolates the
// arithmetic expression (resolving references like "that amount" from
// conversation context); the external calculator collaborator does
// the actual evaluation.
type Calculation struct {
	Client llm.Client
	Calc   tools.Calculator
}

// Execute implements the node contract.
//
// A calculator rejection is surfaced to the user verbatim as the
// response text; it never escapes the node boundary as an error.
func (c *Calculation) Execute(ctx graph.Context, s state.State) (state.Update, error) {
	expr := c.extractExpression(ctx, s)
	if expr == "" {
		explanation := "I could not find an arithmetic expression to evaluate in that request."
		return state.Update{
			Messages:        []state.Message{{Role: state.RoleAssistant, Content: explanation}},
			CurrentResponse: state.Ptr(explanation),
			Sources:         []string{},
			Confidence:      state.Ptr(0.0),
			ActionsTaken:    []string{CalculationAgent},
			NextStep:        state.Ptr(UpdateMemory),
		}, nil
	}

	result, err := c.Calc.Evaluate(expr)

	var text string
	confidence := 1.0
	if err != nil {
		text = err.Error()
		confidence = 0.0
	} else {
		text = fmt.Sprintf("%s = %s", expr, formatNumber(result))
	}

	return state.Update{
		Messages:        []state.Message{{Role: state.RoleAssistant, Content: text}},
		CurrentResponse: state.Ptr(text),
		Sources:         []string{},
		Confidence:      state.Ptr(confidence),
		ToolsUsed:       []string{tools.CalculatorName},
		ActionsTaken:    []string{CalculationAgent},
		NextStep:        state.Ptr(UpdateMemory),
	}, nil
}

// extractExpression asks the model to isolate the expression, falling
// back to a direct scan of the utterance when the model cannot.
func (c *Calculation) extractExpression(ctx graph.Context, s state.State) string {
	req := llm.CompletionRequest{
		SystemPrompt: extractionSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: extractionPrompt(s)},
		},
	}

	extracted, err := llm.InvokeStructured[ExpressionExtraction](ctx, c.Client, req)
	if err == nil && extracted.Expression != "" {
		return extracted.Expression
	}
	if err != nil {
		observability.LogNodeDegraded(ctx.Logger(), CalculationAgent, err)
	}

	return tools.FindExpression(s.UserInput)
}

// formatNumber renders a result without exponent notation or
// trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
