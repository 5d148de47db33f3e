package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/docassist/pkg/docassist/llm"
	"github.com/randalmurphal/docassist/pkg/docassist/state"
	"github.com/randalmurphal/docassist/pkg/docassist/tools"
)

// TestCalculation_Execute verifies extraction plus local evaluation.
func TestCalculation_Execute(t *testing.T) {
	client := llm.NewScriptedClient().
		EnqueueContent(`{"expression":"(10+5)*2"}`)
	calc := &Calculation{Client: client}

	s := state.New("s1", "u1")
	s.UserInput = "what is (10+5)*2?"

	update, err := calc.Execute(testCtx(), s)

	require.NoError(t, err)
	require.NotNil(t, update.CurrentResponse)
	assert.Equal(t, "(10+5)*2 = 30", *update.CurrentResponse)
	require.NotNil(t, update.Confidence)
	assert.Equal(t, 1.0, *update.Confidence)
	assert.Equal(t, []string{tools.CalculatorName}, update.ToolsUsed)
	assert.Equal(t, []string{CalculationAgent}, update.ActionsTaken)
	require.NotNil(t, update.NextStep)
	assert.Equal(t, UpdateMemory, *update.NextStep)
}

// TestCalculation_Execute_RejectionSurfacedVerbatim verifies a
// calculator rejection becomes the response text, not an error.
func TestCalculation_Execute_RejectionSurfacedVerbatim(t *testing.T) {
	client := llm.NewScriptedClient().
		EnqueueContent(`{"expression":"1/0"}`)
	calc := &Calculation{Client: client}

	s := state.New("s1", "u1")
	s.UserInput = "divide one by zero"

	update, err := calc.Execute(testCtx(), s)

	require.NoError(t, err)
	require.NotNil(t, update.CurrentResponse)
	assert.Equal(t, `cannot evaluate "1/0": division by zero`, *update.CurrentResponse)
	require.NotNil(t, update.Confidence)
	assert.Zero(t, *update.Confidence)
	assert.Equal(t, []string{CalculationAgent}, update.ActionsTaken)
}

// TestCalculation_Execute_ExtractionFallback verifies a direct scan of
// the utterance when the model cannot isolate the expression.
func TestCalculation_Execute_ExtractionFallback(t *testing.T) {
	client := llm.NewScriptedClient().
		EnqueueContent("I can't find any math here") // fails the schema
	calc := &Calculation{Client: client}

	s := state.New("s1", "u1")
	s.UserInput = "please compute 2+2 for me"

	update, err := calc.Execute(testCtx(), s)

	require.NoError(t, err)
	require.NotNil(t, update.CurrentResponse)
	assert.Equal(t, "2+2 = 4", *update.CurrentResponse)
}

// TestCalculation_Execute_NoExpression verifies a graceful response
// when no expression can be found at all.
func TestCalculation_Execute_NoExpression(t *testing.T) {
	client := llm.NewScriptedClient().
		EnqueueContent("no expression present")
	calc := &Calculation{Client: client}

	s := state.New("s1", "u1")
	s.UserInput = "tell me about the weather"

	update, err := calc.Execute(testCtx(), s)

	require.NoError(t, err)
	require.NotNil(t, update.CurrentResponse)
	assert.Contains(t, *update.CurrentResponse, "could not find an arithmetic expression")
	require.NotNil(t, update.Confidence)
	assert.Zero(t, *update.Confidence)
	assert.Empty(t, update.ToolsUsed)
	assert.Equal(t, []string{CalculationAgent}, update.ActionsTaken)
}

// TestCalculation_Execute_UsesConversationContext verifies the
// extraction prompt carries the summary and previous answer for
// reference resolution.
func TestCalculation_Execute_UsesConversationContext(t *testing.T) {
	client := llm.NewScriptedClient().
		EnqueueContent(`{"expression":"22000 * 0.15"}`)
	calc := &Calculation{Client: client}

	s := state.New("s1", "u1")
	s.UserInput = "what is 15% of that amount?"
	s.ConversationSummary = "the user asked about invoice INV-001"
	s.CurrentResponse = "The total is $22,000."

	update, err := calc.Execute(testCtx(), s)
	require.NoError(t, err)
	require.NotNil(t, update.CurrentResponse)
	assert.Equal(t, "22000 * 0.15 = 3300", *update.CurrentResponse)

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	prompt := reqs[0].Messages[0].Content
	assert.Contains(t, prompt, "invoice INV-001")
	assert.Contains(t, prompt, "$22,000")
	assert.Contains(t, prompt, "15% of that amount")
}

// TestFormatNumber verifies plain decimal rendering.
func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "4", formatNumber(4))
	assert.Equal(t, "3300", formatNumber(3300))
	assert.Equal(t, "2.5", formatNumber(2.5))
	assert.Equal(t, "-0.125", formatNumber(-0.125))
}
