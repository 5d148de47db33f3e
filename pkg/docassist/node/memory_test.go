package node

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/docassist/pkg/docassist/llm"
	"github.com/randalmurphal/docassist/pkg/docassist/state"
)

// TestMemory_Execute verifies the summary is regenerated and document
// ids are folded into active_documents.
func TestMemory_Execute(t *testing.T) {
	client := llm.NewScriptedClient().
		EnqueueContent(`{"summary":"the user asked about invoice INV-001 and its total","document_ids":["INV-001"]}`)
	mem := &Memory{Client: client}

	s := state.New("s1", "u1")
	s.Sources = []string{"INV-001", "CON-001"}
	s.Messages = []state.Message{
		{Role: state.RoleUser, Content: "what is the total on INV-001?"},
		{Role: state.RoleAssistant, Content: "The total is $22,000."},
	}

	update, err := mem.Execute(testCtx(), s)

	require.NoError(t, err)
	require.NotNil(t, update.ConversationSummary)
	assert.Contains(t, *update.ConversationSummary, "INV-001")
	assert.Equal(t, []string{"INV-001", "CON-001", "INV-001"}, update.ActiveDocuments)
	assert.Equal(t, []string{UpdateMemory}, update.ActionsTaken)
	require.NotNil(t, update.NextStep)
	assert.Equal(t, "end", *update.NextStep)
}

// TestMemory_Execute_RetainsPreviousSummaryOnFailure verifies a failed
// summary generation leaves the previous summary untouched.
func TestMemory_Execute_RetainsPreviousSummaryOnFailure(t *testing.T) {
	client := llm.NewScriptedClient().
		EnqueueContent("not json at all")
	mem := &Memory{Client: client}

	s := state.New("s1", "u1")
	s.ConversationSummary = "the previous summary"
	s.Sources = []string{"INV-001"}

	update, err := mem.Execute(testCtx(), s)

	require.NoError(t, err)
	assert.Nil(t, update.ConversationSummary)
	assert.Equal(t, []string{"INV-001"}, update.ActiveDocuments)
	assert.Equal(t, []string{UpdateMemory}, update.ActionsTaken)
}

// TestMemory_Execute_RejectsOverlongSummary verifies summaries over the
// length target are dropped while document ids still merge.
func TestMemory_Execute_RejectsOverlongSummary(t *testing.T) {
	long := strings.Repeat("x", DefaultMaxSummaryLen+1)
	client := llm.NewScriptedClient().
		EnqueueContent(`{"summary":"` + long + `","document_ids":["REP-001"]}`)
	mem := &Memory{Client: client}

	s := state.New("s1", "u1")
	s.ConversationSummary = "the previous summary"

	update, err := mem.Execute(testCtx(), s)

	require.NoError(t, err)
	assert.Nil(t, update.ConversationSummary)
	assert.Contains(t, update.ActiveDocuments, "REP-001")
}

// TestMemory_Execute_CustomLengthTarget verifies MaxSummaryLen is honored.
func TestMemory_Execute_CustomLengthTarget(t *testing.T) {
	client := llm.NewScriptedClient().
		EnqueueContent(`{"summary":"short but over a tiny cap","document_ids":[]}`)
	mem := &Memory{Client: client, MaxSummaryLen: 5}

	update, err := mem.Execute(testCtx(), state.New("s1", "u1"))

	require.NoError(t, err)
	assert.Nil(t, update.ConversationSummary)
}

// TestMemory_Execute_SendsHistory verifies the full history is offered
// for regeneration, not just the last turn.
func TestMemory_Execute_SendsHistory(t *testing.T) {
	client := llm.NewScriptedClient().
		EnqueueContent(`{"summary":"two questions so far","document_ids":[]}`)
	mem := &Memory{Client: client}

	s := state.New("s1", "u1")
	s.Messages = []state.Message{
		{Role: state.RoleUser, Content: "first question"},
		{Role: state.RoleAssistant, Content: "first answer"},
		{Role: state.RoleUser, Content: "second question"},
	}

	_, err := mem.Execute(testCtx(), s)
	require.NoError(t, err)

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	prompt := reqs[0].Messages[0].Content
	assert.Contains(t, prompt, "first question")
	assert.Contains(t, prompt, "first answer")
	assert.Contains(t, prompt, "second question")
}
