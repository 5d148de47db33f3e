package node

import (
	"errors"

	"github.com/randalmurphal/docassist/pkg/docassist/graph"
	"github.com/randalmurphal/docassist/pkg/docassist/llm"
	"github.com/randalmurphal/docassist/pkg/docassist/observability"
	"github.com/randalmurphal/docassist/pkg/docassist/state"
)

// errSummaryTooLong marks a summary exceeding the soft length target.
var errSummaryTooLong = errors.New("summary exceeds length target, retaining previous")

// DefaultMaxSummaryLen is the soft length target for conversation
// summaries, bounding growth in long sessions.
const DefaultMaxSummaryLen = 600

// Memory is the update_memory node. It regenerates the conversation
// summary from the full message history every turn (never patched
// incrementally, to bound drift) and folds newly referenced document
// ids into active_documents.
type Memory struct {
	Client llm.Client

	// MaxSummaryLen caps accepted summaries; zero means
	// DefaultMaxSummaryLen.
	MaxSummaryLen int
}

// Execute implements the node contract.
//
// When the model cannot produce a bounded, well-formed summary, the
// previous summary is retained unchanged rather than left empty. The
// current turn's sources are folded into active_documents either way,
// so document tracking does not depend on the model.
func (m *Memory) Execute(ctx graph.Context, s state.State) (state.Update, error) {
	maxLen := m.MaxSummaryLen
	if maxLen <= 0 {
		maxLen = DefaultMaxSummaryLen
	}

	update := state.Update{
		ActiveDocuments: append([]string(nil), s.Sources...),
		ActionsTaken:    []string{UpdateMemory},
		NextStep:        state.Ptr("end"),
	}

	req := llm.CompletionRequest{
		SystemPrompt: memorySystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: renderHistory(s.Messages)},
		},
	}

	mem, err := llm.InvokeStructured[MemoryUpdate](ctx, m.Client, req)
	if err != nil {
		observability.LogNodeDegraded(ctx.Logger(), UpdateMemory, err)
		return update, nil
	}
	if len(mem.Summary) > maxLen {
		observability.LogNodeDegraded(ctx.Logger(), UpdateMemory, errSummaryTooLong)
		update.ActiveDocuments = append(update.ActiveDocuments, mem.DocumentIDs...)
		return update, nil
	}

	update.ConversationSummary = state.Ptr(mem.Summary)
	update.ActiveDocuments = append(update.ActiveDocuments, mem.DocumentIDs...)
	return update, nil
}
