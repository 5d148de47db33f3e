package node

import (
	"github.com/randalmurphal/docassist/pkg/docassist/graph"
	"github.com/randalmurphal/docassist/pkg/docassist/llm"
	"github.com/randalmurphal/docassist/pkg/docassist/observability"
	"github.com/randalmurphal/docassist/pkg/docassist/state"
)

// runDocumentAgent is the shared body of the qa and summarization
// nodes: offer the document tools, loop until the model stops calling
// them, then decode the structured response. Failures degrade into an
// explanatory response; the node name always lands in actions_taken.
func runDocumentAgent(ctx graph.Context, client llm.Client, tb *Toolbox, name, systemPrompt string, s state.State) (state.Update, error) {
	req := llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		Tools:        tb.documentTools(),
		Messages: append(historyMessages(s),
			llm.Message{Role: llm.RoleUser, Content: s.UserInput}),
	}

	resp, toolsUsed, readIDs, err := tb.runToolLoop(ctx, client, req)
	if err != nil {
		observability.LogNodeDegraded(ctx.Logger(), name, err)
		return degradedAgentUpdate(name, toolsUsed,
			"I was unable to complete this request because the language model call failed."), nil
	}

	decoded, err := llm.Decode[AgentResponse](resp.Content)
	if err != nil {
		observability.LogNodeDegraded(ctx.Logger(), name, err)
		return degradedAgentUpdate(name, toolsUsed,
			"I was unable to produce a well-formed response for this request."), nil
	}

	sources := decoded.Sources
	if len(sources) == 0 {
		sources = readIDs
	}
	// Sources replace per turn; a nil slice would leave the previous
	// turn's sources in place after the reducer merge.
	if sources == nil {
		sources = []string{}
	}

	return state.Update{
		Messages:        []state.Message{{Role: state.RoleAssistant, Content: decoded.Answer}},
		CurrentResponse: state.Ptr(decoded.Answer),
		Sources:         sources,
		Confidence:      state.Ptr(decoded.Confidence),
		ToolsUsed:       toolsUsed,
		ActionsTaken:    []string{name},
		NextStep:        state.Ptr(UpdateMemory),
	}, nil
}

// degradedAgentUpdate is the well-formed update an agent returns when
// it cannot complete its task. The intent stays as classified and the
// node remains visible in the audit trail.
func degradedAgentUpdate(name string, toolsUsed []string, explanation string) state.Update {
	return state.Update{
		Messages:        []state.Message{{Role: state.RoleAssistant, Content: explanation}},
		CurrentResponse: state.Ptr(explanation),
		Sources:         []string{},
		Confidence:      state.Ptr(0.0),
		ToolsUsed:       toolsUsed,
		ActionsTaken:    []string{name},
		NextStep:        state.Ptr(UpdateMemory),
	}
}

// historyMessages converts the persisted turn history into llm
// messages, excluding the current turn's user input (appended by the
// caller).
func historyMessages(s state.State) []llm.Message {
	msgs := s.Messages
	if n := len(msgs); n > 0 && msgs[n-1].Role == state.RoleUser && msgs[n-1].Content == s.UserInput {
		msgs = msgs[:n-1]
	}
	if len(msgs) > historyLimit {
		msgs = msgs[len(msgs)-historyLimit:]
	}
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}
	return out
}

// QA is the qa_agent node: answers questions from the document corpus.
type QA struct {
	Client llm.Client
	Tools  *Toolbox
}

// Execute implements the node contract.
func (q *QA) Execute(ctx graph.Context, s state.State) (state.Update, error) {
	return runDocumentAgent(ctx, q.Client, q.Tools, QAAgent, qaSystemPrompt, s)
}

// Summarizer is the summarization_agent node.
type Summarizer struct {
	Client llm.Client
	Tools  *Toolbox
}

// Execute implements the node contract.
func (sm *Summarizer) Execute(ctx graph.Context, s state.State) (state.Update, error) {
	return runDocumentAgent(ctx, sm.Client, sm.Tools, SummarizationAgent, summarizationSystemPrompt, s)
}
