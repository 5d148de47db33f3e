package node

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/randalmurphal/docassist/pkg/docassist/llm"
	"github.com/randalmurphal/docassist/pkg/docassist/tools"
)

// maxToolRounds bounds the tool-call loop for one agent invocation.
const maxToolRounds = 4

// Toolbox exposes the external collaborators to the agent nodes and
// dispatches the model's tool calls to them. Collaborator misses
// (empty search, unknown document, rejected expression) come back as
// explanatory result text, never as errors: the model decides what to
// do with "no evidence found".
type Toolbox struct {
	docs tools.DocumentStore
	calc tools.Calculator
}

// NewToolbox creates a toolbox over a document store.
func NewToolbox(docs tools.DocumentStore) *Toolbox {
	return &Toolbox{docs: docs}
}

// jsonSchema is a tiny helper for inline tool parameter schemas.
func jsonSchema(s string) json.RawMessage { return json.RawMessage(s) }

// documentTools are the tools offered to the qa and summarization agents.
func (tb *Toolbox) documentTools() []llm.Tool {
	return []llm.Tool{
		{
			Name:        tools.DocumentSearchName,
			Description: "Search the document corpus. Returns id, title, and a brief for each match.",
			Parameters:  jsonSchema(`{"type":"object","properties":{"query":{"type":"string"}},"required":["query"]}`),
		},
		{
			Name:        tools.DocumentReadName,
			Description: "Read the full content of a document by id.",
			Parameters:  jsonSchema(`{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`),
		},
		{
			Name:        tools.DocumentStatisticsName,
			Description: "Get corpus statistics: total document count and counts per document type.",
			Parameters:  jsonSchema(`{"type":"object","properties":{}}`),
		},
	}
}

// dispatch executes one tool call and returns (result text, tool name,
// document id touched or ""). Unknown tools and malformed arguments
// produce explanatory result text so the model can recover.
func (tb *Toolbox) dispatch(call llm.ToolCall) (result, toolName, docID string) {
	switch call.Name {
	case tools.DocumentSearchName:
		var args struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return fmt.Sprintf("invalid arguments: %v", err), call.Name, ""
		}
		summaries := tb.docs.Search(args.Query)
		if len(summaries) == 0 {
			return "no documents found", call.Name, ""
		}
		out, err := json.Marshal(summaries)
		if err != nil {
			return fmt.Sprintf("could not encode results: %v", err), call.Name, ""
		}
		return string(out), call.Name, ""

	case tools.DocumentReadName:
		var args struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return fmt.Sprintf("invalid arguments: %v", err), call.Name, ""
		}
		doc, err := tb.docs.Read(args.ID)
		if err != nil {
			return err.Error(), call.Name, ""
		}
		return doc.Content, call.Name, doc.ID

	case tools.DocumentStatisticsName:
		out, err := json.Marshal(tb.docs.Stats())
		if err != nil {
			return fmt.Sprintf("could not encode statistics: %v", err), call.Name, ""
		}
		return string(out), call.Name, ""

	case tools.CalculatorName:
		var args struct {
			Expression string `json:"expression"`
		}
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return fmt.Sprintf("invalid arguments: %v", err), call.Name, ""
		}
		v, err := tb.calc.Evaluate(args.Expression)
		if err != nil {
			return err.Error(), call.Name, ""
		}
		return formatNumber(v), call.Name, ""

	default:
		return fmt.Sprintf("unknown tool: %s", call.Name), call.Name, ""
	}
}

// runToolLoop drives a bounded request/tool-call/re-request loop and
// returns the model's final response, the tool names invoked (with
// repeats), and the document ids read along the way.
func (tb *Toolbox) runToolLoop(ctx context.Context, client llm.Client, req llm.CompletionRequest) (*llm.CompletionResponse, []string, []string, error) {
	var toolsUsed []string
	var readIDs []string

	for round := 0; ; round++ {
		resp, err := client.Complete(ctx, req)
		if err != nil {
			return nil, toolsUsed, readIDs, err
		}
		if len(resp.ToolCalls) == 0 || round >= maxToolRounds {
			return resp, toolsUsed, readIDs, nil
		}

		for _, call := range resp.ToolCalls {
			result, name, docID := tb.dispatch(call)
			toolsUsed = append(toolsUsed, name)
			if docID != "" {
				readIDs = append(readIDs, docID)
			}
			req.Messages = append(req.Messages,
				llm.Message{Role: llm.RoleAssistant, Content: fmt.Sprintf("calling %s(%s)", call.Name, string(call.Arguments))},
				llm.Message{Role: llm.RoleTool, Name: name, Content: result},
			)
		}
	}
}
