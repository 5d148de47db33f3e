package node

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/docassist/pkg/docassist/state"
)

const classifySystemPrompt = `You classify a user's request for a document assistant.
Respond with JSON only, matching this schema exactly:
{"intent": "qa" | "summarization" | "calculation" | "unknown", "confidence": 0.0-1.0, "reasoning": "short explanation"}

Guidance:
- "qa": the user asks a question answerable from the document corpus
- "summarization": the user wants a document or conversation summarized
- "calculation": the user wants arithmetic performed
- "unknown": none of the above`

const qaSystemPrompt = `You are a document assistant answering questions from a document corpus.
Use the document_search and document_reader tools to gather evidence before answering.
Use the document_statistics tool for questions about the corpus itself (how many documents, of what types).
If the corpus has no evidence, say so; do not invent facts.
When you have your final answer, respond with JSON only:
{"answer": "...", "sources": ["document ids you used"], "confidence": 0.0-1.0}`

const summarizationSystemPrompt = `You are a document assistant producing summaries.
Use the document_search and document_reader tools to fetch the material to summarize.
When done, respond with JSON only:
{"answer": "the summary", "sources": ["document ids you used"], "confidence": 0.0-1.0}`

const extractionSystemPrompt = `Extract the arithmetic the user wants performed.
Resolve references like "that amount" using the conversation context.
Respond with JSON only: {"expression": "a pure arithmetic expression using digits, + - * / ( ) . only"}`

const memorySystemPrompt = `You maintain conversation memory for a document assistant.
Given the conversation so far, respond with JSON only:
{"summary": "a concise summary of the conversation, at most a short paragraph", "document_ids": ["every document id mentioned"]}`

// historyLimit caps how many prior messages are rendered into prompts.
const historyLimit = 20

// renderHistory flattens the turn history into prompt text.
func renderHistory(msgs []state.Message) string {
	if len(msgs) > historyLimit {
		msgs = msgs[len(msgs)-historyLimit:]
	}
	var b strings.Builder
	for _, m := range msgs {
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// classifyPrompt builds the user prompt for intent classification.
func classifyPrompt(s state.State) string {
	return fmt.Sprintf("Conversation so far:\n%s\nUser request: %s", renderHistory(s.Messages), s.UserInput)
}

// extractionPrompt builds the user prompt for expression extraction.
func extractionPrompt(s state.State) string {
	var b strings.Builder
	if s.ConversationSummary != "" {
		fmt.Fprintf(&b, "Conversation summary: %s\n", s.ConversationSummary)
	}
	if s.CurrentResponse != "" {
		fmt.Fprintf(&b, "Previous answer: %s\n", s.CurrentResponse)
	}
	fmt.Fprintf(&b, "User request: %s", s.UserInput)
	return b.String()
}
