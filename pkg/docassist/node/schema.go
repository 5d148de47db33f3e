package node

// Structured-output schemas for the language model. Each is decoded
// and validated by llm.Decode; a violation (missing field, confidence
// outside [0,1], intent outside the closed set) is a
// *llm.ValidationError and triggers the owning node's degradation
// path rather than a partial value leaking into state.

// IntentClassification is the classify_intent output contract.
type IntentClassification struct {
	Intent     string  `json:"intent" validate:"required,oneof=qa summarization calculation unknown"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
	Reasoning  string  `json:"reasoning"`
}

// AgentResponse is the output contract shared by the qa and
// summarization agents.
type AgentResponse struct {
	Answer     string   `json:"answer" validate:"required"`
	Sources    []string `json:"sources"`
	Confidence float64  `json:"confidence" validate:"gte=0,lte=1"`
}

// ExpressionExtraction is the calculation agent's intermediate
// contract: the model isolates a pure arithmetic expression from the
// utterance and the conversation context.
type ExpressionExtraction struct {
	Expression string `json:"expression" validate:"required"`
}

// MemoryUpdate is the update_memory output contract.
type MemoryUpdate struct {
	Summary     string   `json:"summary" validate:"required"`
	DocumentIDs []string `json:"document_ids"`
}
