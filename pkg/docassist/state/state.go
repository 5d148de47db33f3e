// Package state defines the session state that flows through the
// document assistant workflow, the partial updates nodes produce,
// and the reducers that merge updates into state.
package state

// Intent classifies what the user is asking for.
type Intent string

// The closed set of intents the classifier may produce.
const (
	IntentQA            Intent = "qa"
	IntentSummarization Intent = "summarization"
	IntentCalculation   Intent = "calculation"
	IntentUnknown       Intent = "unknown"
)

// ParseIntent maps a raw classifier string to an Intent.
// Anything outside the closed set maps to IntentUnknown.
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentQA, IntentSummarization, IntentCalculation:
		return Intent(s)
	default:
		return IntentUnknown
	}
}

// Message roles for the turn history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
	RoleSystem    = "system"
)

// Message is one role-tagged entry in the turn history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// State is the full session state for one conversation thread.
// It is mutated only by applying Updates through a reducer Registry;
// nodes never modify a State they receive.
type State struct {
	// Current turn
	UserInput string    `json:"user_input"`
	Messages  []Message `json:"messages"`

	// Intent and routing
	Intent   Intent `json:"intent"`
	NextStep string `json:"next_step"`

	// Memory and context
	ConversationSummary string   `json:"conversation_summary"`
	ActiveDocuments     []string `json:"active_documents"`

	// Current task output
	CurrentResponse string   `json:"current_response"`
	Sources         []string `json:"sources"`
	Confidence      float64  `json:"confidence"`
	ToolsUsed       []string `json:"tools_used"`

	// Audit trail: node names in execution order, never reordered,
	// never deduplicated, never truncated.
	ActionsTaken []string `json:"actions_taken"`

	// Session identity, immutable after first write.
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

// New creates a fresh state for a thread that has never been seen.
// History is empty and the intent starts as unknown.
func New(sessionID, userID string) State {
	return State{
		Intent:    IntentUnknown,
		SessionID: sessionID,
		UserID:    userID,
	}
}

// Clone returns a deep copy of the state. Slices are copied so the
// clone can be mutated without affecting the original.
func (s State) Clone() State {
	out := s
	out.Messages = append([]Message(nil), s.Messages...)
	out.ActiveDocuments = append([]string(nil), s.ActiveDocuments...)
	out.Sources = append([]string(nil), s.Sources...)
	out.ToolsUsed = append([]string(nil), s.ToolsUsed...)
	out.ActionsTaken = append([]string(nil), s.ActionsTaken...)
	return out
}

// Update is the partial state delta a node returns. Nil pointer fields
// and nil slices mean "no change"; the reducer Registry decides how a
// set field merges with existing state.
type Update struct {
	UserInput           *string
	Messages            []Message
	Intent              *Intent
	NextStep            *string
	ConversationSummary *string
	ActiveDocuments     []string
	CurrentResponse     *string
	Sources             []string
	Confidence          *float64
	ToolsUsed           []string
	ActionsTaken        []string
	SessionID           *string
	UserID              *string
}

// Ptr is a small helper for building Updates from literals.
func Ptr[T any](v T) *T { return &v }
