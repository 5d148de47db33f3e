package state

// Reducer merges one field of an Update into a state copy.
// Reducers must be pure: no I/O, no mutation of the Update, and
// deterministic output for the same inputs, so a turn can be
// replayed in tests.
type Reducer func(s *State, u Update)

// Registry holds the per-field reducers and applies them in a fixed
// registration order so merging is deterministic.
type Registry struct {
	order    []string
	reducers map[string]Reducer
}

// NewRegistry creates a registry with the default merge policy for
// every session state field:
//
//   - overwrite: user_input, intent, next_step, conversation_summary,
//     current_response, sources, confidence
//   - append: messages, tools_used, actions_taken
//   - append de-duplicated, first-seen order: active_documents
//   - first write wins: session_id, user_id
func NewRegistry() *Registry {
	r := &Registry{reducers: make(map[string]Reducer)}

	r.Register("user_input", func(s *State, u Update) {
		if u.UserInput != nil {
			s.UserInput = *u.UserInput
		}
	})
	r.Register("messages", func(s *State, u Update) {
		s.Messages = append(s.Messages, u.Messages...)
	})
	r.Register("intent", func(s *State, u Update) {
		if u.Intent != nil {
			s.Intent = *u.Intent
		}
	})
	r.Register("next_step", func(s *State, u Update) {
		if u.NextStep != nil {
			s.NextStep = *u.NextStep
		}
	})
	r.Register("conversation_summary", func(s *State, u Update) {
		if u.ConversationSummary != nil {
			s.ConversationSummary = *u.ConversationSummary
		}
	})
	r.Register("active_documents", func(s *State, u Update) {
		s.ActiveDocuments = appendUnique(s.ActiveDocuments, u.ActiveDocuments)
	})
	r.Register("current_response", func(s *State, u Update) {
		if u.CurrentResponse != nil {
			s.CurrentResponse = *u.CurrentResponse
		}
	})
	r.Register("sources", func(s *State, u Update) {
		if u.Sources != nil {
			s.Sources = append([]string(nil), u.Sources...)
		}
	})
	r.Register("confidence", func(s *State, u Update) {
		if u.Confidence != nil {
			s.Confidence = *u.Confidence
		}
	})
	r.Register("tools_used", func(s *State, u Update) {
		s.ToolsUsed = append(s.ToolsUsed, u.ToolsUsed...)
	})
	r.Register("actions_taken", func(s *State, u Update) {
		s.ActionsTaken = append(s.ActionsTaken, u.ActionsTaken...)
	})
	r.Register("session_id", func(s *State, u Update) {
		if u.SessionID != nil && s.SessionID == "" {
			s.SessionID = *u.SessionID
		}
	})
	r.Register("user_id", func(s *State, u Update) {
		if u.UserID != nil && s.UserID == "" {
			s.UserID = *u.UserID
		}
	})

	return r
}

// Register adds or replaces the reducer for a field. Registration
// order is preserved for Apply; re-registering keeps the original
// position.
func (r *Registry) Register(field string, fn Reducer) {
	if _, exists := r.reducers[field]; !exists {
		r.order = append(r.order, field)
	}
	r.reducers[field] = fn
}

// Fields returns the field names in application order.
func (r *Registry) Fields() []string {
	return append([]string(nil), r.order...)
}

// Apply merges an Update into a copy of the state and returns the
// merged result. The input state is never modified.
func (r *Registry) Apply(s State, u Update) State {
	out := s.Clone()
	for _, field := range r.order {
		r.reducers[field](&out, u)
	}
	return out
}

// appendUnique appends src entries not already present in dst,
// preserving first-seen order.
func appendUnique(dst, src []string) []string {
	if len(src) == 0 {
		return dst
	}
	seen := make(map[string]bool, len(dst)+len(src))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range src {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		dst = append(dst, v)
	}
	return dst
}
