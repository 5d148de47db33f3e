package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRegistry_Apply_Overwrite verifies scalar fields take the last value.
func TestRegistry_Apply_Overwrite(t *testing.T) {
	r := NewRegistry()
	s := New("session-1", "user-1")

	s = r.Apply(s, Update{
		UserInput:       Ptr("first"),
		Intent:          Ptr(IntentQA),
		NextStep:        Ptr("qa_agent"),
		CurrentResponse: Ptr("answer one"),
		Confidence:      Ptr(0.5),
	})
	s = r.Apply(s, Update{
		CurrentResponse: Ptr("answer two"),
		Confidence:      Ptr(0.9),
	})

	assert.Equal(t, "first", s.UserInput)
	assert.Equal(t, IntentQA, s.Intent)
	assert.Equal(t, "answer two", s.CurrentResponse)
	assert.Equal(t, 0.9, s.Confidence)
}

// TestRegistry_Apply_AppendPreservesOrder verifies actions_taken and
// messages append in arrival order with repeats kept.
func TestRegistry_Apply_AppendPreservesOrder(t *testing.T) {
	r := NewRegistry()
	s := New("session-1", "user-1")

	s = r.Apply(s, Update{ActionsTaken: []string{"classify_intent"}})
	s = r.Apply(s, Update{ActionsTaken: []string{"qa_agent"}})
	s = r.Apply(s, Update{ActionsTaken: []string{"update_memory"}})
	s = r.Apply(s, Update{ActionsTaken: []string{"classify_intent", "qa_agent"}})

	assert.Equal(t,
		[]string{"classify_intent", "qa_agent", "update_memory", "classify_intent", "qa_agent"},
		s.ActionsTaken)

	s = r.Apply(s, Update{Messages: []Message{{Role: RoleUser, Content: "a"}}})
	s = r.Apply(s, Update{Messages: []Message{{Role: RoleAssistant, Content: "b"}}})
	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "a"},
		{Role: RoleAssistant, Content: "b"},
	}, s.Messages)
}

// TestRegistry_Apply_ActiveDocumentsDeduplicates verifies first-seen
// de-duplication for active_documents.
func TestRegistry_Apply_ActiveDocumentsDeduplicates(t *testing.T) {
	r := NewRegistry()
	s := New("session-1", "user-1")

	s = r.Apply(s, Update{ActiveDocuments: []string{"INV-001", "CON-001"}})
	s = r.Apply(s, Update{ActiveDocuments: []string{"INV-001", "REP-001", ""}})

	assert.Equal(t, []string{"INV-001", "CON-001", "REP-001"}, s.ActiveDocuments)
}

// TestRegistry_Apply_IdentityFirstWriteWins verifies session identity
// is immutable after the first write.
func TestRegistry_Apply_IdentityFirstWriteWins(t *testing.T) {
	r := NewRegistry()
	s := State{}

	s = r.Apply(s, Update{SessionID: Ptr("session-1"), UserID: Ptr("user-1")})
	s = r.Apply(s, Update{SessionID: Ptr("session-2"), UserID: Ptr("user-2")})

	assert.Equal(t, "session-1", s.SessionID)
	assert.Equal(t, "user-1", s.UserID)
}

// TestRegistry_Apply_NilMeansNoChange verifies an empty update leaves
// every field untouched.
func TestRegistry_Apply_NilMeansNoChange(t *testing.T) {
	r := NewRegistry()
	s := New("session-1", "user-1")
	s.UserInput = "keep"
	s.Sources = []string{"INV-001"}
	s.Confidence = 0.7

	out := r.Apply(s, Update{})

	assert.Equal(t, s, out)
}

// TestRegistry_Apply_DoesNotMutateInput verifies Apply works on a copy.
func TestRegistry_Apply_DoesNotMutateInput(t *testing.T) {
	r := NewRegistry()
	s := New("session-1", "user-1")
	s.ActionsTaken = []string{"classify_intent"}

	_ = r.Apply(s, Update{ActionsTaken: []string{"qa_agent"}, UserInput: Ptr("new")})

	assert.Equal(t, []string{"classify_intent"}, s.ActionsTaken)
	assert.Empty(t, s.UserInput)
}

// TestRegistry_Apply_SourcesReplaced verifies sources are replaced per
// turn, not accumulated.
func TestRegistry_Apply_SourcesReplaced(t *testing.T) {
	r := NewRegistry()
	s := New("session-1", "user-1")

	s = r.Apply(s, Update{Sources: []string{"INV-001", "CON-001"}})
	s = r.Apply(s, Update{Sources: []string{"REP-001"}})

	assert.Equal(t, []string{"REP-001"}, s.Sources)
}

// TestRegistry_Fields verifies registration order is stable.
func TestRegistry_Fields(t *testing.T) {
	r := NewRegistry()
	fields := r.Fields()

	assert.Equal(t, "user_input", fields[0])
	assert.Contains(t, fields, "actions_taken")
	assert.Contains(t, fields, "active_documents")

	// Re-registering keeps the original position.
	r.Register("user_input", func(s *State, u Update) {})
	assert.Equal(t, fields, r.Fields())
}
