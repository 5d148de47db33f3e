package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/docassist/pkg/docassist/state"
)

// mark returns a node function that records its name in actions_taken.
func mark(name string) NodeFunc {
	return func(_ Context, _ state.State) (state.Update, error) {
		return state.Update{ActionsTaken: []string{name}}, nil
	}
}

// TestNew verifies basic graph creation.
func TestNew(t *testing.T) {
	g := New()
	assert.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.NotNil(t, g.edges)
	assert.NotNil(t, g.conditionalEdges)
	assert.Empty(t, g.entryPoint)
}

// TestGraph_AddNode tests successful node addition.
func TestGraph_AddNode(t *testing.T) {
	g := New().
		AddNode("a", mark("a")).
		AddNode("b", mark("b"))

	assert.Len(t, g.nodes, 2)
	assert.Contains(t, g.nodes, "a")
	assert.Contains(t, g.nodes, "b")
}

// TestGraph_AddNode_Chaining tests fluent API chaining.
func TestGraph_AddNode_Chaining(t *testing.T) {
	g := New()
	result := g.AddNode("a", mark("a"))
	assert.Same(t, g, result)
}

// TestGraph_AddNode_EmptyID_Panics tests that empty node ID panics.
func TestGraph_AddNode_EmptyID_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "graph: node ID cannot be empty", func() {
		New().AddNode("", mark("a"))
	})
}

// TestGraph_AddNode_ReservedID_Panics tests that reserved IDs panic.
func TestGraph_AddNode_ReservedID_Panics(t *testing.T) {
	testCases := []struct {
		name string
		id   string
	}{
		{"END uppercase", "END"},
		{"end lowercase", "end"},
		{"End mixed case", "End"},
		{"__end__ literal", "__end__"},
		{"__END__ uppercase", "__END__"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.PanicsWithValue(t, "graph: node ID cannot be reserved word 'END'", func() {
				New().AddNode(tc.id, mark("a"))
			})
		})
	}
}

// TestGraph_AddNode_WhitespaceID_Panics tests that IDs with whitespace panic.
func TestGraph_AddNode_WhitespaceID_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "graph: node ID cannot contain whitespace", func() {
		New().AddNode("node a", mark("a"))
	})
}

// TestGraph_AddNode_NilFunc_Panics tests that a nil node function panics.
func TestGraph_AddNode_NilFunc_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "graph: node function cannot be nil", func() {
		New().AddNode("a", nil)
	})
}

// TestGraph_AddNode_Duplicate_Panics tests that duplicate IDs panic.
func TestGraph_AddNode_Duplicate_Panics(t *testing.T) {
	assert.Panics(t, func() {
		New().AddNode("a", mark("a")).AddNode("a", mark("a"))
	})
}

// TestGraph_AddEdge tests edge addition.
func TestGraph_AddEdge(t *testing.T) {
	g := New().
		AddNode("a", mark("a")).
		AddNode("b", mark("b")).
		AddEdge("a", "b").
		AddEdge("b", END)

	assert.Equal(t, []string{"b"}, g.edges["a"])
	assert.Equal(t, []string{END}, g.edges["b"])
}

// TestGraph_AddEdge_EmptyEndpoint_Panics tests that empty endpoints panic.
func TestGraph_AddEdge_EmptyEndpoint_Panics(t *testing.T) {
	assert.Panics(t, func() { New().AddEdge("", "b") })
	assert.Panics(t, func() { New().AddEdge("a", "") })
}

// TestGraph_AddConditionalEdge tests router attachment.
func TestGraph_AddConditionalEdge(t *testing.T) {
	router := func(_ Context, s state.State) string { return s.NextStep }
	g := New().
		AddNode("a", mark("a")).
		AddConditionalEdge("a", router)

	assert.Contains(t, g.conditionalEdges, "a")
}

// TestGraph_AddConditionalEdge_NilRouter_Panics tests that a nil router panics.
func TestGraph_AddConditionalEdge_NilRouter_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "graph: router function cannot be nil", func() {
		New().AddConditionalEdge("a", nil)
	})
}

// TestGraph_SetEntry tests entry point setting.
func TestGraph_SetEntry(t *testing.T) {
	g := New().AddNode("a", mark("a")).SetEntry("a")
	assert.Equal(t, "a", g.entryPoint)
}
