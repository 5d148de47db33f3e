package graph

import (
	"fmt"
	"strings"
	"sync"
)

// Graph is a mutable builder for the workflow graph.
// Use New to create a graph, then chain AddNode, AddEdge,
// AddConditionalEdge, and SetEntry calls before Compile.
//
// Graph is NOT thread-safe during building. Construct it from a single
// goroutine, then Compile() into an immutable CompiledGraph that can
// be shared.
type Graph struct {
	mu               sync.RWMutex
	nodes            map[string]NodeFunc
	edges            map[string][]string
	conditionalEdges map[string]RouterFunc
	entryPoint       string
}

// New creates a new graph builder.
func New() *Graph {
	return &Graph{
		nodes:            make(map[string]NodeFunc),
		edges:            make(map[string][]string),
		conditionalEdges: make(map[string]RouterFunc),
	}
}

// AddNode adds a named node to the graph.
// Returns the graph for method chaining.
//
// Panics if:
//   - id is empty
//   - id is the reserved word "END" or "__end__" (case-insensitive)
//   - id contains whitespace
//   - fn is nil
//   - id already exists in the graph
func (g *Graph) AddNode(id string, fn NodeFunc) *Graph {
	if id == "" {
		panic("graph: node ID cannot be empty")
	}

	idLower := strings.ToLower(id)
	if idLower == "end" || idLower == "__end__" {
		panic("graph: node ID cannot be reserved word 'END'")
	}

	if strings.ContainsAny(id, " \t\n\r") {
		panic("graph: node ID cannot contain whitespace")
	}

	if fn == nil {
		panic("graph: node function cannot be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[id]; exists {
		panic(fmt.Sprintf("graph: duplicate node ID: %s", id))
	}

	g.nodes[id] = fn
	return g
}

// AddEdge adds a simple edge from one node to another (or to END).
// Returns the graph for method chaining.
func (g *Graph) AddEdge(from, to string) *Graph {
	if from == "" || to == "" {
		panic("graph: edge endpoints cannot be empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.edges[from] = append(g.edges[from], to)
	return g
}

// AddConditionalEdge attaches a router to a node. After the node runs,
// the router picks the next node from the merged state.
// Returns the graph for method chaining.
func (g *Graph) AddConditionalEdge(from string, router RouterFunc) *Graph {
	if from == "" {
		panic("graph: conditional edge source cannot be empty")
	}
	if router == nil {
		panic("graph: router function cannot be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.conditionalEdges[from] = router
	return g
}

// SetEntry sets the entry point node.
// Returns the graph for method chaining.
func (g *Graph) SetEntry(id string) *Graph {
	if id == "" {
		panic("graph: entry point cannot be empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.entryPoint = id
	return g
}
