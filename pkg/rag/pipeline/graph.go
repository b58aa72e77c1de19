package pipeline

import (
	"context"
	"fmt"
)

// Special node names delimiting the graph.
const (
	Start = "__start__"
	End   = "__end__"
)

// NodeFunc processes a state copy and returns the next one. Returning an
// error aborts the invocation; recoverable stage failures are absorbed
// inside the node instead.
type NodeFunc func(ctx context.Context, state State) (State, error)

// Graph is a small linear state-machine builder. Nodes are registered by
// name and connected with directed edges; Compile validates the wiring
// before anything runs so a misconfigured graph fails at startup, not
// mid-request.
type Graph struct {
	nodes map[string]NodeFunc
	edges map[string]string
}

func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]NodeFunc),
		edges: make(map[string]string),
	}
}

func (g *Graph) AddNode(name string, fn NodeFunc) *Graph {
	g.nodes[name] = fn
	return g
}

func (g *Graph) AddEdge(from, to string) *Graph {
	g.edges[from] = to
	return g
}

// Compile validates that the graph is a single linear path from Start to
// End visiting registered nodes exactly once.
func (g *Graph) Compile() (*CompiledGraph, error) {
	entry, ok := g.edges[Start]
	if !ok {
		return nil, fmt.Errorf("graph has no edge from %s", Start)
	}

	var order []string
	seen := make(map[string]bool)
	current := entry
	for current != End {
		if seen[current] {
			return nil, fmt.Errorf("graph has a cycle through node %q", current)
		}
		if _, ok := g.nodes[current]; !ok {
			return nil, fmt.Errorf("edge references unregistered node %q", current)
		}
		seen[current] = true
		order = append(order, current)

		next, ok := g.edges[current]
		if !ok {
			return nil, fmt.Errorf("node %q has no outgoing edge", current)
		}
		current = next
	}

	if len(order) != len(g.nodes) {
		return nil, fmt.Errorf("graph path visits %d of %d registered nodes", len(order), len(g.nodes))
	}

	steps := make([]step, len(order))
	for i, name := range order {
		steps[i] = step{name: name, fn: g.nodes[name]}
	}
	return &CompiledGraph{steps: steps}, nil
}

type step struct {
	name string
	fn   NodeFunc
}

// CompiledGraph executes the validated node sequence.
type CompiledGraph struct {
	steps []step
}

// Invoke runs the pipeline over a fresh state. The context bounds the
// whole invocation; it is checked between nodes and passed into each one
// so in-flight gateway calls are aborted on expiry.
func (cg *CompiledGraph) Invoke(ctx context.Context, state State) (State, error) {
	for _, s := range cg.steps {
		if err := ctx.Err(); err != nil {
			return state, fmt.Errorf("pipeline aborted before node %q: %w", s.name, err)
		}

		next, err := s.fn(ctx, state)
		if err != nil {
			return state, fmt.Errorf("node %q: %w", s.name, err)
		}
		state = next
	}
	return state, nil
}
