package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func appendAnswer(suffix string) NodeFunc {
	return func(ctx context.Context, state State) (State, error) {
		state.Answer += suffix
		return state, nil
	}
}

func TestCompileAndInvokeRunsNodesInOrder(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", appendAnswer("a"))
	g.AddNode("b", appendAnswer("b"))
	g.AddNode("c", appendAnswer("c"))
	g.AddEdge(Start, "a")
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", End)

	compiled, err := g.Compile()
	assert.NoError(t, err)

	state, err := compiled.Invoke(context.Background(), State{Message: "hi"})
	assert.NoError(t, err)
	assert.Equal(t, "abc", state.Answer)
	assert.Equal(t, "hi", state.Message)
}

func TestCompileRejectsMissingStartEdge(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", appendAnswer("a"))
	g.AddEdge("a", End)

	_, err := g.Compile()
	assert.Error(t, err)
}

func TestCompileRejectsDanglingNode(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", appendAnswer("a"))
	g.AddEdge(Start, "a")

	_, err := g.Compile()
	assert.ErrorContains(t, err, "no outgoing edge")
}

func TestCompileRejectsUnregisteredNode(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", appendAnswer("a"))
	g.AddEdge(Start, "a")
	g.AddEdge("a", "ghost")
	g.AddEdge("ghost", End)

	_, err := g.Compile()
	assert.ErrorContains(t, err, "unregistered node")
}

func TestCompileRejectsCycle(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", appendAnswer("a"))
	g.AddNode("b", appendAnswer("b"))
	g.AddEdge(Start, "a")
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	_, err := g.Compile()
	assert.ErrorContains(t, err, "cycle")
}

func TestCompileRejectsUnvisitedNodes(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", appendAnswer("a"))
	g.AddNode("orphan", appendAnswer("o"))
	g.AddEdge(Start, "a")
	g.AddEdge("a", End)

	_, err := g.Compile()
	assert.ErrorContains(t, err, "visits 1 of 2")
}

func TestInvokeWrapsNodeErrorsWithNodeName(t *testing.T) {
	cause := errors.New("boom")
	g := NewGraph()
	g.AddNode("exploding", func(ctx context.Context, state State) (State, error) {
		return state, cause
	})
	g.AddEdge(Start, "exploding")
	g.AddEdge("exploding", End)

	compiled, err := g.Compile()
	assert.NoError(t, err)

	_, err = compiled.Invoke(context.Background(), State{})
	assert.ErrorIs(t, err, cause)
	assert.ErrorContains(t, err, "exploding")
}

func TestInvokeStopsOnCancelledContext(t *testing.T) {
	ran := false
	g := NewGraph()
	g.AddNode("a", func(ctx context.Context, state State) (State, error) {
		ran = true
		return state, nil
	})
	g.AddEdge(Start, "a")
	g.AddEdge("a", End)

	compiled, err := g.Compile()
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = compiled.Invoke(ctx, State{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}
