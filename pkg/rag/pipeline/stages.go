package pipeline

import (
	"context"
	"log"

	"vytalcare-rag-be/internal/apperror"
	"vytalcare-rag-be/pkg/rag/answer"
	"vytalcare-rag-be/pkg/rag/retrieve"
	"vytalcare-rag-be/pkg/rag/triage"
)

// Node names. The compiled flow is analyze -> retrieve -> final.
const (
	NodeAnalyze  = "analyze"
	NodeRetrieve = "retrieve"
	NodeFinal    = "final"
)

// Stages bundles the three pipeline stages plus their shared settings.
// The same stage set backs both the graph and the direct path, so the
// two fallback levels cannot drift apart.
type Stages struct {
	Classifier  *triage.Classifier
	Retriever   *retrieve.Retriever
	Synthesizer *answer.Synthesizer
	TopK        int
	Logger      *log.Logger
}

// Analyze populates the triage fields. Classification failures are
// absorbed by the classifier itself (safe default), so this node never
// errors.
func (s *Stages) Analyze(ctx context.Context, state State) (State, error) {
	result := s.Classifier.Classify(ctx, state.Message)
	state.Category = result.Category
	state.TriageLevel = result.Triage
	state.NeedsDoctor = result.NeedsDoctor
	state.FollowupQuestion = result.FollowupQuestion
	return state, nil
}

// Retrieve populates the context fields. The retriever degrades every
// failure to an empty result, so this node never errors.
func (s *Stages) Retrieve(ctx context.Context, state State) (State, error) {
	result := s.Retriever.Retrieve(ctx, state.Message, s.TopK)
	state.Documents = result.Documents
	state.Context = result.Context
	state.Sources = result.Sources
	return state, nil
}

// Final populates the answer. A missing generation credential is fatal
// to this path and aborts the invocation so the runner can fall through
// the ladder; everything else degrades to the apology in place.
func (s *Stages) Final(ctx context.Context, state State) (State, error) {
	generated, err := s.Synthesizer.Synthesize(ctx, answer.Question{
		Message:          state.Message,
		TriageLevel:      state.TriageLevel,
		FollowupQuestion: state.FollowupQuestion,
		NeedsDoctor:      state.NeedsDoctor,
		Context:          state.Context,
	})
	if err != nil && apperror.IsConfig(err) {
		return state, err
	}
	state.Answer = generated
	return state, nil
}

// BuildGraph wires the stages into the compiled linear workflow.
func BuildGraph(stages *Stages) (*CompiledGraph, error) {
	g := NewGraph()

	g.AddNode(NodeAnalyze, stages.Analyze)
	g.AddNode(NodeRetrieve, stages.Retrieve)
	g.AddNode(NodeFinal, stages.Final)

	g.AddEdge(Start, NodeAnalyze)
	g.AddEdge(NodeAnalyze, NodeRetrieve)
	g.AddEdge(NodeRetrieve, NodeFinal)
	g.AddEdge(NodeFinal, End)

	return g.Compile()
}
