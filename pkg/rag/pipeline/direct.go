package pipeline

import "context"

// Direct runs the same three stages as plain sequential calls, without
// the graph engine. It is the degraded path of the fallback ladder and
// must stay behaviorally identical to the compiled graph.
type Direct struct {
	stages *Stages
}

func NewDirect(stages *Stages) *Direct {
	return &Direct{stages: stages}
}

func (d *Direct) Run(ctx context.Context, message string) (State, error) {
	state := State{Message: message}

	state, err := d.stages.Analyze(ctx, state)
	if err != nil {
		return state, err
	}

	state, err = d.stages.Retrieve(ctx, state)
	if err != nil {
		return state, err
	}

	return d.stages.Final(ctx, state)
}
