package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/avast/retry-go/v4"

	"vytalcare-rag-be/pkg/rag/answer"
)

const (
	// Two attempts total for the orchestrated path, then fall through.
	orchestratedAttempts = 2
	backoffBase          = 500 * time.Millisecond

	emptyAnswerReply = "I'm sorry, no response was generated."
)

// Outcome is the uniform result contract both fallback levels honor.
// Reply is always non-empty. Diagnostic carries the internal failure
// detail for the response body; it is never a reason for a non-200.
type Outcome struct {
	Reply      string
	Sources    []string
	Diagnostic string
}

// Runner owns the fallback ladder:
//
//  1. graph unavailable (failed to compile at startup) -> direct path
//  2. graph invocation times out or errors, after bounded retries with
//     linear backoff -> direct path
//  3. direct path fails too -> fixed apology with empty sources
type Runner struct {
	graph         *CompiledGraph // nil when compilation failed at startup
	direct        *Direct
	invokeTimeout time.Duration
	logger        *log.Logger
}

func NewRunner(graph *CompiledGraph, direct *Direct, invokeTimeout time.Duration, logger *log.Logger) *Runner {
	return &Runner{
		graph:         graph,
		direct:        direct,
		invokeTimeout: invokeTimeout,
		logger:        logger,
	}
}

func (r *Runner) Run(ctx context.Context, message string) Outcome {
	if r.graph != nil {
		state, err := r.invokeWithRetry(ctx, message)
		if err == nil {
			return outcomeFromState(state)
		}
		r.logger.Printf("[RUNNER] orchestrated path gave up, falling back to direct: %v", err)
	} else {
		r.logger.Printf("[RUNNER] no compiled graph, using direct path")
	}

	state, err := r.direct.Run(ctx, message)
	if err != nil {
		r.logger.Printf("[RUNNER] direct path failed: %v", err)
		return Outcome{
			Reply:      answer.Apology,
			Sources:    []string{},
			Diagnostic: err.Error(),
		}
	}

	return outcomeFromState(state)
}

func (r *Runner) invokeWithRetry(ctx context.Context, message string) (State, error) {
	var state State

	err := retry.Do(
		func() error {
			invokeCtx, cancel := context.WithTimeout(ctx, r.invokeTimeout)
			defer cancel()

			result, err := r.graph.Invoke(invokeCtx, State{Message: message})
			if err != nil {
				return err
			}
			state = result
			return nil
		},
		retry.Attempts(orchestratedAttempts),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			// Linear backoff: 500ms, 1000ms, ...
			return time.Duration(n+1) * backoffBase
		}),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Printf("[RUNNER] orchestrated attempt %d failed: %v", n+1, err)
		}),
	)

	return state, err
}

func outcomeFromState(state State) Outcome {
	reply := state.Answer
	if reply == "" {
		reply = emptyAnswerReply
	}
	sources := state.Sources
	if sources == nil {
		sources = []string{}
	}
	return Outcome{Reply: reply, Sources: sources}
}
