package pipeline

import "vytalcare-rag-be/internal/entity"

// State is the record threaded through the pipeline. It is passed by
// value: each node receives a copy and returns a copy with only its own
// fields populated. Message is set once at entry and never overwritten.
//
// Field ownership:
//
//	analyze  -> Category, TriageLevel, NeedsDoctor, FollowupQuestion
//	retrieve -> Documents, Context, Sources
//	final    -> Answer
type State struct {
	Message string

	Category         string
	TriageLevel      string
	NeedsDoctor      bool
	FollowupQuestion string

	Documents []*entity.RetrievedDocument
	Context   string
	Sources   []string

	Answer string
}
