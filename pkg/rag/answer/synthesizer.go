package answer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"vytalcare-rag-be/pkg/llm"
)

// Apology is the fixed reply for a failed synthesis. This stage is the
// last line before the user and must never propagate an error upward
// except a missing-credential ConfigError, which the orchestrator turns
// into the fallback ladder.
const Apology = "I'm sorry, I couldn't process that request right now. Please try again in a moment."

// Question carries everything the final prompt needs from earlier stages.
type Question struct {
	Message          string
	TriageLevel      string
	FollowupQuestion string
	NeedsDoctor      bool
	Context          string
}

// Synthesizer composes the grounded answer prompt and calls the model.
type Synthesizer struct {
	llmProvider llm.Provider
	disclaimer  string
	logger      *log.Logger
}

func NewSynthesizer(llmProvider llm.Provider, disclaimer string, logger *log.Logger) *Synthesizer {
	return &Synthesizer{
		llmProvider: llmProvider,
		disclaimer:  disclaimer,
		logger:      logger,
	}
}

// Synthesize returns the generated answer, or Apology when generation
// failed. The error carries the cause for diagnostics; callers must use
// the returned string either way.
func (s *Synthesizer) Synthesize(ctx context.Context, q Question) (string, error) {
	prompt := s.BuildPrompt(q)

	generated, err := s.llmProvider.Generate(ctx, prompt)
	if err != nil {
		s.logger.Printf("[SYNTHESIZE] generation failed: %v", err)
		return Apology, err
	}
	if generated == "" {
		s.logger.Printf("[SYNTHESIZE] upstream returned empty content")
		return "I'm sorry, no response was generated.", nil
	}

	return generated, nil
}

// SynthesizeStream streams the answer token by token.
func (s *Synthesizer) SynthesizeStream(ctx context.Context, q Question, onToken func(token string) error) error {
	return s.llmProvider.GenerateStream(ctx, s.BuildPrompt(q), onToken)
}

func (s *Synthesizer) BuildPrompt(q Question) string {
	var sb strings.Builder

	sb.WriteString("You are VytalCare Medical Assistant.\n\n")
	sb.WriteString(fmt.Sprintf("USER QUESTION:\n%s\n\n", q.Message))
	sb.WriteString(fmt.Sprintf("TRIAGE LEVEL:\n%s\n\n", q.TriageLevel))
	sb.WriteString(fmt.Sprintf("FOLLOW-UP QUESTION:\n%s\n\n", q.FollowupQuestion))
	sb.WriteString(fmt.Sprintf("NEEDS DOCTOR:\n%v\n\n", q.NeedsDoctor))
	sb.WriteString(fmt.Sprintf("RETRIEVED MEDICAL CONTEXT:\n%s\n\n", q.Context))

	sb.WriteString("Write a clear, safe medical answer that:\n")
	sb.WriteString("- Uses the context\n")
	sb.WriteString("- Provides correct info\n")
	sb.WriteString("- Does NOT diagnose\n")
	sb.WriteString("- Does NOT prescribe medication\n")
	sb.WriteString(fmt.Sprintf("- Adds this disclaimer at the end:\n%q\n\n", s.disclaimer))
	sb.WriteString("FORMAT:\nANSWER:\n(text here)\n")

	return sb.String()
}
