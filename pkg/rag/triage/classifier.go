package triage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"vytalcare-rag-be/pkg/llm"
)

// Category constants
const (
	CategorySymptoms        = "symptoms"
	CategoryTestReport      = "test_report"
	CategoryGeneralQuestion = "general_question"
)

// Triage level constants
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// Result is the structured pre-screening output for one message.
type Result struct {
	Category         string `json:"category"`
	Triage           string `json:"triage"`
	NeedsDoctor      bool   `json:"needs_doctor"`
	FollowupQuestion string `json:"followup_question"`
}

// DefaultResult is the fixed safe fallback. Classification failure must
// never abort the pipeline.
func DefaultResult() Result {
	return Result{
		Category:         CategoryGeneralQuestion,
		Triage:           LevelLow,
		NeedsDoctor:      false,
		FollowupQuestion: "",
	}
}

// Classifier turns a raw user message into a Result via one model call
// with a strict parse-or-default policy. No retries at this layer.
type Classifier struct {
	llmProvider llm.Provider
	logger      *log.Logger
}

func NewClassifier(llmProvider llm.Provider, logger *log.Logger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (c *Classifier) Classify(ctx context.Context, message string) Result {
	prompt := buildPrompt(message)

	// Temperature 0 for deterministic structured output
	output, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Printf("[TRIAGE] classification call failed, using default: %v", err)
		return DefaultResult()
	}

	result, err := parseResult(output)
	if err != nil {
		c.logger.Printf("[TRIAGE] parse failed, using default: %v", err)
		return DefaultResult()
	}

	c.logger.Printf("[TRIAGE] category=%s triage=%s needs_doctor=%v", result.Category, result.Triage, result.NeedsDoctor)
	return result
}

func buildPrompt(message string) string {
	return fmt.Sprintf(`You are a medical pre-screening AI. Analyze the user's message and output structured JSON.

USER MESSAGE:
%s

Respond ONLY in valid JSON:
{
  "category": "symptoms | test_report | general_question",
  "triage": "low | medium | high",
  "needs_doctor": true/false,
  "followup_question": "string"
}
`, message)
}

// parseResult is strict: valid JSON with known enum values or an error.
// Models wrap JSON in markdown fences often enough that we strip those
// first.
func parseResult(output string) (Result, error) {
	cleaned := bytes.TrimSpace([]byte(output))
	cleaned = bytes.TrimPrefix(cleaned, []byte("```json"))
	cleaned = bytes.TrimPrefix(cleaned, []byte("```"))
	cleaned = bytes.TrimSuffix(cleaned, []byte("```"))
	cleaned = bytes.TrimSpace(cleaned)

	var result Result
	if err := json.Unmarshal(cleaned, &result); err != nil {
		return Result{}, fmt.Errorf("parse error: %w | raw: %s", err, string(cleaned))
	}

	if !validCategory(result.Category) {
		return Result{}, fmt.Errorf("unknown category %q", result.Category)
	}
	if !validLevel(result.Triage) {
		return Result{}, fmt.Errorf("unknown triage level %q", result.Triage)
	}

	return result, nil
}

func validCategory(c string) bool {
	switch c {
	case CategorySymptoms, CategoryTestReport, CategoryGeneralQuestion:
		return true
	}
	return false
}

func validLevel(l string) bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	}
	return false
}
