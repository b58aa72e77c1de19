package triage

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"vytalcare-rag-be/pkg/llm"
)

type fakeLLM struct {
	output string
	err    error
	calls  int
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.calls++
	return f.output, f.err
}

func (f *fakeLLM) GenerateStream(ctx context.Context, prompt string, onToken func(string) error, options ...llm.Option) error {
	if f.err != nil {
		return f.err
	}
	return onToken(f.output)
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestClassifyParsesValidOutput(t *testing.T) {
	provider := &fakeLLM{output: `{"category":"symptoms","triage":"medium","needs_doctor":true,"followup_question":"How long have you had the fever?"}`}
	c := NewClassifier(provider, discardLogger())

	result := c.Classify(context.Background(), "I have had a fever for two days")

	assert.Equal(t, CategorySymptoms, result.Category)
	assert.Equal(t, LevelMedium, result.Triage)
	assert.True(t, result.NeedsDoctor)
	assert.Equal(t, "How long have you had the fever?", result.FollowupQuestion)
}

func TestClassifyStripsMarkdownFences(t *testing.T) {
	provider := &fakeLLM{output: "```json\n{\"category\":\"general_question\",\"triage\":\"low\",\"needs_doctor\":false,\"followup_question\":\"\"}\n```"}
	c := NewClassifier(provider, discardLogger())

	result := c.Classify(context.Background(), "what is hypertension?")

	assert.Equal(t, CategoryGeneralQuestion, result.Category)
	assert.Equal(t, LevelLow, result.Triage)
}

func TestClassifyDefaultsOnProviderError(t *testing.T) {
	provider := &fakeLLM{err: errors.New("upstream exploded")}
	c := NewClassifier(provider, discardLogger())

	result := c.Classify(context.Background(), "anything")

	assert.Equal(t, DefaultResult(), result)
}

func TestClassifyDefaultsOnMalformedJSON(t *testing.T) {
	provider := &fakeLLM{output: "I think this is a symptom of"}
	c := NewClassifier(provider, discardLogger())

	assert.Equal(t, DefaultResult(), c.Classify(context.Background(), "anything"))
}

func TestClassifyDefaultsOnUnknownEnumValues(t *testing.T) {
	cases := []string{
		`{"category":"emergency","triage":"low","needs_doctor":false,"followup_question":""}`,
		`{"category":"symptoms","triage":"critical","needs_doctor":false,"followup_question":""}`,
	}
	for _, output := range cases {
		c := NewClassifier(&fakeLLM{output: output}, discardLogger())
		assert.Equal(t, DefaultResult(), c.Classify(context.Background(), "anything"), "output: %s", output)
	}
}

func TestDefaultResultIsSafe(t *testing.T) {
	result := DefaultResult()

	assert.Equal(t, CategoryGeneralQuestion, result.Category)
	assert.Equal(t, LevelLow, result.Triage)
	assert.False(t, result.NeedsDoctor)
	assert.Empty(t, result.FollowupQuestion)
}
