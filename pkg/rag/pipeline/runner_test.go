package pipeline

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vytalcare-rag-be/internal/apperror"
	"vytalcare-rag-be/internal/entity"
	"vytalcare-rag-be/pkg/llm"
	"vytalcare-rag-be/pkg/rag/answer"
	"vytalcare-rag-be/pkg/rag/retrieve"
	"vytalcare-rag-be/pkg/rag/triage"
)

// scriptedLLM fails synthesis prompts a configured number of times while
// always serving triage prompts, so the graph path can fail while the
// identical direct path succeeds.
type scriptedLLM struct {
	failSynthesisTimes int
	synthesisCalls     int
	answer             string
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if strings.Contains(prompt, "pre-screening") {
		return `{"category":"general_question","triage":"low","needs_doctor":false,"followup_question":""}`, nil
	}
	s.synthesisCalls++
	if s.synthesisCalls <= s.failSynthesisTimes {
		return "", apperror.Config("generation credential missing")
	}
	return s.answer, nil
}

func (s *scriptedLLM) GenerateStream(ctx context.Context, prompt string, onToken func(string) error, options ...llm.Option) error {
	return onToken(s.answer)
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text, taskType string) ([]float32, error) {
	return []float32{0.5}, nil
}

type fakeRepo struct {
	docs []*entity.RetrievedDocument
}

func (f *fakeRepo) Upsert(ctx context.Context, doc *entity.DocumentEmbedding) error { return nil }

func (f *fakeRepo) SearchSimilar(ctx context.Context, collection string, vector []float32, topK int) ([]*entity.RetrievedDocument, error) {
	return f.docs, nil
}

func (f *fakeRepo) CountByCollection(ctx context.Context, collection string) (int64, error) {
	return int64(len(f.docs)), nil
}

func newTestStages(provider llm.Provider, docs []*entity.RetrievedDocument) *Stages {
	logger := log.New(io.Discard, "", 0)
	return &Stages{
		Classifier: triage.NewClassifier(provider, logger),
		Retriever: retrieve.NewRetriever(fakeEmbedder{}, &fakeRepo{docs: docs}, retrieve.Routing{
			GeneralCollection:    "medical_knowledge",
			DrugSafetyCollection: "drug_safety",
			DrugKeywords:         []string{"dose"},
		}, logger),
		Synthesizer: answer.NewSynthesizer(provider, "Consult a professional.", logger),
		TopK:        4,
		Logger:      logger,
	}
}

func newTestRunner(stages *Stages, withGraph bool) *Runner {
	var graph *CompiledGraph
	if withGraph {
		var err error
		graph, err = BuildGraph(stages)
		if err != nil {
			panic(err)
		}
	}
	return NewRunner(graph, NewDirect(stages), 2*time.Second, log.New(io.Discard, "", 0))
}

func TestRunHappyPathUsesGraph(t *testing.T) {
	provider := &scriptedLLM{answer: "Fevers usually resolve on their own."}
	docs := []*entity.RetrievedDocument{{Title: "Fever", Summary: "s", Url: "https://medlineplus.gov/fever.html"}}
	runner := newTestRunner(newTestStages(provider, docs), true)

	outcome := runner.Run(context.Background(), "what is a fever?")

	assert.Equal(t, "Fevers usually resolve on their own.", outcome.Reply)
	assert.Equal(t, []string{"https://medlineplus.gov/fever.html"}, outcome.Sources)
	assert.Empty(t, outcome.Diagnostic)
	assert.Equal(t, 1, provider.synthesisCalls)
}

func TestRunFallsBackToDirectAfterRetries(t *testing.T) {
	// Synthesis fails on both graph attempts, then succeeds on the
	// direct path. No third graph attempt may happen.
	provider := &scriptedLLM{failSynthesisTimes: 2, answer: "recovered answer"}
	runner := newTestRunner(newTestStages(provider, nil), true)

	outcome := runner.Run(context.Background(), "what is asthma?")

	assert.Equal(t, "recovered answer", outcome.Reply)
	assert.Empty(t, outcome.Diagnostic)
	assert.Equal(t, 3, provider.synthesisCalls)
}

func TestRunReturnsApologyWhenBothPathsFail(t *testing.T) {
	provider := &scriptedLLM{failSynthesisTimes: 10}
	runner := newTestRunner(newTestStages(provider, nil), true)

	outcome := runner.Run(context.Background(), "what is asthma?")

	assert.Equal(t, answer.Apology, outcome.Reply)
	assert.Equal(t, []string{}, outcome.Sources)
	assert.Contains(t, outcome.Diagnostic, "generation credential missing")
}

func TestRunWithoutGraphGoesStraightToDirect(t *testing.T) {
	provider := &scriptedLLM{answer: "direct answer"}
	runner := newTestRunner(newTestStages(provider, nil), false)

	outcome := runner.Run(context.Background(), "what is asthma?")

	assert.Equal(t, "direct answer", outcome.Reply)
	assert.Equal(t, 1, provider.synthesisCalls)
}

func TestOutcomeSubstitutesEmptyAnswer(t *testing.T) {
	outcome := outcomeFromState(State{Answer: "", Sources: nil})

	assert.Equal(t, emptyAnswerReply, outcome.Reply)
	assert.NotNil(t, outcome.Sources)
	assert.Empty(t, outcome.Sources)
}

func TestDirectRunMirrorsGraphSemantics(t *testing.T) {
	provider := &scriptedLLM{answer: "same either way"}
	docs := []*entity.RetrievedDocument{{Title: "Asthma", Summary: "s", Url: "u"}}

	graphStages := newTestStages(provider, docs)
	graph, err := BuildGraph(graphStages)
	assert.NoError(t, err)

	fromGraph, err := graph.Invoke(context.Background(), State{Message: "what is asthma?"})
	assert.NoError(t, err)

	directProvider := &scriptedLLM{answer: "same either way"}
	fromDirect, err := NewDirect(newTestStages(directProvider, docs)).Run(context.Background(), "what is asthma?")
	assert.NoError(t, err)

	assert.Equal(t, fromGraph, fromDirect)
}
