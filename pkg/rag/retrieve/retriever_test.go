package retrieve

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"vytalcare-rag-be/internal/entity"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text, taskType string) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

type fakeRepo struct {
	docs       []*entity.RetrievedDocument
	err        error
	collection string
	calls      int
}

func (f *fakeRepo) Upsert(ctx context.Context, doc *entity.DocumentEmbedding) error {
	return nil
}

func (f *fakeRepo) SearchSimilar(ctx context.Context, collection string, vector []float32, topK int) ([]*entity.RetrievedDocument, error) {
	f.calls++
	f.collection = collection
	return f.docs, f.err
}

func (f *fakeRepo) CountByCollection(ctx context.Context, collection string) (int64, error) {
	return int64(len(f.docs)), nil
}

func testRouting() Routing {
	return Routing{
		GeneralCollection:    "medical_knowledge",
		DrugSafetyCollection: "drug_safety",
		DrugKeywords:         []string{"pill", "drug", "dose"},
	}
}

func newTestRetriever(embedder *fakeEmbedder, repo *fakeRepo) *Retriever {
	return NewRetriever(embedder, repo, testRouting(), log.New(io.Discard, "", 0))
}

func TestRoutingSelectsDrugSafetyOnKeyword(t *testing.T) {
	r := testRouting()

	assert.Equal(t, "drug_safety", r.Collection("What dose of ibuprofen is safe?"))
	assert.Equal(t, "drug_safety", r.Collection("can I take this PILL with food"))
	assert.Equal(t, "medical_knowledge", r.Collection("what causes a fever?"))
}

func TestRetrieveFormatsHits(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	repo := &fakeRepo{docs: []*entity.RetrievedDocument{
		{Title: "Fever", Summary: "A fever is a body temperature above normal.", Url: "https://medlineplus.gov/fever.html"},
		{Title: "Fever in children", Summary: "Children run higher fevers than adults.", Url: ""},
	}}
	r := newTestRetriever(embedder, repo)

	result := r.Retrieve(context.Background(), "what is a fever?", 4)

	assert.Len(t, result.Documents, 2)
	assert.Contains(t, result.Context, "[Document 1]")
	assert.Contains(t, result.Context, "TITLE: Fever")
	assert.Contains(t, result.Context, "[Document 2]")
	assert.Contains(t, result.Context, "TITLE: Fever in children")
	assert.Equal(t, []string{"https://medlineplus.gov/fever.html", NoURL}, result.Sources)
	assert.Equal(t, "medical_knowledge", repo.collection)
}

func TestRetrieveRoutesDrugQueries(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	repo := &fakeRepo{docs: []*entity.RetrievedDocument{{Title: "Ibuprofen", Summary: "NSAID.", Url: "u"}}}
	r := newTestRetriever(embedder, repo)

	r.Retrieve(context.Background(), "What dose of ibuprofen?", 3)

	assert.Equal(t, "drug_safety", repo.collection)
}

func TestRetrieveEmptyHitsYieldSentinelContext(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	repo := &fakeRepo{docs: nil}
	r := newTestRetriever(embedder, repo)

	result := r.Retrieve(context.Background(), "obscure question", 4)

	assert.Empty(t, result.Documents)
	assert.Equal(t, NoDocumentsContext, result.Context)
	assert.Equal(t, []string{}, result.Sources)
}

func TestRetrieveDegradesOnEmbeddingFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("quota exceeded")}
	repo := &fakeRepo{}
	r := newTestRetriever(embedder, repo)

	result := r.Retrieve(context.Background(), "what is asthma?", 4)

	assert.Equal(t, NoDocumentsContext, result.Context)
	assert.Zero(t, repo.calls)
}

func TestRetrieveDegradesOnSearchFailure(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	repo := &fakeRepo{err: errors.New("connection refused")}
	r := newTestRetriever(embedder, repo)

	result := r.Retrieve(context.Background(), "what is asthma?", 4)

	assert.Equal(t, NoDocumentsContext, result.Context)
	assert.Equal(t, []string{}, result.Sources)
}

func TestRetrieveWithoutIndexReturnsEmpty(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	r := NewRetriever(embedder, nil, testRouting(), log.New(io.Discard, "", 0))

	result := r.Retrieve(context.Background(), "anything", 4)

	assert.Equal(t, NoDocumentsContext, result.Context)
	assert.Zero(t, embedder.calls)
}

func TestRetrieveCachesRepeatedQueries(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	repo := &fakeRepo{docs: []*entity.RetrievedDocument{{Title: "Asthma", Summary: "s", Url: "u"}}}
	r := newTestRetriever(embedder, repo)

	first := r.Retrieve(context.Background(), "what is asthma?", 4)
	second := r.Retrieve(context.Background(), "what is asthma?", 4)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, embedder.calls)
	assert.Equal(t, 1, repo.calls)
}
