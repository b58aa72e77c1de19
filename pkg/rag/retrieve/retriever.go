package retrieve

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"vytalcare-rag-be/internal/entity"
	"vytalcare-rag-be/internal/repository/contract"
	"vytalcare-rag-be/pkg/embedding"
)

// NoDocumentsContext is the sentinel context emitted when retrieval
// produced nothing. The synthesis stage still runs with it.
const NoDocumentsContext = "No relevant documents found."

// NoURL is rendered for hits whose payload has no url.
const NoURL = "No URL"

// Routing selects a collection from the query text. Presence of any
// drug-related keyword switches to the drug-safety collection. This is a
// deterministic containment rule, not a classifier.
type Routing struct {
	GeneralCollection    string
	DrugSafetyCollection string
	DrugKeywords         []string
}

func (r Routing) Collection(query string) string {
	lower := strings.ToLower(query)
	for _, k := range r.DrugKeywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return r.DrugSafetyCollection
		}
	}
	return r.GeneralCollection
}

// Result is the retrieval stage output.
type Result struct {
	Documents []*entity.RetrievedDocument // insertion order = similarity rank
	Context   string                      // formatted for prompt inclusion
	Sources   []string                    // urls, aligned with Documents
}

// Retriever is the context retrieval stage: embed the query, search the
// routed collection, format hits for the prompt. Any failure degrades to
// an empty result, never an error.
type Retriever struct {
	embedder embedding.Provider
	repo     contract.DocumentRepository // nil when no vector index is configured
	routing  Routing
	cache    *cache.Cache
	logger   *log.Logger
}

func NewRetriever(
	embedder embedding.Provider,
	repo contract.DocumentRepository,
	routing Routing,
	logger *log.Logger,
) *Retriever {
	return &Retriever{
		embedder: embedder,
		repo:     repo,
		routing:  routing,
		// Retrieval is idempotent for a fixed index, so short-lived
		// caching only saves embedding calls.
		cache:  cache.New(10*time.Minute, 30*time.Minute),
		logger: logger,
	}
}

func emptyResult() *Result {
	return &Result{
		Documents: []*entity.RetrievedDocument{},
		Context:   NoDocumentsContext,
		Sources:   []string{},
	}
}

func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) *Result {
	if r.repo == nil {
		r.logger.Printf("[RETRIEVE] no vector index configured, continuing without context")
		return emptyResult()
	}

	collection := r.routing.Collection(query)
	cacheKey := fmt.Sprintf("%s|%d|%s", collection, topK, query)
	if hit, found := r.cache.Get(cacheKey); found {
		return hit.(*Result)
	}

	vector, err := r.embedder.Embed(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		r.logger.Printf("[RETRIEVE] query embedding failed: %v", err)
		return emptyResult()
	}

	docs, err := r.repo.SearchSimilar(ctx, collection, vector, topK)
	if err != nil {
		r.logger.Printf("[RETRIEVE] vector search failed (collection %s): %v", collection, err)
		return emptyResult()
	}

	if len(docs) == 0 {
		r.logger.Printf("[RETRIEVE] no hits in collection %s", collection)
		return emptyResult()
	}

	result := &Result{
		Documents: docs,
		Context:   FormatDocuments(docs),
		Sources:   sourcesOf(docs),
	}
	r.cache.Set(cacheKey, result, cache.DefaultExpiration)

	r.logger.Printf("[RETRIEVE] %d documents from collection %s", len(docs), collection)
	return result
}

// FormatDocuments renders hits as numbered blocks for the prompt.
func FormatDocuments(docs []*entity.RetrievedDocument) string {
	var sb strings.Builder
	for i, d := range docs {
		sb.WriteString(fmt.Sprintf("\n[Document %d]\nTITLE: %s\nSUMMARY: %s\nURL: %s\n", i+1, d.Title, d.Summary, urlOf(d)))
	}
	return strings.TrimSpace(sb.String())
}

func sourcesOf(docs []*entity.RetrievedDocument) []string {
	sources := make([]string, len(docs))
	for i, d := range docs {
		sources[i] = urlOf(d)
	}
	return sources
}

func urlOf(d *entity.RetrievedDocument) string {
	if d.Url == "" {
		return NoURL
	}
	return d.Url
}
