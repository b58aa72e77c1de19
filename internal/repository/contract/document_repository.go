package contract

import (
	"context"

	"vytalcare-rag-be/internal/entity"
)

// DocumentRepository is the vector index gateway. Documents live in
// logically isolated collections; search never crosses collections.
type DocumentRepository interface {
	// Upsert writes one embedded document. Used by the ingestion path only.
	Upsert(ctx context.Context, doc *entity.DocumentEmbedding) error

	// SearchSimilar returns up to topK documents from the collection,
	// ordered by cosine similarity to the query vector. An empty result
	// is a valid "no context" outcome, not an error.
	SearchSimilar(ctx context.Context, collection string, vector []float32, topK int) ([]*entity.RetrievedDocument, error)

	// CountByCollection reports the number of stored documents, used by
	// the ingestion CLI for its summary output.
	CountByCollection(ctx context.Context, collection string) (int64, error)
}
