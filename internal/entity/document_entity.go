package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentEmbedding is one embedded knowledge-base document scoped to a
// collection. Written by ingestion, read by retrieval.
type DocumentEmbedding struct {
	Id             uuid.UUID
	Collection     string
	Term           string
	Title          string
	Summary        string
	Url            string
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// RetrievedDocument is a single nearest-neighbor hit. Rank is implicit in
// the order of the returned slice. Immutable once constructed.
type RetrievedDocument struct {
	Title   string
	Summary string
	Url     string
}
