package embedding

import "context"

// Task types understood by the Gemini embedding endpoint. Query-time and
// document-time embeddings must come from the same model so their
// dimensions match.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// Provider converts text into a fixed-length vector.
type Provider interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}
