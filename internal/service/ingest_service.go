package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"vytalcare-rag-be/internal/dto"
	"vytalcare-rag-be/internal/entity"
	"vytalcare-rag-be/internal/pkg/logger"
	"vytalcare-rag-be/internal/repository/contract"
	"vytalcare-rag-be/pkg/embedding"
	"vytalcare-rag-be/pkg/ingest/chunker"
	"vytalcare-rag-be/pkg/ingest/medlineplus"
)

// TopicSource fetches health topics for a coded concept. Satisfied by
// the MedlinePlus Connect client; tests substitute a fake.
type TopicSource interface {
	Lookup(ctx context.Context, code, system string) ([]medlineplus.Topic, error)
}

// IIngestService loads coded medical terms into the vector index. Jobs
// travel through a message topic so fetching, embedding and storage run
// decoupled from the publisher that enumerates the code tables.
type IIngestService interface {
	Publish(job dto.IngestJob) error
	Process(ctx context.Context, job dto.IngestJob) (*dto.IngestReport, error)
	Handler(ctx context.Context, reports chan<- *dto.IngestReport) func(msg *message.Message)
}

type ingestService struct {
	publisher message.Publisher
	topic     string
	source    TopicSource
	embedder  embedding.Provider
	docRepo   contract.DocumentRepository
	chunkSize int
	sysLogger logger.ILogger
}

func NewIngestService(
	publisher message.Publisher,
	topic string,
	source TopicSource,
	embedder embedding.Provider,
	docRepo contract.DocumentRepository,
	chunkSize int,
	sysLogger logger.ILogger,
) IIngestService {
	return &ingestService{
		publisher: publisher,
		topic:     topic,
		source:    source,
		embedder:  embedder,
		docRepo:   docRepo,
		chunkSize: chunkSize,
		sysLogger: sysLogger,
	}
}

// Publish enqueues one job on the ingest topic.
func (is *ingestService) Publish(job dto.IngestJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshaling ingest job for %q: %w", job.Term, err)
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	return is.publisher.Publish(is.topic, msg)
}

// Process runs the full pipeline for one job: fetch topics, chunk each
// summary, embed every chunk as a retrieval document, and upsert. A term
// the knowledge service does not know is reported as skipped, not failed.
func (is *ingestService) Process(ctx context.Context, job dto.IngestJob) (*dto.IngestReport, error) {
	report := &dto.IngestReport{Term: job.Term}

	topics, err := is.source.Lookup(ctx, job.Code, job.System)
	if err != nil {
		return report, fmt.Errorf("fetching topics for %q (%s): %w", job.Term, medlineplus.DescribeQuery(job.Code, job.System), err)
	}
	if len(topics) == 0 {
		report.Skipped = true
		is.sysLogger.Warn("ingest", "no topics for term, skipping", map[string]interface{}{
			"term": job.Term,
		})
		return report, nil
	}
	report.Topics = len(topics)

	for _, topic := range topics {
		chunks := chunker.Split(topic.Summary, is.chunkSize)
		if len(chunks) == 0 && topic.Title != "" {
			// A topic with no prose still carries a searchable title.
			chunks = []string{topic.Title}
		}
		for i, chunk := range chunks {
			text := topic.Title + "\n" + chunk
			vector, err := is.embedder.Embed(ctx, text, embedding.TaskRetrievalDocument)
			if err != nil {
				return report, fmt.Errorf("embedding chunk %d of %q: %w", i, topic.Title, err)
			}

			doc := &entity.DocumentEmbedding{
				Id:             uuid.New(),
				Collection:     job.Collection,
				Term:           strings.ToLower(job.Term),
				Title:          topic.Title,
				Summary:        chunk,
				Url:            chunkURL(topic.Url, i),
				EmbeddingValue: vector,
			}
			if err := is.docRepo.Upsert(ctx, doc); err != nil {
				return report, fmt.Errorf("storing chunk %d of %q: %w", i, topic.Title, err)
			}
			report.Chunks++
		}
	}
	return report, nil
}

// Handler adapts Process into a subscriber callback. Every message is
// acked, including failures: ingest jobs are re-runnable from the code
// tables and a poisoned message must not wedge the channel.
func (is *ingestService) Handler(ctx context.Context, reports chan<- *dto.IngestReport) func(msg *message.Message) {
	return func(msg *message.Message) {
		defer msg.Ack()

		var job dto.IngestJob
		if err := json.Unmarshal(msg.Payload, &job); err != nil {
			is.sysLogger.Error("ingest", "dropping malformed ingest message", map[string]interface{}{
				"message_id": msg.UUID,
				"error":      err.Error(),
			})
			return
		}

		report, err := is.Process(ctx, job)
		if err != nil {
			report.Error = err.Error()
			is.sysLogger.Error("ingest", "ingest job failed", map[string]interface{}{
				"term":  job.Term,
				"error": err.Error(),
			})
		}
		reports <- report
	}
}

// chunkURL keeps stored rows unique per chunk so the upsert key
// (collection, url) does not collapse a multi-chunk topic into one row.
func chunkURL(base string, index int) string {
	if index == 0 {
		return base
	}
	return fmt.Sprintf("%s#chunk-%d", base, index)
}
