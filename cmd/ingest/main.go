package main

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"

	"vytalcare-rag-be/internal/config"
	"vytalcare-rag-be/internal/dto"
	"vytalcare-rag-be/internal/pkg/logger"
	"vytalcare-rag-be/internal/repository/implementation"
	"vytalcare-rag-be/internal/service"
	"vytalcare-rag-be/pkg/database"
	"vytalcare-rag-be/pkg/embedding"
	"vytalcare-rag-be/pkg/ingest/codes"
	"vytalcare-rag-be/pkg/ingest/medlineplus"
	"vytalcare-rag-be/internal/model"
)

// The ingest CLI walks the terminology tables, fetches consumer health
// topics for each coded term, and loads embedded chunks into the vector
// index. Jobs flow through an in-process message channel so the worker
// side is the same code a brokered deployment would run.
func main() {
	cfg := config.Load()

	if cfg.Keys.GoogleGemini == "" {
		log.Fatal("GOOGLE_GEMINI_API_KEY is required for ingestion")
	}
	if cfg.Database.Connection == "" {
		log.Fatal("DB_CONNECTION_STRING is required for ingestion")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}
	if err := db.AutoMigrate(&model.DocumentEmbedding{}); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	docRepo := implementation.NewDocumentRepository(db, cfg.Rag.EmbeddingDimension)
	embedder := embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	source := medlineplus.NewClient()

	// Publishing blocks until the subscriber acks, so the walk below is
	// naturally paced by embedding and storage throughput.
	channel := gochannel.NewGoChannel(gochannel.Config{
		BlockPublishUntilSubscriberAck: true,
	}, watermill.NewStdLogger(false, false))
	defer channel.Close()

	ingestService := service.NewIngestService(
		channel,
		cfg.Rag.IngestTopic,
		source,
		embedder,
		docRepo,
		0, // default chunk size
		sysLogger,
	)

	ctx := context.Background()
	messages, err := channel.Subscribe(ctx, cfg.Rag.IngestTopic)
	if err != nil {
		log.Fatalf("Subscribing to ingest topic: %v", err)
	}

	mappings := codes.All()
	reports := make(chan *dto.IngestReport, len(mappings))
	handle := ingestService.Handler(ctx, reports)
	go func() {
		for msg := range messages {
			handle(msg)
		}
	}()

	color.Cyan("Ingesting %d terms into %q and %q", len(mappings), cfg.Rag.GeneralCollection, cfg.Rag.DrugSafetyCollection)

	published := 0
	for _, m := range mappings {
		collection := cfg.Rag.GeneralCollection
		if codes.IsDrug(m.Term) {
			collection = cfg.Rag.DrugSafetyCollection
		}
		job := dto.IngestJob{
			Term:       m.Term,
			Code:       m.Code,
			System:     m.System,
			Collection: collection,
		}
		if err := ingestService.Publish(job); err != nil {
			color.Red("  %-40s publish failed: %v", m.Term, err)
			continue
		}
		published++
	}

	var done, skipped, failed, chunks int
	for i := 0; i < published; i++ {
		report := <-reports
		switch {
		case report.Error != "":
			failed++
			color.Red("  %-40s FAILED: %s", report.Term, report.Error)
		case report.Skipped:
			skipped++
			color.Yellow("  %-40s no topics, skipped", report.Term)
		default:
			done++
			chunks += report.Chunks
			color.Green("  %-40s %d topics, %d chunks", report.Term, report.Topics, report.Chunks)
		}
	}

	color.Cyan("Done: %d ingested, %d skipped, %d failed, %d chunks total", done, skipped, failed, chunks)
	for _, collection := range []string{cfg.Rag.GeneralCollection, cfg.Rag.DrugSafetyCollection} {
		count, err := docRepo.CountByCollection(ctx, collection)
		if err != nil {
			color.Red("  %-20s count failed: %v", collection, err)
			continue
		}
		color.White("  %-20s %d documents", collection, count)
	}
}
