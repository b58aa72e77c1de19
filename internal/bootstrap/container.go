package bootstrap

import (
	"log"
	"os"
	"path/filepath"

	"gorm.io/gorm"

	"vytalcare-rag-be/internal/config"
	"vytalcare-rag-be/internal/controller"
	"vytalcare-rag-be/internal/pkg/logger"
	"vytalcare-rag-be/internal/repository/contract"
	"vytalcare-rag-be/internal/repository/implementation"
	"vytalcare-rag-be/internal/service"
	"vytalcare-rag-be/pkg/embedding"
	"vytalcare-rag-be/pkg/llm/gemini"
	"vytalcare-rag-be/pkg/rag/answer"
	"vytalcare-rag-be/pkg/rag/emergency"
	"vytalcare-rag-be/pkg/rag/pipeline"
	"vytalcare-rag-be/pkg/rag/retrieve"
	"vytalcare-rag-be/pkg/rag/triage"
)

type Container struct {
	ChatController controller.IChatController
	Logger         logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ragLogger := initRagLogger()

	// Gateways
	embeddingProvider := embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	llmProvider := gemini.NewProvider(cfg.Keys.GoogleGemini)

	// Vector index is optional: without it retrieval degrades to the
	// "no context" path instead of failing.
	var docRepo contract.DocumentRepository
	if db != nil {
		docRepo = implementation.NewDocumentRepository(db, cfg.Rag.EmbeddingDimension)
	} else {
		log.Printf("[WARN] No vector index configured, retrieval will return no context")
	}

	// Pipeline stages
	detector := emergency.NewDetector(cfg.Safety.EmergencyKeywords, cfg.Safety.EmergencyMessage)
	classifier := triage.NewClassifier(llmProvider, ragLogger)
	retriever := retrieve.NewRetriever(embeddingProvider, docRepo, retrieve.Routing{
		GeneralCollection:    cfg.Rag.GeneralCollection,
		DrugSafetyCollection: cfg.Rag.DrugSafetyCollection,
		DrugKeywords:         cfg.Rag.DrugKeywords,
	}, ragLogger)
	synthesizer := answer.NewSynthesizer(llmProvider, cfg.Safety.Disclaimer, ragLogger)

	stages := &pipeline.Stages{
		Classifier:  classifier,
		Retriever:   retriever,
		Synthesizer: synthesizer,
		TopK:        cfg.Rag.TopK,
		Logger:      ragLogger,
	}

	// Compile the orchestrated workflow. A compile failure must not
	// crash the process: the runner serves the direct path instead.
	graph, err := pipeline.BuildGraph(stages)
	if err != nil {
		sysLogger.Error("bootstrap", "pipeline graph failed to compile, direct path only", map[string]interface{}{
			"error": err.Error(),
		})
		graph = nil
	}

	runner := pipeline.NewRunner(graph, pipeline.NewDirect(stages), cfg.Rag.InvokeTimeout, ragLogger)

	chatService := service.NewChatService(
		detector,
		runner,
		retriever,
		synthesizer,
		cfg.Rag.TopK,
		cfg.Rag.RequestBudget,
		sysLogger,
	)

	return &Container{
		ChatController: controller.NewChatController(chatService),
		Logger:         sysLogger,
	}
}

func initRagLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
