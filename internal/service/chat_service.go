package service

import (
	"context"
	"time"

	"vytalcare-rag-be/internal/dto"
	"vytalcare-rag-be/internal/pkg/logger"
	"vytalcare-rag-be/pkg/rag/answer"
	"vytalcare-rag-be/pkg/rag/emergency"
	"vytalcare-rag-be/pkg/rag/pipeline"
	"vytalcare-rag-be/pkg/rag/retrieve"
)

// IChatService defines the chat service interface
type IChatService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	ChatStream(ctx context.Context, request *dto.ChatRequest, onSources func([]string) error, onToken func(string) error) error
}

type chatService struct {
	detector    *emergency.Detector
	runner      *pipeline.Runner
	retriever   *retrieve.Retriever
	synthesizer *answer.Synthesizer
	topK        int
	budget      time.Duration
	sysLogger   logger.ILogger
}

func NewChatService(
	detector *emergency.Detector,
	runner *pipeline.Runner,
	retriever *retrieve.Retriever,
	synthesizer *answer.Synthesizer,
	topK int,
	budget time.Duration,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		detector:    detector,
		runner:      runner,
		retriever:   retriever,
		synthesizer: synthesizer,
		topK:        topK,
		budget:      budget,
		sysLogger:   sysLogger,
	}
}

// Chat answers one message. The emergency check runs before any gateway
// call; after it, the runner works under the wall-clock budget and its
// outcome is always renderable, so this method only errors on a broken
// request, never on pipeline failures.
func (cs *chatService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	if cs.detector.Match(request.Message) {
		cs.sysLogger.Warn("chat", "emergency keyword detected, short-circuiting pipeline", map[string]interface{}{
			"message_length": len(request.Message),
		})
		return &dto.ChatResponse{
			Reply:   cs.detector.Message(),
			Sources: []string{},
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, cs.budget)
	defer cancel()

	outcome := cs.runner.Run(ctx, request.Message)

	response := &dto.ChatResponse{
		Reply:   outcome.Reply,
		Sources: outcome.Sources,
	}
	if outcome.Diagnostic != "" {
		cs.sysLogger.Error("chat", "pipeline degraded to apology", map[string]interface{}{
			"error": outcome.Diagnostic,
		})
		response.Error = "RAG pipeline request failed"
		response.Details = outcome.Diagnostic
	}

	return response, nil
}

// ChatStream is the incremental variant: sources first, then one line
// per generated segment. It skips triage, mirroring the non-streamed
// path's retrieval and synthesis only.
func (cs *chatService) ChatStream(ctx context.Context, request *dto.ChatRequest, onSources func([]string) error, onToken func(string) error) error {
	if cs.detector.Match(request.Message) {
		if err := onSources([]string{}); err != nil {
			return err
		}
		return onToken(cs.detector.Message())
	}

	ctx, cancel := context.WithTimeout(ctx, cs.budget)
	defer cancel()

	retrieval := cs.retriever.Retrieve(ctx, request.Message, cs.topK)
	if err := onSources(retrieval.Sources); err != nil {
		return err
	}

	question := answer.Question{
		Message: request.Message,
		Context: retrieval.Context,
	}
	if err := cs.synthesizer.SynthesizeStream(ctx, question, onToken); err != nil {
		cs.sysLogger.Error("chat", "stream synthesis failed", map[string]interface{}{
			"error": err.Error(),
		})
		return onToken(answer.Apology)
	}
	return nil
}
