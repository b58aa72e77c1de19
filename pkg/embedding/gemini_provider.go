package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"vytalcare-rag-be/internal/apperror"
)

const geminiEmbeddingModel = "text-embedding-004"

type GeminiProvider struct {
	ApiKey string
	Client *http.Client
}

func NewGeminiProvider(apiKey string) Provider {
	return &GeminiProvider{
		ApiKey: apiKey,
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type embeddingRequestContentPart struct {
	Text string `json:"text"`
}

type embeddingRequestContent struct {
	Parts []embeddingRequestContentPart `json:"parts"`
}

type embeddingRequest struct {
	Model    string                  `json:"model"`
	Content  embeddingRequestContent `json:"content"`
	TaskType string                  `json:"task_type,omitempty"`
}

type embeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type embeddingResponse struct {
	Embedding embeddingResponseEmbedding `json:"embedding"`
}

func (p *GeminiProvider) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if p.ApiKey == "" {
		return nil, apperror.Config("GOOGLE_GEMINI_API_KEY is not set")
	}
	if text == "" {
		return nil, apperror.Validation("embedding text must not be empty")
	}

	geminiReq := embeddingRequest{
		Model: geminiEmbeddingModel,
		Content: embeddingRequestContent{
			Parts: []embeddingRequestContentPart{
				{Text: text},
			},
		},
		TaskType: taskType,
	}
	geminiReqJson, err := json.Marshal(geminiReq)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:embedContent",
		geminiEmbeddingModel,
	)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(geminiReqJson))
	if err != nil {
		return nil, err
	}

	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.Timeout("embedding request exceeded deadline")
		}
		return nil, apperror.Upstream("embedding request failed: %v", err)
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperror.Upstream("read embedding response: %v", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, apperror.Upstream("gemini embedding status %d, body %s", res.StatusCode, string(resByte))
	}

	var resEmbedding embeddingResponse
	if err := json.Unmarshal(resByte, &resEmbedding); err != nil {
		return nil, apperror.Upstream("malformed embedding response: %v", err)
	}

	if len(resEmbedding.Embedding.Values) == 0 {
		return nil, apperror.Upstream("embedding response has no vector values")
	}

	return resEmbedding.Embedding.Values, nil
}
