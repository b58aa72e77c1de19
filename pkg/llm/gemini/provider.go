package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"vytalcare-rag-be/internal/apperror"
	"vytalcare-rag-be/pkg/llm"
)

const defaultModel = "gemini-1.5-flash"

type GeminiProvider struct {
	ApiKey string
	Model  string
	Client *http.Client
}

// Ensure GeminiProvider implements llm.Provider
var _ llm.Provider = &GeminiProvider{}

func NewProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		ApiKey: apiKey,
		Model:  defaultModel,
		// No client-level timeout; callers bound each call with their
		// context so in-flight requests are aborted on cancellation.
		Client: &http.Client{},
	}
}

// --- Request/Response structs (Gemini REST v1) ---

type chatParts struct {
	Text string `json:"text"`
}

type chatContent struct {
	Parts []*chatParts `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type chatRequest struct {
	Contents         []*chatContent    `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type chatCandidate struct {
	Content *chatContent `json:"content"`
}

type apiError struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Candidates []*chatCandidate `json:"candidates"`
	Error      *apiError        `json:"error"`
}

func (p *GeminiProvider) buildRequest(prompt string, opts ...llm.Option) (model string, body []byte, err error) {
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}

	model = p.Model
	if options.Model != "" {
		model = options.Model
	}

	payload := chatRequest{
		Contents: []*chatContent{
			{
				Parts: []*chatParts{{Text: prompt}},
				Role:  "user",
			},
		},
	}
	if options.Temperature > 0 || options.MaxTokens > 0 {
		payload.GenerationConfig = &generationConfig{
			Temperature:     options.Temperature,
			MaxOutputTokens: options.MaxTokens,
		}
	}

	body, err = json.Marshal(payload)
	return model, body, err
}

func (p *GeminiProvider) classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.Timeout("gemini request exceeded deadline")
	}
	return apperror.Upstream("gemini request failed: %v", err)
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	if p.ApiKey == "" {
		return "", apperror.Config("GOOGLE_GEMINI_API_KEY is not set")
	}

	model, payloadJson, err := p.buildRequest(prompt, opts...)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:generateContent",
		model,
	)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return "", p.classifyTransportError(err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", p.classifyTransportError(err)
	}

	if res.StatusCode != http.StatusOK {
		return "", apperror.Upstream("gemini status %d, body %s", res.StatusCode, string(resBody))
	}

	var geminiRes chatResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", apperror.Upstream("malformed gemini response: %v", err)
	}

	if geminiRes.Error != nil {
		return "", apperror.Upstream("gemini error payload: %s", geminiRes.Error.Message)
	}

	// Success with no content is a degraded but non-fatal result.
	return extractText(&geminiRes), nil
}

func (p *GeminiProvider) GenerateStream(ctx context.Context, prompt string, onToken func(token string) error, opts ...llm.Option) error {
	if p.ApiKey == "" {
		return apperror.Config("GOOGLE_GEMINI_API_KEY is not set")
	}

	model, payloadJson, err := p.buildRequest(prompt, opts...)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:streamGenerateContent?alt=sse",
		model,
	)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payloadJson))
	if err != nil {
		return err
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return p.classifyTransportError(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		resBody, _ := io.ReadAll(res.Body)
		return apperror.Upstream("gemini stream status %d, body %s", res.StatusCode, string(resBody))
	}

	// SSE framing: each event is a "data: {...}" line with the same chunk
	// shape as the unary response.
	scanner := bufio.NewScanner(res.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}

		var chunk chatResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return apperror.Upstream("malformed gemini stream chunk: %v", err)
		}
		if chunk.Error != nil {
			return apperror.Upstream("gemini stream error payload: %s", chunk.Error.Message)
		}

		if text := extractText(&chunk); text != "" {
			if err := onToken(text); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return p.classifyTransportError(err)
	}

	return nil
}

func extractText(res *chatResponse) string {
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}
