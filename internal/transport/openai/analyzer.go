// Package openai implements dish analysis on an OpenAI-compatible chat
// completions API with vision support.
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/dishscout/dishscout/internal/domain"
	"github.com/dishscout/dishscout/internal/domain/dish"
	"github.com/dishscout/dishscout/internal/metrics"
)

const systemPrompt = `You identify dishes. Reply with a single JSON object:
{"name": "<dish name>", "ingredients": ["<ingredient>", ...], "description": "<one sentence>"}
Reply with the JSON object only, no prose, no markdown.`

const (
	kindText  = "text"
	kindImage = "image"
)

// Analyzer is a dish analysis provider using the OpenAI-compatible API.
type Analyzer struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// Config holds the analysis provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// NewAnalyzer creates an OpenAI-compatible analysis provider.
func NewAnalyzer(cfg *Config) *Analyzer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Analyzer{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// AnalyzeText implements domain.TextAnalyzer.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string) (dish.Descriptor, error) {
	msg := openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: "Identify the dish described here:\n" + text,
	}
	return a.complete(ctx, kindText, msg)
}

// AnalyzeImage implements domain.ImageAnalyzer. The image travels as a
// base64 data URL inside a vision message part.
func (a *Analyzer) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (dish.Descriptor, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	msg := openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: "Identify the dish in this photo."},
			{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: dataURL, Detail: openai.ImageURLDetailAuto},
			},
		},
	}
	return a.complete(ctx, kindImage, msg)
}

func (a *Analyzer) complete(ctx context.Context, kind string, userMsg openai.ChatCompletionMessage) (dish.Descriptor, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			userMsg,
		},
	}

	start := time.Now()

	resp, err := a.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues(a.provider, a.model, kind, "error").Inc()
		return dish.Descriptor{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.AnalysisRequestsTotal.WithLabelValues(a.provider, a.model, kind, "error").Inc()
		return dish.Descriptor{}, domain.NewAnalysisError("provider returned no choices")
	}

	d, err := parseDescriptor(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues(a.provider, a.model, kind, "error").Inc()
		a.logger.Warn("Unparseable analysis response",
			zap.String("kind", kind),
			zap.String("content", resp.Choices[0].Message.Content),
			zap.Error(err))
		return dish.Descriptor{}, err
	}

	metrics.AnalysisRequestsTotal.WithLabelValues(a.provider, a.model, kind, "success").Inc()
	metrics.AnalysisRequestDuration.WithLabelValues(a.provider, a.model, kind).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.AnalysisTokensTotal.WithLabelValues(a.provider, a.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.AnalysisTokensTotal.WithLabelValues(a.provider, a.model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	return d, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (a *Analyzer) HealthCheck(ctx context.Context) error {
	if _, err := a.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseDescriptor decodes the model's JSON reply into a descriptor.
// Models wrap JSON in markdown fences despite instructions, so fences
// are stripped before decoding.
func parseDescriptor(content string) (dish.Descriptor, error) {
	content = stripCodeFences(content)

	var parsed struct {
		Name        string   `json:"name"`
		Ingredients []string `json:"ingredients"`
		Description string   `json:"description"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return dish.Descriptor{}, domain.NewAnalysisError("provider returned malformed JSON")
	}

	d, err := dish.New(parsed.Name, parsed.Ingredients, parsed.Description, nil)
	if err != nil {
		return dish.Descriptor{}, domain.NewAnalysisError("provider could not identify a dish")
	}
	return d, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrAnalysisFailed for correct 502 mapping.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return domain.NewAnalysisError(fmt.Sprintf("analysis API error %d: %s", reqErr.HTTPStatusCode, detail))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return domain.NewAnalysisError(fmt.Sprintf("analysis API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message))
	}

	return domain.NewAnalysisError("analysis request failed")
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
