// Package gemini implements the recommendation provider on top of Google's
// Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/serendibtrip/serendibtrip-api/config"
	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/serendibtrip/serendibtrip-api/types"
	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("gemini returned an empty response")

// contentGenerator is the slice of *genai.Models the client calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements types.RecommendationProvider.
type Client struct {
	models      contentGenerator
	model       string
	temperature float32
	timeout     time.Duration
}

// NewClient connects to the Gemini API with the configured key.
func NewClient(ctx context.Context, cfg config.AIConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("gemini API key is not configured")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return newClient(gc.Models, cfg), nil
}

func newClient(models contentGenerator, cfg config.AIConfig) *Client {
	return &Client{
		models:      models,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// Recommend asks the model for a structured JSON recommendation set.
func (c *Client) Recommend(ctx context.Context, req types.RecommendationRequest) (*types.RecommendationResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	text, err := c.generate(ctx, genai.Text(recommendationPrompt(req)), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](c.temperature),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, err
	}

	var resp types.RecommendationResponse
	if err := json.Unmarshal([]byte(cleanJSONResponse(text)), &resp); err != nil {
		logger.GetLogger().Warnw("Failed to decode gemini recommendations", "error", err, "length", len(text))
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}
	return &resp, nil
}

// Chat sends the conversation so far plus the new message.
func (c *Client) Chat(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, msg := range req.History {
		role := "user"
		if msg.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []*genai.Part{{Text: msg.Content}}})
	}
	contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: req.Message}}})

	text, err := c.generate(ctx, contents, &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](c.temperature),
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: chatInstruction(req)}}},
	})
	if err != nil {
		return nil, err
	}
	return &types.ChatResponse{Reply: strings.TrimSpace(text)}, nil
}

func (c *Client) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	text := extractText(resp)
	logger.GetLogger().Debugw("Gemini call completed", "model", c.model, "duration", time.Since(start), "length", len(text))
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.Text != "" {
				text.WriteString(part.Text)
			}
		}
	}
	return text.String()
}

// cleanJSONResponse strips markdown code fences models sometimes add.
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
