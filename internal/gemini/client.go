// Package gemini wraps the Google Gen AI SDK behind a minimal text generation interface.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is the generation model used for every request.
const DefaultModel = "gemini-2.5-flash"

var errEmptyAPIKey = errors.New("api key is empty")

// Generator sends a prompt to the generation endpoint and returns its text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Factory builds a Generator bound to a single API key.
// Implementations must not perform network I/O.
type Factory func(ctx context.Context, apiKey string) (Generator, error)

// Client is a Generator backed by the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewFactory returns a Factory producing Gemini API clients for model.
func NewFactory(model string) Factory {
	if model == "" {
		model = DefaultModel
	}
	return func(ctx context.Context, apiKey string) (Generator, error) {
		return NewClient(ctx, apiKey, model)
	}
}

// NewClient creates a Gemini API client. No request is issued until Generate is called.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errEmptyAPIKey
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: c, model: model}, nil
}

// Generate issues one GenerateContent call with prompt as a single user turn.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return "", errors.New("generate content: empty response")
	}
	return resp.Text(), nil
}
