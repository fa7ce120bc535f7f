package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient sends instructions to the Gemini API through the genai SDK.
type GeminiClient struct {
	gClient   *genai.Client
	modelName string
	opts      Options
}

// NewGeminiClient creates a Gemini client.
func NewGeminiClient(ctx context.Context, opts Options) (*GeminiClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required. Set GEMINI_API_KEY environment variable or ai.gemini.api_key in config file.\nGet your API key from: https://makersuite.google.com/app/apikey")
	}

	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	gClient, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		gClient:   gClient,
		modelName: opts.Model,
		opts:      opts,
	}, nil
}

// Name returns the provider name.
func (c *GeminiClient) Name() string { return "gemini" }

// ModelName returns the default model used by this client.
func (c *GeminiClient) ModelName() string { return c.modelName }

// GenerateText sends a single user turn with a bounded output size.
func (c *GeminiClient) GenerateText(ctx context.Context, req Request) (string, error) {
	req, err := resolve(req, c.modelName)
	if err != nil {
		return "", err
	}

	ctx, cancel := withTimeout(ctx, c.opts.Timeout)
	defer cancel()

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: req.Prompt}},
		Role:  "user",
	}}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
	}

	resp, err := c.gClient.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return "", classify(c.Name(), 0, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
