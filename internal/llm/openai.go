package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient sends instructions to the OpenAI chat completions API.
type OpenAIClient struct {
	client    *openai.Client
	modelName string
	opts      Options
}

// NewOpenAIClient creates a client for the OpenAI chat completions API.
func NewOpenAIClient(opts Options) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required. Set OPENAI_API_KEY environment variable or ai.openai.api_key in config file")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := openai.NewClient(reqOpts...)
	return &OpenAIClient{
		client:    &client,
		modelName: opts.Model,
		opts:      opts,
	}, nil
}

// Name returns the provider name.
func (c *OpenAIClient) Name() string { return "openai" }

// ModelName returns the default model used by this client.
func (c *OpenAIClient) ModelName() string { return c.modelName }

// GenerateText sends one user message and returns the first choice's content.
func (c *OpenAIClient) GenerateText(ctx context.Context, req Request) (string, error) {
	req, err := resolve(req, c.modelName)
	if err != nil {
		return "", err
	}

	ctx, cancel := withTimeout(ctx, c.opts.Timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		MaxCompletionTokens: openai.Int(int64(req.MaxTokens)),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", classify(c.Name(), apiErr.StatusCode, err)
		}
		return "", classify(c.Name(), 0, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
