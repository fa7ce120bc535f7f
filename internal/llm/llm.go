package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"insightly/internal/config"
)

// DefaultMaxTokens bounds reply size when a request does not set one.
const DefaultMaxTokens = 3000

// Errors shared by every backend. Backends wrap the SDK error alongside one of these
// so callers can classify failures with errors.Is.
var (
	ErrEmptyPrompt   = errors.New("prompt cannot be empty")
	ErrEmptyResponse = errors.New("empty response from model")
	ErrUnauthorized  = errors.New("text-generation service rejected the credential")
	ErrRateLimited   = errors.New("text-generation service rate limit exceeded")
	ErrTimeout       = errors.New("text-generation request timed out")
)

// Request is a single synchronous instruction sent to the service.
type Request struct {
	Model     string // Model identifier (optional, defaults to the client's model)
	MaxTokens int    // Upper bound on reply length in tokens
	Prompt    string // The full instruction text
}

// TextGenerator is the text-generation service boundary: send instruction text,
// receive text. Implementations must be safe for concurrent use.
type TextGenerator interface {
	GenerateText(ctx context.Context, req Request) (string, error)
	Name() string
	ModelName() string
}

// Options holds backend construction settings resolved from configuration.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// New creates the backend selected by cfg.Provider.
func New(ctx context.Context, cfg config.AI) (TextGenerator, error) {
	opts := Options{
		APIKey:     cfg.APIKey(),
		Model:      cfg.ModelName(),
		BaseURL:    cfg.BaseURL(),
		Timeout:    cfg.RequestTimeout(),
		MaxRetries: cfg.MaxRetries,
	}

	switch cfg.Provider {
	case config.ProviderAnthropic, "":
		return NewAnthropicClient(opts)
	case config.ProviderGemini:
		return NewGeminiClient(ctx, opts)
	case config.ProviderOpenAI:
		return NewOpenAIClient(opts)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

// withTimeout applies the per-request timeout when one is configured.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// resolve fills request defaults from the client settings.
func resolve(req Request, model string) (Request, error) {
	if req.Prompt == "" {
		return req, ErrEmptyPrompt
	}
	if req.Model == "" {
		req.Model = model
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = DefaultMaxTokens
	}
	return req, nil
}

// classify attaches a sentinel to err based on the HTTP status or context state.
func classify(provider string, status int, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", provider, ErrTimeout, err)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%s: %w: %w", provider, ErrUnauthorized, err)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w: %w", provider, ErrRateLimited, err)
	default:
		return fmt.Errorf("%s API error: %w", provider, err)
	}
}
