package insights

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"insightly/internal/core"
	"insightly/internal/llm"
	"insightly/internal/logger"
)

// Bounds on the number of items requested per category.
const (
	MinCount = 1
	MaxCount = 3
)

// Request describes one generation run.
type Request struct {
	IssueDate   time.Time
	AITopics    []string
	PMTopics    []string
	AICount     int
	PMCount     int
	TeamContext string
}

// Options configures a Generator. Zero values pick sensible defaults.
type Options struct {
	Model     string           // Model identifier, defaults to the client's model
	MaxTokens int              // Reply bound per request, defaults to llm.DefaultMaxTokens
	Logger    *slog.Logger     // Defaults to the process logger
	Now       func() time.Time // Clock used for CreatedAt
}

// Generator produces insight batches through a text-generation service.
type Generator struct {
	client llm.TextGenerator
	opts   Options
}

// NewGenerator creates a generator bound to client.
func NewGenerator(client llm.TextGenerator, opts Options) *Generator {
	if opts.Model == "" {
		opts.Model = client.ModelName()
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = llm.DefaultMaxTokens
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Generator{client: client, opts: opts}
}

// Model returns the model identifier sent with every request.
func (g *Generator) Model() string {
	return g.opts.Model
}

// Normalize validates the request and returns a copy with duplicate topics collapsed
// and the issue date truncated to midnight UTC.
func (r Request) Normalize() (Request, error) {
	if r.IssueDate.IsZero() {
		return r, &ValidationError{Field: "issue_date", Message: "must be set"}
	}
	if r.AICount < MinCount || r.AICount > MaxCount {
		return r, &ValidationError{Field: "ai_count", Message: fmt.Sprintf("must be between %d and %d, got %d", MinCount, MaxCount, r.AICount)}
	}
	if r.PMCount < MinCount || r.PMCount > MaxCount {
		return r, &ValidationError{Field: "pm_count", Message: fmt.Sprintf("must be between %d and %d, got %d", MinCount, MaxCount, r.PMCount)}
	}

	var err error
	if r.AITopics, err = normalizeTopics(core.CategoryAI, "ai_topics", r.AITopics); err != nil {
		return r, err
	}
	if r.PMTopics, err = normalizeTopics(core.CategoryPM, "pm_topics", r.PMTopics); err != nil {
		return r, err
	}

	y, m, d := r.IssueDate.Date()
	r.IssueDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return r, nil
}

func normalizeTopics(c core.Category, field string, topics []string) ([]string, error) {
	if len(topics) == 0 {
		return nil, &ValidationError{Field: field, Message: "at least one topic is required"}
	}
	seen := make(map[string]bool, len(topics))
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		if !core.IsKnownTopic(c, t) {
			return nil, &ValidationError{Field: field, Message: fmt.Sprintf("unknown topic %q", t)}
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

// categoryResult is the outcome of one category request.
type categoryResult struct {
	records  []core.InsightRecord
	degraded bool
}

// Generate validates req, asks the service for both categories concurrently and
// assembles a batch. A service failure in either category fails the whole call.
func (g *Generator) Generate(ctx context.Context, req Request) (core.InsightBatch, error) {
	req, err := req.Normalize()
	if err != nil {
		return core.InsightBatch{}, err
	}

	log := g.logger()
	log.Info("Generating insight batch",
		"issue_date", req.IssueDate.Format("2006-01-02"),
		"ai_count", req.AICount,
		"pm_count", req.PMCount,
		"model", g.opts.Model)

	var ai, pm categoryResult
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		ai, err = g.generateCategory(egCtx, core.CategoryAI, req.AITopics, req.AICount, req.TeamContext)
		return err
	})
	eg.Go(func() error {
		var err error
		pm, err = g.generateCategory(egCtx, core.CategoryPM, req.PMTopics, req.PMCount, req.TeamContext)
		return err
	})
	if err := eg.Wait(); err != nil {
		log.Error("Insight generation failed", "error", err)
		return core.InsightBatch{}, err
	}

	batch := core.InsightBatch{
		ID:          uuid.NewString(),
		IssueDate:   req.IssueDate,
		CreatedAt:   g.opts.Now(),
		AIItems:     ai.records,
		PMItems:     pm.records,
		AITopics:    req.AITopics,
		PMTopics:    req.PMTopics,
		TeamContext: req.TeamContext,
		ModelUsed:   g.opts.Model,
	}
	if ai.degraded {
		batch.Degraded = append(batch.Degraded, core.CategoryAI)
	}
	if pm.degraded {
		batch.Degraded = append(batch.Degraded, core.CategoryPM)
	}

	log.Info("Insight batch generated",
		"batch_id", batch.ID,
		"ai_items", len(batch.AIItems),
		"pm_items", len(batch.PMItems),
		"degraded", len(batch.Degraded))
	return batch, nil
}

func (g *Generator) generateCategory(ctx context.Context, c core.Category, topics []string, count int, teamContext string) (categoryResult, error) {
	log := g.logger().With("category", string(c))

	text, err := g.client.GenerateText(ctx, llm.Request{
		Model:     g.opts.Model,
		MaxTokens: g.opts.MaxTokens,
		Prompt:    BuildPrompt(c, topics, count, teamContext),
	})
	if err != nil {
		return categoryResult{}, &GenerationError{Category: c, Err: err}
	}

	switch res := ParseReply(text).(type) {
	case Parsed:
		records, padded := fitToCount(res.Records, c, count)
		if padded {
			log.Warn("Reply had fewer records than requested, padding with built-in content",
				"reason", "short reply", "parsed", len(res.Records), "requested", count, "dropped", res.Dropped)
		} else if res.Dropped > 0 {
			log.Warn("Dropped invalid records from reply", "dropped", res.Dropped)
		}
		return categoryResult{records: records, degraded: padded}, nil

	case ParseFailure:
		log.Warn("Unusable reply, using built-in content", "reason", res.Reason)
		records, _ := fitToCount(nil, c, count)
		return categoryResult{records: records, degraded: true}, nil
	}

	return categoryResult{}, &GenerationError{Category: c, Err: fmt.Errorf("unexpected parse result")}
}

func (g *Generator) logger() *slog.Logger {
	if g.opts.Logger != nil {
		return g.opts.Logger
	}
	return logger.Get()
}
