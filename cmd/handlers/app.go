package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"insightly/internal/config"
	"insightly/internal/core"
	"insightly/internal/insights"
	"insightly/internal/llm"
)

// newTextGenerator builds the service client; tests replace it.
var newTextGenerator = llm.New

// requestFlags are the generation inputs shared by generate and tui.
type requestFlags struct {
	aiTopics    []string
	pmTopics    []string
	aiCount     int
	pmCount     int
	teamContext string
	date        string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVar(&f.aiTopics, "ai-topic", nil, "AI topic (repeatable; default: first three AI topics)")
	flags.StringSliceVar(&f.pmTopics, "pm-topic", nil, "PM topic (repeatable; default: first three PM topics)")
	flags.IntVar(&f.aiCount, "ai-count", 2, "Number of AI insights (1-3)")
	flags.IntVar(&f.pmCount, "pm-count", 2, "Number of PM insights (1-3)")
	flags.StringVar(&f.teamContext, "context", "", "Team context embedded in the AI prompt")
	flags.StringVar(&f.date, "date", "", "Issue date as YYYY-MM-DD (default: today)")
}

// request converts flags into a generation request. Validation of counts and
// topic membership is left to the generator.
func (f *requestFlags) request(now time.Time) (insights.Request, error) {
	date := now
	if f.date != "" {
		parsed, err := time.Parse("2006-01-02", f.date)
		if err != nil {
			return insights.Request{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", f.date)
		}
		date = parsed
	}

	aiTopics := f.aiTopics
	if len(aiTopics) == 0 {
		aiTopics = core.DefaultTopics(core.CategoryAI)
	}
	pmTopics := f.pmTopics
	if len(pmTopics) == 0 {
		pmTopics = core.DefaultTopics(core.CategoryPM)
	}

	return insights.Request{
		IssueDate:   date,
		AITopics:    aiTopics,
		PMTopics:    pmTopics,
		AICount:     f.aiCount,
		PMCount:     f.pmCount,
		TeamContext: f.teamContext,
	}, nil
}

// newGenerator creates the configured service client and wraps it in a generator.
func newGenerator(ctx context.Context, cfg *config.Config) (*insights.Generator, error) {
	client, err := newTextGenerator(ctx, cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.AI.Provider, err)
	}
	return insights.NewGenerator(client, insights.Options{
		Model:     cfg.AI.ModelName(),
		MaxTokens: cfg.AI.MaxTokens,
	}), nil
}
