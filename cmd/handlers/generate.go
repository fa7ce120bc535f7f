package handlers

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"insightly/internal/config"
	"insightly/internal/export"
	"insightly/internal/logger"
	"insightly/internal/messaging"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	var (
		flags     requestFlags
		format    string
		outputDir string
		share     []string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one newsletter batch",
		Long: `Generate one batch of AI and PM insights and print it, or write it to a file.

Formats:
  email     Plain text ready to paste into an email client (default)
  json      Structured dump of the whole batch
  markdown  Readable page with one section per category
  html      HTML email body rendered from the Markdown page

Examples:
  insightly generate
  insightly generate --date 2025-03-14 --ai-count 3 --format json
  insightly generate --context "Multilingual shopping assistant" --output-dir newsletters
  insightly generate --share slack`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), flags, format, outputDir, share)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: email, json, markdown, html (default from config: email)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Write to a file in this directory instead of stdout")
	cmd.Flags().StringSliceVar(&share, "share", nil, "Also post the batch to a team channel: slack, discord (repeatable)")

	return cmd
}

func runGenerate(ctx context.Context, out io.Writer, flags requestFlags, formatName, outputDir string, share []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.Get()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if formatName == "" {
		formatName = cfg.Output.Format
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	req, err := flags.request(time.Now())
	if err != nil {
		return err
	}

	platforms := make([]messaging.MessagePlatform, 0, len(share))
	for _, name := range share {
		p, err := messaging.ParsePlatform(name)
		if err != nil {
			return err
		}
		platforms = append(platforms, p)
	}

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}

	batch, err := gen.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to generate newsletter: %w", err)
	}

	if len(platforms) > 0 {
		client := messaging.NewMessagingClient(cfg.Sharing.SlackWebhookURL, cfg.Sharing.DiscordWebhookURL)
		for _, p := range platforms {
			if err := client.Share(ctx, p, batch); err != nil {
				return fmt.Errorf("failed to share to %s: %w", p, err)
			}
			log.Info("Newsletter shared", "platform", p, "batch_id", batch.ID)
		}
	}

	content, err := export.Render(batch, format, export.EmailOptionsFromConfig(cfg.Newsletter))
	if err != nil {
		return err
	}

	if outputDir == "" {
		_, err = out.Write(append(content, '\n'))
		return err
	}

	path, err := export.WriteToFile(content, outputDir, export.FilenameFor(batch, format))
	if err != nil {
		return err
	}
	log.Info("Newsletter written", "path", path, "format", format)
	fmt.Fprintln(out, path)
	return nil
}
