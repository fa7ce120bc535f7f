package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"insightly/internal/config"
	"insightly/internal/export"
	"insightly/internal/session"
	"insightly/internal/tui"
)

// NewTUICmd creates the tui command
func NewTUICmd() *cobra.Command {
	var (
		flags     requestFlags
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start an interactive session",
		Long: `Start an interactive terminal session with its own archive.

Keys:
  g      generate a batch using the flags below
  enter  make the highlighted batch current
  e      write the highlighted batch's email text to the output directory
  d      delete the highlighted batch
  j/k    move
  q      quit (the archive is discarded)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags, outputDir)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for exported email text (default from config)")

	return cmd
}

func runTUI(ctx context.Context, flags requestFlags, outputDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if outputDir == "" {
		outputDir = cfg.Output.Directory
	}

	req, err := flags.request(time.Time{})
	if err != nil {
		return err
	}

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}

	return tui.Run(ctx, session.NewState(), gen, tui.Options{
		Request:   req,
		OutputDir: outputDir,
		Email:     export.EmailOptionsFromConfig(cfg.Newsletter),
	})
}
