package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"insightly/internal/config"
	"insightly/internal/logger"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "insightly",
		Short: "Generate bi-weekly AI and product management insight newsletters",
		Long: `Insightly asks a text-generation model for curated insights in two
categories, AI developments and product management practice, and turns
them into an email-ready newsletter.

Examples:
  # Generate a newsletter with default topics and print the email text
  insightly generate

  # Pick topics and counts, write a Markdown file
  insightly generate --ai-topic "Multilingual AI" --pm-topic "Team Leadership" \
    --ai-count 3 --pm-count 1 --format markdown --output-dir newsletters

  # Serve the HTTP API
  insightly serve --port 8080

  # Interactive session
  insightly tui`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.insightly.yaml)")

	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewTopicsCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewTUICmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig loads configuration and applies logging settings. A missing
// credential fails here, before any command runs.
func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	logger.Configure(cfg.Logging.Level, cfg.Logging.Format)
	if cfg.App.ConfigFile != "" {
		logger.Debug("Using config file", "path", cfg.App.ConfigFile)
	}
	return nil
}
