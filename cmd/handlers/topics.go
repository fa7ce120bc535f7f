package handlers

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"insightly/internal/core"
)

// NewTopicsCmd creates the topics command
func NewTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List the available AI and PM topics",
		// Topics are built in; no config or credential needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			printTopics(cmd.OutOrStdout())
			return nil
		},
	}
}

func printTopics(out io.Writer) {
	for i, c := range core.Categories {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s (--%s-topic):\n", c.Label(), c)

		defaults := make(map[string]bool)
		for _, t := range core.DefaultTopics(c) {
			defaults[t] = true
		}
		for _, t := range core.TopicsFor(c) {
			marker := " "
			if defaults[t] {
				marker = "*"
			}
			fmt.Fprintf(out, "  %s %s\n", marker, t)
		}
	}
	fmt.Fprintln(out, "\n* default selection")
}
