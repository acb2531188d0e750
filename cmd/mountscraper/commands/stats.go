package commands

import (
	"fmt"
	"mountscraper/internal/mounts"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats [mounts.json]",
	Short: "Prints statistics about a previously scraped document.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig(cmd)
		if err != nil {
			return err
		}
		path := cfg.Output
		if len(args) > 0 {
			path = args[0]
		}

		doc, err := mounts.ReadDocument(path)
		if err != nil {
			return fmt.Errorf("read mount document: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (version %s, updated %s)\n", path, doc.Version, doc.LastUpdated)
		PrintStats(out, mounts.Summarize(doc.Mounts, nil), false)
		return nil
	},
}
