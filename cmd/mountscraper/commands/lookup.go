package commands

import (
	"fmt"
	"mountscraper/internal/mounts"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var lookupFile string
var lookupLimit int

func init() {
	lookupCmd.Flags().StringVarP(&lookupFile, "file", "f", "", "The mount document to search, defaults to the configured output.")
	lookupCmd.Flags().IntVarP(&lookupLimit, "limit", "n", 5, "The maximum amount of fuzzy matches to print.")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <name> [--file <mounts.json>] [--limit <n>]",
	Short: "Finds a mount by name in a previously scraped document.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig(cmd)
		if err != nil {
			return err
		}
		path := cfg.Output
		if lookupFile != "" {
			path = lookupFile
		}

		doc, err := mounts.ReadDocument(path)
		if err != nil {
			return fmt.Errorf("read mount document: %w", err)
		}

		query := strings.Join(args, " ")
		matches := mounts.Search(doc.Mounts, query, lookupLimit)
		if len(matches) == 0 {
			return fmt.Errorf("no mount matches '%s'", query)
		}

		out := cmd.OutOrStdout()
		t := newTable(out)
		t.AppendHeader(table.Row{"ID", "Name", "Type", "Acquired By", "Seats", "Patch", "Score"})
		for _, match := range matches {
			m := match.Mount
			t.AppendRow(table.Row{
				match.Id,
				m.Name,
				m.Type,
				m.AcquiredBy,
				m.Seats,
				m.Patch,
				fmt.Sprintf("%.2f", match.Score),
			})
		}
		t.Render()

		if len(matches) == 1 && matches[0].Mount.Description != nil && *matches[0].Mount.Description != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, *matches[0].Mount.Description)
		}
		return nil
	},
}
