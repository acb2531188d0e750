package commands

import (
	"fmt"
	"io"
	"mountscraper/internal/mounts"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func PrintSummary(w io.Writer, summary Summary) {
	result := summary.Result

	t := newTable(w)
	t.SetTitle("Scrape")
	t.AppendRows([]table.Row{
		{"Rows", result.Rows},
		{"Successful", result.Document.TotalMounts},
		{"Skipped", result.Skipped},
		{"Output", summary.Output},
	})
	if summary.Downloads != nil {
		t.AppendRow(table.Row{
			"Icons",
			fmt.Sprintf("%d/%d downloaded to %s", summary.Downloads.Downloaded, result.Icons.Len(), summary.IconDir),
		})
	}
	t.Render()

	PrintStats(w, summary.Stats, true)
}

// PrintStats renders the flag totals and the type breakdown of a set of
// mounts, showIcons adds the icon filename of every type.
func PrintStats(w io.Writer, stats mounts.Stats, showIcons bool) {
	t := newTable(w)
	t.SetTitle("Mounts")
	t.AppendRows([]table.Row{
		{"Total", stats.Total},
		{"Obtainable", stats.Obtainable},
		{"Unobtainable", stats.Unobtainable},
		{"Cash Shop", stats.CashShop},
		{"Market Board", stats.MarketBoard},
	})
	t.Render()

	types := newTable(w)
	types.SetTitle(fmt.Sprintf("Types (%d)", len(stats.Types)))
	header := table.Row{"Type", "Mounts"}
	if showIcons {
		header = append(header, "Icon")
	}
	types.AppendHeader(header)

	for _, summary := range stats.Types {
		name := summary.Type
		if name == "" {
			name = "(none)"
		}
		row := table.Row{name, summary.Count}
		if showIcons {
			icon := summary.Icon
			if icon == "" {
				icon = "No icon"
			}
			row = append(row, icon)
		}
		types.AppendRow(row)
	}
	types.Render()
}
