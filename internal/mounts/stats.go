package mounts

import "sort"

// TypeSummary describes one distinct mount type.
type TypeSummary struct {
	Type  string
	Count int
	// Icon is the filename of the type's icon, empty if none was found.
	Icon string
}

type Stats struct {
	Total        int
	Obtainable   int
	Unobtainable int
	CashShop     int
	MarketBoard  int
	// Types is sorted by type name.
	Types []TypeSummary
}

// Summarize counts the flags and types of a list of mounts, icons may be nil.
func Summarize(mounts []Mount, icons *IconRegistry) Stats {
	stats := Stats{Total: len(mounts)}
	counts := map[string]int{}

	for _, m := range mounts {
		if m.Obtainable {
			stats.Obtainable++
		}
		if m.CashShop {
			stats.CashShop++
		}
		if m.MarketBoard {
			stats.MarketBoard++
		}
		counts[m.Type]++
	}
	stats.Unobtainable = stats.Total - stats.Obtainable

	for typeName, count := range counts {
		summary := TypeSummary{Type: typeName, Count: count}
		if icons != nil {
			if entry, ok := icons.Lookup(typeName); ok {
				summary.Icon = entry.Filename
			}
		}
		stats.Types = append(stats.Types, summary)
	}
	sort.Slice(stats.Types, func(i, j int) bool {
		return stats.Types[i].Type < stats.Types[j].Type
	})

	return stats
}
