package mounts

import (
	"mountscraper/lib/textutil"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// MinSearchScore is the lowest Jaro-Winkler similarity a fuzzy match needs.
const MinSearchScore = 0.8

// Match is a search hit, Id is the mount's key in the document.
type Match struct {
	Id    int
	Mount Mount
	Score float64
}

// Search finds mounts by name. a case-insensitive exact match is returned on
// its own with a score of 1, otherwise up to `limit` fuzzy matches are returned
// from best to worst.
func Search(mounts MountIndex, query string, limit int) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	for i, m := range mounts {
		if strings.EqualFold(m.Name, query) {
			return []Match{{Id: i + 1, Mount: m, Score: 1}}
		}
	}

	normalizedQuery := textutil.NormalizeName(query)
	var matches []Match
	for i, m := range mounts {
		score := matchr.JaroWinkler(normalizedQuery, textutil.NormalizeName(m.Name), false)
		if score < MinSearchScore {
			continue
		}
		matches = append(matches, Match{Id: i + 1, Mount: m, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
