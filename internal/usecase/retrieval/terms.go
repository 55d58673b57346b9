package retrieval

import (
	"slices"

	"github.com/kailas-cloud/litsearch/internal/domain/entity"
)

// TopTerms pools entity texts in document order, then extraction order, and
// returns the n most frequent. Ties keep the order of first encounter.
func TopTerms(docs [][]entity.Entity, n int) []string {
	if n <= 0 {
		return nil
	}

	type tally struct {
		text  string
		count int
	}
	var order []tally
	pos := make(map[string]int)
	for _, ents := range docs {
		for _, e := range ents {
			if e.Text == "" {
				continue
			}
			if i, ok := pos[e.Text]; ok {
				order[i].count++
				continue
			}
			pos[e.Text] = len(order)
			order = append(order, tally{text: e.Text, count: 1})
		}
	}

	slices.SortStableFunc(order, func(a, b tally) int { return b.count - a.count })

	out := make([]string, 0, min(n, len(order)))
	for _, t := range order[:min(n, len(order))] {
		out = append(out, t.text)
	}
	return out
}
