// Package entity defines extracted named entities and the extractor contract.
package entity

import "context"

// Labels produced by the extractor and by category derivation.
const (
	LabelDisease  = "DISEASE"
	LabelChemical = "CHEMICAL"
	LabelCategory = "CATEGORY"
)

// Entity is an (entity text, label) pair.
type Entity struct {
	Text  string `json:"entity"`
	Label string `json:"label"`
}

// Extractor maps text to entities. Order of the result is not guaranteed.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]Entity, error)
}

// GroupUnique groups entity texts by label and drops duplicates within each group.
// Labels keep first-seen order, as do texts inside a label.
func GroupUnique(ents []Entity) ([]string, map[string][]string) {
	var labels []string
	groups := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	for _, e := range ents {
		if e.Text == "" {
			continue
		}
		if _, ok := seen[e.Label]; !ok {
			seen[e.Label] = make(map[string]bool)
			labels = append(labels, e.Label)
		}
		if seen[e.Label][e.Text] {
			continue
		}
		seen[e.Label][e.Text] = true
		groups[e.Label] = append(groups[e.Label], e.Text)
	}
	return labels, groups
}

// Flatten turns grouped texts back into entities, preserving label order.
func Flatten(labels []string, groups map[string][]string) []Entity {
	var out []Entity
	for _, l := range labels {
		for _, text := range groups[l] {
			out = append(out, Entity{Text: text, Label: l})
		}
	}
	return out
}
