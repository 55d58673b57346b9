// Package category folds arthroplasty synonyms into canonical procedure codes.
package category

import (
	"regexp"
	"strings"

	"github.com/kailas-cloud/litsearch/internal/domain/entity"
)

// Canonical procedure codes.
const (
	TSA     = "TSA"
	THA     = "THA"
	TKA     = "TKA"
	TJA     = "TJA"
	General = "General"
)

// Codes lists the canonical codes in rule order.
var Codes = []string{TSA, THA, TKA, TJA}

type rule struct {
	pattern *regexp.Regexp
	replace func(string) string
}

func literal(s string) func(string) string {
	return func(string) string { return s }
}

// Rules run as a fold: each one rewrites the output of the previous rule,
// so a later pattern can match text produced by an earlier one.
var rules = func() []rule {
	joints := []struct{ word, code string }{
		{"shoulder", TSA},
		{"hip", THA},
		{"knee", TKA},
		{"joint", TJA},
	}

	var rs []rule
	// arthr?oplast also accepts the common "arthoplasty" misspelling so that a
	// single pass collapses it; otherwise the spelling fix below would expose a
	// new code on the second pass.
	for _, j := range joints {
		rs = append(rs, rule{
			pattern: regexp.MustCompile(`(?i)(?:total\s+)?` + j.word + `\s+arthr?oplast(?:y|ies)`),
			replace: literal(j.code),
		})
	}
	for _, j := range joints {
		rs = append(rs, rule{
			pattern: regexp.MustCompile(`(?i)(?:total\s+)?` + j.word + `\s+replacements?`),
			replace: literal(j.code),
		})
	}
	rs = append(rs,
		rule{pattern: regexp.MustCompile(`(?i)arthoplast(?:y|ies)`), replace: literal("arthroplasty")},
		rule{pattern: regexp.MustCompile(`(?i)arthroplast(?:y|ies)`), replace: literal("arthroplasty")},
		rule{
			pattern: regexp.MustCompile(`(?i)t\.[shkj]\.a\.`),
			replace: func(m string) string { return strings.ReplaceAll(m, ".", "") },
		},
	)
	for _, j := range joints {
		rs = append(rs, rule{
			pattern: regexp.MustCompile(`(?i)` + j.word + `\s+procedures?`),
			replace: literal(j.code),
		})
	}
	return rs
}()

// Normalize applies every rewrite rule in order.
func Normalize(text string) string {
	for _, r := range rules {
		text = r.pattern.ReplaceAllStringFunc(text, r.replace)
	}
	return text
}

// IsCode reports whether s is one of TSA, THA, TKA or TJA.
func IsCode(s string) bool {
	for _, c := range Codes {
		if s == c {
			return true
		}
	}
	return false
}

// Categorize emits one CATEGORY entity per distinct code found among terms,
// or a single General entity when none is present.
func Categorize(terms []string) []entity.Entity {
	var out []entity.Entity
	seen := make(map[string]bool, len(Codes))
	for _, t := range terms {
		if !IsCode(t) || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, entity.Entity{Text: t, Label: entity.LabelCategory})
	}
	if len(out) == 0 {
		out = append(out, entity.Entity{Text: General, Label: entity.LabelCategory})
	}
	return out
}
