package llm

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/litsearch/internal/domain/category"
)

const systemPromptTemplate = `You are a biomedical named entity recognizer.
Find every mention of the following entity types in the user's text: %s.

Rules:
- Copy each mention exactly as it appears in the text. Do not paraphrase or expand abbreviations.
- Report every occurrence of a mention, including repeats of the same text.
- The procedure codes %s are always entities. Report each occurrence verbatim with the label %s.
- Use only the listed entity types as labels, written in upper case.
- If nothing matches, return an empty list.

Reply with JSON only, in this shape:
{"entities": [{"text": "<mention>", "label": "<TYPE>"}]}`

// buildSystemPrompt expects upper-cased labels. Category codes are reported
// under the first label so the reply filter keeps them.
func buildSystemPrompt(labels []string) string {
	return fmt.Sprintf(systemPromptTemplate,
		strings.Join(labels, ", "),
		strings.Join(category.Codes, ", "),
		labels[0],
	)
}

// stripFences removes a markdown code fence some models wrap JSON replies in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
