package suggest

import (
	"strings"
	"unicode"
)

// ShortLabel derives a terminal tab label of at most three words from a
// task title: the first word, plus up to two distinctive later words
// (stop words, generic verbs, and short words are skipped).
//
// Used as a best-effort UI hint when a task starts; callers must never
// block task start on it.
func ShortLabel(title string) string {
	words := strings.FieldsFunc(title, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	if len(words) == 0 {
		return ""
	}

	label := []string{words[0]}
	for _, w := range words[1:] {
		if len(label) == 3 {
			break
		}
		low := strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		}))
		if len(low) < minTokenLen && !isLexiconTerm(low) {
			continue
		}
		if stopWords[low] || genericVerbs[low] {
			continue
		}
		label = append(label, w)
	}
	return strings.Join(label, " ")
}
