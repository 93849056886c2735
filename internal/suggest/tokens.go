package suggest

import (
	"strings"
	"unicode"
)

// minTokenLen: tokens this short carry no signal and are dropped.
const minTokenLen = 4

// stopWords covers English plus Spanish filler words that show up in
// mixed-language task titles.
var stopWords = map[string]bool{
	// English
	"this": true, "that": true, "with": true, "from": true, "into": true,
	"when": true, "then": true, "them": true, "they": true, "have": true,
	"will": true, "would": true, "should": true, "could": true, "been": true,
	"were": true, "what": true, "where": true, "which": true, "while": true,
	"about": true, "after": true, "before": true, "there": true, "their": true,
	"some": true, "same": true, "such": true, "only": true, "over": true,
	"very": true, "more": true, "most": true, "other": true,
	"does": true, "done": true, "need": true, "needs": true, "want": true,
	// Spanish
	"para": true, "como": true, "este": true, "esta": true, "esto": true,
	"pero": true, "cuando": true, "donde": true, "tiene": true, "hacer": true,
	"desde": true, "sobre": true, "entre": true, "también": true, "porque": true,
	"todos": true, "todas": true, "ahora": true, "nuevo": true, "nueva": true,
}

// genericVerbs are action words so common in task titles that they
// carry no discriminative signal. They are excluded from keyword sets
// but still visible to the verb-pairing bonus.
var genericVerbs = map[string]bool{
	"fix": true, "fixes": true, "fixed": true,
	"add": true, "adds": true, "added": true,
	"update": true, "updates": true, "updated": true,
	"create": true, "creates": true, "created": true,
	"build": true, "builds": true, "built": true,
	"make": true, "change": true, "changed": true, "changes": true,
	"implement": true, "implements": true, "implemented": true,
	"remove": true, "removed": true, "removes": true,
	"improve": true, "improved": true, "refactor": true,
	"arreglar": true, "agregar": true, "crear": true, "cambiar": true,
}

// componentLexicon is the fixed domain vocabulary used for the shared
// component bonus.
var componentLexicon = []string{
	"auth", "authentication", "login", "database", "migration", "api",
	"endpoint", "frontend", "backend", "server", "client", "config",
	"terminal", "kanban", "board", "task", "subtask", "project",
	"notification", "webhook", "websocket", "session", "cache", "queue",
	"git", "diff", "commit", "deploy", "test", "tests", "logging",
	"search", "parser", "render", "window", "electron", "sqlite",
}

// tokenize lowercases text and splits it into word tokens, dropping
// short tokens and stop words. When dropGeneric is true, generic action
// verbs are dropped as well (keyword-set mode).
func tokenize(text string, dropGeneric bool) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < minTokenLen && !isLexiconTerm(f) {
			continue
		}
		if stopWords[f] {
			continue
		}
		if dropGeneric && genericVerbs[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// isLexiconTerm lets short domain words (api, git, ...) survive the
// length filter.
func isLexiconTerm(w string) bool {
	for _, term := range componentLexicon {
		if w == term {
			return true
		}
	}
	return false
}

// toSet collapses a token list into a set.
func toSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}
