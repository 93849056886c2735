// Package suggest implements the heuristic parent-task scorer: given a
// new task's title and description it ranks recently updated tasks by
// keyword overlap plus a handful of gated bonus signals.
//
// This is a deterministic ranking heuristic, not a guarantee: false
// positives and negatives are acceptable. Scores are monotonic in
// shared-keyword count for fixed bonus factors.
package suggest

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/arturogj92/codeagentswarm-tasks/internal/task"
)

const (
	// DefaultWindow bounds the candidate pool to recently touched
	// tasks. A scope limiter, not a correctness requirement.
	DefaultWindow = 30 * 24 * time.Hour

	// DefaultLimit is the number of suggestions returned when the
	// caller does not specify one.
	DefaultLimit = 5

	// minScore is the acceptance floor: candidates at or below it are
	// never returned.
	minScore = 0.3
)

// Candidate is one scored parent suggestion. Ephemeral: it exists only
// for the duration of a suggest call.
type Candidate struct {
	Task   task.Task `json:"task"`
	Score  float64   `json:"similarity_score"`
	Reason string    `json:"reason"`
}

// Pool supplies candidate tasks. Satisfied by task.Store and by the
// domain service's backing store.
type Pool interface {
	ListTasks(f task.Filter) ([]task.Task, error)
}

// Engine scores parent-task candidates.
type Engine struct {
	pool   Pool
	window time.Duration
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithWindow overrides the candidate recency window.
func WithWindow(d time.Duration) Option {
	return func(e *Engine) { e.window = d }
}

// WithClock replaces the wall clock, for tests.
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

// NewEngine creates an Engine over the given candidate pool.
func NewEngine(pool Pool, opts ...Option) *Engine {
	e := &Engine{pool: pool, window: DefaultWindow, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SuggestParents ranks likely parent tasks for a new task described by
// title and description. Results are filtered to score > 0.3, sorted
// descending, and truncated to limit (default 5).
func (e *Engine) SuggestParents(title, description string, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	pool, err := e.pool.ListTasks(task.Filter{UpdatedSince: e.now().Add(-e.window)})
	if err != nil {
		return nil, err
	}

	newKw := keywordList(title, description, "")
	newRaw := toSet(tokenize(title+" "+description, false))

	candidates := []Candidate{}
	for _, t := range pool {
		score, reason := e.score(newKw, newRaw, t)
		if score <= minScore {
			continue
		}
		candidates = append(candidates, Candidate{Task: t, Score: score, Reason: reason})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// keywordList builds the weighted keyword list for a task: description
// tokens count twice to weight description over title; plan and
// implementation contribute once each.
func keywordList(title, description, extra string) []string {
	kw := tokenize(title, true)
	desc := tokenize(description, true)
	kw = append(kw, desc...)
	kw = append(kw, desc...)
	if extra != "" {
		kw = append(kw, tokenize(extra, true)...)
	}
	return kw
}

// score computes the similarity of a candidate task against the new
// task's keyword material. Returns 0 unless at least two independent
// bonus factors fired or the base keyword score alone exceeds 0.5.
func (e *Engine) score(newKw []string, newRaw map[string]bool, t task.Task) (float64, string) {
	candKw := keywordList(t.Title, t.Description, t.Plan+" "+t.Implementation)
	candRaw := toSet(tokenize(t.Title+" "+t.Description+" "+t.Plan+" "+t.Implementation, false))

	newSet := toSet(newKw)
	candSet := toSet(candKw)

	shared := []string{}
	for w := range newSet {
		if candSet[w] {
			shared = append(shared, w)
		}
	}
	sort.Strings(shared)

	denom := max(len(newKw), len(candKw))
	if denom == 0 {
		return 0, ""
	}
	base := float64(len(shared)) / float64(denom)

	// Every bonus is gated on at least one real keyword overlap, so
	// generic verbs alone can never pull in an unrelated task.
	bonus := 0.0
	factors := 0
	reasons := []string{}

	if len(shared) > 0 {
		if pairedActionVerbs(newRaw, candRaw) {
			bonus += 0.15
			factors++
			reasons = append(reasons, "related action verbs")
		}

		sharedComponents := []string{}
		for _, term := range componentLexicon {
			if newRaw[term] && candRaw[term] {
				sharedComponents = append(sharedComponents, term)
				factors++
			}
		}
		if n := len(sharedComponents); n > 0 {
			bonus += math.Min(0.1*float64(n), 0.3)
			reasons = append(reasons, "same component ("+strings.Join(sharedComponents, ", ")+")")
		}

		if bugFixCorrelation(newRaw, candRaw) {
			bonus += 0.15
			factors++
			reasons = append(reasons, "looks like a fix for it")
		}

		if hasContinuationMarker(newRaw) {
			bonus += 0.1
			factors++
			reasons = append(reasons, "continuation language")
		}
	}

	if factors < 2 && base <= 0.5 {
		return 0, ""
	}

	score := math.Min(1.0, base+bonus)
	return score, e.buildReason(shared, reasons, t)
}

// actionVerbPairs maps a verb in the new task to candidate verbs that
// commonly describe the matching parent work.
var actionVerbPairs = map[string][]string{
	"implement": {"fix", "add", "update", "create"},
	"fix":       {"implement", "add", "create", "build"},
	"test":      {"implement", "fix", "add"},
	"refactor":  {"implement", "create", "build"},
	"document":  {"implement", "add", "create"},
}

func pairedActionVerbs(newRaw, candRaw map[string]bool) bool {
	for verb, pairs := range actionVerbPairs {
		if !newRaw[verb] {
			continue
		}
		for _, p := range pairs {
			if candRaw[p] {
				return true
			}
		}
	}
	return false
}

var bugWords = []string{"bug", "error", "issue", "crash", "broken", "fail", "fails", "failing"}
var fixWords = []string{"fix", "fixed", "fixes", "resolve", "resolved", "patch", "bug"}

func bugFixCorrelation(newRaw, candRaw map[string]bool) bool {
	return containsAny(newRaw, bugWords) && containsAny(candRaw, fixWords)
}

var continuationWords = []string{
	"continue", "continues", "continuation", "also", "additionally",
	"next", "followup", "further", "remaining", "continuar", "además",
}

func hasContinuationMarker(raw map[string]bool) bool {
	return containsAny(raw, continuationWords)
}

func containsAny(set map[string]bool, words []string) bool {
	for _, w := range words {
		if set[w] {
			return true
		}
	}
	return false
}

// buildReason renders the strongest matched signal plus task recency as
// a human-readable sentence.
func (e *Engine) buildReason(shared, signals []string, t task.Task) string {
	parts := []string{}

	if len(shared) > 0 {
		show := shared
		if len(show) > 3 {
			show = show[:3]
		}
		parts = append(parts, fmt.Sprintf("shares %d keyword(s): %s", len(shared), strings.Join(show, ", ")))
	}
	if len(signals) > 0 {
		parts = append(parts, signals[0])
	}
	parts = append(parts, "updated "+humanAge(e.now().Sub(t.UpdatedAt)))

	return strings.Join(parts, "; ")
}

func humanAge(d time.Duration) string {
	switch days := int(d.Hours() / 24); {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
