// Package suggest provides a small, deterministic, concurrency-safe in-memory
// index over previously used search queries, for type-ahead suggestions. It is
// intentionally dependency-free:
//
//   - No logging in the library (callers decide how/what to log)
//   - Functional options (stopwords, entry cap, minimum length)
//   - Unicode-aware tokenization
//   - Immutable after construction (safe for concurrent use)
//   - Deterministic scoring and sorting (stable order for ties)
//
// Scoring combines Jaccard similarity between the partial-input token set and
// each entry's token set with a fixed bonus when the entry starts with the
// partial input, so literal prefix matches surface first.
package suggest

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Suggestion is one ranked past query with its similarity score.
type Suggestion struct {
	Query string
	Score float64
}

// Index is the minimal interface implemented by all suggestion indices.
type Index interface {
	TopK(partial string, k int) []Suggestion
}

// prefixBonus is added on top of the Jaccard score when an entry literally
// starts with the partial input. It exceeds the Jaccard range [0,1] so prefix
// matches always outrank token-only matches.
const prefixBonus = 1.5

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	minEntryRunes int
	stopwords     map[string]struct{}
	maxEntries    int
}

func defaultConfig() config {
	return config{
		minEntryRunes: 2,
		stopwords:     nil,
		maxEntries:    0,
	}
}

// WithMinEntryRunes drops entries shorter than n runes after normalization.
func WithMinEntryRunes(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.minEntryRunes = n
		}
	}
}

// WithStopwords removes the given words from token sets before scoring.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// WithMaxEntries caps how many queries the index keeps, in input order.
func WithMaxEntries(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// ----------------------------------------------------------------------------
// Implementation

type entry struct {
	query      string
	normalized string
	tokens     map[string]struct{}
	tLen       int
}

type index struct {
	cfg     config
	entries []entry
}

// NewIndex builds an Index from past queries, most recent first. Duplicate
// queries (after normalization) keep only their first occurrence, so the most
// recent use wins.
func NewIndex(queries []string, opts ...Option) Index {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	seen := make(map[string]struct{}, len(queries))
	entries := make([]entry, 0, len(queries))
	for _, raw := range queries {
		norm := Normalize(raw)
		if norm == "" {
			continue
		}
		if cfg.minEntryRunes > 0 && utf8.RuneCountInString(norm) < cfg.minEntryRunes {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		toks := tokenize(norm, cfg.stopwords)
		if len(toks) == 0 {
			continue
		}
		seen[norm] = struct{}{}
		entries = append(entries, entry{
			query:      strings.TrimSpace(raw),
			normalized: norm,
			tokens:     toks,
			tLen:       len(toks),
		})
		if cfg.maxEntries > 0 && len(entries) >= cfg.maxEntries {
			break
		}
	}
	return &index{cfg: cfg, entries: entries}
}

// TopK returns up to k best-matching past queries for the partial input.
func (i *index) TopK(partial string, k int) []Suggestion {
	if len(i.entries) == 0 {
		return nil
	}
	norm := Normalize(partial)
	if norm == "" {
		return nil
	}
	if k <= 0 {
		k = 5
	}
	pTokens := tokenize(norm, i.cfg.stopwords)
	pLen := len(pTokens)

	type scored struct {
		query    string
		score    float64
		lenRunes int
	}

	buf := make([]scored, 0, min(k*4, len(i.entries)))
	for _, e := range i.entries {
		score := 0.0
		if strings.HasPrefix(e.normalized, norm) {
			score += prefixBonus
		}
		if pLen > 0 {
			over := overlap(pTokens, e.tokens)
			if union := float64(pLen + e.tLen - over); over > 0 && union > 0 {
				score += float64(over) / union
			}
		}
		if score <= 0 {
			continue
		}
		buf = append(buf, scored{
			query:    e.query,
			score:    score,
			lenRunes: utf8.RuneCountInString(e.query),
		})
	}
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].score != buf[b].score {
			return buf[a].score > buf[b].score
		}
		if buf[a].lenRunes != buf[b].lenRunes {
			return buf[a].lenRunes < buf[b].lenRunes
		}
		return buf[a].query < buf[b].query
	})

	if k > len(buf) {
		k = len(buf)
	}
	out := make([]Suggestion, k)
	for j := 0; j < k; j++ {
		out[j] = Suggestion{Query: buf[j].query, Score: buf[j].score}
	}
	return out
}

// ----------------------------------------------------------------------------
// Helpers

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(s, -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
