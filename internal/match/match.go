// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match finds canonical taxonomy skills in free text. Each skill
// is tried against four strategies in order and the first one that
// fires wins: exact n-gram match, synonym reachable from an n-gram,
// synonym phrase anywhere in the text, and an edit-distance fuzzy match
// bounded by a high similarity threshold.
package match

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/pdiddy/skillgap/internal/normalize"
	"github.com/pdiddy/skillgap/internal/taxonomy"
	"github.com/pdiddy/skillgap/pkg/types"
)

const (
	// DefaultMaxNGram is the longest candidate phrase generated from text.
	DefaultMaxNGram = 4

	// DefaultFuzzyThreshold is the minimum similarity ratio for a fuzzy match.
	DefaultFuzzyThreshold = 0.88
)

// Method names the strategy that produced a match.
type Method string

const (
	MethodExact   Method = "exact"
	MethodSynonym Method = "synonym"
	MethodPhrase  Method = "phrase"
	MethodFuzzy   Method = "fuzzy"
)

// Result is one matched skill with the strategy that found it. Score is
// 1.0 except for fuzzy matches, where it is the similarity ratio.
type Result struct {
	Skill  string  `json:"skill" yaml:"skill"`
	Method Method  `json:"method" yaml:"method"`
	Score  float64 `json:"score" yaml:"score"`
}

// skillForm is a canonical skill precomputed for matching.
type skillForm struct {
	name    string
	key     string
	words   int
	compact string
}

// Matcher matches text against a taxonomy. It is immutable after New and
// safe for concurrent use.
type Matcher struct {
	tax       *taxonomy.Taxonomy
	maxN      int
	threshold float64
	skills    []skillForm
	phrases   *phraseScanner
}

// New builds a Matcher over tax. Zero config values take the defaults.
func New(tax *taxonomy.Taxonomy, cfg types.MatchConfig) *Matcher {
	m := &Matcher{
		tax:       tax,
		maxN:      cfg.MaxNGram,
		threshold: cfg.FuzzyThreshold,
		phrases:   newPhraseScanner(tax.Synonyms()),
	}
	if m.maxN <= 0 {
		m.maxN = DefaultMaxNGram
	}
	if m.threshold <= 0 || m.threshold > 1 {
		m.threshold = DefaultFuzzyThreshold
	}
	for _, e := range tax.Entries() {
		key := normalize.Key(e.Name)
		m.skills = append(m.skills, skillForm{
			name:    e.Name,
			key:     key,
			words:   len(strings.Fields(key)),
			compact: normalize.Compact(key),
		})
	}
	return m
}

// Taxonomy returns the taxonomy the matcher was built over.
func (m *Matcher) Taxonomy() *taxonomy.Taxonomy {
	return m.tax
}

// Match returns the sorted set of canonical skills present in text.
func (m *Matcher) Match(text string) []string {
	results := m.MatchDetailed(text)
	if len(results) == 0 {
		return nil
	}
	skills := make([]string, len(results))
	for i, r := range results {
		skills[i] = r.Skill
	}
	return skills
}

// MatchDetailed is like Match but reports how each skill was found.
// Results are sorted by skill name.
func (m *Matcher) MatchDetailed(text string) []Result {
	cleaned := normalize.Clean(text)
	if cleaned == "" {
		return nil
	}
	keyWords := strings.Fields(strings.ReplaceAll(cleaned, "-", " "))
	keyText := strings.Join(keyWords, " ")

	gramKeys := make(map[string]bool)
	for g := range normalize.NGrams(normalize.Words(cleaned), m.maxN) {
		gramKeys[strings.ReplaceAll(g, "-", " ")] = true
	}
	for g := range normalize.NGrams(keyWords, m.maxN) {
		gramKeys[g] = true
	}

	synonymHits := make(map[string]bool)
	for g := range gramKeys {
		if target, ok := m.tax.SynonymTarget(g); ok {
			synonymHits[target] = true
		}
	}

	var phraseHits map[string]bool
	var fuzzy *fuzzyIndex

	var results []Result
	for _, s := range m.skills {
		switch {
		case gramKeys[s.key]:
			results = append(results, Result{Skill: s.name, Method: MethodExact, Score: 1.0})
		case synonymHits[s.name]:
			results = append(results, Result{Skill: s.name, Method: MethodSynonym, Score: 1.0})
		default:
			if phraseHits == nil {
				phraseHits = m.phrases.scan(keyText)
				if phraseHits == nil {
					phraseHits = map[string]bool{}
				}
			}
			if phraseHits[s.name] {
				results = append(results, Result{Skill: s.name, Method: MethodPhrase, Score: 1.0})
				continue
			}
			if fuzzy == nil {
				fuzzy = newFuzzyIndex(keyWords)
			}
			if ratio, ok := fuzzy.best(s, m.threshold); ok {
				results = append(results, Result{Skill: s.name, Method: MethodFuzzy, Score: ratio})
			}
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Skill < results[j].Skill })
	return results
}

// fuzzyIndex holds the word views of one text used for fuzzy matching.
type fuzzyIndex struct {
	words  []string
	unique []string
}

func newFuzzyIndex(words []string) *fuzzyIndex {
	seen := make(map[string]bool, len(words))
	idx := &fuzzyIndex{words: words}
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			idx.unique = append(idx.unique, w)
		}
	}
	return idx
}

// best returns the first similarity ratio at or above threshold between
// the skill and a text word (single-word skills) or a window of as many
// words as the skill has (multi-word skills).
func (f *fuzzyIndex) best(s skillForm, threshold float64) (float64, bool) {
	if s.words <= 1 {
		for _, w := range f.unique {
			if r, ok := similar(w, s.compact, threshold); ok {
				return r, true
			}
		}
		return 0, false
	}
	for i := 0; i+s.words <= len(f.words); i++ {
		window := strings.Join(f.words[i:i+s.words], " ")
		if r, ok := similar(window, s.key, threshold); ok {
			return r, true
		}
	}
	return 0, false
}

// similar computes the normalized edit-distance ratio
// 1 - distance/max(len(a), len(b)) and compares it with threshold.
// Pairs whose length difference alone rules out the threshold are
// skipped without computing the distance.
func similar(a, b string, threshold float64) (float64, bool) {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0, false
	}
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	if 1-float64(diff)/float64(longest) < threshold {
		return 0, false
	}
	ratio := Ratio(a, b)
	return ratio, ratio >= threshold
}

// Ratio returns the normalized Levenshtein similarity of a and b in [0,1].
func Ratio(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1.0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
