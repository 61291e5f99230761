// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns free text into the cleaned form the skill
// matcher works on: lowercase, symbolic technology names rewritten to
// word form, everything outside [a-z0-9\s-] stripped, whitespace
// collapsed. It also produces word tokens and n-gram candidates.
package normalize

import (
	"strings"
)

// symbolRewrites maps technology names whose punctuation is significant
// onto word forms that survive stripping. Longer keys are applied first.
var symbolRewrites = []struct{ from, to string }{
	{"node.js", "nodejs"},
	{"next.js", "nextjs"},
	{"vue.js", "vuejs"},
	{"react.js", "reactjs"},
	{"asp.net", "aspnet"},
	{"ci/cd", "ci-cd"},
	{"ui/ux", "ui-ux"},
	{"c++", "cpp"},
	{"c#", "csharp"},
	{"f#", "fsharp"},
	{".net", "dotnet"},
}

var rewriter = newRewriter()

func newRewriter() *strings.Replacer {
	pairs := make([]string, 0, 2*len(symbolRewrites))
	for _, r := range symbolRewrites {
		pairs = append(pairs, r.from, " "+r.to+" ")
	}
	return strings.NewReplacer(pairs...)
}

// Clean lowercases text, rewrites symbolic names, strips characters
// outside [a-z0-9\s-], and collapses runs of whitespace to one space.
func Clean(text string) string {
	lower := strings.ToLower(text)
	lower = rewriter.Replace(lower)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '\f', r == '\v':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Words splits cleaned text into tokens. Stray hyphens that are not part
// of a word are dropped.
func Words(cleaned string) []string {
	fields := strings.Fields(cleaned)
	words := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "-")
		if f != "" {
			words = append(words, f)
		}
	}
	return words
}

// NGrams returns every n-gram of words for n = 1..maxN as a set. Words
// are joined with a single space.
func NGrams(words []string, maxN int) map[string]bool {
	grams := make(map[string]bool, len(words)*maxN)
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(words); i++ {
			grams[strings.Join(words[i:i+n], " ")] = true
		}
	}
	return grams
}

// Variants returns s together with its hyphen/space swapped forms.
func Variants(s string) []string {
	out := []string{s}
	if h := strings.ReplaceAll(s, " ", "-"); h != s {
		out = append(out, h)
	}
	if sp := strings.ReplaceAll(s, "-", " "); sp != s {
		out = append(out, sp)
	}
	return out
}

// Key returns the comparison form of a skill or synonym: cleaned, with
// hyphens turned into spaces and runs of spaces collapsed.
func Key(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(Clean(s), "-", " ")), " ")
}

// Compact returns s with all hyphens and spaces removed. The fuzzy
// matcher compares compact forms.
func Compact(s string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(s)
}

// WordPositions returns the [start, end) byte offsets of every
// whole-word occurrence of phrase in text. Both are expected in key
// form: words separated by single spaces.
func WordPositions(text, phrase string) [][2]int {
	if phrase == "" {
		return nil
	}
	var out [][2]int
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], phrase)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(phrase)
		if (start == 0 || text[start-1] == ' ') && (end == len(text) || text[end] == ' ') {
			out = append(out, [2]int{start, end})
		}
		from = start + 1
	}
	return out
}

// HasWord reports whether phrase occurs in text as whole words.
func HasWord(text, phrase string) bool {
	return len(WordPositions(text, phrase)) > 0
}

// HasAnyWord reports whether any of phrases occurs in text as whole words.
func HasAnyWord(text string, phrases []string) bool {
	for _, p := range phrases {
		if HasWord(text, p) {
			return true
		}
	}
	return false
}
