// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/skillgap/internal/taxonomy"
	"github.com/pdiddy/skillgap/pkg/types"
)

func defaultMatcher(t *testing.T) *Matcher {
	t.Helper()
	tax, err := taxonomy.Default()
	require.NoError(t, err)
	return New(tax, types.MatchConfig{})
}

func TestMatch(t *testing.T) {
	m := defaultMatcher(t)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "skills in a sentence",
			text: "Proficient in Python and advanced SQL, built with pandas",
			want: []string{"pandas", "python", "sql"},
		},
		{
			name: "hyphen and space forms",
			text: "machine learning and scikit-learn",
			want: []string{"machine-learning", "scikit-learn"},
		},
		{
			name: "symbolic names",
			text: "C++ and C# with Node.js",
			want: []string{"cpp", "csharp", "nodejs"},
		},
		{
			name: "synonym inside a longer word does not match",
			text: "Built HTML and CSS pages",
			want: []string{"css", "html"},
		},
		{
			name: "no taxonomy hits",
			text: "enjoys hiking and baking bread",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.text))
		})
	}
}

func TestMatchEveryCanonicalName(t *testing.T) {
	m := defaultMatcher(t)
	for _, e := range m.Taxonomy().Entries() {
		assert.Contains(t, m.Match(e.Name), e.Name, "canonical %q not matched", e.Name)
	}
}

func TestMatchEverySynonym(t *testing.T) {
	m := defaultMatcher(t)
	for _, syn := range m.Taxonomy().Synonyms() {
		got := m.Match(syn.Phrase)
		assert.Contains(t, got, syn.Canonical, "synonym %q did not resolve", syn.Phrase)
		assert.NotContains(t, got, syn.Phrase)
	}
}

func TestMatchDetailedMethods(t *testing.T) {
	m := defaultMatcher(t)

	got := m.MatchDetailed("Deployed postgres on k8s clusters")
	assert.Equal(t, []Result{
		{Skill: "kubernetes", Method: MethodSynonym, Score: 1.0},
		{Skill: "postgresql", Method: MethodSynonym, Score: 1.0},
	}, got)

	got = m.MatchDetailed("python")
	assert.Equal(t, []Result{{Skill: "python", Method: MethodExact, Score: 1.0}}, got)
}

func TestMatchFuzzyBoundary(t *testing.T) {
	m := defaultMatcher(t)

	t.Run("single typo in a long word matches", func(t *testing.T) {
		got := m.MatchDetailed("Ran services on kubernets clusters")
		require.Len(t, got, 1)
		assert.Equal(t, "kubernetes", got[0].Skill)
		assert.Equal(t, MethodFuzzy, got[0].Method)
		assert.InDelta(t, 0.9, got[0].Score, 1e-9)
	})

	t.Run("multi-word skill window matches", func(t *testing.T) {
		got := m.MatchDetailed("studied machine lerning theory")
		require.Len(t, got, 1)
		assert.Equal(t, "machine-learning", got[0].Skill)
		assert.Equal(t, MethodFuzzy, got[0].Method)
	})

	t.Run("distant word does not match", func(t *testing.T) {
		assert.Empty(t, m.Match("pxnxzz"))
	})

	t.Run("threshold is configurable", func(t *testing.T) {
		strict := New(m.Taxonomy(), types.MatchConfig{FuzzyThreshold: 0.95})
		assert.Empty(t, strict.Match("kubernets"))
	})
}

func TestMatchPhraseLongerThanNGrams(t *testing.T) {
	tax, err := taxonomy.New(taxonomy.File{
		Skills:   []string{"unit-testing"},
		Synonyms: map[string][]string{"unit-testing": {"test driven development practices at scale"}},
	})
	require.NoError(t, err)
	m := New(tax, types.MatchConfig{MaxNGram: 4})

	got := m.MatchDetailed("we follow test driven development practices at scale daily")
	assert.Equal(t, []Result{{Skill: "unit-testing", Method: MethodPhrase, Score: 1.0}}, got)
}

func TestMatchConcurrentUse(t *testing.T) {
	m := defaultMatcher(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, []string{"docker", "go"}, m.Match("services in go shipped with docker"))
		}()
	}
	wg.Wait()
}

func TestRatio(t *testing.T) {
	assert.InDelta(t, 1-3.0/7.0, Ratio("kitten", "sitting"), 1e-9)
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Equal(t, 1.0, Ratio("sql", "sql"))
}
