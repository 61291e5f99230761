package match

import (
	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/pdiddy/skillgap/internal/taxonomy"
)

// phraseScanner finds synonym phrases anywhere in cleaned text, whether
// or not they line up with generated n-grams. Every occurrence must sit
// on word boundaries so "ml" does not fire inside "html".
type phraseScanner struct {
	automaton aho.AhoCorasick
	patterns  []string
	targets   []string
}

func newPhraseScanner(synonyms []taxonomy.Synonym) *phraseScanner {
	if len(synonyms) == 0 {
		return nil
	}
	s := &phraseScanner{
		patterns: make([]string, len(synonyms)),
		targets:  make([]string, len(synonyms)),
	}
	for i, syn := range synonyms {
		s.patterns[i] = syn.Key
		s.targets[i] = syn.Canonical
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	s.automaton = builder.Build(s.patterns)
	return s
}

// scan returns the canonical skills whose synonym phrases occur in
// keyText as whole words. keyText must be in key form (cleaned, hyphens
// replaced by spaces).
func (s *phraseScanner) scan(keyText string) map[string]bool {
	if s == nil || keyText == "" {
		return nil
	}
	hits := make(map[string]bool)
	content := []byte(keyText)
	iter := s.automaton.IterOverlappingByte(content)
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		if !wordBounded(content, m.Start(), m.End()) {
			continue
		}
		hits[s.targets[m.Pattern()]] = true
	}
	return hits
}

func wordBounded(content []byte, start, end int) bool {
	if start > 0 && content[start-1] != ' ' {
		return false
	}
	if end < len(content) && content[end] != ' ' {
		return false
	}
	return true
}
