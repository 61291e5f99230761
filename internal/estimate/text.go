package estimate

import (
	"sort"

	"github.com/pdiddy/skillgap/internal/normalize"
	"github.com/pdiddy/skillgap/pkg/types"
)

// expertiseWindow is how far, in characters, an expertise term may sit
// from a skill mention and still count.
const expertiseWindow = 100

var expertiseTerms = []string{
	"expert", "expertise", "proficient", "advanced", "extensive", "strong",
	"skilled", "senior", "lead",
}

// Text scores a skill found in unstructured text such as a resume. The
// mention count sets the level (not additive to the base); an expertise
// term near any mention adds 0.10.
func (e *Estimator) Text(skill, text string) types.Score {
	keyText := normalize.Key(text)
	positions := e.positions(skill, keyText)
	mentions := len(positions)
	if mentions == 0 {
		mentions = 1
	}

	prof, conf := textRule.base, textRule.conf
	switch {
	case mentions >= 5:
		prof = 0.75
	case mentions >= 3:
		prof = 0.65
	case mentions >= 2:
		prof = 0.55
	}
	if mentions >= 2 {
		conf += 0.05
	}
	if mentions >= 3 {
		conf += 0.05
	}

	for _, p := range positions {
		lo := max(0, p[0]-expertiseWindow)
		hi := min(len(keyText), p[1]+expertiseWindow)
		if normalize.HasAnyWord(keyText[lo:hi], expertiseTerms) {
			prof += 0.10
			conf += 0.05
			break
		}
	}

	return textRule.score(prof, conf)
}

// mentions counts whole-word occurrences of skill or its synonyms in
// key-form text.
func (e *Estimator) mentions(skill, keyText string) int {
	return len(e.positions(skill, keyText))
}

// positions returns [start, end) byte offsets of every whole-word
// occurrence of skill or one of its synonyms in key-form text. Spans are
// taken longest first and any span overlapping a kept one is dropped, so
// "react js" is one mention, not one for react and one for the synonym.
func (e *Estimator) positions(skill, keyText string) [][2]int {
	var spans [][2]int
	for _, phrase := range e.phrases(skill) {
		spans = append(spans, normalize.WordPositions(keyText, phrase)...)
	}
	sort.SliceStable(spans, func(i, j int) bool {
		li, lj := spans[i][1]-spans[i][0], spans[j][1]-spans[j][0]
		if li != lj {
			return li > lj
		}
		return spans[i][0] < spans[j][0]
	})

	var kept [][2]int
	for _, s := range spans {
		if !overlapsAny(s, kept) {
			kept = append(kept, s)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i][0] < kept[j][0] })
	return kept
}

func overlapsAny(s [2]int, kept [][2]int) bool {
	for _, k := range kept {
		if s[0] < k[1] && k[0] < s[1] {
			return true
		}
	}
	return false
}

// phrases returns the key forms skill can appear as in text.
func (e *Estimator) phrases(skill string) []string {
	phrases := []string{normalize.Key(skill)}
	if e.tax == nil {
		return phrases
	}
	if entry, ok := e.tax.Lookup(skill); ok {
		for _, syn := range entry.Synonyms {
			phrases = append(phrases, normalize.Key(syn))
		}
	}
	return phrases
}
