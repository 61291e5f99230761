package extract

import (
	"context"
	"strings"

	"github.com/pdiddy/skillgap/internal/estimate"
	"github.com/pdiddy/skillgap/internal/match"
	"github.com/pdiddy/skillgap/internal/resume"
	"github.com/pdiddy/skillgap/internal/taxonomy"
	"github.com/pdiddy/skillgap/pkg/types"
)

// listedBoost raises confidence for resume skills that also appear in a
// skills section.
const listedBoost = 0.05

// TaxonomyStrategy finds skills with the Matcher and scores them with
// the Estimator. Listed technologies (tech stacks, repository language
// and topics) are resolved through the taxonomy as well.
type TaxonomyStrategy struct {
	matcher       *match.Matcher
	estimator     *estimate.Estimator
	minTextLength int
}

// NewTaxonomyStrategy returns a TaxonomyStrategy. Resume text shorter
// than minTextLength (default 50) yields no skills.
func NewTaxonomyStrategy(m *match.Matcher, e *estimate.Estimator, minTextLength int) *TaxonomyStrategy {
	if minTextLength <= 0 {
		minTextLength = DefaultMinTextLength
	}
	return &TaxonomyStrategy{matcher: m, estimator: e, minTextLength: minTextLength}
}

func (s *TaxonomyStrategy) Name() string { return "taxonomy" }

// Skills implements Strategy.
func (s *TaxonomyStrategy) Skills(_ context.Context, rec types.Record) (map[string]types.Score, error) {
	out := make(map[string]types.Score)
	for _, name := range s.find(rec) {
		out[name] = s.estimator.Estimate(name, rec)
	}

	if r, ok := rec.(types.ResumeText); ok && len(out) > 0 {
		_, _, confCap := estimate.Bounds(types.KindResume)
		for _, name := range resume.ListedSkills(r.RawText, s.matcher.Taxonomy()) {
			if sc, ok := out[name]; ok {
				sc.Confidence = min(sc.Confidence+listedBoost, confCap)
				out[name] = sc
			}
		}
	}
	return out, nil
}

func (s *TaxonomyStrategy) find(rec types.Record) []string {
	text := rec.Text()
	if rec.Kind() == types.KindResume && len(strings.TrimSpace(text)) < s.minTextLength {
		return nil
	}

	found := make(map[string]bool)
	for _, name := range s.matcher.Match(text) {
		found[name] = true
	}
	for _, name := range resolveAll(s.matcher.Taxonomy(), listed(rec)) {
		found[name] = true
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	return names
}

// listed returns the technologies a record names explicitly.
func listed(rec types.Record) []string {
	switch r := rec.(type) {
	case types.Project:
		return r.TechStack
	case types.WorkExperience:
		return r.TechnologiesUsed
	case types.Repository:
		return append([]string{r.Language}, r.Topics...)
	}
	return nil
}

func resolveAll(tax *taxonomy.Taxonomy, phrases []string) []string {
	var out []string
	for _, p := range phrases {
		if name, ok := tax.Resolve(p); ok {
			out = append(out, name)
		}
	}
	return out
}
