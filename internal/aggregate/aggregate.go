// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate merges per-source skill scores into one consensus
// record per skill. Proficiency is a source-weighted mean plus a small
// bonus for repeated observations; confidence is the plain mean plus a
// corroboration bonus. Aggregation is a pure function of its input.
package aggregate

import (
	"math"
	"sort"

	"github.com/pdiddy/skillgap/pkg/types"
)

// DefaultWeights ranks source kinds by how strongly they evidence
// proficiency. Kinds not listed weigh 1.0.
var DefaultWeights = map[types.SourceKind]float64{
	types.KindExperience:    2.0,
	types.KindProject:       1.5,
	types.KindResume:        1.3,
	types.KindCertification: 1.2,
	types.KindCourse:        1.0,
}

const (
	defaultWeight = 1.0

	frequencyStep  = 0.05
	frequencyMax   = 0.15
	corroboration  = 0.10
	corroborateMax = 0.20
	confidenceCap  = 0.95
)

// Aggregator merges source skill maps using a fixed weight table.
type Aggregator struct {
	weights map[types.SourceKind]float64
}

// New returns an Aggregator using DefaultWeights with overrides applied.
// Non-positive overrides are ignored.
func New(overrides map[types.SourceKind]float64) *Aggregator {
	w := make(map[types.SourceKind]float64, len(DefaultWeights)+len(overrides))
	for k, v := range DefaultWeights {
		w[k] = v
	}
	for k, v := range overrides {
		if v > 0 && !math.IsInf(v, 0) {
			w[k] = v
		}
	}
	return &Aggregator{weights: w}
}

// Weight returns the weight applied to observations of kind.
func (a *Aggregator) Weight(kind types.SourceKind) float64 {
	if w, ok := a.weights[kind]; ok {
		return w
	}
	return defaultWeight
}

// Aggregate merges sources using DefaultWeights.
func Aggregate(sources []types.SourceSkills) map[string]types.AggregatedSkill {
	return New(nil).Aggregate(sources)
}

type tally struct {
	weightedProf float64
	weightSum    float64
	confSum      float64
	n            int
	sources      []string
}

// Aggregate returns one record per skill observed in sources. Input
// scores are clamped to [0,1]. Sources with empty skill maps contribute
// nothing. Each record lists its sources as "kind:id" in input order.
func (a *Aggregator) Aggregate(sources []types.SourceSkills) map[string]types.AggregatedSkill {
	tallies := make(map[string]*tally)

	for _, src := range sources {
		w := a.Weight(src.Kind)
		ref := src.Ref()

		// Skill iteration order is irrelevant: each skill accumulates in
		// its own tally, and tallies see sources in input order.
		for skill, score := range src.Skills {
			if skill == "" {
				continue
			}
			s := score.Clamp()
			t, ok := tallies[skill]
			if !ok {
				t = &tally{}
				tallies[skill] = t
			}
			t.weightedProf += s.Proficiency * w
			t.weightSum += w
			t.confSum += s.Confidence
			t.n++
			t.sources = append(t.sources, ref)
		}
	}

	out := make(map[string]types.AggregatedSkill, len(tallies))
	for skill, t := range tallies {
		n := float64(t.n)
		prof := t.weightedProf/t.weightSum + math.Min(frequencyStep*n, frequencyMax)
		conf := t.confSum/n + math.Min(corroboration*n, corroborateMax)
		out[skill] = types.AggregatedSkill{
			Skill:       skill,
			Proficiency: math.Min(prof, 1.0),
			Confidence:  math.Min(conf, confidenceCap),
			SourceCount: t.n,
			Sources:     t.sources,
		}
	}
	return out
}

// Sorted returns the records ordered by proficiency descending, then
// skill name.
func Sorted(skills map[string]types.AggregatedSkill) []types.AggregatedSkill {
	out := make([]types.AggregatedSkill, 0, len(skills))
	for _, s := range skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Proficiency != out[j].Proficiency {
			return out[i].Proficiency > out[j].Proficiency
		}
		return out[i].Skill < out[j].Skill
	})
	return out
}

// UserSkills projects aggregated records onto the skill → score map the
// gap analyzer consumes.
func UserSkills(skills map[string]types.AggregatedSkill) map[string]types.Score {
	out := make(map[string]types.Score, len(skills))
	for name, s := range skills {
		out[name] = s.Score()
	}
	return out
}
