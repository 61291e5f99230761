// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gap compares an aggregated skill profile against a market
// requirement table. Each market skill lands in at most one bucket
// (critical, important, emerging, strength) and the profile gets an
// overall readiness percentage weighted by frequency and level.
package gap

import (
	"fmt"
	"math"
	"sort"

	"github.com/pdiddy/skillgap/pkg/types"
)

const (
	criticalGap  = 0.5
	importantGap = 0.3

	// missingBelow is the proficiency under which a skill counts as absent.
	missingBelow = 0.1

	// DefaultMinFrequency is the default cutoff for MissingSkills.
	DefaultMinFrequency = 0.3
)

var levelMultiplier = map[types.RequirementLevel]float64{
	types.LevelCritical:  2.0,
	types.LevelImportant: 1.5,
	types.LevelEmerging:  1.2,
	types.LevelOptional:  1.0,
}

// Readiness interpretations, keyed by the lowest readiness they cover.
var interpretations = []struct {
	min  float64
	text string
}{
	{90, "Excellent - Ready to apply immediately!"},
	{75, "Good - Strong candidate with minor gaps"},
	{60, "Fair - Nearly ready, 1-2 key gaps to address"},
	{45, "Developing - Several important skills needed (3-4 months)"},
	{math.Inf(-1), "Early stage - Significant skill development needed (6+ months)"},
}

// Analyze classifies every market skill against user. Skills the user
// has that the market does not list are ignored. A skill whose gap fits
// no bucket (an important skill short by 0.3 or less, any positive gap
// on an optional skill) is reported nowhere. Gap buckets are sorted by
// reported two-decimal gap descending; ties keep market table order. Strengths keep table
// order. Values outside [0,1] are clamped.
func Analyze(user map[string]types.Score, market types.MarketTable) types.GapAnalysis {
	var critical, important, emerging, strengths []types.Gap

	for _, req := range market.Skills {
		g, _, ok := Classify(userProficiency(user, req.Skill), req)
		if !ok {
			continue
		}
		switch g.Priority {
		case types.PriorityCritical:
			critical = append(critical, g)
		case types.PriorityImportant:
			important = append(important, g)
		case types.PriorityEmerging:
			emerging = append(emerging, g)
		case types.PriorityStrength:
			strengths = append(strengths, g)
		}
	}

	readiness := Readiness(user, market)

	result := types.GapAnalysis{
		CriticalGaps:     byGapDesc(critical),
		ImportantGaps:    byGapDesc(important),
		EmergingGaps:     byGapDesc(emerging),
		Strengths:        orEmpty(strengths),
		OverallReadiness: readiness,
		MarketSource:     market.Source,
	}

	top := make([]string, 0, 3)
	for _, g := range result.CriticalGaps {
		if len(top) == 3 {
			break
		}
		top = append(top, g.Skill)
	}

	result.Summary = types.GapSummary{
		TotalGaps:           len(critical) + len(important) + len(emerging),
		CriticalCount:       len(critical),
		ImportantCount:      len(important),
		EmergingCount:       len(emerging),
		StrengthCount:       len(strengths),
		OverallReadinessPct: readiness,
		Interpretation:      Interpret(readiness),
		Top3Priorities:      top,
	}
	return result
}

// Classify compares one market requirement with the user's proficiency.
// It returns the display record, the unrounded gap, and false when the
// skill falls into no bucket. Rules apply in order, first match wins.
func Classify(userProf float64, req types.MarketRequirement) (types.Gap, float64, bool) {
	userProf = types.Clamp01(userProf)
	need := types.Clamp01(req.AvgProficiencyNeeded)
	freq := types.Clamp01(req.Frequency)
	raw := need - userProf
	pct := int(math.Round(freq * 100))

	g := types.Gap{
		Skill:             req.Skill,
		UserProficiency:   types.Round(userProf, 2),
		MarketRequirement: types.Round(need, 2),
		Gap:               types.Round(raw, 2),
		MarketFrequency:   types.Round(freq, 2),
		RequirementLevel:  req.Level,
	}

	switch {
	case raw > criticalGap && req.Level == types.LevelCritical:
		g.Priority = types.PriorityCritical
		g.Impact = fmt.Sprintf("Blocking %d%% of jobs", pct)
	case raw > importantGap && (req.Level == types.LevelCritical || req.Level == types.LevelImportant):
		g.Priority = types.PriorityImportant
		g.Impact = fmt.Sprintf("Reduces competitiveness in %d%% of jobs", pct)
	case req.Level == types.LevelEmerging && raw > 0:
		g.Priority = types.PriorityEmerging
		g.Impact = fmt.Sprintf("Future-proofing skill (appearing in %d%% of jobs)", pct)
	case raw <= 0:
		g.Priority = types.PriorityStrength
		g.Advantage = fmt.Sprintf("Exceeds market requirement by %.2f", math.Abs(raw))
	default:
		return g, raw, false
	}
	return g, raw, true
}

// Readiness returns the weighted achievement percentage of user against
// market, rounded to one decimal. Each skill weighs frequency × level
// multiplier and achieves min(user/need, 1), or 1 when nothing is
// needed. An empty table or zero total weight yields 0.
func Readiness(user map[string]types.Score, market types.MarketTable) float64 {
	var total, achieved float64
	for _, req := range market.Skills {
		mult, ok := levelMultiplier[req.Level]
		if !ok {
			mult = 1.0
		}
		weight := types.Clamp01(req.Frequency) * mult
		need := types.Clamp01(req.AvgProficiencyNeeded)

		achievement := 1.0
		if need > 0 {
			achievement = math.Min(userProficiency(user, req.Skill)/need, 1.0)
		}

		total += weight
		achieved += weight * achievement
	}
	if total <= 0 {
		return 0.0
	}
	return types.Round(100*achieved/total, 1)
}

// Interpret maps a readiness percentage onto its interpretation.
func Interpret(readiness float64) string {
	for _, in := range interpretations {
		if readiness >= in.min {
			return in.text
		}
	}
	return interpretations[len(interpretations)-1].text
}

// MissingSkills returns market skills with frequency at or above
// minFrequency that the user lacks (proficiency below 0.1), in table
// order.
func MissingSkills(user map[string]types.Score, market types.MarketTable, minFrequency float64) []types.MarketRequirement {
	var missing []types.MarketRequirement
	for _, req := range market.Skills {
		if req.Frequency < minFrequency {
			continue
		}
		if userProficiency(user, req.Skill) < missingBelow {
			missing = append(missing, req)
		}
	}
	return missing
}

func userProficiency(user map[string]types.Score, skill string) float64 {
	s, ok := user[skill]
	if !ok {
		return 0
	}
	return types.Clamp01(s.Proficiency)
}

func byGapDesc(in []types.Gap) []types.Gap {
	if in == nil {
		return []types.Gap{}
	}
	sort.SliceStable(in, func(i, j int) bool { return in[i].Gap > in[j].Gap })
	return in
}

func orEmpty(g []types.Gap) []types.Gap {
	if g == nil {
		return []types.Gap{}
	}
	return g
}
