// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/skillgap/pkg/types"
)

func req(skill string, freq float64, level types.RequirementLevel, need float64) types.MarketRequirement {
	return types.MarketRequirement{Skill: skill, Frequency: freq, Level: level, AvgProficiencyNeeded: need}
}

func table(reqs ...types.MarketRequirement) types.MarketTable {
	return types.MarketTable{Source: types.MarketSourceFile, Skills: reqs}
}

func TestAnalyzeMissingCriticalSkill(t *testing.T) {
	res := Analyze(map[string]types.Score{}, table(req("python", 0.85, types.LevelCritical, 0.75)))

	require.Len(t, res.CriticalGaps, 1)
	g := res.CriticalGaps[0]
	assert.Equal(t, types.PriorityCritical, g.Priority)
	assert.Equal(t, "Blocking 85% of jobs", g.Impact)
	assert.Equal(t, 0.75, g.Gap)
	assert.Equal(t, 0.0, g.UserProficiency)
	assert.Equal(t, []string{"python"}, res.Summary.Top3Priorities)
}

func TestAnalyzeStrength(t *testing.T) {
	user := map[string]types.Score{"tableau": {Proficiency: 0.65, Confidence: 0.8}}
	res := Analyze(user, table(req("tableau", 0.5, types.LevelImportant, 0.6)))

	require.Len(t, res.Strengths, 1)
	s := res.Strengths[0]
	assert.Equal(t, types.PriorityStrength, s.Priority)
	assert.Equal(t, "Exceeds market requirement by 0.05", s.Advantage)
	assert.Equal(t, -0.05, s.Gap)
	assert.Empty(t, s.Impact)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		user   float64
		req    types.MarketRequirement
		want   types.Priority
		impact string
		ok     bool
	}{
		{"critical wide gap", 0.1, req("sql", 0.8, types.LevelCritical, 0.7), types.PriorityCritical, "Blocking 80% of jobs", true},
		{"critical medium gap is important", 0.3, req("sql", 0.8, types.LevelCritical, 0.7), types.PriorityImportant, "Reduces competitiveness in 80% of jobs", true},
		{"important wide gap", 0.0, req("ml", 0.65, types.LevelImportant, 0.65), types.PriorityImportant, "Reduces competitiveness in 65% of jobs", true},
		{"emerging any positive gap", 0.5, req("nlp", 0.4, types.LevelEmerging, 0.55), types.PriorityEmerging, "Future-proofing skill (appearing in 40% of jobs)", true},
		{"exact match is strength", 0.6, req("sql", 0.8, types.LevelCritical, 0.6), types.PriorityStrength, "", true},
		{"optional strength", 0.9, req("git", 0.2, types.LevelOptional, 0.5), types.PriorityStrength, "", true},
		{"critical small gap falls through", 0.5, req("sql", 0.8, types.LevelCritical, 0.7), "", "", false},
		{"important small gap falls through", 0.45, req("stats", 0.6, types.LevelImportant, 0.65), "", "", false},
		{"optional positive gap falls through", 0.0, req("git", 0.2, types.LevelOptional, 0.9), "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, ok := Classify(tt.user, tt.req)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.want, g.Priority)
			if tt.impact != "" {
				assert.Equal(t, tt.impact, g.Impact)
			}
		})
	}
}

func TestAnalyzeDropsUnbucketedSkills(t *testing.T) {
	user := map[string]types.Score{
		"statistics": {Proficiency: 0.45},
		"git":        {Proficiency: 0.1},
	}
	res := Analyze(user, table(
		req("statistics", 0.6, types.LevelImportant, 0.65),
		req("git", 0.3, types.LevelOptional, 0.5),
	))

	assert.Empty(t, res.CriticalGaps)
	assert.Empty(t, res.ImportantGaps)
	assert.Empty(t, res.EmergingGaps)
	assert.Empty(t, res.Strengths)
	assert.Equal(t, 0, res.Summary.TotalGaps)
	assert.Greater(t, res.OverallReadiness, 0.0, "dropped skills still count toward readiness")
}

func TestAnalyzeBucketsAreExclusive(t *testing.T) {
	user := map[string]types.Score{
		"python":    {Proficiency: 0.8},
		"sql":       {Proficiency: 0.1},
		"pandas":    {Proficiency: 0.35},
		"nlp":       {Proficiency: 0.2},
		"tableau":   {Proficiency: 0.59},
		"extra-one": {Proficiency: 0.9},
	}
	market := table(
		req("python", 0.85, types.LevelCritical, 0.75),
		req("sql", 0.80, types.LevelCritical, 0.70),
		req("pandas", 0.70, types.LevelCritical, 0.70),
		req("nlp", 0.40, types.LevelEmerging, 0.55),
		req("tableau", 0.50, types.LevelImportant, 0.60),
		req("tensorflow", 0.45, types.LevelImportant, 0.60),
	)
	res := Analyze(user, market)

	seen := map[string]types.Priority{}
	for _, bucket := range [][]types.Gap{res.CriticalGaps, res.ImportantGaps, res.EmergingGaps, res.Strengths} {
		for _, g := range bucket {
			prev, dup := seen[g.Skill]
			assert.False(t, dup, "%s in %s and %s", g.Skill, prev, g.Priority)
			seen[g.Skill] = g.Priority
		}
	}
	assert.NotContains(t, seen, "extra-one", "skills absent from the market are not reported")
	assert.Equal(t, types.PriorityCritical, seen["sql"])
	assert.Equal(t, types.PriorityImportant, seen["pandas"])
	assert.Equal(t, types.PriorityImportant, seen["tensorflow"])
	assert.Equal(t, types.PriorityEmerging, seen["nlp"])
	assert.Equal(t, types.PriorityStrength, seen["python"])
	assert.NotContains(t, seen, "tableau")
}

func TestAnalyzeSortsByGapWithStableTies(t *testing.T) {
	market := table(
		req("a", 0.5, types.LevelImportant, 0.6),
		req("b", 0.5, types.LevelImportant, 0.9),
		req("c", 0.5, types.LevelImportant, 0.6),
		req("d", 0.5, types.LevelImportant, 0.8),
	)
	res := Analyze(nil, market)

	var order []string
	for _, g := range res.ImportantGaps {
		order = append(order, g.Skill)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, order)
}

func TestAnalyzeTiesOnReportedGap(t *testing.T) {
	// Both gaps report as 0.60, so table order holds.
	market := table(
		req("a", 0.5, types.LevelImportant, 0.601),
		req("b", 0.5, types.LevelImportant, 0.604),
		req("c", 0.5, types.LevelImportant, 0.7),
	)
	res := Analyze(nil, market)

	var order []string
	for _, g := range res.ImportantGaps {
		order = append(order, g.Skill)
	}
	assert.Equal(t, []string{"c", "a", "b"}, order)
	assert.Equal(t, res.ImportantGaps[1].Gap, res.ImportantGaps[2].Gap)
}

func TestReadiness(t *testing.T) {
	market := table(
		req("python", 0.85, types.LevelCritical, 0.75),
		req("nlp", 0.40, types.LevelEmerging, 0.55),
		req("git", 0.30, types.LevelOptional, 0.0),
	)

	t.Run("meets every requirement", func(t *testing.T) {
		user := map[string]types.Score{"python": {Proficiency: 0.9}, "nlp": {Proficiency: 0.55}}
		assert.Equal(t, 100.0, Readiness(user, market))
	})

	t.Run("weighted partial achievement", func(t *testing.T) {
		user := map[string]types.Score{"python": {Proficiency: 0.375}}
		// weights: 1.7, 0.48, 0.3; achievement: 0.5, 0, 1.
		want := 100 * (1.7*0.5 + 0.3) / (1.7 + 0.48 + 0.3)
		assert.InDelta(t, want, Readiness(user, market), 0.05)
	})

	t.Run("zero total weight", func(t *testing.T) {
		assert.Equal(t, 0.0, Readiness(nil, table(req("x", 0, types.LevelCritical, 0.5))))
	})
}

func TestAnalyzeEmptyInputs(t *testing.T) {
	res := Analyze(map[string]types.Score{}, types.MarketTable{})

	assert.Equal(t, 0.0, res.OverallReadiness)
	assert.Empty(t, res.CriticalGaps)
	assert.Empty(t, res.ImportantGaps)
	assert.Empty(t, res.EmergingGaps)
	assert.Empty(t, res.Strengths)
	assert.NotNil(t, res.CriticalGaps)
	assert.Equal(t, "Early stage - Significant skill development needed (6+ months)", res.Summary.Interpretation)
	assert.Empty(t, res.Summary.Top3Priorities)
}

func TestAnalyzeClampsOutOfRangeValues(t *testing.T) {
	user := map[string]types.Score{"sql": {Proficiency: 1.7}}
	res := Analyze(user, table(req("sql", 1.4, types.LevelCritical, 0.7)))
	require.Len(t, res.Strengths, 1)
	assert.Equal(t, 1.0, res.Strengths[0].UserProficiency)
	assert.Equal(t, 1.0, res.Strengths[0].MarketFrequency)
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		readiness float64
		prefix    string
	}{
		{100, "Excellent"},
		{90, "Excellent"},
		{89.9, "Good"},
		{75, "Good"},
		{60, "Fair"},
		{45, "Developing"},
		{44.9, "Early stage"},
		{0, "Early stage"},
	}
	for _, tt := range tests {
		assert.Regexp(t, "^"+tt.prefix, Interpret(tt.readiness))
	}
}

func TestSummaryTopThree(t *testing.T) {
	market := table(
		req("a", 0.9, types.LevelCritical, 0.9),
		req("b", 0.9, types.LevelCritical, 0.8),
		req("c", 0.9, types.LevelCritical, 0.95),
		req("d", 0.9, types.LevelCritical, 0.7),
		req("e", 0.5, types.LevelEmerging, 0.5),
	)
	res := Analyze(nil, market)
	assert.Equal(t, []string{"c", "a", "b"}, res.Summary.Top3Priorities)
	assert.Equal(t, 4, res.Summary.CriticalCount)
	assert.Equal(t, 1, res.Summary.EmergingCount)
	assert.Equal(t, 5, res.Summary.TotalGaps)
}

func TestMissingSkills(t *testing.T) {
	user := map[string]types.Score{"python": {Proficiency: 0.8}, "sql": {Proficiency: 0.05}}
	market := table(
		req("python", 0.85, types.LevelCritical, 0.75),
		req("sql", 0.80, types.LevelCritical, 0.70),
		req("nlp", 0.40, types.LevelEmerging, 0.55),
		req("git", 0.10, types.LevelOptional, 0.5),
	)
	var names []string
	for _, m := range MissingSkills(user, market, DefaultMinFrequency) {
		names = append(names, m.Skill)
	}
	assert.Equal(t, []string{"sql", "nlp"}, names)
}
