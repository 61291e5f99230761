package recommend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/skillgap/internal/gap"
	"github.com/pdiddy/skillgap/internal/market"
	"github.com/pdiddy/skillgap/internal/taxonomy"
	"github.com/pdiddy/skillgap/pkg/types"
)

func defaultCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := DefaultCatalog()
	require.NoError(t, err)
	return c
}

func TestDefaultCatalogUsesTaxonomySkills(t *testing.T) {
	tax, err := taxonomy.Default()
	require.NoError(t, err)

	c := defaultCatalog(t)
	assert.Greater(t, c.Len(), 20)
	for _, k := range c.keys {
		assert.True(t, tax.Contains(k), "catalog key %q is not a taxonomy skill", k)
	}
}

func TestCoursesExactMatch(t *testing.T) {
	c := defaultCatalog(t)

	got := c.Courses("python", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "Python for Everybody Specialization", got[0].Name)
	assert.Equal(t, "python", got[0].SkillTargeted)
	assert.Equal(t, "catalog", got[0].Source)
	assert.Equal(t, 0.8, got[0].Relevance)
	assert.Equal(t, "Free (audit) / $49+ (certificate)", got[0].Cost)
	assert.Equal(t, "Free (audit) / $50-300 (certificate)", got[1].Cost)
}

func TestCoursesDefaultMax(t *testing.T) {
	assert.Len(t, defaultCatalog(t).Courses("python", 0), DefaultMaxPerSkill)
}

func TestCoursesPartialMatch(t *testing.T) {
	c := defaultCatalog(t)

	got := c.Courses("React Native", 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "Meta Front-End Developer Professional Certificate", got[0].Name)
	assert.Equal(t, "React Native", got[0].SkillTargeted)
}

func TestCoursesNoMatch(t *testing.T) {
	c := defaultCatalog(t)
	assert.Empty(t, c.Courses("underwater basket weaving", 3))
	assert.Empty(t, c.Courses("  ", 3))
}

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(`
courses:
  Data Analysis:
    - {name: Intro, platform: Mystery, url: https://example.com/intro}
`))
	require.NoError(t, err)
	got := c.Courses("data-analysis", 3)
	require.Len(t, got, 1)
	assert.Equal(t, "Varies", got[0].Cost)

	_, err = ParseCatalog([]byte(`courses: {sql: [{platform: Udemy}]}`))
	assert.Error(t, err)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
courses:
  go:
    - {name: Tour of Go, platform: Web, url: https://go.dev/tour, cost: Free}
`), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	got := c.Courses("go", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "Free", got[0].Cost)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in      string
		want    Scope
		wantErr bool
	}{
		{"", ScopeCritical, false},
		{"critical", ScopeCritical, false},
		{"Important", ScopeImportant, false},
		{" all ", ScopeAll, false},
		{"some", "", true},
	}
	for _, tt := range tests {
		got, err := ParseScope(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func gaps(priority types.Priority, skills ...string) []types.Gap {
	out := make([]types.Gap, len(skills))
	for i, s := range skills {
		out[i] = types.Gap{Skill: s, Priority: priority, Gap: 0.5}
	}
	return out
}

func TestRecommendScopes(t *testing.T) {
	r := New(defaultCatalog(t))
	analysis := types.GapAnalysis{
		CriticalGaps:  gaps(types.PriorityCritical, "python", "sql"),
		ImportantGaps: gaps(types.PriorityImportant, "tableau", "statistics", "pandas", "docker", "git", "aws"),
		EmergingGaps:  gaps(types.PriorityEmerging, "nlp", "deep-learning", "kubernetes", "linux"),
	}

	t.Run("critical only by default", func(t *testing.T) {
		plan := r.Recommend(analysis, Options{MaxPerSkill: 1})
		require.Len(t, plan.Critical, 2)
		assert.Empty(t, plan.Important)
		assert.Empty(t, plan.Emerging)
		assert.Equal(t, "python", plan.Critical[0].Skill)
		assert.Equal(t, types.PriorityCritical, plan.Critical[0].Priority)
		assert.Equal(t, 2, plan.Summary.TotalSkills)
		assert.Equal(t, 2, plan.Summary.TotalCourses)
		assert.Equal(t, "2-4 months", plan.Summary.EstimatedTime)
	})

	t.Run("important limited to five", func(t *testing.T) {
		plan := r.Recommend(analysis, Options{MaxPerSkill: 1, Scope: ScopeImportant})
		assert.Empty(t, plan.Critical)
		require.Len(t, plan.Important, 5)
		assert.Equal(t, "git", plan.Important[4].Skill)
		assert.Equal(t, "2-4 months", plan.Summary.EstimatedTime)
	})

	t.Run("all adds top three emerging", func(t *testing.T) {
		plan := r.Recommend(analysis, Options{MaxPerSkill: 1, Scope: ScopeAll})
		assert.Len(t, plan.Critical, 2)
		assert.Len(t, plan.Important, 5)
		require.Len(t, plan.Emerging, 3)
		assert.Equal(t, "kubernetes", plan.Emerging[2].Skill)
		assert.Equal(t, 10, plan.Summary.TotalSkills)
		assert.Equal(t, 10, plan.Summary.TotalCourses)
		assert.Equal(t, "4-6 months", plan.Summary.EstimatedTime)
	})
}

func TestRecommendEmptyAnalysis(t *testing.T) {
	plan := New(defaultCatalog(t)).Recommend(types.GapAnalysis{}, Options{Scope: ScopeAll})
	assert.NotNil(t, plan.Critical)
	assert.NotNil(t, plan.Important)
	assert.NotNil(t, plan.Emerging)
	assert.Zero(t, plan.Summary.TotalSkills)
	assert.Equal(t, "2-4 weeks", plan.Summary.EstimatedTime)
	assert.Equal(t, "You're job-ready! Focus on emerging skills to stay ahead.", plan.Summary.Recommendation)
}

func TestRecommendFromGapAnalysis(t *testing.T) {
	table, err := market.Fallback(market.DefaultRole)
	require.NoError(t, err)

	user := map[string]types.Score{
		"python": {Proficiency: 0.2, Confidence: 0.8},
		"sql":    {Proficiency: 0.1, Confidence: 0.8},
	}
	analysis := gap.Analyze(user, table)
	require.NotEmpty(t, analysis.CriticalGaps)

	plan := New(defaultCatalog(t)).Recommend(analysis, Options{Scope: ScopeCritical})
	require.Len(t, plan.Critical, len(analysis.CriticalGaps))
	for i, sc := range plan.Critical {
		assert.Equal(t, analysis.CriticalGaps[i].Skill, sc.Skill)
		assert.NotEmpty(t, sc.Courses, "no courses for %s", sc.Skill)
	}
}

func TestEstimateTime(t *testing.T) {
	tests := []struct {
		critical, important int
		want                string
	}{
		{0, 0, "2-4 weeks"},
		{0, 1, "2-4 weeks"},
		{1, 0, "1-2 months"},
		{1, 2, "2-4 months"},
		{3, 2, "4-6 months"},
		{6, 0, "6+ months"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EstimateTime(tt.critical, tt.important), "%d critical, %d important", tt.critical, tt.important)
	}
}

func TestAdvise(t *testing.T) {
	assert.Equal(t, "Focus on 2 critical skill(s) first. You'll be ready in 1-2 months.",
		Advise(gaps(types.PriorityCritical, "a", "b")))
	assert.Equal(t, "Prioritize top 2 critical skills now. Address remaining 2 next.",
		Advise(gaps(types.PriorityCritical, "a", "b", "c", "d")))
	assert.Equal(t, "Start with sql and one domain skill. Build progressively over 4-6 months.",
		Advise(gaps(types.PriorityCritical, "sql", "b", "c", "d", "e")))
}
