// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package roadmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/skillgap/internal/taxonomy"
	"github.com/pdiddy/skillgap/pkg/types"
)

func TestDefault(t *testing.T) {
	tax := taxonomy.MustDefault()
	lib, err := Default(tax)
	require.NoError(t, err)
	require.NotEmpty(t, lib.Domains())

	for _, d := range lib.Domains() {
		assert.NotEmpty(t, d.Name, d.ID)
		assert.NotEmpty(t, d.Milestones, d.ID)
		for _, m := range d.Milestones {
			assert.NotEmpty(t, m.Skills, "%s/%s", d.ID, m.ID)
			for _, s := range m.Skills {
				assert.True(t, tax.Contains(s), "%s/%s: %s", d.ID, m.ID, s)
			}
		}
	}

	d, ok := lib.Domain("healthcare-data-analyst")
	require.True(t, ok)
	m, ok := d.Milestone("hda-reporting")
	require.True(t, ok)
	assert.Equal(t, []string{"tableau", "power-bi", "data-visualization"}, m.Skills, "display forms resolve")

	_, ok = lib.Domain("astronaut")
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "domains: [", "parsing roadmaps"},
		{"missing domain id", "domains:\n  - name: X\n", "id is required"},
		{"duplicate domain", "domains:\n  - id: a\n  - id: a\n", "duplicate id"},
		{"missing milestone id", "domains:\n  - id: a\n    milestones:\n      - title: t\n", "milestone 0: id is required"},
		{"duplicate milestone", "domains:\n  - id: a\n    milestones:\n      - id: m\n      - id: m\n", "duplicate milestone m"},
		{"unknown skill", "domains:\n  - id: a\n    milestones:\n      - id: m\n        skills: [basket weaving]\n", `unknown skill "basket weaving"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), taxonomy.MustDefault())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roadmaps.yaml")
	require.NoError(t, os.WriteFile(path, []byte("domains:\n  - id: go-dev\n    name: Go Developer\n    milestones:\n      - id: basics\n        skills: [golang, git]\n"), 0o644))

	lib, err := Load(path, taxonomy.MustDefault())
	require.NoError(t, err)
	d, ok := lib.Domain("go-dev")
	require.True(t, ok)
	assert.Equal(t, []string{"go", "git"}, d.Milestones[0].Skills)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), taxonomy.MustDefault())
	assert.Error(t, err)
}

func sampleDomain() Domain {
	return Domain{
		ID:   "data",
		Name: "Data",
		Milestones: []Milestone{
			{ID: "m1", Skills: []string{"sql", "excel", "statistics"}},
			{ID: "m2", Skills: []string{"python", "pandas"}},
			{ID: "m3"},
		},
	}
}

func TestEvaluate(t *testing.T) {
	user := map[string]types.Score{
		"sql":    {Proficiency: 0.8, Confidence: 0.9},
		"excel":  {Proficiency: 0.3, Confidence: 0.6},
		"python": {Proficiency: 0.29, Confidence: 0.7},
	}
	states := map[string]types.MilestoneState{
		"m2": {Status: types.StatusCompleted, StartedAt: "2026-01-01T00:00:00Z", CompletedAt: "2026-02-01T00:00:00Z"},
	}

	p := Evaluate(sampleDomain(), user, states)
	assert.Equal(t, "data", p.Domain)
	assert.Equal(t, 3, p.TotalMilestones)
	assert.Equal(t, 1, p.CompletedMilestones)
	assert.Equal(t, 33, p.OverallProgress)
	require.Len(t, p.Milestones, 3)

	m1 := p.Milestones[0]
	assert.Equal(t, types.StatusNotStarted, m1.State.Status)
	assert.Equal(t, 67, m1.SkillCompletion)
	assert.Equal(t, []SkillCheck{
		{Skill: "sql", Proficiency: 0.8, Acquired: true},
		{Skill: "excel", Proficiency: 0.3, Acquired: true},
		{Skill: "statistics", Proficiency: 0, Acquired: false},
	}, m1.SkillChecks)

	m2 := p.Milestones[1]
	assert.Equal(t, types.StatusCompleted, m2.State.Status)
	assert.Equal(t, 0, m2.SkillCompletion, "completion status does not imply skills")

	assert.Equal(t, 0, p.Milestones[2].SkillCompletion)
	assert.Empty(t, p.Milestones[2].SkillChecks)
}

func TestEvaluateEmpty(t *testing.T) {
	p := Evaluate(Domain{ID: "empty"}, nil, nil)
	assert.Equal(t, 0, p.OverallProgress)
	assert.Equal(t, 0, p.TotalMilestones)
	assert.NotNil(t, p.Milestones)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		n, total, want int
	}{
		{0, 0, 0},
		{1, 8, 12},
		{3, 8, 38},
		{2, 3, 67},
		{4, 4, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, percent(tt.n, tt.total), "%d/%d", tt.n, tt.total)
	}
}
