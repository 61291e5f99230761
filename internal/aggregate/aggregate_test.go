package aggregate

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/skillgap/pkg/types"
)

func TestAggregateWeightsByKind(t *testing.T) {
	got := Aggregate([]types.SourceSkills{
		{Kind: types.KindCourse, ID: "3", Skills: map[string]types.Score{"sql": {Proficiency: 0.6, Confidence: 0.7}}},
		{Kind: types.KindExperience, ID: "9", Skills: map[string]types.Score{"sql": {Proficiency: 0.8, Confidence: 0.85}}},
	})

	require.Contains(t, got, "sql")
	sql := got["sql"]
	assert.InDelta(t, (0.6*1.0+0.8*2.0)/3.0+0.10, sql.Proficiency, 1e-9)
	assert.InDelta(t, 0.833, sql.Proficiency, 0.001)
	assert.InDelta(t, 0.95, sql.Confidence, 1e-9, "0.775 + 0.2 capped at 0.95")
	assert.Equal(t, 2, sql.SourceCount)
	assert.Equal(t, []string{"course:3", "experience:9"}, sql.Sources)
}

func TestAggregateSingleObservation(t *testing.T) {
	got := Aggregate([]types.SourceSkills{
		{Kind: types.KindResume, ID: "resume", Skills: map[string]types.Score{"python": {Proficiency: 0.5, Confidence: 0.7}}},
	})
	assert.InDelta(t, 0.55, got["python"].Proficiency, 1e-9)
	assert.InDelta(t, 0.80, got["python"].Confidence, 1e-9)
}

func TestAggregateBonusesAreCapped(t *testing.T) {
	var sources []types.SourceSkills
	for i := 0; i < 6; i++ {
		sources = append(sources, types.SourceSkills{
			Kind:   types.KindProject,
			ID:     string(rune('a' + i)),
			Skills: map[string]types.Score{"go": {Proficiency: 0.9, Confidence: 0.9}},
		})
	}
	got := Aggregate(sources)["go"]
	assert.Equal(t, 1.0, got.Proficiency, "0.9 + 0.15 clamped to 1.0")
	assert.Equal(t, 0.95, got.Confidence)
	assert.Equal(t, []string{"project:a", "project:b", "project:c", "project:d", "project:e", "project:f"}, got.Sources)
}

func TestAggregateClampsInputs(t *testing.T) {
	got := Aggregate([]types.SourceSkills{
		{Kind: types.KindCourse, ID: "1", Skills: map[string]types.Score{"sql": {Proficiency: 3.0, Confidence: -1}}},
	})
	assert.Equal(t, 1.0, got["sql"].Proficiency)
	assert.InDelta(t, 0.1, got["sql"].Confidence, 1e-9)
}

func TestAggregateEmptyInputs(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
	assert.Empty(t, Aggregate([]types.SourceSkills{
		{Kind: types.KindCourse, ID: "1"},
		{Kind: types.KindProject, ID: "2", Skills: map[string]types.Score{}},
	}))
}

func TestAggregateIsDeterministic(t *testing.T) {
	sources := []types.SourceSkills{
		{Kind: types.KindResume, ID: "r", Skills: map[string]types.Score{"python": {0.6, 0.75}, "sql": {0.5, 0.7}, "docker": {0.55, 0.7}}},
		{Kind: types.KindProject, ID: "p1", Skills: map[string]types.Score{"python": {0.8, 0.8}, "docker": {0.7, 0.8}}},
		{Kind: types.KindExperience, ID: "e1", Skills: map[string]types.Score{"sql": {0.75, 0.85}}},
	}
	first := Aggregate(sources)
	for i := 0; i < 20; i++ {
		assert.True(t, reflect.DeepEqual(first, Aggregate(sources)))
	}
}

func TestAggregateMonotonicInHighWeightEvidence(t *testing.T) {
	courseOnly := []types.SourceSkills{
		{Kind: types.KindCourse, ID: "1", Skills: map[string]types.Score{"sql": {Proficiency: 0.6, Confidence: 0.7}}},
		{Kind: types.KindCourse, ID: "2", Skills: map[string]types.Score{"sql": {Proficiency: 0.65, Confidence: 0.75}}},
	}
	before := Aggregate(courseOnly)["sql"].Proficiency

	withExperience := append(append([]types.SourceSkills(nil), courseOnly...), types.SourceSkills{
		Kind: types.KindExperience, ID: "9", Skills: map[string]types.Score{"sql": {Proficiency: 0.8, Confidence: 0.85}},
	})
	after := Aggregate(withExperience)["sql"].Proficiency

	assert.GreaterOrEqual(t, after, before)
}

func TestNewWeights(t *testing.T) {
	a := New(map[types.SourceKind]float64{types.KindCourse: 3.0, types.KindProject: -1})
	assert.Equal(t, 3.0, a.Weight(types.KindCourse))
	assert.Equal(t, 1.5, a.Weight(types.KindProject), "non-positive override ignored")
	assert.Equal(t, 1.0, a.Weight(types.KindRepository))
	assert.Equal(t, 1.0, a.Weight("unknown"))
	assert.Equal(t, 2.0, DefaultWeights[types.KindExperience], "defaults untouched")
}

func TestSortedAndUserSkills(t *testing.T) {
	skills := map[string]types.AggregatedSkill{
		"sql":    {Skill: "sql", Proficiency: 0.7, Confidence: 0.8},
		"python": {Skill: "python", Proficiency: 0.9, Confidence: 0.9},
		"docker": {Skill: "docker", Proficiency: 0.7, Confidence: 0.6},
	}
	sorted := Sorted(skills)
	require.Len(t, sorted, 3)
	assert.Equal(t, "python", sorted[0].Skill)
	assert.Equal(t, "docker", sorted[1].Skill)
	assert.Equal(t, "sql", sorted[2].Skill)

	user := UserSkills(skills)
	assert.Equal(t, types.Score{Proficiency: 0.7, Confidence: 0.6}, user["docker"])
}
