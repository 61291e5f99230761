// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"math"
)

// RequirementLevel describes how strongly the market demands a skill.
type RequirementLevel string

const (
	LevelCritical  RequirementLevel = "critical"
	LevelImportant RequirementLevel = "important"
	LevelEmerging  RequirementLevel = "emerging"
	LevelOptional  RequirementLevel = "optional"
)

// Valid reports whether l is a known requirement level.
func (l RequirementLevel) Valid() bool {
	switch l {
	case LevelCritical, LevelImportant, LevelEmerging, LevelOptional:
		return true
	}
	return false
}

// MarketRequirement is the demand statistic for one skill.
type MarketRequirement struct {
	// Skill is the canonical skill name.
	Skill string `json:"skill" yaml:"skill"`

	// Frequency is the share of postings mentioning the skill, in [0,1].
	Frequency float64 `json:"frequency" yaml:"frequency"`

	// Level is the requirement level assigned from posting statistics.
	Level RequirementLevel `json:"requirement_level" yaml:"requirement_level"`

	// AvgProficiencyNeeded is the mean proficiency postings ask for, in [0,1].
	AvgProficiencyNeeded float64 `json:"avg_proficiency_needed" yaml:"avg_proficiency_needed"`

	// MentionCount is the number of postings mentioning the skill. Zero for
	// static tables.
	MentionCount int `json:"mention_count,omitempty" yaml:"mention_count,omitempty"`

	// RequiredCount and PreferredCount split MentionCount by the posting
	// section the skill appeared in.
	RequiredCount  int `json:"required_count,omitempty" yaml:"required_count,omitempty"`
	PreferredCount int `json:"preferred_count,omitempty" yaml:"preferred_count,omitempty"`
}

// Market table provenance values.
const (
	MarketSourcePostings = "postings"
	MarketSourceFallback = "fallback"
	MarketSourceFile     = "file"
)

// MarketTable is an ordered market requirement table. Order is significant:
// gap buckets break ties by table order.
type MarketTable struct {
	// Source records where the table came from (postings, fallback, file).
	Source string `json:"source" yaml:"source"`

	// Role is the target role the table describes.
	Role string `json:"role,omitempty" yaml:"role,omitempty"`

	// JobsAnalyzed is the number of postings aggregated, if any.
	JobsAnalyzed int `json:"jobs_analyzed,omitempty" yaml:"jobs_analyzed,omitempty"`

	// Skills holds one entry per distinct skill.
	Skills []MarketRequirement `json:"skills" yaml:"skills"`
}

// Validate rejects malformed tables: empty or duplicate skill names,
// unknown levels, and values that are negative, NaN, or above 1.
func (t MarketTable) Validate() error {
	seen := make(map[string]bool, len(t.Skills))
	for i, e := range t.Skills {
		if e.Skill == "" {
			return fmt.Errorf("entry %d: empty skill name", i)
		}
		if seen[e.Skill] {
			return fmt.Errorf("entry %d: duplicate skill %q", i, e.Skill)
		}
		seen[e.Skill] = true
		if !e.Level.Valid() {
			return fmt.Errorf("skill %q: unknown requirement level %q", e.Skill, e.Level)
		}
		if err := checkUnit("frequency", e.Frequency); err != nil {
			return fmt.Errorf("skill %q: %w", e.Skill, err)
		}
		if err := checkUnit("avg_proficiency_needed", e.AvgProficiencyNeeded); err != nil {
			return fmt.Errorf("skill %q: %w", e.Skill, err)
		}
	}
	return nil
}

// Lookup returns the entry for skill, if present.
func (t MarketTable) Lookup(skill string) (MarketRequirement, bool) {
	for _, e := range t.Skills {
		if e.Skill == skill {
			return e, true
		}
	}
	return MarketRequirement{}, false
}

func checkUnit(field string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%s %v out of range [0,1]", field, v)
	}
	return nil
}
