// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data model shared by the skillgap stages:
// taxonomy categories, source records, skill scores, aggregated skill
// records, market requirement tables, and gap analysis results.
package types

import "math"

// Category groups canonical skills in the taxonomy.
type Category string

const (
	CategoryProgrammingLanguages Category = "programming-languages"
	CategoryWeb                  Category = "web"
	CategoryDatabases            Category = "databases"
	CategoryCloud                Category = "cloud"
	CategoryDevOps               Category = "devops"
	CategoryDataScience          Category = "data-science"
	CategoryTesting              Category = "testing"
	CategoryProjectManagement    Category = "project-management"
	CategorySoftSkills           Category = "soft-skills"
	CategoryMobile               Category = "mobile"
	CategorySecurity             Category = "security"
	CategoryDesign               Category = "design"
	CategoryOther                Category = "other"
)

// validCategories is the fixed category enumeration.
var validCategories = map[Category]bool{
	CategoryProgrammingLanguages: true,
	CategoryWeb:                  true,
	CategoryDatabases:            true,
	CategoryCloud:                true,
	CategoryDevOps:               true,
	CategoryDataScience:          true,
	CategoryTesting:              true,
	CategoryProjectManagement:    true,
	CategorySoftSkills:           true,
	CategoryMobile:               true,
	CategorySecurity:             true,
	CategoryDesign:               true,
	CategoryOther:                true,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return validCategories[c]
}

// Score is a (proficiency, confidence) pair for one skill. Both values
// live in [0,1].
type Score struct {
	// Proficiency estimates how well the owner knows the skill.
	Proficiency float64 `json:"proficiency" yaml:"proficiency"`

	// Confidence estimates how much the evidence supports Proficiency.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Clamp returns s with both values forced into [0,1]. NaN becomes 0.
func (s Score) Clamp() Score {
	return Score{Proficiency: Clamp01(s.Proficiency), Confidence: Clamp01(s.Confidence)}
}

// Clamp01 forces v into [0,1]. NaN becomes 0.
func Clamp01(v float64) float64 {
	return ClampRange(v, 0, 1)
}

// ClampRange forces v into [lo,hi]. NaN becomes lo.
func ClampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// SourceSkills holds the scored skills found in one source record.
type SourceSkills struct {
	Kind   SourceKind       `json:"kind" yaml:"kind"`
	ID     string           `json:"id" yaml:"id"`
	Skills map[string]Score `json:"skills" yaml:"skills"`
}

// Ref returns the "kind:id" reference used in AggregatedSkill.Sources.
func (s SourceSkills) Ref() string {
	return string(s.Kind) + ":" + s.ID
}

// AggregatedSkill is the consensus score for one skill across all of an
// owner's sources. One owner has at most one record per skill.
type AggregatedSkill struct {
	// Skill is the canonical skill name.
	Skill string `json:"skill" yaml:"skill"`

	// Proficiency is the weighted consensus proficiency.
	Proficiency float64 `json:"proficiency" yaml:"proficiency"`

	// Confidence is the mean observed confidence plus a corroboration bonus.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// SourceCount is the number of observations merged into this record.
	SourceCount int `json:"source_count" yaml:"source_count"`

	// Sources lists "kind:id" references in observation order.
	Sources []string `json:"sources" yaml:"sources"`
}

// Score returns the record's proficiency and confidence as a Score.
func (a AggregatedSkill) Score() Score {
	return Score{Proficiency: a.Proficiency, Confidence: a.Confidence}
}
