package types

// Priority is the bucket a market skill is classified into.
type Priority string

const (
	PriorityCritical  Priority = "CRITICAL"
	PriorityImportant Priority = "IMPORTANT"
	PriorityEmerging  Priority = "EMERGING"
	PriorityStrength  Priority = "STRENGTH"
)

// Gap is the comparison of one market skill against the user's profile.
// Numeric fields are rounded to two decimals for display.
type Gap struct {
	Skill             string           `json:"skill" yaml:"skill"`
	UserProficiency   float64          `json:"user_proficiency" yaml:"user_proficiency"`
	MarketRequirement float64          `json:"market_requirement" yaml:"market_requirement"`
	Gap               float64          `json:"gap" yaml:"gap"`
	MarketFrequency   float64          `json:"market_frequency" yaml:"market_frequency"`
	RequirementLevel  RequirementLevel `json:"requirement_level" yaml:"requirement_level"`
	Priority          Priority         `json:"priority" yaml:"priority"`

	// Impact explains a gap; set on CRITICAL, IMPORTANT, and EMERGING.
	Impact string `json:"impact,omitempty" yaml:"impact,omitempty"`

	// Advantage explains a strength; set on STRENGTH only.
	Advantage string `json:"advantage,omitempty" yaml:"advantage,omitempty"`
}

// GapSummary is the headline view of a gap analysis.
type GapSummary struct {
	TotalGaps           int      `json:"total_gaps" yaml:"total_gaps"`
	CriticalCount       int      `json:"critical_count" yaml:"critical_count"`
	ImportantCount      int      `json:"important_count" yaml:"important_count"`
	EmergingCount       int      `json:"emerging_count" yaml:"emerging_count"`
	StrengthCount       int      `json:"strength_count" yaml:"strength_count"`
	OverallReadinessPct float64  `json:"overall_readiness_pct" yaml:"overall_readiness_pct"`
	Interpretation      string   `json:"interpretation" yaml:"interpretation"`
	Top3Priorities      []string `json:"top_3_priorities" yaml:"top_3_priorities"`
}

// GapAnalysis is the full result of comparing a profile with a market table.
type GapAnalysis struct {
	CriticalGaps     []Gap      `json:"critical_gaps" yaml:"critical_gaps"`
	ImportantGaps    []Gap      `json:"important_gaps" yaml:"important_gaps"`
	EmergingGaps     []Gap      `json:"emerging_gaps" yaml:"emerging_gaps"`
	Strengths        []Gap      `json:"strengths" yaml:"strengths"`
	OverallReadiness float64    `json:"overall_readiness" yaml:"overall_readiness"`
	Summary          GapSummary `json:"summary" yaml:"summary"`

	// MarketSource is copied from the analyzed table's Source.
	MarketSource string `json:"market_source,omitempty" yaml:"market_source,omitempty"`
}
