// Package recommend turns a gap analysis into a learning plan: courses
// from a curated catalog for the highest-priority gaps, an estimated
// time to close them, and a one-line recommendation.
package recommend

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/skillgap/pkg/types"
)

//go:embed data/catalog.yaml
var catalogData []byte

const (
	// DefaultMaxPerSkill is the default number of courses per skill.
	DefaultMaxPerSkill = 3

	maxImportant = 5
	maxEmerging  = 3

	// sourceCatalog marks courses that came from the curated catalog.
	sourceCatalog = "catalog"

	catalogRelevance = 0.8
)

// costs holds typical pricing per platform, used when a catalog entry
// does not state its own.
var costs = map[string]string{
	"Coursera":          "Free (audit) / $49+ (certificate)",
	"edX":               "Free (audit) / $50-300 (certificate)",
	"Udemy":             "$10-200 (one-time)",
	"LinkedIn Learning": "$29.99/month (subscription)",
	"Udacity":           "$399/month (subscription)",
	"Pluralsight":       "$29/month (subscription)",
}

// Course is one learning resource.
type Course struct {
	Name          string  `json:"course_name" yaml:"name"`
	Platform      string  `json:"platform" yaml:"platform"`
	URL           string  `json:"url" yaml:"url"`
	Description   string  `json:"description,omitempty" yaml:"description,omitempty"`
	Duration      string  `json:"duration,omitempty" yaml:"duration,omitempty"`
	Rating        float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
	Cost          string  `json:"cost,omitempty" yaml:"cost,omitempty"`
	SkillTargeted string  `json:"skill_targeted,omitempty" yaml:"-"`
	Source        string  `json:"source,omitempty" yaml:"-"`
	Relevance     float64 `json:"relevance_score,omitempty" yaml:"-"`
}

type catalogFile struct {
	Courses map[string][]Course `yaml:"courses"`
}

// Catalog maps canonical skill names onto courses. It is read-only
// after construction.
type Catalog struct {
	courses map[string][]Course
	keys    []string
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(catalogData)
}

// LoadCatalog reads a catalog YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes catalog YAML. Every course needs a name and a URL.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	c := &Catalog{courses: make(map[string][]Course, len(f.Courses))}
	for skill, list := range f.Courses {
		for i, course := range list {
			if course.Name == "" || course.URL == "" {
				return nil, fmt.Errorf("skill %s course %d: name and url are required", skill, i)
			}
		}
		key := skillKey(skill)
		c.courses[key] = list
		c.keys = append(c.keys, key)
	}
	sort.Strings(c.keys)
	return c, nil
}

func skillKey(skill string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(skill)), " ", "-")
}

// Courses returns up to max courses for skill. An exact catalog entry
// wins; otherwise the first entry (in key order) whose key contains, or
// is contained in, the skill is used. Each course is tagged with the
// skill it targets.
func (c *Catalog) Courses(skill string, max int) []Course {
	if max <= 0 {
		max = DefaultMaxPerSkill
	}
	key := skillKey(skill)
	if key == "" {
		return nil
	}
	list, ok := c.courses[key]
	if !ok {
		for _, k := range c.keys {
			if strings.Contains(key, k) || strings.Contains(k, key) {
				list = c.courses[k]
				break
			}
		}
	}

	out := make([]Course, 0, min(len(list), max))
	for _, course := range list {
		if len(out) == max {
			break
		}
		course.SkillTargeted = skill
		course.Source = sourceCatalog
		course.Relevance = catalogRelevance
		if course.Cost == "" {
			course.Cost = platformCost(course.Platform)
		}
		out = append(out, course)
	}
	return out
}

// Len returns the number of skills with catalog entries.
func (c *Catalog) Len() int {
	return len(c.keys)
}

func platformCost(platform string) string {
	if cost, ok := costs[platform]; ok {
		return cost
	}
	return "Varies"
}

// Scope selects which gap buckets a plan covers.
type Scope string

const (
	ScopeCritical  Scope = "critical"
	ScopeImportant Scope = "important"
	ScopeAll       Scope = "all"
)

// ParseScope validates a scope name. Empty means critical.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeCritical:
		return ScopeCritical, nil
	case ScopeImportant:
		return ScopeImportant, nil
	case ScopeAll:
		return ScopeAll, nil
	}
	return "", fmt.Errorf("unknown scope %q (want critical, important, or all)", s)
}

// Options tunes plan construction.
type Options struct {
	MaxPerSkill int
	Scope       Scope
}

// SkillCourses pairs a gap skill with its courses.
type SkillCourses struct {
	Skill    string         `json:"skill"`
	Priority types.Priority `json:"gap_priority"`
	Gap      float64        `json:"gap"`
	Courses  []Course       `json:"courses"`
}

// PlanSummary totals a plan.
type PlanSummary struct {
	TotalSkills    int    `json:"total_skills"`
	TotalCourses   int    `json:"total_courses"`
	EstimatedTime  string `json:"estimated_time"`
	EstimatedCost  string `json:"estimated_cost_range"`
	Recommendation string `json:"recommendation"`
}

// Plan is a learning plan for one gap analysis.
type Plan struct {
	Critical  []SkillCourses `json:"critical_gaps"`
	Important []SkillCourses `json:"important_gaps"`
	Emerging  []SkillCourses `json:"emerging_gaps"`
	Summary   PlanSummary    `json:"summary"`
}

// Recommender builds plans from a catalog.
type Recommender struct {
	catalog *Catalog
}

// New returns a Recommender over catalog.
func New(catalog *Catalog) *Recommender {
	return &Recommender{catalog: catalog}
}

// ForSkill returns up to max courses for one skill.
func (r *Recommender) ForSkill(skill string, max int) []Course {
	return r.catalog.Courses(skill, max)
}

// Recommend builds a plan. ScopeCritical covers every critical gap,
// ScopeImportant the top five important gaps, and ScopeAll both plus the
// top three emerging gaps. Gaps keep the analysis order.
func (r *Recommender) Recommend(a types.GapAnalysis, opts Options) Plan {
	if opts.Scope == "" {
		opts.Scope = ScopeCritical
	}
	plan := Plan{
		Critical:  []SkillCourses{},
		Important: []SkillCourses{},
		Emerging:  []SkillCourses{},
	}

	if opts.Scope == ScopeCritical || opts.Scope == ScopeAll {
		plan.Critical = r.forGaps(a.CriticalGaps, len(a.CriticalGaps), opts.MaxPerSkill)
	}
	if opts.Scope == ScopeImportant || opts.Scope == ScopeAll {
		plan.Important = r.forGaps(a.ImportantGaps, maxImportant, opts.MaxPerSkill)
	}
	if opts.Scope == ScopeAll {
		plan.Emerging = r.forGaps(a.EmergingGaps, maxEmerging, opts.MaxPerSkill)
	}

	courses := 0
	for _, group := range [][]SkillCourses{plan.Critical, plan.Important, plan.Emerging} {
		for _, sc := range group {
			courses += len(sc.Courses)
		}
	}
	plan.Summary = PlanSummary{
		TotalSkills:    len(plan.Critical) + len(plan.Important) + len(plan.Emerging),
		TotalCourses:   courses,
		EstimatedTime:  EstimateTime(len(plan.Critical), len(plan.Important)),
		EstimatedCost:  "$0 - $500",
		Recommendation: Advise(a.CriticalGaps),
	}
	return plan
}

func (r *Recommender) forGaps(gaps []types.Gap, limit, max int) []SkillCourses {
	out := []SkillCourses{}
	for i, g := range gaps {
		if i == limit {
			break
		}
		out = append(out, SkillCourses{
			Skill:    g.Skill,
			Priority: g.Priority,
			Gap:      g.Gap,
			Courses:  r.catalog.Courses(g.Skill, max),
		})
	}
	return out
}

// EstimateTime converts planned skills into a rough duration: a month
// per critical skill and two weeks per important one.
func EstimateTime(critical, important int) string {
	months := float64(critical) + 0.5*float64(important)
	switch {
	case months < 1:
		return "2-4 weeks"
	case months < 2:
		return "1-2 months"
	case months < 4:
		return "2-4 months"
	case months < 6:
		return "4-6 months"
	}
	return "6+ months"
}

// Advise returns a one-line recommendation based on the critical gaps.
func Advise(critical []types.Gap) string {
	n := len(critical)
	switch {
	case n == 0:
		return "You're job-ready! Focus on emerging skills to stay ahead."
	case n <= 2:
		return fmt.Sprintf("Focus on %d critical skill(s) first. You'll be ready in 1-2 months.", n)
	case n <= 4:
		return fmt.Sprintf("Prioritize top 2 critical skills now. Address remaining %d next.", n-2)
	}
	return fmt.Sprintf("Start with %s and one domain skill. Build progressively over 4-6 months.", critical[0].Skill)
}
