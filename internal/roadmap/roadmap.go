// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package roadmap holds career roadmaps: per-domain ordered milestones,
// each naming the skills it builds. Progress combines an owner's stored
// profile, which decides how much of each milestone's skill list is
// already acquired, with the milestone statuses the owner has recorded.
package roadmap

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/skillgap/internal/taxonomy"
	"github.com/pdiddy/skillgap/pkg/types"
)

//go:embed data/roadmaps.yaml
var roadmapData []byte

// AcquiredThreshold is the proficiency at which a milestone skill counts
// as acquired.
const AcquiredThreshold = 0.3

// Milestone is one step of a roadmap.
type Milestone struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Duration    string   `json:"duration,omitempty" yaml:"duration,omitempty"`
	Skills      []string `json:"skills" yaml:"skills"`
}

// Domain is a career roadmap.
type Domain struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Duration    string      `json:"duration,omitempty" yaml:"duration,omitempty"`
	Milestones  []Milestone `json:"milestones" yaml:"milestones"`
}

// Milestone returns the milestone with id.
func (d Domain) Milestone(id string) (Milestone, bool) {
	for _, m := range d.Milestones {
		if m.ID == id {
			return m, true
		}
	}
	return Milestone{}, false
}

type file struct {
	Domains []Domain `yaml:"domains"`
}

// Library is a set of roadmaps in file order. It is read-only after
// construction.
type Library struct {
	domains []Domain
	byID    map[string]int
}

// Default returns the roadmaps embedded in the binary.
func Default(tax *taxonomy.Taxonomy) (*Library, error) {
	return Parse(roadmapData, tax)
}

// Load reads a roadmap YAML file.
func Load(path string, tax *taxonomy.Taxonomy) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roadmaps: %w", err)
	}
	lib, err := Parse(data, tax)
	if err != nil {
		return nil, fmt.Errorf("loading roadmaps %s: %w", path, err)
	}
	return lib, nil
}

// Parse decodes roadmap YAML and resolves every milestone skill to its
// canonical name. Domain ids and milestone ids within a domain must be
// unique, and every skill must be known to tax.
func Parse(data []byte, tax *taxonomy.Taxonomy) (*Library, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing roadmaps: %w", err)
	}

	lib := &Library{byID: make(map[string]int, len(f.Domains))}
	for _, d := range f.Domains {
		d.ID = strings.TrimSpace(d.ID)
		if d.ID == "" {
			return nil, fmt.Errorf("domain %q: id is required", d.Name)
		}
		if _, dup := lib.byID[d.ID]; dup {
			return nil, fmt.Errorf("domain %s: duplicate id", d.ID)
		}

		seen := make(map[string]bool, len(d.Milestones))
		for i, m := range d.Milestones {
			if m.ID == "" {
				return nil, fmt.Errorf("domain %s milestone %d: id is required", d.ID, i)
			}
			if seen[m.ID] {
				return nil, fmt.Errorf("domain %s: duplicate milestone %s", d.ID, m.ID)
			}
			seen[m.ID] = true

			skills := make([]string, 0, len(m.Skills))
			for _, s := range m.Skills {
				name, ok := tax.Resolve(s)
				if !ok {
					return nil, fmt.Errorf("domain %s milestone %s: unknown skill %q", d.ID, m.ID, s)
				}
				skills = append(skills, name)
			}
			d.Milestones[i].Skills = skills
		}

		lib.byID[d.ID] = len(lib.domains)
		lib.domains = append(lib.domains, d)
	}
	return lib, nil
}

// Domains returns every roadmap in file order.
func (l *Library) Domains() []Domain {
	return l.domains
}

// Domain returns the roadmap with id.
func (l *Library) Domain(id string) (Domain, bool) {
	i, ok := l.byID[id]
	if !ok {
		return Domain{}, false
	}
	return l.domains[i], true
}

// SkillCheck reports whether the owner has one milestone skill.
type SkillCheck struct {
	Skill       string  `json:"skill"`
	Proficiency float64 `json:"proficiency"`
	Acquired    bool    `json:"acquired"`
}

// MilestoneProgress is one milestone with the owner's standing on it.
type MilestoneProgress struct {
	Milestone
	State types.MilestoneState `json:"state"`

	// SkillCompletion is the percentage of the milestone's skills the
	// owner has acquired.
	SkillCompletion int          `json:"skill_completion"`
	SkillChecks     []SkillCheck `json:"skill_checks"`
}

// Progress is an owner's standing on a whole roadmap.
type Progress struct {
	Domain              string              `json:"domain"`
	Name                string              `json:"name"`
	StartedAt           string              `json:"started_at,omitempty"`
	OverallProgress     int                 `json:"overall_progress"`
	CompletedMilestones int                 `json:"completed_milestones"`
	TotalMilestones     int                 `json:"total_milestones"`
	Milestones          []MilestoneProgress `json:"milestones"`
}

// Evaluate computes progress on d. Overall progress counts milestones
// marked completed; skill completion comes from the profile alone, so a
// milestone can be fully skilled and still not started. Milestones with
// no stored state are not started. Percentages are rounded half to even.
func Evaluate(d Domain, user map[string]types.Score, states map[string]types.MilestoneState) Progress {
	p := Progress{
		Domain:          d.ID,
		Name:            d.Name,
		TotalMilestones: len(d.Milestones),
		Milestones:      make([]MilestoneProgress, 0, len(d.Milestones)),
	}

	for _, m := range d.Milestones {
		st, ok := states[m.ID]
		if !ok || st.Status == "" {
			st = types.MilestoneState{Status: types.StatusNotStarted}
		}
		if st.Status == types.StatusCompleted {
			p.CompletedMilestones++
		}

		mp := MilestoneProgress{Milestone: m, State: st, SkillChecks: make([]SkillCheck, 0, len(m.Skills))}
		acquired := 0
		for _, skill := range m.Skills {
			prof := types.Clamp01(user[skill].Proficiency)
			has := prof >= AcquiredThreshold
			if has {
				acquired++
			}
			mp.SkillChecks = append(mp.SkillChecks, SkillCheck{Skill: skill, Proficiency: prof, Acquired: has})
		}
		mp.SkillCompletion = percent(acquired, len(m.Skills))
		p.Milestones = append(p.Milestones, mp)
	}

	p.OverallProgress = percent(p.CompletedMilestones, p.TotalMilestones)
	return p
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.RoundToEven(float64(n) / float64(total) * 100))
}
