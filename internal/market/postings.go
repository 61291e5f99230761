// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package market

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/skillgap/internal/match"
	"github.com/pdiddy/skillgap/internal/normalize"
	"github.com/pdiddy/skillgap/pkg/types"
)

// Posting is one job advertisement.
type Posting struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string `json:"title" yaml:"title"`
	Company     string `json:"company,omitempty" yaml:"company,omitempty"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
	Description string `json:"description" yaml:"description"`
}

type postingsFile struct {
	Postings []Posting `yaml:"postings"`
}

// LoadPostings reads a postings file: a top-level "postings" list.
func LoadPostings(path string) ([]Posting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading postings: %w", err)
	}
	var f postingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing postings %s: %w", path, err)
	}
	return f.Postings, nil
}

const (
	baseNeeded      = 0.70
	preferredFactor = 0.8
	contextWindow   = 100

	// Requirement level cutoffs.
	criticalRequiredRatio = 0.70
	importantFrequency    = 0.50
	emergingFrequency     = 0.25
)

var (
	requiredMarkers = []string{
		"required", "requirements", "must have", "essential", "mandatory",
		"needs", "requires", "should have", "necessary",
	}
	preferredMarkers = []string{
		"preferred", "nice to have", "bonus", "plus", "desired", "ideal",
		"good to have", "advantageous",
	}

	expertTerms     = []string{"expert", "advanced", "proficient", "strong", "extensive", "deep", "senior"}
	productionTerms = []string{"production", "deployed", "scalable", "enterprise", "large scale"}

	yearsPattern = regexp.MustCompile(`\b(\d+) years?\b`)
)

// PostingSkills holds the skills one posting asks for, each with the
// proficiency the posting needs. A skill is in at most one map.
type PostingSkills struct {
	Required  map[string]float64
	Preferred map[string]float64
}

// Analyzer turns job postings into market requirement statistics. It
// holds no mutable state.
type Analyzer struct {
	matcher *match.Matcher
}

// NewAnalyzer returns an Analyzer that finds skills with m.
func NewAnalyzer(m *match.Matcher) *Analyzer {
	return &Analyzer{matcher: m}
}

// AnalyzePosting splits a description into required and preferred
// sections and estimates the proficiency each skill needs from the
// words around its mentions. Preferred needs are scaled by 0.8. A skill
// found in both sections counts as required.
func (a *Analyzer) AnalyzePosting(description string) PostingSkills {
	out := PostingSkills{
		Required:  map[string]float64{},
		Preferred: map[string]float64{},
	}
	text := normalize.Key(description)
	if text == "" {
		return out
	}

	required, preferred := splitSections(text)
	for _, skill := range a.matcher.Match(required) {
		out.Required[skill] = a.proficiencyNeeded(skill, text)
	}
	for _, skill := range a.matcher.Match(preferred) {
		if _, ok := out.Required[skill]; ok {
			continue
		}
		out.Preferred[skill] = a.proficiencyNeeded(skill, text) * preferredFactor
	}
	return out
}

type marker struct {
	start, end int
	required   bool
}

// splitSections assigns each stretch of key-form text to the section
// named by the marker before it. Text ahead of the first marker is
// required when the posting has no required marker at all, and ignored
// otherwise. Without markers the whole text is required.
func splitSections(text string) (required, preferred string) {
	var markers []marker
	for _, m := range requiredMarkers {
		for _, p := range normalize.WordPositions(text, m) {
			markers = append(markers, marker{p[0], p[1], true})
		}
	}
	hasRequired := len(markers) > 0
	for _, m := range preferredMarkers {
		for _, p := range normalize.WordPositions(text, m) {
			markers = append(markers, marker{p[0], p[1], false})
		}
	}
	if len(markers) == 0 {
		return text, ""
	}
	sort.Slice(markers, func(i, j int) bool {
		if markers[i].start != markers[j].start {
			return markers[i].start < markers[j].start
		}
		return markers[i].end > markers[j].end
	})

	var req, pref []string
	if !hasRequired {
		req = append(req, text[:markers[0].start])
	}
	for i, m := range markers {
		if i > 0 && m.start < markers[i-1].end {
			continue
		}
		end := len(text)
		for _, next := range markers[i+1:] {
			if next.start >= m.end {
				end = next.start
				break
			}
		}
		if m.required {
			req = append(req, text[m.end:end])
		} else {
			pref = append(pref, text[m.end:end])
		}
	}
	return strings.Join(req, " "), strings.Join(pref, " ")
}

// proficiencyNeeded starts at 0.70 and adds 0.15 for an expertise term,
// up to 0.15 for a years-of-experience figure, and 0.10 for a
// production term, all looked for within 100 characters of a mention.
func (a *Analyzer) proficiencyNeeded(skill, text string) float64 {
	ctx := a.context(skill, text)
	if ctx == "" {
		return baseNeeded
	}

	need := baseNeeded
	if normalize.HasAnyWord(ctx, expertTerms) {
		need += 0.15
	}
	if m := yearsPattern.FindStringSubmatch(ctx); m != nil {
		years, _ := strconv.Atoi(m[1])
		switch {
		case years >= 5:
			need += 0.15
		case years >= 3:
			need += 0.10
		case years >= 1:
			need += 0.05
		}
	}
	if normalize.HasAnyWord(ctx, productionTerms) {
		need += 0.10
	}
	return math.Min(need, 1.0)
}

// context joins the windows around every mention of skill or one of its
// synonyms.
func (a *Analyzer) context(skill, text string) string {
	phrases := []string{normalize.Key(skill)}
	if e, ok := a.matcher.Taxonomy().Lookup(skill); ok {
		for _, syn := range e.Synonyms {
			phrases = append(phrases, normalize.Key(syn))
		}
	}
	var windows []string
	for _, phrase := range phrases {
		for _, p := range normalize.WordPositions(text, phrase) {
			lo := max(0, p[0]-contextWindow)
			hi := min(len(text), p[1]+contextWindow)
			windows = append(windows, text[lo:hi])
		}
	}
	return strings.Join(windows, " ")
}

// Level assigns a requirement level from the share of postings that
// require a skill and the share that mention it at all.
func Level(requiredRatio, frequency float64) types.RequirementLevel {
	switch {
	case requiredRatio >= criticalRequiredRatio:
		return types.LevelCritical
	case frequency >= importantFrequency:
		return types.LevelImportant
	case frequency >= emergingFrequency:
		return types.LevelEmerging
	}
	return types.LevelOptional
}

type skillStats struct {
	required  int
	preferred int
	needSum   float64
}

// Aggregate deduplicates postings and computes one requirement entry
// per skill: frequency is mentions over postings analyzed, proficiency
// needed is the mean over mentions. Postings with an empty description
// count toward the total but contribute no skills. Entries are sorted by
// frequency descending, then skill name. The second result is the number
// of duplicate postings merged away.
func (a *Analyzer) Aggregate(postings []Posting) (types.MarketTable, int) {
	jobs, removed := Deduplicate(postings)
	table := types.MarketTable{
		Source:       types.MarketSourcePostings,
		JobsAnalyzed: len(jobs),
		Skills:       []types.MarketRequirement{},
	}
	if len(jobs) == 0 {
		return table, removed
	}

	stats := make(map[string]*skillStats)
	get := func(skill string) *skillStats {
		s, ok := stats[skill]
		if !ok {
			s = &skillStats{}
			stats[skill] = s
		}
		return s
	}
	for _, p := range jobs {
		if strings.TrimSpace(p.Description) == "" {
			continue
		}
		ps := a.AnalyzePosting(p.Description)
		for skill, need := range ps.Required {
			s := get(skill)
			s.required++
			s.needSum += need
		}
		for skill, need := range ps.Preferred {
			s := get(skill)
			s.preferred++
			s.needSum += need
		}
	}

	total := float64(len(jobs))
	for skill, s := range stats {
		mentions := s.required + s.preferred
		freq := float64(mentions) / total
		table.Skills = append(table.Skills, types.MarketRequirement{
			Skill:                skill,
			Frequency:            types.Round(freq, 3),
			Level:                Level(float64(s.required)/total, freq),
			AvgProficiencyNeeded: types.Round(s.needSum/float64(mentions), 2),
			MentionCount:         mentions,
			RequiredCount:        s.required,
			PreferredCount:       s.preferred,
		})
	}
	sort.Slice(table.Skills, func(i, j int) bool {
		if table.Skills[i].Frequency != table.Skills[j].Frequency {
			return table.Skills[i].Frequency > table.Skills[j].Frequency
		}
		return table.Skills[i].Skill < table.Skills[j].Skill
	})
	return table, removed
}

// Deduplicate merges postings that share an ID or a normalized
// title and company. The first occurrence is kept; later duplicates
// only fill its empty fields.
func Deduplicate(postings []Posting) ([]Posting, int) {
	seen := make(map[string]int)
	var deduped []Posting
	removed := 0

	for _, p := range postings {
		idKey := ""
		if id := strings.TrimSpace(p.ID); id != "" {
			idKey = "id:" + id
		}
		titleKey := ""
		if t := normalize.Key(p.Title); t != "" {
			titleKey = "title:" + t + "@" + normalize.Key(p.Company)
		}

		if idx, ok := lookup(seen, idKey, titleKey); ok {
			mergeInto(&deduped[idx], p)
			removed++
			continue
		}

		idx := len(deduped)
		deduped = append(deduped, p)
		if idKey != "" {
			seen[idKey] = idx
		}
		if titleKey != "" {
			seen[titleKey] = idx
		}
	}
	return deduped, removed
}

func lookup(seen map[string]int, keys ...string) (int, bool) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if idx, ok := seen[k]; ok {
			return idx, true
		}
	}
	return 0, false
}

// mergeInto fills empty fields of dst from src.
func mergeInto(dst *Posting, src Posting) {
	if dst.ID == "" {
		dst.ID = src.ID
	}
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.Company == "" {
		dst.Company = src.Company
	}
	if dst.Location == "" {
		dst.Location = src.Location
	}
	if strings.TrimSpace(dst.Description) == "" {
		dst.Description = src.Description
	}
}
