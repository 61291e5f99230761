// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package estimate scores how proficient a profile owner is in a matched
// skill, given the source record the skill was found in. Each source
// kind has its own rule: a base proficiency, additive adjustments for
// signals in the record, and a cap. Hands-on evidence (work experience,
// deployed projects) caps higher than passive evidence (courses).
package estimate

import (
	"strconv"
	"strings"

	"github.com/pdiddy/skillgap/internal/normalize"
	"github.com/pdiddy/skillgap/internal/taxonomy"
	"github.com/pdiddy/skillgap/pkg/types"
)

// rule bounds one source kind's scores.
type rule struct {
	base    float64
	floor   float64
	ceiling float64
	conf    float64
	confCap float64
}

var (
	courseRule        = rule{base: 0.50, ceiling: 0.70, conf: 0.70, confCap: 0.85}
	projectRule       = rule{base: 0.60, ceiling: 0.90, conf: 0.75, confCap: 0.90}
	experienceRule    = rule{base: 0.65, floor: 0.40, ceiling: 0.95, conf: 0.80, confCap: 0.95}
	textRule          = rule{base: 0.50, ceiling: 0.90, conf: 0.70, confCap: 0.85}
	repositoryRule    = rule{base: 0.65, ceiling: 0.90, conf: 0.75, confCap: 0.90}
	certificationRule = rule{base: 0.60, ceiling: 0.80, conf: 0.85, confCap: 0.95}
)

func (r rule) score(prof, conf float64) types.Score {
	return types.Score{
		Proficiency: types.ClampRange(prof, r.floor, r.ceiling),
		Confidence:  types.ClampRange(conf, 0, r.confCap),
	}
}

// Bounds returns the proficiency floor and cap and the confidence cap for
// a source kind. Unknown kinds get the text bounds.
func Bounds(kind types.SourceKind) (floor, ceiling, confCap float64) {
	r := ruleFor(kind)
	return r.floor, r.ceiling, r.confCap
}

func ruleFor(kind types.SourceKind) rule {
	switch kind {
	case types.KindCourse:
		return courseRule
	case types.KindProject:
		return projectRule
	case types.KindExperience:
		return experienceRule
	case types.KindRepository:
		return repositoryRule
	case types.KindCertification:
		return certificationRule
	}
	return textRule
}

var reputablePlatforms = []string{
	"coursera", "edx", "udacity", "udemy", "linkedin learning", "pluralsight",
	"datacamp", "codecademy", "khan academy", "mit", "stanford", "harvard",
	"google", "microsoft", "aws", "ibm",
}

var reputableIssuers = []string{
	"aws", "amazon", "google", "microsoft", "cisco", "comptia", "oracle",
	"isc2", "pmi", "linux foundation", "cncf", "ibm", "red hat", "salesforce",
}

// projectSignals are complexity keyword groups. Each group counts once.
var projectSignals = []struct {
	terms []string
	boost float64
}{
	{[]string{"deployed", "deployment"}, 0.15},
	{[]string{"production"}, 0.15},
	{[]string{"scalable", "scalability", "large scale"}, 0.10},
	{[]string{"complex", "advanced"}, 0.10},
	{[]string{"optimized", "optimised", "improved"}, 0.08},
	{[]string{"integrated", "integration", "api"}, 0.05},
	{[]string{"real time", "realtime"}, 0.08},
	{[]string{"machine learning", "deep learning"}, 0.10},
	{[]string{"ml", "ai"}, 0.08},
}

var (
	seniorTitles   = []string{"senior", "sr", "lead", "principal", "staff", "manager", "head", "director", "architect"}
	juniorTitles   = []string{"junior", "jr", "intern", "internship", "trainee", "entry level", "apprentice"}
	leadershipVerb = []string{"led", "managed", "architected", "built", "designed", "developed", "launched", "spearheaded", "mentored", "owned", "founded"}
)

// Estimator scores (skill, record) pairs. It is stateless apart from the
// optional taxonomy used to recognize synonyms and is safe for
// concurrent use.
type Estimator struct {
	tax *taxonomy.Taxonomy
}

// New returns an Estimator. tax may be nil, in which case only the
// canonical spelling of a skill is recognized in record text.
func New(tax *taxonomy.Taxonomy) *Estimator {
	return &Estimator{tax: tax}
}

// Estimate dispatches on the record's variant.
func (e *Estimator) Estimate(skill string, rec types.Record) types.Score {
	switch r := rec.(type) {
	case types.Course:
		return e.Course(skill, r)
	case types.Project:
		return e.Project(skill, r)
	case types.WorkExperience:
		return e.Experience(skill, r)
	case types.ResumeText:
		return e.Text(skill, r.RawText)
	case types.Repository:
		return e.Repository(skill, r)
	case types.Certification:
		return e.Certification(skill, r)
	}
	return e.Text(skill, rec.Text())
}

// Course scores a skill learned in a course. Grades, a reputable
// platform, and an advanced or intermediate level raise the score; a
// course alone never exceeds 0.70.
func (e *Estimator) Course(skill string, c types.Course) types.Score {
	prof, conf := courseRule.base, courseRule.conf

	if boost := gradeBoost(c.Grade); boost > 0 {
		prof += boost
		conf += 0.05
	}
	if normalize.HasAnyWord(normalize.Key(c.Platform), reputablePlatforms) {
		prof += 0.05
		conf += 0.05
	}

	text := normalize.Key(c.CourseName + " " + c.Description)
	switch {
	case normalize.HasWord(text, "advanced"):
		prof += 0.10
	case normalize.HasWord(text, "intermediate"):
		prof += 0.05
	}

	return courseRule.score(prof, conf)
}

// gradeBoost maps a letter or percentage grade onto a proficiency boost.
func gradeBoost(grade string) float64 {
	g := strings.ToUpper(strings.TrimSpace(grade))
	switch g {
	case "A+", "A":
		return 0.15
	case "A-", "B+":
		return 0.10
	case "B", "B-":
		return 0.05
	}
	if pct, err := strconv.ParseFloat(strings.TrimSuffix(g, "%"), 64); err == nil {
		switch {
		case pct >= 90:
			return 0.15
		case pct >= 85:
			return 0.10
		case pct >= 80:
			return 0.05
		}
	}
	return 0
}

// Project scores a skill used in a project.
func (e *Estimator) Project(skill string, p types.Project) types.Score {
	prof, conf := projectRule.base, projectRule.conf

	text := normalize.Key(p.ProjectName + " " + p.Description)
	for _, sig := range projectSignals {
		for _, term := range sig.terms {
			if normalize.HasWord(text, term) {
				prof += sig.boost
				break
			}
		}
	}

	role := normalize.Key(p.Role)
	switch {
	case normalize.HasWord(role, "lead") || normalize.HasWord(role, "architect") || normalize.HasWord(role, "tech lead"):
		prof += 0.10
	case normalize.HasWord(role, "solo") || normalize.HasWord(role, "sole") || normalize.HasWord(role, "individual"):
		prof += 0.05
	}

	if strings.TrimSpace(p.GitHubLink) != "" {
		prof += 0.05
		conf += 0.05
	}
	if strings.TrimSpace(p.DeployedLink) != "" {
		prof += 0.10
		conf += 0.05
	}
	if e.listed(skill, p.TechStack) {
		conf += 0.05
	}

	return projectRule.score(prof, conf)
}

// Experience scores a skill used in a position. Seniority and
// leadership raise the score, junior titles and internships lower it.
// The result stays within [0.40, 0.95].
func (e *Estimator) Experience(skill string, x types.WorkExperience) types.Score {
	prof, conf := experienceRule.base, experienceRule.conf

	if e.listed(skill, x.TechnologiesUsed) {
		prof += 0.05
		conf += 0.05
	}

	title := normalize.Key(x.JobTitle)
	switch {
	case normalize.HasAnyWord(title, seniorTitles):
		prof += 0.15
	case normalize.HasAnyWord(title, juniorTitles):
		prof -= 0.10
	}

	employment := strings.ToLower(x.EmploymentType)
	switch {
	case strings.Contains(employment, "intern"):
		prof -= 0.10
	case strings.Contains(employment, "full") || strings.Contains(employment, "contract"):
		prof += 0.05
	}

	desc := normalize.Key(x.Description)
	if normalize.HasAnyWord(desc, leadershipVerb) {
		prof += 0.10
	}
	if e.mentions(skill, desc) > 0 {
		conf += 0.05
	}

	return experienceRule.score(prof, conf)
}

// Repository scores a skill evidenced by a hosted repository. Stars and
// forks stand in for outside validation.
func (e *Estimator) Repository(skill string, r types.Repository) types.Score {
	prof, conf := repositoryRule.base, repositoryRule.conf

	switch {
	case r.Stars > 50:
		prof += 0.15
	case r.Stars > 10:
		prof += 0.10
	case r.Stars > 0:
		prof += 0.05
	}
	if r.Forks >= 5 {
		prof += 0.10
	}
	if r.Stars > 10 {
		conf += 0.05
	}
	if strings.TrimSpace(r.ReadmeText) != "" {
		conf += 0.05
	}

	return repositoryRule.score(prof, conf)
}

// Certification scores a skill backed by a professional certification.
func (e *Estimator) Certification(skill string, c types.Certification) types.Score {
	prof, conf := certificationRule.base, certificationRule.conf

	if normalize.HasAnyWord(normalize.Key(c.Issuer), reputableIssuers) {
		prof += 0.05
	}
	name := normalize.Key(c.Name)
	switch {
	case normalize.HasAnyWord(name, []string{"professional", "expert", "specialty"}):
		prof += 0.10
	case normalize.HasWord(name, "associate"):
		prof += 0.05
	}
	if strings.TrimSpace(c.CredentialURL) != "" {
		conf += 0.05
	}

	return certificationRule.score(prof, conf)
}

// listed reports whether any entry of a structured technology list
// names skill, directly or through a synonym.
func (e *Estimator) listed(skill string, techs []string) bool {
	for _, t := range techs {
		if e.tax != nil {
			if name, ok := e.tax.Resolve(t); ok && name == skill {
				return true
			}
			continue
		}
		if normalize.Key(t) == normalize.Key(skill) {
			return true
		}
	}
	return false
}
