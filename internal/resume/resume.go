// Package resume recovers coarse structure from plain resume text:
// section boundaries, the skills a skills section lists, and work
// experience entries headed by a date range.
package resume

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/skillgap/internal/normalize"
	"github.com/pdiddy/skillgap/pkg/types"
)

// SectionKind classifies a resume section by its heading.
type SectionKind string

const (
	SectionPreamble       SectionKind = "preamble"
	SectionSummary        SectionKind = "summary"
	SectionExperience     SectionKind = "experience"
	SectionEducation      SectionKind = "education"
	SectionProjects       SectionKind = "projects"
	SectionSkills         SectionKind = "skills"
	SectionCertifications SectionKind = "certifications"
	SectionOther          SectionKind = "other"
)

// headings maps cleaned heading text onto its section kind.
var headings = map[string]SectionKind{
	"summary":                 SectionSummary,
	"professional summary":    SectionSummary,
	"objective":               SectionSummary,
	"profile":                 SectionSummary,
	"experience":              SectionExperience,
	"work experience":         SectionExperience,
	"professional experience": SectionExperience,
	"employment history":      SectionExperience,
	"career history":          SectionExperience,
	"work history":            SectionExperience,
	"education":               SectionEducation,
	"academic background":     SectionEducation,
	"qualifications":          SectionEducation,
	"projects":                SectionProjects,
	"personal projects":       SectionProjects,
	"academic projects":       SectionProjects,
	"selected projects":       SectionProjects,
	"skills":                  SectionSkills,
	"technical skills":        SectionSkills,
	"key skills":              SectionSkills,
	"core competencies":       SectionSkills,
	"expertise":               SectionSkills,
	"technologies":            SectionSkills,
	"tools":                   SectionSkills,
	"programming languages":   SectionSkills,
	"skills technologies":     SectionSkills,
	"certifications":          SectionCertifications,
	"certificates":            SectionCertifications,
	"licenses":                SectionCertifications,
	"licenses certifications": SectionCertifications,
	"awards":                  SectionCertifications,
}

// maxHeadingLen is the longest line still treated as a heading.
const maxHeadingLen = 50

// Section is a run of resume lines under one heading.
type Section struct {
	Kind    SectionKind
	Heading string
	Body    string
}

// Split divides text into sections. A heading is a short line whose
// text, ignoring Markdown hashes, a trailing colon, and case, names a
// known section; any "## " Markdown heading also starts a section. Text
// before the first heading becomes a preamble section.
func Split(text string) []Section {
	var sections []Section
	cur := Section{Kind: SectionPreamble}
	var lines []string

	flush := func() {
		cur.Body = strings.TrimSpace(strings.Join(lines, "\n"))
		if cur.Heading != "" || cur.Body != "" {
			sections = append(sections, cur)
		}
		lines = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if kind, heading, ok := parseHeading(line); ok {
			flush()
			cur = Section{Kind: kind, Heading: heading}
			continue
		}
		lines = append(lines, line)
	}
	flush()
	return sections
}

func parseHeading(line string) (SectionKind, string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > maxHeadingLen {
		return "", "", false
	}
	markdown := strings.HasPrefix(trimmed, "#")
	heading := strings.TrimSpace(strings.TrimRight(strings.TrimLeft(trimmed, "#"), ":"))

	var words []string
	for _, w := range strings.Fields(normalize.Key(heading)) {
		if w != "and" {
			words = append(words, w)
		}
	}
	if kind, ok := headings[strings.Join(words, " ")]; ok {
		return kind, heading, true
	}
	if markdown && heading != "" {
		return SectionOther, heading, true
	}
	return "", "", false
}

// Resolver maps a phrase onto a canonical skill name.
type Resolver interface {
	Resolve(phrase string) (string, bool)
}

var listDelimiters = strings.NewReplacer("•", ",", "·", ",", "|", ",", ";", ",", "\n", ",", "/", ",", "&", ",", "\t", ",")

// ListedSkills returns the canonical skills named in the text's skills
// sections, sorted. Each list item is resolved as a whole, so only
// exact names and synonyms count; a "Label: a, b" prefix is dropped.
func ListedSkills(text string, r Resolver) []string {
	found := make(map[string]bool)
	for _, sec := range Split(text) {
		if sec.Kind != SectionSkills {
			continue
		}
		for _, line := range strings.Split(sec.Body, "\n") {
			if i := strings.Index(line, ":"); i >= 0 {
				line = line[i+1:]
			}
			for _, item := range strings.Split(listDelimiters.Replace(line), ",") {
				item = strings.Trim(strings.TrimSpace(item), "-*. ")
				if item == "" {
					continue
				}
				if name, ok := r.Resolve(item); ok {
					found[name] = true
				}
			}
		}
	}

	out := make([]string, 0, len(found))
	for name := range found {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Finder lists the canonical skills mentioned in free text.
type Finder interface {
	Match(text string) []string
}

// dateRange matches "Jan 2020 - Present", "06/2019 – 12/2021" and
// similar spans.
var dateRange = regexp.MustCompile(`(?i)\b((?:[a-z]{3,9}\.?\s+)?\d{4}|\d{1,2}/\d{4})\s*(?:-|–|—|to)\s*((?:[a-z]{3,9}\.?\s+)?\d{4}|\d{1,2}/\d{4}|present|current|now)\b`)

// Experience parses work experience entries from the text's experience
// sections. An entry starts with a company line followed by a title
// line carrying a date range; bullet lines ("-", "•", "*") that follow
// form its description. Technologies are the skills f finds in the
// description. f may be nil.
func Experience(text string, f Finder) []types.WorkExperience {
	var out []types.WorkExperience
	for _, sec := range Split(text) {
		if sec.Kind != SectionExperience {
			continue
		}
		out = append(out, parseEntries(sec.Body, f)...)
	}
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = entryID(out[i], i)
		}
	}
	return out
}

func parseEntries(body string, f Finder) []types.WorkExperience {
	lines := strings.Split(body, "\n")
	var entries []types.WorkExperience
	var cur *types.WorkExperience
	var desc []string

	finish := func() {
		if cur == nil {
			return
		}
		cur.Description = strings.Join(desc, "\n")
		if f != nil && cur.Description != "" {
			cur.TechnologiesUsed = f.Match(cur.Description)
		}
		entries = append(entries, *cur)
		cur, desc = nil, nil
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if bullet, ok := stripBullet(line); ok {
			if cur != nil {
				desc = append(desc, bullet)
			}
			continue
		}
		if i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if loc := dateRange.FindStringIndex(next); loc != nil {
				finish()
				cur = &types.WorkExperience{
					CompanyName:    line,
					JobTitle:       strings.Trim(strings.TrimSpace(next[:loc[0]]), ",|-–— "),
					EmploymentType: employmentType(next),
				}
				i++
				continue
			}
		}
		if cur != nil {
			desc = append(desc, line)
		}
	}
	finish()
	return entries
}

func stripBullet(line string) (string, bool) {
	for _, prefix := range []string{"•", "-", "*", "–"} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}
	return "", false
}

func employmentType(line string) string {
	words := normalize.Words(normalize.Clean(line))
	for _, w := range words {
		switch w {
		case "intern", "internship":
			return "Internship"
		case "contract", "contractor":
			return "Contract"
		case "part-time":
			return "Part-time"
		}
	}
	return "Full-time"
}

func entryID(e types.WorkExperience, i int) string {
	base := normalize.Key(e.JobTitle + " " + e.CompanyName)
	if base == "" {
		base = "entry"
	}
	return strings.ReplaceAll(base, " ", "-") + "-" + strconv.Itoa(i+1)
}

// Bundle builds a source bundle for owner from plain resume text: the
// text itself plus any experience entries it carries.
func Bundle(owner, text string, f Finder) types.SourceBundle {
	return types.SourceBundle{
		Owner:      owner,
		Resume:     []types.ResumeText{{ID: "resume", RawText: text}},
		Experience: Experience(text, f),
	}
}

// Merge folds an imported bundle into an existing one. Resume texts and
// experience entries replace those with the same ID and are appended
// otherwise. Other records in dst are left alone.
func Merge(dst, src types.SourceBundle) types.SourceBundle {
	for _, r := range src.Resume {
		replaced := false
		for i := range dst.Resume {
			if dst.Resume[i].SourceID() == r.SourceID() {
				dst.Resume[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			dst.Resume = append(dst.Resume, r)
		}
	}
	for _, e := range src.Experience {
		replaced := false
		for i := range dst.Experience {
			if dst.Experience[i].SourceID() == e.SourceID() {
				dst.Experience[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			dst.Experience = append(dst.Experience, e)
		}
	}
	if dst.Owner == "" {
		dst.Owner = src.Owner
	}
	return dst
}
