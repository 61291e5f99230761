package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/skillgap/internal/taxonomy"
	"github.com/pdiddy/skillgap/pkg/types"
)

const sample = `Jordan Reyes
jordan@example.com

Experience
Acme Health
Data Analyst | Jan 2021 - Present
- Built dashboards in Tableau and SQL
- Led a team of 3 analysts
Beta Corp
Data Intern, Jun 2019 – Aug 2020
• Cleaned data with Python and pandas

Technical Skills:
Languages: Python, SQL
Tableau | Excel; k8s, Underwater Basket Weaving

## Education
BS Statistics, State University
`

func TestSplit(t *testing.T) {
	sections := Split(sample)

	var kinds []SectionKind
	for _, s := range sections {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []SectionKind{SectionPreamble, SectionExperience, SectionSkills, SectionEducation}, kinds)
	assert.Equal(t, "Technical Skills", sections[2].Heading)
	assert.Equal(t, "Education", sections[3].Heading)
	assert.Equal(t, "BS Statistics, State University", sections[3].Body)
	assert.Contains(t, sections[0].Body, "Jordan Reyes")
}

func TestSplitHeadings(t *testing.T) {
	tests := []struct {
		line string
		kind SectionKind
		ok   bool
	}{
		{"SKILLS", SectionSkills, true},
		{"Work Experience:", SectionExperience, true},
		{"Licenses & Certifications", SectionCertifications, true},
		{"Skills and Technologies", SectionSkills, true},
		{"## Volunteering", SectionOther, true},
		{"# Projects", SectionProjects, true},
		{"Python", "", false},
		{"I have extensive experience with many tools and frameworks across teams", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			kind, _, ok := parseHeading(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestSplitWithoutHeadings(t *testing.T) {
	sections := Split("just a paragraph\nof text")
	require.Len(t, sections, 1)
	assert.Equal(t, SectionPreamble, sections[0].Kind)

	assert.Empty(t, Split("   \n\n"))
}

func TestListedSkills(t *testing.T) {
	got := ListedSkills(sample, taxonomy.MustDefault())
	assert.Equal(t, []string{"excel", "kubernetes", "python", "sql", "tableau"}, got)

	assert.Empty(t, ListedSkills("Python and SQL everywhere, but no skills heading.", taxonomy.MustDefault()))
}

type stubFinder map[string][]string

func (f stubFinder) Match(text string) []string { return f[text] }

func TestExperience(t *testing.T) {
	finder := stubFinder{
		"Built dashboards in Tableau and SQL\nLed a team of 3 analysts": {"leadership", "sql", "tableau"},
	}
	got := Experience(sample, finder)
	require.Len(t, got, 2)

	assert.Equal(t, "Acme Health", got[0].CompanyName)
	assert.Equal(t, "Data Analyst", got[0].JobTitle)
	assert.Equal(t, "Full-time", got[0].EmploymentType)
	assert.Equal(t, []string{"leadership", "sql", "tableau"}, got[0].TechnologiesUsed)
	assert.Equal(t, "data-analyst-acme-health-1", got[0].ID)

	assert.Equal(t, "Beta Corp", got[1].CompanyName)
	assert.Equal(t, "Data Intern", got[1].JobTitle)
	assert.Equal(t, "Internship", got[1].EmploymentType)
	assert.Equal(t, "Cleaned data with Python and pandas", got[1].Description)
	assert.Empty(t, got[1].TechnologiesUsed)
}

func TestExperienceNilFinder(t *testing.T) {
	got := Experience(sample, nil)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].TechnologiesUsed)
}

func TestBundle(t *testing.T) {
	b := Bundle("jordan", sample, nil)
	assert.Equal(t, "jordan", b.Owner)
	require.Len(t, b.Resume, 1)
	assert.Equal(t, sample, b.Resume[0].RawText)
	assert.Len(t, b.Experience, 2)
	assert.Len(t, b.Records(), 3)
}

func TestMerge(t *testing.T) {
	dst := types.SourceBundle{
		Owner:      "jordan",
		Resume:     []types.ResumeText{{ID: "resume", RawText: "old"}},
		Courses:    []types.Course{{ID: "sql-101", CourseName: "SQL 101"}},
		Experience: []types.WorkExperience{{ID: "analyst-acme-1", JobTitle: "Analyst"}},
	}
	src := types.SourceBundle{
		Owner:  "jordan",
		Resume: []types.ResumeText{{ID: "resume", RawText: "new"}},
		Experience: []types.WorkExperience{
			{ID: "analyst-acme-1", JobTitle: "Senior Analyst"},
			{ID: "intern-beta-2", JobTitle: "Intern"},
		},
	}

	got := Merge(dst, src)
	require.Len(t, got.Resume, 1)
	assert.Equal(t, "new", got.Resume[0].RawText)
	require.Len(t, got.Experience, 2)
	assert.Equal(t, "Senior Analyst", got.Experience[0].JobTitle)
	assert.Equal(t, "Intern", got.Experience[1].JobTitle)
	assert.Len(t, got.Courses, 1, "records not in the import are kept")

	empty := Merge(types.SourceBundle{}, src)
	assert.Equal(t, "jordan", empty.Owner)
	assert.Len(t, empty.Experience, 2)
}
