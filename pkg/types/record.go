package types

import (
	"strings"
	"unicode/utf8"
)

// SourceKind identifies the kind of source record a skill observation
// came from.
type SourceKind string

const (
	KindCourse        SourceKind = "course"
	KindProject       SourceKind = "project"
	KindExperience    SourceKind = "experience"
	KindResume        SourceKind = "resume"
	KindRepository    SourceKind = "repository"
	KindCertification SourceKind = "certification"
)

// Record is a source record carrying evidence of skill usage. The set of
// implementations is closed: Course, Project, WorkExperience, ResumeText,
// Repository, and Certification.
type Record interface {
	// Kind returns the record's source kind.
	Kind() SourceKind

	// SourceID returns the identifier used in "kind:id" references.
	SourceID() string

	// Text returns the free text the skill matcher runs over.
	Text() string

	isRecord()
}

// Course is a completed course.
type Course struct {
	ID             string `json:"id" yaml:"id"`
	CourseName     string `json:"course_name" yaml:"course_name"`
	Platform       string `json:"platform" yaml:"platform"`
	Instructor     string `json:"instructor,omitempty" yaml:"instructor,omitempty"`
	Grade          string `json:"grade,omitempty" yaml:"grade,omitempty"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	CompletionDate string `json:"completion_date,omitempty" yaml:"completion_date,omitempty"`
}

func (c Course) Kind() SourceKind { return KindCourse }
func (c Course) SourceID() string { return firstNonEmpty(c.ID, c.CourseName) }
func (c Course) Text() string     { return joinText(c.CourseName, c.Description) }
func (Course) isRecord()          {}

// Project is a personal or professional project write-up.
type Project struct {
	ID           string   `json:"id" yaml:"id"`
	ProjectName  string   `json:"project_name" yaml:"project_name"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	TechStack    []string `json:"tech_stack,omitempty" yaml:"tech_stack,omitempty"`
	Role         string   `json:"role,omitempty" yaml:"role,omitempty"`
	Duration     string   `json:"duration,omitempty" yaml:"duration,omitempty"`
	GitHubLink   string   `json:"github_link,omitempty" yaml:"github_link,omitempty"`
	DeployedLink string   `json:"deployed_link,omitempty" yaml:"deployed_link,omitempty"`
}

func (p Project) Kind() SourceKind { return KindProject }
func (p Project) SourceID() string { return firstNonEmpty(p.ID, p.ProjectName) }
func (p Project) Text() string {
	return joinText(p.ProjectName, p.Description, strings.Join(p.TechStack, ", "))
}
func (Project) isRecord() {}

// WorkExperience is one position held.
type WorkExperience struct {
	ID               string   `json:"id" yaml:"id"`
	JobTitle         string   `json:"job_title" yaml:"job_title"`
	CompanyName      string   `json:"company_name,omitempty" yaml:"company_name,omitempty"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty"`
	EmploymentType   string   `json:"employment_type,omitempty" yaml:"employment_type,omitempty"`
	TechnologiesUsed []string `json:"technologies_used,omitempty" yaml:"technologies_used,omitempty"`
}

func (e WorkExperience) Kind() SourceKind { return KindExperience }
func (e WorkExperience) SourceID() string {
	return firstNonEmpty(e.ID, joinText(e.JobTitle, e.CompanyName))
}
func (e WorkExperience) Text() string {
	return joinText(e.JobTitle, e.Description, strings.Join(e.TechnologiesUsed, ", "))
}
func (WorkExperience) isRecord() {}

// ResumeText is unstructured resume text.
type ResumeText struct {
	ID      string `json:"id" yaml:"id"`
	RawText string `json:"raw_text" yaml:"raw_text"`
}

func (r ResumeText) Kind() SourceKind { return KindResume }
func (r ResumeText) SourceID() string { return firstNonEmpty(r.ID, "resume") }
func (r ResumeText) Text() string     { return r.RawText }
func (ResumeText) isRecord()          {}

// Repository is source-hosting metadata for one repository.
type Repository struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Language    string   `json:"language,omitempty" yaml:"language,omitempty"`
	Topics      []string `json:"topics,omitempty" yaml:"topics,omitempty"`
	Stars       int      `json:"stars" yaml:"stars"`
	Forks       int      `json:"forks" yaml:"forks"`
	ReadmeText  string   `json:"readme_text,omitempty" yaml:"readme_text,omitempty"`
}

// maxReadmeText bounds how much of a README feeds the matcher.
const maxReadmeText = 5000

func (r Repository) Kind() SourceKind { return KindRepository }
func (r Repository) SourceID() string { return firstNonEmpty(r.ID, r.Name) }
func (r Repository) Text() string {
	return joinText(r.Name, r.Description, r.Language, strings.Join(r.Topics, " "), Truncate(r.ReadmeText, maxReadmeText))
}
func (Repository) isRecord() {}

// Certification is a professional certification.
type Certification struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Issuer        string `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	IssueDate     string `json:"issue_date,omitempty" yaml:"issue_date,omitempty"`
	CredentialURL string `json:"credential_url,omitempty" yaml:"credential_url,omitempty"`
}

func (c Certification) Kind() SourceKind { return KindCertification }
func (c Certification) SourceID() string { return firstNonEmpty(c.ID, c.Name) }
func (c Certification) Text() string     { return joinText(c.Name, c.Issuer) }
func (Certification) isRecord()          {}

// SourceBundle is the on-disk set of source records for one profile owner.
type SourceBundle struct {
	Owner          string           `json:"owner" yaml:"owner"`
	Resume         []ResumeText     `json:"resume,omitempty" yaml:"resume,omitempty"`
	Courses        []Course         `json:"courses,omitempty" yaml:"courses,omitempty"`
	Projects       []Project        `json:"projects,omitempty" yaml:"projects,omitempty"`
	Experience     []WorkExperience `json:"experience,omitempty" yaml:"experience,omitempty"`
	Repositories   []Repository     `json:"repositories,omitempty" yaml:"repositories,omitempty"`
	Certifications []Certification  `json:"certifications,omitempty" yaml:"certifications,omitempty"`
}

// Records flattens the bundle in a fixed kind order: resume, courses,
// projects, experience, repositories, certifications.
func (b SourceBundle) Records() []Record {
	var out []Record
	for _, r := range b.Resume {
		out = append(out, r)
	}
	for _, c := range b.Courses {
		out = append(out, c)
	}
	for _, p := range b.Projects {
		out = append(out, p)
	}
	for _, e := range b.Experience {
		out = append(out, e)
	}
	for _, r := range b.Repositories {
		out = append(out, r)
	}
	for _, c := range b.Certifications {
		out = append(out, c)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Truncate returns at most n bytes of s, cut back to the start of a rune
// so a multi-byte character is never split.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// joinText joins the non-empty parts with a single space.
func joinText(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
