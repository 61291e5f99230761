// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy holds the canonical skill reference: canonical names,
// category membership, synonym mappings, and per-skill weights. A
// Taxonomy is built once and is read-only afterwards, so one value can be
// shared by concurrent extractions.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/skillgap/internal/normalize"
	"github.com/pdiddy/skillgap/pkg/types"
)

//go:embed data/taxonomy.yaml
var defaultData []byte

// File is the on-disk taxonomy format.
type File struct {
	Skills     []string                    `yaml:"skills"`
	Synonyms   map[string][]string         `yaml:"synonyms"`
	Categories map[types.Category][]string `yaml:"categories"`
	Weights    map[string]float64          `yaml:"weights"`
}

// Entry is one canonical skill.
type Entry struct {
	Name     string
	Category types.Category
	Synonyms []string
	Weight   float64
}

// Synonym maps one variant phrase onto its canonical skill.
type Synonym struct {
	// Phrase is the variant as written in the taxonomy.
	Phrase string

	// Key is the cleaned, hyphen-free comparison form of Phrase.
	Key string

	Canonical string
}

// Taxonomy is the typed, validated skill table.
type Taxonomy struct {
	entries  []Entry
	index    map[string]int
	keys     map[string]string
	synonyms map[string]string
	pairs    []Synonym
	members  map[types.Category][]string
}

// displayOverrides covers names that title-casing gets wrong.
var displayOverrides = map[string]string{
	"cpp":        "C++",
	"csharp":     "C#",
	"dotnet":     ".NET",
	"nodejs":     "Node.js",
	"nextjs":     "Next.js",
	"javascript": "JavaScript",
	"typescript": "TypeScript",
	"sql":        "SQL",
	"html":       "HTML",
	"css":        "CSS",
	"aws":        "AWS",
	"gcp":        "GCP",
	"nlp":        "NLP",
	"ci-cd":      "CI/CD",
	"ui-ux":      "UI/UX",
	"rest-api":   "REST API",
	"iot":        "IoT",
	"ios":        "iOS",
	"graphql":    "GraphQL",
	"mongodb":    "MongoDB",
	"mysql":      "MySQL",
	"postgresql": "PostgreSQL",
	"power-bi":   "Power BI",
	"oauth":      "OAuth",
}

// Default returns the taxonomy embedded in the binary.
func Default() (*Taxonomy, error) {
	return Parse(defaultData)
}

// MustDefault is like Default but panics on error. The embedded data is
// validated by tests.
func MustDefault() *Taxonomy {
	t, err := Default()
	if err != nil {
		panic(fmt.Sprintf("taxonomy: embedded data invalid: %v", err))
	}
	return t
}

// Load reads and validates a taxonomy YAML file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading taxonomy %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes taxonomy YAML and builds a validated Taxonomy.
func Parse(data []byte) (*Taxonomy, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing taxonomy: %w", err)
	}
	return New(f)
}

// New builds a Taxonomy from f. It rejects canonical names that are not
// lowercase hyphen-separated, duplicate canonical names, synonyms that
// point at unknown skills or collide with a canonical name, a synonym
// mapped onto two skills, skills listed in two categories, unknown
// categories, and non-positive weights.
func New(f File) (*Taxonomy, error) {
	t := &Taxonomy{
		index:    make(map[string]int, len(f.Skills)),
		keys:     make(map[string]string, len(f.Skills)),
		synonyms: make(map[string]string),
		members:  make(map[types.Category][]string),
	}

	for _, name := range f.Skills {
		if name == "" || normalize.Clean(name) != name || strings.Contains(name, " ") {
			return nil, fmt.Errorf("canonical name %q must be lowercase and hyphen-separated", name)
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("duplicate canonical name %q", name)
		}
		key := normalize.Key(name)
		if other, dup := t.keys[key]; dup {
			return nil, fmt.Errorf("canonical names %q and %q collide", other, name)
		}
		t.keys[key] = name
		t.index[name] = len(t.entries)
		t.entries = append(t.entries, Entry{Name: name, Category: types.CategoryOther, Weight: 1.0})
	}

	categorized := make(map[string]types.Category)
	for cat, names := range f.Categories {
		if !cat.Valid() {
			return nil, fmt.Errorf("unknown category %q", cat)
		}
		for _, name := range names {
			i, ok := t.index[name]
			if !ok {
				return nil, fmt.Errorf("category %s lists unknown skill %q", cat, name)
			}
			if prev, dup := categorized[name]; dup && prev != cat {
				return nil, fmt.Errorf("skill %q listed in categories %s and %s", name, prev, cat)
			}
			categorized[name] = cat
			t.entries[i].Category = cat
		}
	}

	canonicals := make([]string, 0, len(f.Synonyms))
	for c := range f.Synonyms {
		canonicals = append(canonicals, c)
	}
	sort.Strings(canonicals)

	for _, canonical := range canonicals {
		i, ok := t.index[canonical]
		if !ok {
			return nil, fmt.Errorf("synonyms listed for unknown skill %q", canonical)
		}
		for _, phrase := range f.Synonyms[canonical] {
			key := normalize.Key(phrase)
			if key == "" {
				return nil, fmt.Errorf("skill %q: empty synonym %q", canonical, phrase)
			}
			if other, clash := t.keys[key]; clash {
				return nil, fmt.Errorf("synonym %q of %q is the canonical name %q", phrase, canonical, other)
			}
			if prev, dup := t.synonyms[key]; dup {
				if prev != canonical {
					return nil, fmt.Errorf("synonym %q maps to both %q and %q", phrase, prev, canonical)
				}
				continue
			}
			t.synonyms[key] = canonical
			t.pairs = append(t.pairs, Synonym{Phrase: phrase, Key: key, Canonical: canonical})
			t.entries[i].Synonyms = append(t.entries[i].Synonyms, phrase)
		}
	}

	for name, w := range f.Weights {
		i, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("weight given for unknown skill %q", name)
		}
		if !(w > 0) {
			return nil, fmt.Errorf("skill %q: weight %v must be positive", name, w)
		}
		t.entries[i].Weight = w
	}

	for _, e := range t.entries {
		t.members[e.Category] = append(t.members[e.Category], e.Name)
	}

	return t, nil
}

// Len returns the number of canonical skills.
func (t *Taxonomy) Len() int {
	return len(t.entries)
}

// Entries returns all entries in taxonomy order.
func (t *Taxonomy) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns the entry for a canonical name.
func (t *Taxonomy) Lookup(name string) (Entry, bool) {
	i, ok := t.index[name]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Contains reports whether name is a canonical skill.
func (t *Taxonomy) Contains(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Resolve maps a phrase onto its canonical skill. The phrase is compared
// in cleaned form against canonical names first, then synonyms.
func (t *Taxonomy) Resolve(phrase string) (string, bool) {
	key := normalize.Key(phrase)
	if key == "" {
		return "", false
	}
	if name, ok := t.keys[key]; ok {
		return name, true
	}
	if name, ok := t.synonyms[key]; ok {
		return name, true
	}
	return "", false
}

// CanonicalForKey returns the canonical skill whose comparison key is key.
func (t *Taxonomy) CanonicalForKey(key string) (string, bool) {
	name, ok := t.keys[key]
	return name, ok
}

// SynonymTarget returns the canonical skill a synonym key maps to.
func (t *Taxonomy) SynonymTarget(key string) (string, bool) {
	name, ok := t.synonyms[key]
	return name, ok
}

// Synonyms returns every synonym pair, ordered by canonical name.
func (t *Taxonomy) Synonyms() []Synonym {
	out := make([]Synonym, len(t.pairs))
	copy(out, t.pairs)
	return out
}

// Members returns the canonical skills in category c, in taxonomy order.
func (t *Taxonomy) Members(c types.Category) []string {
	return append([]string(nil), t.members[c]...)
}

// Category returns the category of name, or CategoryOther for unknown names.
func (t *Taxonomy) Category(name string) types.Category {
	if e, ok := t.Lookup(name); ok {
		return e.Category
	}
	return types.CategoryOther
}

// Weight returns the weight of name, or 1.0 for unknown names.
func (t *Taxonomy) Weight(name string) float64 {
	if e, ok := t.Lookup(name); ok {
		return e.Weight
	}
	return 1.0
}

// DisplayName returns a human-readable form of a canonical name
// ("machine-learning" becomes "Machine Learning").
func DisplayName(name string) string {
	if d, ok := displayOverrides[name]; ok {
		return d
	}
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}
