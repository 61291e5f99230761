// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package market produces the requirement tables the gap analyzer
// compares profiles against. A table comes from one of three places:
// job postings aggregated by an Analyzer, a table or snapshot file on
// disk, or a built-in fallback table for a named role.
package market

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/skillgap/internal/normalize"
	"github.com/pdiddy/skillgap/pkg/types"
)

//go:embed data/roles.yaml
var rolesData []byte

// DefaultRole is the fallback role used when none is configured.
const DefaultRole = "healthcare-data-analyst"

// ErrUnknownRole is returned when no built-in table exists for a role.
var ErrUnknownRole = errors.New("unknown role")

// Role describes one built-in fallback table.
type Role struct {
	Key    string
	Title  string
	Skills int
}

type roleDef struct {
	Title  string                    `yaml:"title"`
	Skills []types.MarketRequirement `yaml:"skills"`
}

type rolesFile struct {
	Roles map[string]roleDef `yaml:"roles"`
}

var loadRoles = sync.OnceValues(func() (map[string]roleDef, error) {
	var f rolesFile
	if err := yaml.Unmarshal(rolesData, &f); err != nil {
		return nil, fmt.Errorf("parsing built-in roles: %w", err)
	}
	for key, def := range f.Roles {
		t := types.MarketTable{Skills: def.Skills}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("built-in role %s: %w", key, err)
		}
	}
	return f.Roles, nil
})

// RoleKey turns a role title such as "Healthcare Data Analyst" into its
// lookup key, "healthcare-data-analyst".
func RoleKey(role string) string {
	return strings.ReplaceAll(normalize.Key(role), " ", "-")
}

// Roles lists the built-in fallback tables sorted by key.
func Roles() ([]Role, error) {
	defs, err := loadRoles()
	if err != nil {
		return nil, err
	}
	out := make([]Role, 0, len(defs))
	for key, def := range defs {
		out = append(out, Role{Key: key, Title: def.Title, Skills: len(def.Skills)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Fallback returns the built-in table for role. The role may be given
// as a key or a title.
func Fallback(role string) (types.MarketTable, error) {
	defs, err := loadRoles()
	if err != nil {
		return types.MarketTable{}, err
	}
	key := RoleKey(role)
	def, ok := defs[key]
	if !ok {
		known := make([]string, 0, len(defs))
		for k := range defs {
			known = append(known, k)
		}
		sort.Strings(known)
		return types.MarketTable{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownRole, role, strings.Join(known, ", "))
	}
	skills := make([]types.MarketRequirement, len(def.Skills))
	copy(skills, def.Skills)
	return types.MarketTable{
		Source: types.MarketSourceFallback,
		Role:   key,
		Skills: skills,
	}, nil
}

// Resolve picks the table described by cfg: the file when one is set,
// otherwise the fallback for cfg.Role (DefaultRole when empty).
func Resolve(cfg types.MarketConfig) (types.MarketTable, error) {
	if cfg.File != "" {
		return LoadTable(cfg.File)
	}
	role := cfg.Role
	if role == "" {
		role = DefaultRole
	}
	return Fallback(role)
}

// tableFile accepts both a bare table and a postings snapshot, whose
// table sits under the "table" key.
type tableFile struct {
	types.MarketTable `yaml:",inline"`

	Table *types.MarketTable `yaml:"table"`
}

// LoadTable reads and validates a market table file. Snapshots written
// by WriteSnapshot are accepted too. A table without a source is marked
// as coming from a file.
func LoadTable(path string) (types.MarketTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.MarketTable{}, fmt.Errorf("reading market table: %w", err)
	}
	t, err := ParseTable(data)
	if err != nil {
		return types.MarketTable{}, fmt.Errorf("loading market table %s: %w", path, err)
	}
	return t, nil
}

// ParseTable decodes and validates market table YAML.
func ParseTable(data []byte) (types.MarketTable, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return types.MarketTable{}, fmt.Errorf("parsing market table: %w", err)
	}
	t := f.MarketTable
	if f.Table != nil {
		t = *f.Table
	}
	if err := t.Validate(); err != nil {
		return types.MarketTable{}, err
	}
	if t.Source == "" {
		t.Source = types.MarketSourceFile
	}
	if t.Skills == nil {
		t.Skills = []types.MarketRequirement{}
	}
	return t, nil
}

// WriteTable validates t and saves it as YAML, creating parent
// directories as needed.
func WriteTable(path string, t types.MarketTable) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid market table: %w", err)
	}
	data, err := yaml.Marshal(&t)
	if err != nil {
		return fmt.Errorf("marshaling market table: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}
