// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/skillgap/pkg/types"
)

const exportDir = "exports"

// Export is the on-disk form of one owner's profile.
type Export struct {
	Owner  string                  `json:"owner" yaml:"owner"`
	Skills []types.AggregatedSkill `json:"skills" yaml:"skills"`
}

// ExportYAML writes the owner's profile to dataDir/exports/<owner>.yaml
// and returns the path written.
func (s *Store) ExportYAML(ctx context.Context, owner string) (string, error) {
	e, err := s.export(ctx, owner)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport(owner+".yaml", data)
}

// ExportJSON writes the owner's profile to dataDir/exports/<owner>.json
// and returns the path written.
func (s *Store) ExportJSON(ctx context.Context, owner string) (string, error) {
	e, err := s.export(ctx, owner)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport(owner+".json", data)
}

// ReadExport loads a profile written by ExportYAML or ExportJSON. JSON
// is valid YAML, so one decoder serves both.
func ReadExport(path string) (Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Export{}, fmt.Errorf("reading export %s: %w", path, err)
	}
	var e Export
	if err := yaml.Unmarshal(data, &e); err != nil {
		return Export{}, fmt.Errorf("parsing export %s: %w", path, err)
	}
	return e, nil
}

func (s *Store) export(ctx context.Context, owner string) (Export, error) {
	skills, err := s.Skills(ctx, owner)
	if err != nil {
		return Export{}, fmt.Errorf("querying for export: %w", err)
	}
	return Export{Owner: owner, Skills: skills}, nil
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	dir := filepath.Join(s.dataDir, exportDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
