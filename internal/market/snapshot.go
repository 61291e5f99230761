// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package market

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/skillgap/pkg/types"
)

// topSkills is how many skill names a snapshot summary lists.
const topSkills = 5

// Snapshot is the on-disk record of an aggregated postings run. It can
// be reloaded as a market table without re-analyzing the postings.
type Snapshot struct {
	Table   types.MarketTable `yaml:"table"`
	Summary SnapshotSummary   `yaml:"summary"`
}

// SnapshotSummary stores run statistics and a timestamp.
type SnapshotSummary struct {
	Role              string    `yaml:"role,omitempty"`
	JobsAnalyzed      int       `yaml:"jobs_analyzed"`
	DuplicatesRemoved int       `yaml:"duplicates_removed"`
	Skills            int       `yaml:"skills"`
	TopSkills         []string  `yaml:"top_skills,omitempty"`
	Timestamp         time.Time `yaml:"timestamp"`
}

// WriteSnapshot saves an aggregated table and its run statistics.
func WriteSnapshot(path string, table types.MarketTable, dupsRemoved int) error {
	snap := Snapshot{
		Table: table,
		Summary: SnapshotSummary{
			Role:              table.Role,
			JobsAnalyzed:      table.JobsAnalyzed,
			DuplicatesRemoved: dupsRemoved,
			Skills:            len(table.Skills),
			Timestamp:         time.Now().UTC(),
		},
	}
	for _, s := range table.Skills {
		if len(snap.Summary.TopSkills) == topSkills {
			break
		}
		snap.Summary.TopSkills = append(snap.Summary.TopSkills, s.Skill)
	}

	data, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSnapshot loads a previously saved snapshot.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if err := snap.Table.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// SnapshotPath is where snapshots for role are kept under dataDir.
func SnapshotPath(dataDir, role string) string {
	return filepath.Join(dataDir, "market", RoleKey(role)+".yaml")
}
