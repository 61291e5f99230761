// Package extract turns source records into per-source scored skill
// sets. A Strategy finds and scores the skills in one record; the
// Extractor runs a strategy over many records concurrently, and
// ExtractAll drives a batch over every source bundle in a directory,
// aggregating and persisting one profile per owner.
package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/skillgap/internal/aggregate"
	"github.com/pdiddy/skillgap/pkg/types"
)

const (
	// DefaultMinTextLength is the shortest resume text worth matching.
	DefaultMinTextLength = 50

	defaultWorkers    = 4
	defaultMaxRetries = 3
)

// Strategy finds the canonical skills evidenced by one record and scores
// each of them. Implementations must be safe for concurrent use.
type Strategy interface {
	Name() string
	Skills(ctx context.Context, rec types.Record) (map[string]types.Score, error)
}

// Extractor applies a Strategy to batches of records.
type Extractor struct {
	strategy Strategy
	workers  int
}

// New returns an Extractor running strategy with at most workers
// records in flight. Non-positive workers selects the default of 4.
func New(strategy Strategy, workers int) *Extractor {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Extractor{strategy: strategy, workers: workers}
}

// Strategy returns the strategy the extractor runs.
func (x *Extractor) Strategy() Strategy {
	return x.strategy
}

// Extract scores every record and returns one SourceSkills per record in
// input order, so downstream aggregation is deterministic regardless of
// scheduling. The first strategy error cancels the remaining work.
func (x *Extractor) Extract(ctx context.Context, records []types.Record) ([]types.SourceSkills, error) {
	out := make([]types.SourceSkills, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(x.workers)
	for i, rec := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			skills, err := x.strategy.Skills(ctx, rec)
			if err != nil {
				return fmt.Errorf("extracting %s:%s: %w", rec.Kind(), rec.SourceID(), err)
			}
			out[i] = types.SourceSkills{Kind: rec.Kind(), ID: rec.SourceID(), Skills: skills}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Profile extracts every record of bundle and aggregates the results.
func (x *Extractor) Profile(ctx context.Context, agg *aggregate.Aggregator, bundle types.SourceBundle) (map[string]types.AggregatedSkill, error) {
	sources, err := x.Extract(ctx, bundle.Records())
	if err != nil {
		return nil, err
	}
	return agg.Aggregate(sources), nil
}

// ProfileStore persists aggregated profiles. SourceModTime returns the
// bundle modification time recorded by the last ReplaceSkills for
// owner, or "" when the owner has never been extracted.
type ProfileStore interface {
	SourceModTime(ctx context.Context, owner string) (string, error)
	ReplaceSkills(ctx context.Context, owner string, skills []types.AggregatedSkill, sourceModTime string) error
}

// BatchSummary holds counts from a batch extraction run.
type BatchSummary struct {
	Extracted int
	Skipped   int
	Failed    int
}

// Total returns the number of bundles processed.
func (s BatchSummary) Total() int {
	return s.Extracted + s.Skipped + s.Failed
}

// HasFailures reports whether any bundle failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// ExtractAll processes every <owner>.yaml bundle in cfg.InputDir,
// aggregates each owner's sources, and replaces the owner's stored
// profile. Bundles unchanged since their last extraction are skipped
// unless force is set. Progress lines go to w.
func ExtractAll(ctx context.Context, x *Extractor, agg *aggregate.Aggregator, store ProfileStore, cfg types.ExtractionConfig, force bool, w io.Writer) (BatchSummary, error) {
	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("reading input directory %s: %w", cfg.InputDir, err)
	}

	var summary BatchSummary

	for _, entry := range entries {
		if entry.IsDir() || !isBundleFile(entry.Name()) {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		path := filepath.Join(cfg.InputDir, entry.Name())
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		bundle, err := LoadBundle(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if !force {
			stored, err := store.SourceModTime(ctx, bundle.Owner)
			if err != nil {
				fmt.Fprintf(w, "failed  %s: %v\n", bundle.Owner, err)
				summary.Failed++
				continue
			}
			if stored == modTime {
				fmt.Fprintf(w, "skipped %s\n", bundle.Owner)
				summary.Skipped++
				continue
			}
		}

		records := bundle.Records()
		fmt.Fprintf(w, "extracting %s (%d sources)\n", bundle.Owner, len(records))

		skills, err := x.Profile(ctx, agg, bundle)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", bundle.Owner, err)
			summary.Failed++
			continue
		}

		if err := store.ReplaceSkills(ctx, bundle.Owner, aggregate.Sorted(skills), modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: store error: %v\n", bundle.Owner, err)
			summary.Failed++
			continue
		}

		fmt.Fprintf(w, "extracted %s (%d skills)\n", bundle.Owner, len(skills))
		summary.Extracted++
	}

	fmt.Fprintf(w, "\nextracted: %d, skipped: %d, failed: %d\n",
		summary.Extracted, summary.Skipped, summary.Failed)

	return summary, nil
}

func isBundleFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// LoadBundle reads a source bundle from a YAML file. The owner defaults
// to the file name without its extension.
func LoadBundle(path string) (types.SourceBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.SourceBundle{}, fmt.Errorf("reading bundle %s: %w", path, err)
	}
	var b types.SourceBundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return types.SourceBundle{}, fmt.Errorf("parsing bundle %s: %w", path, err)
	}
	if strings.TrimSpace(b.Owner) == "" {
		b.Owner = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return b, nil
}

// WriteBundle writes b to path as YAML.
func WriteBundle(path string, b types.SourceBundle) error {
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshaling bundle: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating bundle directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
