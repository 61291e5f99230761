package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skillgap/internal/aggregate"
	"github.com/pdiddy/skillgap/internal/estimate"
	"github.com/pdiddy/skillgap/internal/extract"
	"github.com/pdiddy/skillgap/internal/market"
	"github.com/pdiddy/skillgap/internal/match"
	"github.com/pdiddy/skillgap/internal/profile"
	"github.com/pdiddy/skillgap/internal/taxonomy"
	"github.com/pdiddy/skillgap/pkg/types"
)

// app carries the components one command invocation works with. It is
// built per invocation from the resolved configuration.
type app struct {
	cfg       types.Config
	tax       *taxonomy.Taxonomy
	matcher   *match.Matcher
	estimator *estimate.Estimator
	agg       *aggregate.Aggregator
	extractor *extract.Extractor
	stderr    io.Writer
}

// newApp loads configuration for cmd and wires the extraction pipeline.
// With an API key the LLM strategy handles resumes and falls back to the
// taxonomy strategy; without one the taxonomy strategy runs alone.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return buildApp(cfg, os.Stderr)
}

func buildApp(cfg types.Config, stderr io.Writer) (*app, error) {
	tax, err := loadTaxonomy(cfg.TaxonomyFile)
	if err != nil {
		return nil, err
	}

	m := match.New(tax, cfg.Extraction.Match)
	est := estimate.New(tax)

	var strategy extract.Strategy = extract.NewTaxonomyStrategy(m, est, cfg.Extraction.MinTextLength)
	if cfg.Extraction.APIKey != "" {
		backend := &extract.ClaudeBackend{
			APIKey: cfg.Extraction.APIKey,
			Model:  cfg.Extraction.Model,
		}
		strategy = extract.NewLLMStrategy(backend, strategy, tax, cfg.Extraction, stderr)
	}

	return &app{
		cfg:       cfg,
		tax:       tax,
		matcher:   m,
		estimator: est,
		agg:       aggregate.New(cfg.Extraction.Weights),
		extractor: extract.New(strategy, cfg.Extraction.Workers),
		stderr:    stderr,
	}, nil
}

func loadTaxonomy(path string) (*taxonomy.Taxonomy, error) {
	if path == "" {
		return taxonomy.Default()
	}
	return taxonomy.Load(path)
}

func (a *app) openStore() (*profile.Store, error) {
	return profile.NewStore(a.cfg.Store)
}

// marketTable resolves the requirement table for gap analysis: an
// explicit file, then a snapshot built by "market build" for the role,
// then the built-in fallback. Falling back is reported on stderr.
func (a *app) marketTable() (types.MarketTable, error) {
	cfg := a.cfg.Market
	if cfg.File == "" && cfg.Role != "" {
		snapshot := market.SnapshotPath(a.cfg.Store.DataDir, cfg.Role)
		if _, err := os.Stat(snapshot); err == nil {
			cfg.File = snapshot
		}
	}

	table, err := market.Resolve(cfg)
	if err != nil {
		return types.MarketTable{}, err
	}
	if table.Source == types.MarketSourceFallback {
		fmt.Fprintf(a.stderr, "no market data for %s: using built-in fallback table\n", table.Role)
	}
	return table, nil
}

// userSkills loads the owner's profile, turning an empty profile into
// an actionable error.
func (a *app) userSkills(store *profile.Store, cmd *cobra.Command, owner string) (map[string]types.Score, error) {
	skills, err := store.UserSkills(cmd.Context(), owner)
	if errors.Is(err, profile.ErrNoSkills) {
		return nil, fmt.Errorf("%w: run 'skillgap extract' for %s first", err, owner)
	}
	return skills, err
}
