package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/skillgap/internal/extract"
	"github.com/pdiddy/skillgap/internal/gap"
	"github.com/pdiddy/skillgap/internal/market"
	"github.com/pdiddy/skillgap/internal/match"
	"github.com/pdiddy/skillgap/internal/secrets"
	"github.com/pdiddy/skillgap/pkg/types"
)

// Config keys. Nested keys map onto skillgap.yaml sections and onto
// SKILLGAP_* environment variables with dots replaced by underscores.
const (
	keyTaxonomy       = "taxonomy_file"
	keyInputDir       = "extraction.input_dir"
	keyModel          = "extraction.model"
	keyAPIKey         = "extraction.api_key"
	keyMaxRetries     = "extraction.max_retries"
	keyMinTextLength  = "extraction.min_text_length"
	keyWorkers        = "extraction.workers"
	keyWeights        = "extraction.weights"
	keyMaxNGram       = "extraction.match.max_ngram"
	keyFuzzyThreshold = "extraction.match.fuzzy_threshold"
	keyDataDir        = "store.data_dir"
	keyRole           = "market.role"
	keyMarketFile     = "market.file"
	keyMinFrequency   = "market.min_frequency"
)

func setDefaults() {
	viper.SetDefault(keyInputDir, "inputs")
	viper.SetDefault(keyModel, extract.DefaultModel)
	viper.SetDefault(keyMaxRetries, 3)
	viper.SetDefault(keyMinTextLength, extract.DefaultMinTextLength)
	viper.SetDefault(keyWorkers, 4)
	viper.SetDefault(keyMaxNGram, match.DefaultMaxNGram)
	viper.SetDefault(keyFuzzyThreshold, match.DefaultFuzzyThreshold)
	viper.SetDefault(keyDataDir, "data")
	viper.SetDefault(keyRole, market.DefaultRole)
	viper.SetDefault(keyMinFrequency, gap.DefaultMinFrequency)
}

// loadConfig assembles the typed configuration from viper (config file,
// environment, defaults) with any flags the user set on cmd taking
// precedence. The API key falls back to .secrets/anthropic-api-key.
func loadConfig(cmd *cobra.Command) (types.Config, error) {
	var cfg types.Config

	cfg.TaxonomyFile = stringFlag(cmd, "taxonomy", keyTaxonomy)

	cfg.Extraction.InputDir = stringFlag(cmd, "input-dir", keyInputDir)
	cfg.Extraction.Model = stringFlag(cmd, "model", keyModel)
	cfg.Extraction.APIKey = secretDefault(secrets.AnthropicAPIKey, stringFlag(cmd, "api-key", keyAPIKey))
	cfg.Extraction.MaxRetries = viper.GetInt(keyMaxRetries)
	cfg.Extraction.MinTextLength = viper.GetInt(keyMinTextLength)
	cfg.Extraction.Workers = intFlag(cmd, "workers", keyWorkers)
	cfg.Extraction.Match.MaxNGram = viper.GetInt(keyMaxNGram)
	cfg.Extraction.Match.FuzzyThreshold = viper.GetFloat64(keyFuzzyThreshold)
	if viper.IsSet(keyWeights) {
		if err := viper.UnmarshalKey(keyWeights, &cfg.Extraction.Weights); err != nil {
			return cfg, err
		}
	}

	cfg.Store.DataDir = stringFlag(cmd, "data-dir", keyDataDir)

	cfg.Market.Role = stringFlag(cmd, "role", keyRole)
	cfg.Market.File = stringFlag(cmd, "market-file", keyMarketFile)
	cfg.Market.MinFrequency = viper.GetFloat64(keyMinFrequency)

	return cfg, nil
}

// stringFlag returns the flag value when the user set it on cmd,
// otherwise the configured value for key.
func stringFlag(cmd *cobra.Command, name, key string) string {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return f.Value.String()
	}
	return viper.GetString(key)
}

func intFlag(cmd *cobra.Command, name, key string) int {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		v, err := cmd.Flags().GetInt(name)
		if err == nil {
			return v
		}
	}
	return viper.GetInt(key)
}
