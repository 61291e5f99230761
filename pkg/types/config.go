package types

// AIConfig holds settings for skill extraction through a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API. When empty the
	// taxonomy strategy is used.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// MatchConfig holds skill matcher settings.
type MatchConfig struct {
	// MaxNGram is the longest n-gram generated from text (default 4).
	MaxNGram int `json:"max_ngram" yaml:"max_ngram"`

	// FuzzyThreshold is the minimum similarity ratio for a fuzzy match (default 0.88).
	FuzzyThreshold float64 `json:"fuzzy_threshold" yaml:"fuzzy_threshold"`
}

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	AIConfig `yaml:",inline"`

	Match MatchConfig `json:"match" yaml:"match"`

	// InputDir holds one <owner>.yaml source bundle per profile owner.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// MinTextLength is the shortest text worth matching (default 50).
	MinTextLength int `json:"min_text_length" yaml:"min_text_length"`

	// Workers bounds concurrent record extraction (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// Weights overrides the aggregator's per-kind source weights.
	Weights map[SourceKind]float64 `json:"weights,omitempty" yaml:"weights,omitempty"`
}

// StoreConfig holds settings for the profile store.
type StoreConfig struct {
	// DataDir is the directory holding skillgap.db and exports.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// MarketConfig holds settings for market requirement tables.
type MarketConfig struct {
	// Role selects a built-in fallback table when no file is given.
	Role string `json:"role" yaml:"role"`

	// File is a market table or postings snapshot to load.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// MinFrequency is the threshold for listing missing skills (default 0.3).
	MinFrequency float64 `json:"min_frequency" yaml:"min_frequency"`
}

// Config groups all stage configurations.
type Config struct {
	// TaxonomyFile replaces the embedded skill taxonomy when set.
	TaxonomyFile string `json:"taxonomy_file,omitempty" yaml:"taxonomy_file,omitempty"`

	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Market     MarketConfig     `json:"market" yaml:"market"`
}
