// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files, one
// secret per file: the file name is the key and the trimmed contents are
// the value. A conventional environment variable, when set, overrides the
// file.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AnthropicAPIKey is the secret holding the Claude API key.
const AnthropicAPIKey = "anthropic-api-key"

// DefaultDir is where the CLI looks for secret files.
const DefaultDir = ".secrets"

// Set maps secret names to values.
type Set map[string]string

// Load reads all files in dir. A missing directory is not an error and
// yields an empty Set. Unreadable files produce a warning on stderr.
func Load(dir string) (Set, error) {
	return LoadWithWarnings(dir, os.Stderr)
}

// LoadWithWarnings is Load with warnings about unreadable files written to w.
func LoadWithWarnings(dir string, w io.Writer) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Set)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// EnvName is the environment variable that overrides key:
// "anthropic-api-key" becomes ANTHROPIC_API_KEY.
func EnvName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// Get returns the value for key from the environment, else from the
// loaded files, else "".
func (s Set) Get(key string) string {
	if v := strings.TrimSpace(os.Getenv(EnvName(key))); v != "" {
		return v
	}
	return s[key]
}

// Names returns the loaded secret names, sorted. Values are never listed.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
