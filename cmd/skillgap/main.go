// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the skillgap CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/skillgap/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Set

// secretDefault returns value when set, else the secret for key from the
// environment or .secrets/.
func secretDefault(key, value string) string {
	if value != "" {
		return value
	}
	return loadedSecrets.Get(key)
}

// rootCmd is the base command for the skillgap CLI.
var rootCmd = &cobra.Command{
	Use:   "skillgap",
	Short: "Skill profiles and gap analysis from career documents",
	Long: `skillgap extracts a confidence-scored skill profile from resumes, courses,
projects, work experience, repositories, and certifications, and compares it
with market demand for a target role.

A typical run imports a resume, extracts profiles, and analyzes gaps:

  skillgap resume import resume.txt --owner alex
  skillgap extract
  skillgap gap alex --role "Data Scientist"
  skillgap recommend alex`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Names())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./skillgap.yaml or ~/.config/skillgap/skillgap.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the profile database and exports (default: data)")
	rootCmd.PersistentFlags().String("taxonomy", "", "skill taxonomy YAML file (default: built-in)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("skillgap")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "skillgap"))
		}
	}

	setDefaults()

	viper.SetEnvPrefix("SKILLGAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
