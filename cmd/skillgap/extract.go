package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skillgap/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract skill profiles from source bundles",
	Long: `Extract reads one <owner>.yaml source bundle per profile owner from the
input directory, scores every record, aggregates the observations into one
profile per owner, and replaces the owner's stored profile. Bundles that
have not changed since their last extraction are skipped unless --force
is given.

With an Anthropic API key (--api-key, config, ANTHROPIC_API_KEY, or
.secrets/anthropic-api-key) resume text is analyzed by Claude; structured
records and failed calls use the taxonomy matcher.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintf(os.Stderr, "strategy: %s\n", a.extractor.Strategy().Name())

	summary, err := extract.ExtractAll(cmd.Context(), a.extractor, a.agg, store, a.cfg.Extraction, force, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d bundle(s) failed extraction", summary.Failed)
	}
	return nil
}

func init() {
	extractCmd.Flags().String("input-dir", "", "directory of <owner>.yaml source bundles (default: inputs)")
	extractCmd.Flags().String("model", "", "Claude model for resume extraction")
	extractCmd.Flags().String("api-key", "", "Anthropic API key (default: .secrets/anthropic-api-key)")
	extractCmd.Flags().Int("workers", 0, "records scored concurrently (default: 4)")
	extractCmd.Flags().Bool("force", false, "re-extract bundles even if unchanged")

	rootCmd.AddCommand(extractCmd)
}
