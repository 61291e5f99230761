// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skillgap/internal/aggregate"
	"github.com/pdiddy/skillgap/internal/extract"
	"github.com/pdiddy/skillgap/internal/profile"
	"github.com/pdiddy/skillgap/internal/taxonomy"
	"github.com/pdiddy/skillgap/pkg/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect, export, and merge stored skill profiles",
	Long: `Profile manages the aggregated skill profiles stored in the local SQLite
database by extract. Use subcommands to list them, export one, or merge
extra evidence into one.`,
}

// --- show subcommand ---

var profileShowCmd = &cobra.Command{
	Use:   "show [owner]",
	Short: "List stored profiles or show one owner's skills",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfileShow,
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 0 {
		owners, err := store.Owners(cmd.Context())
		if err != nil {
			return err
		}
		return formatOwners(owners, jsonOutput, os.Stdout)
	}

	skills, err := store.Skills(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return formatSkills(a.tax, skills, jsonOutput, os.Stdout)
}

func formatOwners(owners []profile.OwnerSummary, jsonOutput bool, w io.Writer) error {
	if jsonOutput {
		if owners == nil {
			owners = []profile.OwnerSummary{}
		}
		return writeJSON(w, owners)
	}
	if len(owners) == 0 {
		fmt.Fprintln(w, "No profiles stored. Run 'skillgap extract' first.")
		return nil
	}
	fmt.Fprintf(w, "%-24s  %-6s  %s\n", "Owner", "Skills", "Updated")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, o := range owners {
		fmt.Fprintf(w, "%-24s  %-6d  %s\n", o.Owner, o.SkillCount, o.UpdatedAt)
	}
	return nil
}

func formatSkills(tax *taxonomy.Taxonomy, skills []types.AggregatedSkill, jsonOutput bool, w io.Writer) error {
	if jsonOutput {
		return writeJSON(w, skills)
	}

	fmt.Fprintf(w, "%-20s  %-10s  %-5s  %-5s  %-7s  %s\n",
		"Skill", "Category", "Prof", "Conf", "Sources", "Evidence")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, s := range skills {
		fmt.Fprintf(w, "%-20s  %-10s  %-5.2f  %-5.2f  %-7d  %s\n",
			taxonomy.DisplayName(s.Skill), tax.Category(s.Skill), s.Proficiency, s.Confidence,
			s.SourceCount, truncate(strings.Join(s.Sources, ", "), 36))
	}
	fmt.Fprintf(w, "\n%d skills\n", len(skills))
	return nil
}

// --- export subcommand ---

var profileExportCmd = &cobra.Command{
	Use:   "export <owner>",
	Short: "Export a profile to YAML or JSON",
	Long: `Export writes one owner's stored profile to <data-dir>/exports/<owner>.yaml
or <owner>.json.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileExport,
}

func runProfileExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), args[0])
	case "json":
		path, err = store.ExportJSON(cmd.Context(), args[0])
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

// --- merge subcommand ---

var profileMergeCmd = &cobra.Command{
	Use:   "merge <owner> <file>",
	Short: "Merge extra evidence into a stored profile",
	Long: `Merge adds skills from a profile export or a source bundle to an owner's
stored profile. A bundle is extracted first. A skill is written only when
it is new to the profile or its proficiency beats the stored value; the
stored profile is otherwise left untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: runProfileMerge,
}

func runProfileMerge(cmd *cobra.Command, args []string) error {
	owner, path := args[0], args[1]

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	skills, err := mergeSource(cmd, a, path)
	if err != nil {
		return err
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	written, err := store.UpsertIfHigher(cmd.Context(), owner, skills)
	if err != nil {
		return err
	}
	fmt.Printf("merged %s: %d of %d skills written\n", owner, written, len(skills))
	return nil
}

// mergeSource reads skills from an export file, or extracts them from a
// source bundle when the file carries no skills list.
func mergeSource(cmd *cobra.Command, a *app, path string) ([]types.AggregatedSkill, error) {
	exp, err := profile.ReadExport(path)
	if err != nil {
		return nil, err
	}
	if len(exp.Skills) > 0 {
		return exp.Skills, nil
	}

	bundle, err := extract.LoadBundle(path)
	if err != nil {
		return nil, err
	}
	profileSkills, err := a.extractor.Profile(cmd.Context(), a.agg, bundle)
	if err != nil {
		return nil, err
	}
	return aggregate.Sorted(profileSkills), nil
}

// --- shared helpers ---

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	profileShowCmd.Flags().Bool("json", false, "output as JSON")
	profileExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileExportCmd)
	profileCmd.AddCommand(profileMergeCmd)

	rootCmd.AddCommand(profileCmd)
}
