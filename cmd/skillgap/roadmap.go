package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skillgap/internal/profile"
	"github.com/pdiddy/skillgap/internal/roadmap"
	"github.com/pdiddy/skillgap/internal/taxonomy"
	"github.com/pdiddy/skillgap/pkg/types"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Follow a career roadmap and track milestone progress",
	Long: `Roadmap lists career roadmaps, records which one an owner follows, and
tracks each milestone as not_started, in_progress, or completed. Progress
also checks every milestone skill against the owner's stored profile: a
skill counts as acquired at proficiency 0.3 or above.`,
}

var roadmapListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available roadmaps",
	Args:  cobra.NoArgs,
	RunE:  runRoadmapList,
}

var roadmapShowCmd = &cobra.Command{
	Use:   "show <domain>",
	Short: "Show one roadmap's milestones and skills",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoadmapShow,
}

var roadmapSelectCmd = &cobra.Command{
	Use:   "select <owner> <domain>",
	Short: "Start following a roadmap",
	Args:  cobra.ExactArgs(2),
	RunE:  runRoadmapSelect,
}

var roadmapProgressCmd = &cobra.Command{
	Use:   "progress <owner>",
	Short: "Show progress on the owner's active roadmap",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoadmapProgress,
}

var roadmapSetCmd = &cobra.Command{
	Use:   "set <owner> <milestone> <status>",
	Short: "Record a milestone status on the active roadmap",
	Args:  cobra.ExactArgs(3),
	RunE:  runRoadmapSet,
}

var roadmapRemoveCmd = &cobra.Command{
	Use:   "remove <owner>",
	Short: "Drop the owner's roadmaps and progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoadmapRemove,
}

func loadRoadmaps(cmd *cobra.Command, tax *taxonomy.Taxonomy) (*roadmap.Library, error) {
	path, _ := cmd.Flags().GetString("roadmaps")
	if path == "" {
		return roadmap.Default(tax)
	}
	return roadmap.Load(path, tax)
}

func findDomain(lib *roadmap.Library, id string) (roadmap.Domain, error) {
	d, ok := lib.Domain(id)
	if !ok {
		return roadmap.Domain{}, fmt.Errorf("roadmap %q not found: run 'skillgap roadmap list'", id)
	}
	return d, nil
}

func runRoadmapList(cmd *cobra.Command, _ []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	lib, err := loadRoadmaps(cmd, a.tax)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(os.Stdout, lib.Domains())
	}
	formatRoadmapList(os.Stdout, lib.Domains())
	return nil
}

func runRoadmapShow(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	lib, err := loadRoadmaps(cmd, a.tax)
	if err != nil {
		return err
	}
	d, err := findDomain(lib, args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(os.Stdout, d)
	}
	formatRoadmap(os.Stdout, d)
	return nil
}

func runRoadmapSelect(cmd *cobra.Command, args []string) error {
	owner, domain := args[0], args[1]
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	lib, err := loadRoadmaps(cmd, a.tax)
	if err != nil {
		return err
	}
	if _, err := findDomain(lib, domain); err != nil {
		return err
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	started, existed, err := store.SelectRoadmap(cmd.Context(), owner, domain)
	if err != nil {
		return err
	}
	if existed {
		fmt.Printf("%s already follows %s (since %s)\n", owner, domain, started)
		return nil
	}
	fmt.Printf("%s now follows %s\n", owner, domain)
	return nil
}

func runRoadmapProgress(cmd *cobra.Command, args []string) error {
	owner := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	lib, err := loadRoadmaps(cmd, a.tax)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := a.roadmapProgress(cmd, store, lib, owner)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(os.Stdout, p)
	}
	formatProgress(os.Stdout, owner, p)
	return nil
}

// roadmapProgress evaluates the owner's active roadmap. An owner without
// an extracted profile is scored with no skills.
func (a *app) roadmapProgress(cmd *cobra.Command, store *profile.Store, lib *roadmap.Library, owner string) (roadmap.Progress, error) {
	ctx := cmd.Context()
	domain, started, err := store.ActiveRoadmap(ctx, owner)
	if err != nil {
		if errors.Is(err, profile.ErrNoRoadmap) {
			return roadmap.Progress{}, fmt.Errorf("%w: run 'skillgap roadmap select %s <domain>' first", err, owner)
		}
		return roadmap.Progress{}, err
	}
	d, err := findDomain(lib, domain)
	if err != nil {
		return roadmap.Progress{}, err
	}

	user, err := store.UserSkills(ctx, owner)
	switch {
	case errors.Is(err, profile.ErrNoSkills):
		fmt.Fprintf(cmd.ErrOrStderr(), "note: no stored profile for %s; skill checks assume no skills\n", owner)
		user = map[string]types.Score{}
	case err != nil:
		return roadmap.Progress{}, err
	}

	states, err := store.MilestoneStates(ctx, owner, domain)
	if err != nil {
		return roadmap.Progress{}, err
	}
	p := roadmap.Evaluate(d, user, states)
	p.StartedAt = started
	return p, nil
}

func runRoadmapSet(cmd *cobra.Command, args []string) error {
	owner, milestone := args[0], args[1]
	status, err := types.ParseMilestoneStatus(args[2])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	lib, err := loadRoadmaps(cmd, a.tax)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	domain, _, err := store.ActiveRoadmap(cmd.Context(), owner)
	if err != nil {
		return err
	}
	d, err := findDomain(lib, domain)
	if err != nil {
		return err
	}
	if _, ok := d.Milestone(milestone); !ok {
		return fmt.Errorf("milestone %q not found in roadmap %s", milestone, domain)
	}

	st, err := store.SetMilestoneStatus(cmd.Context(), owner, domain, milestone, status)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s -> %s\n", domain, milestone, st.Status)
	return nil
}

func runRoadmapRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.RemoveRoadmaps(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("removed %d roadmaps and their progress for %s\n", n, args[0])
	return nil
}

func formatRoadmapList(w io.Writer, domains []roadmap.Domain) {
	fmt.Fprintf(w, "%-26s  %-28s  %-10s  %s\n", "ID", "Name", "Milestones", "Duration")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, d := range domains {
		fmt.Fprintf(w, "%-26s  %-28s  %-10d  %s\n", d.ID, d.Name, len(d.Milestones), d.Duration)
	}
}

func formatRoadmap(w io.Writer, d roadmap.Domain) {
	fmt.Fprintf(w, "%s (%s)\n", d.Name, d.ID)
	if d.Description != "" {
		fmt.Fprintln(w, d.Description)
	}
	for i, m := range d.Milestones {
		fmt.Fprintf(w, "\n%d. %s [%s]", i+1, m.Title, m.ID)
		if m.Duration != "" {
			fmt.Fprintf(w, ", %s", m.Duration)
		}
		fmt.Fprintf(w, "\n   skills: %s\n", displayNames(m.Skills))
	}
}

func formatProgress(w io.Writer, owner string, p roadmap.Progress) {
	fmt.Fprintf(w, "%s on %s, started %s\n", owner, p.Name, p.StartedAt)
	fmt.Fprintf(w, "Overall progress: %d%% (%d of %d milestones completed)\n\n",
		p.OverallProgress, p.CompletedMilestones, p.TotalMilestones)

	fmt.Fprintf(w, "%-18s  %-12s  %-6s  %s\n", "Milestone", "Status", "Skills", "Missing")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, m := range p.Milestones {
		var missing []string
		for _, c := range m.SkillChecks {
			if !c.Acquired {
				missing = append(missing, c.Skill)
			}
		}
		fmt.Fprintf(w, "%-18s  %-12s  %5d%%  %s\n", m.ID, m.State.Status, m.SkillCompletion, displayNames(missing))
	}
}

func displayNames(skills []string) string {
	if len(skills) == 0 {
		return "-"
	}
	names := make([]string, len(skills))
	for i, s := range skills {
		names[i] = taxonomy.DisplayName(s)
	}
	return strings.Join(names, ", ")
}

func init() {
	roadmapCmd.PersistentFlags().String("roadmaps", "", "roadmap YAML file (default: built-in)")
	roadmapListCmd.Flags().Bool("json", false, "output as JSON")
	roadmapShowCmd.Flags().Bool("json", false, "output as JSON")
	roadmapProgressCmd.Flags().Bool("json", false, "output as JSON")

	roadmapCmd.AddCommand(roadmapListCmd)
	roadmapCmd.AddCommand(roadmapShowCmd)
	roadmapCmd.AddCommand(roadmapSelectCmd)
	roadmapCmd.AddCommand(roadmapProgressCmd)
	roadmapCmd.AddCommand(roadmapSetCmd)
	roadmapCmd.AddCommand(roadmapRemoveCmd)
	rootCmd.AddCommand(roadmapCmd)
}
