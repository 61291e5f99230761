package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skillgap/internal/gap"
	"github.com/pdiddy/skillgap/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [owner]",
	Short: "Recommend courses for a profile's skill gaps",
	Long: `Recommend runs gap analysis for an owner and suggests courses from the
curated catalog for the highest-priority gaps, with a rough time estimate.
--scope picks the buckets: critical (default), important (top 5), or all
(adds the top 3 emerging skills). With --skill it lists courses for one
skill and needs no owner.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	skill, _ := cmd.Flags().GetString("skill")
	scopeFlag, _ := cmd.Flags().GetString("scope")
	maxPerSkill, _ := cmd.Flags().GetInt("max-per-skill")
	catalogPath, _ := cmd.Flags().GetString("catalog")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	catalog, err := loadCatalog(catalogPath)
	if err != nil {
		return err
	}
	r := recommend.New(catalog)

	if skill != "" {
		courses := r.ForSkill(skill, maxPerSkill)
		if jsonOutput {
			return writeJSON(os.Stdout, courses)
		}
		formatCourses(os.Stdout, skill, courses)
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("owner required: pass an owner or --skill")
	}
	scope, err := recommend.ParseScope(scopeFlag)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := a.userSkills(store, cmd, args[0])
	if err != nil {
		return err
	}
	table, err := a.marketTable()
	if err != nil {
		return err
	}

	plan := r.Recommend(gap.Analyze(user, table), recommend.Options{MaxPerSkill: maxPerSkill, Scope: scope})
	if jsonOutput {
		return writeJSON(os.Stdout, plan)
	}
	formatPlan(os.Stdout, plan)
	return nil
}

func loadCatalog(path string) (*recommend.Catalog, error) {
	if path == "" {
		return recommend.DefaultCatalog()
	}
	return recommend.LoadCatalog(path)
}

func formatPlan(w io.Writer, p recommend.Plan) {
	for _, group := range [][]recommend.SkillCourses{p.Critical, p.Important, p.Emerging} {
		for _, sc := range group {
			formatCourses(w, fmt.Sprintf("%s [%s, gap %.2f]", sc.Skill, sc.Priority, sc.Gap), sc.Courses)
		}
	}
	fmt.Fprintf(w, "\n%d skills, %d courses, estimated time %s, cost %s\n",
		p.Summary.TotalSkills, p.Summary.TotalCourses, p.Summary.EstimatedTime, p.Summary.EstimatedCost)
	fmt.Fprintln(w, p.Summary.Recommendation)
}

func formatCourses(w io.Writer, heading string, courses []recommend.Course) {
	fmt.Fprintf(w, "\n%s\n", heading)
	if len(courses) == 0 {
		fmt.Fprintln(w, "  no catalog courses")
		return
	}
	for i, c := range courses {
		fmt.Fprintf(w, "  %d. %s (%s)", i+1, c.Name, c.Platform)
		if c.Duration != "" {
			fmt.Fprintf(w, ", %s", c.Duration)
		}
		if c.Rating > 0 {
			fmt.Fprintf(w, ", rated %.1f", c.Rating)
		}
		fmt.Fprintf(w, "\n     %s\n     %s\n", c.URL, c.Cost)
	}
}

func init() {
	recommendCmd.Flags().String("skill", "", "list courses for one skill")
	recommendCmd.Flags().String("scope", "critical", "gap buckets to cover: critical, important, or all")
	recommendCmd.Flags().Int("max-per-skill", recommend.DefaultMaxPerSkill, "courses per skill")
	recommendCmd.Flags().String("catalog", "", "course catalog YAML file (default: built-in)")
	recommendCmd.Flags().String("role", "", "target role (default: healthcare-data-analyst)")
	recommendCmd.Flags().String("market-file", "", "market table or snapshot file")
	recommendCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(recommendCmd)
}
