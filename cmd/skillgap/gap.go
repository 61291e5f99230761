// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skillgap/internal/gap"
	"github.com/pdiddy/skillgap/pkg/types"
)

var gapCmd = &cobra.Command{
	Use:   "gap <owner>",
	Short: "Compare a stored profile with market demand",
	Long: `Gap compares an owner's stored skill profile with the market table for a
target role. Every market skill lands in at most one bucket: critical,
important, or emerging gap, or strength. The report ends with an overall
readiness percentage weighted by market frequency and requirement level,
and the frequently requested skills the profile lacks entirely.`,
	Args: cobra.ExactArgs(1),
	RunE: runGap,
}

// gapReport is the JSON form of gap output.
type gapReport struct {
	Owner    string                    `json:"owner"`
	Role     string                    `json:"target_role,omitempty"`
	Analysis types.GapAnalysis         `json:"analysis"`
	Missing  []types.MarketRequirement `json:"missing_skills"`
}

func runGap(cmd *cobra.Command, args []string) error {
	owner := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := a.userSkills(store, cmd, owner)
	if err != nil {
		return err
	}
	table, err := a.marketTable()
	if err != nil {
		return err
	}

	report := gapReport{
		Owner:    owner,
		Role:     table.Role,
		Analysis: gap.Analyze(user, table),
		Missing:  gap.MissingSkills(user, table, a.cfg.Market.MinFrequency),
	}
	if report.Missing == nil {
		report.Missing = []types.MarketRequirement{}
	}

	if jsonOutput {
		return writeJSON(os.Stdout, report)
	}
	formatGapReport(report, limit, os.Stdout)
	return nil
}

func formatGapReport(r gapReport, limit int, w io.Writer) {
	s := r.Analysis.Summary
	fmt.Fprintf(w, "Gap analysis for %s", r.Owner)
	if r.Role != "" {
		fmt.Fprintf(w, " (%s)", r.Role)
	}
	fmt.Fprintf(w, ", market source: %s\n", r.Analysis.MarketSource)
	fmt.Fprintf(w, "Overall readiness: %.1f%% - %s\n", r.Analysis.OverallReadiness, s.Interpretation)

	formatBucket(w, "CRITICAL GAPS", r.Analysis.CriticalGaps, limit)
	formatBucket(w, "IMPORTANT GAPS", r.Analysis.ImportantGaps, limit)
	formatBucket(w, "EMERGING SKILLS", r.Analysis.EmergingGaps, limit)
	formatBucket(w, "STRENGTHS", r.Analysis.Strengths, limit)

	fmt.Fprintf(w, "\n%d gaps (%d critical, %d important, %d emerging), %d strengths\n",
		s.TotalGaps, s.CriticalCount, s.ImportantCount, s.EmergingCount, s.StrengthCount)
	if len(s.Top3Priorities) > 0 {
		fmt.Fprintf(w, "Top priorities: %s\n", strings.Join(s.Top3Priorities, ", "))
	}
	if len(r.Missing) > 0 {
		names := make([]string, len(r.Missing))
		for i, m := range r.Missing {
			names[i] = m.Skill
		}
		fmt.Fprintf(w, "Missing skills: %s\n", strings.Join(names, ", "))
	}
}

func formatBucket(w io.Writer, title string, gaps []types.Gap, limit int) {
	if len(gaps) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintf(w, "%-20s  %-5s  %-5s  %-5s  %-5s  %s\n", "Skill", "You", "Need", "Gap", "Freq", "Notes")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for i, g := range gaps {
		if limit > 0 && i == limit {
			fmt.Fprintf(w, "... %d more\n", len(gaps)-limit)
			break
		}
		note := g.Impact
		if g.Priority == types.PriorityStrength {
			note = g.Advantage
		}
		fmt.Fprintf(w, "%-20s  %-5.2f  %-5.2f  %-5.2f  %-5.2f  %s\n",
			g.Skill, g.UserProficiency, g.MarketRequirement, g.Gap, g.MarketFrequency, note)
	}
}

func init() {
	gapCmd.Flags().String("role", "", "target role (default: healthcare-data-analyst)")
	gapCmd.Flags().String("market-file", "", "market table or snapshot file")
	gapCmd.Flags().Int("limit", 5, "rows shown per bucket, 0 for all")
	gapCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(gapCmd)
}
