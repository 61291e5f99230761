package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skillgap/internal/match"
	"github.com/pdiddy/skillgap/internal/taxonomy"
	"github.com/pdiddy/skillgap/pkg/types"
)

var matchCmd = &cobra.Command{
	Use:   "match [text...]",
	Short: "Find taxonomy skills in text",
	Long: `Match runs the skill matcher over text given as arguments, read from
--file, or piped on stdin, and lists the canonical skills found with the
strategy that found each one. With --estimate each skill is also scored as
if the text were a resume.`,
	RunE: runMatch,
}

// matchRow is one line of match output.
type matchRow struct {
	Skill       string       `json:"skill"`
	Display     string       `json:"display_name"`
	Category    string       `json:"category"`
	Method      match.Method `json:"method"`
	Score       float64      `json:"score"`
	Proficiency *float64     `json:"proficiency,omitempty"`
	Confidence  *float64     `json:"confidence,omitempty"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	estimateFlag, _ := cmd.Flags().GetBool("estimate")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	text, err := matchInput(args, file, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text to match: pass text as arguments, --file, or stdin")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	var rows []matchRow
	for _, r := range a.matcher.MatchDetailed(text) {
		row := matchRow{
			Skill:    r.Skill,
			Display:  taxonomy.DisplayName(r.Skill),
			Category: string(a.tax.Category(r.Skill)),
			Method:   r.Method,
			Score:    r.Score,
		}
		if estimateFlag {
			s := a.estimator.Estimate(r.Skill, types.ResumeText{RawText: text})
			row.Proficiency, row.Confidence = &s.Proficiency, &s.Confidence
		}
		rows = append(rows, row)
	}

	return formatMatchOutput(rows, jsonOutput, os.Stdout)
}

func matchInput(args []string, file string, stdin io.Reader) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func formatMatchOutput(rows []matchRow, jsonOutput bool, w io.Writer) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if rows == nil {
			rows = []matchRow{}
		}
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No skills found.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-20s  %-10s  %-8s  %s\n", "Skill", "Name", "Category", "Method", "Score")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, r := range rows {
		fmt.Fprintf(w, "%-20s  %-20s  %-10s  %-8s  %.2f", r.Skill, r.Display, r.Category, r.Method, r.Score)
		if r.Proficiency != nil {
			fmt.Fprintf(w, "  prof %.2f conf %.2f", *r.Proficiency, *r.Confidence)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "\n%d skills\n", len(rows))
	return nil
}

func init() {
	matchCmd.Flags().String("file", "", "read text from a file")
	matchCmd.Flags().Bool("estimate", false, "score each skill as resume evidence")
	matchCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(matchCmd)
}
