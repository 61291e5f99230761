package market

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/skillgap/pkg/types"
)

// FormatTable writes a market table in human-readable form to w.
func FormatTable(t types.MarketTable, w io.Writer) {
	if len(t.Skills) == 0 {
		fmt.Fprintln(w, "No market skills.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-22s  %-10s  %-6s  %-6s  %s\n",
		"Rank", "Skill", "Level", "Freq", "Need", "Mentions")
	fmt.Fprintln(w, strings.Repeat("-", 64))

	for i, s := range t.Skills {
		mentions := "-"
		if s.MentionCount > 0 {
			mentions = fmt.Sprintf("%d", s.MentionCount)
		}
		fmt.Fprintf(w, "%-4d  %-22s  %-10s  %-6.2f  %-6.2f  %s\n",
			i+1, truncate(s.Skill, 22), s.Level, s.Frequency, s.AvgProficiencyNeeded, mentions)
	}

	fmt.Fprintf(w, "\n%d skills, source: %s", len(t.Skills), t.Source)
	if t.Role != "" {
		fmt.Fprintf(w, ", role: %s", t.Role)
	}
	if t.JobsAnalyzed > 0 {
		fmt.Fprintf(w, ", %d postings", t.JobsAnalyzed)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes t as indented JSON to w.
func FormatJSON(t types.MarketTable, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
