package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skillgap/internal/market"
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Build and inspect market requirement tables",
	Long: `Market manages the requirement tables gap analysis compares profiles
against. Tables are built from job postings, loaded from files, or taken
from the built-in fallback tables for common roles.`,
}

// --- build subcommand ---

var marketBuildCmd = &cobra.Command{
	Use:   "build <postings.yaml>",
	Short: "Aggregate job postings into a market table",
	Long: `Build reads a postings file (a top-level "postings" list of id, title,
company, location, description), merges duplicate postings, and computes
per-skill frequency, requirement level, and proficiency needed. The result
is saved as a snapshot under <data-dir>/market/<role>.yaml, where gap and
recommend pick it up for the same role.`,
	Args: cobra.ExactArgs(1),
	RunE: runMarketBuild,
}

func runMarketBuild(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	postings, err := market.LoadPostings(args[0])
	if err != nil {
		return err
	}
	if len(postings) == 0 {
		return fmt.Errorf("no postings in %s", args[0])
	}
	fmt.Fprintf(os.Stderr, "analyzing %d postings\n", len(postings))

	table, removed := market.NewAnalyzer(a.matcher).Aggregate(postings)
	table.Role = market.RoleKey(a.cfg.Market.Role)

	if out == "" {
		out = market.SnapshotPath(a.cfg.Store.DataDir, a.cfg.Market.Role)
	}
	if err := market.WriteSnapshot(out, table, removed); err != nil {
		return err
	}

	market.FormatTable(table, os.Stdout)
	if removed > 0 {
		fmt.Printf("%d duplicate postings removed\n", removed)
	}
	fmt.Printf("snapshot written to %s\n", out)
	return nil
}

// --- roles subcommand ---

var marketRolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the built-in fallback roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		roles, err := market.Roles()
		if err != nil {
			return err
		}
		fmt.Printf("%-28s  %-28s  %s\n", "Role", "Title", "Skills")
		fmt.Println(strings.Repeat("-", 66))
		for _, r := range roles {
			fmt.Printf("%-28s  %-28s  %d\n", r.Key, r.Title, r.Skills)
		}
		return nil
	},
}

// --- show subcommand ---

var marketShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the market table gap analysis would use",
	Long: `Show prints the table selected by --market-file, else the snapshot built
for --role, else the built-in fallback for --role.`,
	RunE: runMarketShow,
}

func runMarketShow(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	table, err := a.marketTable()
	if err != nil {
		return err
	}
	if jsonOutput {
		return market.FormatJSON(table, os.Stdout)
	}
	market.FormatTable(table, os.Stdout)
	return nil
}

func init() {
	marketBuildCmd.Flags().String("role", "", "role the postings describe (default: healthcare-data-analyst)")
	marketBuildCmd.Flags().String("out", "", "snapshot path (default: <data-dir>/market/<role>.yaml)")

	marketShowCmd.Flags().String("role", "", "target role")
	marketShowCmd.Flags().String("market-file", "", "market table or snapshot file")
	marketShowCmd.Flags().Bool("json", false, "output as JSON")

	marketCmd.AddCommand(marketBuildCmd)
	marketCmd.AddCommand(marketRolesCmd)
	marketCmd.AddCommand(marketShowCmd)

	rootCmd.AddCommand(marketCmd)
}
