package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect past build runs",
	RunE:  runRunsList,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run's full report",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsCmd.PersistentFlags().IntVar(&runsLimit, "limit", 20, "maximum number of runs to list")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}

	reports, err := runService.List(context.Background(), runsLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if len(reports) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	for _, r := range reports {
		status := fmt.Sprintf("%d/%d", r.Selected, r.Target)
		if r.Shortfall > 0 {
			status += fmt.Sprintf(" (short %d)", r.Shortfall)
		}
		cmd.Printf("%s  %s  %s\n", r.StartedAt.Local().Format("2006-01-02 15:04"), r.RunID, status)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}

	report, err := runService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("loading run: %w", err)
	}

	cmd.Printf("Run %s\n", report.RunID)
	cmd.Printf("Started:    %s\n", report.StartedAt.Local().Format(time.RFC1123))
	cmd.Printf("Finished:   %s\n", report.FinishedAt.Local().Format(time.RFC1123))
	cmd.Printf("Selected:   %d of %d\n", report.Selected, report.Target)
	if report.Shortfall > 0 {
		cmd.Printf("Shortfall:  %d\n", report.Shortfall)
	}
	cmd.Printf("Recent:     %d (%.1f%%)\n", report.RecentCount, report.RecentShare()*100)
	cmd.Printf("Duplicated: %d\n", report.Duplicates)
	cmd.Printf("Excluded:   %d unresolved, %d unweighted\n", report.UnresolvedExcluded, report.UnweightedExcluded)

	if len(report.PerRegion) > 0 {
		cmd.Println("\nPer region:")
		for _, region := range report.Regions() {
			cmd.Printf("  %-12s %d\n", region, report.PerRegion[region])
		}
	}
	return nil
}
