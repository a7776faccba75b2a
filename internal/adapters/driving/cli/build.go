package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

var (
	buildTarget int
	buildWindow time.Duration
	buildSplit  float64
	buildSeed   int64
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build today's call list",
	Long: `Runs one complete list build: fetches the record pool and weight
table, allocates per-region quotas, selects and shuffles the list, then
exports the dialer CSV and sends the status notification.

Flags override the persisted configuration for this run only.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().IntVar(&buildTarget, "target", 0, "target list size (overrides config)")
	buildCmd.Flags().DurationVar(&buildWindow, "window", 0, "recency window, e.g. 24h (overrides config)")
	buildCmd.Flags().Float64Var(&buildSplit, "split", -1, "recent/historical split ratio in [0,1] (overrides config)")
	buildCmd.Flags().Int64Var(&buildSeed, "seed", 0, "random seed for a reproducible run")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	if orchestrator == nil {
		return errors.New("orchestrator not configured")
	}

	cfg := runConfigFromStore(configStore)
	if buildTarget > 0 {
		cfg.TargetTotal = buildTarget
	}
	if buildWindow > 0 {
		cfg.RecencyWindow = buildWindow
	}
	if buildSplit >= 0 {
		cfg.SplitRatio = buildSplit
	}
	if buildSeed != 0 {
		cfg.Seed = buildSeed
	}

	cmd.Printf("Building list of %d records...\n", cfg.TargetTotal)

	report, err := orchestrator.RunOnce(context.Background(), cfg)
	if err != nil {
		if report != nil {
			// The list was built; a later step failed.
			cmd.Print(renderRunSummary(report))
		}
		return fmt.Errorf("build failed: %w", err)
	}

	cmd.Print(renderRunSummary(report))
	return nil
}

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true)
	summaryLabelStyle = lipgloss.NewStyle().Faint(true).Width(16)
	shortfallStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// renderRunSummary formats the run report for the terminal.
func renderRunSummary(report *domain.RunReport) string {
	out := "\n" + summaryTitleStyle.Render("Run "+report.RunID) + "\n"

	line := func(label, value string) string {
		return summaryLabelStyle.Render(label) + value + "\n"
	}

	out += line("Selected", fmt.Sprintf("%d of %d", report.Selected, report.Target))
	if report.Shortfall > 0 {
		out += line("Shortfall", shortfallStyle.Render(fmt.Sprintf("%d", report.Shortfall)))
	}
	out += line("Recent share", fmt.Sprintf("%.1f%%", report.RecentShare()*100))
	out += line("Duplicated", fmt.Sprintf("%d", report.Duplicates))
	out += line("Unresolved", fmt.Sprintf("%d excluded", report.UnresolvedExcluded))
	out += line("Unweighted", fmt.Sprintf("%d excluded", report.UnweightedExcluded))
	out += line("Duration", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond).String())

	if len(report.PerRegion) > 0 {
		out += "\n" + summaryTitleStyle.Render("Per region") + "\n"
		for _, region := range report.Regions() {
			out += line(region.String(), fmt.Sprintf("%d", report.PerRegion[region]))
		}
	}
	return out
}
