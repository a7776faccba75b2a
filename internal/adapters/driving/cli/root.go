// Package cli provides the listiq command-line interface. Commands are
// thin wrappers around the core services; wiring happens in main.
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driven"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driving"
	"github.com/listiq-labs/listiq-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by main before Execute.
var (
	orchestrator  driving.RunOrchestrator
	regionService driving.RegionMapService
	runService    driving.RunService
	schedulerFn   func() driving.Scheduler
	configStore   driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "listiq",
	Short: "Daily outbound call list builder",
	Long: `ListIQ builds the daily outbound dialer list: it pulls the record
pool, allocates per-region quotas from population weights, mixes recent
and historical records, and writes a shuffled dialer CSV.

Run 'listiq build' for a one-off build, or 'listiq daemon' to run the
nightly schedule.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services bundles everything the commands need.
type Services struct {
	Orchestrator driving.RunOrchestrator
	Regions      driving.RegionMapService
	Runs         driving.RunService
	ConfigStore  driven.ConfigStore

	// NewScheduler builds a scheduler for daemon mode. Deferred so a
	// plain 'listiq version' never spins one up.
	NewScheduler func() driving.Scheduler
}

// SetServices injects the core services into the command tree.
func SetServices(s Services) {
	orchestrator = s.Orchestrator
	regionService = s.Regions
	runService = s.Runs
	configStore = s.ConfigStore
	schedulerFn = s.NewScheduler
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// runConfigFromStore assembles the build parameters from persisted
// configuration, falling back to the defaults for anything unset.
func runConfigFromStore(store driven.ConfigStore) domain.RunConfig {
	cfg := domain.DefaultRunConfig()
	if store == nil {
		return cfg
	}

	if v := store.GetInt("build.target"); v > 0 {
		cfg.TargetTotal = v
	}
	if v := store.GetInt("build.recency_hours"); v > 0 {
		cfg.RecencyWindow = time.Duration(v) * time.Hour
	}
	if _, ok := store.Get("build.split_ratio"); ok {
		cfg.SplitRatio = store.GetFloat("build.split_ratio")
	}
	if v := store.GetInt("build.seed"); v != 0 {
		cfg.Seed = int64(v)
	}
	return cfg
}
