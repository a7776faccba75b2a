// Command listiq builds the daily outbound dialer list.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	configfile "github.com/listiq-labs/listiq-cli/internal/adapters/driven/config/file"
	exportcsv "github.com/listiq-labs/listiq-cli/internal/adapters/driven/export/csvfile"
	"github.com/listiq-labs/listiq-cli/internal/adapters/driven/notify/smtp"
	sourcecsv "github.com/listiq-labs/listiq-cli/internal/adapters/driven/source/csvfile"
	"github.com/listiq-labs/listiq-cli/internal/adapters/driven/source/crm"
	"github.com/listiq-labs/listiq-cli/internal/adapters/driven/storage/sqlite"
	weightscsv "github.com/listiq-labs/listiq-cli/internal/adapters/driven/weights/csvfile"
	"github.com/listiq-labs/listiq-cli/internal/adapters/driving/cli"
	"github.com/listiq-labs/listiq-cli/internal/core/domain"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driven"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driving"
	"github.com/listiq-labs/listiq-cli/internal/core/services"
)

// version is overridden at build time:
//
//	go build -ldflags "-X main.version=1.2.3"
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config: %w", err)
	}

	store, err := sqlite.NewStore(config.GetString("storage.dir"))
	if err != nil {
		return fmt.Errorf("initialising storage: %w", err)
	}
	defer store.Close()

	orch := services.NewOrchestrator(
		recordSource(config),
		weightSource(config),
		store.RegionMapStore(),
		exporter(config),
		notifier(config),
		store.RunStore(),
	)

	runConfig := func() domain.RunConfig {
		return runConfigFromStore(config)
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Orchestrator: orch,
		Regions:      services.NewRegionService(store.RegionMapStore()),
		Runs:         services.NewRunHistoryService(store.RunStore()),
		ConfigStore:  config,
		NewScheduler: func() driving.Scheduler {
			return services.NewScheduler(schedulerConfig(config), store.SchedulerStore(), orch, runConfig)
		},
	})

	return cli.Execute()
}

// recordSource picks the pool source from configuration. The CRM
// source is used when 'source.type' is "crm"; everything else falls
// back to the CSV file source.
func recordSource(config driven.ConfigStore) driven.RecordSource {
	if config.GetString("source.type") == "crm" {
		return crm.NewSource(crm.Config{
			BaseURL:           config.GetString("crm.base_url"),
			TokenURL:          config.GetString("crm.token_url"),
			ClientID:          config.GetString("crm.client_id"),
			ClientSecret:      config.GetString("crm.client_secret"),
			PageSize:          config.GetInt("crm.page_size"),
			RequestsPerSecond: config.GetFloat("crm.requests_per_second"),
		})
	}
	return sourcecsv.NewSource(config.GetString("source.pool_path"))
}

func weightSource(config driven.ConfigStore) driven.WeightSource {
	return weightscsv.NewWeightSource(config.GetString("source.weights_path"))
}

func exporter(config driven.ConfigStore) driven.ListExporter {
	dir := config.GetString("export.dir")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".listiq", "exports")
		} else {
			dir = "exports"
		}
	}
	return exportcsv.NewExporter(dir)
}

// notifier returns nil when no SMTP host is configured; the
// orchestrator treats a nil notifier as "do not notify".
func notifier(config driven.ConfigStore) driven.Notifier {
	host := config.GetString("smtp.host")
	if host == "" {
		return nil
	}

	port := config.GetInt("smtp.port")
	if port == 0 {
		port = 587
	}
	return smtp.NewNotifier(smtp.Config{
		Host:     host,
		Port:     port,
		Username: config.GetString("smtp.username"),
		Password: config.GetString("smtp.password"),
		From:     config.GetString("smtp.from"),
		FromName: config.GetString("smtp.from_name"),
		To:       config.GetStringSlice("smtp.to"),
		Subject:  config.GetString("smtp.subject"),
	})
}

// runConfigFromStore mirrors the CLI's config-to-parameters mapping so
// the scheduler picks up edits without a restart.
func runConfigFromStore(config driven.ConfigStore) domain.RunConfig {
	cfg := domain.DefaultRunConfig()
	if v := config.GetInt("build.target"); v > 0 {
		cfg.TargetTotal = v
	}
	if v := config.GetInt("build.recency_hours"); v > 0 {
		cfg.RecencyWindow = time.Duration(v) * time.Hour
	}
	if _, ok := config.Get("build.split_ratio"); ok {
		cfg.SplitRatio = config.GetFloat("build.split_ratio")
	}
	if v := config.GetInt("build.seed"); v != 0 {
		cfg.Seed = int64(v)
	}
	return cfg
}

func schedulerConfig(config driven.ConfigStore) domain.SchedulerConfig {
	cfg := domain.DefaultSchedulerConfig()
	if v := config.GetInt("scheduler.interval_hours"); v > 0 {
		task := cfg.TaskConfigs[domain.TaskIDListBuild]
		task.Interval = time.Duration(v) * time.Hour
		cfg.TaskConfigs[domain.TaskIDListBuild] = task
	}
	return cfg
}
