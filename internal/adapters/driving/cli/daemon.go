package cli

import (
	"context"
	"errors"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/listiq-labs/listiq-cli/internal/logger"
)

// configDebounce coalesces the burst of events an editor save emits.
const configDebounce = 200 * time.Millisecond

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the nightly build schedule",
	Long: `Runs in the foreground and executes the list build on its schedule.
Configuration changes are picked up without a restart: the config file
is watched and reloaded, and the next run uses the new parameters.

Stop with Ctrl-C or SIGTERM.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	if schedulerFn == nil {
		return errors.New("scheduler not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if configStore != nil {
		stopWatch, err := watchConfig(ctx, configStore.Path())
		if err != nil {
			logger.Warn("Config watch unavailable, edits need a restart: %v", err)
		} else {
			defer stopWatch()
		}
	}

	scheduler := schedulerFn()
	cmd.Println("listiq daemon started. Press Ctrl-C to stop.")

	if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	cmd.Println("Shutting down...")
	return scheduler.Stop()
}

// watchConfig reloads the config store whenever its file changes.
// Watches the containing directory because editors replace the file on
// save rather than writing it in place.
func watchConfig(ctx context.Context, path string) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir, file := filepath.Dir(path), filepath.Base(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		var debounce *time.Timer
		var debounceC <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case <-debounceC:
				debounce, debounceC = nil, nil
				if err := configStore.Load(); err != nil {
					logger.Warn("Config reload failed: %v", err)
					continue
				}
				logger.Info("Configuration reloaded from %s", path)

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != file {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.NewTimer(configDebounce)
				debounceC = debounce.C

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Config watcher error: %v", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
