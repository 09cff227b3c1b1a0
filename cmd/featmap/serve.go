package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"featmap/internal/scanner"
	"featmap/internal/server"
	"featmap/internal/watcher"

	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Serve the feature tree over HTTP",
	Long: `Scan the given path and start an HTTP server exposing the feature
tree as /features.json plus a bundled dashboard. The scan root is
watched for changes; edits to README or FEATURES.toml files trigger a
debounced rescan and the served snapshot is swapped in place.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on")
}

// mergeIgnoreDirs appends the configured ignore dirs to the watcher
// defaults, skipping duplicates.
func mergeIgnoreDirs(defaults, extra []string) []string {
	seen := map[string]bool{}
	merged := make([]string, 0, len(defaults)+len(extra))
	for _, dir := range defaults {
		if !seen[dir] {
			seen[dir] = true
			merged = append(merged, dir)
		}
	}
	for _, dir := range extra {
		if !seen[dir] {
			seen[dir] = true
			merged = append(merged, dir)
		}
	}
	return merged
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	path := resolvePath(args, cfg)

	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	scanCfg := scanConfig(cfg, true)
	features, err := scanner.New(logger).Scan(path, scanCfg)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr()
	srv := server.NewServer(addr, features, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Watcher.Enabled {
		watchCfg := watcher.DefaultConfig()
		if cfg.Watcher.DebounceMs > 0 {
			watchCfg.DebounceMs = cfg.Watcher.DebounceMs
		}
		watchCfg.IgnoreDirs = mergeIgnoreDirs(watchCfg.IgnoreDirs, cfg.Scan.IgnoreDirs)
		w := watcher.New(path, watchCfg, logger, func() {
			rescanned, err := scanner.New(logger).Scan(path, scanCfg)
			if err != nil {
				logger.Error("Rescan failed", map[string]interface{}{
					"error": err.Error(),
				})
				return
			}
			srv.Update(rescanned)
		})
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("Watcher stopped", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}()
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		fmt.Printf("featmap serving on http://%s\n", addr)
		fmt.Println("Press Ctrl+C to stop")
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
	case sig := <-shutdown:
		logger.Info("Received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during shutdown", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
		logger.Info("Server stopped gracefully", nil)
	}

	return nil
}
