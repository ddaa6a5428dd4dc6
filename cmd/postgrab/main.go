// Package main is the entrypoint of postgrab.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postgrab/internal/app"
	"postgrab/internal/cfg"
	"postgrab/internal/domain/keys"
	"postgrab/internal/domain/logger"
	"postgrab/internal/manifest"
	"postgrab/internal/utils/logging"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

func main() {
	os.Exit(run())
}

// run executes the program and returns its exit code.
func run() int {
	startTime := time.Now()

	cfg.InitCommands()
	if err := cfg.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	if !viper.GetBool(keys.Execute) {
		return 0 // Help or version only
	}

	settings, err := cfg.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	// Setup logging
	pl, err := logging.SetupLogging(logging.LoggingConfig{
		Console:     os.Stdout,
		LogFilePath: settings.LogFile,
		Level:       settings.DebugLevel,
		RunID:       uuid.NewString(),
		Program:     "postgrab",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "postgrab exiting with error: %v\n", err)
		return 1
	}
	logger.Pl = pl
	defer func() {
		if err := pl.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
	}()

	logger.Pl.I("postgrab started at: %v", startTime.Format("2006-01-02 15:04:05.00 MST"))

	// create cancellable context for shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	orch, cleanup, err := initializeApplication(ctx, settings)
	if err != nil {
		logger.Pl.E("Error initializing postgrab: %v", err)
		return 1
	}
	defer cleanup()

	entries, err := manifest.LoadVideos(settings.ManifestPath)
	if err != nil {
		logger.Pl.E("Error processing manifest: %v", err)
		return 1
	}

	sum, runErr := app.Run(ctx, entries, orch, app.RunOptions{
		ContinueOnError: settings.ContinueOnError,
		Progress:        settings.Progress,
	})

	logger.Pl.I("Entries: %d, downloaded: %d, skipped: %d, failed: %d, not processed: %d",
		sum.Total, sum.Downloaded, sum.Skipped, sum.Failed, sum.Pending)
	logger.Pl.I("Time elapsed: %.2f seconds", time.Since(startTime).Seconds())

	if runErr != nil {
		logger.Pl.E("Error processing manifest: %v", runErr)
		return 1
	}
	logger.Pl.S("All videos downloaded and renamed")
	return 0
}
