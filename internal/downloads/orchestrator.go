// Package downloads runs the per-entry download state machine:
// ledger check, fetch with retries, artifact lookup, rename, ledger update.
package downloads

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"postgrab/internal/command/execute"
	"postgrab/internal/domain/consts"
	"postgrab/internal/domain/errs"
	"postgrab/internal/domain/logger"
	"postgrab/internal/ledger"
	"postgrab/internal/locate"
	"postgrab/internal/models"
	"postgrab/internal/parsing"
)

// Result describes how a Download call ended.
type Result struct {
	State    models.DLState
	Skipped  bool
	DryRun   bool
	Attempts int
	Path     string
}

// Orchestrator downloads manifest entries one at a time.
//
// Not safe for concurrent use: the Ledger is mutated without locking.
type Orchestrator struct {
	Ledger       *ledger.Ledger
	Store        ledger.Store
	Fetcher      execute.Executor
	Locator      locate.Locator
	Dir          string
	MaxAttempts  int
	TimeFormat   string
	StrictLedger bool
	DryRun       bool
}

// NewOrchestrator returns an Orchestrator with the default attempt budget.
func NewOrchestrator(l *ledger.Ledger, s ledger.Store, f execute.Executor, loc locate.Locator, dir string) *Orchestrator {
	return &Orchestrator{
		Ledger:      l,
		Store:       s,
		Fetcher:     f,
		Locator:     loc,
		Dir:         dir,
		MaxAttempts: consts.DefaultMaxAttempts,
	}
}

// NewTask derives the download task for entry.
func (o *Orchestrator) NewTask(entry models.ManifestEntry) models.DownloadTask {
	t, err := parsing.NormalizeTime(entry.Time.String(), o.TimeFormat)
	if err != nil {
		logger.Pl.W("Keeping raw time %q for %q: %v", entry.Time, entry.VideoURL, err)
	}
	return models.DownloadTask{
		SourceURL:        entry.VideoURL,
		CanonicalName:    parsing.CanonicalName(t, entry.Title, entry.Desc),
		RetriesRemaining: o.maxAttempts(),
	}
}

// Download runs entry through the state machine.
//
// Only process-level fetch failures are retried. A missing artifact or a failed
// rename fails the entry immediately, and the ledger is left untouched.
func (o *Orchestrator) Download(ctx context.Context, entry models.ManifestEntry) (Result, error) {
	if o.Ledger == nil || o.Store == nil || o.Fetcher == nil || o.Locator == nil {
		return Result{State: models.StateFailed}, errors.New("orchestrator is missing a dependency")
	}

	task := o.NewTask(entry)
	url := task.SourceURL
	res := Result{State: models.StatePending}

	// PENDING
	if o.Ledger.Contains(url) {
		logger.Pl.I("Video already downloaded, skipping: %s", url)
		res.State, res.Skipped = models.StateDone, true
		return res, nil
	}

	if o.DryRun {
		logger.Pl.I("Dry run: would download %q and rename it to %q", url, task.CanonicalName)
		res.DryRun = true
		return res, nil
	}

	// FETCHING
	var fetchErr error
	for task.RetriesRemaining > 0 {
		o.transition(&res, models.StateFetching, url)
		res.Attempts++

		pr := o.Fetcher.Fetch(ctx, url)
		if pr.OK() {
			fetchErr = nil
			break
		}

		fetchErr = &errs.FetchProcessError{URL: url, Attempt: res.Attempts, Err: pr.Err}
		task.RetriesRemaining--
		logger.Pl.E("Error downloading video: %v", fetchErr)

		if ctx.Err() != nil {
			return o.fail(&res, url, ctx.Err())
		}
		if task.RetriesRemaining > 0 {
			logger.Pl.I("Retrying download (%d/%d)...", res.Attempts+1, o.maxAttempts())
		}
	}
	if fetchErr != nil {
		return o.fail(&res, url, fetchErr)
	}

	// LOCATING
	o.transition(&res, models.StateLocating, url)
	src, err := o.Locator.Locate(ctx, o.Dir, parsing.ArtifactPrefix(url))
	if err != nil {
		return o.fail(&res, url, err)
	}

	// RENAMING
	o.transition(&res, models.StateRenaming, url)
	dst := filepath.Join(o.Dir, task.CanonicalName)
	if err := renameArtifact(src, dst); err != nil {
		return o.fail(&res, url, err)
	}
	res.Path = dst

	// DONE
	o.Ledger.Add(url)
	if err := o.Store.Save(ctx, o.Ledger); err != nil {
		logger.Pl.E("Error saving downloaded video list: %v", err)
		if o.StrictLedger {
			// Keep memory in line with disk so a later duplicate is retried
			o.Ledger.Remove(url)
			return o.fail(&res, url, fmt.Errorf("ledger not persisted after downloading %q: %w", url, err))
		}
	}
	o.transition(&res, models.StateDone, url)
	logger.Pl.S("Video downloaded and renamed to: %s", task.CanonicalName)
	return res, nil
}

// renameArtifact checks src is still there, then moves it to dst.
func renameArtifact(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		logger.Pl.E("Cannot access downloaded file: %v", err)
		return &errs.RenameError{Src: src, Dst: dst, Err: err}
	}
	if err := os.Rename(src, dst); err != nil {
		return &errs.RenameError{Src: src, Dst: dst, Err: err}
	}
	return nil
}

func (o *Orchestrator) transition(res *Result, to models.DLState, url string) {
	logger.Pl.D(1, "%s: %s -> %s", url, res.State, to)
	res.State = to
}

func (o *Orchestrator) fail(res *Result, url string, err error) (Result, error) {
	o.transition(res, models.StateFailed, url)
	return *res, err
}

func (o *Orchestrator) maxAttempts() int {
	if o.MaxAttempts <= 0 {
		return consts.DefaultMaxAttempts
	}
	return o.MaxAttempts
}
