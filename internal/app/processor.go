// Package app contains core application functionality.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"postgrab/internal/domain/logger"
	"postgrab/internal/downloads"
	"postgrab/internal/models"

	"github.com/schollz/progressbar/v3"
)

// Downloader processes a single manifest entry.
type Downloader interface {
	Download(ctx context.Context, entry models.ManifestEntry) (downloads.Result, error)
}

// RunOptions controls the batch loop.
type RunOptions struct {
	// ContinueOnError logs a failed entry and moves on instead of aborting the batch.
	ContinueOnError bool
	Progress        bool
	ProgressOut     io.Writer
}

// Summary counts what happened to each entry.
type Summary struct {
	Total      int
	Downloaded int
	Skipped    int
	Failed     int
	Pending    int
}

// Run downloads entries strictly in order, one at a time.
//
// By default the first failed entry stops the batch and its error is returned.
func Run(ctx context.Context, entries []models.ManifestEntry, d Downloader, opts RunOptions) (Summary, error) {
	sum := Summary{Total: len(entries)}

	var bar *progressbar.ProgressBar
	if opts.Progress && len(entries) > 0 {
		bar = newBar(len(entries), opts.ProgressOut)
	}

	var failures []error
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			sum.Pending = len(entries) - i
			return sum, errors.Join(append(failures, err)...)
		}

		logger.Pl.D(1, "Processing entry %d/%d: %s", i+1, len(entries), entry.VideoURL)
		res, err := d.Download(ctx, entry)
		if bar != nil {
			_ = bar.Add(1)
		}

		switch {
		case err != nil:
			sum.Failed++
			err = fmt.Errorf("entry %d (%s): %w", i+1, entry.VideoURL, err)
			if !opts.ContinueOnError {
				sum.Pending = len(entries) - i - 1
				return sum, err
			}
			logger.Pl.E("%v", err)
			failures = append(failures, err)
		case res.Skipped:
			sum.Skipped++
		case res.DryRun:
			sum.Pending++
		default:
			sum.Downloaded++
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}
	return sum, errors.Join(failures...)
}

func newBar(total int, out io.Writer) *progressbar.ProgressBar {
	if out == nil {
		out = os.Stderr
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}
