// Package locate finds the file the downloader just wrote.
package locate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"postgrab/internal/domain/consts"
	"postgrab/internal/domain/errs"
	"postgrab/internal/domain/logger"
)

// Locator finds the artifact named with prefix in dir.
type Locator interface {
	Locate(ctx context.Context, dir, prefix string) (string, error)
}

// DirLocator waits a fixed settle delay, then scans dir once.
type DirLocator struct {
	Settle time.Duration
}

// NewDirLocator returns a DirLocator. A negative settle uses the default of 2s.
func NewDirLocator(settle time.Duration) *DirLocator {
	if settle < 0 {
		settle = consts.DefaultSettleDelay
	}
	return &DirLocator{Settle: settle}
}

// Locate waits for the downloader's writes to settle, then returns the path
// of the first regular file (in name order) whose name starts with prefix.
func (d *DirLocator) Locate(ctx context.Context, dir, prefix string) (string, error) {
	if d.Settle > 0 {
		logger.Pl.D(2, "Waiting %v for files in %q to settle", d.Settle, dir)
		t := time.NewTimer(d.Settle)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}
	return ScanDir(dir, prefix)
}

// ScanDir returns the first regular file in dir whose name starts with prefix.
func ScanDir(dir, prefix string) (string, error) {
	if prefix == "" {
		return "", &errs.ArtifactNotFoundError{Dir: dir, Prefix: prefix}
	}

	// Sorted by file name
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("error reading download directory %q: %w", dir, err)
	}

	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		logger.Pl.D(1, "Located downloaded file %q", p)
		return p, nil
	}
	return "", &errs.ArtifactNotFoundError{Dir: dir, Prefix: prefix}
}
