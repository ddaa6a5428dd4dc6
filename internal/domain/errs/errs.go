// Package errs holds the error kinds surfaced by a download run.
package errs

import (
	"errors"
	"fmt"
)

// ErrArtifactNotFound is matched by ArtifactNotFoundError.
var ErrArtifactNotFound = errors.New("downloaded file not found")

// LedgerReadError means an existing ledger could not be read or parsed.
type LedgerReadError struct {
	Path string
	Err  error
}

func (e *LedgerReadError) Error() string {
	return fmt.Sprintf("failed to read ledger %q: %v", e.Path, e.Err)
}

func (e *LedgerReadError) Unwrap() error { return e.Err }

// FetchProcessError means the downloader failed to launch or exited non-zero.
type FetchProcessError struct {
	URL     string
	Attempt int
	Err     error
}

func (e *FetchProcessError) Error() string {
	return fmt.Sprintf("download of %q failed on attempt %d: %v", e.URL, e.Attempt, e.Err)
}

func (e *FetchProcessError) Unwrap() error { return e.Err }

// ArtifactNotFoundError means no file matching Prefix appeared in Dir.
type ArtifactNotFoundError struct {
	Dir    string
	Prefix string
}

func (e *ArtifactNotFoundError) Error() string {
	return fmt.Sprintf("%v: no file starting with %q in %q", ErrArtifactNotFound, e.Prefix, e.Dir)
}

func (e *ArtifactNotFoundError) Is(target error) bool { return target == ErrArtifactNotFound }

// RenameError means the located file could not be accessed or moved.
type RenameError struct {
	Src string
	Dst string
	Err error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("failed to rename %q to %q: %v", e.Src, e.Dst, e.Err)
}

func (e *RenameError) Unwrap() error { return e.Err }

// IsLedgerRead reports whether err is a LedgerReadError.
func IsLedgerRead(err error) bool {
	var e *LedgerReadError
	return errors.As(err, &e)
}

// IsFetchProcess reports whether err is a FetchProcessError.
func IsFetchProcess(err error) bool {
	var e *FetchProcessError
	return errors.As(err, &e)
}

// IsArtifactNotFound reports whether err is an ArtifactNotFoundError.
func IsArtifactNotFound(err error) bool {
	return errors.Is(err, ErrArtifactNotFound)
}

// IsRename reports whether err is a RenameError.
func IsRename(err error) bool {
	var e *RenameError
	return errors.As(err, &e)
}
