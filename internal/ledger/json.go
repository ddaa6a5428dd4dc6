package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"postgrab/internal/domain/consts"
	"postgrab/internal/domain/errs"
	"postgrab/internal/domain/logger"
)

// JSONStore keeps the ledger as an indented JSON array of strings.
type JSONStore struct {
	Path string
}

// NewJSONStore returns a JSONStore for path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{Path: path}
}

// Load reads the ledger file. A missing file yields an empty ledger.
func (s *JSONStore) Load(_ context.Context) (*Ledger, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Pl.D(1, "No ledger at %q, starting empty", s.Path)
			return New(), nil
		}
		return nil, &errs.LedgerReadError{Path: s.Path, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return New(), nil
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, &errs.LedgerReadError{Path: s.Path, Err: err}
	}

	l := New(urls...)
	if l.Len() != len(urls) {
		logger.Pl.W("Ledger %q held %d duplicate entries, ignoring them", s.Path, len(urls)-l.Len())
	}
	return l, nil
}

// Save overwrites the ledger file with the full contents of l.
func (s *JSONStore) Save(_ context.Context, l *Ledger) error {
	data, err := marshalLedger(l)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.Path, data); err != nil {
		return fmt.Errorf("failed to write ledger %q: %w", s.Path, err)
	}
	logger.Pl.D(2, "Saved %d ledger entries to %q", l.Len(), s.Path)
	return nil
}

// marshalLedger renders l with two-space indentation and without HTML escaping,
// so URLs containing '&' stay readable.
func marshalLedger(l *Ledger) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l.URLs()); err != nil {
		return nil, fmt.Errorf("failed to encode ledger: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// writeFileAtomic writes data to a temp file in the target's directory, then renames it over path.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, consts.PermsDir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, consts.PermsFile); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
