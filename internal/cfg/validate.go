package cfg

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"postgrab/internal/domain/consts"
	"postgrab/internal/domain/keys"

	"github.com/spf13/viper"
)

// verify verifies that the user input flags are valid.
func verify() error {
	switch b := strings.ToLower(viper.GetString(keys.LedgerBackend)); b {
	case consts.BackendJSON, consts.BackendSQLite:
	default:
		return fmt.Errorf("invalid ledger backend %q (want %q or %q)", b, consts.BackendJSON, consts.BackendSQLite)
	}

	if n := viper.GetInt(keys.DLRetries); n < 1 {
		return fmt.Errorf("invalid %s %d: need at least 1 attempt", keys.DLRetries, n)
	}

	if d := viper.GetDuration(keys.SettleDelay); d < 0 {
		return fmt.Errorf("invalid %s %v: must not be negative", keys.SettleDelay, d)
	}

	if dir := viper.GetString(keys.DownloadDir); dir != "" {
		if _, err := validateDirectory(dir); err != nil {
			return err
		}
	}

	if f := viper.GetString(keys.CookieFile); f != "" {
		if _, err := validateFile(f); err != nil {
			return fmt.Errorf("cookie file: %w", err)
		}
	}

	if l := viper.GetInt(keys.DebugLevel); l < 0 || l > 5 {
		return fmt.Errorf("invalid debug level %d (0-5)", l)
	}
	return nil
}

// validateFile checks that path exists and is not a directory.
func validateFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file %q does not exist", path)
		}
		return nil, fmt.Errorf("failed to stat file %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory, not a file", path)
	}
	return info, nil
}

// validateDirectory checks that path exists and is a directory.
func validateDirectory(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("directory %q does not exist", path)
		}
		return nil, fmt.Errorf("failed to stat directory %q: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", path)
	}
	return info, nil
}
