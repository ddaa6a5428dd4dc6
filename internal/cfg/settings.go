package cfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"postgrab/internal/domain/consts"
	"postgrab/internal/domain/keys"
	"postgrab/internal/models"

	"github.com/spf13/viper"
)

// LoadSettings resolves the settings for this run from flags, config file and environment.
//
// Paths left empty default to files inside the download directory.
func LoadSettings() (*models.Settings, error) {
	dir := viper.GetString(keys.DownloadDir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve download directory %q: %w", dir, err)
	}

	backend := strings.ToLower(viper.GetString(keys.LedgerBackend))
	defaultLedger := consts.DefaultLedgerFile
	if backend == consts.BackendSQLite {
		defaultLedger = consts.DefaultLedgerDB
	}

	s := &models.Settings{
		Dir:             dir,
		ManifestPath:    pathOr(viper.GetString(keys.ManifestFile), dir, consts.DefaultManifestFile),
		LedgerPath:      pathOr(viper.GetString(keys.LedgerFile), dir, defaultLedger),
		LedgerBackend:   backend,
		StrictLedger:    viper.GetBool(keys.StrictLedger),
		Downloader:      viper.GetString(keys.Downloader),
		DownloaderArgs:  viper.GetStringSlice(keys.DownloaderArgs),
		MaxAttempts:     viper.GetInt(keys.DLRetries),
		SettleDelay:     viper.GetDuration(keys.SettleDelay),
		CookiesBrowser:  viper.GetBool(keys.CookiesFromBrowser),
		CookieFile:      viper.GetString(keys.CookieFile),
		TimeFormat:      viper.GetString(keys.TimeFormat),
		ContinueOnError: viper.GetBool(keys.ContinueOnError),
		DryRun:          viper.GetBool(keys.DryRun),
		Progress:        viper.GetBool(keys.Progress),
		LogFile:         viper.GetString(keys.LogFile),
		DebugLevel:      viper.GetInt(keys.DebugLevel),
	}

	if s.Downloader == "" {
		s.Downloader = consts.DefaultDownloader
	}
	if s.MaxAttempts < 1 {
		s.MaxAttempts = consts.DefaultMaxAttempts
	}
	if s.CookieFile != "" {
		if s.CookieFile, err = filepath.Abs(s.CookieFile); err != nil {
			return nil, fmt.Errorf("failed to resolve cookie file: %w", err)
		}
	}
	return s, nil
}

// pathOr returns p made absolute, or name inside dir when p is empty.
func pathOr(p, dir, name string) string {
	if p == "" {
		return filepath.Join(dir, name)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
