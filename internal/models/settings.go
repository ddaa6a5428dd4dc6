package models

import "time"

// Settings holds the resolved program settings for one run.
type Settings struct {
	Dir             string
	ManifestPath    string
	LedgerPath      string
	LedgerBackend   string
	StrictLedger    bool
	Downloader      string
	DownloaderArgs  []string
	MaxAttempts     int
	SettleDelay     time.Duration
	CookiesBrowser  bool
	CookieFile      string
	TimeFormat      string
	ContinueOnError bool
	DryRun          bool
	Progress        bool
	LogFile         string
	DebugLevel      int
}
