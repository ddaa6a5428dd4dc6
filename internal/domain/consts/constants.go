// Package consts holds various global, unchanging values.
package consts

// Default file names, matching what existing installs already have on disk.
const (
	DefaultManifestFile = "posts.json"
	DefaultLedgerFile   = "downloaded_videos.json"
	DefaultLedgerDB     = "downloaded_videos.db"
	DefaultDownloader   = "lux"
)

// Exported cookie files, one per domain: .postgrab-cookies-<domain>.txt
const (
	CookieFilePrefix = ".postgrab-cookies-"
	CookieFileExt    = ".txt"
)

// Manifest entries.
const (
	VideoType   = "video"
	OutputExt   = ".mp4"
	NameSep     = "_"
	MaxNameRune = 100
)

// Ledger backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Downloader output.
const (
	// StatusLineMarker marks progress/status lines on the downloader's stderr.
	StatusLineMarker = "["
	CookieFlag       = "-c"
)

// Permissions.
const (
	PermsFile = 0o644
	PermsDir  = 0o755
)
