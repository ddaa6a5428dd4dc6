// Package keys holds the terminal input keys and internal Viper keys.
package keys

// Files and directories.
const (
	DownloadDir  string = "dir"
	ManifestFile string = "manifest"
	LedgerFile   string = "ledger"
	ConfigFile   string = "config-file"
	LogFile      string = "log-file"
)

// Ledger.
const (
	LedgerBackend string = "ledger-backend"
	StrictLedger  string = "strict-ledger"
)

// Downloading.
const (
	Downloader         string = "downloader"
	DownloaderArgs     string = "downloader-args"
	DLRetries          string = "retries"
	SettleDelay        string = "settle"
	CookiesFromBrowser string = "cookies-from-browser"
	CookieFile         string = "cookie-file"
)

// Naming.
const (
	TimeFormat string = "time-format"
)

// Program inputs.
const (
	ContinueOnError string = "continue-on-error"
	DryRun          string = "dry-run"
	Progress        string = "progress"
	DebugLevel      string = "debug"
)

// Internal.
const (
	Execute string = "execute"
)
