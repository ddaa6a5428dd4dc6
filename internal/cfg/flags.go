package cfg

import (
	"postgrab/internal/domain/consts"
	"postgrab/internal/domain/keys"

	"github.com/spf13/viper"
)

// initFileFlags initializes flags for files and directories.
func initFileFlags() {
	rootCmd.PersistentFlags().StringP(keys.DownloadDir, "d", "", "Directory the downloader runs in, also where files are renamed (default: current directory)")
	bind(keys.DownloadDir)

	rootCmd.PersistentFlags().StringP(keys.ManifestFile, "m", "", "Manifest JSON file (default: "+consts.DefaultManifestFile+" in the download directory)")
	bind(keys.ManifestFile)

	rootCmd.PersistentFlags().StringP(keys.LedgerFile, "l", "", "Ledger of downloaded URLs (default: "+consts.DefaultLedgerFile+" in the download directory)")
	bind(keys.LedgerFile)

	rootCmd.PersistentFlags().String(keys.LedgerBackend, consts.BackendJSON, "Ledger storage (json or sqlite)")
	bind(keys.LedgerBackend)

	rootCmd.PersistentFlags().Bool(keys.StrictLedger, false, "Fail the entry if the ledger cannot be saved")
	bind(keys.StrictLedger)

	rootCmd.PersistentFlags().String(keys.ConfigFile, "", "Config file (any format viper reads: toml, yaml, json...)")
	bind(keys.ConfigFile)

	rootCmd.PersistentFlags().String(keys.LogFile, "", "Also write logs to this file")
	bind(keys.LogFile)
}

// initDownloadFlags initializes flags for the downloader and naming.
func initDownloadFlags() {
	rootCmd.PersistentFlags().String(keys.Downloader, consts.DefaultDownloader, "External downloader to run for each URL")
	bind(keys.Downloader)

	rootCmd.PersistentFlags().StringSlice(keys.DownloaderArgs, nil, "Extra arguments passed to the downloader before the URL")
	bind(keys.DownloaderArgs)

	rootCmd.PersistentFlags().Int(keys.DLRetries, consts.DefaultMaxAttempts, "Download attempts per URL")
	bind(keys.DLRetries)

	rootCmd.PersistentFlags().Duration(keys.SettleDelay, consts.DefaultSettleDelay, "Wait after the downloader exits before looking for its file")
	bind(keys.SettleDelay)

	rootCmd.PersistentFlags().Bool(keys.CookiesFromBrowser, false, "Export cookies for each URL's domain from installed browsers and pass them to the downloader")
	bind(keys.CookiesFromBrowser)

	rootCmd.PersistentFlags().String(keys.CookieFile, "", "Netscape cookie file passed to the downloader")
	bind(keys.CookieFile)

	rootCmd.PersistentFlags().String(keys.TimeFormat, "", "Go time layout to reformat the manifest time with (e.g. 20060102)")
	bind(keys.TimeFormat)
}

// initProgramFlags initializes flags controlling the run itself.
func initProgramFlags() {
	rootCmd.PersistentFlags().Bool(keys.ContinueOnError, false, "Keep going after an entry fails")
	bind(keys.ContinueOnError)

	rootCmd.PersistentFlags().Bool(keys.DryRun, false, "Show what would be downloaded without running anything")
	bind(keys.DryRun)

	rootCmd.PersistentFlags().Bool(keys.Progress, false, "Show a progress bar for the batch")
	bind(keys.Progress)

	rootCmd.PersistentFlags().Int(keys.DebugLevel, 0, "Debug level (0-5)")
	bind(keys.DebugLevel)
}

func bind(key string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
		panic("failed to bind flag " + key + ": " + err.Error())
	}
}
