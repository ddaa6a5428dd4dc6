// Package cfg sets up the command line, config file and settings for a run.
package cfg

import (
	"fmt"
	"strings"

	"postgrab/internal/domain/keys"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "postgrab [manifest]",
	Short: "postgrab downloads the videos listed in a manifest and names them from their metadata",
	Long: `postgrab reads a JSON manifest, runs the external downloader for every
"video" entry not yet in the ledger, renames each downloaded file to
{time}_{title}_{desc}.mp4 and records the URL in the ledger.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfigFile(viper.GetString(keys.ConfigFile))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			viper.Set(keys.ManifestFile, args[0])
		}
		if err := verify(); err != nil {
			return err
		}
		viper.Set(keys.Execute, true)
		return nil
	},
}

// Execute parses the command line. The caller checks keys.Execute afterwards.
func Execute() error {
	return rootCmd.Execute()
}

// InitCommands initializes all commands and their flags.
func InitCommands() {
	viper.SetEnvPrefix("POSTGRAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	initFileFlags()
	initDownloadFlags()
	initProgramFlags()
}

// loadConfigFile reads the config file, if one was named.
//
// Values from the file fill in any flag the user did not set.
func loadConfigFile(file string) error {
	if file == "" {
		return nil
	}
	if _, err := validateFile(file); err != nil {
		return fmt.Errorf("config file: %w", err)
	}

	viper.SetConfigFile(file)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %q: %w", file, err)
	}
	return nil
}
