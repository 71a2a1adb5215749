package main

import (
	"os"

	"github.com/handiism/vinyl-prices/internal/config"
	"github.com/spf13/cobra"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
	inputPath  string
	outputPath string
	library    string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	update := &updateOptions{root: opts}

	cmd := &cobra.Command{
		Use:   "vinyl-prices",
		Short: "Cache Discogs price suggestions for a record list",
		Long: `vinyl-prices reads a CSV of records (artist, title, year), finds each
release on Discogs, fetches its marketplace price suggestions and merges the
results into a JSON file keyed by "<artist> — <title> (<year>)".

Set DISCOGS_TOKEN to a personal access token before running.

Run without a subcommand to update prices.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, update)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (.json or .toml)")
	flags.StringVarP(&opts.inputPath, "input", "i", "", "Input CSV file (default records.csv)")
	flags.StringVarP(&opts.outputPath, "output", "o", "", "Price store JSON file (default prices_db.json)")
	flags.StringVar(&opts.library, "library", "", "Read records from ID3 tags of MP3 files in this directory instead of a CSV")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show verbose output")

	bindUpdateFlags(cmd, update)

	cmd.AddCommand(
		newUpdateCommand(update),
		newShowCommand(opts),
		newRecordsCommand(opts),
	)
	return cmd
}

// loadSettings builds the effective settings: config file, then
// environment, then command line flags.
func (o *rootOptions) loadSettings() (*config.Settings, error) {
	settings := config.DefaultSettings()
	if o.configPath != "" {
		var err error
		settings, err = config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
	}
	settings.ApplyEnv(os.Getenv)

	if o.inputPath != "" {
		settings.InputPath = o.inputPath
	}
	if o.outputPath != "" {
		settings.OutputPath = o.outputPath
	}
	if o.library != "" {
		settings.LibraryPath = o.library
	}
	return settings, nil
}
