// Package config provides configuration management for vinyl-prices.
//
// This package handles:
//   - Loading and saving settings from JSON or TOML files
//   - Default configuration values
//   - Environment overrides for the Discogs token and User-Agent
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Reads records.csv, writes prices_db.json
//	// One second pause between API calls
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.toml")
//	if err != nil {
//	    // A missing file yields defaults; a malformed one is an error
//	}
//	settings.ApplyEnv(os.Getenv)
//	if err := settings.Validate(); err != nil {
//	    // ErrMissingToken: abort before any I/O
//	}
//
// The file format is chosen by extension: ".toml" is TOML, anything else JSON.
package config
