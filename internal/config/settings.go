package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvToken     = "DISCOGS_TOKEN"
	EnvUserAgent = "USER_AGENT"
)

// ErrMissingToken is returned by Validate when no Discogs token is configured.
var ErrMissingToken = errors.New("DISCOGS_TOKEN not set in environment")

// Settings holds all configuration options.
type Settings struct {
	// Discogs API
	DiscogsToken   string  `json:"discogs_token" toml:"discogs_token"`
	UserAgent      string  `json:"user_agent" toml:"user_agent"`
	BaseURL        string  `json:"base_url" toml:"base_url"`
	RequestTimeout float64 `json:"request_timeout" toml:"request_timeout"` // seconds, 0 = none

	// Input / output
	InputPath    string `json:"input_path" toml:"input_path"`
	OutputPath   string `json:"output_path" toml:"output_path"`
	CSVDelimiter string `json:"csv_delimiter" toml:"csv_delimiter"` // empty = detect
	LibraryPath  string `json:"library_path" toml:"library_path"`   // MP3 directory instead of CSV

	// Pacing between API calls, in seconds
	PacingDelay float64 `json:"pacing_delay" toml:"pacing_delay"`

	// Re-check behaviour
	SkipFresh     bool    `json:"skip_fresh" toml:"skip_fresh"`
	FreshForHours float64 `json:"fresh_for_hours" toml:"fresh_for_hours"`

	// Cover art cache
	CoverArtDir     string `json:"cover_art_dir" toml:"cover_art_dir"`
	CoverArtMaxSize int    `json:"cover_art_max_size" toml:"cover_art_max_size"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		UserAgent:      "vinyl-price-app/1.0",
		BaseURL:        "https://api.discogs.com",
		RequestTimeout: 0,

		InputPath:  "records.csv",
		OutputPath: "prices_db.json",

		PacingDelay: 1.0,

		SkipFresh:     false,
		FreshForHours: 24,

		CoverArtMaxSize: 500,
	}
}

// Load reads settings from a JSON or TOML file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isTOML(path) {
		err = toml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON or TOML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var data []byte
	var err error
	if isTOML(path) {
		data, err = toml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// ApplyEnv overrides the token and User-Agent from the environment.
// An unset or empty variable leaves the current value alone.
func (s *Settings) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvToken)); v != "" {
		s.DiscogsToken = v
	}
	if v := strings.TrimSpace(getenv(EnvUserAgent)); v != "" {
		s.UserAgent = v
	}
}

// Validate checks the settings required to start a run.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.DiscogsToken) == "" {
		return ErrMissingToken
	}
	return nil
}

// Pacing returns the pause between remote calls.
func (s *Settings) Pacing() time.Duration {
	return seconds(s.PacingDelay)
}

// Timeout returns the HTTP request timeout; zero means none.
func (s *Settings) Timeout() time.Duration {
	return seconds(s.RequestTimeout)
}

// FreshFor returns how long a success entry counts as fresh when SkipFresh is set.
func (s *Settings) FreshFor() time.Duration {
	return time.Duration(s.FreshForHours * float64(time.Hour))
}

// Delimiter returns the configured CSV delimiter, or 0 to auto-detect.
func (s *Settings) Delimiter() rune {
	if s.CSVDelimiter == "" {
		return 0
	}
	if s.CSVDelimiter == `\t` {
		return '\t'
	}
	return []rune(s.CSVDelimiter)[0]
}

func seconds(v float64) time.Duration {
	if v <= 0 {
		return 0
	}
	return time.Duration(v * float64(time.Second))
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
