// Package config defines the bda-datasets configuration and how it is loaded.
//
// Values are layered, lowest precedence first: built-in defaults, an optional
// YAML file named by BDA_CONFIG, then BDA_-prefixed environment variables.
// Command-line flags are applied on top by the cli package.
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/pfrederiksen/bda-datasets/internal/football"
	"github.com/pfrederiksen/bda-datasets/internal/source"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// CachePath is where the downloaded dataset is stored.
	CachePath string `koanf:"cache_path"`

	// URL is the remote location of the dataset.
	URL string `koanf:"url"`

	// SkipHeaderLines is the number of metadata lines before the data.
	SkipHeaderLines int `koanf:"skip_header_lines"`

	// Years selects seasons, e.g. "1981,1983-1986". Empty keeps all.
	Years string `koanf:"years"`

	// Catalog lists the season labels of the blocks in file order.
	Catalog []int `koanf:"catalog"`

	// FetchAttempts is the total number of download attempts.
	FetchAttempts int `koanf:"fetch_attempts"`

	// RetryDelay is the base delay between download attempts.
	RetryDelay time.Duration `koanf:"retry_delay"`

	// FetchTimeout bounds a single download attempt.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		CachePath:       "data/football.txt",
		URL:             source.FootballURL,
		SkipHeaderLines: football.DefaultSkipHeaderLines,
		Catalog:         slices.Clone(football.DefaultSeasonCatalog),
		FetchAttempts:   1,
		RetryDelay:      500 * time.Millisecond,
		FetchTimeout:    source.Timeout,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch {
	case c.CachePath == "":
		return fmt.Errorf("%w: cache_path must not be empty", ErrInvalidConfig)
	case c.URL == "":
		return fmt.Errorf("%w: url must not be empty", ErrInvalidConfig)
	case c.SkipHeaderLines < 0:
		return fmt.Errorf("%w: skip_header_lines must be >= 0", ErrInvalidConfig)
	case len(c.Catalog) == 0:
		return fmt.Errorf("%w: catalog must not be empty", ErrInvalidConfig)
	case c.FetchAttempts < 1:
		return fmt.Errorf("%w: fetch_attempts must be >= 1", ErrInvalidConfig)
	}
	if _, err := football.ParseYears(c.Years); err != nil {
		return fmt.Errorf("%w: years: %v", ErrInvalidConfig, err)
	}
	return nil
}
