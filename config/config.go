// Package config loads jobcatch settings from a JSON5 file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/jobcatch"
	"github.com/fwojciec/jobcatch/crawl"
	"github.com/go-playground/validator/v10"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName        = "jobcatch"
	ConfigFileName = "config.json"
)

// Config holds settings that command-line flags and environment variables
// override.
type Config struct {
	DB          string  `json:"db"`
	Staging     string  `json:"staging"`
	Concurrency int     `json:"concurrency" validate:"gte=0"`
	RateLimit   float64 `json:"rate_limit" validate:"gte=0"`
	UserAgent   string  `json:"user_agent"`

	// Boards lists the feeds to crawl per board name.
	Boards map[string]Board `json:"boards"`
}

// Board holds the per-board crawl settings.
type Board struct {
	Feeds []crawl.Feed `json:"feeds"`
}

// Default returns the built-in settings. Data lives under ~/.jobcatch.
func Default() Config {
	dir := ".jobcatch"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".jobcatch")
	}
	return Config{
		DB:          filepath.Join(dir, "jobcatch.db"),
		Staging:     filepath.Join(dir, "staging"),
		Concurrency: 4,
		RateLimit:   1,
		Boards:      map[string]Board{},
	}
}

// Path returns the default config file location, honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName, ConfigFileName), nil
}

// Load reads the config file at path over the defaults. A missing or empty
// file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, jobcatch.Errorf(jobcatch.EINVALID, "parse config %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports negative limits and feeds without an id or url.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return jobcatch.Errorf(jobcatch.EINVALID, "invalid config: %v", err)
	}
	for name, board := range c.Boards {
		for i, feed := range board.Feeds {
			if feed.ID == "" || feed.URL == "" {
				return jobcatch.Errorf(jobcatch.EINVALID, "invalid config: boards.%s.feeds[%d] needs id and url", name, i)
			}
		}
	}
	return nil
}

// Feeds returns the configured feeds of board.
func (c Config) Feeds(board string) []crawl.Feed {
	return c.Boards[board].Feeds
}
