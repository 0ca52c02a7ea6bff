// Package config holds the settings of a journey run and loads them from
// YAML.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thesyncim/journey/pkg/browser"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Browser configures the Chrome instance driving the journey.
type Browser struct {
	Headless   bool          `yaml:"headless"`
	Timeout    time.Duration `yaml:"timeout"`
	NoSandbox  bool          `yaml:"no_sandbox"`
	WindowSize string        `yaml:"window_size"`
	Bin        string        `yaml:"bin"`
}

// Config is the full run configuration.
type Config struct {
	BaseURL      string        `yaml:"base_url"`
	Plan         string        `yaml:"plan"`
	Format       string        `yaml:"format"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	Browser      Browser       `yaml:"browser"`
}

// Default returns the settings used when neither a file nor a flag says
// otherwise. The browser window is visible unless headless is requested.
func Default() *Config {
	return &Config{
		BaseURL:      "http://localhost:5173",
		Plan:         "dental",
		Format:       FormatText,
		ProbeTimeout: 5 * time.Second,
		Browser: Browser{
			Headless:   false,
			Timeout:    10 * time.Second,
			NoSandbox:  true,
			WindowSize: "1920,1080",
		},
	}
}

// Load reads a YAML file over the defaults. Fields absent from the file
// keep their default values. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: want an absolute http(s) URL", c.BaseURL)
	}
	if c.Plan == "" {
		return errors.New("plan is required")
	}
	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("unknown format %q (want %s or %s)", c.Format, FormatText, FormatJSON)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe_timeout must be positive, got %v", c.ProbeTimeout)
	}
	if c.Browser.Timeout <= 0 {
		return fmt.Errorf("browser.timeout must be positive, got %v", c.Browser.Timeout)
	}
	return nil
}

// BrowserConfig converts the browser section for browser.Open.
func (c *Config) BrowserConfig() browser.Config {
	return browser.Config{
		Headless:   c.Browser.Headless,
		Timeout:    c.Browser.Timeout,
		NoSandbox:  c.Browser.NoSandbox,
		WindowSize: c.Browser.WindowSize,
		Bin:        c.Browser.Bin,
	}
}
