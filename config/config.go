// Package config consolidates the settings of a test run from defaults, the JSON
// config file, SHOPCHECK_* environment variables and command line flags, in that
// order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mstoykov/envconfig"
	"github.com/spf13/afero"
	"gopkg.in/guregu/null.v3"

	"github.com/networkteam/shopcheck/browser"
	"github.com/networkteam/shopcheck/wait"
)

const (
	// DefaultFile is read relative to the working directory.
	DefaultFile = "config/config.json"
	// DemoBaseURL as base URL starts the built in demo store.
	DemoBaseURL = "demo"
)

type Config struct {
	Browser  null.String `json:"browser" envconfig:"SHOPCHECK_BROWSER"`
	Engine   null.String `json:"engine" envconfig:"SHOPCHECK_ENGINE"`
	Headless null.Bool   `json:"headless" envconfig:"SHOPCHECK_HEADLESS"`
	BaseURL  null.String `json:"base_url" envconfig:"SHOPCHECK_BASE_URL"`

	// ImplicitWait and ExplicitWait are in seconds.
	ImplicitWait null.Int `json:"implicit_wait" envconfig:"SHOPCHECK_IMPLICIT_WAIT"`
	ExplicitWait null.Int `json:"explicit_wait" envconfig:"SHOPCHECK_EXPLICIT_WAIT"`

	ReportsDir null.String `json:"reports_dir" envconfig:"SHOPCHECK_REPORTS_DIR"`
}

// Default returns the built in defaults. None of its fields is marked valid, so
// every other layer overrides them.
func Default() Config {
	return Config{
		Browser:      null.NewString(browser.Chrome, false),
		Engine:       null.NewString(browser.EnginePlaywright, false),
		Headless:     null.NewBool(false, false),
		BaseURL:      null.NewString("https://demo.opencart.com", false),
		ImplicitWait: null.NewInt(10, false),
		ExplicitWait: null.NewInt(20, false),
		ReportsDir:   null.NewString("reports", false),
	}
}

// Apply returns c overridden by every valid field of cfg.
func (c Config) Apply(cfg Config) Config {
	if cfg.Browser.Valid {
		c.Browser = cfg.Browser
	}
	if cfg.Engine.Valid {
		c.Engine = cfg.Engine
	}
	if cfg.Headless.Valid {
		c.Headless = cfg.Headless
	}
	if cfg.BaseURL.Valid {
		c.BaseURL = cfg.BaseURL
	}
	if cfg.ImplicitWait.Valid {
		c.ImplicitWait = cfg.ImplicitWait
	}
	if cfg.ExplicitWait.Valid {
		c.ExplicitWait = cfg.ExplicitWait
	}
	if cfg.ReportsDir.Valid {
		c.ReportsDir = cfg.ReportsDir
	}
	return c
}

// ErrNoFile is returned by ReadFile if the config file does not exist.
var ErrNoFile = errors.New("config file not found")

// ReadFile reads a JSON config file. Unknown keys are ignored.
func ReadFile(fsys afero.Fs, path string) (Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: %s", ErrNoFile, path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var conf Config
	if err := json.Unmarshal(data, &conf); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return conf, nil
}

// ReadEnv reads the SHOPCHECK_* variables through lookup, os.LookupEnv if nil.
func ReadEnv(lookup func(string) (string, bool)) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var conf Config
	if err := envconfig.Process("", &conf, lookup); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	return conf, nil
}

// Sources are the inputs of Consolidate.
type Sources struct {
	Fs     afero.Fs
	Flags  *Flags
	Lookup func(string) (string, bool)
	Logger *slog.Logger
}

// Consolidate layers defaults, file, environment and flags and validates the result.
// A missing config file is logged and skipped.
func Consolidate(src Sources) (Config, error) {
	if src.Fs == nil {
		src.Fs = afero.NewOsFs()
	}
	if src.Logger == nil {
		src.Logger = slog.Default()
	}

	path := DefaultFile
	var flagConf Config
	if src.Flags != nil {
		path = src.Flags.ConfigFile()
		flagConf = src.Flags.Config()
	}

	conf := Default()
	fileConf, err := ReadFile(src.Fs, path)
	switch {
	case errors.Is(err, ErrNoFile):
		src.Logger.Warn("Config file not found, using defaults", "path", path)
	case err != nil:
		return Config{}, err
	default:
		conf = conf.Apply(fileConf)
	}

	envConf, err := ReadEnv(src.Lookup)
	if err != nil {
		return Config{}, err
	}
	conf = conf.Apply(envConf).Apply(flagConf)

	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// Validate checks browser and engine names and the wait durations.
func (c Config) Validate() error {
	if err := c.BrowserOptions().Validate(); err != nil {
		return err
	}
	if c.ImplicitWait.Int64 < 0 || c.ExplicitWait.Int64 <= 0 {
		return fmt.Errorf("invalid waits: implicit %ds, explicit %ds", c.ImplicitWait.Int64, c.ExplicitWait.Int64)
	}
	if strings.TrimSpace(c.BaseURL.String) == "" {
		return errors.New("base URL is empty")
	}
	return nil
}

// IsDemo reports whether the demo store should be started.
func (c Config) IsDemo() bool {
	return c.BaseURL.String == DemoBaseURL
}

func (c Config) ImplicitWaitDuration() time.Duration {
	return time.Duration(c.ImplicitWait.Int64) * time.Second
}

func (c Config) ExplicitWaitDuration() time.Duration {
	return time.Duration(c.ExplicitWait.Int64) * time.Second
}

func (c Config) BrowserOptions() browser.Options {
	return browser.Options{
		Browser:      strings.ToLower(c.Browser.String),
		Engine:       strings.ToLower(c.Engine.String),
		Headless:     c.Headless.Bool,
		ImplicitWait: c.ImplicitWaitDuration(),
	}
}

// WaitPolicy returns the default policy with the explicit wait as timeout.
func (c Config) WaitPolicy() wait.Policy {
	p := wait.DefaultPolicy()
	p.Timeout = c.ExplicitWaitDuration()
	return p
}
