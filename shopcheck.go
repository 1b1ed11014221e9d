// Package shopcheck wires a storefront test run: configuration, test data, the
// artifact store, the run logger and, for the "demo" base URL, the built in demo
// store. Tests start their browser sessions through a Suite.
package shopcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/networkteam/shopcheck/artifact"
	"github.com/networkteam/shopcheck/browser"
	"github.com/networkteam/shopcheck/config"
	"github.com/networkteam/shopcheck/demostore"
	"github.com/networkteam/shopcheck/fixtures"
	"github.com/networkteam/shopcheck/logging"
	"github.com/networkteam/shopcheck/report"
	"github.com/networkteam/shopcheck/session"
)

// DataDir holds the test data files, relative to the root.
const DataDir = "data"

type Options struct {
	// Root is the directory config, data and reports paths are relative to.
	// Default: "."
	Root string
	// Fs is the filesystem rooted at Root.
	// Default: the local disk below Root
	Fs afero.Fs

	// Flags are the parsed command line flags. Default: nil
	Flags *config.Flags
	// Lookup reads environment variables. Default: os.LookupEnv
	Lookup func(string) (string, bool)

	// Console receives log records at ConsoleLevel and above. Default: os.Stderr
	Console      io.Writer
	ConsoleLevel slog.Level

	// Launch starts browsers. Default: browser.Launch
	Launch func(browser.Options) (browser.Browser, error)
	Now    func() time.Time

	// DemoOptions configure the demo store if the base URL is "demo".
	DemoOptions []demostore.Option
}

// Suite holds what all tests of a run share. It is safe for concurrent use by
// parallel tests; each test gets its own session.
type Suite struct {
	conf   config.Config
	store  *artifact.Store
	logger *logging.Logger
	data   *fixtures.Data

	baseURL    string
	demo       *demostore.Server
	demoServer *httptest.Server

	launch func(browser.Options) (browser.Browser, error)
	now    func() time.Time

	started  time.Time
	failures atomic.Int64
}

// New consolidates the configuration and prepares the run.
// Close must be called once all tests are done.
func New(opts Options) (*Suite, error) {
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewBasePathFs(afero.NewOsFs(), opts.Root)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	bootLogger := slog.New(slog.NewTextHandler(lo.CoalesceOrEmpty[io.Writer](opts.Console, os.Stderr), &slog.HandlerOptions{Level: opts.ConsoleLevel}))
	conf, err := config.Consolidate(config.Sources{
		Fs:     opts.Fs,
		Flags:  opts.Flags,
		Lookup: opts.Lookup,
		Logger: bootLogger,
	})
	if err != nil {
		return nil, err
	}

	reportsDir := conf.ReportsDir.String
	store := artifact.NewStore(afero.NewBasePathFs(opts.Fs, reportsDir), path.Join(opts.Root, reportsDir))
	logger, err := logging.New(logging.Options{
		Console:      opts.Console,
		ConsoleLevel: opts.ConsoleLevel,
		Store:        store,
		Now:          opts.Now,
	})
	if err != nil {
		return nil, err
	}

	data, err := fixtures.Load(opts.Fs, DataDir)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	s := &Suite{
		conf:    conf,
		store:   store,
		logger:  logger,
		data:    data,
		baseURL: conf.BaseURL.String,
		launch:  opts.Launch,
		now:     opts.Now,
		started: opts.Now(),
	}

	if conf.IsDemo() {
		valid := data.Users.Valid
		demoOpts := append([]demostore.Option{
			demostore.WithLogger(logger.With("component", "demostore")),
			demostore.WithCustomers(demostore.Customer{
				FirstName: valid.FirstName,
				LastName:  valid.LastName,
				Email:     valid.Email,
				Telephone: valid.Telephone,
				Password:  valid.Password,
			}),
		}, opts.DemoOptions...)
		s.demo = demostore.NewServer(demoOpts...)
		s.demoServer = httptest.NewServer(s.demo)
		s.baseURL = s.demoServer.URL
		logger.Info("Demo store started", "url", s.baseURL)
	}

	logger.Info("Test run configured",
		"browser", conf.Browser.String,
		"engine", conf.Engine.String,
		"headless", conf.Headless.Bool,
		"baseURL", s.baseURL,
		"reports", store.Dir(),
	)
	return s, nil
}

func (s *Suite) Config() config.Config { return s.conf }

func (s *Suite) Data() *fixtures.Data { return s.data }

func (s *Suite) Logger() *slog.Logger { return s.logger.Logger }

func (s *Suite) Store() *artifact.Store { return s.store }

// BaseURL is the storefront under test, the demo store URL in demo mode.
func (s *Suite) BaseURL() string { return s.baseURL }

// Demo returns the demo store or nil if a remote storefront is tested.
func (s *Suite) Demo() *demostore.Server { return s.demo }

// SessionOptions returns the options Start uses.
func (s *Suite) SessionOptions() session.Options {
	opts := s.conf.BrowserOptions()
	return session.Options{
		Browser: opts,
		BaseURL: s.baseURL,
		Policy:  s.conf.WaitPolicy(),
		Store:   s.store,
		Logger:  s.logger.Logger,
		Launch:  s.launch,
		Now:     s.now,
	}
}

// Start launches a browser session for tb. It is closed when tb finishes.
func (s *Suite) Start(tb session.TB) (*session.Session, error) {
	tb.Helper()
	// Registered first, so it runs after the session teardown captured its artifacts.
	tb.Cleanup(func() {
		if tb.Failed() {
			s.failures.Add(1)
		}
	})
	return session.Start(tb, s.SessionOptions())
}

// Failures returns the number of failed tests that started a session.
func (s *Suite) Failures() int {
	return int(s.failures.Load())
}

// Close stops the demo store, renders the failure report if a test of this run
// failed and closes the log file. Artifacts of earlier runs are left out.
func (s *Suite) Close() error {
	var errs []error
	if s.demoServer != nil {
		s.demoServer.Close()
		s.demo.Close()
	}

	if s.Failures() > 0 {
		if err := s.writeReport(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := s.logger.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing log file: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Suite) writeReport() error {
	r, err := report.Build(s.store)
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}
	r.Since(s.started)
	if len(r.Entries) == 0 {
		s.logger.Warn("No failure artifacts captured", "failures", s.Failures())
		return nil
	}
	p, err := report.Save(context.Background(), s.store, r)
	if err != nil {
		return err
	}
	s.logger.Info("Failure report written", "path", p, "failures", len(r.Entries))
	return nil
}
