// Package session runs one browser per test.
//
// A session is started with Start, which registers its teardown with the test.
// Teardown closes the browser exactly once. If the test failed, a screenshot and a
// diagnostics file with recent browser events and log records are stored first.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid"
	"github.com/samber/lo"

	"github.com/networkteam/shopcheck/artifact"
	"github.com/networkteam/shopcheck/browser"
	"github.com/networkteam/shopcheck/collector"
	"github.com/networkteam/shopcheck/logging"
	"github.com/networkteam/shopcheck/pages"
	"github.com/networkteam/shopcheck/wait"
)

const (
	DefaultEventCapacity = 200
	DefaultLogCapacity   = 100
)

type State int32

const (
	Uninitialized State = iota
	Running
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// TB is the part of testing.TB a session needs.
type TB interface {
	Helper()
	Name() string
	Failed() bool
	Cleanup(func())
	Logf(format string, args ...any)
}

type Options struct {
	Browser browser.Options
	BaseURL string
	Policy  wait.Policy
	// Store receives failure artifacts. Nil disables capturing.
	Store *artifact.Store
	// Logger of the run. The session adds its own collector.
	Logger *slog.Logger

	// Launch starts the browser. Default: browser.Launch
	Launch func(browser.Options) (browser.Browser, error)
	Now    func() time.Time

	// EventCapacity is the number of browser events kept for diagnostics.
	// Default: 200
	EventCapacity int
	// LogCapacity is the number of log records kept for diagnostics.
	// Default: 100
	LogCapacity int
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.Launch == nil {
		o.Launch = browser.Launch
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.EventCapacity <= 0 {
		o.EventCapacity = DefaultEventCapacity
	}
	if o.LogCapacity <= 0 {
		o.LogCapacity = DefaultLogCapacity
	}
	return o
}

// Session owns the browser of one test.
type Session struct {
	id      uuid.UUID
	name    string
	tb      TB
	opts    Options
	started time.Time

	browser browser.Browser
	env     pages.Env
	events  *collector.EventCollector
	logs    *collector.LogCollector
	logger  *slog.Logger

	state     atomic.Int32
	closeOnce sync.Once
	closeErr  error
}

// Start launches a browser for tb and registers its teardown with tb.Cleanup.
// Invalid browser or engine names fail with browser.ErrUnsupported, everything
// else that prevents a browser start with a *browser.DriverError.
func Start(tb TB, opts Options) (*Session, error) {
	tb.Helper()
	opts = opts.withDefaults()

	if err := opts.Browser.Validate(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generating session id: %w", err)
	}

	s := &Session{
		id:      id,
		name:    tb.Name(),
		tb:      tb,
		opts:    opts,
		started: opts.Now(),
		events:  collector.NewEventCollector(opts.EventCapacity),
		logs:    collector.NewLogCollector(opts.LogCapacity),
	}
	s.logger = logging.Tee(opts.Logger,
		collector.NewHandler(s.logs, collector.HandlerOptions{Level: slog.LevelDebug}),
	).With("session", id.String())

	browserOpts := opts.Browser
	sink := browserOpts.Events
	browserOpts.Events = func(e browser.Event) {
		s.events.Record(e)
		if sink != nil {
			sink(e)
		}
	}

	s.logger.Info("Starting browser", "browser", lo.CoalesceOrEmpty(browserOpts.Browser, browser.Chrome), "headless", browserOpts.Headless)
	b, err := opts.Launch(browserOpts)
	if err != nil {
		err = asDriverError(browserOpts, err)
		s.logger.Error("Starting browser failed", "error", err)
		return nil, err
	}
	s.browser = b
	s.env = pages.NewEnv(b.Page(), opts.BaseURL, opts.Policy, s.logger)
	s.state.Store(int32(Running))

	tb.Cleanup(s.teardown)
	logging.TestStart(s.logger, s.name)
	return s, nil
}

func asDriverError(opts browser.Options, err error) error {
	var driverErr *browser.DriverError
	if errors.Is(err, browser.ErrUnsupported) || errors.As(err, &driverErr) {
		return err
	}
	return &browser.DriverError{
		Browser: lo.CoalesceOrEmpty(opts.Browser, browser.Chrome),
		Engine:  lo.CoalesceOrEmpty(opts.Engine, browser.EnginePlaywright),
		Err:     err,
	}
}

func (s *Session) ID() uuid.UUID { return s.id }

// Name is the name of the test owning the session.
func (s *Session) Name() string { return s.name }

func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) Env() pages.Env { return s.env }

func (s *Session) Logger() *slog.Logger { return s.logger }

func (s *Session) Browser() browser.Browser { return s.browser }

func (s *Session) Events() *collector.EventCollector { return s.events }

// Home opens the storefront home page, the entry point of every scenario.
func (s *Session) Home() (*pages.HomePage, error) {
	return pages.NewHomePage(s.env)
}

// Close closes the browser without capturing artifacts. Later calls and the
// registered teardown return the first result.
func (s *Session) Close() error {
	s.close(false)
	return s.closeErr
}

func (s *Session) teardown() {
	s.close(s.tb.Failed())
}

func (s *Session) close(failed bool) {
	s.closeOnce.Do(func() {
		status := "PASSED"
		if failed {
			status = "FAILED"
			if err := s.CaptureFailure(); err != nil {
				s.logger.Warn("Capturing failure artifacts failed", "error", err)
			}
		}
		logging.TestEnd(s.logger, s.name, status)

		if err := s.browser.Close(); err != nil {
			s.closeErr = fmt.Errorf("closing browser: %w", err)
			s.logger.Warn("Closing browser failed", "error", err)
		} else {
			s.logger.Info("Browser closed")
		}
		s.state.Store(int32(Closed))
	})
}

// CaptureFailure stores a screenshot and the diagnostics of the session.
// Both are attempted; the returned error joins their failures.
func (s *Session) CaptureFailure() error {
	if s.opts.Store == nil {
		return nil
	}
	at := s.opts.Now()
	diag := s.Diagnostics(at)

	var errs []error
	png, err := s.browser.Page().Screenshot()
	if err == nil {
		diag.Screenshot, err = s.opts.Store.SaveScreenshot(s.name, at, png)
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("taking screenshot: %w", err))
	} else {
		s.logger.Info("Screenshot saved", "path", s.opts.Store.Location(diag.Screenshot))
		s.tb.Logf("Screenshot saved: %s", s.opts.Store.Location(diag.Screenshot))
	}

	p, err := s.opts.Store.SaveDiagnostics(s.name, at, diag)
	if err != nil {
		errs = append(errs, fmt.Errorf("saving diagnostics: %w", err))
	} else {
		s.logger.Info("Diagnostics saved", "path", s.opts.Store.Location(p))
	}
	return errors.Join(errs...)
}
