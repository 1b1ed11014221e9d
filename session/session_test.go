package session_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/networkteam/shopcheck/artifact"
	"github.com/networkteam/shopcheck/browser"
	"github.com/networkteam/shopcheck/browser/browsertest"
	"github.com/networkteam/shopcheck/session"
	"github.com/networkteam/shopcheck/wait"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeTB struct {
	name     string
	failed   bool
	cleanups []func()
	logs     []string
}

func (f *fakeTB) Helper() {}
func (f *fakeTB) Name() string { return f.name }
func (f *fakeTB) Failed() bool { return f.failed }
func (f *fakeTB) Cleanup(fn func()) { f.cleanups = append(f.cleanups, fn) }

func (f *fakeTB) Logf(format string, args ...any) {
	f.logs = append(f.logs, fmt.Sprintf(format, args...))
}

func (f *fakeTB) finish() {
	for i := len(f.cleanups) - 1; i >= 0; i-- {
		f.cleanups[i]()
	}
}

var failedAt = time.Date(2024, 3, 9, 10, 15, 0, 0, time.UTC)

type fixture struct {
	tb      *fakeTB
	browser *browsertest.Browser
	store   *artifact.Store
	logs    *bytes.Buffer
	got     browser.Options
}

func newFixture(name string) *fixture {
	return &fixture{
		tb:      &fakeTB{name: name},
		browser: browsertest.NewBrowser(),
		store:   artifact.NewStore(afero.NewMemMapFs(), "reports"),
		logs:    &bytes.Buffer{},
	}
}

func (f *fixture) options() session.Options {
	return session.Options{
		Browser: browser.Options{Browser: browser.Firefox, Headless: true},
		BaseURL: "https://shop.example.com/",
		Policy:  wait.Policy{Timeout: 100 * time.Millisecond, PollInterval: 5 * time.Millisecond},
		Store:   f.store,
		Logger:  slog.New(slog.NewTextHandler(f.logs, nil)),
		Launch:  f.browser.Launcher(&f.got),
		Now:     func() time.Time { return failedAt },
	}
}

func TestStart_PassingTest(t *testing.T) {
	f := newFixture("TestLogin")
	s, err := session.Start(f.tb, f.options())
	require.NoError(t, err)

	assert.Equal(t, session.Running, s.State())
	assert.Equal(t, "TestLogin", s.Name())
	assert.NotEmpty(t, s.ID().String())
	assert.Equal(t, browser.Firefox, f.got.Browser)
	assert.True(t, f.got.Headless)
	require.NotNil(t, f.got.Events, "events are captured")
	require.Len(t, f.tb.cleanups, 1)

	f.tb.finish()

	assert.Equal(t, session.Closed, s.State())
	assert.Equal(t, 1, f.browser.Closes())
	screenshots, err := f.store.Screenshots()
	require.NoError(t, err)
	assert.Empty(t, screenshots)
	assert.Contains(t, f.logs.String(), "STARTING TEST: TestLogin")
	assert.Contains(t, f.logs.String(), "TEST PASSED: TestLogin")
}

func TestClose_ExactlyOnce(t *testing.T) {
	f := newFixture("TestCart")
	s, err := session.Start(f.tb, f.options())
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	f.tb.finish()

	assert.Equal(t, 1, f.browser.Closes())
	assert.Equal(t, session.Closed, s.State())
}

func TestClose_Error(t *testing.T) {
	f := newFixture("TestCart")
	f.browser.CloseErr = errors.New("process gone")
	s, err := session.Start(f.tb, f.options())
	require.NoError(t, err)

	err = s.Close()
	assert.ErrorContains(t, err, "closing browser: process gone")
	assert.Equal(t, err, s.Close())
	assert.Equal(t, session.Closed, s.State())
}

func TestTeardown_FailedTestCapturesArtifacts(t *testing.T) {
	f := newFixture("TestCheckout/guest")
	f.browser.FakePage.ScreenshotData = []byte("png-data")
	f.browser.FakePage.SetURL("https://shop.example.com/index.php?route=checkout/checkout")
	s, err := session.Start(f.tb, f.options())
	require.NoError(t, err)

	f.got.Events(browser.Event{Time: failedAt, Kind: browser.EventConsole, Level: "error", Text: "Uncaught TypeError"})
	f.got.Events(browser.Event{Time: failedAt, Kind: browser.EventResponse, Method: "POST", URL: "/checkout/confirm", Status: 500})
	s.Logger().Info("Clicked successfully", "locator", "id=button-confirm")

	f.tb.failed = true
	f.tb.finish()

	assert.Equal(t, 1, f.browser.Closes())

	png, err := f.store.ReadFile("screenshots/TestCheckout_guest_20240309_101500.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-data"), png)
	require.Len(t, f.tb.logs, 1)
	assert.Equal(t, "Screenshot saved: reports/screenshots/TestCheckout_guest_20240309_101500.png", f.tb.logs[0])

	data, err := f.store.ReadFile("diagnostics/TestCheckout_guest_20240309_101500.json")
	require.NoError(t, err)
	var diag session.Diagnostics
	require.NoError(t, json.Unmarshal(data, &diag))

	assert.Equal(t, s.ID().String(), diag.Session)
	assert.Equal(t, "TestCheckout/guest", diag.Test)
	assert.Equal(t, browser.Firefox, diag.Browser)
	assert.Equal(t, browser.EnginePlaywright, diag.Engine)
	assert.Equal(t, "https://shop.example.com/index.php?route=checkout/checkout", diag.URL)
	assert.Equal(t, "screenshots/TestCheckout_guest_20240309_101500.png", diag.Screenshot)
	assert.Equal(t, 1, diag.ConsoleErrors)
	assert.Equal(t, 1, diag.FailedResponses)
	assert.Len(t, diag.Events, 2)

	messages := make([]string, len(diag.Logs))
	for i, e := range diag.Logs {
		messages[i] = e.Message
	}
	assert.Contains(t, messages, "Clicked successfully")
	assert.Contains(t, f.logs.String(), "TEST FAILED: TestCheckout/guest")
}

func TestTeardown_ScreenshotErrorIsSwallowed(t *testing.T) {
	f := newFixture("TestSearch")
	f.browser.FakePage.ScreenshotErr = errors.New("target closed")
	_, err := session.Start(f.tb, f.options())
	require.NoError(t, err)

	f.tb.failed = true
	assert.NotPanics(t, f.tb.finish)

	assert.Equal(t, 1, f.browser.Closes())
	assert.Contains(t, f.logs.String(), "Capturing failure artifacts failed")
	assert.Contains(t, f.logs.String(), "target closed")

	screenshots, err := f.store.Screenshots()
	require.NoError(t, err)
	assert.Empty(t, screenshots)
	diagnostics, err := f.store.Diagnostics()
	require.NoError(t, err)
	assert.Len(t, diagnostics, 1, "diagnostics are still written")
}

func TestTeardown_ReadOnlyStore(t *testing.T) {
	f := newFixture("TestSearch")
	f.store = artifact.NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), "reports")
	_, err := session.Start(f.tb, f.options())
	require.NoError(t, err)

	f.tb.failed = true
	f.tb.finish()

	assert.Equal(t, 1, f.browser.Closes())
	assert.Contains(t, f.logs.String(), "saving diagnostics")
}

func TestCaptureFailure_WithoutStore(t *testing.T) {
	f := newFixture("TestSearch")
	opts := f.options()
	opts.Store = nil
	s, err := session.Start(f.tb, opts)
	require.NoError(t, err)

	assert.NoError(t, s.CaptureFailure())
	f.tb.failed = true
	f.tb.finish()
	assert.Equal(t, 1, f.browser.Closes())
}

func TestStart_LaunchFailure(t *testing.T) {
	f := newFixture("TestLogin")
	opts := f.options()
	opts.Launch = func(browser.Options) (browser.Browser, error) {
		return nil, errors.New("executable not found")
	}

	_, err := session.Start(f.tb, opts)
	require.ErrorIs(t, err, browser.ErrDriverCreation)
	var driverErr *browser.DriverError
	require.ErrorAs(t, err, &driverErr)
	assert.Equal(t, browser.Firefox, driverErr.Browser)
	assert.Equal(t, browser.EnginePlaywright, driverErr.Engine)
	assert.Empty(t, f.tb.cleanups, "nothing to tear down")
}

func TestStart_UnsupportedBrowser(t *testing.T) {
	f := newFixture("TestLogin")
	opts := f.options()
	opts.Browser.Browser = "safari"
	launched := false
	opts.Launch = func(browser.Options) (browser.Browser, error) {
		launched = true
		return nil, nil
	}

	_, err := session.Start(f.tb, opts)
	assert.ErrorIs(t, err, browser.ErrUnsupported)
	assert.NotErrorIs(t, err, browser.ErrDriverCreation)
	assert.False(t, launched)
}

func TestHome(t *testing.T) {
	f := newFixture("TestHome")
	s, err := session.Start(f.tb, f.options())
	require.NoError(t, err)
	defer f.tb.finish()

	_, err = s.Home()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://shop.example.com/"}, f.browser.FakePage.History())
	assert.Equal(t, "https://shop.example.com", s.Env().BaseURL)
}

func TestStart_WithTestingT(t *testing.T) {
	f := newFixture("")
	var s *session.Session
	t.Run("scenario", func(t *testing.T) {
		var err error
		s, err = session.Start(t, f.options())
		require.NoError(t, err)
		assert.Equal(t, "TestStart_WithTestingT/scenario", s.Name())
	})

	assert.Equal(t, session.Closed, s.State())
	assert.Equal(t, 1, f.browser.Closes())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", session.Uninitialized.String())
	assert.Equal(t, "running", session.Running.String())
	assert.Equal(t, "closed", session.Closed.String())
	assert.Equal(t, "State(7)", session.State(7).String())
}
