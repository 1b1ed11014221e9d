package shopcheck_test

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/shopcheck"
	"github.com/networkteam/shopcheck/browser"
	"github.com/networkteam/shopcheck/browser/browsertest"
	"github.com/networkteam/shopcheck/config"
	"github.com/networkteam/shopcheck/session"
)

var runDay = time.Date(2024, 3, 9, 10, 15, 0, 0, time.UTC)

const usersJSON = `{
  "valid_user": {"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com", "telephone": "123", "password": "secret"},
  "invalid_user": {"email": "nobody@example.com", "password": "wrong"},
  "guest_user": {"first_name": "Guest", "last_name": "User", "email": "guest@example.com"}
}`

const productsJSON = `{"search_terms": {"valid": ["MacBook"], "invalid": ["nothing-like-this"]}}`

func suiteFs(t *testing.T, conf string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"data/test_users.json": usersJSON,
		"data/products.json":   productsJSON,
	}
	if conf != "" {
		files[config.DefaultFile] = conf
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func noEnv(string) (string, bool) { return "", false }

// fakeTB records cleanups so a test can fail a session without failing itself.
type fakeTB struct {
	name     string
	failed   bool
	cleanups []func()
}

var _ session.TB = (*fakeTB)(nil)

func (f *fakeTB) Helper()             {}
func (f *fakeTB) Name() string        { return f.name }
func (f *fakeTB) Failed() bool        { return f.failed }
func (f *fakeTB) Cleanup(fn func())   { f.cleanups = append(f.cleanups, fn) }
func (f *fakeTB) Logf(string, ...any) {}

func (f *fakeTB) finish() {
	for i := len(f.cleanups) - 1; i >= 0; i-- {
		f.cleanups[i]()
	}
}

func TestSuite_DemoStore(t *testing.T) {
	fs := suiteFs(t, `{"base_url": "demo", "explicit_wait": 1}`)
	fake := browsertest.NewBrowser()
	var launched browser.Options

	suite, err := shopcheck.New(shopcheck.Options{
		Fs:      fs,
		Lookup:  noEnv,
		Console: &bytes.Buffer{},
		Launch:  fake.Launcher(&launched),
		Now:     func() time.Time { return runDay },
	})
	require.NoError(t, err)

	require.NotNil(t, suite.Demo())
	assert.Contains(t, suite.BaseURL(), "http://127.0.0.1")
	assert.Equal(t, "MacBook", suite.Data().ValidTerm(0))

	resp, err := http.Get(suite.BaseURL() + "/")
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, doc.Find(`#search input[name="search"]`).Length())

	// The valid user of the test data can log in to the demo store.
	customer, ok := suite.Demo().Customer("ada@example.com")
	require.True(t, ok)
	assert.Equal(t, "Lovelace", customer.LastName)

	t.Run("session", func(t *testing.T) {
		s, err := suite.Start(t)
		require.NoError(t, err)
		assert.Equal(t, session.Running, s.State())
		assert.Equal(t, suite.BaseURL(), s.Env().BaseURL)
		assert.Equal(t, time.Second, s.Env().Wait.Policy().Timeout)
	})
	assert.Equal(t, 1, fake.Closes())
	assert.Equal(t, browser.Chrome, launched.Browser)

	require.NoError(t, suite.Close())

	exists, err := afero.Exists(fs, "reports/logs/test_20240309.log")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = afero.Exists(fs, "reports/report.html")
	require.NoError(t, err)
	assert.False(t, exists, "no report without failures")
}

func TestSuite_FailureReport(t *testing.T) {
	fs := suiteFs(t, "")
	fake := browsertest.NewBrowser()

	suite, err := shopcheck.New(shopcheck.Options{
		Fs:      fs,
		Lookup:  noEnv,
		Console: &bytes.Buffer{},
		Launch:  fake.Launcher(nil),
		Now:     func() time.Time { return runDay },
	})
	require.NoError(t, err)
	assert.Nil(t, suite.Demo())
	assert.Equal(t, "https://demo.opencart.com", suite.BaseURL())

	tb := &fakeTB{name: "TestCart/remove item", failed: true}
	_, err = suite.Start(tb)
	require.NoError(t, err)
	tb.finish()
	assert.Equal(t, 1, fake.Closes())

	require.NoError(t, suite.Close())

	for _, p := range []string{
		"reports/screenshots/TestCart_remove_item_20240309_101500.png",
		"reports/diagnostics/TestCart_remove_item_20240309_101500.json",
		"reports/report.html",
	} {
		exists, err := afero.Exists(fs, p)
		require.NoError(t, err)
		assert.True(t, exists, p)
	}
}

func TestSuite_Flags(t *testing.T) {
	flags := config.NewFlags()
	require.NoError(t, flags.Parse([]string{"--browser", "firefox", "--headless", "--base-url", "http://shop.test", "--reports", "out"}))

	suite, err := shopcheck.New(shopcheck.Options{
		Fs:      suiteFs(t, `{"base_url": "demo"}`),
		Flags:   flags,
		Lookup:  noEnv,
		Console: &bytes.Buffer{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = suite.Close() })

	assert.Nil(t, suite.Demo(), "flags override the config file")
	assert.Equal(t, "http://shop.test", suite.BaseURL())
	assert.Equal(t, "out", suite.Store().Dir())

	opts := suite.SessionOptions()
	assert.Equal(t, browser.Firefox, opts.Browser.Browser)
	assert.True(t, opts.Browser.Headless)
}

func TestSuite_MissingTestData(t *testing.T) {
	_, err := shopcheck.New(shopcheck.Options{
		Fs:      afero.NewMemMapFs(),
		Lookup:  noEnv,
		Console: &bytes.Buffer{},
	})
	assert.ErrorContains(t, err, "reading test data")
}

func TestSuite_UnsupportedBrowser(t *testing.T) {
	_, err := shopcheck.New(shopcheck.Options{
		Fs:      suiteFs(t, ""),
		Lookup:  func(key string) (string, bool) { return "safari", key == "SHOPCHECK_BROWSER" },
		Console: &bytes.Buffer{},
	})
	assert.ErrorIs(t, err, browser.ErrUnsupported)
}

func TestSuite_ReportOnlyForFailingRun(t *testing.T) {
	fs := suiteFs(t, "")
	newSuite := func() (*shopcheck.Suite, *bytes.Buffer) {
		console := &bytes.Buffer{}
		suite, err := shopcheck.New(shopcheck.Options{
			Fs:      fs,
			Lookup:  noEnv,
			Console: console,
			Launch:  browsertest.NewBrowser().Launcher(nil),
			Now:     func() time.Time { return runDay },
		})
		require.NoError(t, err)
		return suite, console
	}

	failing, _ := newSuite()
	tb := &fakeTB{name: "TestCheckout/guest", failed: true}
	_, err := failing.Start(tb)
	require.NoError(t, err)
	tb.finish()
	assert.Equal(t, 1, failing.Failures())
	require.NoError(t, failing.Close())
	require.NoError(t, fs.Remove("reports/report.html"))

	passing, console := newSuite()
	tb = &fakeTB{name: "TestSearch"}
	_, err = passing.Start(tb)
	require.NoError(t, err)
	tb.finish()
	assert.Zero(t, passing.Failures())
	require.NoError(t, passing.Close())

	exists, err := afero.Exists(fs, "reports/report.html")
	require.NoError(t, err)
	assert.False(t, exists, "a passing run does not report failures of earlier runs")
	assert.NotContains(t, console.String(), "Failure report written")

	exists, err = afero.Exists(fs, "reports/diagnostics/TestCheckout_guest_20240309_101500.json")
	require.NoError(t, err)
	assert.True(t, exists, "artifacts of earlier runs are kept")
}
