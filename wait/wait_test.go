package wait_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/networkteam/shopcheck/browser"
	"github.com/networkteam/shopcheck/browser/browsertest"
	"github.com/networkteam/shopcheck/wait"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	logo   = browser.ByCSS("#logo a")
	button = browser.ByID("button-cart")
	search = browser.ByName("search")
)

func fastPolicy() wait.Policy {
	return wait.Policy{
		Timeout:       200 * time.Millisecond,
		PollInterval:  5 * time.Millisecond,
		ClickRetries:  3,
		ScrollPause:   0,
		StalePause:    time.Millisecond,
		FallbackPause: time.Millisecond,
	}
}

func newHelper(t *testing.T) (*browsertest.Page, *wait.Helper) {
	t.Helper()
	page := browsertest.NewPage()
	return page, wait.New(page, fastPolicy(), nil)
}

func TestDefaultPolicy(t *testing.T) {
	p := wait.DefaultPolicy()
	assert.Equal(t, 20*time.Second, p.Timeout)
	assert.Equal(t, 500*time.Millisecond, p.PollInterval)
	assert.Equal(t, 3, p.ClickRetries)
	assert.Equal(t, 500*time.Millisecond, p.ScrollPause)
	assert.Equal(t, 500*time.Millisecond, p.StalePause)
	assert.Equal(t, time.Second, p.FallbackPause)

	h := wait.New(browsertest.NewPage(), wait.Policy{}, nil)
	assert.Equal(t, p, h.Policy())
}

func TestVisible_ElementAppearsLater(t *testing.T) {
	page, h := newHelper(t)
	el := &browsertest.Element{TextContent: "Your Store", AppearAfter: 2, VisibleAfter: 2}
	page.Set(logo, el)

	got, err := h.Visible(logo)
	require.NoError(t, err)
	assert.Same(t, el, got)
	assert.GreaterOrEqual(t, page.Finds(logo), 5)
}

func TestVisible_Timeout(t *testing.T) {
	page, h := newHelper(t)
	page.Set(logo, &browsertest.Element{Hidden: true})

	start := time.Now()
	_, err := h.Visible(logo, wait.WithTimeout(50*time.Millisecond))
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, wait.ErrTimeout)

	var te *wait.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, logo.String(), te.Locator)
	assert.Equal(t, 50*time.Millisecond, te.Timeout)
	assert.Less(t, elapsed, 50*time.Millisecond+100*time.Millisecond)
}

func TestPresent_IgnoresVisibility(t *testing.T) {
	page, h := newHelper(t)
	page.Set(logo, &browsertest.Element{Hidden: true})

	_, err := h.Present(logo)
	assert.NoError(t, err)
}

func TestPresent_FatalFindErrorIsNotATimeout(t *testing.T) {
	page, h := newHelper(t)
	page.FindErr = errors.New("browser crashed")

	_, err := h.Present(logo)
	require.Error(t, err)
	assert.NotErrorIs(t, err, wait.ErrTimeout)
	assert.Contains(t, err.Error(), "browser crashed")
}

func TestPresent_StaleIsRetried(t *testing.T) {
	page, h := newHelper(t)
	page.FindErr = browser.ErrStale

	_, err := h.Present(logo, wait.WithTimeout(20*time.Millisecond))
	assert.ErrorIs(t, err, wait.ErrTimeout)
	assert.ErrorIs(t, err, browser.ErrStale)
}

func TestClickable_RequiresEnabled(t *testing.T) {
	page, h := newHelper(t)
	page.Set(button, &browsertest.Element{Disabled: true})

	_, err := h.Clickable(button, wait.WithTimeout(20*time.Millisecond))
	assert.ErrorIs(t, err, wait.ErrTimeout)
}

func TestText(t *testing.T) {
	page, h := newHelper(t)
	page.Set(logo, browsertest.NewElement("Success: You have added MacBook"))

	ok, err := h.Text(logo, "MacBook")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Text(logo, "iPhone", wait.WithTimeout(20*time.Millisecond))
	assert.False(t, ok)
	assert.ErrorIs(t, err, wait.ErrTimeout)
}

func TestURLContains(t *testing.T) {
	page, h := newHelper(t)
	page.SetURL("https://demo.opencart.com/index.php?route=checkout/cart")

	ok, err := h.URLContains("checkout/cart")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.URLContains("account/login", wait.WithTimeout(20*time.Millisecond))
	assert.False(t, ok)

	var te *wait.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Empty(t, te.Locator)
}

func TestAbsent(t *testing.T) {
	page, h := newHelper(t)
	page.Set(logo, browsertest.NewElement(""))

	ok, err := h.Absent(logo, wait.WithTimeout(20*time.Millisecond))
	assert.False(t, ok)
	assert.ErrorIs(t, err, wait.ErrTimeout)

	page.Remove(logo)
	ok, err = h.Absent(logo)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPageReady(t *testing.T) {
	page, h := newHelper(t)
	assert.NoError(t, h.PageReady())

	page.Scripts[`() => document.readyState`] = "loading"
	assert.ErrorIs(t, h.PageReady(wait.WithTimeout(20*time.Millisecond)), wait.ErrTimeout)
}

func TestSafeFill(t *testing.T) {
	page, h := newHelper(t)
	el := &browsertest.Element{Value: "old"}
	page.Set(search, el)

	require.NoError(t, h.SafeFill(search, "MacBook"))
	assert.Equal(t, "MacBook", el.CurrentValue())

	require.NoError(t, h.SafeFill(search, " Pro", wait.WithoutClear()))
	assert.Equal(t, "MacBook Pro", el.CurrentValue())
}

func TestGetText_Trims(t *testing.T) {
	page, h := newHelper(t)
	page.Set(logo, browsertest.NewElement("  $602.00 \n"))

	text, err := h.GetText(logo)
	require.NoError(t, err)
	assert.Equal(t, "$602.00", text)
}

func TestGetText_Timeout(t *testing.T) {
	_, h := newHelper(t)

	_, err := h.GetText(logo, wait.WithTimeout(10*time.Millisecond))
	assert.ErrorIs(t, err, wait.ErrTimeout)
}

func TestAll_DoesNotWait(t *testing.T) {
	page, h := newHelper(t)
	page.Set(logo, browsertest.Texts("a", "b", "c")...)

	els, err := h.All(logo)
	require.NoError(t, err)
	assert.Len(t, els, 3)
	assert.Equal(t, 1, page.Finds(logo))
}
