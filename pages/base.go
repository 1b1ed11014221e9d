// Package pages models the storefront as page objects.
//
// Every page embeds BasePage. Actions that lead to another page return a newly
// constructed page object for it. Whether the browser actually shows that page is
// not checked; callers assert it with IsPageLoaded or Loaded where it matters.
package pages

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/networkteam/shopcheck/browser"
	"github.com/networkteam/shopcheck/wait"
)

// Short timeouts for optional elements.
const (
	defaultPresenceTimeout = 5 * time.Second
	pageLoadedTimeout      = 10 * time.Second
	loginCheckTimeout      = 3 * time.Second
)

// ErrNotLoaded is returned by Loaded if a page does not show its identifying elements.
var ErrNotLoaded = errors.New("page not loaded")

// Env is everything a page object needs to drive one session.
type Env struct {
	Page    browser.Page
	Wait    *wait.Helper
	BaseURL string
	Logger  *slog.Logger
}

// NewEnv builds an Env for page with the given wait policy.
func NewEnv(page browser.Page, baseURL string, policy wait.Policy, logger *slog.Logger) Env {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Env{
		Page:    page,
		Wait:    wait.New(page, policy, logger),
		BaseURL: strings.TrimRight(baseURL, "/"),
		Logger:  logger,
	}
}

// Loadable is implemented by every page object.
type Loadable interface {
	IsPageLoaded() bool
}

// Loaded passes p through if it is loaded. It is meant to wrap navigation results:
//
//	cart, err := pages.Loaded(home.GoToShoppingCart())
func Loaded[T Loadable](p T, err error) (T, error) {
	if err != nil {
		return p, err
	}
	if !p.IsPageLoaded() {
		return p, fmt.Errorf("%w: %T", ErrNotLoaded, p)
	}
	return p, nil
}

// BasePage implements the interactions shared by all pages.
type BasePage struct {
	Env
}

// NavigateTo opens path relative to the base URL. Absolute URLs are opened as is.
func (p *BasePage) NavigateTo(path string) error {
	url := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		url = p.BaseURL + "/" + strings.TrimLeft(path, "/")
	}
	p.Logger.Info("Navigating", "url", url)
	if err := p.Page.Goto(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

func (p *BasePage) CurrentURL() (string, error) {
	return p.Page.URL()
}

func (p *BasePage) Title() (string, error) {
	return p.Page.Title()
}

// capped limits d to the explicit wait of the session.
func (p *BasePage) capped(d time.Duration) wait.Option {
	return wait.WithTimeout(min(d, p.Wait.Policy().Timeout))
}

// IsElementPresent reports whether loc appears within timeout.
// Timeouts longer than the explicit wait are capped.
func (p *BasePage) IsElementPresent(loc browser.Locator, timeout time.Duration) bool {
	_, err := p.Wait.Present(loc, p.capped(timeout))
	return err == nil
}

// IsElementVisible reports whether loc becomes visible within timeout.
// Timeouts longer than the explicit wait are capped.
func (p *BasePage) IsElementVisible(loc browser.Locator, timeout time.Duration) bool {
	_, err := p.Wait.Visible(loc, p.capped(timeout))
	return err == nil
}

func (p *BasePage) Click(loc browser.Locator) error {
	return p.Wait.SafeClick(loc)
}

func (p *BasePage) Fill(loc browser.Locator, text string) error {
	return p.Wait.SafeFill(loc, text)
}

func (p *BasePage) TextOf(loc browser.Locator) (string, error) {
	return p.Wait.GetText(loc)
}

// AttributeOf waits for loc to be present and returns the named attribute.
func (p *BasePage) AttributeOf(loc browser.Locator, name string) (string, error) {
	el, err := p.Wait.Present(loc)
	if err != nil {
		return "", err
	}
	return el.Attribute(name)
}

func (p *BasePage) SelectByText(loc browser.Locator, text string) error {
	el, err := p.Wait.Visible(loc)
	if err != nil {
		return err
	}
	if err := el.SelectByText(text); err != nil {
		return fmt.Errorf("selecting %q in %s: %w", text, loc, err)
	}
	p.Logger.Debug("Selected dropdown option", "locator", loc.String(), "option", text)
	return nil
}

func (p *BasePage) SelectByValue(loc browser.Locator, value string) error {
	el, err := p.Wait.Visible(loc)
	if err != nil {
		return err
	}
	if err := el.SelectByValue(value); err != nil {
		return fmt.Errorf("selecting value %q in %s: %w", value, loc, err)
	}
	return nil
}

// WaitForPageLoad waits for document.readyState to become complete.
// A page that keeps loading is logged, not treated as an error.
func (p *BasePage) WaitForPageLoad() {
	if err := p.Wait.PageReady(wait.WithTimeout(30 * time.Second)); err != nil {
		p.Logger.Warn("Page did not load completely", "error", err)
	}
}

func (p *BasePage) ScrollToBottom() error {
	_, err := p.Page.Evaluate(`() => window.scrollTo(0, document.body.scrollHeight)`)
	return err
}

func (p *BasePage) ScrollToTop() error {
	_, err := p.Page.Evaluate(`() => window.scrollTo(0, 0)`)
	return err
}

func (p *BasePage) Refresh() error {
	p.Logger.Info("Refreshing page")
	if err := p.Page.Reload(); err != nil {
		return err
	}
	p.WaitForPageLoad()
	return nil
}

func (p *BasePage) Back() error {
	return p.Page.Back()
}

// count returns the number of elements currently matching loc.
func (p *BasePage) count(loc browser.Locator) int {
	els, err := p.Wait.All(loc)
	if err != nil {
		p.Logger.Warn("Counting elements failed", "locator", loc.String(), "error", err)
		return 0
	}
	return len(els)
}

// texts returns the trimmed texts of all elements currently matching loc.
func (p *BasePage) texts(loc browser.Locator) ([]string, error) {
	els, err := p.Wait.All(loc)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			return nil, fmt.Errorf("reading text of %s: %w", loc, err)
		}
		texts = append(texts, strings.TrimSpace(text))
	}
	return texts, nil
}

// clickNth clicks the i-th element matching loc natively, falling back to a DOM click.
func (p *BasePage) clickNth(loc browser.Locator, i int) error {
	els, err := p.Wait.All(loc)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(els) {
		return fmt.Errorf("%s has %d elements, no index %d", loc, len(els), i)
	}
	el := els[i]
	if err := el.Click(); err != nil {
		if !browser.IsTransient(err) {
			return err
		}
		p.Logger.Warn("Click failed, trying DOM click", "locator", loc.String(), "index", i, "error", err)
		return el.DOMClick()
	}
	return nil
}

// ContainsFold reports whether s contains any of subs, ignoring case.
func ContainsFold(s string, subs ...string) bool {
	s = strings.ToLower(s)
	return lo.SomeBy(subs, func(sub string) bool {
		return strings.Contains(s, strings.ToLower(sub))
	})
}

// optionalText returns the text of loc if it becomes visible within timeout, otherwise "".
func (p *BasePage) optionalText(loc browser.Locator, timeout time.Duration) string {
	if !p.IsElementVisible(loc, timeout) {
		return ""
	}
	text, err := p.Wait.GetText(loc, p.capped(timeout))
	if err != nil {
		return ""
	}
	return text
}
