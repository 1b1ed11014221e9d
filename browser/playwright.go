package browser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

type playwrightBrowser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    *playwrightPage
}

func launchPlaywright(opts Options) (*playwrightBrowser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browserType := pw.Chromium
	if opts.Browser == Firefox {
		browserType = pw.Firefox
	}

	b, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     opts.LaunchArgs(),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launching %s: %w", opts.Browser, err)
	}

	ctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: opts.Width, Height: opts.Height},
	})
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("creating browser context: %w", err)
	}
	ctx.SetDefaultTimeout(float64(opts.ImplicitWait.Milliseconds()))
	ctx.SetDefaultNavigationTimeout(float64(opts.PageLoadTimeout.Milliseconds()))

	page, err := ctx.NewPage()
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	if opts.Events != nil {
		sink := opts.Events
		page.OnConsole(func(msg playwright.ConsoleMessage) {
			emit(sink, Event{Kind: EventConsole, Level: msg.Type(), Text: msg.Text()})
		})
		page.OnResponse(func(res playwright.Response) {
			emit(sink, Event{Kind: EventResponse, Method: res.Request().Method(), URL: res.URL(), Status: res.Status()})
		})
	}

	return &playwrightBrowser{
		pw:      pw,
		browser: b,
		context: ctx,
		page:    &playwrightPage{page: page, actionTimeout: float64(opts.ImplicitWait.Milliseconds())},
	}, nil
}

func (b *playwrightBrowser) Page() Page { return b.page }

func (b *playwrightBrowser) Close() error {
	return errors.Join(b.context.Close(), b.browser.Close(), b.pw.Stop())
}

type playwrightPage struct {
	page          playwright.Page
	actionTimeout float64
}

func (p *playwrightPage) Goto(url string) error {
	_, err := p.page.Goto(url)
	return err
}

func (p *playwrightPage) URL() (string, error) { return p.page.URL(), nil }

func (p *playwrightPage) Title() (string, error) { return p.page.Title() }

func (p *playwrightPage) Back() error {
	_, err := p.page.GoBack()
	return err
}

func (p *playwrightPage) Reload() error {
	_, err := p.page.Reload()
	return err
}

func (p *playwrightPage) Find(loc Locator) ([]Element, error) {
	expr, xpath, err := loc.Query()
	if err != nil {
		return nil, err
	}
	selector := "css=" + expr
	if xpath {
		selector = "xpath=" + expr
	}

	handles, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, classifyPlaywright(err)
	}
	elements := make([]Element, len(handles))
	for i, h := range handles {
		elements[i] = &playwrightElement{handle: h, actionTimeout: p.actionTimeout}
	}
	return elements, nil
}

func (p *playwrightPage) Evaluate(fn string) (any, error) { return p.page.Evaluate(fn) }

func (p *playwrightPage) Screenshot() ([]byte, error) {
	return p.page.Screenshot(playwright.PageScreenshotOptions{FullPage: playwright.Bool(true)})
}

type playwrightElement struct {
	handle        playwright.ElementHandle
	actionTimeout float64
}

func (e *playwrightElement) Visible() (bool, error) {
	v, err := e.handle.IsVisible()
	return v, classifyPlaywright(err)
}

func (e *playwrightElement) Enabled() (bool, error) {
	v, err := e.handle.IsEnabled()
	return v, classifyPlaywright(err)
}

func (e *playwrightElement) Text() (string, error) {
	v, err := e.handle.InnerText()
	return v, classifyPlaywright(err)
}

func (e *playwrightElement) Attribute(name string) (string, error) {
	v, err := e.handle.GetAttribute(name)
	return v, classifyPlaywright(err)
}

func (e *playwrightElement) ScrollIntoView() error {
	return classifyPlaywright(e.handle.ScrollIntoViewIfNeeded())
}

func (e *playwrightElement) Click() error {
	return classifyPlaywright(e.handle.Click(playwright.ElementHandleClickOptions{
		Timeout: playwright.Float(e.actionTimeout),
	}))
}

func (e *playwrightElement) DOMClick() error {
	_, err := e.handle.Evaluate("el => el.click()")
	return classifyPlaywright(err)
}

func (e *playwrightElement) Clear() error {
	return classifyPlaywright(e.handle.Fill(""))
}

func (e *playwrightElement) Type(text string) error {
	return classifyPlaywright(e.handle.Type(text))
}

func (e *playwrightElement) SelectByText(text string) error {
	_, err := e.handle.SelectOption(playwright.SelectOptionValues{Labels: playwright.StringSlice(text)})
	return classifyPlaywright(err)
}

func (e *playwrightElement) SelectByValue(value string) error {
	_, err := e.handle.SelectOption(playwright.SelectOptionValues{Values: playwright.StringSlice(value)})
	return classifyPlaywright(err)
}

// classifyPlaywright maps playwright failures onto the package error kinds.
// Playwright reports these conditions only through message text.
func classifyPlaywright(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not attached to the DOM"), strings.Contains(msg, "Element is not attached"),
		strings.Contains(msg, "JSHandle is disposed"), strings.Contains(msg, "Execution context was destroyed"):
		return classified(ErrStale, err)
	case strings.Contains(msg, "intercepts pointer events"):
		return classified(ErrIntercepted, err)
	case strings.Contains(msg, "element is not visible"), strings.Contains(msg, "element is not enabled"),
		strings.Contains(msg, "element is outside of the viewport"):
		return classified(ErrNotInteractable, err)
	case errors.Is(err, playwright.ErrTimeout):
		return classified(ErrNotInteractable, err)
	}
	return err
}
