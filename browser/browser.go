// Package browser is the narrow driver surface the rest of shopcheck talks to.
// One Browser owns one browser process with a single Page.
package browser

import (
	"fmt"
	"strings"
	"time"
)

// Browser is a running browser process with one open page.
type Browser interface {
	Page() Page
	// Close terminates the browser process. It is safe to call once.
	Close() error
}

// Page is the currently open tab.
type Page interface {
	Goto(url string) error
	URL() (string, error)
	Title() (string, error)
	Back() error
	Reload() error
	// Find returns all elements currently matching loc without waiting.
	Find(loc Locator) ([]Element, error)
	// Evaluate runs a JavaScript function expression like "() => document.title".
	Evaluate(fn string) (any, error)
	Screenshot() ([]byte, error)
}

// Element is a handle to a single DOM element.
// Methods return an error matching ErrStale once the element is detached.
type Element interface {
	// Visible reports whether the element is rendered with a nonzero size.
	Visible() (bool, error)
	Enabled() (bool, error)
	Text() (string, error)
	// Attribute returns the attribute value or an empty string if it is not set.
	Attribute(name string) (string, error)
	ScrollIntoView() error
	// Click performs a native pointer click including hit testing.
	Click() error
	// DOMClick dispatches a click via element.click(), bypassing hit testing.
	DOMClick() error
	Clear() error
	Type(text string) error
	SelectByText(text string) error
	SelectByValue(value string) error
}

// Browser names.
const (
	Chrome  = "chrome"
	Firefox = "firefox"
)

// Engine names.
const (
	EnginePlaywright = "playwright"
	EngineRod        = "rod"
)

// Options configure a browser session.
type Options struct {
	// Browser is "chrome" or "firefox".
	Browser string
	// Engine is "playwright" (default) or "rod". Rod only drives Chrome.
	Engine   string
	Headless bool

	// Width and Height of the viewport. Default: 1920x1080.
	Width  int
	Height int

	// ImplicitWait bounds single driver actions like a native click.
	// Default: 10s
	ImplicitWait time.Duration
	// PageLoadTimeout bounds navigation. Default: 30s
	PageLoadTimeout time.Duration

	// Args are extra browser command line switches appended to the defaults.
	Args []string

	// Events receives console messages and network responses of the page.
	// It is called from driver goroutines. Default: nil
	Events func(Event)
}

func (o Options) withDefaults() Options {
	if o.Browser == "" {
		o.Browser = Chrome
	}
	if o.Engine == "" {
		o.Engine = EnginePlaywright
	}
	if o.Width == 0 {
		o.Width = 1920
	}
	if o.Height == 0 {
		o.Height = 1080
	}
	if o.ImplicitWait == 0 {
		o.ImplicitWait = 10 * time.Second
	}
	if o.PageLoadTimeout == 0 {
		o.PageLoadTimeout = 30 * time.Second
	}
	o.Browser = strings.ToLower(o.Browser)
	o.Engine = strings.ToLower(o.Engine)
	return o
}

// LaunchArgs returns the command line switches used for the configured browser.
func (o Options) LaunchArgs() []string {
	o = o.withDefaults()
	var args []string
	switch o.Browser {
	case Chrome:
		args = []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
			fmt.Sprintf("--window-size=%d,%d", o.Width, o.Height),
			"--disable-extensions",
		}
	case Firefox:
		args = []string{
			fmt.Sprintf("--width=%d", o.Width),
			fmt.Sprintf("--height=%d", o.Height),
		}
	}
	return append(args, o.Args...)
}

// Validate checks browser and engine names.
func (o Options) Validate() error {
	o = o.withDefaults()
	switch o.Browser {
	case Chrome, Firefox:
	default:
		return fmt.Errorf("%w: browser %q", ErrUnsupported, o.Browser)
	}
	switch o.Engine {
	case EnginePlaywright:
	case EngineRod:
		if o.Browser != Chrome {
			return fmt.Errorf("%w: engine %s cannot drive %s", ErrUnsupported, o.Engine, o.Browser)
		}
	default:
		return fmt.Errorf("%w: engine %q", ErrUnsupported, o.Engine)
	}
	return nil
}

// Launch starts a browser session.
// Invalid names fail with ErrUnsupported, engine failures with a *DriverError.
func Launch(opts Options) (Browser, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	var (
		b   Browser
		err error
	)
	switch opts.Engine {
	case EngineRod:
		b, err = launchRod(opts)
	default:
		b, err = launchPlaywright(opts)
	}
	if err != nil {
		return nil, &DriverError{Browser: opts.Browser, Engine: opts.Engine, Err: err}
	}
	return b, nil
}
