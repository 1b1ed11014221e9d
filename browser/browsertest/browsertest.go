// Package browsertest provides an in-memory browser for unit tests of waits,
// page objects and session handling.
package browsertest

import (
	"errors"
	"sync"

	"github.com/networkteam/shopcheck/browser"
)

// Browser is a fake browser.Browser with a single Page.
type Browser struct {
	FakePage *Page
	CloseErr error

	mu     sync.Mutex
	closes int
}

// NewBrowser returns a browser with an empty page at about:blank.
func NewBrowser() *Browser {
	return &Browser{FakePage: NewPage()}
}

func (b *Browser) Page() browser.Page { return b.FakePage }

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closes++
	return b.CloseErr
}

// Closes returns how often Close was called.
func (b *Browser) Closes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closes
}

// Launcher returns a launch function handing out b and recording the options.
func (b *Browser) Launcher(got *browser.Options) func(browser.Options) (browser.Browser, error) {
	return func(opts browser.Options) (browser.Browser, error) {
		if got != nil {
			*got = opts
		}
		return b, nil
	}
}

// Page is a scripted page. Elements are registered per locator.
type Page struct {
	mu       sync.Mutex
	url      string
	title    string
	elements map[browser.Locator][]*Element
	history  []string
	finds    map[browser.Locator]int

	// OnGoto is called after the URL changed, with the page lock released.
	OnGoto func(p *Page, url string)
	// Scripts maps Evaluate input to results. Unknown scripts return nil.
	Scripts map[string]any

	ScreenshotData []byte
	ScreenshotErr  error
	FindErr        error
}

func NewPage() *Page {
	return &Page{
		url:      "about:blank",
		elements: map[browser.Locator][]*Element{},
		finds:    map[browser.Locator]int{},
		Scripts:  map[string]any{`() => document.readyState`: "complete"},
	}
}

// Set replaces the elements matching loc.
func (p *Page) Set(loc browser.Locator, els ...*Element) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements[loc] = els
}

// Remove detaches all elements matching loc.
func (p *Page) Remove(loc browser.Locator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, el := range p.elements[loc] {
		el.detach()
	}
	delete(p.elements, loc)
}

// SetTitle sets the document title.
func (p *Page) SetTitle(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title = title
}

// SetURL changes the URL without calling OnGoto.
func (p *Page) SetURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
}

// History returns all URLs passed to Goto.
func (p *Page) History() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.history...)
}

// Finds returns how often loc was looked up.
func (p *Page) Finds(loc browser.Locator) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finds[loc]
}

func (p *Page) Goto(url string) error {
	p.mu.Lock()
	p.url = url
	p.history = append(p.history, url)
	onGoto := p.OnGoto
	p.mu.Unlock()

	if onGoto != nil {
		onGoto(p, url)
	}
	return nil
}

func (p *Page) URL() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url, nil
}

func (p *Page) Title() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title, nil
}

func (p *Page) Back() error {
	p.mu.Lock()
	if n := len(p.history); n > 1 {
		p.history = p.history[:n-1]
		p.url = p.history[n-2]
	}
	p.mu.Unlock()
	return nil
}

func (p *Page) Reload() error { return nil }

func (p *Page) Find(loc browser.Locator) ([]browser.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finds[loc]++
	if p.FindErr != nil {
		return nil, p.FindErr
	}
	if _, _, err := loc.Query(); err != nil {
		return nil, err
	}

	els := p.elements[loc]
	result := make([]browser.Element, 0, len(els))
	for _, el := range els {
		if el.hiddenFromDOM() {
			continue
		}
		result = append(result, el)
	}
	return result, nil
}

func (p *Page) Evaluate(fn string) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Scripts[fn], nil
}

func (p *Page) Screenshot() ([]byte, error) {
	if p.ScreenshotErr != nil {
		return nil, p.ScreenshotErr
	}
	if p.ScreenshotData == nil {
		return []byte("\x89PNG\r\n\x1a\n"), nil
	}
	return p.ScreenshotData, nil
}

// ErrDetached is wrapped by every error of a removed element.
var ErrDetached = errors.New("browsertest: element detached")

// Element is a scripted element. Zero value is a visible, enabled, empty element.
type Element struct {
	mu sync.Mutex

	TextContent string
	Attrs       map[string]string
	Hidden      bool
	Disabled    bool
	// AppearAfter hides the element from Find for the given number of lookups.
	AppearAfter int
	// VisibleAfter reports the element as invisible for the given number of Visible calls.
	VisibleAfter int

	// ClickErrs are returned by consecutive native clicks; once consumed, clicks succeed.
	ClickErrs []error
	// AlwaysClickErr fails every native click.
	AlwaysClickErr error
	DOMClickErr    error
	// OnClick is called after any successful click (native or DOM).
	OnClick func()

	Value    string
	Selected string

	detached  bool
	lookups   int
	visChecks int
	clicks    int
	domClicks int
	scrolls   int
}

// NewElement returns a visible element with the given text.
func NewElement(text string) *Element {
	return &Element{TextContent: text}
}

func (e *Element) hiddenFromDOM() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lookups < e.AppearAfter {
		e.lookups++
		return true
	}
	return false
}

func (e *Element) detach() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.detached = true
}

func (e *Element) check() error {
	if e.detached {
		return errors.Join(browser.ErrStale, ErrDetached)
	}
	return nil
}

func (e *Element) Visible() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.check(); err != nil {
		return false, err
	}
	if e.visChecks < e.VisibleAfter {
		e.visChecks++
		return false, nil
	}
	return !e.Hidden, nil
}

func (e *Element) Enabled() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.check(); err != nil {
		return false, err
	}
	return !e.Disabled, nil
}

func (e *Element) Text() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.check(); err != nil {
		return "", err
	}
	if e.Hidden {
		return "", nil
	}
	return e.TextContent, nil
}

func (e *Element) Attribute(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.check(); err != nil {
		return "", err
	}
	if name == "value" && e.Value != "" {
		return e.Value, nil
	}
	return e.Attrs[name], nil
}

func (e *Element) ScrollIntoView() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.check(); err != nil {
		return err
	}
	e.scrolls++
	return nil
}

func (e *Element) Click() error {
	e.mu.Lock()
	if err := e.check(); err != nil {
		e.mu.Unlock()
		return err
	}
	e.clicks++
	if e.AlwaysClickErr != nil {
		e.mu.Unlock()
		return e.AlwaysClickErr
	}
	if len(e.ClickErrs) > 0 {
		err := e.ClickErrs[0]
		e.ClickErrs = e.ClickErrs[1:]
		if err != nil {
			e.mu.Unlock()
			return err
		}
	}
	onClick := e.OnClick
	e.mu.Unlock()

	if onClick != nil {
		onClick()
	}
	return nil
}

func (e *Element) DOMClick() error {
	e.mu.Lock()
	if err := e.check(); err != nil {
		e.mu.Unlock()
		return err
	}
	e.domClicks++
	if e.DOMClickErr != nil {
		e.mu.Unlock()
		return e.DOMClickErr
	}
	onClick := e.OnClick
	e.mu.Unlock()

	if onClick != nil {
		onClick()
	}
	return nil
}

func (e *Element) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.check(); err != nil {
		return err
	}
	e.Value = ""
	return nil
}

func (e *Element) Type(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.check(); err != nil {
		return err
	}
	e.Value += text
	return nil
}

func (e *Element) SelectByText(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.check(); err != nil {
		return err
	}
	e.Selected = text
	return nil
}

func (e *Element) SelectByValue(value string) error {
	return e.SelectByText(value)
}

// Clicks returns the number of native click attempts.
func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

// DOMClicks returns the number of DOM click attempts.
func (e *Element) DOMClicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.domClicks
}

// Scrolls returns the number of ScrollIntoView calls.
func (e *Element) Scrolls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scrolls
}

// CurrentValue returns the typed value.
func (e *Element) CurrentValue() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Value
}

// Texts builds visible elements with the given texts.
func Texts(texts ...string) []*Element {
	els := make([]*Element, len(texts))
	for i, t := range texts {
		els[i] = NewElement(t)
	}
	return els
}
