package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/samber/lo"
)

type rodBrowser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rodPage
}

func launchRod(opts Options) (*rodBrowser, error) {
	l := launcher.New().
		Headless(opts.Headless).
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("disable-extensions").
		Set("window-size", fmt.Sprintf("%d,%d", opts.Width, opts.Height))

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch Chrome: %w", err)
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to Chrome: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	if opts.Events != nil {
		go watchRodEvents(page, opts.Events)
	}

	return &rodBrowser{
		launcher: l,
		browser:  b,
		page: &rodPage{
			page:            page,
			actionTimeout:   opts.ImplicitWait,
			pageLoadTimeout: opts.PageLoadTimeout,
		},
	}, nil
}

func watchRodEvents(page *rod.Page, sink func(Event)) {
	methods := map[proto.NetworkRequestID]string{}
	wait := page.EachEvent(
		func(e *proto.RuntimeConsoleAPICalled) {
			text := strings.Join(lo.Map(e.Args, func(arg *proto.RuntimeRemoteObject, _ int) string {
				if arg.Description != "" {
					return arg.Description
				}
				return arg.Value.String()
			}), " ")
			emit(sink, Event{Kind: EventConsole, Level: string(e.Type), Text: text})
		},
		func(e *proto.NetworkRequestWillBeSent) {
			methods[e.RequestID] = e.Request.Method
		},
		func(e *proto.NetworkResponseReceived) {
			method := methods[e.RequestID]
			delete(methods, e.RequestID)
			emit(sink, Event{Kind: EventResponse, Method: method, URL: e.Response.URL, Status: e.Response.Status})
		},
	)
	wait()
}

func (b *rodBrowser) Page() Page { return b.page }

func (b *rodBrowser) Close() error {
	err := b.browser.Close()
	b.launcher.Cleanup()
	return err
}

type rodPage struct {
	page            *rod.Page
	actionTimeout   time.Duration
	pageLoadTimeout time.Duration
}

func (p *rodPage) Goto(url string) error {
	page := p.page.Timeout(p.pageLoadTimeout)
	defer page.CancelTimeout()
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (p *rodPage) URL() (string, error) {
	info, err := p.page.Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (p *rodPage) Title() (string, error) {
	info, err := p.page.Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func (p *rodPage) Back() error {
	if err := p.page.NavigateBack(); err != nil {
		return err
	}
	return p.page.Timeout(p.pageLoadTimeout).WaitLoad()
}

func (p *rodPage) Reload() error {
	if err := p.page.Reload(); err != nil {
		return err
	}
	return p.page.Timeout(p.pageLoadTimeout).WaitLoad()
}

func (p *rodPage) Find(loc Locator) ([]Element, error) {
	expr, xpath, err := loc.Query()
	if err != nil {
		return nil, err
	}

	var found rod.Elements
	if xpath {
		found, err = p.page.ElementsX(expr)
	} else {
		found, err = p.page.Elements(expr)
	}
	if err != nil {
		return nil, classifyRod(err)
	}
	elements := make([]Element, len(found))
	for i, el := range found {
		elements[i] = &rodElement{el: el, actionTimeout: p.actionTimeout}
	}
	return elements, nil
}

func (p *rodPage) Evaluate(fn string) (any, error) {
	res, err := p.page.Eval(fn)
	if err != nil {
		return nil, err
	}
	return res.Value.Val(), nil
}

func (p *rodPage) Screenshot() ([]byte, error) {
	return p.page.Screenshot(true, &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng})
}

type rodElement struct {
	el            *rod.Element
	actionTimeout time.Duration
}

func (e *rodElement) Visible() (bool, error) {
	v, err := e.el.Visible()
	return v, classifyRod(err)
}

func (e *rodElement) Enabled() (bool, error) {
	disabled, err := e.el.Property("disabled")
	if err != nil {
		return false, classifyRod(err)
	}
	return !disabled.Bool(), nil
}

func (e *rodElement) Text() (string, error) {
	v, err := e.el.Text()
	return v, classifyRod(err)
}

func (e *rodElement) Attribute(name string) (string, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", classifyRod(err)
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

func (e *rodElement) ScrollIntoView() error {
	return classifyRod(e.el.ScrollIntoView())
}

// timed runs an action bounded by the implicit wait. Input and Select wait for the
// element to become enabled and writable, which never happens for disabled fields.
func (e *rodElement) timed(action func(el *rod.Element) error) error {
	el := e.el.Timeout(e.actionTimeout)
	defer el.CancelTimeout()
	return classifyRod(action(el))
}

func (e *rodElement) Click() error {
	return e.timed(func(el *rod.Element) error {
		return el.Click(proto.InputMouseButtonLeft, 1)
	})
}

func (e *rodElement) DOMClick() error {
	_, err := e.el.Eval(`function() { this.click() }`)
	return classifyRod(err)
}

func (e *rodElement) Clear() error {
	return e.timed(func(el *rod.Element) error {
		if err := el.SelectAllText(); err != nil {
			return err
		}
		return el.Input("")
	})
}

func (e *rodElement) Type(text string) error {
	return e.timed(func(el *rod.Element) error {
		return el.Input(text)
	})
}

func (e *rodElement) SelectByText(text string) error {
	return e.timed(func(el *rod.Element) error {
		return el.Select([]string{text}, true, rod.SelectorTypeText)
	})
}

func (e *rodElement) SelectByValue(value string) error {
	sel := fmt.Sprintf(`option[value=%s]`, cssString(value))
	return e.timed(func(el *rod.Element) error {
		return el.Select([]string{sel}, true, rod.SelectorTypeCSSSector)
	})
}

func classifyRod(err error) error {
	if err == nil {
		return nil
	}

	var (
		covered        *rod.CoveredError
		noPointer      *rod.NoPointerEventsError
		invisibleShape *rod.InvisibleShapeError
		notInteract    *rod.NotInteractableError
	)
	switch {
	case errors.As(err, &covered), errors.As(err, &noPointer):
		return classified(ErrIntercepted, err)
	case errors.As(err, &invisibleShape), errors.As(err, &notInteract):
		return classified(ErrNotInteractable, err)
	case errors.Is(err, context.DeadlineExceeded):
		return classified(ErrNotInteractable, err)
	}

	msg := err.Error()
	if strings.Contains(msg, "Could not find node") ||
		strings.Contains(msg, "does not belong to the document") ||
		strings.Contains(msg, "Cannot find context with specified id") ||
		strings.Contains(msg, "Node is detached") {
		return classified(ErrStale, err)
	}
	return err
}
