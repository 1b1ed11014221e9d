// Package wait turns racy element lookups into bounded blocking operations.
package wait

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/networkteam/shopcheck/browser"
)

// Policy holds the timing parameters of a Helper.
type Policy struct {
	// Timeout is the default bound of every wait.
	// Default: 20s
	Timeout time.Duration
	// PollInterval is the pause between two condition checks.
	// Default: 500ms
	PollInterval time.Duration
	// ClickRetries is the default number of SafeClick attempts.
	// Default: 3
	ClickRetries int
	// ScrollPause is slept between scrolling an element into view and clicking it.
	// Default: 500ms
	ScrollPause time.Duration
	// StalePause is slept before re-locating an element that went stale.
	// Default: 500ms
	StalePause time.Duration
	// FallbackPause is slept after a failed DOM click fallback.
	// Default: 1s
	FallbackPause time.Duration
}

// DefaultPolicy returns the default timing parameters.
func DefaultPolicy() Policy {
	return Policy{
		Timeout:       20 * time.Second,
		PollInterval:  500 * time.Millisecond,
		ClickRetries:  3,
		ScrollPause:   500 * time.Millisecond,
		StalePause:    500 * time.Millisecond,
		FallbackPause: time.Second,
	}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.Timeout <= 0 {
		p.Timeout = d.Timeout
	}
	if p.PollInterval <= 0 {
		p.PollInterval = d.PollInterval
	}
	if p.ClickRetries <= 0 {
		p.ClickRetries = d.ClickRetries
	}
	if p.ScrollPause < 0 {
		p.ScrollPause = 0
	}
	if p.StalePause < 0 {
		p.StalePause = 0
	}
	if p.FallbackPause < 0 {
		p.FallbackPause = 0
	}
	return p
}

// Option adjusts a single wait call.
type Option func(*callOptions)

type callOptions struct {
	timeout time.Duration
	retries int
	noClear bool
}

// WithTimeout overrides the policy timeout for one call.
func WithTimeout(d time.Duration) Option {
	return func(o *callOptions) {
		o.timeout = d
	}
}

// WithRetries overrides the number of SafeClick attempts.
func WithRetries(n int) Option {
	return func(o *callOptions) {
		o.retries = n
	}
}

// WithoutClear makes SafeFill append to the current value.
func WithoutClear() Option {
	return func(o *callOptions) {
		o.noClear = true
	}
}

// Helper waits for conditions on a single page.
// A Helper is not safe for concurrent use, like the page it wraps.
type Helper struct {
	page   browser.Page
	policy Policy
	logger *slog.Logger
}

// New creates a Helper. Zero fields of policy take their defaults.
func New(page browser.Page, policy Policy, logger *slog.Logger) *Helper {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Helper{
		page:   page,
		policy: policy.withDefaults(),
		logger: logger,
	}
}

// Policy returns the effective policy.
func (h *Helper) Policy() Policy { return h.policy }

func (h *Helper) options(opts []Option) callOptions {
	o := callOptions{timeout: h.policy.Timeout, retries: h.policy.ClickRetries}
	for _, opt := range opts {
		opt(&o)
	}
	if o.retries < 1 {
		o.retries = 1
	}
	return o
}

var errPending = errors.New("condition not met yet")

// poll evaluates check until it reports true, the timeout expires or check fails with a
// non-stale error. Stale elements are treated like a condition that does not hold yet.
func (h *Helper) poll(condition, locator string, timeout time.Duration, check func() (bool, error)) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var last, fatal error
	op := func() error {
		ok, err := check()
		switch {
		case err == nil && ok:
			return nil
		case err == nil:
			return errPending
		case errors.Is(err, browser.ErrStale):
			last = err
			return err
		default:
			fatal = err
			return backoff.Permanent(err)
		}
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(h.policy.PollInterval), ctx)
	if err := backoff.Retry(op, b); err != nil {
		if fatal != nil {
			return fmt.Errorf("waiting for %s %s: %w", condition, locator, fatal)
		}
		return &TimeoutError{Condition: condition, Locator: locator, Timeout: timeout, Last: last}
	}
	return nil
}

func (h *Helper) first(loc browser.Locator) (browser.Element, error) {
	els, err := h.page.Find(loc)
	if err != nil || len(els) == 0 {
		return nil, err
	}
	return els[0], nil
}

// Visible waits until the first element matching loc is rendered with a nonzero size.
func (h *Helper) Visible(loc browser.Locator, opts ...Option) (browser.Element, error) {
	o := h.options(opts)
	var found browser.Element
	err := h.poll("visibility of", loc.String(), o.timeout, func() (bool, error) {
		el, err := h.first(loc)
		if err != nil || el == nil {
			return false, err
		}
		visible, err := el.Visible()
		if err != nil || !visible {
			return false, err
		}
		found = el
		return true, nil
	})
	if err != nil {
		h.logger.Debug("Element not visible", "locator", loc.String(), "error", err)
		return nil, err
	}
	return found, nil
}

// Present waits until at least one element matches loc.
func (h *Helper) Present(loc browser.Locator, opts ...Option) (browser.Element, error) {
	o := h.options(opts)
	var found browser.Element
	err := h.poll("presence of", loc.String(), o.timeout, func() (bool, error) {
		el, err := h.first(loc)
		if err != nil || el == nil {
			return false, err
		}
		found = el
		return true, nil
	})
	if err != nil {
		h.logger.Debug("Element not present", "locator", loc.String(), "error", err)
		return nil, err
	}
	return found, nil
}

// Clickable waits until the first element matching loc is visible and enabled.
func (h *Helper) Clickable(loc browser.Locator, opts ...Option) (browser.Element, error) {
	o := h.options(opts)
	var found browser.Element
	err := h.poll("clickability of", loc.String(), o.timeout, func() (bool, error) {
		el, err := h.first(loc)
		if err != nil || el == nil {
			return false, err
		}
		visible, err := el.Visible()
		if err != nil || !visible {
			return false, err
		}
		enabled, err := el.Enabled()
		if err != nil || !enabled {
			return false, err
		}
		found = el
		return true, nil
	})
	if err != nil {
		h.logger.Debug("Element not clickable", "locator", loc.String(), "error", err)
		return nil, err
	}
	return found, nil
}

// Text waits until the text of the first element matching loc contains text.
func (h *Helper) Text(loc browser.Locator, text string, opts ...Option) (bool, error) {
	o := h.options(opts)
	err := h.poll(fmt.Sprintf("text %q in", text), loc.String(), o.timeout, func() (bool, error) {
		el, err := h.first(loc)
		if err != nil || el == nil {
			return false, err
		}
		got, err := el.Text()
		if err != nil {
			return false, err
		}
		return strings.Contains(got, text), nil
	})
	return err == nil, err
}

// URLContains waits until the current URL contains fragment.
func (h *Helper) URLContains(fragment string, opts ...Option) (bool, error) {
	o := h.options(opts)
	err := h.poll(fmt.Sprintf("URL containing %q", fragment), "", o.timeout, func() (bool, error) {
		url, err := h.page.URL()
		if err != nil {
			return false, err
		}
		return strings.Contains(url, fragment), nil
	})
	return err == nil, err
}

// Absent waits until no element matches loc.
func (h *Helper) Absent(loc browser.Locator, opts ...Option) (bool, error) {
	o := h.options(opts)
	err := h.poll("absence of", loc.String(), o.timeout, func() (bool, error) {
		els, err := h.page.Find(loc)
		if err != nil {
			return false, err
		}
		return len(els) == 0, nil
	})
	if err != nil {
		h.logger.Debug("Element still present", "locator", loc.String(), "error", err)
	}
	return err == nil, err
}

// PageReady waits until the document finished loading.
func (h *Helper) PageReady(opts ...Option) error {
	o := h.options(opts)
	return h.poll("document ready state", "", o.timeout, func() (bool, error) {
		state, err := h.page.Evaluate(`() => document.readyState`)
		if err != nil {
			return false, err
		}
		return state == "complete", nil
	})
}

// Until waits for an arbitrary condition. Errors matching browser.ErrStale are
// retried, any other error from cond ends the wait.
func (h *Helper) Until(condition string, cond func() (bool, error), opts ...Option) error {
	o := h.options(opts)
	return h.poll(condition, "", o.timeout, cond)
}

// All returns every element currently matching loc without waiting.
func (h *Helper) All(loc browser.Locator) ([]browser.Element, error) {
	return h.page.Find(loc)
}

// SafeFill waits for loc to be visible, clears it unless WithoutClear is given and types text.
func (h *Helper) SafeFill(loc browser.Locator, text string, opts ...Option) error {
	o := h.options(opts)
	el, err := h.Visible(loc, WithTimeout(o.timeout))
	if err != nil {
		return err
	}
	if !o.noClear {
		if err := el.Clear(); err != nil {
			return fmt.Errorf("clearing %s: %w", loc, err)
		}
	}
	if err := el.Type(text); err != nil {
		return fmt.Errorf("typing into %s: %w", loc, err)
	}
	h.logger.Debug("Sent keys to element", "locator", loc.String())
	return nil
}

// GetText waits for loc to be visible and returns its trimmed text.
func (h *Helper) GetText(loc browser.Locator, opts ...Option) (string, error) {
	o := h.options(opts)
	el, err := h.Visible(loc, WithTimeout(o.timeout))
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("reading text of %s: %w", loc, err)
	}
	return strings.TrimSpace(text), nil
}
