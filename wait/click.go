package wait

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/networkteam/shopcheck/browser"
)

// clickBackOff sleeps StalePause after a stale element and FallbackPause after a
// failed DOM click fallback. It never grows.
type clickBackOff struct {
	policy   Policy
	fellBack *bool
}

func (b *clickBackOff) NextBackOff() time.Duration {
	if *b.fellBack {
		return b.policy.FallbackPause
	}
	return b.policy.StalePause
}

func (b *clickBackOff) Reset() {}

// SafeClick clicks the element matching loc, retrying transient failures.
//
// Every attempt waits for loc to be clickable, scrolls it into view, pauses for
// Policy.ScrollPause and clicks natively. An intercepted or non-interactable click
// falls back to a DOM click on a freshly located element. A stale element is
// re-located on the next attempt. Waiting for clickability is not retried: its
// timeout is returned as is. After the last attempt a *ClickError is returned.
func (h *Helper) SafeClick(loc browser.Locator, opts ...Option) error {
	o := h.options(opts)

	var (
		attempts int
		fellBack bool
		last     error
		fatal    error
	)
	op := func() error {
		attempts++
		fellBack = false

		el, err := h.Clickable(loc, WithTimeout(o.timeout))
		if err != nil {
			fatal = err
			return backoff.Permanent(err)
		}

		err = h.clickOnce(el)
		if err == nil {
			h.logger.Debug("Clicked element", "locator", loc.String(), "attempt", attempts)
			return nil
		}

		if errors.Is(err, browser.ErrIntercepted) || errors.Is(err, browser.ErrNotInteractable) {
			h.logger.Warn("Click intercepted, trying DOM click", "locator", loc.String(), "attempt", attempts, "error", err)
			ferr := h.domClick(loc, o.timeout)
			if ferr == nil {
				return nil
			}
			h.logger.Warn("DOM click failed", "locator", loc.String(), "attempt", attempts, "error", ferr)
			fellBack = true
			last = errors.Join(err, ferr)
			return last
		}

		if errors.Is(err, browser.ErrStale) {
			h.logger.Warn("Stale element, retrying", "locator", loc.String(), "attempt", attempts)
			last = err
			return err
		}

		fatal = fmt.Errorf("clicking %s: %w", loc, err)
		return backoff.Permanent(fatal)
	}

	b := backoff.WithMaxRetries(&clickBackOff{policy: h.policy, fellBack: &fellBack}, uint64(o.retries-1))
	if err := backoff.Retry(op, b); err != nil {
		if fatal != nil {
			return fatal
		}
		return &ClickError{Locator: loc.String(), Attempts: attempts, Err: last}
	}
	return nil
}

func (h *Helper) clickOnce(el browser.Element) error {
	if err := el.ScrollIntoView(); err != nil {
		return err
	}
	if h.policy.ScrollPause > 0 {
		time.Sleep(h.policy.ScrollPause)
	}
	return el.Click()
}

func (h *Helper) domClick(loc browser.Locator, timeout time.Duration) error {
	el, err := h.Present(loc, WithTimeout(timeout))
	if err != nil {
		return err
	}
	return el.DOMClick()
}
