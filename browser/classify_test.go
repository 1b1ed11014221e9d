package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPlaywright(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"detached", errors.New("locator.click: Element is not attached to the DOM"), ErrStale},
		{"disposed handle", errors.New("JSHandle is disposed"), ErrStale},
		{"navigated away", errors.New("Execution context was destroyed, most likely because of a navigation"), ErrStale},
		{"overlay", errors.New(`<div class="modal-backdrop"></div> intercepts pointer events`), ErrIntercepted},
		{"hidden", errors.New("element is not visible"), ErrNotInteractable},
		{"disabled", errors.New("element is not enabled"), ErrNotInteractable},
		{"off screen", errors.New("element is outside of the viewport"), ErrNotInteractable},
		{"timeout", fmt.Errorf("%w: %w: Timeout 10000ms exceeded", playwright.ErrPlaywright, playwright.ErrTimeout), ErrNotInteractable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyPlaywright(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err, "the driver error is kept")
			assert.True(t, IsTransient(got))
		})
	}

	assert.NoError(t, classifyPlaywright(nil))
	other := errors.New("net::ERR_NAME_NOT_RESOLVED")
	assert.Same(t, other, classifyPlaywright(other))
	assert.False(t, IsTransient(classifyPlaywright(other)))
}

func TestClassifyRod(t *testing.T) {
	overlay := &rod.Element{Object: &proto.RuntimeRemoteObject{Description: "div.modal-backdrop"}}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"covered", &rod.CoveredError{Element: overlay}, ErrIntercepted},
		{"no pointer events", &rod.NoPointerEventsError{Element: overlay}, ErrIntercepted},
		{"invisible shape", &rod.InvisibleShapeError{Element: overlay}, ErrNotInteractable},
		{"not interactable", &rod.NotInteractableError{}, ErrNotInteractable},
		{"deadline", fmt.Errorf("input: %w", context.DeadlineExceeded), ErrNotInteractable},
		{"node gone", errors.New("{-32000 Could not find node with given id}"), ErrStale},
		{"foreign node", errors.New("Node does not belong to the document"), ErrStale},
		{"detached", errors.New("Node is detached from document"), ErrStale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyRod(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err, "the driver error is kept")
			assert.True(t, IsTransient(got))
		})
	}

	assert.NoError(t, classifyRod(nil))
	other := errors.New("net::ERR_CONNECTION_REFUSED")
	assert.Same(t, other, classifyRod(other))
}

func TestRodElement_TypeIntoDisabledInputTimesOut(t *testing.T) {
	if testing.Short() {
		t.Skip("Starts Chrome")
	}
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("Chrome not installed")
	}

	b, err := Launch(Options{Engine: EngineRod, Headless: true, ImplicitWait: 500 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	page := b.Page()
	require.NoError(t, page.Goto(`data:text/html,<input id="email" disabled><input id="name" readonly>`))

	for _, id := range []string{"email", "name"} {
		found, err := page.Find(ByID(id))
		require.NoError(t, err)
		require.Len(t, found, 1)

		start := time.Now()
		err = found[0].Type("ada@example.com")
		assert.ErrorIs(t, err, ErrNotInteractable, id)
		assert.Less(t, time.Since(start), 5*time.Second, "typing into %s is bounded", id)

		err = found[0].Clear()
		assert.ErrorIs(t, err, ErrNotInteractable, id)
	}
}
