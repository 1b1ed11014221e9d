package browser

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned for unknown browser, engine or locator strategy names.
	ErrUnsupported = errors.New("unsupported")
	// ErrDriverCreation matches every *DriverError.
	ErrDriverCreation = errors.New("driver creation failed")

	// ErrStale means the element was detached from the document between lookup and use.
	ErrStale = errors.New("stale element")
	// ErrIntercepted means another element would receive the click.
	ErrIntercepted = errors.New("click intercepted")
	// ErrNotInteractable means the element cannot receive input at its current position or state.
	ErrNotInteractable = errors.New("element not interactable")
)

// DriverError is returned when a browser session could not be started.
type DriverError struct {
	Browser string
	Engine  string
	Err     error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("starting %s via %s: %v", e.Browser, e.Engine, e.Err)
}

func (e *DriverError) Unwrap() error {
	return e.Err
}

func (e *DriverError) Is(target error) bool {
	return target == ErrDriverCreation
}

// IsTransient reports whether a click on the element may succeed after re-locating it
// or falling back to a DOM click.
func IsTransient(err error) bool {
	return errors.Is(err, ErrStale) || errors.Is(err, ErrIntercepted) || errors.Is(err, ErrNotInteractable)
}

func classified(kind, err error) error {
	return fmt.Errorf("%w: %w", kind, err)
}
