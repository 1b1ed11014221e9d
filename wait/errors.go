package wait

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout matches every *TimeoutError.
	ErrTimeout = errors.New("wait timed out")
	// ErrClickFailure matches every *ClickError.
	ErrClickFailure = errors.New("click failed")
)

// TimeoutError is returned when a condition did not hold within its timeout.
type TimeoutError struct {
	Condition string
	// Locator is empty for conditions on the page itself.
	Locator string
	Timeout time.Duration
	// Last is the last error observed while polling, if any.
	Last error
}

func (e *TimeoutError) Error() string {
	target := e.Condition
	if e.Locator != "" {
		target = fmt.Sprintf("%s %s", e.Condition, e.Locator)
	}
	if e.Last != nil {
		return fmt.Sprintf("timed out after %s waiting for %s: %v", e.Timeout, target, e.Last)
	}
	return fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, target)
}

func (e *TimeoutError) Unwrap() error { return e.Last }

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// ClickError is returned by SafeClick once all attempts failed.
type ClickError struct {
	Locator  string
	Attempts int
	Err      error
}

func (e *ClickError) Error() string {
	return fmt.Sprintf("clicking %s failed after %d attempts: %v", e.Locator, e.Attempts, e.Err)
}

func (e *ClickError) Unwrap() error { return e.Err }

func (e *ClickError) Is(target error) bool { return target == ErrClickFailure }
