package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is wrapped by Page implementations when a bounded wait or
	// lookup runs out of time.
	ErrTimeout = errors.New("timeout")

	// ErrControlUnavailable indicates a control is absent or not actionable.
	ErrControlUnavailable = errors.New("control unavailable")

	// ErrOrderNotFound indicates the target date is not among the summary rows.
	ErrOrderNotFound = errors.New("order not found")
)

// WaitTimeoutError indicates a mandatory wait never held; the run aborts.
type WaitTimeoutError struct {
	Wait    string
	Timeout time.Duration
	Err     error
}

func (e WaitTimeoutError) Error() string {
	return fmt.Errorf("waiting for %s (%s): %w", e.Wait, e.Timeout, e.Err).Error()
}

func (e WaitTimeoutError) Unwrap() error {
	return e.Err
}

// MismatchError indicates the page structure disagrees with the parsed rows,
// e.g. fewer detail links than the resolved index needs.
type MismatchError struct {
	Collection string
	Expected   int
	Actual     int
}

func (e MismatchError) Error() string {
	return fmt.Sprintf("found %d %q elements but needed at least %d", e.Actual, e.Collection, e.Expected)
}

// NotFoundError carries the summary rows that were available when a target
// date could not be found.
type NotFoundError struct {
	Date      string
	Available []string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("no order found with date %q (%d orders available)", e.Date, len(e.Available))
}

func (e NotFoundError) Unwrap() error {
	return ErrOrderNotFound
}

func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var wait WaitTimeoutError
	if errors.As(err, &wait) {
		return "wait_timeout"
	}
	var mismatch MismatchError
	if errors.As(err, &mismatch) {
		return "mismatch"
	}
	if errors.Is(err, ErrOrderNotFound) {
		return "not_found"
	}
	if errors.Is(err, ErrControlUnavailable) {
		return "control_unavailable"
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "other"
}
