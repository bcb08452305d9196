package core

import (
	"sync"
	"time"
)

// ConnState describes the reconnect policy's view of the single
// connection slot.
type ConnState int32

const (
	StateIdle ConnState = iota
	StateConnecting
	StateOpen
	StateBackoff
	StateExhausted
)

func (s ConnState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateBackoff:
		return "backoff"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// retryBudget bounds the number of automatic reconnect attempts after
// transport errors. The budget is spent one attempt at a time and only
// refilled by an explicit connect request (interest change, manual
// reconnect, or a verified resource-version refresh); error-driven
// retries never refill it.
type retryBudget struct {
	max       int
	remaining int
}

func newRetryBudget(max int) *retryBudget {
	return &retryBudget{max: max, remaining: max}
}

// Spend consumes one attempt. It returns false when the budget is
// already exhausted.
func (b *retryBudget) Spend() bool {
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// Reset refills the budget to its maximum.
func (b *retryBudget) Reset() {
	b.remaining = b.max
}

func (b *retryBudget) Remaining() int {
	return b.remaining
}

// debouncer coalesces a burst of signals into a single callback once a
// quiet window elapses with no further signal. The callback runs on a
// timer goroutine.
type debouncer struct {
	mu    sync.Mutex
	quiet time.Duration
	fn    func()
	timer *time.Timer
}

func newDebouncer(quiet time.Duration, fn func()) *debouncer {
	return &debouncer{quiet: quiet, fn: fn}
}

// Signal restarts the quiet window.
func (d *debouncer) Signal() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.fn)
}

// Stop cancels any pending callback.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
