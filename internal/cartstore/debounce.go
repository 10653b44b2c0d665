package cartstore

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is the quiescence delay after the last mutation
// before the remote push fires.
const DefaultDebounceWindow = 1000 * time.Millisecond

// Debouncer coalesces rapid state changes into a single deferred task:
// schedule a task for now+window, and if scheduled again before firing,
// cancel and reschedule. At most one task is pending at a time; only the
// task scheduled last ever runs.
//
// The fired task runs on the timer's goroutine.
type Debouncer struct {
	mu     sync.Mutex
	timer  *time.Timer
	window time.Duration
}

// NewDebouncer creates a debouncer with the given quiescence window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Schedule runs fn after the window elapses with no further Schedule calls.
// Each call cancels any pending task and restarts the timer.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, fn)
}

// Cancel stops any pending task. Safe to call with nothing pending.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
