// file: service/timer.go

package service

import (
	"fmt"
	"sync"
	"time"

	"go-bankist/scheduler"
)

// Ticker schedules repeating work. *scheduler.Scheduler implements it.
type Ticker interface {
	Every(interval time.Duration, fn func()) scheduler.EntryID
	Cancel(id scheduler.EntryID)
}

type TimerState string

const (
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
	TimerExpired TimerState = "expired"
)

// SessionTimer counts down whole seconds and reports expiry once.
type SessionTimer struct {
	ticker   Ticker
	interval time.Duration
	onTick   func(display string)
	onExpire func()

	mu         sync.Mutex
	state      TimerState
	remaining  int
	entry      scheduler.EntryID
	scheduled  bool
	generation uint64
}

// NewSessionTimer creates an idle timer. interval is the wall-clock length
// of one countdown second; onTick and onExpire may be nil.
func NewSessionTimer(ticker Ticker, interval time.Duration, onTick func(string), onExpire func()) *SessionTimer {
	return &SessionTimer{
		ticker:   ticker,
		interval: interval,
		onTick:   onTick,
		onExpire: onExpire,
		state:    TimerIdle,
	}
}

// FormatClock renders seconds as zero-padded MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Start (re)starts the countdown from duration, truncated to whole
// seconds. Any pending countdown is cancelled first.
func (t *SessionTimer) Start(duration time.Duration) {
	t.mu.Lock()
	t.cancelLocked()
	t.generation++
	gen := t.generation
	t.remaining = int(duration / time.Second)
	t.state = TimerRunning
	display := FormatClock(t.remaining)
	t.mu.Unlock()

	if t.onTick != nil {
		t.onTick(display)
	}

	t.mu.Lock()
	if t.generation != gen {
		t.mu.Unlock()
		return
	}
	if t.remaining <= 0 {
		t.state = TimerExpired
		t.mu.Unlock()
		if t.onExpire != nil {
			t.onExpire()
		}
		return
	}
	t.entry = t.ticker.Every(t.interval, func() { t.tick(gen) })
	t.scheduled = true
	t.mu.Unlock()
}

// Stop cancels the countdown without signalling expiry.
func (t *SessionTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.generation++
	t.state = TimerIdle
	t.remaining = 0
}

func (t *SessionTimer) cancelLocked() {
	if t.scheduled {
		t.ticker.Cancel(t.entry)
		t.scheduled = false
	}
}

func (t *SessionTimer) tick(gen uint64) {
	t.mu.Lock()
	if gen != t.generation || t.state != TimerRunning {
		t.mu.Unlock()
		return
	}
	if t.remaining > 0 {
		t.remaining--
	}
	display := FormatClock(t.remaining)
	expired := t.remaining == 0
	if expired {
		t.state = TimerExpired
		t.cancelLocked()
	}
	t.mu.Unlock()

	if t.onTick != nil {
		t.onTick(display)
	}
	if !expired || t.onExpire == nil {
		return
	}

	// A Start or Stop since the lock was released supersedes this expiry.
	t.mu.Lock()
	current := gen == t.generation
	t.mu.Unlock()
	if current {
		t.onExpire()
	}
}

func (t *SessionTimer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *SessionTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Display is the remaining time as MM:SS.
func (t *SessionTimer) Display() string {
	return FormatClock(t.Remaining())
}
