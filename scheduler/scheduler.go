// file: scheduler/scheduler.go

// Package scheduler runs cancellable deferred work on a cron engine.
// Entries use custom schedules so intervals below one second work, which
// the stock cron specs cannot express.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go-bankist/logger"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// EntryID identifies a scheduled job.
type EntryID = cron.EntryID

// every fires at a constant interval after the previous activation.
type every time.Duration

func (e every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

// once fires at at, or immediately if at has passed, until fired is set.
// cron never runs an entry whose next activation is the zero time.
type once struct {
	at    time.Time
	fired *atomic.Bool
}

func (o once) Next(time.Time) time.Time {
	if o.fired.Load() {
		return time.Time{}
	}
	return o.at
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct {
	log *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithError(err).WithFields(fields(keysAndValues)).Error(msg)
}

func fields(kv []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			f[k] = kv[i+1]
		}
	}
	return f
}

// Scheduler wraps a cron.Cron. A panicking job is recovered and logged.
type Scheduler struct {
	cron *cron.Cron

	mu      sync.Mutex
	started bool
}

// New creates a stopped scheduler.
func New() *Scheduler {
	l := cronLogger{log: logger.Log.WithField("component", "scheduler")}
	c := cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l)),
	)
	return &Scheduler{cron: c}
}

// Start begins dispatching jobs. Calling it twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()
	logger.Log.Info("Scheduler started")
}

// Stop halts dispatching. The returned context is done once running
// jobs have finished.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	logger.Log.Info("Scheduler stopping")
	return s.cron.Stop()
}

// Every runs fn repeatedly, interval apart, until cancelled.
func (s *Scheduler) Every(interval time.Duration, fn func()) EntryID {
	return s.cron.Schedule(every(interval), cron.FuncJob(fn))
}

// After runs fn once after delay. The entry removes itself when it fires.
func (s *Scheduler) After(delay time.Duration, fn func()) EntryID {
	var (
		mu    sync.Mutex
		id    EntryID
		fired atomic.Bool
	)
	// Hold mu until id is assigned so a very short delay cannot race the
	// self-removal.
	mu.Lock()
	defer mu.Unlock()
	id = s.cron.Schedule(once{at: time.Now().Add(delay), fired: &fired}, cron.FuncJob(func() {
		// cron may dispatch again before it sees fired.
		if !fired.CompareAndSwap(false, true) {
			return
		}
		mu.Lock()
		self := id
		mu.Unlock()
		s.cron.Remove(self)
		fn()
	}))
	return id
}

// Cancel removes a pending entry. Cancelling an unknown or finished
// entry is a no-op.
func (s *Scheduler) Cancel(id EntryID) {
	s.cron.Remove(id)
}
