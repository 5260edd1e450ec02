package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_EveryUntilCancelled(t *testing.T) {
	s := New()
	s.Start()
	defer s.Stop()

	var n atomic.Int32
	id := s.Every(5*time.Millisecond, func() { n.Add(1) })

	assert.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)

	s.Cancel(id)
	time.Sleep(20 * time.Millisecond)
	settled := n.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, n.Load(), "no runs after cancel")
}

func TestScheduler_AfterRunsOnce(t *testing.T) {
	s := New()
	s.Start()
	defer s.Stop()

	var n atomic.Int32
	s.After(10*time.Millisecond, func() { n.Add(1) })

	assert.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), n.Load())
}

func TestScheduler_AfterWithZeroDelay(t *testing.T) {
	s := New()
	s.Start()
	defer s.Stop()

	var n atomic.Int32
	s.After(0, func() { n.Add(1) })

	assert.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), n.Load())
}

func TestScheduler_CancelBeforeAfterFires(t *testing.T) {
	s := New()
	s.Start()
	defer s.Stop()

	var n atomic.Int32
	id := s.After(30*time.Millisecond, func() { n.Add(1) })
	s.Cancel(id)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), n.Load())
}

func TestScheduler_RecoversPanickingJob(t *testing.T) {
	s := New()
	s.Start()
	defer s.Stop()

	var n atomic.Int32
	s.After(0, func() { panic("boom") })
	s.After(5*time.Millisecond, func() { n.Add(1) })

	assert.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, time.Millisecond)
}
