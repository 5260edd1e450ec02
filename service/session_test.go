// file: service/session_test.go

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionEvents struct {
	ticks   []string
	expired []string
}

func newTestSessions(t *testing.T) (*SessionManager, *manualScheduler, *sessionEvents) {
	t.Helper()
	l, sched := newTestLedger(t)
	ev := &sessionEvents{}
	m := NewSessionManager(l, sched, 5*time.Second, time.Second, SessionHooks{
		OnTick:   func(_, display string) { ev.ticks = append(ev.ticks, display) },
		OnExpire: func(_, username string) { ev.expired = append(ev.expired, username) },
	})
	return m, sched, ev
}

func TestSessionManager_Login(t *testing.T) {
	t.Run("starts a timed session", func(t *testing.T) {
		m, sched, ev := newTestSessions(t)

		s, acc, err := m.Login("aa", "1111")
		require.NoError(t, err)
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, "aa", s.Username)
		assert.Equal(t, "Alice Anders", acc.Owner)
		assert.Equal(t, "00:05", s.TimerDisplay())
		assert.Equal(t, TimerRunning, s.TimerState())
		assert.Equal(t, []string{"00:05"}, ev.ticks)
		assert.Equal(t, 1, sched.Repeating())

		cur, ok := m.Current()
		require.True(t, ok)
		assert.Equal(t, s.ID, cur.ID)
	})

	t.Run("bad credentials leave no session", func(t *testing.T) {
		m, sched, _ := newTestSessions(t)

		_, _, err := m.Login("aa", "9999")
		assert.ErrorIs(t, err, ErrAuthFailed)
		_, ok := m.Current()
		assert.False(t, ok)
		assert.Equal(t, 0, sched.Repeating())
	})

	t.Run("failed login keeps the existing session", func(t *testing.T) {
		m, _, _ := newTestSessions(t)
		s, _, err := m.Login("aa", "1111")
		require.NoError(t, err)

		_, _, err = m.Login("bb", "0")
		assert.Error(t, err)

		_, ok := m.Lookup(s.ID)
		assert.True(t, ok)
	})

	t.Run("new login replaces the previous one", func(t *testing.T) {
		m, sched, _ := newTestSessions(t)
		first, _, err := m.Login("aa", "1111")
		require.NoError(t, err)
		second, _, err := m.Login("bb", "2222")
		require.NoError(t, err)

		_, ok := m.Lookup(first.ID)
		assert.False(t, ok)
		cur, ok := m.Lookup(second.ID)
		require.True(t, ok)
		assert.Equal(t, "bb", cur.Username)
		assert.Equal(t, 1, sched.Repeating())
		assert.Equal(t, TimerIdle, first.TimerState())
	})
}

func TestSessionManager_Expiry(t *testing.T) {
	m, sched, ev := newTestSessions(t)
	s, _, err := m.Login("aa", "1111")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		sched.Tick()
	}

	assert.Equal(t, []string{"aa"}, ev.expired)
	assert.Equal(t, "00:00", ev.ticks[len(ev.ticks)-1])
	_, ok := m.Current()
	assert.False(t, ok)

	_, err = m.Account(s.ID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionManager_Logout(t *testing.T) {
	m, sched, ev := newTestSessions(t)
	m.Logout("nobody")

	s, _, err := m.Login("aa", "1111")
	require.NoError(t, err)

	m.Logout("stale-id")
	_, ok := m.Current()
	assert.True(t, ok, "a stale id does not end the session")

	m.Logout(s.ID)
	_, ok = m.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, sched.Repeating())
	assert.Empty(t, ev.expired)
}

func TestSessionManager_ToggleSort(t *testing.T) {
	m, _, _ := newTestSessions(t)

	_, err := m.ToggleSort("none")
	assert.ErrorIs(t, err, ErrNoSession)

	s, _, err := m.Login("aa", "1111")
	require.NoError(t, err)

	on, err := m.ToggleSort(s.ID)
	require.NoError(t, err)
	assert.True(t, on)
	off, err := m.ToggleSort(s.ID)
	require.NoError(t, err)
	assert.False(t, off)

	// A fresh login starts unsorted.
	_, _ = m.ToggleSort(s.ID)
	_, _, err = m.Login("aa", "1111")
	require.NoError(t, err)
	cur, _ := m.Current()
	assert.False(t, cur.SortByValue)
}

func TestSessionManager_OperationsResetTimer(t *testing.T) {
	ctx := context.Background()

	t.Run("transfer", func(t *testing.T) {
		m, sched, _ := newTestSessions(t)
		s, _, err := m.Login("aa", "1111")
		require.NoError(t, err)
		sched.Tick()
		sched.Tick()
		assert.Equal(t, "00:03", s.TimerDisplay())

		require.NoError(t, m.Transfer(ctx, s.ID, "bb", "10"))
		assert.Equal(t, "00:05", s.TimerDisplay())
		assert.Equal(t, 1, sched.Repeating())
	})

	t.Run("failed transfer does not reset", func(t *testing.T) {
		m, sched, _ := newTestSessions(t)
		s, _, err := m.Login("aa", "1111")
		require.NoError(t, err)
		sched.Tick()

		assert.ErrorIs(t, m.Transfer(ctx, s.ID, "bb", "0"), ErrInvalidAmount)
		assert.Equal(t, "00:04", s.TimerDisplay())
	})

	t.Run("loan", func(t *testing.T) {
		m, sched, _ := newTestSessions(t)
		s, _, err := m.Login("aa", "1111")
		require.NoError(t, err)
		sched.Tick()

		require.NoError(t, m.RequestLoan(ctx, s.ID, "100"))
		assert.Equal(t, "00:05", s.TimerDisplay())
		assert.Equal(t, 1, sched.Pending())
	})
}

// replaceOnAppend logs in as another user when the first movement is
// committed, before the session manager resets its timer.
type replaceOnAppend struct {
	once     sync.Once
	m        *SessionManager
	username string
	pin      string
	err      error
}

func (r *replaceOnAppend) MovementAppended(context.Context, string, decimal.Decimal, time.Time) {
	r.once.Do(func() { _, _, r.err = r.m.Login(r.username, r.pin) })
}

func (r *replaceOnAppend) AccountClosed(context.Context, string) {}

func TestSessionManager_CommittedOperationSurvivesReplacedSession(t *testing.T) {
	ctx := context.Background()

	t.Run("transfer", func(t *testing.T) {
		m, _, _ := newTestSessions(t)
		s, _, err := m.Login("aa", "1111")
		require.NoError(t, err)
		hook := &replaceOnAppend{m: m, username: "bb", pin: "2222"}
		m.ledger.Subscribe(hook)

		require.NoError(t, m.Transfer(ctx, s.ID, "bb", "10"))
		require.NoError(t, hook.err)

		acc, err := m.ledger.Account("aa")
		require.NoError(t, err)
		assert.True(t, ComputeBalance(acc).Equal(dec("90")))
		cur, ok := m.Current()
		require.True(t, ok)
		assert.Equal(t, "bb", cur.Username)
	})

	t.Run("loan", func(t *testing.T) {
		m, sched, _ := newTestSessions(t)
		s, _, err := m.Login("aa", "1111")
		require.NoError(t, err)
		require.NoError(t, m.RequestLoan(ctx, s.ID, "100"))

		_, _, err = m.Login("bb", "2222")
		require.NoError(t, err)
		sched.RunDeferred()

		acc, err := m.ledger.Account("aa")
		require.NoError(t, err)
		assert.Len(t, acc.Movements, 3)
	})
}

func TestSessionManager_CloseAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("success ends the session", func(t *testing.T) {
		m, sched, ev := newTestSessions(t)
		s, _, err := m.Login("aa", "1111")
		require.NoError(t, err)

		require.NoError(t, m.CloseAccount(ctx, s.ID, "aa", "1111"))

		_, ok := m.Current()
		assert.False(t, ok)
		assert.Equal(t, 0, sched.Repeating())
		assert.Empty(t, ev.expired)

		_, _, err = m.Login("aa", "1111")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("mismatch keeps the session", func(t *testing.T) {
		m, _, _ := newTestSessions(t)
		s, _, err := m.Login("aa", "1111")
		require.NoError(t, err)

		assert.ErrorIs(t, m.CloseAccount(ctx, s.ID, "bb", "2222"), ErrCredentialMismatch)
		acc, err := m.Account(s.ID)
		require.NoError(t, err)
		assert.Equal(t, "aa", acc.Username)
	})

	t.Run("requires the current session", func(t *testing.T) {
		m, _, _ := newTestSessions(t)
		assert.ErrorIs(t, m.CloseAccount(ctx, "none", "aa", "1111"), ErrNoSession)

		first, _, err := m.Login("aa", "1111")
		require.NoError(t, err)
		_, _, err = m.Login("bb", "2222")
		require.NoError(t, err)

		assert.ErrorIs(t, m.Transfer(ctx, first.ID, "bb", "1"), ErrNoSession)
		assert.ErrorIs(t, m.RequestLoan(ctx, first.ID, "1"), ErrNoSession)
		assert.ErrorIs(t, m.ResetTimer(first.ID), ErrNoSession)
		assert.ErrorIs(t, m.CloseAccount(ctx, first.ID, "aa", "1111"), ErrNoSession)
	})
}
