// file: service/session.go

package service

import (
	"context"
	"sync"
	"time"

	"go-bankist/logger"
	"go-bankist/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session is the single authenticated period of one account.
type Session struct {
	ID          string
	Username    string
	SortByValue bool
	StartedAt   time.Time
	timer       *SessionTimer
}

// TimerDisplay is the remaining session time as MM:SS.
func (s *Session) TimerDisplay() string {
	return s.timer.Display()
}

// TimerState reports the state of the session countdown.
func (s *Session) TimerState() TimerState {
	return s.timer.State()
}

// SessionHooks lets a host react to countdown events. Both are optional.
type SessionHooks struct {
	OnTick   func(sessionID, display string)
	OnExpire func(sessionID, username string)
}

// SessionManager holds at most one session at a time.
type SessionManager struct {
	ledger   *Ledger
	ticker   Ticker
	timeout  time.Duration
	interval time.Duration
	hooks    SessionHooks

	mu      sync.Mutex
	current *Session
}

func NewSessionManager(ledger *Ledger, ticker Ticker, timeout, interval time.Duration, hooks SessionHooks) *SessionManager {
	return &SessionManager{
		ledger:   ledger,
		ticker:   ticker,
		timeout:  timeout,
		interval: interval,
		hooks:    hooks,
	}
}

// Timeout is the session length a fresh or reset timer starts from.
func (m *SessionManager) Timeout() time.Duration {
	return m.timeout
}

// Login authenticates and replaces any existing session.
func (m *SessionManager) Login(username, pin string) (*Session, model.Account, error) {
	acc, err := m.ledger.Authenticate(username, pin)
	if err != nil {
		return nil, model.Account{}, err
	}

	s := &Session{
		ID:        uuid.NewString(),
		Username:  acc.Username,
		StartedAt: time.Now(),
	}
	id := s.ID
	s.timer = NewSessionTimer(m.ticker, m.interval,
		func(display string) {
			if m.hooks.OnTick != nil {
				m.hooks.OnTick(id, display)
			}
		},
		func() { m.expire(id) },
	)

	m.mu.Lock()
	prev := m.current
	m.current = s
	m.mu.Unlock()

	if prev != nil {
		prev.timer.Stop()
		logger.Log.WithField("username", prev.Username).Info("Session replaced by new login")
	}
	logger.Log.WithFields(logrus.Fields{
		"username":   s.Username,
		"session_id": s.ID,
	}).Info("Session started")

	s.timer.Start(m.timeout)
	return s, acc, nil
}

func (m *SessionManager) expire(sessionID string) {
	m.mu.Lock()
	s := m.current
	if s == nil || s.ID != sessionID {
		m.mu.Unlock()
		return
	}
	m.current = nil
	m.mu.Unlock()

	logger.Log.WithFields(logrus.Fields{
		"username":   s.Username,
		"session_id": s.ID,
	}).Info("Session expired")
	if m.hooks.OnExpire != nil {
		m.hooks.OnExpire(s.ID, s.Username)
	}
}

// Current returns a copy of the active session.
func (m *SessionManager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// Lookup returns the active session if its ID is sessionID.
func (m *SessionManager) Lookup(sessionID string) (Session, bool) {
	s, ok := m.Current()
	if !ok || s.ID != sessionID {
		return Session{}, false
	}
	return s, true
}

// active returns the current session if its ID is sessionID.
func (m *SessionManager) active(sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.ID != sessionID {
		return nil, ErrNoSession
	}
	return m.current, nil
}

// Logout ends the session. A stale session ID is a no-op.
func (m *SessionManager) Logout(sessionID string) {
	m.mu.Lock()
	s := m.current
	if s == nil || s.ID != sessionID {
		m.mu.Unlock()
		return
	}
	m.current = nil
	m.mu.Unlock()

	s.timer.Stop()
	logger.Log.WithField("username", s.Username).Info("Session ended by logout")
}

// ToggleSort flips the sort flag and returns its new value.
func (m *SessionManager) ToggleSort(sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.ID != sessionID {
		return false, ErrNoSession
	}
	m.current.SortByValue = !m.current.SortByValue
	return m.current.SortByValue, nil
}

// ResetTimer restarts the countdown of the session.
func (m *SessionManager) ResetTimer(sessionID string) error {
	s, err := m.active(sessionID)
	if err != nil {
		return err
	}
	s.timer.Start(m.timeout)
	return nil
}

// touch restarts the timer after a committed operation. The session may
// have been replaced meanwhile; the operation still stands.
func (m *SessionManager) touch(sessionID string) {
	if err := m.ResetTimer(sessionID); err != nil {
		logger.Log.WithField("session_id", sessionID).Debug("Session replaced before timer reset")
	}
}

// Transfer sends money from the session account and resets the timer.
func (m *SessionManager) Transfer(ctx context.Context, sessionID, to, amount string) error {
	s, err := m.active(sessionID)
	if err != nil {
		return err
	}
	if err := m.ledger.Transfer(ctx, s.Username, to, amount); err != nil {
		return err
	}
	m.touch(sessionID)
	return nil
}

// RequestLoan asks for a loan on the session account and resets the timer.
func (m *SessionManager) RequestLoan(ctx context.Context, sessionID, amount string) error {
	s, err := m.active(sessionID)
	if err != nil {
		return err
	}
	if err := m.ledger.RequestLoan(ctx, s.Username, amount); err != nil {
		return err
	}
	m.touch(sessionID)
	return nil
}

// CloseAccount closes the session account and ends the session.
func (m *SessionManager) CloseAccount(ctx context.Context, sessionID, username, pin string) error {
	s, err := m.active(sessionID)
	if err != nil {
		return err
	}
	if err := m.ledger.CloseAccount(ctx, s.Username, username, pin); err != nil {
		return err
	}
	m.mu.Lock()
	if m.current == s {
		m.current = nil
	}
	m.mu.Unlock()
	s.timer.Stop()
	return nil
}

// Account returns the session account.
func (m *SessionManager) Account(sessionID string) (model.Account, error) {
	s, err := m.active(sessionID)
	if err != nil {
		return model.Account{}, err
	}
	return m.ledger.Account(s.Username)
}
