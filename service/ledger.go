// file: service/ledger.go

package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"go-bankist/format"
	"go-bankist/logger"
	"go-bankist/model"
	"go-bankist/scheduler"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Deferrer runs a function once after a delay. *scheduler.Scheduler
// implements it.
type Deferrer interface {
	After(delay time.Duration, fn func()) scheduler.EntryID
}

// PinHasher hashes and verifies canonical PIN strings.
type PinHasher interface {
	HashPin(pin string) (string, error)
	CheckPin(pin, hash string) bool
}

// LedgerObserver is told about every committed change, after the ledger
// lock is released.
type LedgerObserver interface {
	MovementAppended(ctx context.Context, username string, amount decimal.Decimal, at time.Time)
	AccountClosed(ctx context.Context, username string)
}

type LedgerOptions struct {
	// LoanDelay is how long an approved loan takes to be credited.
	LoanDelay time.Duration
	// EligibilityRatio is the share of the loan some deposit must reach.
	EligibilityRatio decimal.Decimal
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// NewAccount is the input to Register.
type NewAccount struct {
	Owner        string
	Pin          string
	InterestRate decimal.Decimal
	Currency     string
	Locale       string
	Movements    []decimal.Decimal
	Dates        []time.Time
}

// Ledger owns the active accounts keyed by username.
type Ledger struct {
	pins     PinHasher
	deferrer Deferrer
	opts     LedgerOptions

	mu        sync.Mutex
	accounts  map[string]*model.Account
	observers []LedgerObserver
}

func NewLedger(pins PinHasher, deferrer Deferrer, opts LedgerOptions) *Ledger {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.EligibilityRatio.IsZero() {
		opts.EligibilityRatio = decimal.RequireFromString("0.1")
	}
	return &Ledger{
		pins:     pins,
		deferrer: deferrer,
		opts:     opts,
		accounts: make(map[string]*model.Account),
	}
}

// Subscribe adds an observer for subsequent changes.
func (l *Ledger) Subscribe(o LedgerObserver) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, o)
}

// Username derives the login name: the lowercase first letter of every
// word of the owner's name.
func Username(owner string) string {
	var b strings.Builder
	for _, w := range strings.Fields(owner) {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// canonicalPin parses a PIN as a non-negative integer so that PINs compare
// by numeric value.
func canonicalPin(pin string) (string, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(pin), 10, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatUint(n, 10), true
}

// ParseAmount parses a user-entered amount; anything that is not a
// positive number is ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Register adds a new account. The username is derived from the owner's
// name and must be unused.
func (l *Ledger) Register(in NewAccount) (model.Account, error) {
	username := Username(in.Owner)
	if username == "" {
		return model.Account{}, fail(OpRegister, fmt.Errorf("%w: owner name is empty", ErrInvalidAccount))
	}
	pin, ok := canonicalPin(in.Pin)
	if !ok {
		return model.Account{}, fail(OpRegister, fmt.Errorf("%w: pin must be numeric", ErrInvalidAccount))
	}
	dates := in.Dates
	if dates == nil {
		now := l.opts.Now()
		dates = make([]time.Time, len(in.Movements))
		for i := range dates {
			dates[i] = now
		}
	}
	hash, err := l.pins.HashPin(pin)
	if err != nil {
		return model.Account{}, fail(OpRegister, err)
	}

	acc := model.Account{
		Owner:          strings.TrimSpace(in.Owner),
		Username:       username,
		PINHash:        hash,
		Movements:      append([]decimal.Decimal(nil), in.Movements...),
		MovementsDates: append([]time.Time(nil), dates...),
		InterestRate:   in.InterestRate,
		Currency:       strings.ToUpper(in.Currency),
		Locale:         in.Locale,
	}
	if err := l.Restore(acc); err != nil {
		return model.Account{}, err
	}
	return acc.Clone(), nil
}

// Restore inserts an account whose PIN is already hashed, as loaded from
// the database.
func (l *Ledger) Restore(acc model.Account) error {
	if err := validateAccount(&acc); err != nil {
		return fail(OpRegister, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.accounts[acc.Username]; exists {
		return fail(OpRegister, ErrDuplicateUsername)
	}
	cp := acc.Clone()
	l.accounts[acc.Username] = &cp

	logger.Log.WithFields(logrus.Fields{
		"username":  acc.Username,
		"movements": len(acc.Movements),
		"currency":  acc.Currency,
	}).Info("Account registered")
	return nil
}

func validateAccount(acc *model.Account) error {
	switch {
	case acc.Username == "":
		return fmt.Errorf("%w: empty username", ErrInvalidAccount)
	case acc.PINHash == "":
		return fmt.Errorf("%w: missing pin", ErrInvalidAccount)
	case len(acc.Movements) != len(acc.MovementsDates):
		return fmt.Errorf("%w: %d movements but %d dates", ErrInvalidAccount, len(acc.Movements), len(acc.MovementsDates))
	case !format.ValidCurrency(acc.Currency):
		return fmt.Errorf("%w: unknown currency %q", ErrInvalidAccount, acc.Currency)
	case !format.ValidLocale(acc.Locale):
		return fmt.Errorf("%w: bad locale %q", ErrInvalidAccount, acc.Locale)
	case acc.InterestRate.IsNegative():
		return fmt.Errorf("%w: negative interest rate", ErrInvalidAccount)
	}
	return nil
}

// Authenticate returns the account matching username and pin. Unknown
// users and wrong PINs fail identically.
func (l *Ledger) Authenticate(username, pin string) (model.Account, error) {
	l.mu.Lock()
	acc, ok := l.accounts[username]
	var snapshot model.Account
	if ok {
		snapshot = acc.Clone()
	}
	l.mu.Unlock()

	canonical, numeric := canonicalPin(pin)
	if !ok || !numeric || !l.pins.CheckPin(canonical, snapshot.PINHash) {
		logger.Log.WithField("username", username).Warn("Authentication failed")
		return model.Account{}, fail(OpAuthenticate, ErrAuthFailed)
	}
	return snapshot, nil
}

// Account returns a copy of an active account.
func (l *Ledger) Account(username string) (model.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc, ok := l.accounts[username]
	if !ok {
		return model.Account{}, ErrAccountNotFound
	}
	return acc.Clone(), nil
}

// Accounts returns copies of all active accounts ordered by username.
func (l *Ledger) Accounts() []model.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Account, 0, len(l.accounts))
	for _, a := range l.accounts {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// Transfer moves amount from one account to another. Both movements are
// appended under one lock with the same timestamp, or neither is.
func (l *Ledger) Transfer(ctx context.Context, fromUsername, toUsername, amount string) error {
	log := logger.Log.WithFields(logrus.Fields{
		"from": fromUsername,
		"to":   toUsername,
	})

	amt, err := ParseAmount(amount)
	if err != nil {
		return fail(OpTransfer, err)
	}

	l.mu.Lock()
	sender, ok := l.accounts[fromUsername]
	if !ok {
		l.mu.Unlock()
		return fail(OpTransfer, ErrAccountNotFound)
	}
	if toUsername == fromUsername {
		l.mu.Unlock()
		return fail(OpTransfer, ErrSelfTransfer)
	}
	receiver, ok := l.accounts[toUsername]
	if !ok {
		l.mu.Unlock()
		return fail(OpTransfer, ErrUnknownRecipient)
	}
	if sender.Balance().LessThan(amt) {
		l.mu.Unlock()
		log.WithField("amount", amt.String()).Info("Transfer rejected: insufficient funds")
		return fail(OpTransfer, ErrInsufficientFunds)
	}

	now := l.opts.Now()
	appendMovement(sender, amt.Neg(), now)
	appendMovement(receiver, amt, now)
	observers := l.observers
	l.mu.Unlock()

	log.WithField("amount", amt.String()).Info("Transfer completed")
	for _, o := range observers {
		o.MovementAppended(ctx, fromUsername, amt.Neg(), now)
		o.MovementAppended(ctx, toUsername, amt, now)
	}
	return nil
}

// RequestLoan checks eligibility now and credits the loan after the
// configured delay. The amount is floored to whole units.
func (l *Ledger) RequestLoan(ctx context.Context, username, amount string) error {
	amt, err := ParseAmount(amount)
	if err != nil {
		return fail(OpLoan, err)
	}
	amt = amt.Floor()
	if !amt.IsPositive() {
		return fail(OpLoan, ErrInvalidAmount)
	}
	log := logger.Log.WithFields(logrus.Fields{
		"username": username,
		"amount":   amt.String(),
	})

	l.mu.Lock()
	acc, ok := l.accounts[username]
	if !ok {
		l.mu.Unlock()
		return fail(OpLoan, ErrAccountNotFound)
	}
	threshold := amt.Mul(l.opts.EligibilityRatio)
	eligible := false
	for _, m := range acc.Movements {
		if m.GreaterThanOrEqual(threshold) {
			eligible = true
			break
		}
	}
	l.mu.Unlock()

	if !eligible {
		log.Info("Loan rejected: no qualifying deposit")
		return fail(OpLoan, ErrNotEligible)
	}

	log.WithField("delay", l.opts.LoanDelay.String()).Info("Loan approved, crediting after delay")
	l.deferrer.After(l.opts.LoanDelay, func() {
		l.creditLoan(context.WithoutCancel(ctx), username, amt)
	})
	return nil
}

// creditLoan appends an approved loan. A loan for an account closed in
// the meantime is dropped.
func (l *Ledger) creditLoan(ctx context.Context, username string, amt decimal.Decimal) {
	log := logger.Log.WithFields(logrus.Fields{
		"username": username,
		"amount":   amt.String(),
	})

	l.mu.Lock()
	acc, ok := l.accounts[username]
	if !ok {
		l.mu.Unlock()
		log.Warn("Account closed before loan was credited; loan dropped")
		return
	}
	now := l.opts.Now()
	appendMovement(acc, amt, now)
	observers := l.observers
	l.mu.Unlock()

	log.Info("Loan credited")
	for _, o := range observers {
		o.MovementAppended(ctx, username, amt, now)
	}
}

// CloseAccount removes the current account when the confirmation
// username and PIN both match it.
func (l *Ledger) CloseAccount(ctx context.Context, currentUsername, username, pin string) error {
	l.mu.Lock()
	acc, ok := l.accounts[currentUsername]
	var hash string
	if ok {
		hash = acc.PINHash
	}
	l.mu.Unlock()
	if !ok {
		return fail(OpClose, ErrAccountNotFound)
	}

	canonical, numeric := canonicalPin(pin)
	if username != currentUsername || !numeric || !l.pins.CheckPin(canonical, hash) {
		logger.Log.WithField("username", currentUsername).Warn("Close account rejected: credentials do not match")
		return fail(OpClose, ErrCredentialMismatch)
	}

	l.mu.Lock()
	if _, ok := l.accounts[currentUsername]; !ok {
		l.mu.Unlock()
		return fail(OpClose, ErrAccountNotFound)
	}
	delete(l.accounts, currentUsername)
	observers := l.observers
	l.mu.Unlock()

	logger.Log.WithField("username", currentUsername).Info("Account closed")
	for _, o := range observers {
		o.AccountClosed(ctx, currentUsername)
	}
	return nil
}

func appendMovement(acc *model.Account, amount decimal.Decimal, at time.Time) {
	acc.Movements = append(acc.Movements, amount)
	acc.MovementsDates = append(acc.MovementsDates, at)
}
