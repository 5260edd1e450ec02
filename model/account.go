package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a ledger account. Movements and MovementsDates are
// index-aligned: entry i of one always belongs to entry i of the other.
type Account struct {
	Owner          string            `json:"owner"`
	Username       string            `json:"username"`
	PINHash        string            `json:"-"`
	Movements      []decimal.Decimal `json:"movements"`
	MovementsDates []time.Time       `json:"movements_dates"`
	InterestRate   decimal.Decimal   `json:"interest_rate"`
	Currency       string            `json:"currency"`
	Locale         string            `json:"locale"`
}

// Balance is the sum of all movements, folded left from zero.
func (a *Account) Balance() decimal.Decimal {
	sum := decimal.Zero
	for _, m := range a.Movements {
		sum = sum.Add(m)
	}
	return sum
}

// Clone returns a deep copy so callers never share the ledger's slices.
func (a *Account) Clone() Account {
	cp := *a
	cp.Movements = append([]decimal.Decimal(nil), a.Movements...)
	cp.MovementsDates = append([]time.Time(nil), a.MovementsDates...)
	return cp
}

// FirstName is the first word of the owner's name, used in greetings.
func (a *Account) FirstName() string {
	for i, r := range a.Owner {
		if r == ' ' {
			return a.Owner[:i]
		}
	}
	return a.Owner
}
