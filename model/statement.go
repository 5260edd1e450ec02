package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	Deposit    MovementType = "deposit"
	Withdrawal MovementType = "withdrawal"
)

// TypeOf classifies a movement. Zero counts as a withdrawal.
func TypeOf(v decimal.Decimal) MovementType {
	if v.IsPositive() {
		return Deposit
	}
	return Withdrawal
}

// Row is one display-ready movement.
type Row struct {
	Number        int             `json:"number"`
	Type          MovementType    `json:"type"`
	Label         string          `json:"label"`
	Value         decimal.Decimal `json:"value"`
	Date          time.Time       `json:"date"`
	DateDisplay   string          `json:"date_display"`
	AmountDisplay string          `json:"amount_display"`
}

// Summary holds the raw in/out/interest totals of an account.
type Summary struct {
	In       decimal.Decimal `json:"in"`
	Out      decimal.Decimal `json:"out"`
	Interest decimal.Decimal `json:"interest"`
}

// SummaryDisplay is Summary formatted for the account's locale.
type SummaryDisplay struct {
	In       string `json:"in"`
	Out      string `json:"out"`
	Interest string `json:"interest"`
}

// Statement is everything a host needs to render the account view.
type Statement struct {
	Owner    string         `json:"owner"`
	Username string         `json:"username"`
	Welcome  string         `json:"welcome"`
	AsOf     string         `json:"as_of"`
	Balance  string         `json:"balance"`
	Summary  SummaryDisplay `json:"summary"`
	Rows     []Row          `json:"rows"`
	Sorted   bool           `json:"sorted"`
}

// View tells the host whether the authenticated UI should be shown.
type View string

const (
	ViewHidden  View = "hidden"
	ViewVisible View = "visible"
)
