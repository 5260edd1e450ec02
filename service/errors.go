// file: service/errors.go

package service

import "errors"

var (
	ErrAuthFailed         = errors.New("invalid username or pin")
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrUnknownRecipient   = errors.New("recipient account not found")
	ErrSelfTransfer       = errors.New("cannot transfer money to the same account")
	ErrNotEligible        = errors.New("no deposit of at least 10% of the requested loan")
	ErrCredentialMismatch = errors.New("username or pin does not match the account")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateUsername  = errors.New("username already in use")
	ErrInvalidAccount     = errors.New("invalid account data")
	ErrNoSession          = errors.New("no active session")
)

// Op names the ledger operation a Failure came from.
type Op string

const (
	OpRegister     Op = "register"
	OpAuthenticate Op = "authenticate"
	OpTransfer     Op = "transfer"
	OpLoan         Op = "loan"
	OpClose        Op = "close"
)

// Failure is a recoverable domain outcome. Nothing was mutated.
type Failure struct {
	Op  Op
	Err error
}

func (f *Failure) Error() string {
	return string(f.Op) + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func fail(op Op, err error) error {
	return &Failure{Op: op, Err: err}
}
