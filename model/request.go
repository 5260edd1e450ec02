// file: model/request.go

package model

// LoginRequest carries the credentials typed into the login form.
// Amount and PIN fields stay strings: the ledger owns numeric parsing so
// a malformed value maps to the same failure as an out-of-range one.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=32"`
	Pin      string `json:"pin" validate:"required,max=12"`
}

// TransferRequest moves money from the session account to another user.
type TransferRequest struct {
	To     string `json:"to" validate:"required,max=32"`
	Amount string `json:"amount" validate:"required"`
}

// LoanRequest asks for a loan credited after the approval delay.
type LoanRequest struct {
	Amount string `json:"amount" validate:"required"`
}

// CloseAccountRequest confirms closure of the session account.
type CloseAccountRequest struct {
	Username string `json:"username" validate:"required,max=32"`
	Pin      string `json:"pin" validate:"required,max=12"`
}
