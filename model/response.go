package model

import "time"

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	View      View      `json:"view"`
	Welcome   string    `json:"welcome"`
	Timer     string    `json:"timer"`
	Statement Statement `json:"statement"`
}

// ViewResponse tells the host which view to show after a state change.
type ViewResponse struct {
	View    View   `json:"view"`
	Message string `json:"message"`
}

// SessionResponse describes the active session and its countdown.
type SessionResponse struct {
	Username string `json:"username"`
	Timer    string `json:"timer"`
	State    string `json:"state"`
	Sorted   bool   `json:"sorted"`
}

// LoanResponse acknowledges an approved loan that is not credited yet.
type LoanResponse struct {
	Message    string `json:"message"`
	CreditedIn string `json:"credited_in"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
