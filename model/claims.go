package model

import "github.com/golang-jwt/jwt/v5"

type AppClaims struct {
	Username  string `json:"username"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}
