package service

import (
	"errors"
	"fmt"
	"go-bankist/logger"
	"go-bankist/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService hashes PINs and signs session tokens.
type AuthService struct {
	secret   []byte
	hashCost int
}

// NewAuthService creates an AuthService. A cost outside bcrypt's range
// falls back to bcrypt.DefaultCost.
func NewAuthService(secret string, hashCost int) *AuthService {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &AuthService{secret: []byte(secret), hashCost: hashCost}
}

func (s *AuthService) HashPin(pin string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), s.hashCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash pin")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPin(pin, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
	return err == nil
}

// GenerateToken signs a token bound to one session.
func (s *AuthService) GenerateToken(username, sessionID string, expiresAt time.Time) (string, error) {
	claims := &model.AppClaims{
		Username:  username,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		logger.Log.WithError(err).WithField("username", username).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

// ParseToken validates the signature and expiry of tokenString.
func (s *AuthService) ParseToken(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
