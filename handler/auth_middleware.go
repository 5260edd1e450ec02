package handler

import (
	"context"
	"net/http"
	"strings"

	"go-bankist/common"
	"go-bankist/model"
	"go-bankist/service"
)

type contextKey string

const (
	UsernameKey  contextKey = "username"
	SessionIDKey contextKey = "sessionID"
)

// TokenParser validates bearer tokens. *service.AuthService implements it.
type TokenParser interface {
	ParseToken(tokenString string) (*model.AppClaims, error)
}

// SessionLookup finds the live session a token refers to.
type SessionLookup interface {
	Lookup(sessionID string) (service.Session, bool)
}

// AuthMiddleware accepts a request only when its token is valid and names
// the session that is currently active.
func AuthMiddleware(tokens TokenParser, sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil).Send(w)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil).Send(w)
				return
			}

			claims, err := tokens.ParseToken(headerParts[1])
			if err != nil {
				common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", err).Send(w)
				return
			}

			session, ok := sessions.Lookup(claims.SessionID)
			if !ok || session.Username != claims.Username {
				common.NewAppError(http.StatusUnauthorized, "Session has ended", service.ErrNoSession).Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), UsernameKey, claims.Username)
			ctx = context.WithValue(ctx, SessionIDKey, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionID(r *http.Request) (string, *common.AppError) {
	id, ok := r.Context().Value(SessionIDKey).(string)
	if !ok || id == "" {
		return "", common.NewAppError(http.StatusUnauthorized, "Invalid session in token", nil)
	}
	return id, nil
}
