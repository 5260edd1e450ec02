package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go-bankist/common"
	"go-bankist/logger"
	"go-bankist/model"
	"go-bankist/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"auth", &service.Failure{Op: service.OpAuthenticate, Err: service.ErrAuthFailed}, http.StatusUnauthorized, service.ErrAuthFailed.Error()},
		{"no session", service.ErrNoSession, http.StatusUnauthorized, service.ErrNoSession.Error()},
		{"invalid amount", &service.Failure{Op: service.OpTransfer, Err: service.ErrInvalidAmount}, http.StatusBadRequest, service.ErrInvalidAmount.Error()},
		{"self transfer", &service.Failure{Op: service.OpTransfer, Err: service.ErrSelfTransfer}, http.StatusBadRequest, service.ErrSelfTransfer.Error()},
		{"insufficient", &service.Failure{Op: service.OpTransfer, Err: service.ErrInsufficientFunds}, http.StatusBadRequest, service.ErrInsufficientFunds.Error()},
		{"not eligible", &service.Failure{Op: service.OpLoan, Err: service.ErrNotEligible}, http.StatusBadRequest, service.ErrNotEligible.Error()},
		{"unknown recipient", &service.Failure{Op: service.OpTransfer, Err: service.ErrUnknownRecipient}, http.StatusNotFound, service.ErrUnknownRecipient.Error()},
		{"mismatch", &service.Failure{Op: service.OpClose, Err: service.ErrCredentialMismatch}, http.StatusForbidden, service.ErrCredentialMismatch.Error()},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "fallback"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			appErr := DomainError(tc.err, "fallback")
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, tc.msg, appErr.Message)
			assert.ErrorIs(t, appErr, tc.err)
		})
	}
}

type stubTokens struct {
	claims *model.AppClaims
	err    error
}

func (s stubTokens) ParseToken(string) (*model.AppClaims, error) {
	return s.claims, s.err
}

type stubSessions map[string]service.Session

func (s stubSessions) Lookup(id string) (service.Session, bool) {
	sess, ok := s[id]
	return sess, ok
}

func TestAuthMiddleware(t *testing.T) {
	live := stubSessions{"s-1": {ID: "s-1", Username: "js"}}
	validClaims := &model.AppClaims{Username: "js", SessionID: "s-1"}

	var gotUser, gotSession string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = r.Context().Value(UsernameKey).(string)
		gotSession, _ = r.Context().Value(SessionIDKey).(string)
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		tokens stubTokens
		code   int
	}{
		{"missing header", "", stubTokens{claims: validClaims}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", stubTokens{claims: validClaims}, http.StatusUnauthorized},
		{"bad token", "Bearer abc", stubTokens{err: service.ErrInvalidToken}, http.StatusUnauthorized},
		{"ended session", "Bearer abc", stubTokens{claims: &model.AppClaims{Username: "js", SessionID: "old"}}, http.StatusUnauthorized},
		{"other user", "Bearer abc", stubTokens{claims: &model.AppClaims{Username: "jd", SessionID: "s-1"}}, http.StatusUnauthorized},
		{"valid", "Bearer abc", stubTokens{claims: validClaims}, http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotUser, gotSession = "", ""
			req := httptest.NewRequest(http.MethodGet, "/api/statement", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			AuthMiddleware(tc.tokens, live)(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.code, rr.Code)
			if tc.code == http.StatusNoContent {
				assert.Equal(t, "js", gotUser)
				assert.Equal(t, "s-1", gotSession)
				return
			}
			var body common.AppError
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
			assert.Empty(t, gotUser)
		})
	}
}

func TestErrorHandlingMiddleware(t *testing.T) {
	h := ErrorHandlingMiddleware(func(w http.ResponseWriter, r *http.Request) *common.AppError {
		return common.NewAppError(http.StatusTeapot, "short and stout", nil)
	})
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.JSONEq(t, `{"code":418,"message":"short and stout"}`, rr.Body.String())
}
