// handler/health_handler_test.go
package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	t.Run("in memory only", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/health", nil)
		rr := httptest.NewRecorder()

		NewHealthHandler(nil).HealthCheck(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"Bankist is up"}`, rr.Body.String())
	})

	t.Run("postgres reachable redis down", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		dbMock.ExpectPing()

		h := NewHealthHandler(map[string]HealthCheckFunc{
			"postgres": db.PingContext,
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})
		req, _ := http.NewRequest("GET", "/health", nil)
		rr := httptest.NewRecorder()

		h.HealthCheck(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.JSONEq(t, `{"status":"degraded","checks":{"postgres":"ok","redis":"unavailable"}}`, rr.Body.String())
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}
