package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"go-bankist/common"
	"go-bankist/logger"
	"go-bankist/model"
)

// HealthCheckFunc probes one backing service.
type HealthCheckFunc func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]HealthCheckFunc
	timeout time.Duration
}

// NewHealthHandler reports on the optional backing services. With no
// checks the ledger is purely in memory and always healthy.
func NewHealthHandler(checks map[string]HealthCheckFunc) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// HealthCheck godoc
// @Summary      Show the status of server
// @Description  Reports liveness and the state of Postgres and Redis when they are configured
// @Tags         health
// @Produce      json
// @Success      200  {object}  model.HealthResponse
// @Failure      503  {object}  model.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := model.HealthResponse{Status: "Bankist is up"}
	code := http.StatusOK

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if resp.Checks == nil {
			resp.Checks = make(map[string]string, len(names))
		}
		if err := h.checks[name](ctx); err != nil {
			logger.Log.WithError(err).WithField("check", name).Warn("Health check failed")
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	common.WriteJSON(w, code, resp)
}
