package rest

import (
	"context"
	"net/http"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthCheck probes one dependency for the readiness endpoint.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthChecks is the set of probes run by GetReadiness.
type HealthChecks []HealthCheck

// Version is the build version reported by the health endpoints.
type Version string

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

type HealthHandler struct {
	*BaseHandler
	version string
	checks  HealthChecks
}

func NewHealthHandler(base *BaseHandler, version Version, checks HealthChecks) *HealthHandler {
	return &HealthHandler{
		BaseHandler: base,
		version:     string(version),
		checks:      checks,
	}
}

// GetLiveness has no dependencies: if we can respond, we're alive.
func (h *HealthHandler) GetLiveness(w http.ResponseWriter, r *http.Request) {
	h.WriteJSONResponse(w, r, HealthResponse{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Version:   h.version,
	}, http.StatusOK)
}

// GetReadiness pings every dependency and answers 503 if any is down.
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Version:   h.version,
		Checks:    make(map[string]string, len(h.checks)),
	}
	status := http.StatusOK

	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := check.Ping(ctx)
		cancel()

		if err != nil {
			h.logger.Warn(r.Context(), "readiness check failed", "check", check.Name, "error", err)
			resp.Checks[check.Name] = "down"
			resp.Status = StatusUnhealthy
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[check.Name] = "up"
	}

	h.WriteJSONResponse(w, r, resp, status)
}
