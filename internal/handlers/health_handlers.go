package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 3 * time.Second

// Pinger is any dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db       Pinger
	redisSvc Pinger
	minioSvc Pinger
	version  string
	started  time.Time
}

// NewHealthHandlers creates a new health handlers instance. A nil cache or
// storage is reported as disabled.
func NewHealthHandlers(db, redisSvc, minioSvc Pinger, version string) *HealthHandlers {
	return &HealthHandlers{
		db:       db,
		redisSvc: redisSvc,
		minioSvc: minioSvc,
		version:  version,
		started:  time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

// HealthCheck reports the state of the database, cache and object storage.
// The database is required; the others only degrade the status.
// @Summary Dependency health
// @Tags health
// @Produce json
// @Success 200 {object} HealthStatus
// @Failure 503 {object} HealthStatus
// @Router /health [get]
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	}

	statusCode := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	} else {
		health.Services["database"] = "healthy"
	}

	for name, dep := range map[string]Pinger{"redis": h.redisSvc, "storage": h.minioSvc} {
		switch {
		case dep == nil:
			health.Services[name] = "disabled"
		case dep.Ping(ctx) != nil:
			health.Services[name] = "unhealthy"
			if health.Status == "healthy" {
				health.Status = "degraded"
			}
		default:
			health.Services[name] = "healthy"
		}
	}

	return c.JSON(statusCode, health)
}
