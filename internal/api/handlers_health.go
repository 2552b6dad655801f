// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	runner  SessionRunner
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, runner SessionRunner) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		runner:  runner,
	}
}

// HandleHealth returns server health status and the connected base stations
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	snap, err := h.runner.Snapshot(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "stopping",
			"version": h.version,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"version":      h.version,
		"state":        snap.State,
		"baseStations": snap.BaseStations,
	})
}
