// handlers_robot.go - Base station discovery handlers
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hotspot-trainer/backend/internal/robot"
	"github.com/hotspot-trainer/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// HandleListPorts lists the serial ports and marks base stations.
func (h *Handler) HandleListPorts(c echo.Context) error {
	ports, err := h.scanner.Scan()
	if err != nil {
		return NewInternalError("failed to list serial ports", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ports": ports,
	})
}

// HandleRefreshPorts rescans and swaps in a fresh link. The scan runs on
// the request goroutine; only the swap goes through the session queue.
// The wait ignores request cancellation: once queued, the swap either runs
// or the dispatcher has stopped, and the link that lost is closed here.
func (h *Handler) HandleRefreshPorts(c echo.Context) error {
	link, err := h.scanner.Connect()
	if err != nil {
		link.Close()
		return NewInternalError("failed to scan serial ports", err)
	}

	replaced := make(chan *robot.Link, 1)
	ctx := context.WithoutCancel(c.Request().Context())
	snap, err := h.runner.Do(ctx, func(ctrl *session.Controller) error {
		replaced <- ctrl.ReplaceLink(link)
		return nil
	})

	select {
	case old := <-replaced:
		if cerr := old.Close(); cerr != nil {
			fmt.Printf("[Robot] closing previous link: %v\n", cerr)
		}
	default:
		link.Close()
	}
	if err != nil {
		return FromError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"baseStations": snap.BaseStations,
	})
}
