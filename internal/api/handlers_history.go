// handlers_history.go - Attempt history handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/hotspot-trainer/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

const defaultHistoryLimit = 100

func (h *Handler) listAttempts(c echo.Context) ([]models.LevelAttempt, error) {
	if h.history == nil {
		return nil, NewServiceUnavailableError("history is disabled")
	}

	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, NewValidationError("limit")
		}
		limit = n
	}

	attempts, err := h.history.ListAttempts(c.Request().Context(), c.QueryParam("runId"), limit)
	if err != nil {
		return nil, NewInternalError("failed to read history", err)
	}
	return attempts, nil
}

// HandleGetHistory returns the newest attempts as JSON.
func (h *Handler) HandleGetHistory(c echo.Context) error {
	attempts, err := h.listAttempts(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"attempts": attempts,
		"total":    len(attempts),
	})
}

// HandleGetHistoryMsgpack returns the newest attempts as MessagePack.
func (h *Handler) HandleGetHistoryMsgpack(c echo.Context) error {
	attempts, err := h.listAttempts(c)
	if err != nil {
		return err
	}

	data, err := msgpack.Marshal(map[string]interface{}{
		"attempts": attempts,
		"total":    len(attempts),
	})
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}
