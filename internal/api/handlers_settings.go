// handlers_settings.go - Game settings handlers
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hotspot-trainer/backend/internal/config"
	"github.com/hotspot-trainer/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// HandleGetSettings returns the game section of the configuration.
func (h *Handler) HandleGetSettings(c echo.Context) error {
	var game config.GameConfig
	_, err := h.runner.Do(c.Request().Context(), func(*session.Controller) error {
		game = h.cfg.Game
		return nil
	})
	if err != nil {
		return FromError(err)
	}
	return c.JSON(http.StatusOK, game)
}

// HandleUpdateSettings validates, applies and persists new game settings.
// Fields missing from the body keep their value. The merge happens on the
// session goroutine, which also writes the unlock watermark, so concurrent
// updates cannot drop each other's fields.
func (h *Handler) HandleUpdateSettings(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return NewBadRequestError("invalid request", err)
	}
	if !json.Valid(body) {
		return NewBadRequestError("invalid request", errors.New("body is not valid JSON"))
	}

	var game config.GameConfig
	_, err = h.runner.Do(c.Request().Context(), func(ctrl *session.Controller) error {
		game = h.cfg.Game
		if err := json.Unmarshal(body, &game); err != nil {
			return NewBadRequestError("invalid request", err)
		}
		if err := game.Validate(); err != nil {
			return NewBadRequestError("invalid settings", err)
		}
		if err := ctrl.ApplySettings(game); err != nil {
			return err
		}
		// The controller may have clamped the watermark to the content.
		game.LevelToUnlock = ctrl.Snapshot().LevelToUnlock
		if err := h.cfg.UpdateGame(game); err != nil {
			return NewInternalError("failed to save settings", err)
		}
		return nil
	})
	if err != nil {
		return FromError(err)
	}
	return c.JSON(http.StatusOK, game)
}
