package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hotspot-trainer/backend/internal/config"
	"github.com/hotspot-trainer/backend/internal/models"
	"github.com/hotspot-trainer/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// Handler handles API requests.
type Handler struct {
	runner  SessionRunner
	scanner PortScanner
	history HistoryReader
	cfg     *config.AppConfig
}

// NewHandler creates a new API handler. history may be nil when the
// history store is disabled.
func NewHandler(runner SessionRunner, scanner PortScanner, history HistoryReader, cfg *config.AppConfig) *Handler {
	return &Handler{
		runner:  runner,
		scanner: scanner,
		history: history,
		cfg:     cfg,
	}
}

// dispatch applies ev and answers with the snapshot after it.
func (h *Handler) dispatch(c echo.Context, ev models.Event) error {
	snap, err := h.runner.Dispatch(c.Request().Context(), ev)
	if err != nil {
		return FromError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

// HandleGetSession returns the current session snapshot.
func (h *Handler) HandleGetSession(c echo.Context) error {
	snap, err := h.runner.Snapshot(c.Request().Context())
	if err != nil {
		return FromError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

// HandleSelectContent points the session at a content folder.
func (h *Handler) HandleSelectContent(c echo.Context) error {
	var req models.SelectContent
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request", err)
	}
	if req.Folder == "" {
		return NewValidationError("folder")
	}
	return h.dispatch(c, req)
}

// HandleStartGame starts a run.
func (h *Handler) HandleStartGame(c echo.Context) error {
	return h.dispatch(c, models.StartGame{})
}

// HandleMouseInput submits a click. The renderer has already hit-tested it.
func (h *Handler) HandleMouseInput(c echo.Context) error {
	var req models.MouseInput
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request", err)
	}
	if !req.Button.Valid() {
		return NewValidationError("button")
	}
	return h.dispatch(c, req)
}

// HandleKeyInput submits a key press.
func (h *Handler) HandleKeyInput(c echo.Context) error {
	var req models.KeyInput
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request", err)
	}
	return h.dispatch(c, req)
}

// HandleChoice answers the pending prompt.
func (h *Handler) HandleChoice(c echo.Context) error {
	var req models.UserChoice
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request", err)
	}
	if req.Choice == "" {
		return NewValidationError("choice")
	}
	return h.dispatch(c, req)
}

// HandleReturnHome abandons play.
func (h *Handler) HandleReturnHome(c echo.Context) error {
	return h.dispatch(c, models.ReturnHome{})
}

// HandleTick refreshes the elapsed time.
func (h *Handler) HandleTick(c echo.Context) error {
	return h.dispatch(c, models.TimerTick{At: time.Now()})
}

// HandleFrame serves a PNG frame of the resident level. Without an index
// it serves the frame the player is on, which is the completion screen
// once the level is finished.
func (h *Handler) HandleFrame(c echo.Context) error {
	index := -1
	if raw := c.Param("index"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return NewValidationError("index")
		}
		index = n
	}

	var path string
	snap, err := h.runner.Do(c.Request().Context(), func(ctrl *session.Controller) error {
		level := ctrl.Level()
		if level == nil {
			return nil
		}
		i := index
		if i < 0 {
			i = ctrl.Snapshot().CurrentImageNumber
		}
		if i < len(level.Images) {
			path = level.Images[i]
		}
		return nil
	})
	if err != nil {
		return FromError(err)
	}
	if path == "" {
		return NewNotFoundError("frame", fmt.Sprintf("%s/%d", snap.LevelName, index))
	}

	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.File(path)
}
