// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/hotspot-trainer/backend/internal/models"
	"github.com/hotspot-trainer/backend/internal/robot"
	"github.com/hotspot-trainer/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// SessionHandler handles the game session for the renderer
type SessionHandler interface {
	HandleGetSession(c echo.Context) error
	HandleSelectContent(c echo.Context) error
	HandleStartGame(c echo.Context) error
	HandleMouseInput(c echo.Context) error
	HandleKeyInput(c echo.Context) error
	HandleChoice(c echo.Context) error
	HandleReturnHome(c echo.Context) error
	HandleTick(c echo.Context) error
	HandleFrame(c echo.Context) error
}

// RobotHandler handles base station discovery
type RobotHandler interface {
	HandleListPorts(c echo.Context) error
	HandleRefreshPorts(c echo.Context) error
}

// SettingsHandler handles the game settings
type SettingsHandler interface {
	HandleGetSettings(c echo.Context) error
	HandleUpdateSettings(c echo.Context) error
}

// HistoryHandler handles the attempt history
type HistoryHandler interface {
	HandleGetHistory(c echo.Context) error
	HandleGetHistoryMsgpack(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// SessionRunner serializes access to the session controller.
// *session.Dispatcher implements it.
type SessionRunner interface {
	Dispatch(ctx context.Context, ev models.Event) (models.SessionSnapshot, error)
	Do(ctx context.Context, fn func(*session.Controller) error) (models.SessionSnapshot, error)
	Snapshot(ctx context.Context) (models.SessionSnapshot, error)
	Subscribe() (<-chan models.SessionSnapshot, func())
}

// PortScanner finds and opens base stations.
// *robot.Scanner implements it.
type PortScanner interface {
	Scan() ([]robot.PortInfo, error)
	Connect() (*robot.Link, error)
}

// HistoryReader reads the attempt history.
type HistoryReader interface {
	ListAttempts(ctx context.Context, runID string, limit int) ([]models.LevelAttempt, error)
}
