// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"net/http"
	"strings"

	"github.com/hotspot-trainer/backend/internal/config"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Runner  SessionRunner
	Scanner PortScanner
	History HistoryReader
	Config  *config.AppConfig
	Version string
}

// Handlers holds all handler instances
type Handlers struct {
	Health    HealthHandler
	Session   SessionHandler
	Robot     RobotHandler
	Settings  SettingsHandler
	History   HistoryHandler
	WebSocket *WebSocketHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	h := NewHandler(deps.Runner, deps.Scanner, deps.History, deps.Config)
	return &Handlers{
		Health:    NewHealthHandler(deps.Version, deps.Runner),
		Session:   h,
		Robot:     h,
		Settings:  h,
		History:   h,
		WebSocket: NewWebSocketHandler(deps.Runner),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Game session
	sessionGroup := apiGroup.Group("/session")
	sessionGroup.GET("", handlers.Session.HandleGetSession)
	sessionGroup.POST("/content", handlers.Session.HandleSelectContent)
	sessionGroup.POST("/start", handlers.Session.HandleStartGame)
	sessionGroup.POST("/input/mouse", handlers.Session.HandleMouseInput)
	sessionGroup.POST("/input/key", handlers.Session.HandleKeyInput)
	sessionGroup.POST("/choice", handlers.Session.HandleChoice)
	sessionGroup.POST("/home", handlers.Session.HandleReturnHome)
	sessionGroup.POST("/tick", handlers.Session.HandleTick)
	sessionGroup.GET("/frame", handlers.Session.HandleFrame)
	sessionGroup.GET("/frame/:index", handlers.Session.HandleFrame)

	// Base stations
	apiGroup.GET("/robot/ports", handlers.Robot.HandleListPorts)
	apiGroup.POST("/robot/refresh", handlers.Robot.HandleRefreshPorts)

	// Settings
	apiGroup.GET("/settings", handlers.Settings.HandleGetSettings)
	apiGroup.PUT("/settings", handlers.Settings.HandleUpdateSettings)

	// Attempt history
	apiGroup.GET("/history", handlers.History.HandleGetHistory)
	apiGroup.GET("/history/msgpack", handlers.History.HandleGetHistoryMsgpack)

	// Snapshot stream
	apiGroup.GET("/ws", handlers.WebSocket.HandleWebSocket)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, cfg config.ServerConfig) {
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/api/session/tick" || path == "/api/health" || path == "/api/ws"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	if cfg.EnableCORS {
		origins := strings.Split(cfg.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}
}
