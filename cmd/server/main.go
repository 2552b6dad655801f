package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hotspot-trainer/backend/internal/api"
	"github.com/hotspot-trainer/backend/internal/config"
	"github.com/hotspot-trainer/backend/internal/content"
	"github.com/hotspot-trainer/backend/internal/models"
	"github.com/hotspot-trainer/backend/internal/robot"
	"github.com/hotspot-trainer/backend/internal/session"
	"github.com/hotspot-trainer/backend/internal/storage"
	"github.com/hotspot-trainer/backend/internal/web"
	"github.com/labstack/echo/v4"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	configPath := filepath.Join(exeDir, "hotspot-trainer.ini")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	embeddedMode := web.HasEmbeddedFiles()

	// Attempt history
	var history storage.Store
	if cfg.Storage.EnableHistory {
		store, err := storage.NewDuckStore(cfg.GetHistoryPath())
		if err != nil {
			fmt.Printf("Warning: history disabled: %v\n", err)
		} else {
			history = store
			defer store.Close()
		}
	}

	// Base stations
	scanner := robot.NewScanner(robot.Options{
		BaudRate:     cfg.Robot.BaudRate,
		Timeout:      cfg.Robot.Timeout(),
		VendorMarker: cfg.Robot.VendorMarker,
		VendorID:     cfg.Robot.VendorID,
		QueueDepth:   cfg.Robot.QueueDepth,
	})
	var link *robot.Link
	if cfg.Robot.AutoConnect {
		link, err = scanner.Connect()
		if err != nil {
			fmt.Printf("Warning: base station scan failed: %v\n", err)
		}
	}

	// Session controller
	settings, err := session.NewSettings(cfg.Game)
	if err != nil {
		fmt.Printf("Invalid game settings: %v\n", err)
		os.Exit(1)
	}
	mode, err := models.ParseUpgradeMode(cfg.Game.UpgradeMode)
	if err != nil {
		fmt.Printf("Invalid game settings: %v\n", err)
		os.Exit(1)
	}
	power := robot.NewPowerModel(mode, cfg.Game.MinPowerToMove, cfg.Game.MaxPowerToMove, nil)

	opts := []session.Option{session.WithProgressStore(cfg)}
	if history != nil {
		opts = append(opts, session.WithHistory(history))
	}
	ctrl := session.NewController(settings, content.NewLoader(), power, opts...)
	ctrl.ReplaceLink(link)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := session.NewDispatcher(ctrl, 64)
	dispatcherDone := make(chan struct{})
	go func() {
		dispatcher.Run(ctx)
		close(dispatcherDone)
	}()

	deps := &api.Dependencies{
		Runner:  dispatcher,
		Scanner: scanner,
		Config:  cfg,
		Version: Version,
	}
	if history != nil {
		deps.History = history
	}

	e := echo.New()
	e.HideBanner = true
	api.SetupMiddleware(e, cfg.Server)
	api.RegisterRoutes(e, api.NewHandlers(deps))

	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			fmt.Printf("Warning: failed to register static routes: %v\n", err)
		} else {
			fmt.Println("Serving embedded renderer from binary")
		}
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	runMode := "Headless (API only)"
	if embeddedMode {
		runMode = "Embedded renderer"
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Hotspot Trainer Server                          ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Mode:       %-45s║\n", runMode)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Data Dir:  %-46s║\n", cfg.GetDataDir())
	fmt.Printf("║  Stations:  %-46d║\n", link.Len())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	go func() {
		if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("Server error: %v\n", err)
			stop()
		}
	}()

	<-ctx.Done()
	fmt.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Shutdown error: %v\n", err)
	}

	<-dispatcherDone
	if err := ctrl.ReplaceLink(nil).Close(); err != nil {
		fmt.Printf("Closing base stations: %v\n", err)
	}
}
