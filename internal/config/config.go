// Package config provides INI-based configuration for the hotspot trainer.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hotspot-trainer/backend/internal/models"
	"gopkg.in/ini.v1"
)

// AppConfig represents the root configuration file
type AppConfig struct {
	// Game rules consumed by the session controller
	Game GameConfig `ini:"Game"`

	// Base station link
	Robot RobotConfig `ini:"Robot"`

	// Server configuration
	Server ServerConfig `ini:"Server"`

	// Storage configuration
	Storage StorageConfig `ini:"Storage"`

	path string `ini:"-"`
}

// GameConfig contains the values the game core needs.
type GameConfig struct {
	UpgradeTrigger       string  `ini:"upgradeTrigger" json:"upgradeTrigger" env:"HOTSPOT_UPGRADE_TRIGGER" comment:"hotspot or level"`
	UpgradeMode          string  `ini:"upgradeMode" json:"upgradeMode" env:"HOTSPOT_UPGRADE_MODE" comment:"left, right, both or distance"`
	MinPowerToMove       int     `ini:"minPowerToMove" json:"minPowerToMove" env:"HOTSPOT_MIN_POWER"`
	MaxPowerToMove       int     `ini:"maxPowerToMove" json:"maxPowerToMove" env:"HOTSPOT_MAX_POWER"`
	TimeLimitMultiplier  float64 `ini:"timeLimitMultiplier" json:"timeLimitMultiplier" env:"HOTSPOT_TIME_LIMIT_MULTIPLIER" comment:"seconds allowed per image"`
	LevelToUnlock        int     `ini:"levelToUnlock" json:"levelToUnlock" comment:"written back by the game"`
	ShowReferenceCreator bool    `ini:"showReferenceCreator" json:"showReferenceCreator"`
	HotspotSize          int     `ini:"hotspotSize" json:"hotspotSize"`
	SourceWidth          int     `ini:"sourceWidth" json:"sourceWidth"`
	SourceHeight         int     `ini:"sourceHeight" json:"sourceHeight"`
}

// RobotConfig contains serial base station settings
type RobotConfig struct {
	BaudRate     int    `ini:"baudRate" env:"HOTSPOT_BAUD_RATE"`
	TimeoutMs    int    `ini:"timeoutMs"`
	VendorMarker string `ini:"vendorMarker" comment:"substring of the port description that marks a base station"`
	VendorID     string `ini:"vendorID"`
	AutoConnect  bool   `ini:"autoConnect" env:"HOTSPOT_AUTO_CONNECT"`
	QueueDepth   int    `ini:"queueDepth"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `ini:"port" env:"PORT"`
	BindAddress  string `ini:"bindAddress" env:"BIND_ADDRESS"`
	EnableCORS   bool   `ini:"enableCORS"`
	AllowOrigins string `ini:"allowOrigins"`
	ReadTimeout  int    `ini:"readTimeoutSeconds"`
	WriteTimeout int    `ini:"writeTimeoutSeconds"`
	IdleTimeout  int    `ini:"idleTimeoutSeconds"`
	BodyLimit    string `ini:"bodyLimit"`
}

// StorageConfig contains history storage settings
type StorageConfig struct {
	DataDirectory   string `ini:"dataDirectory" env:"DATA_DIR"`
	HistoryDatabase string `ini:"historyDatabase"`
	EnableHistory   bool   `ini:"enableHistory" env:"HOTSPOT_ENABLE_HISTORY"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Game: GameConfig{
			UpgradeTrigger:       string(models.TriggerHotspot),
			UpgradeMode:          string(models.ModeBoth),
			MinPowerToMove:       80,
			MaxPowerToMove:       254,
			TimeLimitMultiplier:  2.0,
			LevelToUnlock:        0,
			ShowReferenceCreator: false,
			HotspotSize:          50,
			SourceWidth:          1920,
			SourceHeight:         1020,
		},
		Robot: RobotConfig{
			BaudRate:     115200,
			TimeoutMs:    50,
			VendorMarker: "Silicon Labs",
			VendorID:     "10C4",
			AutoConnect:  true,
			QueueDepth:   8,
		},
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "127.0.0.1",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "1M",
		},
		Storage: StorageConfig{
			DataDirectory:   "./data",
			HistoryDatabase: "history.duckdb",
			EnableHistory:   true,
		},
	}
}

// LoadConfig loads configuration from an INI file, creating it with
// defaults when it does not exist yet.
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()
	config.path = configPath

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		file, err := ini.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := file.MapTo(config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.applyEnvironmentOverrides(); err != nil {
		return nil, err
	}

	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return config, nil
}

// Save writes the configuration to an INI file
func (c *AppConfig) Save(configPath string) error {
	file := ini.Empty()
	if err := ini.ReflectFrom(file, c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	file.Section("").Comment = "Hotspot trainer configuration\nThis file is auto-generated on first run"

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := file.SaveTo(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Path returns the file the configuration was loaded from.
func (c *AppConfig) Path() string {
	return c.path
}

// SaveLevelToUnlock persists the unlock watermark back to the config file.
func (c *AppConfig) SaveLevelToUnlock(level int) error {
	c.Game.LevelToUnlock = level
	if c.path == "" {
		return nil
	}
	return c.Save(c.path)
}

// UpdateGame replaces the game section after validating it and persists it.
func (c *AppConfig) UpdateGame(game GameConfig) error {
	if err := game.Validate(); err != nil {
		return err
	}
	c.Game = game
	if c.path == "" {
		return nil
	}
	return c.Save(c.path)
}

// applyEnvironmentOverrides lets environment variables override file values.
// Unset variables leave the file values intact.
func (c *AppConfig) applyEnvironmentOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
}

// Validate checks every value the game core and robot link consume.
func (c *AppConfig) Validate() error {
	return errors.Join(c.Game.Validate(), c.Robot.Validate())
}

// Validate checks the game section.
func (g GameConfig) Validate() error {
	var errs []error
	if _, err := models.ParseUpgradeTrigger(g.UpgradeTrigger); err != nil {
		errs = append(errs, err)
	}
	if _, err := models.ParseUpgradeMode(g.UpgradeMode); err != nil {
		errs = append(errs, err)
	}
	if g.MinPowerToMove < 0 || g.MinPowerToMove > 255 {
		errs = append(errs, fmt.Errorf("minPowerToMove %d outside [0,255]", g.MinPowerToMove))
	}
	if g.MaxPowerToMove < 0 || g.MaxPowerToMove > 255 {
		errs = append(errs, fmt.Errorf("maxPowerToMove %d outside [0,255]", g.MaxPowerToMove))
	}
	if g.TimeLimitMultiplier < 0 {
		errs = append(errs, fmt.Errorf("timeLimitMultiplier %g is negative", g.TimeLimitMultiplier))
	}
	if g.LevelToUnlock < 0 {
		errs = append(errs, fmt.Errorf("levelToUnlock %d is negative", g.LevelToUnlock))
	}
	return errors.Join(errs...)
}

// Validate checks the robot section.
func (r RobotConfig) Validate() error {
	var errs []error
	if r.BaudRate <= 0 {
		errs = append(errs, fmt.Errorf("baudRate %d must be positive", r.BaudRate))
	}
	if r.TimeoutMs < 0 {
		errs = append(errs, fmt.Errorf("timeoutMs %d is negative", r.TimeoutMs))
	}
	if r.QueueDepth < 1 {
		errs = append(errs, fmt.Errorf("queueDepth %d must be at least 1", r.QueueDepth))
	}
	return errors.Join(errs...)
}

// Timeout returns the serial read timeout.
func (r RobotConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutMs) * time.Millisecond
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Storage.DataDirectory
}

// GetHistoryPath returns the absolute path of the history database
func (c *AppConfig) GetHistoryPath() string {
	if filepath.IsAbs(c.Storage.HistoryDatabase) {
		return c.Storage.HistoryDatabase
	}
	return filepath.Join(c.Storage.DataDirectory, c.Storage.HistoryDatabase)
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	if err := os.MkdirAll(c.Storage.DataDirectory, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.Storage.DataDirectory, err)
	}
	return nil
}
