// Package app wires configuration, logging, storage, and the aggregation
// service into one shared core used by cmd/dashboard-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/benjamingolder/portfolio-dashboard/internal/common"
	"github.com/benjamingolder/portfolio-dashboard/internal/interfaces"
	"github.com/benjamingolder/portfolio-dashboard/internal/services/aggregate"
	"github.com/benjamingolder/portfolio-dashboard/internal/storage"
)

// App holds all initialized services and shared state.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Source      interfaces.PortfolioSource
	Aggregator  interfaces.AggregationService
	StartupTime time.Time

	refreshCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp loads configuration, initializes the logger and file source, and
// performs the initial portfolio load. configPath may be empty, in which case
// PD_CONFIG and then the binary directory are consulted.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("PD_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "dashboard.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/dashboard.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative data path to binary directory
	if config.Data.Dir != "" && !filepath.IsAbs(config.Data.Dir) {
		if _, err := os.Stat(config.Data.Dir); os.IsNotExist(err) {
			candidate := filepath.Join(binDir, config.Data.Dir)
			if _, err := os.Stat(candidate); err == nil {
				config.Data.Dir = candidate
			}
		}
	}

	logger := common.NewLogger(config.Logging.Level)

	source := storage.NewDirSource(config.Data.Dir, logger)
	aggregator := aggregate.NewService(source, logger)

	// Initial load. A failure here is logged rather than fatal so the server
	// still comes up and serves an empty overview until files appear.
	if err := aggregator.LoadAll(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("Initial portfolio load failed")
	}

	return &App{
		Config:      config,
		Logger:      logger,
		Source:      source,
		Aggregator:  aggregator,
		StartupTime: time.Now(),
	}, nil
}

// Close stops background goroutines.
func (a *App) Close() {
	if a.refreshCancel != nil {
		a.refreshCancel()
		a.refreshCancel = nil
	}
}
