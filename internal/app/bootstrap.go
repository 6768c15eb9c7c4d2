package app

import (
	"context"
	"fmt"

	"mediator/internal/backend"
	"mediator/internal/config"
	"mediator/pkg/logging"
)

// Application bundles the loaded configuration and the services built
// from it.
//
// Example usage:
//
//	cfg := app.NewConfig(true, "", "/tmp/status.xml")
//	application, err := app.NewApplication(ctx, cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	value, ok, err := application.Services().Store.Read(ctx, "/interfaces/interface/name")
type Application struct {
	config   *Config
	services *Services
}

// NewApplication performs the bootstrap sequence: logging, configuration,
// command line overrides, services. It returns an error if the
// configuration is invalid or the backend cannot be opened.
func NewApplication(ctx context.Context, cfg *Config) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}
	logging.InitForCLI(appLogLevel, cfg.LogOutput)

	if cfg.MediatorConfig == nil {
		configPath := cfg.ConfigPath
		if configPath == "" {
			configPath = config.GetDefaultConfigPathOrPanic()
		}
		mediatorCfg, err := config.LoadConfig(configPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load mediator configuration from %s", configPath)
			return nil, fmt.Errorf("failed to load mediator configuration from %s: %w", configPath, err)
		}
		cfg.MediatorConfig = &mediatorCfg
	}

	if cfg.StatusFile != "" {
		cfg.MediatorConfig.Status.Driver = string(backend.DriverFilesystem)
		cfg.MediatorConfig.Status.Path = cfg.StatusFile
		logging.Debug("Bootstrap", "Status file overridden on the command line: %s", cfg.StatusFile)
	}

	if !cfg.Debug {
		level, err := logging.ParseLevel(cfg.MediatorConfig.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid logging level: %w", err)
		}
		if level != appLogLevel {
			logging.InitForCLI(level, cfg.LogOutput)
		}
	}

	services, err := InitializeServices(ctx, cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Services returns the initialized services.
func (a *Application) Services() *Services { return a.services }

// Config returns the effective configuration.
func (a *Application) Config() *Config { return a.config }

// Run serves until ctx is cancelled or SIGINT/SIGTERM is received.
func (a *Application) Run(ctx context.Context) error {
	return runServe(ctx, a.config, a.services)
}
