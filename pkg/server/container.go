package server

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"mirror-api/internal/config"
	"mirror-api/internal/handlers"
	"mirror-api/internal/logging"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Handler *handlers.Handler
}

// NewContainer creates a new dependency injection container.
// A nil logger is built from the logging configuration.
func NewContainer(cfg *config.Config, log *logrus.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logging.New(cfg.Log.Level, cfg.Log.Format)
	}

	base := log.WithFields(logrus.Fields{
		"service": cfg.ServiceName,
		"mode":    cfg.DeploymentMode(),
	})

	return &Container{
		Config:  cfg,
		Logger:  log,
		Handler: handlers.NewHandler(cfg, base),
	}, nil
}
