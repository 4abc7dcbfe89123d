package app

import (
	"context"
	"fmt"

	"buitube/internal/config"
	"buitube/internal/db"
	"buitube/internal/handlers"
	"buitube/internal/logging"

	"github.com/sirupsen/logrus"
)

// Bootstrap runs once per cold start and returns the shared functions.
func Bootstrap(ctx context.Context) (*handlers.Functions, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	awsCfg, err := db.LoadAWSConfig(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load aws config: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"users_table":  cfg.UsersTable,
		"videos_table": cfg.VideosTable,
		"bucket":       cfg.RawVideoBucket,
	}).Debug("functions configured")

	return handlers.NewFromConfig(cfg, awsCfg, logger), logger, nil
}
