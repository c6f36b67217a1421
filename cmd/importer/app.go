package main

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-loader/config"
	"github.com/fekuna/omnipos-inventory-loader/internal/database"
	"github.com/fekuna/omnipos-inventory-loader/internal/logger"
	"github.com/fekuna/omnipos-inventory-loader/internal/metrics"
	"github.com/fekuna/omnipos-inventory-loader/internal/metrics/prompush"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app holds what every subcommand needs.
type app struct {
	cfg     *config.Config
	log     logger.ZapLogger
	db      *sqlx.DB
	metrics *metrics.Recorder
}

func bootstrap(ctx context.Context, v *viper.Viper) (*app, error) {
	// 1. Load Configuration
	cfg := config.Load(v)

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
	}
	appLogger := logger.NewZapLogger(logConfig)

	// 3. Connect to Database
	db, err := database.Open(ctx, &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		SQLitePath:      cfg.SQLite.Path,
	})
	if err != nil {
		_ = appLogger.Sync()
		return nil, err
	}
	appLogger.Info("Connected to database", zap.String("driver", database.Dialect(db)))

	// 4. Initialize Metrics
	var backend metrics.Backend
	if cfg.Metrics.PushgatewayURL != "" {
		pb, err := prompush.NewBackend(cfg.Metrics.JobName, cfg.Metrics.PushgatewayURL)
		if err != nil {
			appLogger.Warn("Metrics disabled", zap.Error(err))
		} else {
			backend = pb
		}
	}

	return &app{
		cfg:     cfg,
		log:     appLogger,
		db:      db,
		metrics: metrics.New(backend, cfg.Metrics.JobName),
	}, nil
}

func (a *app) Close() {
	if err := a.metrics.Flush(); err != nil {
		a.log.Warn("Could not push metrics", zap.Error(err))
	}
	_ = a.db.Close()
	_ = a.log.Sync()
}
