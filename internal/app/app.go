// Package app assembles the service from its configuration. The HTTP server,
// the serverless entry point and the CLI share it.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arnavshah/fence-patrol-api/internal/roster"
	"github.com/arnavshah/fence-patrol-api/pkg/auth"
	"github.com/arnavshah/fence-patrol-api/pkg/config"
	"github.com/arnavshah/fence-patrol-api/pkg/database"
	"github.com/arnavshah/fence-patrol-api/pkg/handlers"
	"github.com/arnavshah/fence-patrol-api/pkg/metrics"
	"github.com/arnavshah/fence-patrol-api/pkg/scheduler"
	"github.com/arnavshah/fence-patrol-api/pkg/store"
)

// App holds the long-lived dependencies of a running service
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *gorm.DB
	Store  store.Store
	Auth   *auth.Service
	Roster *roster.Service
}

// New opens the database and the configured store, bootstraps the admin user
// and builds the roster service. Metrics are registered with reg unless it is nil.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, reg prometheus.Registerer) (*App, error) {
	db, err := database.Open(cfg.Store.DatabaseURL, cfg.Store.DataPath)
	if err != nil {
		return nil, err
	}

	created, err := auth.EnsureAdminExists(db, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("failed to bootstrap admin user: %w", err)
	}
	if created {
		logger.Info("default admin user created", zap.String("username", cfg.Auth.AdminUsername))
	}
	if cfg.Auth.JWTSecret == "" || cfg.Auth.APIMasterSecret == "" {
		logger.Warn("JWT_SECRET or API_MASTER_SECRET is empty; tokens and API keys are not secure")
	}

	s, err := store.New(ctx, cfg.Store, cfg.Environment, db)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	var collector metrics.Collector = metrics.Nop{}
	if reg != nil {
		collector = metrics.NewPrometheus(reg, "")
	}
	svc, err := NewRoster(cfg, s, logger, collector)
	if err != nil {
		s.Close()
		closeDB(db)
		return nil, err
	}

	return &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Store:  s,
		Auth:   auth.NewService(cfg.Auth),
		Roster: svc,
	}, nil
}

// NewRoster builds a roster service over s using the scheduling section of cfg
func NewRoster(cfg *config.Config, s store.Store, logger *zap.Logger, collector metrics.Collector) (*roster.Service, error) {
	sched, err := scheduler.New(cfg.SchedulerOptions())
	if err != nil {
		return nil, err
	}
	return roster.New(s, sched, logger, collector), nil
}

// OpenStore opens only the configured store, connecting to the database
// when the sql backend needs it. The returned close func releases both.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, func() error, error) {
	var db *gorm.DB
	if cfg.Store.Backend == config.BackendSQL {
		var err error
		if db, err = database.Open(cfg.Store.DatabaseURL, cfg.Store.DataPath); err != nil {
			return nil, nil, err
		}
	}
	s, err := store.New(ctx, cfg.Store, cfg.Environment, db)
	if err != nil {
		closeDB(db)
		return nil, nil, err
	}
	return s, func() error {
		return errors.Join(s.Close(), closeDB(db))
	}, nil
}

// Router builds the HTTP routes. Metrics are served from gatherer.
func (a *App) Router(gatherer prometheus.Gatherer) *gin.Engine {
	h := &handlers.Handler{
		DB:     a.DB,
		Roster: a.Roster,
		Auth:   a.Auth,
		Logger: a.Logger,
	}
	return handlers.NewRouter(h, a.Config.CORSOrigins, gatherer)
}

// Close releases the store and the database connection
func (a *App) Close() error {
	return errors.Join(a.Store.Close(), closeDB(a.DB))
}

func closeDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
