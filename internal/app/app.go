package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/config"
	"github.com/inkpress/core/internal/database"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/pkg/jwt"
	"github.com/inkpress/core/internal/pkg/mail"
	pkgredis "github.com/inkpress/core/internal/pkg/redis"
	"github.com/inkpress/core/internal/pkg/sessions"
	"github.com/inkpress/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg      *config.AppConfig
	router   *gin.Engine
	db       *gorm.DB
	rc       *pkgredis.Client
	registry *sessions.Registry
	ledger   *sessions.Ledger
	queue    *taskqueue.Queue
	sender   *mail.Sender
	logger   *zap.Logger
}

// New initializes the application: config → DB → Redis → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	jwt.SetSecret(cfg.JWTSecret)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	ledger := sessions.NewLedger(rc)
	registry := sessions.NewRegistry(rc, ledger, logger)
	queue := taskqueue.New(rc, logger)
	sender := mail.New(cfg.Mail)

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	app := &App{
		cfg:      cfg,
		router:   router,
		db:       db,
		rc:       rc,
		registry: registry,
		ledger:   ledger,
		queue:    queue,
		sender:   sender,
		logger:   logger,
	}
	app.registerRoutes()
	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// StartWorkers launches the background task consumer. It stops when
// ctx is cancelled.
func (a *App) StartWorkers(ctx context.Context) {
	go a.queue.Run(ctx)
}
