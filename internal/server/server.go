package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/orderdesk/apiserver/config"
	"github.com/orderdesk/apiserver/internal/db"
	"github.com/orderdesk/apiserver/internal/handlers"
	"github.com/orderdesk/apiserver/internal/logger"
	"github.com/orderdesk/apiserver/internal/metrics"
	"github.com/orderdesk/apiserver/internal/mq"
	"github.com/orderdesk/apiserver/internal/services"
	"github.com/orderdesk/apiserver/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const requestTimeout = 60 * time.Second

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	events     *mq.MQ
	log        *zap.Logger
}

// Deps are the collaborators NewRouter wires together.
type Deps struct {
	Config  config.Config
	DB      *gorm.DB
	Pinger  handlers.Pinger
	Events  services.EventPublisher
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// New connects to the database and message queue and builds the router.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*Server, error) {
	sqlDB, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	gormDB, err := db.OpenGorm(sqlDB, cfg.Database.LogLevel)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	events, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	router := NewRouter(Deps{
		Config:  cfg,
		DB:      gormDB,
		Pinger:  sqlDB,
		Events:  events,
		Metrics: metrics.New(cfg.ProjectName),
		Logger:  log,
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         sqlDB,
		events:     events,
		log:        log,
	}, nil
}

// NewRouter builds the middleware stack, the health and metrics endpoints
// and the versioned resource routes.
func NewRouter(deps Deps) *chi.Mux {
	svcOpts := services.Options{Events: deps.Events, Metrics: deps.Metrics}
	svc := handlers.Services{
		Users:    services.NewUserService(store.NewUserRepository(deps.DB), svcOpts),
		Products: services.NewProductService(store.NewProductRepository(deps.DB), svcOpts),
		Orders:   services.NewOrderService(store.NewOrderRepository(deps.DB), svcOpts),
	}

	router := chi.NewRouter()
	router.Use(
		logger.Middleware(deps.Logger),
		middleware.RealIP,
		middleware.Recoverer,
		deps.Metrics.Middleware,
		middleware.Timeout(requestTimeout),
	)
	if len(deps.Config.CORSOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.Config.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/healthz", handlers.Healthz(deps.Pinger))
	router.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	router.Route(deps.Config.APIPrefix, func(r chi.Router) {
		handlers.Routes(r, svc)
	})
	return router
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then closes the broker and database.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.events != nil {
		if closeErr := s.events.Close(); closeErr != nil {
			s.log.Warn("failed to close message queue", zap.Error(closeErr))
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
