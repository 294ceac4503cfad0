package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/egor/backoffice/cache"
	"github.com/egor/backoffice/config"
	"github.com/egor/backoffice/database"
	"github.com/egor/backoffice/database/queries"
	"github.com/egor/backoffice/events"
	"github.com/egor/backoffice/handlers"
	"github.com/egor/backoffice/logger"
	"github.com/egor/backoffice/metrics"
	"github.com/egor/backoffice/middleware"
	"github.com/egor/backoffice/service"
	"github.com/egor/backoffice/websocket"
)

func main() {
	cfg := config.MustLoad()

	log := logger.NewZapLogger(logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	store := database.NewStore(db)
	defer store.Close()

	m := metrics.New("backoffice")

	// change events: websocket dashboards always, NATS and the stats cache
	// when configured
	dispatcher := events.NewDispatcher(log)
	hub := websocket.NewHub(log)
	go hub.Run(ctx)
	dispatcher.Add(hub)

	if cfg.NATS.URL != "" {
		publisher, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			log.Warnf("NATS unavailable, events will not be published: %v", err)
		} else {
			dispatcher.Add(publisher)
			defer publisher.Close()
		}
	}

	// a nil interface, not a typed nil, disables caching
	var dashboardCache service.DashboardCache
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warnf("redis unavailable, dashboard stats will not be cached: %v", err)
		} else {
			statsCache := cache.NewStatsCache(rdb, cfg.Redis.StatsTTL, log)
			dashboardCache = statsCache
			dispatcher.Add(statsCache)
			defer rdb.Close()
		}
	}

	deps := service.Deps{Store: store, Log: log, Notifier: dispatcher, Metrics: m}
	users := queries.NewUserRepository()
	clients := queries.NewClientRepository()
	properties := queries.NewPropertyRepository()
	transactions := queries.NewTransactionRepository()
	stats := queries.NewStatsRepository()

	tokens := middleware.NewTokens(cfg.JWT)

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics(m))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.API{
		Tokens:       tokens,
		Clients:      service.NewClientService(deps, clients, users, stats),
		Properties:   service.NewPropertyService(deps, properties, users, stats),
		Transactions: service.NewTransactionService(deps, transactions, properties, clients, users, stats),
		Users:        service.NewUserService(deps, users, stats),
		Dashboard:    service.NewStatsService(deps, stats, dashboardCache),
		DB:           store,
		WS:           handlers.NewWSHandler(hub, tokens, cfg.HTTP.AllowedOrigins, log),
		Metrics:      m.Handler(),
		Log:          log,
	}.Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Infof("server listening on :%s (env %s)", cfg.HTTP.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
	}
}
