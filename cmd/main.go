package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/loyalty-funnel/config"
	"github.com/oksasatya/loyalty-funnel/internal/container"
	repo "github.com/oksasatya/loyalty-funnel/internal/domain/repository"
	"github.com/oksasatya/loyalty-funnel/internal/infrastructure/memstore"
	"github.com/oksasatya/loyalty-funnel/internal/infrastructure/redisstore"
	"github.com/oksasatya/loyalty-funnel/internal/interface/middleware"
	"github.com/oksasatya/loyalty-funnel/internal/router"
	"github.com/oksasatya/loyalty-funnel/pkg/helpers"
	"github.com/oksasatya/loyalty-funnel/pkg/metrics"
	"github.com/oksasatya/loyalty-funnel/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	if cfg.SessionSecret == "" {
		if cfg.Env != "development" {
			log.Fatal("SESSION_SECRET is required outside development")
		}
		cfg.SessionSecret = helpers.NewSessionID()
		logger.Warn("SESSION_SECRET not set; using a random secret, sessions will not survive a restart")
	}

	ctx := context.Background()

	// Session store: Redis unless explicitly set to memory
	var rdb *redis.Client
	var store repo.SessionStore
	switch cfg.SessionBackend {
	case "memory":
		store = memstore.NewSessionStore(cfg.SessionTTL)
		logger.Warn("using in-memory session store; state is per-process")
	default:
		c, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		rdb = c
		defer func() { _ = rdb.Close() }()
		store = redisstore.NewSessionStore(rdb, cfg.SessionTTL)
	}

	// Metrics on a private registry, plus the standard process collectors
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// RabbitMQ is optional; install emails are skipped without it
	var pub *helpers.RabbitPublisher
	if cfg.MailSendEnabled {
		p, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			helpers.LogError(logger, "rabbitmq unavailable; install emails disabled", err, logrus.Fields{"queue": cfg.RabbitMQEmailQueue})
		} else {
			pub = p
			defer pub.Close()
		}
	}

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetSessionStore(store)
	container.SetMetrics(reg, m)
	container.SetRabbitPub(pub)
	container.SetSessionTokens(helpers.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL, cfg.AppName))
	container.SetSessionCookie(helpers.NewSessionCookie(cfg.SessionCookieName, cfg.SessionCookieDomain, cfg.SessionCookieSecure))

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	// CORS
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOriginFunc = func(string) bool { return cfg.Env == "development" }
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	// Registry: auto-register modules using container
	registry := router.NewRegistry(r)
	registry.Use(
		middleware.Metrics(m),
		middleware.Session(container.GetSessionTokens(), container.GetSessionCookie(), logger),
	)
	router.InitModules(registry)
	registry.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		helpers.LogInfo(logger, "server starting", logrus.Fields{"port": cfg.Port, "session_backend": cfg.SessionBackend})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
