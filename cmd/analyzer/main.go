package main

import (
	"context"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/richxcame/refund-analysis/internal/analysis"
	"github.com/richxcame/refund-analysis/internal/anomaly"
	"github.com/richxcame/refund-analysis/internal/claims"
	"github.com/richxcame/refund-analysis/internal/platform"
	"github.com/richxcame/refund-analysis/pkg/common"
	"github.com/richxcame/refund-analysis/pkg/config"
	"github.com/richxcame/refund-analysis/pkg/database"
	"github.com/richxcame/refund-analysis/pkg/logger"
	"github.com/richxcame/refund-analysis/pkg/middleware"
	"github.com/richxcame/refund-analysis/pkg/redis"
)

const (
	serviceName = "refund-analyzer"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if err := database.RunMigrations(&cfg.Database, "migrations"); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)
	logger.Info("connected to PostgreSQL")

	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("connected to Redis")

	registry, err := platform.NewRegistry(cfg.Platforms.FilePath)
	if err != nil {
		logger.Fatal("failed to load platform profiles", zap.Error(err))
	}

	var alerts analysis.AlertPublisherInterface
	var publisher *anomaly.Publisher
	if cfg.NATS.Enabled {
		publisher, err = anomaly.NewPublisher(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			logger.Fatal("failed to connect to NATS", zap.Error(err))
		}
		defer publisher.Close()
		alerts = publisher
		logger.Info("connected to NATS", zap.String("subject", cfg.NATS.Subject))
	}

	claimsRepo := claims.NewRepository(pool)
	repo := analysis.NewRepository(pool)
	service := analysis.NewService(claimsRepo, repo, redisClient, registry, alerts)
	handler := analysis.NewHandler(service)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(serviceName))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.CORSOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Correlation-ID"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", common.HealthCheckWithDeps(serviceName, version, map[string]func() error{
		"postgres": func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(ctx)
		},
		"redis": func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(ctx).Err()
		},
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	addr := ":" + cfg.Server.Port
	logger.Info("refund analyzer starting", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
