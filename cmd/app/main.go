package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/BloggingApp/social-service/internal/config"
	"github.com/BloggingApp/social-service/internal/handler"
	"github.com/BloggingApp/social-service/internal/metrics"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/repository/memory"
	"github.com/BloggingApp/social-service/internal/repository/postgres"
	"github.com/BloggingApp/social-service/internal/server"
	"github.com/BloggingApp/social-service/internal/service"
	"github.com/BloggingApp/social-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title social-service API
// @version 1.0
// @description Users, posts, likes and threaded comments behind JWT bearer auth.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	repos, closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	tokens, err := utils.NewTokenManager(utils.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.TokenTTL,
		Issuer: cfg.Auth.JWTIssuer,
	})
	if err != nil {
		logger.Sugar().Panicf("failed to create token manager: %s", err.Error())
	}
	hasher := utils.NewPasswordHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency)

	services := service.New(logger, repos, tokens, hasher, service.Options{
		DefaultLimit: cfg.DefaultLimit,
		MaxLimit:     cfg.MaxLimit,
		MaxDepth:     cfg.MaxDepth,
	})
	handlers := handler.New(services, tokens, metrics.NewCollector("social"), logger, cfg.ClientOrigin)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(config.ServerConfig{
		Port:           cfg.Port,
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
	})
	go func() {
		if err := srv.Run(); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}()

	logger.Sugar().Infof("Server started on port %s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	return logger
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repository.Repository, func()) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("Using in-memory store, data will not survive a restart")
		return memory.New(), func() {}
	}

	db, err := postgres.DB(ctx, cfg.DB)
	if err != nil {
		logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
	}
	if err := db.Ping(ctx); err != nil {
		logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
	}
	logger.Info("Successfully connected to PostgreSQL")

	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Sugar().Panicf("failed to migrate postgres: %s", err.Error())
	}

	return postgres.New(db, logger), db.Close
}
