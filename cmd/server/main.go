package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"votingman/internal/config"
	cronrunner "votingman/internal/cron"
	"votingman/internal/db"
	"votingman/internal/handler"
	"votingman/internal/logger"
	"votingman/internal/middleware"
	gormrepository "votingman/internal/repository/gorm"
	"votingman/internal/season"
	"votingman/internal/tier"

	_ "votingman/docs"
)

func main() {
	cfgPath := os.Getenv("VM_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("VM_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	tierService := &tier.Service{Repo: store, Logger: logger}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.RequestID())

	healthHandler := &handler.HealthHandler{DB: dbConn}
	healthHandler.Register(engine)
	tierHandler := &handler.TierHandler{Service: tierService, Logger: logger}
	tierHandler.Register(engine)
	marketHandler := &handler.MarketHandler{}
	marketHandler.Register(engine)
	handler.RegisterDocs(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add(cfg.Cron.TierRefresh, func(ctx context.Context) {
			jobCtx, cancel := context.WithTimeout(ctx, cfg.Tier.RefreshTimeout)
			defer cancel()
			seas := season.At(time.Now())
			result, err := tierService.RefreshSeason(jobCtx, nil, seas, tier.TriggerCron)
			if err != nil {
				logger.Warn("cron tier refresh failed",
					zap.String("season_id", seas.ID()),
					zap.Int("rows_updated", result.RowsUpdated),
					zap.Error(err),
				)
				return
			}
			logger.Info("cron tier refresh ok",
				zap.String("season_id", result.SeasonID),
				zap.Int("markets_updated", result.MarketsUpdated),
				zap.Int("rows_updated", result.RowsUpdated),
			)
		})
		if err != nil {
			logger.Warn("cron register tier refresh failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
