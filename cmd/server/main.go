package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/Ex1s9/game-catalog/api/handler"
	"github.com/Ex1s9/game-catalog/internal/config"
	"github.com/Ex1s9/game-catalog/internal/infrastructure/journal"
	"github.com/Ex1s9/game-catalog/internal/infrastructure/monitor"
	pgInfra "github.com/Ex1s9/game-catalog/internal/infrastructure/postgres"
	redisInfra "github.com/Ex1s9/game-catalog/internal/infrastructure/redis"
	"github.com/Ex1s9/game-catalog/internal/middleware"
	"github.com/Ex1s9/game-catalog/internal/router"
	"github.com/Ex1s9/game-catalog/internal/services"
	"github.com/Ex1s9/game-catalog/internal/services/lifecycle"
	"github.com/Ex1s9/game-catalog/pkg/httpcontext"
	"github.com/Ex1s9/game-catalog/pkg/logger"
	"github.com/Ex1s9/game-catalog/repository/postgres"
	redisRepo "github.com/Ex1s9/game-catalog/repository/redis"
	catalogUC "github.com/Ex1s9/game-catalog/usecase/catalog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	journalStore, err := journal.Open(cfg.Journal.Path, "catalog")
	if err != nil {
		zapLogger.Fatal("failed to open change journal", zap.Error(err))
	}
	manager.Register("journal", func(ctx context.Context) error {
		return journalStore.Close()
	})

	mon := monitor.New(pool, redisClient, journalStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	recorder := services.NewChangeRecorder(journalStore, services.RecorderConfig{
		Retention:     cfg.Journal.Retention,
		SweepInterval: cfg.Journal.SweepInterval,
	}, zapLogger)
	recorder.Start()
	manager.Register("change_recorder", func(ctx context.Context) error {
		recorder.Stop()
		return nil
	})

	gameRepo := postgres.NewGameRepository(pool)
	gameCache := redisRepo.NewGameCache(redisClient, cfg.Cache.GameTTL)

	catalogUseCase := catalogUC.New(gameRepo, gameCache, recorder, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Game:   apiHandler.NewGameHandler(catalogUseCase, ctxAdapter, zapLogger),
		Admin:  apiHandler.NewAdminHandler(recorder, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.DeveloperAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
