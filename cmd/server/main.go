package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rentnest/server/config"
	"rentnest/server/internal/api"
	"rentnest/server/internal/cache"
	"rentnest/server/internal/countries"
	"rentnest/server/internal/database"
	"rentnest/server/internal/models"
	"rentnest/server/internal/presenter"
	"rentnest/server/internal/processor"
	"rentnest/server/internal/queue"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithError(err).Warn("Invalid log level, using info")
	}

	logger.Infof("Using database at: %s", cfg.Database.Path)
	db, err := database.NewDatabase(cfg.Database.Path, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}
	if cfg.Database.Seed {
		if err := db.Seed(context.Background()); err != nil {
			logger.WithError(err).Error("Failed to seed database")
		}
	}

	registry, err := countries.NewRegistry(logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load countries")
	}
	if cfg.CountriesFile != "" {
		if err := registry.LoadFile(cfg.CountriesFile); err != nil {
			logger.WithError(err).Error("Failed to load countries file, keeping embedded data")
		}
	}

	var listingCache cache.Cache = cache.NoopCache{}
	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, time.Duration(cfg.Redis.TTL)*time.Second, logger)
		if err := redisCache.Ping(context.Background()); err != nil {
			logger.WithError(err).Warn("Redis unavailable, listing cache disabled")
		} else {
			listingCache = redisCache
			defer redisCache.Close()
		}
	}

	cardPresenter := presenter.New(
		registry,
		presenter.NewPriceFormatter(cfg.Display.CurrencySymbol, cfg.Display.Locale),
		cfg.Display.DateLayout,
		logger,
	)

	listingQueue := queue.NewListingQueue(cfg.BatchProcessing.QueueSize, logger)

	handler := api.NewHandler(api.Services{
		DB:           db,
		Countries:    registry,
		Presenter:    cardPresenter,
		Cache:        listingCache,
		ListingQueue: listingQueue,
		MaxBatchSize: cfg.BatchProcessing.MaxBatchSize,
	}, logger)

	batchProcessor := processor.NewBatchProcessor(db.GetDB(), listingQueue, cfg, logger)
	batchProcessor.OnCommit(func([]*models.Listing) {
		handler.InvalidateListings(context.Background())
	})
	batchProcessor.Start()
	listingQueue.Start()

	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := api.NewRouter(handler, cfg.Server.CORSOrigins)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build router")
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	// Accepted imports are stored before the processor stops retrying
	if err := listingQueue.Close(ctx); err != nil {
		logger.WithError(err).Error("Listing imports lost at shutdown")
	}
	batchProcessor.Stop()
}
