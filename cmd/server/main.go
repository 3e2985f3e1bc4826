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

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/swipebay/marketplace-service/internal/adapter/httpapi"
	"github.com/swipebay/marketplace-service/internal/adapter/messaging/nats"
	"github.com/swipebay/marketplace-service/internal/adapter/repository/cache"
	"github.com/swipebay/marketplace-service/internal/adapter/repository/mongodb"
	"github.com/swipebay/marketplace-service/internal/adapter/storage/s3"
	"github.com/swipebay/marketplace-service/internal/auth"
	"github.com/swipebay/marketplace-service/internal/config"
	"github.com/swipebay/marketplace-service/internal/feed"
	"github.com/swipebay/marketplace-service/internal/mailer"
	"github.com/swipebay/marketplace-service/internal/marketplace/usecase"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
	"github.com/swipebay/marketplace-service/internal/platform/metrics"
	"github.com/swipebay/marketplace-service/internal/platform/tracer"
)

const serviceName = "marketplace-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(logger.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := tracer.Init(ctx, serviceName)
	if err != nil {
		appLogger.Warn("Tracer disabled", zap.Error(err))
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				appLogger.Error("Failed to shut down tracer", zap.Error(err))
			}
		}()
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.MongoDB)

	listingRepo := mongodb.NewListingRepository(db, appLogger)
	preferenceRepo := mongodb.NewPreferenceRepository(db, appLogger)
	userRepo := mongodb.NewUserRepository(db, appLogger)

	listingCache, err := cache.NewListingCache(cfg.RedisAddr)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer listingCache.Close()
	lookup := cache.NewCachedLookup(listingCache, listingRepo, appLogger)

	storageClient, err := s3.New(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize storage", zap.Error(err))
	}

	natsPublisher, err := nats.NewPublisher(cfg.NATSURL)
	if err != nil {
		appLogger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsPublisher.Close()

	metricsManager := metrics.NewManager(serviceName)
	go func() {
		if err := metrics.StartServer(cfg.MetricsPort, appLogger, metricsManager.Registry); err != nil {
			appLogger.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)

	preferenceService := usecase.NewPreferenceService(preferenceRepo, listingRepo, userRepo, smtpMailer, appLogger)

	store := feed.NewStore()
	watcher := mongodb.NewSnapshotWatcher(listingRepo, store, cfg.SnapshotPollInterval, appLogger)
	go watcher.Run(ctx)

	feedManager := feed.NewManager(store, preferenceService, lookup, appLogger)

	authService := auth.NewService(userRepo, cfg.JWTSecret, cfg.TokenTTL, appLogger)
	listingUC := usecase.NewListingUsecase(listingRepo, natsPublisher, userRepo, smtpMailer, appLogger)
	photoUC := usecase.NewPhotoUsecase(listingRepo, storageClient, appLogger)
	profileUC := usecase.NewProfileUsecase(userRepo, storageClient, appLogger)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Auth:     httpapi.NewAuthHandler(authService, appLogger),
		Feed:     httpapi.NewFeedHandler(feedManager, metricsManager, appLogger),
		Wishlist: httpapi.NewWishlistHandler(feedManager, lookup, metricsManager, appLogger),
		Listings: httpapi.NewListingHandler(listingUC, photoUC, metricsManager, appLogger),
		Profile:  httpapi.NewProfileHandler(profileUC, appLogger),
		Verifier: authService,
		Metrics:  metricsManager,
		Logger:   appLogger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server listening", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
