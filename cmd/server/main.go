package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blsantos/InfiniteVideoWall/internal/api"
	"github.com/blsantos/InfiniteVideoWall/internal/auth"
	"github.com/blsantos/InfiniteVideoWall/internal/config"
	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/logger"
	"github.com/blsantos/InfiniteVideoWall/internal/messaging"
	"github.com/blsantos/InfiniteVideoWall/internal/services"
	"github.com/blsantos/InfiniteVideoWall/internal/storage"
	"github.com/blsantos/InfiniteVideoWall/internal/youtube"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/server.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		ServiceName: "video-wall",
		FilePath:    cfg.Log.FilePath,
		JSONFormat:  cfg.Log.JSONFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}

	if missing := cfg.YouTube.Validate(); len(missing) > 0 {
		log.WithField("missing", missing).Warn("YouTube credentials incomplete, host endpoints will fail")
	}

	db, err := storage.NewDBConnection(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("connecting to database")
	}
	defer db.Close()

	repos := storage.NewRepositories(db)

	// The service runs without a broker; events are dropped.
	kafkaClient, err := messaging.NewKafkaClient(cfg.Kafka)
	if err != nil {
		log.WithError(err).Warn("Kafka unavailable, running without event publishing")
	} else {
		defer kafkaClient.Close()
	}

	media, err := storage.NewMediaStore(cfg.Uploads, cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("initializing media store")
	}

	redirectURL := cfg.Server.PublicBaseURL + "/api/youtube/callback"
	hostClient := youtube.NewClient(cfg.YouTube.ClientID, cfg.YouTube.ClientSecret, cfg.YouTube.APIKey, redirectURL)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	tokenStore := services.NewTokenStore()

	authService := services.NewAuthService(repos.Users, jwtService)
	moderationService := services.NewModerationService(repos.Videos, kafkaClient, log)
	syncService := services.NewSyncService(hostClient, repos.Videos, kafkaClient, log)
	videoService := services.NewVideoService(repos.Videos, media, hostClient, tokenStore, kafkaClient, log, cfg.Uploads.MaxSizeMB)
	chapterService := services.NewChapterService(repos.Chapters, hostClient, tokenStore, log, cfg.Server.PublicBaseURL)
	statsService := services.NewStatsService(repos.Stats)

	initialChannel := entities.ChannelConfig{
		ID:   cfg.YouTube.ChannelID,
		Name: cfg.YouTube.ChannelName,
		URL:  "https://www.youtube.com/channel/" + cfg.YouTube.ChannelID,
	}
	channelManager := services.NewChannelManager(initialChannel, hostClient, syncService, log)

	router := api.NewRouter(api.RouterDeps{
		JWTService:        jwtService,
		Users:             repos.Users,
		AuthService:       authService,
		VideoService:      videoService,
		ModerationService: moderationService,
		ChapterService:    chapterService,
		StatsService:      statsService,
		SyncService:       syncService,
		ChannelManager:    channelManager,
		TokenStore:        tokenStore,
		HostClient:        hostClient,
		Log:               log,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server shutdown error")
	}

	log.Info("server stopped")
}
