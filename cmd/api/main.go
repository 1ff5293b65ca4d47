package main

import (
	"context"
	"log"
	"time"

	"salestrack/config"
	"salestrack/internal/handler"
	appredis "salestrack/internal/redis"
	"salestrack/internal/repository"
	"salestrack/internal/server"
	"salestrack/internal/services"
	"salestrack/internal/storage"
	"salestrack/internal/websocket"
	"salestrack/pkg/database"
	"salestrack/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	logMode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		logMode = logger.ProductionMode
	}
	appLogger := logger.New(logMode)
	logger.SetGlobalLogger(appLogger)
	defer appLogger.Sync()

	database.Connect(cfg)
	defer database.Close()

	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient, err := appredis.NewClient(ctx, appredis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	publisher := appredis.NewPublisher(redisClient)
	subscriber := appredis.NewSubscriber(redisClient)

	// S3 is optional; without it attachment presigning is disabled.
	var s3Client *storage.Client
	if cfg.S3Bucket != "" {
		s3Client, err = storage.NewClient(ctx, storage.S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PublicBase: cfg.S3PublicBase,
			PresignTTL: 15 * time.Minute,
		})
		if err != nil {
			log.Fatalf("Failed to configure s3: %v", err)
		}
	} else {
		appLogger.Warnf("S3 bucket not configured, attachment uploads disabled")
	}

	userRepo := repository.NewUserRepository(database.DB)
	saleRepo := repository.NewSaleRepository(database.DB)
	chatRepo := repository.NewChatRepository(database.DB)

	authService := services.NewAuthService(userRepo, cfg)
	saleService := services.NewSaleService(saleRepo, userRepo)
	reportService := services.NewReportService(saleRepo, userRepo)
	userService := services.NewUserService(userRepo)
	chatService := services.NewChatService(database.DB, chatRepo, userRepo, publisher)
	uploadService := services.NewUploadService(s3Client)
	exportService := services.NewExportService(saleService)

	watcherManager := services.NewWatcherManager(chatService.Conversations, publisher, appLogger)
	chatService.SetObserver(watcherManager)

	adminService := services.NewAdminService(database.DB, authService, userRepo, watcherManager, appLogger)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	bridge := websocket.NewRedisBridge(subscriber, hub)
	go func() {
		if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
			appLogger.Errorf("redis bridge stopped: %v", err)
		}
	}()

	wsHandler := websocket.NewHandler(authService, chatService, watcherManager, hub, appLogger)

	handlers := &server.Handlers{
		Auth:   handler.NewAuthHandler(authService, saleService),
		Sale:   handler.NewSaleHandler(saleService, exportService),
		Report: handler.NewReportHandler(reportService),
		Chat:   handler.NewChatHandler(chatService, saleService),
		Upload: handler.NewUploadHandler(uploadService),
		User:   handler.NewUserHandler(saleService, userService, reportService),
		Admin:  handler.NewAdminHandler(adminService),
		WS:     wsHandler,
	}

	srv := server.New(cfg, appLogger)
	srv.SetupRoutes(handlers, authService)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
