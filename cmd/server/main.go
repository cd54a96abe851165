package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/squirrelip/squirrel_server/config"
	"github.com/squirrelip/squirrel_server/internal/api"
	"github.com/squirrelip/squirrel_server/internal/api/handler"
	"github.com/squirrelip/squirrel_server/internal/api/middleware"
	"github.com/squirrelip/squirrel_server/internal/database"
	"github.com/squirrelip/squirrel_server/internal/pkg/cron"
	"github.com/squirrelip/squirrel_server/internal/pkg/email"
	"github.com/squirrelip/squirrel_server/internal/pkg/log"
	"github.com/squirrelip/squirrel_server/internal/pkg/oss"
	"github.com/squirrelip/squirrel_server/internal/pkg/queue"
	"github.com/squirrelip/squirrel_server/internal/repository"
	"github.com/squirrelip/squirrel_server/internal/service"
)

var configPath = flag.String("config", "config.yaml", "path to the yaml config")

func main() {
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(cfg.Log.Level)
	defer logger.Sync()

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.Info("database connected")

	// 初始化 OSS（可选），未配置时 storage 保持为 nil 接口
	var storage service.ObjectStorage
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err := oss.NewClient(&cfg.OSS)
		if err != nil {
			logger.Warn("oss client unavailable, uploads disabled", zap.Error(err))
		} else {
			storage = ossClient
			logger.Info("oss client initialized", zap.String("bucket", cfg.OSS.BucketName))
		}
	} else {
		logger.Warn("oss is not configured, uploads disabled")
	}

	// 初始化邮件队列（仅 queue 模式）
	var mailQueue service.MailQueue
	if cfg.Notify.Mode == config.NotifyModeQueue {
		rdb, err := database.NewRedis(&cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		mailQueue = queue.NewQueue(rdb, cfg.Notify.Queue)
		logger.Info("mail queue enabled", zap.String("queue", cfg.Notify.Queue))
	}

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	patentRepo := repository.NewPatentRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	// 初始化 Service
	notifier := service.NewNotificationService(&cfg.Notify, email.NewService(&cfg.Email), mailQueue, logger)
	patentService := service.NewPatentService(patentRepo, storage, notifier, cfg.Upload, logger)
	authService := service.NewAuthService(userRepo, notifier, &cfg.JWT)
	userService := service.NewUserService(userRepo, patentService)
	interactionService := service.NewInteractionService(interactionRepo, notifier, &cfg.Interaction, logger)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, notifier)
	uploadService := service.NewUploadService(storage, cfg.Upload)

	limiter := middleware.NewRateLimiter(cfg.RateLimit)

	router := api.NewRouter(
		handler.NewAuthHandler(authService, &cfg.JWT),
		handler.NewUserHandler(userService, &cfg.JWT),
		handler.NewPatentHandler(patentService, cfg.Upload),
		handler.NewInteractionHandler(interactionService),
		handler.NewSubscriptionHandler(subscriptionService),
		handler.NewUploadHandler(uploadService, cfg.Upload),
		handler.NewEmailHandler(notifier),
		limiter,
		logger,
		cfg,
	)

	// 定时清理
	sweeper := cron.NewService(
		interactionRepo,
		time.Duration(cfg.Cleanup.SweepIntervalMinutes)*time.Minute,
		logger,
		limiter,
	)
	sweeper.Start()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router.Setup(),
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 监听退出信号，优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("received shutdown signal")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	// 等待进行中的通知发送完成
	notifier.Wait()
	logger.Info("server stopped")
}
