package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/squirrelip/squirrel_server/config"
	"github.com/squirrelip/squirrel_server/internal/database"
	"github.com/squirrelip/squirrel_server/internal/pkg/email"
	"github.com/squirrelip/squirrel_server/internal/pkg/log"
	"github.com/squirrelip/squirrel_server/internal/pkg/queue"
	"github.com/squirrelip/squirrel_server/internal/worker"
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

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}
	defer rdb.Close()

	mailQueue := queue.NewQueue(rdb, cfg.Notify.Queue)
	processor := worker.NewProcessor(email.NewService(&cfg.Email), mailQueue, worker.DefaultMaxAttempts, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	workers := cfg.Notify.Workers
	if workers <= 0 {
		workers = 1
	}
	logger.Info("worker started", zap.Int("workers", workers), zap.String("queue", cfg.Notify.Queue))

	// 启动 worker 循环
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			processor.Run(ctx, workerID, 5*time.Second)
		}(i)
	}

	wg.Wait()
	logger.Info("worker shutdown complete")
}
