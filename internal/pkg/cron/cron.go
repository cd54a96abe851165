package cron

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/squirrelip/squirrel_server/internal/repository"
)

// Sweeper 清理闲置的内存状态，例如限流器的令牌桶
type Sweeper interface {
	Sweep() int
}

type Service struct {
	interactionRepo *repository.InteractionRepository
	sweepers        []Sweeper
	interval        time.Duration
	logger          *zap.Logger
	stopChan        chan struct{}
	stopOnce        sync.Once
}

func NewService(
	interactionRepo *repository.InteractionRepository,
	interval time.Duration,
	logger *zap.Logger,
	sweepers ...Sweeper,
) *Service {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Service{
		interactionRepo: interactionRepo,
		sweepers:        sweepers,
		interval:        interval,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.run()
	s.logger.Info("cron service started", zap.Duration("interval", s.interval))
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.logger.Info("cron service stopped")
	})
}

func (s *Service) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			if _, err := s.RunNow(); err != nil {
				s.logger.Error("orphan sweep failed", zap.Error(err))
			}
		}
	}
}

// RunNow 立即执行一次清理，返回删除的孤立互动记录数
func (s *Service) RunNow() (int64, error) {
	for _, sw := range s.sweepers {
		if n := sw.Sweep(); n > 0 {
			s.logger.Debug("swept idle entries", zap.Int("count", n))
		}
	}

	if s.interactionRepo == nil {
		return 0, nil
	}
	removed, err := s.interactionRepo.DeleteOrphans()
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("removed orphan interactions", zap.Int64("count", removed))
	}
	return removed, nil
}
