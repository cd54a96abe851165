package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/squirrelip/squirrel_server/internal/pkg/email"
	"github.com/squirrelip/squirrel_server/internal/pkg/queue"
)

// DefaultMaxAttempts bounds how often a job is sent before it is dropped.
const DefaultMaxAttempts = 3

// ErrJobDropped is returned once a job has used all of its attempts.
var ErrJobDropped = errors.New("mail job dropped after max attempts")

type Sender interface {
	Send(msg *email.Message) error
}

// JobQueue is the subset of *queue.Queue the worker needs.
type JobQueue interface {
	Push(ctx context.Context, job *queue.MailJob) error
	Pop(ctx context.Context, timeout time.Duration) (*queue.MailJob, error)
}

// Processor 邮件任务处理器
type Processor struct {
	sender      Sender
	queue       JobQueue
	maxAttempts int
	logger      *zap.Logger
}

func NewProcessor(sender Sender, q JobQueue, maxAttempts int, logger *zap.Logger) *Processor {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Processor{
		sender:      sender,
		queue:       q,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Process 发送单个任务，失败时增加重试次数并重新入队，直到达到 maxAttempts
func (p *Processor) Process(ctx context.Context, job *queue.MailJob) error {
	err := p.sender.Send(&email.Message{
		To:      job.To,
		Subject: job.Subject,
		HTML:    job.HTML,
		Text:    job.Text,
	})
	if err == nil {
		p.logger.Info("mail sent",
			zap.String("job_id", job.ID),
			zap.String("event", job.Event),
			zap.String("to", job.To),
		)
		return nil
	}

	job.Attempts++
	if errors.Is(err, email.ErrNotConfigured) || job.Attempts >= p.maxAttempts {
		p.logger.Error("mail job dropped",
			zap.String("job_id", job.ID),
			zap.String("event", job.Event),
			zap.Int("attempts", job.Attempts),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrJobDropped, err)
	}

	p.logger.Warn("mail send failed, requeueing",
		zap.String("job_id", job.ID),
		zap.Int("attempts", job.Attempts),
		zap.Error(err),
	)
	if pushErr := p.queue.Push(ctx, job); pushErr != nil {
		return fmt.Errorf("requeue job %s: %w", job.ID, pushErr)
	}
	return err
}

// Run 循环取任务并处理，直到 ctx 取消
func (p *Processor) Run(ctx context.Context, workerID int, pollTimeout time.Duration) {
	log := p.logger.With(zap.Int("worker", workerID))
	for {
		select {
		case <-ctx.Done():
			log.Info("worker shutting down")
			return
		default:
		}

		job, err := p.queue.Pop(ctx, pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("failed to pop mail job", zap.Error(err))
			continue
		}
		if job == nil {
			continue
		}

		if err := p.Process(ctx, job); err != nil {
			log.Warn("mail job failed", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
}
