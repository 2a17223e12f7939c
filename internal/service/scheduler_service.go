package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wartakota/newsroom-api/pkg/config"
)

type duePublisher interface {
	PublishDue(ctx context.Context, now time.Time) (int, error)
}

// SchedulerService runs the scheduled-publish loop: on every tick it pushes
// all due scheduled articles live.
type SchedulerService struct {
	publisher duePublisher
	interval  time.Duration
	enabled   bool
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSchedulerService constructs the loop.
func NewSchedulerService(publisher duePublisher, cfg config.SchedulerConfig, logger *zap.Logger) *SchedulerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	return &SchedulerService{
		publisher: publisher,
		interval:  interval,
		enabled:   cfg.Enabled,
		logger:    logger,
	}
}

// Start launches the background loop. Safe to call once.
func (s *SchedulerService) Start(ctx context.Context) {
	if !s.enabled {
		s.logger.Info("scheduled publishing disabled")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
	s.logger.Info("scheduled publishing started", zap.Duration("interval", s.interval))
}

// Stop halts the loop and waits for the current tick to finish.
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
}

func (s *SchedulerService) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *SchedulerService) tick(ctx context.Context) {
	published, err := s.publisher.PublishDue(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Warn("scheduled publish tick failed", zap.Error(err))
		return
	}
	if published > 0 {
		s.logger.Info("published scheduled articles", zap.Int("count", published))
	}
}
