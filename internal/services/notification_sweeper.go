package services

import (
	"context"
	"time"

	"github.com/Gajendra1092/VideoTube-sub001/internal/repositories"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/logger"
	"go.uber.org/zap"
)

// NotificationSweeper periodically deletes expired notifications. MongoDB's
// TTL monitor only runs about once a minute and gives no visibility; the
// sweeper provides a deterministic interval and a clean stop on shutdown.
type NotificationSweeper struct {
	notifications repositories.NotificationRepository
	interval      time.Duration
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewNotificationSweeper creates a sweeper that runs every interval
func NewNotificationSweeper(notifications repositories.NotificationRepository, interval time.Duration) *NotificationSweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &NotificationSweeper{
		notifications: notifications,
		interval:      interval,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start begins the periodic sweep in the background
func (s *NotificationSweeper) Start() {
	logger.Log.Info("starting notification sweeper", zap.Duration("interval", s.interval))
	go s.run()
}

// Stop cancels the sweeper; the running goroutine exits before the next tick
func (s *NotificationSweeper) Stop() {
	logger.Log.Info("stopping notification sweeper")
	s.cancel()
}

func (s *NotificationSweeper) run() {
	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *NotificationSweeper) sweep() {
	deleted, err := s.notifications.DeleteExpired(s.ctx)
	if err != nil {
		logger.Log.Warn("notification sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		logger.Log.Info("swept expired notifications", zap.Int64("deleted", deleted))
	}
}
