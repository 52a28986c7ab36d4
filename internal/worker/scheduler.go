// Package worker hosts background jobs: deferred channel renames and
// periodic store backups.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RenameScheduler defers channel renames so rapid status flips collapse
// into one rename. Scheduling for a channel that already has a pending
// rename replaces it.
type RenameScheduler struct {
	mu      sync.Mutex
	delay   time.Duration
	timeout time.Duration
	logger  *zap.Logger
	pending map[string]*time.Timer
}

func NewRenameScheduler(delay time.Duration, logger *zap.Logger) *RenameScheduler {
	return &RenameScheduler{
		delay:   delay,
		timeout: 30 * time.Second,
		logger:  logger,
		pending: make(map[string]*time.Timer),
	}
}

// Schedule queues job to run after the configured delay, replacing any
// pending job for the same channel.
func (s *RenameScheduler) Schedule(channelID string, job func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.pending[channelID]; ok {
		timer.Stop()
	}
	s.pending[channelID] = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		delete(s.pending, channelID)
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		job(ctx)
	})
}

// Cancel drops a pending job, if any. Used when the channel is deleted
// before the rename fires.
func (s *RenameScheduler) Cancel(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.pending[channelID]; ok {
		timer.Stop()
		delete(s.pending, channelID)
	}
}

// Stop cancels every pending job.
func (s *RenameScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.pending {
		timer.Stop()
		delete(s.pending, id)
	}
	s.logger.Debug("rename scheduler stopped")
}
