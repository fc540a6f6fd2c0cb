package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/xvolv/tenant/internal/app"
)

// NotificationScheduler runs the dispatch scan on a fixed interval. It can be
// started and stopped at runtime; both are idempotent. A scan already in
// flight is never overlapped, a tick that would overlap is skipped instead.
type NotificationScheduler struct {
	dispatcher app.Dispatcher
	logger     *logrus.Logger
	interval   time.Duration
	runTimeout time.Duration

	mu       sync.Mutex
	engine   *cron.Cron
	entry    cron.EntryID
	running  bool
	inFlight atomic.Bool
}

func NewNotificationScheduler(dispatcher app.Dispatcher, logger *logrus.Logger, interval time.Duration) *NotificationScheduler {
	return &NotificationScheduler{
		dispatcher: dispatcher,
		logger:     logger,
		interval:   interval,
		runTimeout: 5 * time.Minute,
		engine:     cron.New(),
	}
}

// Start registers the interval job and fires an immediate scan. Calling Start
// on a running scheduler is a no-op.
func (s *NotificationScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	spec := fmt.Sprintf("@every %s", s.interval)
	entry, err := s.engine.AddFunc(spec, s.runOnce)
	if err != nil {
		return fmt.Errorf("registering scan job %q: %w", spec, err)
	}
	s.entry = entry
	s.engine.Start()
	s.running = true
	s.logger.WithField("interval", s.interval.String()).Info("notification scheduler started")

	// First scan happens now, not one interval from now.
	go s.runOnce()
	return nil
}

// Stop removes the interval job. A scan already in flight finishes on its own;
// Stop does not wait for it.
func (s *NotificationScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.engine.Remove(s.entry)
	s.engine.Stop()
	s.running = false
	s.logger.Info("notification scheduler stopped")
}

func (s *NotificationScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *NotificationScheduler) runOnce() {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Warn("previous scan still in flight, skipping tick")
		return
	}
	defer s.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	result, err := s.dispatcher.Run(ctx)
	if err != nil {
		s.logger.WithError(err).Error("scheduled notification scan failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"sent":    result.Sent,
		"failed":  result.Failed,
		"skipped": result.Skipped,
	}).Info("scheduled notification scan finished")
}
