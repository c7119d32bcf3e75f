// internal/dating/scheduler.go

package dating

import (
	"context"
	"time"

	"github.com/imadgeboyega/kiekky-discovery/internal/common/logger"
)

const cleanupHour = 2

type Scheduler struct {
	service      Service
	hotpicksHour int
	log          logger.Logger
	now          func() time.Time
}

func NewScheduler(service Service, hotpicksHour int, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Scheduler{
		service:      service,
		hotpicksHour: hotpicksHour,
		log:          log.WithFields(map[string]interface{}{"component": "scheduler"}),
		now:          time.Now,
	}
}

// Start launches the daily jobs. They stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.runDaily(ctx, "generate_hotpicks", s.hotpicksHour, 0, s.service.GenerateDailyHotpicks)
	go s.runDaily(ctx, "cleanup_hotpicks", cleanupHour, 0, s.service.CleanupExpiredHotpicks)
}

func (s *Scheduler) runDaily(ctx context.Context, name string, hour, minute int, task func(context.Context) error) {
	for {
		timer := time.NewTimer(nextRun(s.now(), hour, minute).Sub(s.now()))

		select {
		case <-timer.C:
			s.runTask(ctx, name, task)
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) runTask(ctx context.Context, name string, task func(context.Context) error) {
	start := time.Now()
	if err := task(ctx); err != nil {
		s.log.WithError(err).Error("Scheduled task failed", map[string]interface{}{"task": name})
		return
	}
	s.log.Info("Scheduled task completed", map[string]interface{}{
		"task":        name,
		"duration_ms": time.Since(start).Milliseconds(),
	})
}

// nextRun is the first hour:minute strictly after now, in now's location.
func nextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
