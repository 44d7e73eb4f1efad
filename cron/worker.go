package cron

import (
	"time"

	"domik/services/booking"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const sweepInterval = time.Hour

// StartSessionSweeper runs the hourly cleanup of abandoned booking
// sessions. The returned scheduler is shut down by the caller.
func StartSessionSweeper(store *booking.SessionStore, logger *zap.Logger) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("session sweep panicked", zap.Any("panic", r))
				}
			}()
			if removed := store.SweepExpired(time.Now(), booking.SessionMaxAge); removed > 0 {
				logger.Info("removed expired booking sessions", zap.Int("count", removed))
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	return scheduler, nil
}
