package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// NoShowSweeper is satisfied by ReservationService.
type NoShowSweeper interface {
	SweepNoShows(ctx context.Context) (int64, error)
}

// ScheduleNoShowSweep registers the periodic no_show sweep on c.
func ScheduleNoShowSweep(c *cron.Cron, spec string, sweeper NoShowSweeper, logger *zap.Logger) error {
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		count, err := sweeper.SweepNoShows(ctx)
		if err != nil {
			logger.Error("no-show sweep failed", zap.Error(err))
			return
		}
		if count > 0 {
			logger.Info("no-show sweep marked reservations", zap.Int64("count", count))
		}
	})
	return err
}
