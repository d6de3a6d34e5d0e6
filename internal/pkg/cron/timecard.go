package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
)

type TimecardJobs struct {
	timecardService timecard.TimecardService
	interval        time.Duration
}

func NewTimecardJobs(timecardService timecard.TimecardService, interval time.Duration) *TimecardJobs {
	return &TimecardJobs{
		timecardService: timecardService,
		interval:        interval,
	}
}

func (j *TimecardJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_clock_out_stale_shifts", j.interval, j.AutoClockOut)
}

// AutoClockOut closes shifts that stayed open past the configured limit. The
// forced clock-outs are flagged for manager review.
func (j *TimecardJobs) AutoClockOut(ctx context.Context) error {
	closed, err := j.timecardService.CloseStaleShifts(ctx)
	if closed > 0 {
		slog.Info("Cron: Auto clock-out completed", "closed", closed)
	}
	return err
}
