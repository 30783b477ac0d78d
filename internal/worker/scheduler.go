package worker

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NewScheduler registers the daily refresh on cronspec, evaluated in UTC.
func NewScheduler(redisOpt asynq.RedisConnOpt, cronspec string, enq *AsynqEnqueuer, logger *zap.SugaredLogger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.UTC,
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				logger.Warnw("Scheduled refresh not enqueued", "error", err)
				return
			}
			logger.Infow("Scheduled refresh enqueued", "task_id", info.ID)
		},
	})

	task, err := NewRefreshTask(false, enq.Options()...)
	if err != nil {
		return nil, err
	}
	entryID, err := scheduler.Register(cronspec, task)
	if err != nil {
		return nil, fmt.Errorf("register refresh schedule %q: %w", cronspec, err)
	}
	logger.Infow("Registered refresh schedule", "cron", cronspec, "entry_id", entryID)
	return scheduler, nil
}
