// Package worker implements the background rate refresh task.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"fxdesk/internal/service"
)

// TaskTypeRefreshRates is the asynq type of the refresh cycle task.
const TaskTypeRefreshRates = "rates:refresh"

// ErrRefreshQueued is returned when a refresh cycle is already waiting or running.
var ErrRefreshQueued = errors.New("rate refresh already queued")

// RefreshPayload is the JSON body of a refresh task.
type RefreshPayload struct {
	Force bool `json:"force"`
}

// CycleRunner runs one refresh cycle.
type CycleRunner interface {
	Run(ctx context.Context, force bool) (*service.CycleResult, error)
}

// NewRefreshTask builds a refresh task.
func NewRefreshTask(force bool, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(RefreshPayload{Force: force})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRefreshRates, data, opts...), nil
}

// NewRefreshHandler returns a function to handle refresh tasks.
func NewRefreshHandler(runner CycleRunner, logger *zap.SugaredLogger) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		taskID, _ := asynq.GetTaskID(ctx)

		var payload RefreshPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Errorw("Invalid task payload", "type", t.Type(), "task_id", taskID, "error", err)
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}

		res, err := runner.Run(ctx, payload.Force)
		if err != nil {
			logger.Errorw("Rate refresh failed", "task_id", taskID, "force", payload.Force, "error", err)
			return err
		}

		logger.Infow("Rate refresh completed", "task_id", taskID, "skipped", res.Skipped,
			"published", res.Published, "saved", len(res.Saved), "failed", len(res.Failed))
		return nil
	}
}

// AsynqEnqueuer enqueues refresh tasks with the configured timeout and uniqueness.
type AsynqEnqueuer struct {
	client  *asynq.Client
	timeout time.Duration
}

// NewAsynqEnqueuer creates a new AsynqEnqueuer. The task timeout also bounds uniqueness.
func NewAsynqEnqueuer(client *asynq.Client, timeout time.Duration) *AsynqEnqueuer {
	return &AsynqEnqueuer{
		client:  client,
		timeout: timeout,
	}
}

// Options returns the task options shared by on-demand and scheduled refreshes.
// A failed cycle is never retried; the next scheduled check runs it again.
func (e *AsynqEnqueuer) Options() []asynq.Option {
	return []asynq.Option{
		asynq.MaxRetry(0),
		asynq.Timeout(e.timeout),
		asynq.Unique(e.timeout),
	}
}

// EnqueueRefresh queues a refresh cycle and returns its task ID.
func (e *AsynqEnqueuer) EnqueueRefresh(ctx context.Context, force bool) (string, error) {
	id := uuid.New().String()
	task, err := NewRefreshTask(force, append(e.Options(), asynq.TaskID(id))...)
	if err != nil {
		return "", err
	}

	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) || errors.Is(err, asynq.ErrTaskIDConflict) {
			return "", ErrRefreshQueued
		}
		return "", fmt.Errorf("enqueue refresh: %w", err)
	}
	return info.ID, nil
}
