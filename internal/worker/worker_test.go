package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fxdesk/internal/service"
)

type mockRunner struct {
	runFunc func(ctx context.Context, force bool) (*service.CycleResult, error)
	calls   int
}

func (m *mockRunner) Run(ctx context.Context, force bool) (*service.CycleResult, error) {
	m.calls++
	return m.runFunc(ctx, force)
}

func TestNewRefreshTask(t *testing.T) {
	task, err := NewRefreshTask(true)
	require.NoError(t, err)

	assert.Equal(t, TaskTypeRefreshRates, task.Type())
	var p RefreshPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.True(t, p.Force)
}

func TestRefreshHandler(t *testing.T) {
	logger := zap.NewNop().Sugar()

	t.Run("passes force through", func(t *testing.T) {
		var gotForce bool
		runner := &mockRunner{runFunc: func(_ context.Context, force bool) (*service.CycleResult, error) {
			gotForce = force
			return &service.CycleResult{Saved: []string{"USD"}}, nil
		}}
		task, err := NewRefreshTask(true)
		require.NoError(t, err)

		err = NewRefreshHandler(runner, logger)(context.Background(), task)
		require.NoError(t, err)
		assert.True(t, gotForce)
	})

	t.Run("cycle error is retried", func(t *testing.T) {
		runner := &mockRunner{runFunc: func(context.Context, bool) (*service.CycleResult, error) {
			return nil, errors.New("rotate generations: permission denied")
		}}
		task, err := NewRefreshTask(false)
		require.NoError(t, err)

		err = NewRefreshHandler(runner, logger)(context.Background(), task)
		require.Error(t, err)
		assert.NotErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("bad payload skips retry", func(t *testing.T) {
		runner := &mockRunner{runFunc: func(context.Context, bool) (*service.CycleResult, error) {
			t.Fatal("runner must not be called")
			return nil, nil
		}}
		task := asynq.NewTask(TaskTypeRefreshRates, []byte("{"))

		err := NewRefreshHandler(runner, logger)(context.Background(), task)
		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.Zero(t, runner.calls)
	})
}

func TestAsynqEnqueuer_Options(t *testing.T) {
	enq := NewAsynqEnqueuer(nil, 15*time.Minute)
	task, err := NewRefreshTask(false, enq.Options()...)
	require.NoError(t, err)
	assert.Equal(t, TaskTypeRefreshRates, task.Type())
	assert.Len(t, enq.Options(), 3)
}

func TestAsynqEnqueuer_NeverRetries(t *testing.T) {
	enq := NewAsynqEnqueuer(nil, time.Minute)

	var retry any
	for _, opt := range enq.Options() {
		if opt.Type() == asynq.MaxRetryOpt {
			retry = opt.Value()
		}
	}
	assert.Equal(t, 0, retry)
}
