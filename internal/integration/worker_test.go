//go:build integration

package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"fxdesk/internal/service"
	"fxdesk/internal/store"
	"fxdesk/internal/testkit"
	"fxdesk/internal/worker"
)

func TestEnqueueRefresh_Unique(t *testing.T) {
	suite := testkit.Global()
	suite.Reset(t)
	ctx := testContext(t)

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: suite.RedisAddr()})
	t.Cleanup(func() { _ = client.Close() })
	enq := worker.NewAsynqEnqueuer(client, time.Minute)

	id, err := enq.EnqueueRefresh(ctx, false)
	if err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if id == "" {
		t.Fatal("expected a task id")
	}

	if _, err := enq.EnqueueRefresh(ctx, false); !errors.Is(err, worker.ErrRefreshQueued) {
		t.Fatalf("expected ErrRefreshQueued, got %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: suite.RedisAddr()})
	t.Cleanup(func() { _ = inspector.Close() })
	info, err := inspector.GetTaskInfo("default", id)
	if err != nil {
		t.Fatalf("GetTaskInfo: %v", err)
	}
	if info.Type != worker.TaskTypeRefreshRates || info.MaxRetry != 0 {
		t.Fatalf("unexpected task info: %+v", info)
	}
}

func TestRefreshTask_ProcessedByServer(t *testing.T) {
	suite := testkit.Global()
	suite.Reset(t)
	ctx := testContext(t)

	api, srv := newFakeERAPI(t)
	api.publish(time.Now(), 0.9)
	st := store.NewMemoryStore()
	updater := newUpdater(st, srv.URL)

	done := make(chan *service.CycleResult, 1)
	runner := runnerFunc(func(ctx context.Context, force bool) (*service.CycleResult, error) {
		res, err := updater.Run(ctx, force)
		if err == nil {
			done <- res
		}
		return res, err
	})

	redisOpt := asynq.RedisClientOpt{Addr: suite.RedisAddr()}
	server := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 1, LogLevel: asynq.ErrorLevel})
	mux := asynq.NewServeMux()
	mux.HandleFunc(worker.TaskTypeRefreshRates, worker.NewRefreshHandler(runner, nopLogger()))
	if err := server.Start(mux); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(server.Shutdown)

	client := asynq.NewClient(redisOpt)
	t.Cleanup(func() { _ = client.Close() })
	if _, err := worker.NewAsynqEnqueuer(client, time.Minute).EnqueueRefresh(ctx, true); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case res := <-done:
		if len(res.Saved) != 3 {
			t.Fatalf("expected 3 saved bases, got %+v", res)
		}
	case <-ctx.Done():
		t.Fatal("refresh task was not processed in time")
	}

	if _, err := st.ReadSnapshot(ctx, store.Newer, "USD"); err != nil {
		t.Fatalf("expected USD snapshot after processing: %v", err)
	}
}

type runnerFunc func(ctx context.Context, force bool) (*service.CycleResult, error)

func (f runnerFunc) Run(ctx context.Context, force bool) (*service.CycleResult, error) {
	return f(ctx, force)
}
