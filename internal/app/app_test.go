package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/bfhl/internal/app/tasks"
	"github.com/edgard/bfhl/internal/config"
	"github.com/edgard/bfhl/internal/logger"
)

type runnerFunc func(ctx context.Context) error

func (f runnerFunc) Run(ctx context.Context) error { return f(ctx) }

func blockingRunner() Runner {
	return runnerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
}

func TestAppRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(logger.Discard(), &config.SchedulerConfig{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(logger.Discard(), blockingRunner(), sched).Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancellation")
	}
}

func TestAppRunReportsServerFailure(t *testing.T) {
	t.Parallel()

	failing := runnerFunc(func(context.Context) error {
		return errors.New("address already in use")
	})

	err := New(logger.Discard(), failing, nil).Run(context.Background())
	assert.EqualError(t, err, "address already in use")
}

func TestAppRunReportsUnexpectedServerExit(t *testing.T) {
	t.Parallel()

	exits := runnerFunc(func(context.Context) error { return nil })

	err := New(logger.Discard(), exits, nil).Run(context.Background())
	assert.Error(t, err)
}

func TestSchedulerRunsEnabledTasks(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"tick": func(ctx context.Context) error {
			runs.Add(1)
			return ctx.Err()
		},
		"disabled": func(context.Context) error {
			t.Error("disabled task must not run")
			return nil
		},
	}
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"tick":     {Enabled: true, Schedule: "* * * * * *"},
		"disabled": {Enabled: false, Schedule: "* * * * * *"},
		"unknown":  {Enabled: true, Schedule: "* * * * * *"},
		"bad_cron": {Enabled: true, Schedule: "not a cron"},
	}}
	taskMap["bad_cron"] = taskMap["tick"]

	sched, err := NewScheduler(logger.Discard(), cfg, taskMap)
	require.NoError(t, err)

	scheduled, err := sched.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, scheduled)

	_, err = sched.Start(context.Background())
	assert.Error(t, err, "second start must fail")

	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	require.NoError(t, sched.Stop())
	require.NoError(t, sched.Stop(), "stopping twice is a no-op")
}
