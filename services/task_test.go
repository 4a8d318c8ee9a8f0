package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTaskRunner_OutlivesRequestContext(t *testing.T) {
	publisher := &recordingPublisher{}
	runner := NewTaskRunner(publisher, time.Second, zap.NewNop())

	reqCtx, cancel := context.WithCancel(pkg.WithSessionID(context.Background(), "s1"))
	release := make(chan struct{})
	task := runner.Go(reqCtx, models.TaskOpPersist, "k", func(ctx context.Context, res *models.TaskResult) error {
		<-release
		return ctx.Err()
	})
	cancel()
	close(release)

	res := waitTask(t, task)
	assert.True(t, res.Success)
	assert.Equal(t, task.ID, res.ID)

	require.NoError(t, runner.Drain(context.Background()))
	events := publisher.ops(ws.OpTaskResult)
	require.Len(t, events, 1)
	assert.Equal(t, "s1", events[0].SessionID)
}

func TestTaskRunner_FailureAndTimeout(t *testing.T) {
	publisher := &recordingPublisher{}
	runner := NewTaskRunner(publisher, 20*time.Millisecond, zap.NewNop())

	failed := runner.Go(context.Background(), models.TaskOpDeleteMedia, "k", func(context.Context, *models.TaskResult) error {
		return errors.New("boom")
	})
	res := waitTask(t, failed)
	assert.False(t, res.Success)
	assert.Equal(t, "boom", res.Reason)

	slow := runner.Go(context.Background(), models.TaskOpPersist, "k", func(ctx context.Context, _ *models.TaskResult) error {
		<-ctx.Done()
		return ctx.Err()
	})
	res = waitTask(t, slow)
	assert.False(t, res.Success)
	assert.Contains(t, res.Reason, "deadline exceeded")

	require.NoError(t, runner.Drain(context.Background()))
	events := publisher.ops(ws.OpTaskResult)
	assert.Len(t, events, 2)
	assert.Empty(t, events[0].SessionID, "no session: broadcast to everyone")
}

func TestTask_ResultBeforeDone(t *testing.T) {
	runner := NewTaskRunner(nil, time.Second, zap.NewNop())
	release := make(chan struct{})
	task := runner.Go(context.Background(), models.TaskOpUpload, "k", func(_ context.Context, res *models.TaskResult) error {
		<-release
		res.Path = "/uploads/a.png"
		return nil
	})

	_, ok := task.Result()
	assert.False(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := task.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-task.Done()
	res, ok := task.Result()
	assert.True(t, ok)
	assert.Equal(t, "/uploads/a.png", res.Path)
	require.NoError(t, runner.Drain(context.Background()))
}
