package services

import (
	"context"
	"sync"
	"time"

	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/ws"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Task, arka planda çalışan tek bir uzak işlem (kayıt, medya silme).
//
// State değişikliği görev başlamadan uygulanmıştır. Task sadece kalıcılığın
// sonucunu taşır; çağıran isterse bekler (Wait), istemezse bırakır.
type Task struct {
	ID  string
	Op  models.TaskOp
	Key string

	done   chan struct{}
	result models.TaskResult
}

// Done, görev bitince kapanan channel'ı döner.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Result, görev bittiyse sonucu ve true döner.
func (t *Task) Result() (models.TaskResult, bool) {
	select {
	case <-t.done:
		return t.result, true
	default:
		return models.TaskResult{}, false
	}
}

// Wait, görev bitene veya ctx iptal olana kadar bekler.
// ctx'in iptali görevi durdurmaz, sadece beklemeyi bırakır.
func (t *Task) Wait(ctx context.Context) (models.TaskResult, error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		return models.TaskResult{}, ctx.Err()
	}
}

// TaskFunc, görevin işi. res üzerinde Superseded/Path gibi alanları doldurabilir;
// Success ve Reason runner tarafından dönen error'dan türetilir.
type TaskFunc func(ctx context.Context, res *models.TaskResult) error

// TaskRunner, görevleri istek context'inden ayrılmış goroutine'lerde çalıştırır.
//
// İstek bitince görev iptal olmaz (context.WithoutCancel), ama timeout ile sınırlanır.
// Sonuç, isteği yapan oturuma task_result event'i olarak gönderilir; oturum yoksa herkese.
// Shutdown'da Drain ile tüm görevlerin bitmesi beklenir.
type TaskRunner struct {
	publisher ws.EventPublisher
	timeout   time.Duration
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// NewTaskRunner, constructor.
func NewTaskRunner(publisher ws.EventPublisher, timeout time.Duration, logger *zap.Logger) *TaskRunner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TaskRunner{
		publisher: publisher,
		timeout:   timeout,
		logger:    logger,
	}
}

// Go, fn'i yeni bir goroutine'de başlatır ve hemen döner.
func (r *TaskRunner) Go(ctx context.Context, op models.TaskOp, key string, fn TaskFunc) *Task {
	task := &Task{
		ID:   uuid.NewString(),
		Op:   op,
		Key:  key,
		done: make(chan struct{}),
	}
	sessionID := pkg.SessionID(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		res := models.TaskResult{ID: task.ID, Op: op, Key: key}
		err := fn(runCtx, &res)
		res.Success = err == nil
		if err != nil {
			res.Reason = err.Error()
			r.logger.Warn("task failed",
				zap.String("op", string(op)),
				zap.String("key", key),
				zap.Error(err))
		}
		res.FinishedAt = time.Now().UTC()

		task.result = res
		close(task.done)

		r.publish(sessionID, res)
	}()

	return task
}

func (r *TaskRunner) publish(sessionID string, res models.TaskResult) {
	if r.publisher == nil {
		return
	}
	event := ws.Event{Op: ws.OpTaskResult, Data: res}
	if sessionID != "" {
		r.publisher.BroadcastToSession(sessionID, event)
		return
	}
	r.publisher.BroadcastToAll(event)
}

// Drain, çalışan görevlerin bitmesini veya ctx'in iptalini bekler.
func (r *TaskRunner) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
