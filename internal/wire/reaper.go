package wire

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alanyang/insta-mosaic/internal/domain/event"
	porteventbus "github.com/alanyang/insta-mosaic/internal/port/eventbus"
	workersvc "github.com/alanyang/insta-mosaic/internal/service/worker"
)

type workerStopper interface {
	Stop(ctx context.Context, id uuid.UUID) error
}

// startReaper subscribes to the worker channel and schedules a retention
// timer whenever a worker fails. The failed mosaic stays readable until the
// timer fires, then the worker is stopped and forgotten. A worker stopped by
// hand in the meantime cancels its timer.
func startReaper(ctx context.Context, workers workerStopper, bus porteventbus.EventBus, retention time.Duration) {
	if retention <= 0 {
		return
	}

	var (
		mu     sync.Mutex
		timers = make(map[uuid.UUID]*time.Timer)
	)

	scheduleReap := func(workerID uuid.UUID) {
		mu.Lock()
		defer mu.Unlock()
		if _, ok := timers[workerID]; ok {
			return
		}
		timers[workerID] = time.AfterFunc(retention, func() {
			mu.Lock()
			delete(timers, workerID)
			mu.Unlock()

			if err := workers.Stop(context.Background(), workerID); err != nil && !errors.Is(err, workersvc.ErrNotFound) {
				slog.Error("reaper: stop worker failed", "worker_id", workerID, "error", err)
				return
			}
			slog.Info("reaper: failed worker removed", "worker_id", workerID, "retention", retention)
		})
	}

	if _, err := bus.Subscribe(ctx, event.ChannelWorker, func(_ context.Context, e event.Event) {
		switch e.Type {
		case event.TypeWorkerFailed:
			scheduleReap(e.WorkerID)
		case event.TypeWorkerStopped:
			mu.Lock()
			if t, ok := timers[e.WorkerID]; ok {
				t.Stop()
				delete(timers, e.WorkerID)
			}
			mu.Unlock()
		}
	}); err != nil {
		slog.Error("reaper: failed to subscribe to worker channel", "error", err)
	}
}
