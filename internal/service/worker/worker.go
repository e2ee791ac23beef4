package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alanyang/insta-mosaic/internal/domain/mosaic"
)

type Status string

const (
	StatusRunning Status = "running"
	StatusFailed  Status = "failed"
	StatusStopped Status = "stopped"
)

// Worker is one running mosaic job. Its Art is written only by the job's
// pipeline goroutine.
type Worker struct {
	ID        uuid.UUID
	Hashtags  []string
	StartedAt time.Time

	art    *mosaic.Art
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.RWMutex
	status Status
	err    error
}

func (w *Worker) Art() *mosaic.Art { return w.art }

func (w *Worker) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

// Err is the error that ended the pipeline of a failed worker.
func (w *Worker) Err() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.err
}

// Done is closed once the pipeline goroutine has returned.
func (w *Worker) Done() <-chan struct{} { return w.done }

func (w *Worker) setStatus(s Status, err error) {
	w.mu.Lock()
	w.status = s
	w.err = err
	w.mu.Unlock()
}
