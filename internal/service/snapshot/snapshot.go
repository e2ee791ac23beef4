// Package snapshot renders the serving view of a worker's mosaic.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/alanyang/insta-mosaic/internal/domain/mosaic"
	"github.com/alanyang/insta-mosaic/internal/service/worker"
)

// ErrFailed is returned for a worker whose pipeline died. Callers must not
// serve the stale mosaic as if it were live.
var ErrFailed = errors.New("worker failed")

type Workers interface {
	Get(id uuid.UUID) (*worker.Worker, error)
	List() []*worker.Worker
	OnRemove(fn func(id uuid.UUID))
}

// Cache keeps the last encoded canvas per worker with the version it shows.
type Cache interface {
	Get(id uuid.UUID) (uint64, []byte, bool)
	Set(id uuid.UUID, version uint64, data []byte)
	Invalidate(id uuid.UUID)
}

type View struct {
	ID       uuid.UUID           `json:"id"`
	Status   worker.Status       `json:"status"`
	PNG      []byte              `json:"-"`
	Posts    []mosaic.PlacedPost `json:"piece_posts"`
	Hashtags []string            `json:"insta_hashtags"`
	Version  uint64              `json:"version"`
}

type Summary struct {
	ID        uuid.UUID     `json:"id"`
	Status    worker.Status `json:"status"`
	Hashtags  []string      `json:"hashtags"`
	Pieces    int           `json:"pieces"`
	Version   uint64        `json:"version"`
	StartedAt time.Time     `json:"started_at"`
	Error     string        `json:"error,omitempty"`
}

type Service struct {
	workers Workers
	cache   Cache
}

// NewService drops a worker's cached mosaic as soon as the worker is removed.
func NewService(workers Workers, cache Cache) *Service {
	workers.OnRemove(cache.Invalidate)
	return &Service{workers: workers, cache: cache}
}

// Render returns the current mosaic of id as PNG plus its placed posts.
func (s *Service) Render(id uuid.UUID) (View, error) {
	w, err := s.workers.Get(id)
	if err != nil {
		if errors.Is(err, worker.ErrNotFound) {
			s.cache.Invalidate(id)
		}
		return View{}, err
	}
	if w.Status() == worker.StatusFailed {
		s.cache.Invalidate(id)
		return View{ID: id, Status: worker.StatusFailed}, fmt.Errorf("%w: %v", ErrFailed, w.Err())
	}

	var snap mosaic.Snapshot
	version, data, cached := s.cache.Get(id)
	if cached {
		snap = w.Art().SnapshotSince(version)
	} else {
		snap = w.Art().Snapshot()
	}

	if snap.Canvas != nil {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, snap.Canvas, imaging.PNG, imaging.PNGCompressionLevel(png.BestSpeed)); err != nil {
			return View{}, fmt.Errorf("encoding mosaic: %w", err)
		}
		data = buf.Bytes()
		s.cache.Set(id, snap.Version, data)
		slog.Debug("mosaic encoded", "worker_id", id, "version", snap.Version, "bytes", len(data))
	}

	return View{
		ID:       id,
		Status:   w.Status(),
		PNG:      data,
		Posts:    snap.Pieces,
		Hashtags: snap.Hashtags,
		Version:  snap.Version,
	}, nil
}

func (s *Service) List() []Summary {
	return lo.Map(s.workers.List(), func(w *worker.Worker, _ int) Summary {
		sum := Summary{
			ID:        w.ID,
			Status:    w.Status(),
			Hashtags:  w.Hashtags,
			Pieces:    w.Art().Len(),
			Version:   w.Art().Version(),
			StartedAt: w.StartedAt,
		}
		if err := w.Err(); err != nil {
			sum.Error = err.Error()
		}
		return sum
	})
}
