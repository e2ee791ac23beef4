// Package worker owns the lifecycle of mosaic jobs: validation, backfill,
// pipeline goroutines, and the live registry read by the transports.
package worker

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/alanyang/insta-mosaic/internal/domain/event"
	"github.com/alanyang/insta-mosaic/internal/domain/mosaic"
	domainpost "github.com/alanyang/insta-mosaic/internal/domain/post"
	"github.com/alanyang/insta-mosaic/internal/port/blocklist"
	portbus "github.com/alanyang/insta-mosaic/internal/port/eventbus"
	portpost "github.com/alanyang/insta-mosaic/internal/port/post"
	"github.com/alanyang/insta-mosaic/internal/service/feeder"
)

var (
	ErrNotFound      = errors.New("worker not found")
	ErrNoHashtags    = errors.New("at least one hashtag is required")
	ErrNoReference   = errors.New("reference image is required")
	ErrEmptyUsername = errors.New("user name is required")
	ErrClosed        = errors.New("worker manager is shut down")
)

var DefaultPieceSize = mosaic.Size{Width: 30, Height: 30}

// Runner drives one job's ingestion until ctx is cancelled or it fails.
// *feeder.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, job feeder.Job) error
}

type Config struct {
	// ReferenceSize is the required reference image size. Zero accepts any
	// size the piece size tiles.
	ReferenceSize mosaic.Size
	PieceSize     mosaic.Size
	BackfillLimit int
}

type StartRequest struct {
	Reference image.Image
	Hashtags  []string
	// PieceSize falls back to Config.PieceSize when zero.
	PieceSize mosaic.Size
}

type Manager struct {
	runner  Runner
	posts   portpost.Repository
	blocked blocklist.Set
	bus     portbus.EventBus
	cfg     Config

	root     context.Context
	shutdown context.CancelFunc
	wg       sync.WaitGroup

	mu       sync.RWMutex
	workers  map[uuid.UUID]*Worker
	onRemove []func(uuid.UUID)
}

func NewManager(runner Runner, posts portpost.Repository, blocked blocklist.Set, bus portbus.EventBus, cfg Config) *Manager {
	if cfg.PieceSize.IsZero() {
		cfg.PieceSize = DefaultPieceSize
	}
	root, cancel := context.WithCancel(context.Background())
	return &Manager{
		runner:   runner,
		posts:    posts,
		blocked:  blocked,
		bus:      bus,
		cfg:      cfg,
		root:     root,
		shutdown: cancel,
		workers:  make(map[uuid.UUID]*Worker),
	}
}

// Start validates req, backfills the new mosaic from stored posts and
// launches its pipeline. Configuration errors are returned before any
// goroutine is started.
func (m *Manager) Start(ctx context.Context, req StartRequest) (uuid.UUID, error) {
	if m.root.Err() != nil {
		return uuid.Nil, ErrClosed
	}
	if req.Reference == nil {
		return uuid.Nil, ErrNoReference
	}
	hashtags := NormalizeHashtags(req.Hashtags)
	if len(hashtags) == 0 {
		return uuid.Nil, ErrNoHashtags
	}

	b := req.Reference.Bounds()
	ref := mosaic.Size{Width: b.Dx(), Height: b.Dy()}
	if !m.cfg.ReferenceSize.IsZero() && ref != m.cfg.ReferenceSize {
		return uuid.Nil, fmt.Errorf("start worker: %w: got %s, want %s", mosaic.ErrReferenceSize, ref, m.cfg.ReferenceSize)
	}
	piece := req.PieceSize
	if piece.IsZero() {
		piece = m.cfg.PieceSize
	}
	dims, err := mosaic.NewDimensions(ref, piece)
	if err != nil {
		return uuid.Nil, fmt.Errorf("start worker: %w", err)
	}
	grid, err := mosaic.NewGrid(req.Reference, dims)
	if err != nil {
		return uuid.Nil, fmt.Errorf("start worker: %w", err)
	}

	w := &Worker{
		ID:        uuid.New(),
		Hashtags:  hashtags,
		StartedAt: time.Now().UTC(),
		art:       mosaic.NewArt(grid, hashtags),
		done:      make(chan struct{}),
		status:    StatusRunning,
	}
	m.backfill(ctx, w)

	runCtx, cancel := context.WithCancel(m.root)
	w.cancel = cancel

	// The closed check, wg.Add and registration happen under mu so a
	// concurrent Shutdown either refuses this worker or waits for it.
	m.mu.Lock()
	if m.root.Err() != nil {
		m.mu.Unlock()
		cancel()
		return uuid.Nil, ErrClosed
	}
	m.workers[w.ID] = w
	m.wg.Add(1)
	go m.run(runCtx, w)
	m.mu.Unlock()

	slog.InfoContext(ctx, "worker started",
		"worker_id", w.ID, "hashtags", hashtags, "reference", ref.String(), "piece", piece.String(), "cells", grid.Len())
	m.publish(ctx, event.New(event.TypeWorkerStarted, w.ID))
	return w.ID, nil
}

func (m *Manager) run(ctx context.Context, w *Worker) {
	defer m.wg.Done()
	defer close(w.done)

	err := m.runner.Run(ctx, feeder.Job{
		WorkerID:  w.ID,
		Hashtags:  w.Hashtags,
		PieceSize: w.art.Grid().Dimensions().Piece,
		Target:    w.art,
		Sink:      m.sink(w),
	})
	if ctx.Err() != nil {
		w.setStatus(StatusStopped, nil)
		slog.Info("worker pipeline stopped", "worker_id", w.ID)
		return
	}
	if err == nil {
		err = errors.New("pipeline exited")
	}

	w.setStatus(StatusFailed, err)
	slog.Error("worker pipeline failed", "worker_id", w.ID, "error", err)
	m.publish(context.Background(), event.New(event.TypeWorkerFailed, w.ID))
}

// sink places a harvested post and then persists it. Persistence failures
// never affect placement.
func (m *Manager) sink(w *Worker) feeder.Sink {
	return func(ctx context.Context, p domainpost.Post) {
		if placement, ok := m.place(ctx, w, p); ok && placement.Placed {
			e := event.PiecePlaced(w.ID, p.ID, placement.Evicted)
			m.publish(ctx, e)
		}
		if err := m.posts.Append(ctx, p); err != nil {
			slog.ErrorContext(ctx, "failed to persist post", "worker_id", w.ID, "post_id", p.ID, "error", err)
		}
	}
}

func (m *Manager) place(ctx context.Context, w *Worker, p domainpost.Post) (mosaic.Placement, bool) {
	grid := w.art.Grid()
	dv, err := grid.Score(p.Image)
	if err != nil {
		slog.WarnContext(ctx, "dropping post", "worker_id", w.ID, "post_id", p.ID, "error", err)
		return mosaic.Placement{}, false
	}
	placement, err := w.art.Place(p, dv)
	if err != nil {
		slog.DebugContext(ctx, "post not placed", "worker_id", w.ID, "post_id", p.ID, "error", err)
		return mosaic.Placement{}, false
	}
	return placement, true
}

// backfill seeds a new mosaic with the newest stored posts for its hashtags.
func (m *Manager) backfill(ctx context.Context, w *Worker) {
	if m.cfg.BackfillLimit <= 0 {
		return
	}
	posts, err := m.posts.FindByHashtags(ctx, w.Hashtags, m.cfg.BackfillLimit)
	if err != nil {
		slog.WarnContext(ctx, "backfill skipped", "worker_id", w.ID, "error", err)
		return
	}

	piece := w.art.Grid().Dimensions().Piece
	placed := 0
	for _, p := range posts {
		p.Image = mosaic.FitPiece(p.Image, piece)
		if got, ok := m.place(ctx, w, p); ok && got.Placed {
			placed++
		}
	}
	slog.InfoContext(ctx, "backfill done", "worker_id", w.ID, "candidates", len(posts), "placed", placed)
}

// Stop cancels the worker's pipeline, waits for it to exit and forgets the
// worker.
func (m *Manager) Stop(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	w, ok := m.workers[id]
	if ok {
		delete(m.workers, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	w.cancel()
	select {
	case <-w.done:
	case <-ctx.Done():
		return fmt.Errorf("stop worker %s: %w", id, ctx.Err())
	}

	m.mu.RLock()
	hooks := slices.Clone(m.onRemove)
	m.mu.RUnlock()
	for _, fn := range hooks {
		fn(id)
	}

	slog.InfoContext(ctx, "worker stopped", "worker_id", id)
	m.publish(ctx, event.New(event.TypeWorkerStopped, id))
	return nil
}

// OnRemove registers fn to be called with the id of every worker Stop
// forgets.
func (m *Manager) OnRemove(fn func(id uuid.UUID)) {
	m.mu.Lock()
	m.onRemove = append(m.onRemove, fn)
	m.mu.Unlock()
}

func (m *Manager) Get(id uuid.UUID) (*Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return w, nil
}

// List returns all live workers, oldest first.
func (m *Manager) List() []*Worker {
	m.mu.RLock()
	workers := lo.Values(m.workers)
	m.mu.RUnlock()

	slices.SortFunc(workers, func(a, b *Worker) int {
		return a.StartedAt.Compare(b.StartedAt)
	})
	return workers
}

func (m *Manager) BlockUser(ctx context.Context, username string) error {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return ErrEmptyUsername
	}
	if err := m.blocked.Add(ctx, username); err != nil {
		return fmt.Errorf("block user: %w", err)
	}
	slog.InfoContext(ctx, "user blocked", "user_name", username)
	return nil
}

func (m *Manager) BlockedUsers(ctx context.Context) ([]string, error) {
	users, err := m.blocked.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blocked users: %w", err)
	}
	return users, nil
}

// Shutdown cancels every pipeline and waits for them to return. Workers stay
// readable afterwards.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.shutdown()
	m.mu.Unlock()
	m.wg.Wait()
}

func (m *Manager) publish(ctx context.Context, e event.Event) {
	if err := m.bus.Publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to publish event", "type", e.Type, "worker_id", e.WorkerID, "error", err)
	}
}
