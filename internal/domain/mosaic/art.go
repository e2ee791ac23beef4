package mosaic

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/alanyang/insta-mosaic/internal/domain/post"
)

var (
	ErrDuplicatePost = errors.New("post already placed")
	ErrVectorLength  = errors.New("distance vector length does not match grid")
)

// Piece is a placed post together with the distance vector computed for it
// when it was submitted.
type Piece struct {
	Post      post.Post
	Distances DistanceVector
}

type PlacedPost struct {
	PostID   string   `json:"post_id"`
	Username string   `json:"user_name"`
	Hashtag  string   `json:"hashtag"`
	Position Position `json:"position"`
}

// Snapshot is a consistent copy of an Art. Canvas is nil when it was
// requested via SnapshotSince and the version had not moved.
type Snapshot struct {
	Canvas   *image.NRGBA
	Pieces   []PlacedPost
	Hashtags []string
	Version  uint64
}

// Art is the live mosaic of one worker. The canvas and both registries are
// guarded by a single lock so readers never see a half-applied placement.
type Art struct {
	grid *Grid

	mu        sync.RWMutex
	canvas    *image.NRGBA
	pieces    map[string]Piece
	positions map[Position]string
	hashtags  []string
	version   uint64
}

func NewArt(grid *Grid, hashtags []string) *Art {
	ref := grid.Dimensions().Reference
	return &Art{
		grid:      grid,
		canvas:    image.NewNRGBA(image.Rect(0, 0, ref.Width, ref.Height)),
		pieces:    make(map[string]Piece),
		positions: make(map[Position]string),
		hashtags:  append([]string(nil), hashtags...),
	}
}

func (a *Art) Grid() *Grid { return a.grid }

func (a *Art) HasPost(id string) bool {
	a.mu.RLock()
	_, ok := a.pieces[id]
	a.mu.RUnlock()
	return ok
}

func (a *Art) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.pieces)
}

func (a *Art) Version() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.version
}

func (a *Art) Hashtags() []string {
	return append([]string(nil), a.hashtags...)
}

// Place offers p with its distance vector dv to the mosaic and applies the
// greedy replace-if-better rule. A post that no cell accepts is dropped and
// reported with Placed=false.
func (a *Art) Place(p post.Post, dv DistanceVector) (Placement, error) {
	if len(dv) != a.grid.Len() {
		return Placement{}, fmt.Errorf("%w: got %d, want %d", ErrVectorLength, len(dv), a.grid.Len())
	}
	piece := a.grid.Dimensions().Piece
	if b := p.Image.Bounds(); b.Dx() != piece.Width || b.Dy() != piece.Height {
		return Placement{}, fmt.Errorf("%w: got %dx%d, want %s", ErrPieceSize, b.Dx(), b.Dy(), piece)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.pieces[p.ID]; ok {
		return Placement{}, fmt.Errorf("%w: %s", ErrDuplicatePost, p.ID)
	}

	cell, ok := Assign(dv, func(i int) (uint64, bool) {
		id, occupied := a.positions[a.grid.Position(i)]
		if !occupied {
			return 0, false
		}
		return a.pieces[id].Distances[i], true
	})
	if !ok {
		return Placement{}, nil
	}

	pos := a.grid.Position(cell)
	out := Placement{Placed: true, Position: pos}
	if evicted, occupied := a.positions[pos]; occupied {
		delete(a.pieces, evicted)
		out.Evicted = evicted
	}

	rect := a.grid.Dimensions().Rect(pos)
	draw.Draw(a.canvas, rect, p.Image, p.Image.Bounds().Min, draw.Src)
	a.positions[pos] = p.ID
	a.pieces[p.ID] = Piece{Post: p, Distances: dv}
	a.version++

	slog.Debug("piece placed", "post_id", p.ID, "row", pos.Row, "col", pos.Col, "evicted", out.Evicted)
	return out, nil
}

func (a *Art) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshotLocked(true)
}

// SnapshotSince omits the canvas when the mosaic is still at version.
func (a *Art) SnapshotSince(version uint64) Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshotLocked(a.version != version)
}

func (a *Art) snapshotLocked(withCanvas bool) Snapshot {
	s := Snapshot{
		Pieces:   make([]PlacedPost, 0, len(a.pieces)),
		Hashtags: append([]string(nil), a.hashtags...),
		Version:  a.version,
	}
	if withCanvas {
		s.Canvas = imaging.Clone(a.canvas)
	}
	for i := 0; i < a.grid.Len(); i++ {
		pos := a.grid.Position(i)
		id, ok := a.positions[pos]
		if !ok {
			continue
		}
		p := a.pieces[id].Post
		s.Pieces = append(s.Pieces, PlacedPost{
			PostID:   p.ID,
			Username: p.Username,
			Hashtag:  p.Hashtag,
			Position: pos,
		})
	}
	return s
}
