package feeder_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/insta-mosaic/internal/adapter/memory"
	"github.com/alanyang/insta-mosaic/internal/domain/mosaic"
	domainpost "github.com/alanyang/insta-mosaic/internal/domain/post"
	"github.com/alanyang/insta-mosaic/internal/mocks"
	"github.com/alanyang/insta-mosaic/internal/port/feed"
	"github.com/alanyang/insta-mosaic/internal/service/feeder"
)

// ── helpers ───────────────────────────────────────────────────────────────────

var pieceSize = mosaic.Size{Width: 10, Height: 10}

type seen map[string]bool

func (s seen) HasPost(id string) bool { return s[id] }

type deps struct {
	source  *mocks.MockFeedSource
	photos  *mocks.MockPhotoFetcher
	blocked *memory.BlockList
}

func newDeps(t *testing.T) deps {
	t.Helper()
	ctrl := gomock.NewController(t)
	return deps{
		source:  mocks.NewMockFeedSource(ctrl),
		photos:  mocks.NewMockPhotoFetcher(ctrl),
		blocked: memory.NewBlockList(),
	}
}

func fastConfig() feeder.Config {
	return feeder.Config{CoolingInterval: time.Millisecond}
}

type collector struct {
	posts []domainpost.Post
}

func (c *collector) sink(_ context.Context, p domainpost.Post) {
	c.posts = append(c.posts, p)
}

func (c *collector) ids() []string {
	out := make([]string, 0, len(c.posts))
	for _, p := range c.posts {
		out = append(out, p.ID)
	}
	return out
}

func newJob(hashtags []string, target seen, c *collector) feeder.Job {
	return feeder.Job{
		WorkerID:  uuid.New(),
		Hashtags:  hashtags,
		PieceSize: pieceSize,
		Target:    target,
		Sink:      c.sink,
	}
}

func refs(ids ...string) []feed.Ref {
	out := make([]feed.Ref, 0, len(ids))
	for _, id := range ids {
		out = append(out, feed.Ref{ID: id, ImageURL: "https://cdn/" + id + ".jpg"})
	}
	return out
}

func detail(id, username string) feed.Detail {
	return feed.Detail{ID: id, Username: username, ImageURL: "https://cdn/" + id + ".jpg"}
}

// stopOn returns a DoAndReturn body that cancels the run instead of answering.
func stopOn(cancel context.CancelFunc) func(context.Context, string, string) (feed.Page, error) {
	return func(ctx context.Context, _, _ string) (feed.Page, error) {
		cancel()
		return feed.Page{}, ctx.Err()
	}
}

func piece() image.Image { return imaging.New(10, 10, color.NRGBA{R: 90, G: 90, B: 90, A: 255}) }

func rateLimited() error { return fmt.Errorf("%w: <html>", feed.ErrRateLimited) }

// ── Run ───────────────────────────────────────────────────────────────────────

func TestRun_RoundRobinWithPagination(t *testing.T) {
	d := newDeps(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gomock.InOrder(
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").
			Return(feed.Page{Refs: refs("c1"), NextCursor: "n1", HasMore: true}, nil),
		d.source.EXPECT().GetPost(gomock.Any(), "c1").Return(detail("c1", "alice"), nil),
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "n1").
			Return(feed.Page{Refs: refs("c2"), HasMore: false}, nil),
		d.source.EXPECT().GetPost(gomock.Any(), "c2").Return(detail("c2", "bob"), nil),
		d.source.EXPECT().ListByHashtag(gomock.Any(), "dogs", "").
			Return(feed.Page{}, nil),
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").DoAndReturn(stopOn(cancel)),
	)
	d.photos.EXPECT().Fetch(gomock.Any(), gomock.Any(), pieceSize).Return(piece(), nil).Times(2)

	var c collector
	err := feeder.New(d.source, d.photos, d.blocked, fastConfig()).
		Run(ctx, newJob([]string{"cats", "dogs"}, seen{}, &c))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"c1", "c2"}, c.ids())
	assert.Equal(t, "alice", c.posts[0].Username)
	assert.Equal(t, "cats", c.posts[0].Hashtag)
	assert.Equal(t, 10, c.posts[0].Image.Bounds().Dx())
}

func TestRun_MaxPagesMovesToNextHashtag(t *testing.T) {
	d := newDeps(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gomock.InOrder(
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").
			Return(feed.Page{NextCursor: "n1", HasMore: true}, nil),
		d.source.EXPECT().ListByHashtag(gomock.Any(), "dogs", "").DoAndReturn(stopOn(cancel)),
	)

	cfg := fastConfig()
	cfg.MaxPages = 1
	var c collector
	err := feeder.New(d.source, d.photos, d.blocked, cfg).
		Run(ctx, newJob([]string{"cats", "dogs"}, seen{}, &c))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_DeduplicatesBeforeDetailFetch(t *testing.T) {
	d := newDeps(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gomock.InOrder(
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").
			Return(feed.Page{Refs: refs("old", "new")}, nil),
		d.source.EXPECT().GetPost(gomock.Any(), "new").Return(detail("new", "alice"), nil),
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").DoAndReturn(stopOn(cancel)),
	)
	d.photos.EXPECT().Fetch(gomock.Any(), "https://cdn/new.jpg", pieceSize).Return(piece(), nil)

	var c collector
	err := feeder.New(d.source, d.photos, d.blocked, fastConfig()).
		Run(ctx, newJob([]string{"cats"}, seen{"old": true}, &c))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"new"}, c.ids())
}

func TestRun_FilteredHashtagStillAdvancesCycle(t *testing.T) {
	d := newDeps(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, d.blocked.Add(ctx, "spammer"))

	gomock.InOrder(
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").
			Return(feed.Page{Refs: refs("old", "spam")}, nil),
		d.source.EXPECT().GetPost(gomock.Any(), "spam").Return(detail("spam", "spammer"), nil),
		d.source.EXPECT().ListByHashtag(gomock.Any(), "dogs", "").
			Return(feed.Page{Refs: refs("d1")}, nil),
		d.source.EXPECT().GetPost(gomock.Any(), "d1").Return(detail("d1", "alice"), nil),
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").DoAndReturn(stopOn(cancel)),
	)
	d.photos.EXPECT().Fetch(gomock.Any(), "https://cdn/d1.jpg", pieceSize).Return(piece(), nil)

	var c collector
	err := feeder.New(d.source, d.photos, d.blocked, fastConfig()).
		Run(ctx, newJob([]string{"cats", "dogs"}, seen{"old": true}, &c))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"d1"}, c.ids())
	assert.Equal(t, "dogs", c.posts[0].Hashtag)
}

func TestRun_CoolingRetryReissuesIdenticalRequest(t *testing.T) {
	d := newDeps(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gomock.InOrder(
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").Return(feed.Page{}, rateLimited()).Times(2),
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").
			Return(feed.Page{Refs: refs("p1"), NextCursor: "n1", HasMore: true}, nil),
		d.source.EXPECT().GetPost(gomock.Any(), "p1").Return(feed.Detail{}, rateLimited()).Times(3),
		d.source.EXPECT().GetPost(gomock.Any(), "p1").Return(detail("p1", "alice"), nil),
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "n1").Return(feed.Page{}, rateLimited()),
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "n1").DoAndReturn(stopOn(cancel)),
	)
	d.photos.EXPECT().Fetch(gomock.Any(), gomock.Any(), pieceSize).Return(piece(), nil)

	var c collector
	err := feeder.New(d.source, d.photos, d.blocked, fastConfig()).
		Run(ctx, newJob([]string{"cats"}, seen{}, &c))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"p1"}, c.ids())
}

func TestRun_SkipsBlockedUsers(t *testing.T) {
	d := newDeps(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, d.blocked.Add(ctx, "spammer"))

	gomock.InOrder(
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").
			Return(feed.Page{Refs: refs("s1", "ok")}, nil),
		d.source.EXPECT().GetPost(gomock.Any(), "s1").Return(detail("s1", "spammer"), nil),
		d.source.EXPECT().GetPost(gomock.Any(), "ok").Return(detail("ok", "alice"), nil),
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").DoAndReturn(stopOn(cancel)),
	)
	d.photos.EXPECT().Fetch(gomock.Any(), "https://cdn/ok.jpg", pieceSize).Return(piece(), nil)

	var c collector
	err := feeder.New(d.source, d.photos, d.blocked, fastConfig()).
		Run(ctx, newJob([]string{"cats"}, seen{}, &c))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"ok"}, c.ids())
}

func TestRun_BlockListFailureKeepsPost(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockFeedSource(ctrl)
	photos := mocks.NewMockPhotoFetcher(ctrl)
	blocked := mocks.NewMockBlockList(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gomock.InOrder(
		source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").Return(feed.Page{Refs: refs("p1")}, nil),
		source.EXPECT().GetPost(gomock.Any(), "p1").Return(detail("p1", "alice"), nil),
		source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").DoAndReturn(stopOn(cancel)),
	)
	blocked.EXPECT().Contains(gomock.Any(), "alice").Return(false, errors.New("redis down"))
	photos.EXPECT().Fetch(gomock.Any(), gomock.Any(), pieceSize).Return(piece(), nil)

	var c collector
	err := feeder.New(source, photos, blocked, fastConfig()).
		Run(ctx, newJob([]string{"cats"}, seen{}, &c))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"p1"}, c.ids())
}

func TestRun_PhotoFailureDropsOnlyThatCandidate(t *testing.T) {
	d := newDeps(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gomock.InOrder(
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").
			Return(feed.Page{Refs: refs("bad", "good")}, nil),
		d.source.EXPECT().GetPost(gomock.Any(), "bad").Return(detail("bad", "alice"), nil),
		d.source.EXPECT().GetPost(gomock.Any(), "good").Return(detail("good", "bob"), nil),
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").DoAndReturn(stopOn(cancel)),
	)
	d.photos.EXPECT().Fetch(gomock.Any(), "https://cdn/bad.jpg", pieceSize).Return(nil, errors.New("decoding photo: bad format"))
	d.photos.EXPECT().Fetch(gomock.Any(), "https://cdn/good.jpg", pieceSize).Return(piece(), nil)

	var c collector
	err := feeder.New(d.source, d.photos, d.blocked, fastConfig()).
		Run(ctx, newJob([]string{"cats"}, seen{}, &c))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"good"}, c.ids())
}

func TestRun_HardTransportErrorAborts(t *testing.T) {
	d := newDeps(t)
	refused := errors.New("dial tcp: connection refused")

	d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").Return(feed.Page{}, refused)

	var c collector
	err := feeder.New(d.source, d.photos, d.blocked, fastConfig()).
		Run(context.Background(), newJob([]string{"cats"}, seen{}, &c))

	require.ErrorIs(t, err, refused)
	assert.NotErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "listing hashtag cats")
}

func TestRun_HardErrorOnDetailAborts(t *testing.T) {
	d := newDeps(t)
	refused := errors.New("connection reset")

	gomock.InOrder(
		d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").Return(feed.Page{Refs: refs("p1")}, nil),
		d.source.EXPECT().GetPost(gomock.Any(), "p1").Return(feed.Detail{}, refused),
	)

	var c collector
	err := feeder.New(d.source, d.photos, d.blocked, fastConfig()).
		Run(context.Background(), newJob([]string{"cats"}, seen{}, &c))

	require.ErrorIs(t, err, refused)
	assert.Empty(t, c.posts)
}

func TestRun_NoHashtags(t *testing.T) {
	d := newDeps(t)
	var c collector
	err := feeder.New(d.source, d.photos, d.blocked, fastConfig()).
		Run(context.Background(), newJob(nil, seen{}, &c))
	require.ErrorIs(t, err, feeder.ErrNoHashtags)
}

// ── Cancellation & pacing ─────────────────────────────────────────────────────

func TestRun_CancelDuringPacing(t *testing.T) {
	d := newDeps(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	cfg := feeder.Config{RequestInterval: time.Hour, CoolingInterval: time.Hour}
	var c collector
	start := time.Now()
	err := feeder.New(d.source, d.photos, d.blocked, cfg).
		Run(ctx, newJob([]string{"cats"}, seen{}, &c))

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_CancelDuringCooling(t *testing.T) {
	d := newDeps(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").Return(feed.Page{}, rateLimited()).Times(1)

	cfg := feeder.Config{CoolingInterval: time.Hour}
	var c collector
	start := time.Now()
	err := feeder.New(d.source, d.photos, d.blocked, cfg).
		Run(ctx, newJob([]string{"cats"}, seen{}, &c))

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_PacesEveryCall(t *testing.T) {
	d := newDeps(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const interval = 30 * time.Millisecond
	var calls []time.Time
	record := func(ctx context.Context, _, _ string) (feed.Page, error) {
		calls = append(calls, time.Now())
		if len(calls) == 3 {
			cancel()
			return feed.Page{}, ctx.Err()
		}
		return feed.Page{}, nil
	}
	d.source.EXPECT().ListByHashtag(gomock.Any(), "cats", "").DoAndReturn(record).Times(3)

	var c collector
	start := time.Now()
	err := feeder.New(d.source, d.photos, d.blocked, feeder.Config{RequestInterval: interval}).
		Run(ctx, newJob([]string{"cats"}, seen{}, &c))
	require.ErrorIs(t, err, context.Canceled)

	require.Len(t, calls, 3)
	slack := 5 * time.Millisecond
	assert.GreaterOrEqual(t, calls[0].Sub(start), interval-slack)
	assert.GreaterOrEqual(t, calls[1].Sub(calls[0]), interval-slack)
	assert.GreaterOrEqual(t, calls[2].Sub(calls[1]), interval-slack)
}
