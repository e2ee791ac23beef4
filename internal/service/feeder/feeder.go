// Package feeder polls the external feed for every hashtag of a worker and
// hands each new, unblocked, fitted photo to the worker's sink.
package feeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/alanyang/insta-mosaic/internal/domain/mosaic"
	domainpost "github.com/alanyang/insta-mosaic/internal/domain/post"
	"github.com/alanyang/insta-mosaic/internal/port/blocklist"
	"github.com/alanyang/insta-mosaic/internal/port/feed"
	"github.com/alanyang/insta-mosaic/internal/port/photo"
)

var ErrNoHashtags = errors.New("feeder: no hashtags")

type Config struct {
	// RequestInterval is the minimum spacing between two feed calls.
	RequestInterval time.Duration
	// CoolingInterval is the flat wait before re-issuing a request whose
	// response could not be parsed.
	CoolingInterval time.Duration
	// MaxPages caps the pages read per hashtag visit. Zero reads until the
	// feed reports no more pages.
	MaxPages int
}

// Target is the read side of the mosaic the job feeds.
type Target interface {
	HasPost(id string) bool
}

type Sink func(ctx context.Context, p domainpost.Post)

type Job struct {
	WorkerID  uuid.UUID
	Hashtags  []string
	PieceSize mosaic.Size
	Target    Target
	Sink      Sink
}

type Pipeline struct {
	source  feed.Source
	photos  photo.Fetcher
	blocked blocklist.Set
	cfg     Config
}

func New(source feed.Source, photos photo.Fetcher, blocked blocklist.Set, cfg Config) *Pipeline {
	return &Pipeline{
		source:  source,
		photos:  photos,
		blocked: blocked,
		cfg:     cfg,
	}
}

// run is the per-job state. Nothing in it is shared between jobs.
type run struct {
	*Pipeline
	job   Job
	pacer *pacer
	log   *slog.Logger
}

// Run feeds job until ctx is cancelled or a feed call fails hard. It returns
// ctx.Err() on cancellation.
func (p *Pipeline) Run(ctx context.Context, job Job) error {
	if len(job.Hashtags) == 0 {
		return ErrNoHashtags
	}

	r := &run{
		Pipeline: p,
		job:      job,
		pacer:    newPacer(p.cfg.RequestInterval),
		log:      slog.With("worker_id", job.WorkerID),
	}
	cycle := newHashtagCycle(job.Hashtags)

	for {
		if err := r.drainHashtag(ctx, cycle.Next()); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

func (r *run) drainHashtag(ctx context.Context, hashtag string) error {
	cursor := ""
	for pages := 0; r.cfg.MaxPages == 0 || pages < r.cfg.MaxPages; pages++ {
		var page feed.Page
		err := r.call(ctx, hashtag, func(ctx context.Context) error {
			var err error
			page, err = r.source.ListByHashtag(ctx, hashtag, cursor)
			return err
		})
		if err != nil {
			return fmt.Errorf("listing hashtag %s: %w", hashtag, err)
		}
		r.log.Debug("hashtag page", "hashtag", hashtag, "cursor", cursor, "refs", len(page.Refs), "has_more", page.HasMore)

		for _, ref := range page.Refs {
			if err := r.process(ctx, hashtag, ref); err != nil {
				return err
			}
		}

		if !page.HasMore || page.NextCursor == "" {
			return nil
		}
		cursor = page.NextCursor
	}
	return nil
}

func (r *run) process(ctx context.Context, hashtag string, ref feed.Ref) error {
	if r.job.Target.HasPost(ref.ID) {
		return nil
	}

	var detail feed.Detail
	err := r.call(ctx, hashtag, func(ctx context.Context) error {
		var err error
		detail, err = r.source.GetPost(ctx, ref.ID)
		return err
	})
	if err != nil {
		return fmt.Errorf("getting post %s: %w", ref.ID, err)
	}
	if detail.ID == "" {
		detail.ID = ref.ID
	}
	if detail.ImageURL == "" {
		detail.ImageURL = ref.ImageURL
	}

	if r.isBlocked(ctx, detail.Username) {
		r.log.Debug("skipping blocked user", "post_id", detail.ID, "user_name", detail.Username)
		return nil
	}

	img, err := r.photos.Fetch(ctx, detail.ImageURL, r.job.PieceSize)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.log.Warn("dropping post: photo fetch failed", "post_id", detail.ID, "error", err)
		return nil
	}

	r.job.Sink(ctx, domainpost.New(detail.ID, detail.Username, hashtag, img))
	return nil
}

func (r *run) isBlocked(ctx context.Context, username string) bool {
	if r.blocked == nil {
		return false
	}
	blocked, err := r.blocked.Contains(ctx, username)
	if err != nil {
		r.log.Warn("block list lookup failed", "user_name", username, "error", err)
		return false
	}
	return blocked
}

// call paces fn and re-issues it after a flat cooling delay for as long as
// it reports feed.ErrRateLimited.
func (r *run) call(ctx context.Context, hashtag string, fn func(context.Context) error) error {
	err := retry.Do(
		func() error {
			if err := r.pacer.Wait(ctx); err != nil {
				return err
			}
			return fn(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(r.cfg.CoolingInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, feed.ErrRateLimited) && ctx.Err() == nil
		}),
		retry.OnRetry(func(n uint, err error) {
			r.log.Warn("feed cooling down", "hashtag", hashtag, "attempt", n, "cooling", r.cfg.CoolingInterval, "error", err)
		}),
	)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
