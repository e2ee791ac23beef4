package feed

import (
	"context"
	"errors"
)

//go:generate mockgen -destination=../../mocks/feed.go -package=mocks -mock_names=Source=MockFeedSource . Source

// ErrRateLimited marks a response that could not be parsed. The upstream
// rate-limit page is indistinguishable from a malformed payload, so callers
// treat both as transient and retry the same request after cooling down.
var ErrRateLimited = errors.New("feed: rate limited or malformed response")

// Ref is a lightweight post reference from a hashtag page.
type Ref struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
}

type Page struct {
	Refs       []Ref  `json:"refs"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

type Detail struct {
	ID       string `json:"id"`
	Username string `json:"user_name"`
	ImageURL string `json:"image_url"`
}

// Source is the external social feed. Errors other than ErrRateLimited are
// hard transport failures.
type Source interface {
	ListByHashtag(ctx context.Context, hashtag, cursor string) (Page, error)
	GetPost(ctx context.Context, id string) (Detail, error)
}
