package post

import (
	"context"

	domainpost "github.com/alanyang/insta-mosaic/internal/domain/post"
)

//go:generate mockgen -destination=../../mocks/post.go -package=mocks -mock_names=Repository=MockPostRepository . Repository

// Repository persists harvested posts.
// [DIP] service/worker depends on this interface, not on a concrete storage.
type Repository interface {
	Append(ctx context.Context, p domainpost.Post) error
	// FindByHashtags returns at most limit posts harvested under any of
	// hashtags, newest first.
	FindByHashtags(ctx context.Context, hashtags []string, limit int) ([]domainpost.Post, error)
}
