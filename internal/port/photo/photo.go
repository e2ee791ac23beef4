package photo

import (
	"context"
	"image"

	"github.com/alanyang/insta-mosaic/internal/domain/mosaic"
)

//go:generate mockgen -destination=../../mocks/photo.go -package=mocks -mock_names=Fetcher=MockPhotoFetcher . Fetcher

// Fetcher downloads a photo and returns it fitted to size.
type Fetcher interface {
	Fetch(ctx context.Context, url string, size mosaic.Size) (image.Image, error)
}
