package photo

import (
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/insta-mosaic/internal/domain/mosaic"
)

func TestFetch_ResizesToPiece(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		img := imaging.New(120, 80, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
		assert.NoError(t, imaging.Encode(w, img, imaging.JPEG))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())
	img, err := f.Fetch(context.Background(), srv.URL+"/a.jpg", mosaic.Size{Width: 30, Height: 30})
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestFetch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "not found", handler: func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) }},
		{name: "not an image", handler: func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("nope")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewFetcher(srv.Client()).Fetch(context.Background(), srv.URL, mosaic.Size{Width: 30, Height: 30})
			assert.Error(t, err)
		})
	}
}
