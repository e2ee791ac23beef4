package post

import (
	"image"
	"time"
)

// Post is a harvested feed photo, already resized to the piece size of the
// worker that fetched it.
type Post struct {
	ID        string      `json:"post_id"`
	Username  string      `json:"user_name"`
	Hashtag   string      `json:"hashtag"`
	Image     image.Image `json:"-"`
	CreatedAt time.Time   `json:"created_at"`
}

func New(id, username, hashtag string, img image.Image) Post {
	return Post{
		ID:        id,
		Username:  username,
		Hashtag:   hashtag,
		Image:     img,
		CreatedAt: time.Now().UTC(),
	}
}
