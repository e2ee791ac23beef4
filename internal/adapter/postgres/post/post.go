package post

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainpost "github.com/alanyang/insta-mosaic/internal/domain/post"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Append stores the fitted piece as PNG. A post that is already stored is
// left untouched.
func (r *Repository) Append(ctx context.Context, p domainpost.Post) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, p.Image, imaging.PNG); err != nil {
		return fmt.Errorf("encoding post image %s: %w", p.ID, err)
	}

	query := `
		INSERT INTO insta_posts (id, username, hashtag, image, inserted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, p.ID, p.Username, p.Hashtag, buf.Bytes(), p.CreatedAt); err != nil {
		return fmt.Errorf("inserting post %s: %w", p.ID, err)
	}
	return nil
}

func (r *Repository) FindByHashtags(ctx context.Context, hashtags []string, limit int) ([]domainpost.Post, error) {
	query := `
		SELECT id, username, hashtag, image, inserted_at
		FROM insta_posts
		WHERE hashtag = ANY($1)
		ORDER BY inserted_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, hashtags, limit)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	var posts []domainpost.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}
	return posts, nil
}

func scanPost(row pgx.Row) (domainpost.Post, error) {
	var p domainpost.Post
	var data []byte
	if err := row.Scan(&p.ID, &p.Username, &p.Hashtag, &data, &p.CreatedAt); err != nil {
		return domainpost.Post{}, fmt.Errorf("scanning post: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return domainpost.Post{}, fmt.Errorf("decoding post image %s: %w", p.ID, err)
	}
	p.Image = img
	return p, nil
}
