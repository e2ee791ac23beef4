package blocklist

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

const key = "mosaic:block_users"

// BlockList keeps blocked author handles in a Redis set so every server
// instance filters the same users.
type BlockList struct {
	client *redis.Client
}

func New(client *redis.Client) *BlockList {
	return &BlockList{client: client}
}

func (b *BlockList) Add(ctx context.Context, username string) error {
	if err := b.client.SAdd(ctx, key, username).Err(); err != nil {
		return fmt.Errorf("adding blocked user %s: %w", username, err)
	}
	return nil
}

func (b *BlockList) Contains(ctx context.Context, username string) (bool, error) {
	ok, err := b.client.SIsMember(ctx, key, username).Result()
	if err != nil {
		return false, fmt.Errorf("checking blocked user %s: %w", username, err)
	}
	return ok, nil
}

func (b *BlockList) List(ctx context.Context) ([]string, error) {
	users, err := b.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("listing blocked users: %w", err)
	}
	sort.Strings(users)
	return users, nil
}
