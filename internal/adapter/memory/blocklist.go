package memory

import (
	"context"
	"sort"
	"sync"
)

// BlockList is the in-process block set used when no Redis is configured.
type BlockList struct {
	mu    sync.RWMutex
	users map[string]struct{}
}

func NewBlockList() *BlockList {
	return &BlockList{users: make(map[string]struct{})}
}

func (b *BlockList) Add(_ context.Context, username string) error {
	b.mu.Lock()
	b.users[username] = struct{}{}
	b.mu.Unlock()
	return nil
}

func (b *BlockList) Contains(_ context.Context, username string) (bool, error) {
	b.mu.RLock()
	_, ok := b.users[username]
	b.mu.RUnlock()
	return ok, nil
}

func (b *BlockList) List(_ context.Context) ([]string, error) {
	b.mu.RLock()
	out := make([]string, 0, len(b.users))
	for u := range b.users {
		out = append(out, u)
	}
	b.mu.RUnlock()
	sort.Strings(out)
	return out, nil
}
