package blocklist

import "context"

//go:generate mockgen -destination=../../mocks/blocklist.go -package=mocks -mock_names=Set=MockBlockList . Set

// Set is the process-wide set of blocked author handles. It is advisory:
// lookups that fail are treated as not blocked.
type Set interface {
	Add(ctx context.Context, username string) error
	Contains(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]string, error)
}
