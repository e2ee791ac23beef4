package worker

import (
	"strings"

	"github.com/samber/lo"
)

// NormalizeHashtags trims, strips a leading '#', lowercases and dedups
// hashtags, keeping first-seen order.
func NormalizeHashtags(hashtags []string) []string {
	cleaned := lo.Map(hashtags, func(h string, _ int) string {
		return strings.ToLower(strings.TrimLeft(strings.TrimSpace(h), "#"))
	})
	return lo.Uniq(lo.Compact(cleaned))
}
