package feeder

// hashtagCycle yields hashtags in round-robin order, forever.
type hashtagCycle struct {
	hashtags []string
	next     int
}

func newHashtagCycle(hashtags []string) *hashtagCycle {
	return &hashtagCycle{hashtags: hashtags}
}

func (c *hashtagCycle) Next() string {
	h := c.hashtags[c.next]
	c.next = (c.next + 1) % len(c.hashtags)
	return h
}
