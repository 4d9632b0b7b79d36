// Package cache provides memoization for repeated string classification.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// TimestampCache memoizes a timestamp detector by input string.
type TimestampCache struct {
	cache  *lru.Cache[string, bool]
	detect func(string) bool
}

// NewTimestampCache wraps detect with an LRU of maxItems entries.
func NewTimestampCache(maxItems int, detect func(string) bool) (*TimestampCache, error) {
	c, err := lru.New[string, bool](maxItems)
	if err != nil {
		return nil, err
	}
	return &TimestampCache{cache: c, detect: detect}, nil
}

// Detector returns detect wrapped with an LRU, or detect itself when
// maxItems <= 0.
func Detector(maxItems int, detect func(string) bool) (func(string) bool, error) {
	if maxItems <= 0 {
		return detect, nil
	}
	c, err := NewTimestampCache(maxItems, detect)
	if err != nil {
		return nil, err
	}
	return c.IsTimestamp, nil
}

// IsTimestamp returns the cached classification of s, computing it on a miss.
func (c *TimestampCache) IsTimestamp(s string) bool {
	if ok, hit := c.cache.Get(s); hit {
		return ok
	}
	ok := c.detect(s)
	c.cache.Add(s, ok)
	return ok
}

// Len returns the current number of cached strings.
func (c *TimestampCache) Len() int {
	return c.cache.Len()
}
