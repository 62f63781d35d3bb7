package handler

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	listCacheTTL     = 5 * time.Minute
	listCacheCleanup = 10 * time.Minute
)

// NewListCache returns the cache shared by the category and department
// listings. Any write to either table flushes it.
func NewListCache() *cache.Cache {
	return cache.New(listCacheTTL, listCacheCleanup)
}

func listCacheKey(prefix string, q pageQuery) string {
	return fmt.Sprintf("%s_%d_%d", prefix, q.Page, q.limit())
}
