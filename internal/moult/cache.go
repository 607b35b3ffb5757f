package moult

import (
	"fmt"
	"sort"
	"strings"
)

// Cache keeps the most recent analysis result so drill-down interactions
// do not recompute a full pass. The key covers the dataset identity and
// every analysis parameter; any change misses and evicts.
type Cache struct {
	key    string
	result *Result
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns the cached result for the dataset/parameter combination.
func (c *Cache) Get(datasetKey string, p Parameters) (*Result, bool) {
	if c.result == nil || c.key != cacheKey(datasetKey, p) {
		return nil, false
	}
	return c.result, true
}

// Put stores a result, replacing whatever was cached before.
func (c *Cache) Put(datasetKey string, p Parameters, r *Result) {
	c.key = cacheKey(datasetKey, p)
	c.result = r
}

// Invalidate drops the cached result.
func (c *Cache) Invalidate() {
	c.key = ""
	c.result = nil
}

func cacheKey(datasetKey string, p Parameters) string {
	years := append([]int(nil), p.Years...)
	sort.Ints(years)
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = fmt.Sprintf("%d", y)
	}
	return fmt.Sprintf("%s|%s|%s|%s|%d|%d|%d|%s",
		datasetKey, p.Species, p.Place, strings.Join(parts, ","),
		p.Definition.Kind, p.Definition.StartMonth, p.Definition.EndMonth,
		p.Definition.Status)
}
