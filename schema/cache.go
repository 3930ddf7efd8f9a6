package schema

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// Cache memoizes parsed schemas by source text.
// The zero value is ready to use and a Cache is safe for concurrent use.
type Cache struct {
	entries sync.Map // cacheKey → *cacheEntry
}

// cacheKey identifies a source text parsed with a given depth limit.
type cacheKey struct {
	hash     uint64
	maxDepth int
}

// cacheEntry is parsed at most once.
type cacheEntry struct {
	once   sync.Once
	source string
	schema *Schema
	err    error
}

// Parse returns the cached result of parsing text with opts, parsing it on
// first use. Parse errors are cached too.
//
// The logger of the first caller is retained by the cached [Schema]; pass
// [WithLogger] to [Schema.Build] to log elsewhere.
func (c *Cache) Parse(
	ctx context.Context,
	text string,
	opts ...Option,
) (*Schema, error) {
	o := makeOptions(opts...)
	key := cacheKey{hash: xxh3.HashString(text), maxDepth: o.maxDepth}

	value, hit := c.entries.LoadOrStore(key, &cacheEntry{source: text})
	entry := value.(*cacheEntry)

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(key.hash, 16)),
		slog.Bool("cache_hit", hit))

	// Distinct sources with equal hashes are parsed without caching.
	if entry.source != text {
		o.logger.TraceContext(ctx, "cache bypass",
			slog.String("reason", "hash collision"))

		return Parse(ctx, text, opts...)
	}

	entry.once.Do(func() {
		entry.schema, entry.err = Parse(ctx, text, opts...)
	})

	return entry.schema, entry.err
}

// Compile is [Compile] using c to parse text.
func (c *Cache) Compile(
	ctx context.Context,
	text string,
	inputs map[string]any,
	opts ...Option,
) (*Map, error) {
	s, err := c.Parse(ctx, text, opts...)
	if err != nil {
		return nil, err
	}

	return s.Build(ctx, inputs, opts...)
}

// Len returns the number of cached source texts.
func (c *Cache) Len() int {
	n := 0

	c.entries.Range(func(any, any) bool {
		n++

		return true
	})

	return n
}

// Clear removes all cached schemas.
func (c *Cache) Clear() {
	c.entries.Clear()
}
