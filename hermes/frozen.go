package hermes

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// FrozenQuery holds statements that were resolved once. It can be run any
// number of times, concurrently, but no clause can be added to it.
type FrozenQuery struct {
	query *Query
}

func (frozen *FrozenQuery) Table() *Table {
	return frozen.query.table
}

func (frozen *FrozenQuery) Run(ctx context.Context, opts ...RunOption) (any, error) {
	return frozen.query.Run(ctx, opts...)
}

func (frozen *FrozenQuery) RunSync(opts ...RunOption) (any, error) {
	return frozen.query.RunSync(opts...)
}

func (frozen *FrozenQuery) Async(ctx context.Context, opts ...RunOption) <-chan Result {
	return frozen.query.Async(ctx, opts...)
}

func (frozen *FrozenQuery) Querystrings() ([]QueryString, error) {
	return frozen.query.Querystrings()
}

func (frozen *FrozenQuery) String() string {
	return frozen.query.String()
}

// Apply always fails. The error tells apart clauses the original query
// supported from clauses that never existed on it.
func (frozen *FrozenQuery) Apply(clauses ...Clause) error {
	for _, clause := range clauses {
		return &ClauseError{
			Clause: clause.ClauseName(),
			Frozen: clause.supportedBy(frozen.query.target),
		}
	}

	return nil
}

// Cache stores rendered JSON responses.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, duration time.Duration) error
}

// CachedQuery serves a frozen JSON query from a cache, running it on a miss.
type CachedQuery struct {
	frozen *FrozenQuery
	cache  Cache
	ttl    time.Duration
	key    string
}

// Cached wraps the query with a result cache. Only queries whose output is
// JSON can be cached.
func (frozen *FrozenQuery) Cached(cache Cache, ttl time.Duration) (*CachedQuery, error) {
	if frozen.query.output == nil || !frozen.query.output.AsJSON {
		return nil, fmt.Errorf("%s: %w", frozen.query.table.Name, ErrNotCacheable)
	}

	hash := sha256.Sum256([]byte(frozen.String()))

	return &CachedQuery{
		frozen: frozen,
		cache:  cache,
		ttl:    ttl,
		key:    "hermes:" + frozen.query.table.Name + ":" + hex.EncodeToString(hash[:]),
	}, nil
}

func (cached *CachedQuery) Key() string {
	return cached.key
}

// Run returns the cached JSON when present. Cache read failures count as a
// miss.
func (cached *CachedQuery) Run(ctx context.Context, opts ...RunOption) (string, error) {
	if value, err := cached.cache.Get(ctx, cached.key); err == nil {
		return value, nil
	}

	response, err := cached.frozen.Run(ctx, opts...)
	if err != nil {
		return "", err
	}

	value, ok := response.(string)
	if !ok {
		return "", fmt.Errorf("%s: %w", cached.frozen.query.table.Name, ErrNotCacheable)
	}

	if err := cached.cache.Set(ctx, cached.key, value, cached.ttl); err != nil {
		return "", err
	}

	return value, nil
}
