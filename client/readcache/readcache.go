// Package readcache caches server reads behind per-key staleness policies so
// screens can share data without refetching on every render. Writes are never
// cached; flows invalidate the affected keys after a successful mutation.
package readcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pochi-pay/pochi_pay/client/apierr"
)

// Well-known cache keys used across the app.
const (
	KeyProfile        = "profile"
	KeyWallets        = "wallets"
	KeyTransactions   = "transactions"
	KeyServiceWallets = "serviceWallets"
	KeyServices       = "services"
)

// Default staleness windows per key. Wallet balances are always refetched.
const (
	ProfileStaleness        = 5 * time.Minute
	WalletsStaleness        = 0
	TransactionsStaleness   = 30 * time.Second
	ServiceWalletsStaleness = time.Minute
	ServicesStaleness       = 5 * time.Minute
)

// maxAttempts bounds read retries. Two retries beyond the first attempt.
const maxAttempts = 3

// FetchFunc loads fresh data for a cache key.
type FetchFunc func(ctx context.Context) (any, error)

// ErrUnknownKey is returned for keys that were never registered.
var ErrUnknownKey = errors.New("readcache: unknown key")

type entry struct {
	fetch     FetchFunc
	staleness time.Duration
	value     any
	fetchedAt time.Time
	valid     bool
}

// Cache is a keyed read-through cache. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// New builds an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// SetNowFunc overrides the clock, for tests.
func (c *Cache) SetNowFunc(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Register binds a key to its fetcher and staleness window. Re-registering a
// key replaces the fetcher and drops any cached value.
func (c *Cache) Register(key string, staleness time.Duration, fetch FetchFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{fetch: fetch, staleness: staleness}
}

// SetPolicy changes the staleness window of a registered key.
func (c *Cache) SetPolicy(key string, staleness time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	e.staleness = staleness
	return nil
}

// Get returns the cached value for key when it is still fresh, otherwise
// fetches. Failed fetches are retried up to twice, except authorization
// failures which are surfaced immediately.
func (c *Cache) Get(ctx context.Context, key string) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if e.valid && e.staleness > 0 && c.now().Sub(e.fetchedAt) < e.staleness {
		value := e.value
		c.mu.Unlock()
		return value, nil
	}
	fetch := e.fetch
	c.mu.Unlock()

	value, err := fetchWithRetry(ctx, fetch)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	e.value = value
	e.fetchedAt = c.now()
	e.valid = true
	c.mu.Unlock()
	return value, nil
}

// Invalidate drops the cached value for key so the next Get refetches.
// Unknown keys are ignored.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.valid = false
		e.value = nil
	}
}

// InvalidateAll drops every cached value, e.g. on logout.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		e.valid = false
		e.value = nil
	}
}

// Refocus refreshes every registered key whose cached value has gone stale.
// Intended for window-focus events. Failures keep the previous value and are
// reported without aborting the remaining keys.
func (c *Cache) Refocus(ctx context.Context) error {
	c.mu.Lock()
	stale := make([]string, 0, len(c.entries))
	for key, e := range c.entries {
		if e.valid && (e.staleness == 0 || c.now().Sub(e.fetchedAt) >= e.staleness) {
			stale = append(stale, key)
		}
	}
	c.mu.Unlock()

	var firstErr error
	for _, key := range stale {
		if _, err := c.Get(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func fetchWithRetry(ctx context.Context, fetch FetchFunc) (any, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		value, err := fetch(ctx)
		if err == nil {
			return value, nil
		}
		lastErr = err
		var unauthorized *apierr.Unauthorized
		if errors.As(err, &unauthorized) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// GetAs fetches key through the cache and asserts the value's type.
func GetAs[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var zero T
	value, err := c.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("readcache: key %s holds %T", key, value)
	}
	return typed, nil
}
