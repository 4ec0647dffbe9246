package readcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pochi-pay/pochi_pay/client/apierr"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newCache(t *testing.T) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	c := New()
	c.SetNowFunc(clock.Now)
	return c, clock
}

func TestGetServesFreshValueWithoutRefetch(t *testing.T) {
	c, clock := newCache(t)
	calls := 0
	c.Register(KeyProfile, ProfileStaleness, func(ctx context.Context) (any, error) {
		calls++
		return "profile", nil
	})

	_, err := c.Get(context.Background(), KeyProfile)
	require.NoError(t, err)
	clock.Advance(time.Minute)
	value, err := c.Get(context.Background(), KeyProfile)
	require.NoError(t, err)

	assert.Equal(t, "profile", value)
	assert.Equal(t, 1, calls)
}

func TestGetRefetchesAfterStaleness(t *testing.T) {
	c, clock := newCache(t)
	calls := 0
	c.Register(KeyTransactions, TransactionsStaleness, func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	})

	_, err := c.Get(context.Background(), KeyTransactions)
	require.NoError(t, err)
	clock.Advance(TransactionsStaleness)
	value, err := c.Get(context.Background(), KeyTransactions)
	require.NoError(t, err)

	assert.Equal(t, 2, value)
}

func TestZeroStalenessAlwaysRefetches(t *testing.T) {
	c, _ := newCache(t)
	calls := 0
	c.Register(KeyWallets, WalletsStaleness, func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	})

	for i := 0; i < 3; i++ {
		_, err := c.Get(context.Background(), KeyWallets)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, calls)
}

func TestGetRetriesTwiceThenSucceeds(t *testing.T) {
	c, _ := newCache(t)
	calls := 0
	c.Register(KeyServices, ServicesStaleness, func(ctx context.Context) (any, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("flaky")
		}
		return "services", nil
	})

	value, err := c.Get(context.Background(), KeyServices)

	require.NoError(t, err)
	assert.Equal(t, "services", value)
	assert.Equal(t, 3, calls)
}

func TestGetStopsAfterThreeAttempts(t *testing.T) {
	c, _ := newCache(t)
	calls := 0
	c.Register(KeyServices, ServicesStaleness, func(ctx context.Context) (any, error) {
		calls++
		return nil, errors.New("down")
	})

	_, err := c.Get(context.Background(), KeyServices)

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestUnauthorizedIsNotRetried(t *testing.T) {
	c, _ := newCache(t)
	calls := 0
	c.Register(KeyProfile, ProfileStaleness, func(ctx context.Context) (any, error) {
		calls++
		return nil, &apierr.Unauthorized{}
	})

	_, err := c.Get(context.Background(), KeyProfile)

	var unauthorized *apierr.Unauthorized
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, 1, calls)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	c, _ := newCache(t)
	calls := 0
	c.Register(KeyProfile, ProfileStaleness, func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	})

	_, err := c.Get(context.Background(), KeyProfile)
	require.NoError(t, err)
	c.Invalidate(KeyProfile)
	value, err := c.Get(context.Background(), KeyProfile)
	require.NoError(t, err)

	assert.Equal(t, 2, value)
}

func TestRefocusRefreshesOnlyStaleEntries(t *testing.T) {
	c, clock := newCache(t)
	profileCalls, txCalls := 0, 0
	c.Register(KeyProfile, ProfileStaleness, func(ctx context.Context) (any, error) {
		profileCalls++
		return "profile", nil
	})
	c.Register(KeyTransactions, TransactionsStaleness, func(ctx context.Context) (any, error) {
		txCalls++
		return "txs", nil
	})

	_, err := c.Get(context.Background(), KeyProfile)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), KeyTransactions)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	require.NoError(t, c.Refocus(context.Background()))

	assert.Equal(t, 1, profileCalls, "fresh entries are left alone")
	assert.Equal(t, 2, txCalls, "stale entries are refreshed")
}

func TestSetPolicyChangesStaleness(t *testing.T) {
	c, clock := newCache(t)
	calls := 0
	c.Register(KeyServices, ServicesStaleness, func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	})

	_, err := c.Get(context.Background(), KeyServices)
	require.NoError(t, err)
	require.NoError(t, c.SetPolicy(KeyServices, time.Second))
	clock.Advance(2 * time.Second)
	_, err = c.Get(context.Background(), KeyServices)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.ErrorIs(t, c.SetPolicy("nope", time.Second), ErrUnknownKey)
}

func TestGetAsAssertsType(t *testing.T) {
	c, _ := newCache(t)
	c.Register(KeyWallets, WalletsStaleness, func(ctx context.Context) (any, error) {
		return []string{"w1"}, nil
	})

	wallets, err := GetAs[[]string](context.Background(), c, KeyWallets)
	require.NoError(t, err)
	assert.Equal(t, []string{"w1"}, wallets)

	_, err = GetAs[int](context.Background(), c, KeyWallets)
	require.Error(t, err)
}
