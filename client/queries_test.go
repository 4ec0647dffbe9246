package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pochi-pay/pochi_pay/client/readcache"
)

func TestServiceWalletsProjection(t *testing.T) {
	services := []Service{
		{ID: "s1", Name: "Electricity", IsActive: true},
		{ID: "s2", Name: "Legacy", IsActive: false},
	}

	wallets := ServiceWallets(services)

	require.Len(t, wallets, 2)
	assert.Equal(t, "s1", wallets[0].ID)
	assert.Equal(t, WalletSystem, wallets[0].Type)
	assert.True(t, wallets[0].Balance.IsZero())
	assert.True(t, wallets[0].IsActive)
	assert.False(t, wallets[1].IsActive)
}

func TestRegisterReadsWiresAllKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/auth/me":
			_, _ = w.Write([]byte(`{"user":{"id":"u1"}}`))
		case "/api/v1/wallets":
			_, _ = w.Write([]byte(`{"wallets":[]}`))
		case "/api/v1/transactions":
			_, _ = w.Write([]byte(`{"transactions":[]}`))
		case "/api/v1/services":
			_, _ = w.Write([]byte(`[{"id":"s1","name":"Water","isActive":true}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cache := readcache.New()
	RegisterReads(cache, New(srv.URL))

	ctx := context.Background()
	user, err := readcache.GetAs[User](ctx, cache, readcache.KeyProfile)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = readcache.GetAs[[]Wallet](ctx, cache, readcache.KeyWallets)
	require.NoError(t, err)
	_, err = readcache.GetAs[[]Transaction](ctx, cache, readcache.KeyTransactions)
	require.NoError(t, err)

	services, err := readcache.GetAs[[]Service](ctx, cache, readcache.KeyServices)
	require.NoError(t, err)
	require.Len(t, services, 1)

	wallets, err := readcache.GetAs[[]Wallet](ctx, cache, readcache.KeyServiceWallets)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, WalletSystem, wallets[0].Type)
}

func TestWritesCarryIdempotencyKey(t *testing.T) {
	keys := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("Idempotency-Key")
		require.NotEmpty(t, key)
		keys[key] = true
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"t1","category":"WALLET_FUNDING","status":"COMPLETED","amount":"5.00","toWalletId":"w1","reference":"r1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	input := FundInput{WalletID: "w1", Amount: mustDecimal(t, "5"), ExternalReference: "r1"}
	_, err := c.FundWallet(context.Background(), input)
	require.NoError(t, err)
	_, err = c.FundWallet(context.Background(), input)
	require.NoError(t, err)

	assert.Len(t, keys, 2, "each submission gets its own key")
}
