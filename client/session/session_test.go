package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pochi-pay/pochi_pay/client"
)

type fixture struct {
	api      *client.Client
	tokens   *MemoryTokenStore
	store    *Store
	requests *atomic.Int64
	toLogin  *atomic.Int64
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	requests := &atomic.Int64{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	toLogin := &atomic.Int64{}
	api := client.New(srv.URL)
	tokens := NewMemoryTokenStore()
	store := New(api, tokens, NavigatorFunc(func() { toLogin.Add(1) }), nil)
	return &fixture{api: api, tokens: tokens, store: store, requests: requests, toLogin: toLogin}
}

func meHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":"u1","firstName":"Amina","email":"amina@example.com"}}`))
	}
}

func TestInitializeWithoutTokenSkipsNetwork(t *testing.T) {
	f := newFixture(t, meHandler(t))

	require.NoError(t, f.store.Initialize(context.Background()))

	assert.EqualValues(t, 0, f.requests.Load())
	assert.EqualValues(t, 1, f.toLogin.Load())
	assert.False(t, f.store.Authenticated())
}

func TestInitializeRestoresValidToken(t *testing.T) {
	f := newFixture(t, meHandler(t))
	require.NoError(t, f.tokens.Save("good-token"))

	require.NoError(t, f.store.Initialize(context.Background()))

	assert.True(t, f.store.Authenticated())
	user, ok := f.store.User()
	require.True(t, ok)
	assert.Equal(t, "u1", user.ID)
	assert.EqualValues(t, 0, f.toLogin.Load())
}

func TestInitializePurgesRejectedToken(t *testing.T) {
	f := newFixture(t, meHandler(t))
	require.NoError(t, f.tokens.Save("stale-token"))

	require.NoError(t, f.store.Initialize(context.Background()))

	assert.False(t, f.store.Authenticated())
	persisted, err := f.tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)
	assert.EqualValues(t, 1, f.toLogin.Load())
}

func TestInitializeIsIdempotent(t *testing.T) {
	f := newFixture(t, meHandler(t))
	require.NoError(t, f.tokens.Save("good-token"))

	require.NoError(t, f.store.Initialize(context.Background()))
	require.NoError(t, f.store.Initialize(context.Background()))

	assert.EqualValues(t, 1, f.requests.Load())
}

func TestSetAuthPersistsToken(t *testing.T) {
	f := newFixture(t, meHandler(t))

	require.NoError(t, f.store.SetAuth("good-token", client.User{ID: "u1"}))

	persisted, err := f.tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, "good-token", persisted)
	assert.True(t, f.store.Authenticated())
}

func TestLogoutClearsEverything(t *testing.T) {
	f := newFixture(t, meHandler(t))
	require.NoError(t, f.store.SetAuth("good-token", client.User{ID: "u1"}))

	require.NoError(t, f.store.Logout())

	assert.False(t, f.store.Authenticated())
	_, ok := f.store.User()
	assert.False(t, ok)
	persisted, err := f.tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)
	assert.EqualValues(t, 1, f.toLogin.Load())
}

func TestServer401MidSessionExpires(t *testing.T) {
	f := newFixture(t, meHandler(t))
	require.NoError(t, f.store.SetAuth("revoked-token", client.User{ID: "u1"}))

	_, err := f.api.Me(context.Background())

	require.Error(t, err)
	assert.False(t, f.store.Authenticated())
	assert.EqualValues(t, 1, f.toLogin.Load())
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := t.TempDir() + "/nested/token"
	store := NewFileTokenStore(path)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	require.NoError(t, store.Save("tok-123"))
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", loaded)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
