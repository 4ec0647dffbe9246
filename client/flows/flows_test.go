package flows

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pochi-pay/pochi_pay/client"
	"github.com/pochi-pay/pochi_pay/client/apierr"
	"github.com/pochi-pay/pochi_pay/client/forms"
	"github.com/pochi-pay/pochi_pay/client/readcache"
)

type harness struct {
	api      *client.Client
	cache    *readcache.Cache
	requests *atomic.Int64
	notices  []string
	txFetch  *atomic.Int64
}

func newHarness(t *testing.T, handler http.HandlerFunc) *harness {
	t.Helper()
	h := &harness{
		cache:    readcache.New(),
		requests: &atomic.Int64{},
		txFetch:  &atomic.Int64{},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	h.api = client.New(srv.URL)
	h.cache.Register(readcache.KeyTransactions, readcache.TransactionsStaleness, func(ctx context.Context) (any, error) {
		h.txFetch.Add(1)
		return "tx-list", nil
	})
	return h
}

func (h *harness) notifier() Notifier {
	return NotifierFunc(func(message string) { h.notices = append(h.notices, message) })
}

func fundedResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte(`{"id":"t1","category":"WALLET_FUNDING","status":"COMPLETED","amount":"25.00","toWalletId":"w1","reference":"psp-1"}`))
}

func TestFundFlowHappyPath(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/wallets/fund", r.URL.Path)
		fundedResponse(w)
	})

	// Warm the transactions cache so invalidation is observable.
	_, err := h.cache.Get(context.Background(), readcache.KeyTransactions)
	require.NoError(t, err)
	require.EqualValues(t, 1, h.txFetch.Load())

	var done client.Transaction
	fetchesAtDone := int64(-1)
	flow := NewFundFlow(h.api, h.cache, h.notifier(), func(tx client.Transaction) {
		done = tx
		// Invalidation happens before completion is announced.
		_, err := h.cache.Get(context.Background(), readcache.KeyTransactions)
		require.NoError(t, err)
		fetchesAtDone = h.txFetch.Load()
	})

	err = flow.Submit(context.Background(), forms.FundForm{
		WalletID:          "w1",
		Amount:            "25",
		ExternalReference: "psp-1",
	})

	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, flow.State())
	assert.Equal(t, "t1", done.ID)
	assert.EqualValues(t, 2, fetchesAtDone)
	assert.Equal(t, []string{"Wallet funded"}, h.notices)
}

func TestSuccessStateVisibleOnlyAfterInvalidation(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		fundedResponse(w)
	})

	_, err := h.cache.Get(context.Background(), readcache.KeyTransactions)
	require.NoError(t, err)
	require.EqualValues(t, 1, h.txFetch.Load())

	flow := NewFundFlow(h.api, h.cache, h.notifier(), nil)

	// A concurrent observer that sees StateSucceeded must already find the
	// transactions read stale.
	fetchesAtSuccess := make(chan int64, 1)
	go func() {
		for flow.State() != StateSucceeded {
			runtime.Gosched()
		}
		_, _ = h.cache.Get(context.Background(), readcache.KeyTransactions)
		fetchesAtSuccess <- h.txFetch.Load()
	}()

	require.NoError(t, flow.Submit(context.Background(), forms.FundForm{
		WalletID:          "w1",
		Amount:            "25",
		ExternalReference: "psp-1",
	}))
	assert.EqualValues(t, 2, <-fetchesAtSuccess)
}

func TestFundFlowValidationFailureSkipsNetwork(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		fundedResponse(w)
	})
	flow := NewFundFlow(h.api, h.cache, h.notifier(), nil)

	err := flow.Submit(context.Background(), forms.FundForm{WalletID: "w1", Amount: "abc"})

	var verrs *apierr.Validation
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.Fields, "amount")
	assert.EqualValues(t, 0, h.requests.Load())
	assert.Equal(t, StateIdle, flow.State())
}

func TestFundFlowRejectsDoubleSubmit(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		fundedResponse(w)
	})
	flow := NewFundFlow(h.api, h.cache, h.notifier(), nil)

	first := make(chan error, 1)
	go func() {
		first <- flow.Submit(context.Background(), forms.FundForm{
			WalletID: "w1", Amount: "25", ExternalReference: "psp-1",
		})
	}()
	<-entered

	err := flow.Submit(context.Background(), forms.FundForm{
		WalletID: "w1", Amount: "10", ExternalReference: "psp-2",
	})
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-first)
	assert.EqualValues(t, 1, h.requests.Load())
}

func TestTransferFlowFailureThenRetry(t *testing.T) {
	fail := true
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"insufficient funds"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"t2","category":"WALLET_TRANSFER","status":"COMPLETED","amount":"5.00","fromWalletId":"w1","toWalletId":"w2","reference":"r1"}`))
	})
	flow := NewTransferFlow(h.api, h.cache, h.notifier(), nil)
	form := forms.TransferForm{FromWalletID: "w1", ToWalletID: "w2", Amount: "5", Description: "rent"}

	err := flow.Submit(context.Background(), form)
	require.Error(t, err)
	assert.Equal(t, StateFailed, flow.State())
	assert.Equal(t, "insufficient funds", flow.FailureMessage())
	assert.EqualValues(t, 1, h.requests.Load(), "writes are never retried")

	fail = false
	require.NoError(t, flow.Submit(context.Background(), form))
	assert.Equal(t, StateSucceeded, flow.State())
	assert.Equal(t, []string{"Transfer sent"}, h.notices)
}

func TestResetDiscardsLateResult(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		fundedResponse(w)
	})
	flow := NewFundFlow(h.api, h.cache, h.notifier(), nil)

	done := make(chan error, 1)
	go func() {
		done <- flow.Submit(context.Background(), forms.FundForm{
			WalletID: "w1", Amount: "25", ExternalReference: "psp-1",
		})
	}()
	<-entered
	flow.Reset()
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, StateIdle, flow.State())
	assert.Empty(t, h.notices, "abandoned submissions do not notify")
}

func TestPayServiceFlowHappyPath(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/services/pay", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"t3","category":"SERVICE_PAYMENT","status":"COMPLETED","amount":"12.35","fromWalletId":"w1","reference":"r2"}`))
	})
	flow := NewPayServiceFlow(h.api, h.cache, h.notifier(), nil)

	err := flow.Submit(context.Background(), forms.PayServiceForm{
		FromWalletID: "w1", ServiceID: "s1", Amount: "12.345",
	})

	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, flow.State())
	assert.Equal(t, []string{"Payment sent"}, h.notices)
}

func TestSelectableWalletsDropsInactive(t *testing.T) {
	wallets := []client.Wallet{
		{ID: "w1", IsActive: true},
		{ID: "w2", IsActive: false},
		{ID: "w3", IsActive: true},
	}

	out := SelectableWallets(wallets)

	require.Len(t, out, 2)
	assert.Equal(t, "w1", out[0].ID)
	assert.Equal(t, "w3", out[1].ID)
}

func TestPayeesListsActiveServicesAndSystemWallets(t *testing.T) {
	services := []client.Service{
		{ID: "s1", Name: "Electricity", IsActive: true},
		{ID: "s2", Name: "Legacy", IsActive: false},
	}
	wallets := []client.Wallet{
		{ID: "w1", Name: "City Utilities", Type: client.WalletSystem, IsActive: true},
		{ID: "w2", Name: "Dormant", Type: client.WalletSystem, IsActive: false},
		{ID: "w3", Name: "Someone's personal", Type: client.WalletPersonal, IsActive: true},
	}

	out := Payees(services, wallets)

	require.Len(t, out, 2)
	assert.Equal(t, Payee{ID: "s1", Name: "Electricity", Kind: PayeeService}, out[0])
	assert.Equal(t, Payee{ID: "w1", Name: "City Utilities", Kind: PayeeWallet}, out[1])
}

func TestPayeesDedupesServiceWalletProjections(t *testing.T) {
	services := []client.Service{{ID: "s1", Name: "Electricity", IsActive: true}}

	out := Payees(services, client.ServiceWallets(services))

	require.Len(t, out, 1)
	assert.Equal(t, PayeeService, out[0].Kind)
}
