// Package flows drives the money-movement dialogs. Each controller runs the
// same lifecycle: validate locally, submit once, refresh the wallet and
// transaction reads, then notify. Dialog state is explicit so the UI can
// disable buttons while a submission is in flight.
package flows

import (
	"context"
	"sync"

	"github.com/pochi-pay/pochi_pay/client"
	"github.com/pochi-pay/pochi_pay/client/apierr"
	"github.com/pochi-pay/pochi_pay/client/forms"
	"github.com/pochi-pay/pochi_pay/client/readcache"
)

// State is the dialog's submission state.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrBusy is returned when Submit is called while a submission is in flight.
var ErrBusy = &apierr.Request{Status: 0, Message: "A submission is already in progress"}

// Notifier receives a success message after a completed money movement.
type Notifier interface {
	Success(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

func (f NotifierFunc) Success(message string) { f(message) }

// flow is the shared dialog state machine.
type flow struct {
	cache    *readcache.Cache
	notifier Notifier
	onDone   func(client.Transaction)

	mu      sync.Mutex
	state   State
	gen     int
	message string
}

// State returns the current dialog state.
func (f *flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// FailureMessage returns the message to display while in StateFailed.
func (f *flow) FailureMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Reset returns the dialog to idle. A submission still in flight is
// abandoned; its result is discarded when it lands.
func (f *flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.state = StateIdle
	f.message = ""
}

// begin moves the dialog into StateSubmitting, refusing reentry.
func (f *flow) begin() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return 0, ErrBusy
	}
	f.gen++
	f.state = StateSubmitting
	f.message = ""
	return f.gen, nil
}

// complete lands a submission result. Results from an abandoned generation
// are dropped without touching dialog state.
func (f *flow) complete(gen int, tx client.Transaction, err error) error {
	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return err
	}
	if err != nil {
		f.state = StateFailed
		f.message = apierr.UserMessage(err)
		f.mu.Unlock()
		return err
	}
	// Reads are marked stale before success is published anywhere, state
	// included, so an observer that sees StateSucceeded can never pick up a
	// pre-movement balance from cache.
	if f.cache != nil {
		f.cache.Invalidate(readcache.KeyWallets)
		f.cache.Invalidate(readcache.KeyTransactions)
	}
	f.state = StateSucceeded
	f.mu.Unlock()

	if f.notifier != nil {
		f.notifier.Success(successMessage(tx))
	}
	if f.onDone != nil {
		f.onDone(tx)
	}
	return nil
}

func successMessage(tx client.Transaction) string {
	switch tx.Category {
	case "WALLET_FUNDING":
		return "Wallet funded"
	case "WALLET_TRANSFER":
		return "Transfer sent"
	case "SERVICE_PAYMENT":
		return "Payment sent"
	case "WITHDRAWAL":
		return "Withdrawal complete"
	default:
		return "Done"
	}
}

// FundFlow drives the wallet funding dialog.
type FundFlow struct {
	flow
	api *client.Client
}

// NewFundFlow builds a funding dialog controller. onDone may be nil.
func NewFundFlow(api *client.Client, cache *readcache.Cache, notifier Notifier, onDone func(client.Transaction)) *FundFlow {
	return &FundFlow{flow: flow{cache: cache, notifier: notifier, onDone: onDone}, api: api}
}

// Submit validates the form and funds the wallet. Validation failures are
// returned immediately without any network traffic.
func (f *FundFlow) Submit(ctx context.Context, form forms.FundForm) error {
	input, verrs := form.Validate()
	if verrs != nil {
		return verrs
	}
	gen, err := f.begin()
	if err != nil {
		return err
	}
	tx, err := f.api.FundWallet(ctx, input)
	return f.complete(gen, tx, err)
}

// TransferFlow drives the wallet-to-wallet transfer dialog.
type TransferFlow struct {
	flow
	api *client.Client
}

// NewTransferFlow builds a transfer dialog controller. onDone may be nil.
func NewTransferFlow(api *client.Client, cache *readcache.Cache, notifier Notifier, onDone func(client.Transaction)) *TransferFlow {
	return &TransferFlow{flow: flow{cache: cache, notifier: notifier, onDone: onDone}, api: api}
}

// Submit validates the form and executes the transfer.
func (f *TransferFlow) Submit(ctx context.Context, form forms.TransferForm) error {
	input, verrs := form.Validate()
	if verrs != nil {
		return verrs
	}
	gen, err := f.begin()
	if err != nil {
		return err
	}
	tx, err := f.api.Transfer(ctx, input)
	return f.complete(gen, tx, err)
}

// PayServiceFlow drives the service payment dialog.
type PayServiceFlow struct {
	flow
	api *client.Client
}

// NewPayServiceFlow builds a service payment dialog controller. onDone may be nil.
func NewPayServiceFlow(api *client.Client, cache *readcache.Cache, notifier Notifier, onDone func(client.Transaction)) *PayServiceFlow {
	return &PayServiceFlow{flow: flow{cache: cache, notifier: notifier, onDone: onDone}, api: api}
}

// Submit validates the form and pays the service.
func (f *PayServiceFlow) Submit(ctx context.Context, form forms.PayServiceForm) error {
	input, verrs := form.Validate()
	if verrs != nil {
		return verrs
	}
	gen, err := f.begin()
	if err != nil {
		return err
	}
	tx, err := f.api.PayService(ctx, input)
	return f.complete(gen, tx, err)
}
