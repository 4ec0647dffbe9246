package posting

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientFunds occurs when the source account lacks available balance
	// to cover a requested posting.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDuplicateReference indicates the provided external reference already
	// exists and therefore the operation should be treated as idempotent.
	ErrDuplicateReference = errors.New("duplicate reference")

	// ErrAccountNotFound occurs when a posting targets an unknown account.
	ErrAccountNotFound = errors.New("account not found")
)

const (
	// FundingSourceAccount parks the counter-side of external top-ups. It is
	// allowed to carry a negative balance.
	FundingSourceAccount = "external:funding"

	// KindTransfer marks a wallet-to-wallet posting.
	KindTransfer = "transfer"
	// KindFunding marks an external top-up posting.
	KindFunding = "funding"
	// KindWithdrawal marks a wallet withdrawal posting.
	KindWithdrawal = "withdrawal"
	// KindServicePayment marks a bill payment posting.
	KindServicePayment = "service_payment"
)

// TransferResult captures the outcome of a two-sided posting.
type TransferResult struct {
	Reference   string
	FromBalance decimal.Decimal
	ToBalance   decimal.Decimal
}

// FundingResult captures the outcome of an external funding or withdrawal posting.
type FundingResult struct {
	Reference     string
	WalletBalance decimal.Decimal
}

// Store defines the contract implemented by posting backends (e.g. Postgres).
// References are deduplicated per kind: replaying a (kind, reference) pair
// returns the recorded outcome together with ErrDuplicateReference.
type Store interface {
	EnsureAccount(ctx context.Context, code string) error
	Balance(ctx context.Context, code string) (decimal.Decimal, error)
	Fund(ctx context.Context, walletCode, reference string, amount decimal.Decimal) (FundingResult, error)
	Withdraw(ctx context.Context, walletCode, reference string, amount decimal.Decimal) (FundingResult, error)
	Transfer(ctx context.Context, fromCode, toCode, kind, reference string, amount decimal.Decimal) (TransferResult, error)
}
