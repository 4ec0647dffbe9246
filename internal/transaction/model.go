package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies a money-movement event.
type Category string

const (
	CategoryTransfer       Category = "WALLET_TRANSFER"
	CategoryFunding        Category = "WALLET_FUNDING"
	CategoryServicePayment Category = "SERVICE_PAYMENT"
	CategoryWithdrawal     Category = "WITHDRAWAL"
)

// Status is the lifecycle state of a transaction. Non-pending statuses are
// terminal.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusReversed  Status = "REVERSED"
)

// Terminal reports whether the status can no longer change.
func (s Status) Terminal() bool {
	return s != StatusPending && s != ""
}

// Transaction is a recorded money-movement event.
type Transaction struct {
	ID           string
	Category     Category
	Amount       decimal.Decimal
	FromWalletID string
	ToWalletID   string
	Status       Status
	Reference    string
	Description  string
	CreatedAt    time.Time
}
