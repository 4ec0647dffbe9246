package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type categorizes a wallet.
type Type string

const (
	TypePersonal Type = "PERSONAL"
	TypeBusiness Type = "BUSINESS"
	TypeSavings  Type = "SAVINGS"
	// TypeSystem marks platform-owned wallets such as service payees.
	TypeSystem Type = "SYSTEM"
)

// Valid reports whether the type is one of the known categories.
func (t Type) Valid() bool {
	switch t {
	case TypePersonal, TypeBusiness, TypeSavings, TypeSystem:
		return true
	}
	return false
}

// Wallet represents a stored value account backed by the posting store.
type Wallet struct {
	ID          string
	OwnerID     string // empty for SYSTEM wallets
	Name        string
	Type        Type
	AccountCode string
	Currency    string
	IsActive    bool
	CreatedAt   time.Time
}

// View pairs wallet metadata with its server-computed balance. Balances are
// never derived anywhere else.
type View struct {
	Wallet
	Balance decimal.Decimal
}
