package client

import "github.com/shopspring/decimal"

// User mirrors the account profile returned by the API.
type User struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	CreatedAt   string `json:"createdAt"`
}

// Wallet is a wallet row with its current balance.
type Wallet struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"ownerId,omitempty"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"isActive"`
	CreatedAt string          `json:"createdAt"`
}

// Wallet type values recognised by the API.
const (
	WalletPersonal = "PERSONAL"
	WalletBusiness = "BUSINESS"
	WalletSavings  = "SAVINGS"
	WalletSystem   = "SYSTEM"
)

// Transaction is a money-movement record.
type Transaction struct {
	ID           string          `json:"id"`
	Category     string          `json:"category"`
	Status       string          `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	FromWalletID string          `json:"fromWalletId,omitempty"`
	ToWalletID   string          `json:"toWalletId,omitempty"`
	Reference    string          `json:"reference,omitempty"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    string          `json:"createdAt"`
}

// Service is a payable service from the catalogue.
type Service struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// AuthResult is the payload of a successful signup or login.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SignupInput collects the fields for account creation.
type SignupInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// CreateWalletInput collects the fields for wallet creation.
type CreateWalletInput struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// FundInput is a validated funding request.
type FundInput struct {
	WalletID          string          `json:"walletId"`
	Amount            decimal.Decimal `json:"amount"`
	ExternalReference string          `json:"externalReference"`
}

// TransferInput is a validated wallet-to-wallet transfer request.
type TransferInput struct {
	FromWalletID string          `json:"fromWalletId"`
	ToWalletID   string          `json:"toWalletId"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description,omitempty"`
}

// PayServiceInput is a validated service payment request.
type PayServiceInput struct {
	FromWalletID string          `json:"fromWalletId"`
	ServiceID    string          `json:"serviceId"`
	Amount       decimal.Decimal `json:"amount"`
}
