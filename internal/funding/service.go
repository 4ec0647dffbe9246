package funding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pochi-pay/pochi_pay/internal/notification"
	"github.com/pochi-pay/pochi_pay/internal/posting"
	"github.com/pochi-pay/pochi_pay/internal/transaction"
	"github.com/pochi-pay/pochi_pay/internal/wallet"
)

// Service coordinates external funding and withdrawal operations.
type Service struct {
	postings posting.Store
	wallets  *wallet.Service
	history  transaction.Repository
	gateway  Gateway
	notifier notification.Notifier
}

// NewService prepares a funding service ensuring the external source account
// exists.
func NewService(ctx context.Context, postings posting.Store, wallets *wallet.Service, history transaction.Repository, gateway Gateway, notifier notification.Notifier) (*Service, error) {
	if wallets == nil {
		return nil, fmt.Errorf("wallet service is required")
	}
	if gateway == nil {
		gateway = StaticGateway{}
	}
	if err := postings.EnsureAccount(ctx, posting.FundingSourceAccount); err != nil {
		return nil, err
	}
	return &Service{postings: postings, wallets: wallets, history: history, gateway: gateway, notifier: notifier}, nil
}

// FundInput captures the required data for an external top-up.
type FundInput struct {
	WalletID          string
	Amount            decimal.Decimal
	ExternalReference string
	RequestorUserID   string
}

// WithdrawInput captures the required data for a withdrawal.
type WithdrawInput struct {
	WalletID        string
	Amount          decimal.Decimal
	Reference       string
	RequestorUserID string
}

// Result pairs the recorded transaction with the wallet balance after posting.
type Result struct {
	Transaction   transaction.Transaction
	WalletBalance decimal.Decimal
}

// Fund credits the wallet from an externally settled payment.
func (s *Service) Fund(ctx context.Context, input FundInput) (Result, error) {
	if input.Amount.Sign() <= 0 {
		return Result{}, fmt.Errorf("amount must be positive")
	}
	if strings.TrimSpace(input.ExternalReference) == "" {
		return Result{}, fmt.Errorf("external reference is required")
	}

	w, err := s.wallets.GetOwned(ctx, input.WalletID, input.RequestorUserID)
	if err != nil {
		return Result{}, err
	}
	if !w.IsActive {
		return Result{}, wallet.ErrInactive
	}

	amount := input.Amount.Round(2)
	if _, err := s.gateway.VerifyReference(ctx, input.ExternalReference, amount); err != nil {
		return Result{}, err
	}

	res, err := s.postings.Fund(ctx, w.AccountCode, input.ExternalReference, amount)
	if err != nil {
		return Result{}, err
	}

	tx := transaction.Transaction{
		ID:          uuid.NewString(),
		Category:    transaction.CategoryFunding,
		Amount:      amount,
		ToWalletID:  w.ID,
		Status:      transaction.StatusCompleted,
		Reference:   input.ExternalReference,
		CreatedAt:   time.Now().UTC(),
		Description: "External funding",
	}
	if err := s.record(ctx, tx); err != nil {
		return Result{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindFunding,
			Destination: w.OwnerID,
			Body:        fmt.Sprintf("Wallet %s funded with %s %s", w.ID, amount.StringFixed(2), w.Currency),
		})
	}

	return Result{Transaction: tx, WalletBalance: res.WalletBalance}, nil
}

// Withdraw debits the wallet towards the external processor.
func (s *Service) Withdraw(ctx context.Context, input WithdrawInput) (Result, error) {
	if input.Amount.Sign() <= 0 {
		return Result{}, fmt.Errorf("amount must be positive")
	}
	if input.Reference == "" {
		input.Reference = uuid.NewString()
	}

	w, err := s.wallets.GetOwned(ctx, input.WalletID, input.RequestorUserID)
	if err != nil {
		return Result{}, err
	}
	if !w.IsActive {
		return Result{}, wallet.ErrInactive
	}

	amount := input.Amount.Round(2)
	res, err := s.postings.Withdraw(ctx, w.AccountCode, input.Reference, amount)
	if err != nil {
		if errors.Is(err, posting.ErrDuplicateReference) {
			return Result{WalletBalance: res.WalletBalance}, err
		}
		return Result{}, err
	}

	tx := transaction.Transaction{
		ID:           uuid.NewString(),
		Category:     transaction.CategoryWithdrawal,
		Amount:       amount,
		FromWalletID: w.ID,
		Status:       transaction.StatusCompleted,
		Reference:    input.Reference,
		CreatedAt:    time.Now().UTC(),
		Description:  "Withdrawal",
	}
	if err := s.record(ctx, tx); err != nil {
		return Result{}, err
	}

	return Result{Transaction: tx, WalletBalance: res.WalletBalance}, nil
}

func (s *Service) record(ctx context.Context, tx transaction.Transaction) error {
	if s.history == nil {
		return nil
	}
	return s.history.Record(ctx, tx)
}
