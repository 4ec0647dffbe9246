package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pochi-pay/pochi_pay/internal/billpay"
	"github.com/pochi-pay/pochi_pay/internal/notification"
	"github.com/pochi-pay/pochi_pay/internal/posting"
	"github.com/pochi-pay/pochi_pay/internal/transaction"
	"github.com/pochi-pay/pochi_pay/internal/wallet"
)

var (
	// ErrSameWallet indicates source and destination wallets are identical.
	ErrSameWallet = errors.New("source and destination wallet must differ")
	// ErrServiceInactive indicates the billed service no longer accepts payments.
	ErrServiceInactive = errors.New("service is not active")
	// ErrInvalidAmount indicates a zero or negative amount.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Service posts wallet-to-wallet transfers and bill payments.
type Service struct {
	postings posting.Store
	wallets  *wallet.Service
	billers  billpay.Repository
	history  transaction.Repository
	notifier notification.Notifier
}

// NewService constructs a payment service.
func NewService(postings posting.Store, wallets *wallet.Service, billers billpay.Repository, history transaction.Repository, notifier notification.Notifier) *Service {
	return &Service{postings: postings, wallets: wallets, billers: billers, history: history, notifier: notifier}
}

// TransferInput captures the data needed to move funds between wallets.
type TransferInput struct {
	FromWalletID    string
	ToWalletID      string
	Amount          decimal.Decimal
	Description     string
	Reference       string
	RequestorUserID string
}

// PayInput captures the data needed to pay a billed service.
type PayInput struct {
	FromWalletID    string
	ServiceID       string
	Amount          decimal.Decimal
	Reference       string
	RequestorUserID string
}

// Transfer posts a balanced entry between two wallets and records the event.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (transaction.Transaction, error) {
	if input.Amount.Sign() <= 0 {
		return transaction.Transaction{}, ErrInvalidAmount
	}
	if input.FromWalletID == input.ToWalletID {
		return transaction.Transaction{}, ErrSameWallet
	}
	if input.Reference == "" {
		input.Reference = uuid.NewString()
	}

	from, err := s.wallets.GetOwned(ctx, input.FromWalletID, input.RequestorUserID)
	if err != nil {
		return transaction.Transaction{}, err
	}
	if !from.IsActive {
		return transaction.Transaction{}, wallet.ErrInactive
	}
	to, err := s.wallets.Get(ctx, input.ToWalletID)
	if err != nil {
		return transaction.Transaction{}, err
	}
	if !to.IsActive {
		return transaction.Transaction{}, wallet.ErrInactive
	}

	amount := input.Amount.Round(2)
	if _, err := s.postings.Transfer(ctx, from.AccountCode, to.AccountCode, posting.KindTransfer, input.Reference, amount); err != nil {
		return transaction.Transaction{}, err
	}

	tx := transaction.Transaction{
		ID:           uuid.NewString(),
		Category:     transaction.CategoryTransfer,
		Amount:       amount,
		FromWalletID: from.ID,
		ToWalletID:   to.ID,
		Status:       transaction.StatusCompleted,
		Reference:    input.Reference,
		Description:  input.Description,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.record(ctx, tx); err != nil {
		return transaction.Transaction{}, err
	}

	s.notify(ctx, notification.Message{
		Kind:        notification.KindTransfer,
		Destination: to.OwnerID,
		Body:        fmt.Sprintf("You received %s %s from wallet %s", amount.StringFixed(2), to.Currency, from.ID),
	})

	return tx, nil
}

// Pay posts a payment from a wallet to a billed service account.
func (s *Service) Pay(ctx context.Context, input PayInput) (transaction.Transaction, error) {
	if input.Amount.Sign() <= 0 {
		return transaction.Transaction{}, ErrInvalidAmount
	}
	if input.Reference == "" {
		input.Reference = uuid.NewString()
	}

	from, err := s.wallets.GetOwned(ctx, input.FromWalletID, input.RequestorUserID)
	if err != nil {
		return transaction.Transaction{}, err
	}
	if !from.IsActive {
		return transaction.Transaction{}, wallet.ErrInactive
	}

	svc, err := s.billers.Get(ctx, input.ServiceID)
	if err != nil {
		return transaction.Transaction{}, err
	}
	if !svc.IsActive {
		return transaction.Transaction{}, ErrServiceInactive
	}

	if err := s.postings.EnsureAccount(ctx, svc.AccountCode()); err != nil {
		return transaction.Transaction{}, err
	}

	amount := input.Amount.Round(2)
	if _, err := s.postings.Transfer(ctx, from.AccountCode, svc.AccountCode(), posting.KindServicePayment, input.Reference, amount); err != nil {
		return transaction.Transaction{}, err
	}

	tx := transaction.Transaction{
		ID:           uuid.NewString(),
		Category:     transaction.CategoryServicePayment,
		Amount:       amount,
		FromWalletID: from.ID,
		Status:       transaction.StatusCompleted,
		Reference:    input.Reference,
		Description:  fmt.Sprintf("Payment to %s", svc.Name),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.record(ctx, tx); err != nil {
		return transaction.Transaction{}, err
	}

	s.notify(ctx, notification.Message{
		Kind:        notification.KindServicePayment,
		Destination: from.OwnerID,
		Body:        fmt.Sprintf("Paid %s %s to %s", amount.StringFixed(2), from.Currency, svc.Name),
	})

	return tx, nil
}

func (s *Service) record(ctx context.Context, tx transaction.Transaction) error {
	if s.history == nil {
		return nil
	}
	return s.history.Record(ctx, tx)
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, msg)
	}
}
