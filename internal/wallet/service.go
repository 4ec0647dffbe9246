package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pochi-pay/pochi_pay/internal/posting"
)

const defaultCurrency = "USD"

var (
	// ErrNotOwner indicates the caller does not own the wallet.
	ErrNotOwner = errors.New("not owner of wallet")
	// ErrInactive indicates the wallet is closed for new operations.
	ErrInactive = errors.New("wallet is not active")
)

// Service exposes wallet operations backed by the posting store.
type Service struct {
	repo     Repository
	postings posting.Store
}

// NewService builds a wallet service instance.
func NewService(repo Repository, postings posting.Store) *Service {
	return &Service{repo: repo, postings: postings}
}

// CreateInput captures data required to create a wallet.
type CreateInput struct {
	OwnerID  string // empty for SYSTEM wallets
	Name     string
	Type     Type
	Currency string
}

// Create provisions a wallet and its posting account.
func (s *Service) Create(ctx context.Context, input CreateInput) (Wallet, error) {
	if input.Type == "" {
		input.Type = TypePersonal
	}
	if !input.Type.Valid() {
		return Wallet{}, fmt.Errorf("unknown wallet type %q", input.Type)
	}
	if input.Type == TypeSystem {
		if input.OwnerID != "" {
			return Wallet{}, errors.New("system wallets cannot have an owner")
		}
	} else if _, err := uuid.Parse(input.OwnerID); err != nil {
		return Wallet{}, fmt.Errorf("invalid owner id: %w", err)
	}
	if strings.TrimSpace(input.Name) == "" {
		return Wallet{}, errors.New("wallet name is required")
	}

	walletID := uuid.New().String()
	accountCode := fmt.Sprintf("wallet:%s", walletID)

	if err := s.postings.EnsureAccount(ctx, accountCode); err != nil {
		return Wallet{}, err
	}

	currency := input.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	wallet := Wallet{
		ID:          walletID,
		OwnerID:     input.OwnerID,
		Name:        strings.TrimSpace(input.Name),
		Type:        input.Type,
		AccountCode: accountCode,
		Currency:    currency,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, wallet); err != nil {
		return Wallet{}, err
	}

	return wallet, nil
}

// Get retrieves wallet metadata.
func (s *Service) Get(ctx context.Context, id string) (Wallet, error) {
	return s.repo.Get(ctx, id)
}

// GetOwned retrieves a wallet and enforces ownership.
func (s *Service) GetOwned(ctx context.Context, id, ownerID string) (Wallet, error) {
	w, err := s.repo.Get(ctx, id)
	if err != nil {
		return Wallet{}, err
	}
	if ownerID != "" && w.OwnerID != ownerID {
		return Wallet{}, ErrNotOwner
	}
	return w, nil
}

// ListByOwner returns the owner's wallets with their current balances.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]View, error) {
	wallets, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(wallets))
	for _, w := range wallets {
		balance, err := s.postings.Balance(ctx, w.AccountCode)
		if err != nil {
			return nil, err
		}
		views = append(views, View{Wallet: w, Balance: balance})
	}
	return views, nil
}

// View returns a single wallet with its balance.
func (s *Service) View(ctx context.Context, id string) (View, error) {
	w, err := s.repo.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	balance, err := s.postings.Balance(ctx, w.AccountCode)
	if err != nil {
		return View{}, err
	}
	return View{Wallet: w, Balance: balance}, nil
}
