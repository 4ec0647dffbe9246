package posting

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

type inMemoryStore struct {
	mu        sync.RWMutex
	balances  map[string]decimal.Decimal
	transfers map[string]TransferResult
	fundings  map[string]FundingResult
}

// NewInMemory creates a concurrency-safe in-memory posting store useful for
// unit tests and development mode.
func NewInMemory() Store {
	return &inMemoryStore{
		balances:  map[string]decimal.Decimal{FundingSourceAccount: decimal.Zero},
		transfers: make(map[string]TransferResult),
		fundings:  make(map[string]FundingResult),
	}
}

func (s *inMemoryStore) EnsureAccount(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.balances[code]; !exists {
		s.balances[code] = decimal.Zero
	}
	return nil
}

func (s *inMemoryStore) Balance(_ context.Context, code string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	balance, exists := s.balances[code]
	if !exists {
		return decimal.Zero, ErrAccountNotFound
	}
	return balance, nil
}

func (s *inMemoryStore) Fund(_ context.Context, walletCode, reference string, amount decimal.Decimal) (FundingResult, error) {
	if amount.Sign() <= 0 {
		return FundingResult{}, ErrInsufficientFunds
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := KindFunding + ":" + reference
	if res, exists := s.fundings[key]; exists {
		return res, ErrDuplicateReference
	}

	balance, ok := s.balances[walletCode]
	if !ok {
		return FundingResult{}, ErrAccountNotFound
	}

	balance = balance.Add(amount)
	s.balances[walletCode] = balance
	s.balances[FundingSourceAccount] = s.balances[FundingSourceAccount].Sub(amount)

	res := FundingResult{Reference: reference, WalletBalance: balance}
	s.fundings[key] = res
	return res, nil
}

func (s *inMemoryStore) Withdraw(_ context.Context, walletCode, reference string, amount decimal.Decimal) (FundingResult, error) {
	if amount.Sign() <= 0 {
		return FundingResult{}, ErrInsufficientFunds
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := KindWithdrawal + ":" + reference
	if res, exists := s.fundings[key]; exists {
		return res, ErrDuplicateReference
	}

	balance, ok := s.balances[walletCode]
	if !ok {
		return FundingResult{}, ErrAccountNotFound
	}
	if balance.LessThan(amount) {
		return FundingResult{}, ErrInsufficientFunds
	}

	balance = balance.Sub(amount)
	s.balances[walletCode] = balance
	s.balances[FundingSourceAccount] = s.balances[FundingSourceAccount].Add(amount)

	res := FundingResult{Reference: reference, WalletBalance: balance}
	s.fundings[key] = res
	return res, nil
}

func (s *inMemoryStore) Transfer(_ context.Context, fromCode, toCode, kind, reference string, amount decimal.Decimal) (TransferResult, error) {
	if amount.Sign() <= 0 {
		return TransferResult{}, ErrInsufficientFunds
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := kind + ":" + reference
	if res, exists := s.transfers[key]; exists {
		return res, ErrDuplicateReference
	}

	fromBalance, ok := s.balances[fromCode]
	if !ok {
		return TransferResult{}, ErrAccountNotFound
	}
	toBalance, ok := s.balances[toCode]
	if !ok {
		return TransferResult{}, ErrAccountNotFound
	}

	if fromBalance.LessThan(amount) {
		return TransferResult{}, ErrInsufficientFunds
	}

	fromBalance = fromBalance.Sub(amount)
	toBalance = toBalance.Add(amount)

	s.balances[fromCode] = fromBalance
	s.balances[toCode] = toBalance

	res := TransferResult{
		Reference:   reference,
		FromBalance: fromBalance,
		ToBalance:   toBalance,
	}

	s.transfers[key] = res
	return res, nil
}
