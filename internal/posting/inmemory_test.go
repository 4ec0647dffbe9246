package posting

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFundCreditsWallet(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	if err := store.EnsureAccount(ctx, "wallet:a"); err != nil {
		t.Fatalf("ensure account: %v", err)
	}

	res, err := store.Fund(ctx, "wallet:a", "ref-1", dec("25.50"))
	if err != nil {
		t.Fatalf("fund: %v", err)
	}
	if !res.WalletBalance.Equal(dec("25.50")) {
		t.Fatalf("expected balance 25.50, got %s", res.WalletBalance)
	}

	source, err := store.Balance(ctx, FundingSourceAccount)
	if err != nil {
		t.Fatalf("source balance: %v", err)
	}
	if !source.Equal(dec("-25.50")) {
		t.Fatalf("expected source -25.50, got %s", source)
	}
}

func TestFundDuplicateReference(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	_ = store.EnsureAccount(ctx, "wallet:a")

	first, err := store.Fund(ctx, "wallet:a", "dup", dec("10"))
	if err != nil {
		t.Fatalf("first fund: %v", err)
	}

	replay, err := store.Fund(ctx, "wallet:a", "dup", dec("10"))
	if !errors.Is(err, ErrDuplicateReference) {
		t.Fatalf("expected duplicate reference, got %v", err)
	}
	if !replay.WalletBalance.Equal(first.WalletBalance) {
		t.Fatalf("replay should return recorded balance, got %s", replay.WalletBalance)
	}
}

func TestTransferMovesFunds(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	_ = store.EnsureAccount(ctx, "wallet:a")
	_ = store.EnsureAccount(ctx, "wallet:b")
	SeedBalance(store, "wallet:a", dec("100.00"))

	res, err := store.Transfer(ctx, "wallet:a", "wallet:b", KindTransfer, "t-1", dec("40.00"))
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if !res.FromBalance.Equal(dec("60.00")) || !res.ToBalance.Equal(dec("40.00")) {
		t.Fatalf("unexpected balances: %s / %s", res.FromBalance, res.ToBalance)
	}
}

func TestTransferInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	_ = store.EnsureAccount(ctx, "wallet:a")
	_ = store.EnsureAccount(ctx, "wallet:b")

	if _, err := store.Transfer(ctx, "wallet:a", "wallet:b", KindTransfer, "t-1", dec("1.00")); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
}

func TestWithdrawRequiresBalance(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	_ = store.EnsureAccount(ctx, "wallet:a")
	SeedBalance(store, "wallet:a", dec("5.00"))

	if _, err := store.Withdraw(ctx, "wallet:a", "w-1", dec("6.00")); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	res, err := store.Withdraw(ctx, "wallet:a", "w-2", dec("5.00"))
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if !res.WalletBalance.IsZero() {
		t.Fatalf("expected zero balance, got %s", res.WalletBalance)
	}
}
