package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pochi-pay/pochi_pay/internal/posting"
)

func TestServiceCreateAndList(t *testing.T) {
	repo := NewMemoryRepository()
	store := posting.NewInMemory()
	svc := NewService(repo, store)

	ctx := context.Background()
	ownerID := uuid.NewString()
	created, err := svc.Create(ctx, CreateInput{OwnerID: ownerID, Name: "Main wallet"})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if created.Type != TypePersonal || !created.IsActive || created.Currency != "USD" {
		t.Fatalf("unexpected defaults: %+v", created)
	}

	posting.SeedBalance(store, created.AccountCode, decimal.RequireFromString("25.00"))

	views, err := svc.ListByOwner(ctx, ownerID)
	if err != nil {
		t.Fatalf("list wallets: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 wallet, got %d", len(views))
	}
	if !views[0].Balance.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("expected balance 25.00, got %s", views[0].Balance)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository(), posting.NewInMemory())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{OwnerID: "not-a-uuid", Name: "x"}); err == nil {
		t.Fatal("expected invalid owner id error")
	}
	if _, err := svc.Create(ctx, CreateInput{OwnerID: uuid.NewString(), Name: "  "}); err == nil {
		t.Fatal("expected missing name error")
	}
	if _, err := svc.Create(ctx, CreateInput{OwnerID: uuid.NewString(), Name: "x", Type: Type("PLATINUM")}); err == nil {
		t.Fatal("expected unknown type error")
	}
	if _, err := svc.Create(ctx, CreateInput{OwnerID: uuid.NewString(), Name: "x", Type: TypeSystem}); err == nil {
		t.Fatal("expected owned system wallet to be rejected")
	}
}

func TestServiceGetOwned(t *testing.T) {
	svc := NewService(NewMemoryRepository(), posting.NewInMemory())
	ctx := context.Background()

	ownerID := uuid.NewString()
	created, err := svc.Create(ctx, CreateInput{OwnerID: ownerID, Name: "Main wallet"})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	if _, err := svc.GetOwned(ctx, created.ID, ownerID); err != nil {
		t.Fatalf("get owned: %v", err)
	}
	if _, err := svc.GetOwned(ctx, created.ID, uuid.NewString()); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}
}
