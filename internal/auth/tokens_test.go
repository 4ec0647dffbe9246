package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/pochi-pay/pochi_pay/internal/identity"
)

func TestIssueAndVerify(t *testing.T) {
	tokens := NewTokens("test-secret", "pochi-api", time.Minute)
	user := identity.User{ID: "user-1", Email: "ada@example.com"}

	signed, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "ada@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed, err := NewTokens("secret-a", "pochi-api", time.Minute).Issue(identity.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewTokens("secret-b", "pochi-api", time.Minute).Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	tokens := NewTokens("test-secret", "pochi-api", -time.Minute)
	signed, err := tokens.Issue(identity.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := tokens.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}
