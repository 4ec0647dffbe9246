package posting

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore persists postings in PostgreSQL. Every operation writes a pair
// of balancing entries inside a transaction with the accounts locked.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed posting store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureAccount guarantees an account exists for the provided code.
func (s *PostgresStore) EnsureAccount(ctx context.Context, code string) error {
	_, err := s.db.Exec(ctx, `INSERT INTO accounts (id, code) VALUES ($1, $2)
        ON CONFLICT (code) DO NOTHING`, uuid.New(), code)
	return err
}

// Balance returns the summed balance for the specified account code.
func (s *PostgresStore) Balance(ctx context.Context, code string) (decimal.Decimal, error) {
	const query = `
        SELECT COALESCE(SUM(e.amount), 0)::text
        FROM entries e
        INNER JOIN accounts a ON a.id = e.account_id
        WHERE a.code = $1`
	var raw string
	if err := s.db.QueryRow(ctx, query, code).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("account %s: %w", code, ErrAccountNotFound)
		}
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw)
}

// Fund records an external top-up into the wallet account.
func (s *PostgresStore) Fund(ctx context.Context, walletCode, reference string, amount decimal.Decimal) (FundingResult, error) {
	return s.oneSided(ctx, walletCode, KindFunding, reference, amount, false)
}

// Withdraw records a withdrawal from the wallet account.
func (s *PostgresStore) Withdraw(ctx context.Context, walletCode, reference string, amount decimal.Decimal) (FundingResult, error) {
	return s.oneSided(ctx, walletCode, KindWithdrawal, reference, amount, true)
}

func (s *PostgresStore) oneSided(ctx context.Context, walletCode, kind, reference string, amount decimal.Decimal, debit bool) (FundingResult, error) {
	if amount.Sign() <= 0 {
		return FundingResult{}, fmt.Errorf("amount must be positive")
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return FundingResult{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	walletAccountID, err := accountIDForCode(ctx, tx, walletCode)
	if err != nil {
		return FundingResult{}, err
	}
	sourceAccountID, err := accountIDForCode(ctx, tx, FundingSourceAccount)
	if err != nil {
		return FundingResult{}, err
	}

	const existingQuery = `SELECT id FROM postings WHERE reference = $1 AND kind = $2`
	var existingID uuid.UUID
	if err := tx.QueryRow(ctx, existingQuery, reference, kind).Scan(&existingID); err == nil {
		balance, balErr := balanceForAccount(ctx, tx, walletAccountID)
		if balErr != nil {
			return FundingResult{}, balErr
		}
		return FundingResult{Reference: reference, WalletBalance: balance}, ErrDuplicateReference
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return FundingResult{}, err
	}

	walletAmount := amount
	sourceAmount := amount.Neg()
	if debit {
		balance, err := balanceForAccount(ctx, tx, walletAccountID)
		if err != nil {
			return FundingResult{}, err
		}
		if balance.LessThan(amount) {
			return FundingResult{}, ErrInsufficientFunds
		}
		walletAmount = amount.Neg()
		sourceAmount = amount
	}

	postingID := uuid.New()
	if _, err := tx.Exec(ctx, `INSERT INTO postings (id, reference, kind) VALUES ($1, $2, $3)`, postingID, reference, kind); err != nil {
		return FundingResult{}, err
	}
	if err := insertEntry(ctx, tx, postingID, walletAccountID, walletAmount); err != nil {
		return FundingResult{}, err
	}
	if err := insertEntry(ctx, tx, postingID, sourceAccountID, sourceAmount); err != nil {
		return FundingResult{}, err
	}

	updated, err := balanceForAccount(ctx, tx, walletAccountID)
	if err != nil {
		return FundingResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return FundingResult{}, err
	}

	return FundingResult{Reference: reference, WalletBalance: updated}, nil
}

// Transfer records a balanced posting between two accounts.
func (s *PostgresStore) Transfer(ctx context.Context, fromCode, toCode, kind, reference string, amount decimal.Decimal) (TransferResult, error) {
	if amount.Sign() <= 0 {
		return TransferResult{}, fmt.Errorf("amount must be positive")
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return TransferResult{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	fromAccountID, err := accountIDForCode(ctx, tx, fromCode)
	if err != nil {
		return TransferResult{}, err
	}
	toAccountID, err := accountIDForCode(ctx, tx, toCode)
	if err != nil {
		return TransferResult{}, err
	}

	const existingQuery = `SELECT id FROM postings WHERE reference = $1 AND kind = $2`
	var existingID uuid.UUID
	if err := tx.QueryRow(ctx, existingQuery, reference, kind).Scan(&existingID); err == nil {
		fromBal, balErr := balanceForAccount(ctx, tx, fromAccountID)
		if balErr != nil {
			return TransferResult{}, balErr
		}
		toBal, balErr := balanceForAccount(ctx, tx, toAccountID)
		if balErr != nil {
			return TransferResult{}, balErr
		}
		return TransferResult{Reference: reference, FromBalance: fromBal, ToBalance: toBal}, ErrDuplicateReference
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return TransferResult{}, err
	}

	fromBalance, err := balanceForAccount(ctx, tx, fromAccountID)
	if err != nil {
		return TransferResult{}, err
	}
	if fromBalance.LessThan(amount) {
		return TransferResult{}, ErrInsufficientFunds
	}

	postingID := uuid.New()
	if _, err := tx.Exec(ctx, `INSERT INTO postings (id, reference, kind) VALUES ($1, $2, $3)`, postingID, reference, kind); err != nil {
		return TransferResult{}, err
	}
	if err := insertEntry(ctx, tx, postingID, fromAccountID, amount.Neg()); err != nil {
		return TransferResult{}, err
	}
	if err := insertEntry(ctx, tx, postingID, toAccountID, amount); err != nil {
		return TransferResult{}, err
	}

	fromBal, err := balanceForAccount(ctx, tx, fromAccountID)
	if err != nil {
		return TransferResult{}, err
	}
	toBal, err := balanceForAccount(ctx, tx, toAccountID)
	if err != nil {
		return TransferResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return TransferResult{}, err
	}

	return TransferResult{Reference: reference, FromBalance: fromBal, ToBalance: toBal}, nil
}

func insertEntry(ctx context.Context, tx pgx.Tx, postingID, accountID uuid.UUID, amount decimal.Decimal) error {
	_, err := tx.Exec(ctx, `INSERT INTO entries (id, posting_id, account_id, amount) VALUES ($1, $2, $3, $4)`,
		uuid.New(), postingID, accountID, amount.StringFixed(2))
	return err
}

func accountIDForCode(ctx context.Context, tx pgx.Tx, code string) (uuid.UUID, error) {
	const query = `SELECT id FROM accounts WHERE code = $1 FOR UPDATE`
	var id uuid.UUID
	if err := tx.QueryRow(ctx, query, code).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("account %s: %w", code, ErrAccountNotFound)
		}
		return uuid.Nil, err
	}
	return id, nil
}

func balanceForAccount(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (decimal.Decimal, error) {
	const query = `SELECT COALESCE(SUM(amount), 0)::text FROM entries WHERE account_id = $1`
	var raw string
	if err := tx.QueryRow(ctx, query, accountID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw)
}
