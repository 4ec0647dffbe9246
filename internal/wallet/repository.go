package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested wallet does not exist.
var ErrNotFound = errors.New("wallet not found")

// Repository persists wallet metadata.
type Repository interface {
	Create(ctx context.Context, wallet Wallet) error
	Get(ctx context.Context, id string) (Wallet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Wallet, error)
}

// PostgresRepository stores wallets in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a wallet record.
func (r *PostgresRepository) Create(ctx context.Context, wallet Wallet) error {
	walletID, err := uuid.Parse(wallet.ID)
	if err != nil {
		return err
	}
	var ownerID any
	if wallet.OwnerID != "" {
		parsed, err := uuid.Parse(wallet.OwnerID)
		if err != nil {
			return err
		}
		ownerID = parsed
	}
	_, err = r.db.Exec(ctx, `INSERT INTO wallets (id, owner_id, name, type, account_code, currency, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		walletID, ownerID, wallet.Name, string(wallet.Type), wallet.AccountCode, wallet.Currency, wallet.IsActive, wallet.CreatedAt.UTC())
	return err
}

// Get fetches wallet metadata by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Wallet, error) {
	walletUUID, err := uuid.Parse(id)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, name, type, account_code, currency, is_active, created_at
        FROM wallets WHERE id = $1`, walletUUID)
	w, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	return w, nil
}

// ListByOwner returns all wallets owned by the user, oldest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Wallet, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, name, type, account_code, currency, is_active, created_at
        FROM wallets WHERE owner_id = $1 ORDER BY created_at`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var (
		id        uuid.UUID
		ownerID   *uuid.UUID
		walletTyp string
		createdAt time.Time
		w         Wallet
	)
	if err := row.Scan(&id, &ownerID, &w.Name, &walletTyp, &w.AccountCode, &w.Currency, &w.IsActive, &createdAt); err != nil {
		return Wallet{}, err
	}
	w.ID = id.String()
	if ownerID != nil {
		w.OwnerID = ownerID.String()
	}
	w.Type = Type(walletTyp)
	w.CreatedAt = createdAt.UTC()
	return w, nil
}
