package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository records and retrieves transaction history.
type Repository interface {
	Record(ctx context.Context, tx Transaction) error
	// ListByWallets returns transactions touching any of the wallet IDs,
	// newest first.
	ListByWallets(ctx context.Context, walletIDs []string) ([]Transaction, error)
}

// PostgresRepository stores transactions in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Record inserts a transaction record.
func (r *PostgresRepository) Record(ctx context.Context, tx Transaction) error {
	txID, err := uuid.Parse(tx.ID)
	if err != nil {
		return err
	}
	var from, to any
	if tx.FromWalletID != "" {
		from = tx.FromWalletID
	}
	if tx.ToWalletID != "" {
		to = tx.ToWalletID
	}
	_, err = r.db.Exec(ctx, `INSERT INTO wallet_transactions (id, category, amount, from_wallet_id, to_wallet_id, status, reference, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		txID, string(tx.Category), tx.Amount.StringFixed(2), from, to, string(tx.Status), tx.Reference, tx.Description, tx.CreatedAt.UTC())
	return err
}

// ListByWallets returns transactions touching any of the wallet IDs.
func (r *PostgresRepository) ListByWallets(ctx context.Context, walletIDs []string) ([]Transaction, error) {
	if len(walletIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id, category, amount::text, from_wallet_id, to_wallet_id, status, reference, description, created_at
        FROM wallet_transactions
        WHERE from_wallet_id = ANY($1) OR to_wallet_id = ANY($1)
        ORDER BY created_at DESC`, walletIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var (
			id        uuid.UUID
			category  string
			rawAmount string
			from      *string
			to        *string
			status    string
			createdAt time.Time
			tx        Transaction
		)
		if err := rows.Scan(&id, &category, &rawAmount, &from, &to, &status, &tx.Reference, &tx.Description, &createdAt); err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(rawAmount)
		if err != nil {
			return nil, err
		}
		tx.ID = id.String()
		tx.Category = Category(category)
		tx.Amount = amount
		if from != nil {
			tx.FromWalletID = *from
		}
		if to != nil {
			tx.ToWalletID = *to
		}
		tx.Status = Status(status)
		tx.CreatedAt = createdAt.UTC()
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
