package billpay

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested service does not exist.
var ErrNotFound = errors.New("service not found")

// Repository persists billable services.
type Repository interface {
	Create(ctx context.Context, service Service) error
	Get(ctx context.Context, id string) (Service, error)
	List(ctx context.Context) ([]Service, error)
}

// PostgresRepository stores services in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a service record.
func (r *PostgresRepository) Create(ctx context.Context, service Service) error {
	serviceID, err := uuid.Parse(service.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO services (id, name, is_active, created_at)
        VALUES ($1, $2, $3, $4)`, serviceID, service.Name, service.IsActive, service.CreatedAt.UTC())
	return err
}

// Get fetches a service by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Service, error) {
	serviceID, err := uuid.Parse(id)
	if err != nil {
		return Service{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, name, is_active, created_at FROM services WHERE id = $1`, serviceID)
	svc, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, ErrNotFound
		}
		return Service{}, err
	}
	return svc, nil
}

// List returns every service, active or not, ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]Service, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, is_active, created_at FROM services ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func scanService(row pgx.Row) (Service, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		svc       Service
	)
	if err := row.Scan(&id, &svc.Name, &svc.IsActive, &createdAt); err != nil {
		return Service{}, err
	}
	svc.ID = id.String()
	svc.CreatedAt = createdAt.UTC()
	return svc, nil
}
