package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salonkit/salon-service/internal/domain"
)

// SalonServiceRepository handles persistence for bookable menu items.
type SalonServiceRepository interface {
	Create(ctx context.Context, svc *domain.SalonService) error
	Update(ctx context.Context, svc *domain.SalonService) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.SalonService, error)
	List(ctx context.Context, tenantID string, includeInactive bool, limit, offset int) ([]domain.SalonService, error)
}

type salonServiceRepository struct {
	pool *pgxpool.Pool
}

// NewSalonServiceRepository instantiates the repository.
func NewSalonServiceRepository(pool *pgxpool.Pool) SalonServiceRepository {
	return &salonServiceRepository{pool: pool}
}

const salonServiceColumns = `id, tenant_id, name, description, duration_minutes, price_yen, active_flag, created_at, updated_at`

func scanSalonService(row pgx.Row) (*domain.SalonService, error) {
	var svc domain.SalonService
	if err := row.Scan(
		&svc.ID,
		&svc.TenantID,
		&svc.Name,
		&svc.Description,
		&svc.DurationMinutes,
		&svc.PriceYen,
		&svc.Active,
		&svc.CreatedAt,
		&svc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *salonServiceRepository) Create(ctx context.Context, svc *domain.SalonService) error {
	const query = `
        INSERT INTO salon_services (tenant_id, name, description, duration_minutes, price_yen, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		svc.TenantID,
		svc.Name,
		svc.Description,
		svc.DurationMinutes,
		svc.PriceYen,
		svc.Active,
	).Scan(&svc.ID, &svc.CreatedAt, &svc.UpdatedAt)
}

func (r *salonServiceRepository) Update(ctx context.Context, svc *domain.SalonService) error {
	const query = `
        UPDATE salon_services
        SET name=$1, description=$2, duration_minutes=$3, price_yen=$4, active_flag=$5, updated_at=NOW()
        WHERE id=$6 AND tenant_id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		svc.Name,
		svc.Description,
		svc.DurationMinutes,
		svc.PriceYen,
		svc.Active,
		svc.ID,
		svc.TenantID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *salonServiceRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.SalonService, error) {
	query := `SELECT ` + salonServiceColumns + ` FROM salon_services WHERE id=$1 AND tenant_id=$2`
	return scanSalonService(r.pool.QueryRow(ctx, query, id, tenantID))
}

func (r *salonServiceRepository) List(ctx context.Context, tenantID string, includeInactive bool, limit, offset int) ([]domain.SalonService, error) {
	query := `SELECT ` + salonServiceColumns + ` FROM salon_services WHERE tenant_id=$1`
	if !includeInactive {
		query += " AND active_flag"
	}
	query += " ORDER BY name"

	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SalonService
	for rows.Next() {
		svc, err := scanSalonService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *svc)
	}
	return result, rows.Err()
}
