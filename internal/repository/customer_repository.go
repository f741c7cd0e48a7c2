package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salonkit/salon-service/internal/domain"
)

// CustomerRepository handles persistence for salon customers. Every query is
// scoped by tenant.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, tenantID, id string) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error)
	List(ctx context.Context, tenantID string, filter CustomerFilter) ([]domain.Customer, error)
	RecordVisit(ctx context.Context, tenantID, id string) error
}

// CustomerFilter defines customer search parameters.
type CustomerFilter struct {
	Search string
	Limit  int
	Offset int
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates the repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

const customerColumns = `id, tenant_id, name, kana, phone, email, notes, visit_count, last_visit_at, created_at, updated_at`

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(
		&c.ID,
		&c.TenantID,
		&c.Name,
		&c.Kana,
		&c.Phone,
		&c.Email,
		&c.Notes,
		&c.VisitCount,
		&c.LastVisitAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (tenant_id, name, kana, phone, email, notes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		customer.TenantID,
		customer.Name,
		customer.Kana,
		customer.Phone,
		customer.Email,
		customer.Notes,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	const query = `
        UPDATE customers
        SET name=$1, kana=$2, phone=$3, email=$4, notes=$5, updated_at=NOW()
        WHERE id=$6 AND tenant_id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		customer.Name,
		customer.Kana,
		customer.Phone,
		customer.Email,
		customer.Notes,
		customer.ID,
		customer.TenantID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, tenantID, id string) error {
	const query = `DELETE FROM customers WHERE id=$1 AND tenant_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, tenantID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id=$1 AND tenant_id=$2`
	return scanCustomer(r.pool.QueryRow(ctx, query, id, tenantID))
}

func (r *customerRepository) List(ctx context.Context, tenantID string, filter CustomerFilter) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	args := []any{tenantID}
	clauses := []string{"tenant_id=$1"}

	if term := strings.TrimSpace(filter.Search); term != "" {
		args = append(args, "%"+term+"%")
		idx := len(args)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR kana ILIKE $%d OR phone ILIKE $%d)", idx, idx, idx))
	}
	query += " WHERE " + strings.Join(clauses, " AND ")
	query += " ORDER BY name"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *customer)
	}
	return result, rows.Err()
}

// RecordVisit bumps the visit counter when a reservation completes.
func (r *customerRepository) RecordVisit(ctx context.Context, tenantID, id string) error {
	const query = `
        UPDATE customers
        SET visit_count = visit_count + 1, last_visit_at = NOW(), updated_at = NOW()
        WHERE id=$1 AND tenant_id=$2`
	_, err := r.pool.Exec(ctx, query, id, tenantID)
	return err
}
