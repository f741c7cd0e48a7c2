package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salonkit/salon-service/internal/domain"
)

// ReservationFilter captures reservation search parameters.
type ReservationFilter struct {
	CustomerID *string
	StaffID    *string
	Statuses   []domain.ReservationStatus
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// ReservationRepository encapsulates reservation persistence.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	Update(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Reservation, error)
	List(ctx context.Context, tenantID string, filter ReservationFilter) ([]domain.Reservation, error)
	HasOverlap(ctx context.Context, tenantID, staffID string, startsAt, endsAt time.Time, excludeID *string) (bool, error)
}

type reservationRepository struct {
	pool *pgxpool.Pool
}

// NewReservationRepository instantiates the repository.
func NewReservationRepository(pool *pgxpool.Pool) ReservationRepository {
	return &reservationRepository{pool: pool}
}

const reservationColumns = `id, tenant_id, customer_id, staff_id, service_id, starts_at, ends_at, status, note, created_at, updated_at`

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := row.Scan(
		&res.ID,
		&res.TenantID,
		&res.CustomerID,
		&res.StaffID,
		&res.ServiceID,
		&res.StartsAt,
		&res.EndsAt,
		&res.Status,
		&res.Note,
		&res.CreatedAt,
		&res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	const query = `
        INSERT INTO reservations (tenant_id, customer_id, staff_id, service_id, starts_at, ends_at, status, note)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		reservation.TenantID,
		reservation.CustomerID,
		reservation.StaffID,
		reservation.ServiceID,
		reservation.StartsAt,
		reservation.EndsAt,
		reservation.Status,
		reservation.Note,
	).Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt)
}

func (r *reservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	const query = `
        UPDATE reservations
        SET customer_id=$1, staff_id=$2, service_id=$3, starts_at=$4, ends_at=$5, status=$6, note=$7, updated_at=NOW()
        WHERE id=$8 AND tenant_id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		reservation.CustomerID,
		reservation.StaffID,
		reservation.ServiceID,
		reservation.StartsAt,
		reservation.EndsAt,
		reservation.Status,
		reservation.Note,
		reservation.ID,
		reservation.TenantID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id=$1 AND tenant_id=$2`
	return scanReservation(r.pool.QueryRow(ctx, query, id, tenantID))
}

func (r *reservationRepository) List(ctx context.Context, tenantID string, filter ReservationFilter) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations`
	args := []any{tenantID}
	clauses := []string{"tenant_id=$1"}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.StaffID != nil {
		args = append(args, *filter.StaffID)
		clauses = append(clauses, fmt.Sprintf("staff_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		args = append(args, filter.Statuses)
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("starts_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("starts_at < $%d", len(args)))
	}
	query += " WHERE " + strings.Join(clauses, " AND ")
	query += " ORDER BY starts_at"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
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

	var result []domain.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *reservation)
	}
	return result, rows.Err()
}

// HasOverlap reports whether the staff member already has a blocking
// reservation intersecting [startsAt, endsAt).
func (r *reservationRepository) HasOverlap(ctx context.Context, tenantID, staffID string, startsAt, endsAt time.Time, excludeID *string) (bool, error) {
	const query = `
        SELECT EXISTS(
            SELECT 1 FROM reservations
            WHERE tenant_id=$1 AND staff_id=$2
              AND status IN ('PENDING','CONFIRMED')
              AND starts_at < $4 AND ends_at > $3
              AND ($5::uuid IS NULL OR id <> $5)
        )`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, tenantID, staffID, startsAt, endsAt, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
