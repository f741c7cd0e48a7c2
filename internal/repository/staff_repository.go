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

// StaffRepository handles persistence for staff accounts. Login failure
// counting and backup-code redemption are single-statement updates so the
// database serializes concurrent writes to the same row.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffAccount) error
	Update(ctx context.Context, staff *domain.StaffAccount) error
	GetByID(ctx context.Context, id string) (*domain.StaffAccount, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffAccount, error)
	List(ctx context.Context, tenantID string, filter StaffFilter) ([]domain.StaffAccount, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	RecordLoginFailure(ctx context.Context, id string, threshold int, lockout time.Duration) (int, *time.Time, error)
	ResetLoginFailures(ctx context.Context, id string) error
	EnableTwoFactor(ctx context.Context, id, secret string, backupCodes []string) error
	DisableTwoFactor(ctx context.Context, id string) error
	ConsumeBackupCode(ctx context.Context, id, code string) (bool, error)
}

// StaffFilter defines query params for staff listing.
type StaffFilter struct {
	Role   *domain.StaffRole
	Active *bool
	Limit  int
	Offset int
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, tenant_id, name, email, password_hash, role, active_flag,
        failed_login_count, locked_until, totp_secret, totp_enabled, backup_codes, created_at, updated_at`

func scanStaff(row pgx.Row) (*domain.StaffAccount, error) {
	var staff domain.StaffAccount
	if err := row.Scan(
		&staff.ID,
		&staff.TenantID,
		&staff.Name,
		&staff.Email,
		&staff.PasswordHash,
		&staff.Role,
		&staff.Active,
		&staff.FailedLoginCount,
		&staff.LockedUntil,
		&staff.TOTPSecret,
		&staff.TOTPEnabled,
		&staff.BackupCodes,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffAccount) error {
	const query = `
        INSERT INTO staff_accounts (tenant_id, name, email, password_hash, role, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		staff.TenantID,
		staff.Name,
		staff.Email,
		staff.PasswordHash,
		staff.Role,
		staff.Active,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.StaffAccount) error {
	const query = `
        UPDATE staff_accounts
        SET name=$1, email=$2, role=$3, active_flag=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		staff.Name,
		staff.Email,
		staff.Role,
		staff.Active,
		staff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffAccount, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_accounts WHERE id=$1`
	return scanStaff(r.pool.QueryRow(ctx, query, id))
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffAccount, error) {
	// Email is unique per tenant; login carries no tenant so the oldest
	// matching account wins.
	query := `SELECT ` + staffColumns + ` FROM staff_accounts WHERE email=$1 ORDER BY created_at LIMIT 1`
	return scanStaff(r.pool.QueryRow(ctx, query, email))
}

func (r *staffRepository) List(ctx context.Context, tenantID string, filter StaffFilter) ([]domain.StaffAccount, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_accounts`
	args := []any{tenantID}
	clauses := []string{"tenant_id=$1"}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active_flag=$%d", len(args)))
	}
	query += " WHERE " + strings.Join(clauses, " AND ")
	query += " ORDER BY created_at DESC"

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

	var result []domain.StaffAccount
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *staff)
	}
	return result, rows.Err()
}

func (r *staffRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE staff_accounts SET password_hash=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// RecordLoginFailure increments the failure counter in a single statement and
// sets the lockout window when the threshold is crossed.
func (r *staffRepository) RecordLoginFailure(ctx context.Context, id string, threshold int, lockout time.Duration) (int, *time.Time, error) {
	const query = `
        UPDATE staff_accounts
        SET failed_login_count = failed_login_count + 1,
            locked_until = CASE
                WHEN failed_login_count + 1 >= $2 THEN NOW() + make_interval(secs => $3)
                ELSE locked_until
            END,
            updated_at = NOW()
        WHERE id=$1
        RETURNING failed_login_count, locked_until`

	var count int
	var lockedUntil *time.Time
	if err := r.pool.QueryRow(ctx, query, id, threshold, lockout.Seconds()).Scan(&count, &lockedUntil); err != nil {
		return 0, nil, err
	}
	return count, lockedUntil, nil
}

func (r *staffRepository) ResetLoginFailures(ctx context.Context, id string) error {
	const query = `
        UPDATE staff_accounts
        SET failed_login_count = 0, locked_until = NULL, updated_at = NOW()
        WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *staffRepository) EnableTwoFactor(ctx context.Context, id, secret string, backupCodes []string) error {
	const query = `
        UPDATE staff_accounts
        SET totp_secret=$1, totp_enabled=TRUE, backup_codes=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, secret, backupCodes, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) DisableTwoFactor(ctx context.Context, id string) error {
	const query = `
        UPDATE staff_accounts
        SET totp_secret=NULL, totp_enabled=FALSE, backup_codes='{}', updated_at=NOW()
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ConsumeBackupCode removes the code from the remaining set only if it is
// still present. The conditional update makes redemption single-use under
// concurrent requests: the second redeemer matches zero rows.
func (r *staffRepository) ConsumeBackupCode(ctx context.Context, id, code string) (bool, error) {
	const query = `
        UPDATE staff_accounts
        SET backup_codes = array_remove(backup_codes, $2), updated_at = NOW()
        WHERE id=$1 AND $2 = ANY(backup_codes)`
	cmd, err := r.pool.Exec(ctx, query, id, code)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}
