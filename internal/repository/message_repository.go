package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salonkit/salon-service/internal/domain"
)

// MessageFilter captures conversation listing parameters.
type MessageFilter struct {
	CustomerID *string
	Channel    *domain.MessageChannel
	UnreadOnly bool
	Limit      int
	Offset     int
}

// MessageRepository handles persistence for customer messages.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Message, error)
	List(ctx context.Context, tenantID string, filter MessageFilter) ([]domain.Message, error)
	MarkRead(ctx context.Context, tenantID, id string) error
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository instantiates the repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

const messageColumns = `id, tenant_id, customer_id, channel, direction, body, read_flag, sent_at, created_at`

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var msg domain.Message
	if err := row.Scan(
		&msg.ID,
		&msg.TenantID,
		&msg.CustomerID,
		&msg.Channel,
		&msg.Direction,
		&msg.Body,
		&msg.Read,
		&msg.SentAt,
		&msg.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	const query = `
        INSERT INTO messages (tenant_id, customer_id, channel, direction, body, read_flag, sent_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		message.TenantID,
		message.CustomerID,
		message.Channel,
		message.Direction,
		message.Body,
		message.Read,
		message.SentAt,
	).Scan(&message.ID, &message.CreatedAt)
}

func (r *messageRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id=$1 AND tenant_id=$2`
	return scanMessage(r.pool.QueryRow(ctx, query, id, tenantID))
}

func (r *messageRepository) List(ctx context.Context, tenantID string, filter MessageFilter) ([]domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages`
	args := []any{tenantID}
	clauses := []string{"tenant_id=$1"}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.Channel != nil {
		args = append(args, *filter.Channel)
		clauses = append(clauses, fmt.Sprintf("channel=$%d", len(args)))
	}
	if filter.UnreadOnly {
		clauses = append(clauses, "NOT read_flag")
	}
	query += " WHERE " + strings.Join(clauses, " AND ")
	query += " ORDER BY sent_at DESC"

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

	var result []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *msg)
	}
	return result, rows.Err()
}

func (r *messageRepository) MarkRead(ctx context.Context, tenantID, id string) error {
	const query = `UPDATE messages SET read_flag=TRUE WHERE id=$1 AND tenant_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, tenantID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
