// Package repository implements message persistence for PostgreSQL, MySQL and
// SQLite. Content, key and encryption type are always written together.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/cipherchat/internal/database"
	apperrors "github.com/allisson/cipherchat/internal/errors"
	messagesDomain "github.com/allisson/cipherchat/internal/messages/domain"
)

// PostgreSQLMessageRepository implements Message persistence for PostgreSQL databases.
type PostgreSQLMessageRepository struct {
	db *sql.DB
}

// Create inserts a new message.
func (p *PostgreSQLMessageRepository) Create(ctx context.Context, msg *messagesDomain.Message) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO messages (id, sender_id, chat_id, content, "key", encryption_type, is_deleted, created_at, updated_at) 
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		msg.ID,
		msg.SenderID,
		msg.ChatID,
		msg.Content,
		msg.Key,
		string(msg.EncryptionType),
		msg.IsDeleted,
		msg.CreatedAt,
		msg.UpdatedAt,
	)
	if err != nil {
		return apperrors.StoreFailure(err, "failed to create message")
	}
	return nil
}

// Get retrieves a message by id, including soft-deleted ones.
func (p *PostgreSQLMessageRepository) Get(ctx context.Context, id uuid.UUID) (*messagesDomain.Message, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, sender_id, chat_id, content, "key", encryption_type, is_deleted, created_at, updated_at 
			  FROM messages 
			  WHERE id = $1`

	var msg messagesDomain.Message
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&msg.ID,
		&msg.SenderID,
		&msg.ChatID,
		&msg.Content,
		&msg.Key,
		&msg.EncryptionType,
		&msg.IsDeleted,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, messagesDomain.ErrMessageNotFound
		}
		return nil, apperrors.StoreFailure(err, "failed to get message")
	}

	return &msg, nil
}

// ListByChat retrieves every message of a chat in chronological order.
func (p *PostgreSQLMessageRepository) ListByChat(
	ctx context.Context,
	chatID uuid.UUID,
) ([]*messagesDomain.Message, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, sender_id, chat_id, content, "key", encryption_type, is_deleted, created_at, updated_at 
			  FROM messages 
			  WHERE chat_id = $1 
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, apperrors.StoreFailure(err, "failed to list messages")
	}
	defer rows.Close() //nolint:errcheck

	messages := make([]*messagesDomain.Message, 0)
	for rows.Next() {
		var msg messagesDomain.Message
		err := rows.Scan(
			&msg.ID,
			&msg.SenderID,
			&msg.ChatID,
			&msg.Content,
			&msg.Key,
			&msg.EncryptionType,
			&msg.IsDeleted,
			&msg.CreatedAt,
			&msg.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.StoreFailure(err, "failed to scan message")
		}
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.StoreFailure(err, "failed to iterate messages")
	}

	return messages, nil
}

// UpdateContent overwrites content, key and encryption type in a single statement.
func (p *PostgreSQLMessageRepository) UpdateContent(ctx context.Context, msg *messagesDomain.Message) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE messages 
			  SET content = $1, "key" = $2, encryption_type = $3, updated_at = $4 
			  WHERE id = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		msg.Content,
		msg.Key,
		string(msg.EncryptionType),
		msg.UpdatedAt,
		msg.ID,
	)
	if err != nil {
		return apperrors.StoreFailure(err, "failed to update message")
	}

	return checkAffected(result)
}

// SoftDelete flags the message as deleted without touching content or key.
func (p *PostgreSQLMessageRepository) SoftDelete(ctx context.Context, id uuid.UUID, updatedAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE messages 
			  SET is_deleted = TRUE, updated_at = $1 
			  WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, updatedAt, id)
	if err != nil {
		return apperrors.StoreFailure(err, "failed to delete message")
	}

	return checkAffected(result)
}

// NewPostgreSQLMessageRepository creates a new PostgreSQL Message repository instance.
func NewPostgreSQLMessageRepository(db *sql.DB) *PostgreSQLMessageRepository {
	return &PostgreSQLMessageRepository{db: db}
}

// checkAffected maps a zero-row update to ErrMessageNotFound.
func checkAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return apperrors.StoreFailure(err, "failed to read affected rows")
	}
	if n == 0 {
		return messagesDomain.ErrMessageNotFound
	}
	return nil
}
