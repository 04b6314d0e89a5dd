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

// SQLiteMessageRepository implements Message persistence for SQLite databases.
// UUIDs are stored in their canonical text form.
type SQLiteMessageRepository struct {
	db *sql.DB
}

// Create inserts a new message.
func (s *SQLiteMessageRepository) Create(ctx context.Context, msg *messagesDomain.Message) error {
	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO messages (id, sender_id, chat_id, content, "key", encryption_type, is_deleted, created_at, updated_at) 
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		msg.ID.String(),
		msg.SenderID.String(),
		msg.ChatID.String(),
		msg.Content,
		msg.Key,
		string(msg.EncryptionType),
		msg.IsDeleted,
		msg.CreatedAt.UTC(),
		msg.UpdatedAt.UTC(),
	)
	if err != nil {
		return apperrors.StoreFailure(err, "failed to create message")
	}
	return nil
}

// Get retrieves a message by id, including soft-deleted ones.
func (s *SQLiteMessageRepository) Get(ctx context.Context, id uuid.UUID) (*messagesDomain.Message, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT id, sender_id, chat_id, content, "key", encryption_type, is_deleted, created_at, updated_at 
			  FROM messages 
			  WHERE id = ?`

	var msg messagesDomain.Message
	err := querier.QueryRowContext(ctx, query, id.String()).Scan(
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
func (s *SQLiteMessageRepository) ListByChat(
	ctx context.Context,
	chatID uuid.UUID,
) ([]*messagesDomain.Message, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT id, sender_id, chat_id, content, "key", encryption_type, is_deleted, created_at, updated_at 
			  FROM messages 
			  WHERE chat_id = ? 
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, chatID.String())
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
func (s *SQLiteMessageRepository) UpdateContent(ctx context.Context, msg *messagesDomain.Message) error {
	querier := database.GetTx(ctx, s.db)

	query := `UPDATE messages 
			  SET content = ?, "key" = ?, encryption_type = ?, updated_at = ? 
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		msg.Content,
		msg.Key,
		string(msg.EncryptionType),
		msg.UpdatedAt.UTC(),
		msg.ID.String(),
	)
	if err != nil {
		return apperrors.StoreFailure(err, "failed to update message")
	}

	return checkAffected(result)
}

// SoftDelete flags the message as deleted without touching content or key.
func (s *SQLiteMessageRepository) SoftDelete(ctx context.Context, id uuid.UUID, updatedAt time.Time) error {
	querier := database.GetTx(ctx, s.db)

	query := `UPDATE messages 
			  SET is_deleted = 1, updated_at = ? 
			  WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, updatedAt.UTC(), id.String())
	if err != nil {
		return apperrors.StoreFailure(err, "failed to delete message")
	}

	return checkAffected(result)
}

// NewSQLiteMessageRepository creates a new SQLite Message repository instance.
func NewSQLiteMessageRepository(db *sql.DB) *SQLiteMessageRepository {
	return &SQLiteMessageRepository{db: db}
}
