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

// MySQLMessageRepository implements Message persistence for MySQL databases.
// UUIDs are stored as BINARY(16).
type MySQLMessageRepository struct {
	db *sql.DB
}

// Create inserts a new message.
func (m *MySQLMessageRepository) Create(ctx context.Context, msg *messagesDomain.Message) error {
	querier := database.GetTx(ctx, m.db)

	query := "INSERT INTO messages (id, sender_id, chat_id, content, `key`, encryption_type, is_deleted, created_at, updated_at) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"

	id, err := msg.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal message id")
	}

	senderID, err := msg.SenderID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal sender id")
	}

	chatID, err := msg.ChatID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal chat id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		senderID,
		chatID,
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
func (m *MySQLMessageRepository) Get(ctx context.Context, id uuid.UUID) (*messagesDomain.Message, error) {
	querier := database.GetTx(ctx, m.db)

	query := "SELECT id, sender_id, chat_id, content, `key`, encryption_type, is_deleted, created_at, updated_at " +
		"FROM messages WHERE id = ?"

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal message id")
	}

	msg, err := scanMySQLMessage(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, messagesDomain.ErrMessageNotFound
		}
		return nil, apperrors.StoreFailure(err, "failed to get message")
	}

	return msg, nil
}

// ListByChat retrieves every message of a chat in chronological order.
func (m *MySQLMessageRepository) ListByChat(
	ctx context.Context,
	chatID uuid.UUID,
) ([]*messagesDomain.Message, error) {
	querier := database.GetTx(ctx, m.db)

	query := "SELECT id, sender_id, chat_id, content, `key`, encryption_type, is_deleted, created_at, updated_at " +
		"FROM messages WHERE chat_id = ? ORDER BY created_at ASC, id ASC"

	chatIDBytes, err := chatID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal chat id")
	}

	rows, err := querier.QueryContext(ctx, query, chatIDBytes)
	if err != nil {
		return nil, apperrors.StoreFailure(err, "failed to list messages")
	}
	defer rows.Close() //nolint:errcheck

	messages := make([]*messagesDomain.Message, 0)
	for rows.Next() {
		msg, err := scanMySQLMessage(rows)
		if err != nil {
			return nil, apperrors.StoreFailure(err, "failed to scan message")
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.StoreFailure(err, "failed to iterate messages")
	}

	return messages, nil
}

// UpdateContent overwrites content, key and encryption type in a single statement.
func (m *MySQLMessageRepository) UpdateContent(ctx context.Context, msg *messagesDomain.Message) error {
	querier := database.GetTx(ctx, m.db)

	query := "UPDATE messages SET content = ?, `key` = ?, encryption_type = ?, updated_at = ? WHERE id = ?"

	id, err := msg.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal message id")
	}

	result, err := querier.ExecContext(
		ctx,
		query,
		msg.Content,
		msg.Key,
		string(msg.EncryptionType),
		msg.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.StoreFailure(err, "failed to update message")
	}

	return checkAffected(result)
}

// SoftDelete flags the message as deleted without touching content or key.
func (m *MySQLMessageRepository) SoftDelete(ctx context.Context, id uuid.UUID, updatedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	query := "UPDATE messages SET is_deleted = TRUE, updated_at = ? WHERE id = ?"

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal message id")
	}

	result, err := querier.ExecContext(ctx, query, updatedAt, idBytes)
	if err != nil {
		return apperrors.StoreFailure(err, "failed to delete message")
	}

	return checkAffected(result)
}

// NewMySQLMessageRepository creates a new MySQL Message repository instance.
func NewMySQLMessageRepository(db *sql.DB) *MySQLMessageRepository {
	return &MySQLMessageRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLMessage(row rowScanner) (*messagesDomain.Message, error) {
	var msg messagesDomain.Message
	var id, senderID, chatID []byte

	err := row.Scan(
		&id,
		&senderID,
		&chatID,
		&msg.Content,
		&msg.Key,
		&msg.EncryptionType,
		&msg.IsDeleted,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := msg.ID.UnmarshalBinary(id); err != nil {
		return nil, err
	}
	if err := msg.SenderID.UnmarshalBinary(senderID); err != nil {
		return nil, err
	}
	if err := msg.ChatID.UnmarshalBinary(chatID); err != nil {
		return nil, err
	}

	return &msg, nil
}
