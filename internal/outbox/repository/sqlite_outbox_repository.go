package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/cipherchat/internal/database"
	apperrors "github.com/allisson/cipherchat/internal/errors"
	"github.com/allisson/cipherchat/internal/outbox/domain"
)

// SQLiteOutboxEventRepository handles outbox event persistence for SQLite.
//
// SQLite has no row locks. A write transaction holds the whole database, so
// GetPendingEvents needs no FOR UPDATE clause to keep workers apart.
type SQLiteOutboxEventRepository struct {
	db *sql.DB
}

// NewSQLiteOutboxEventRepository creates a new SQLiteOutboxEventRepository.
func NewSQLiteOutboxEventRepository(db *sql.DB) *SQLiteOutboxEventRepository {
	return &SQLiteOutboxEventRepository{
		db: db,
	}
}

// Create inserts a new outbox event.
func (r *SQLiteOutboxEventRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO outbox_events (id, event_type, payload, status, retries, last_error, processed_at, created_at, updated_at) 
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	_, err := querier.ExecContext(ctx, query, event.ID.String(), event.EventType, event.Payload, string(event.Status),
		event.Retries, event.LastError, event.ProcessedAt, now, now)
	if err != nil {
		return apperrors.StoreFailure(err, "failed to create outbox event")
	}

	return nil
}

// GetPendingEvents returns up to limit pending events, oldest first.
func (r *SQLiteOutboxEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*domain.OutboxEvent, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, event_type, payload, status, retries, last_error, processed_at, created_at, updated_at 
			  FROM outbox_events 
			  WHERE status = ? 
			  ORDER BY created_at ASC, id ASC 
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, string(domain.OutboxEventStatusPending), limit)
	if err != nil {
		return nil, apperrors.StoreFailure(err, "failed to get pending outbox events")
	}
	defer rows.Close() //nolint:errcheck

	events := make([]*domain.OutboxEvent, 0)
	for rows.Next() {
		var event domain.OutboxEvent

		err := rows.Scan(&event.ID, &event.EventType, &event.Payload, &event.Status,
			&event.Retries, &event.LastError, &event.ProcessedAt, &event.CreatedAt, &event.UpdatedAt)
		if err != nil {
			return nil, apperrors.StoreFailure(err, "failed to scan outbox event")
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.StoreFailure(err, "failed to iterate outbox events")
	}

	return events, nil
}

// Update persists the delivery state of an outbox event.
func (r *SQLiteOutboxEventRepository) Update(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE outbox_events 
			  SET event_type = ?, payload = ?, status = ?, retries = ?, last_error = ?, 
			      processed_at = ?, updated_at = ? 
			  WHERE id = ?`

	_, err := querier.ExecContext(ctx, query, event.EventType, event.Payload, string(event.Status),
		event.Retries, event.LastError, event.ProcessedAt, time.Now().UTC(), event.ID.String())
	if err != nil {
		return apperrors.StoreFailure(err, "failed to update outbox event")
	}

	return nil
}
