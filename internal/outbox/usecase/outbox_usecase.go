// Package usecase implements the outbox worker that publishes message events
// written by the message store.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/cipherchat/internal/database"
	"github.com/allisson/cipherchat/internal/outbox/domain"
)

// Config holds outbox worker configuration.
type Config struct {
	// Interval between polling rounds.
	Interval time.Duration
	// BatchSize is the maximum number of events handled per round.
	BatchSize int
	// MaxRetries is the number of failed attempts after which an event is marked failed.
	MaxRetries int
	// RetryInterval is the minimum wait before a failed event is attempted again.
	RetryInterval time.Duration
}

// OutboxEventRepository defines outbox event repository operations.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	Update(ctx context.Context, event *domain.OutboxEvent) error
}

// EventProcessor delivers a single event.
type EventProcessor interface {
	Process(ctx context.Context, event *domain.OutboxEvent) error
}

// UseCase defines the interface for outbox use cases.
type UseCase interface {
	Start(ctx context.Context) error
	ProcessEvents(ctx context.Context) error
}

// OutboxUseCase polls pending events and hands them to an EventProcessor.
type OutboxUseCase struct {
	config         Config
	txManager      database.TxManager
	outboxRepo     OutboxEventRepository
	eventProcessor EventProcessor
	logger         *slog.Logger
	now            func() time.Time
}

// NewOutboxUseCase creates a new OutboxUseCase.
func NewOutboxUseCase(
	config Config,
	txManager database.TxManager,
	outboxRepo OutboxEventRepository,
	eventProcessor EventProcessor,
	logger *slog.Logger,
) *OutboxUseCase {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 1
	}

	return &OutboxUseCase{
		config:         config,
		txManager:      txManager,
		outboxRepo:     outboxRepo,
		eventProcessor: eventProcessor,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Start runs the polling loop until ctx is canceled. Round failures are
// logged and the loop continues.
func (uc *OutboxUseCase) Start(ctx context.Context) error {
	uc.log(slog.LevelInfo, "starting outbox worker",
		slog.Duration("interval", uc.config.Interval),
		slog.Int("batch_size", uc.config.BatchSize),
		slog.Int("max_retries", uc.config.MaxRetries),
	)

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.log(slog.LevelInfo, "stopping outbox worker")
			return ctx.Err()
		case <-ticker.C:
			if err := uc.ProcessEvents(ctx); err != nil {
				uc.log(slog.LevelError, "outbox round failed", slog.Any("error", err))
			}
		}
	}
}

// ProcessEvents handles one batch of pending events inside a transaction so
// the rows stay locked until their new status is written.
func (uc *OutboxUseCase) ProcessEvents(ctx context.Context) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		events, err := uc.outboxRepo.GetPendingEvents(ctx, uc.config.BatchSize)
		if err != nil {
			return err
		}

		for _, event := range events {
			if uc.backingOff(event) {
				continue
			}

			if err := uc.deliver(ctx, event); err != nil {
				return err
			}
		}

		return nil
	})
}

// backingOff reports whether a previously failed event must wait longer.
func (uc *OutboxUseCase) backingOff(event *domain.OutboxEvent) bool {
	if event.Retries == 0 || uc.config.RetryInterval <= 0 {
		return false
	}
	return uc.now().Sub(event.UpdatedAt) < uc.config.RetryInterval
}

// deliver processes event and records the outcome. Only a failure to record
// the outcome is returned.
func (uc *OutboxUseCase) deliver(ctx context.Context, event *domain.OutboxEvent) error {
	uc.log(slog.LevelDebug, "delivering event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.EventType),
	)

	if err := uc.eventProcessor.Process(ctx, event); err != nil {
		event.Retries++
		errorMsg := err.Error()
		event.LastError = &errorMsg
		event.UpdatedAt = uc.now()

		if event.Retries >= uc.config.MaxRetries {
			event.Status = domain.OutboxEventStatusFailed
		}

		uc.log(slog.LevelWarn, "event delivery failed",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.EventType),
			slog.Int("retries", event.Retries),
			slog.String("status", string(event.Status)),
			slog.Any("error", err),
		)

		return uc.outboxRepo.Update(ctx, event)
	}

	processedAt := uc.now()
	event.Status = domain.OutboxEventStatusProcessed
	event.ProcessedAt = &processedAt
	event.UpdatedAt = processedAt

	return uc.outboxRepo.Update(ctx, event)
}

func (uc *OutboxUseCase) log(level slog.Level, msg string, attrs ...slog.Attr) {
	if uc.logger == nil {
		return
	}
	uc.logger.LogAttrs(context.Background(), level, msg, attrs...)
}
