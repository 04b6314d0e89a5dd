package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/cipherchat/internal/errors"
	messagesDomain "github.com/allisson/cipherchat/internal/messages/domain"
	"github.com/allisson/cipherchat/internal/outbox/domain"
)

// Notification is the message published to chat subscribers for each event.
type Notification struct {
	Type string                      `json:"type"`
	Data messagesDomain.MessageEvent `json:"data"`
}

// decodeMessageEvent parses the payload of a message.* event.
func decodeMessageEvent(event *domain.OutboxEvent) (*Notification, error) {
	switch event.EventType {
	case messagesDomain.EventMessageCreated, messagesDomain.EventMessageEdited, messagesDomain.EventMessageDeleted:
	default:
		return nil, nil
	}

	var data messagesDomain.MessageEvent
	if err := json.Unmarshal([]byte(event.Payload), &data); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode message event payload")
	}

	return &Notification{Type: event.EventType, Data: data}, nil
}

// DefaultEventProcessor logs message events. It is used when no broker is configured.
type DefaultEventProcessor struct {
	logger *slog.Logger
}

// NewDefaultEventProcessor creates a new DefaultEventProcessor.
func NewDefaultEventProcessor(logger *slog.Logger) *DefaultEventProcessor {
	return &DefaultEventProcessor{
		logger: logger,
	}
}

// Process logs the event. Unknown event types are logged and acknowledged.
func (p *DefaultEventProcessor) Process(ctx context.Context, event *domain.OutboxEvent) error {
	notification, err := decodeMessageEvent(event)
	if err != nil {
		return err
	}

	if p.logger == nil {
		return nil
	}

	if notification == nil {
		p.logger.WarnContext(ctx, "unknown event type", slog.String("event_type", event.EventType))
		return nil
	}

	p.logger.InfoContext(ctx, "message event",
		slog.String("event_type", notification.Type),
		slog.String("message_id", notification.Data.MessageID.String()),
		slog.String("chat_id", notification.Data.ChatID.String()),
		slog.String("encryption_type", string(notification.Data.EncryptionType)),
	)

	return nil
}

// Publisher is the subset of *redis.Client used to fan out notifications.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisEventProcessor publishes message events to the chat's Redis channel
// "<prefix>:chat:<chatId>" so connected clients learn about new, edited and
// deleted messages.
type RedisEventProcessor struct {
	publisher     Publisher
	channelPrefix string
	logger        *slog.Logger
}

// NewRedisEventProcessor creates a new RedisEventProcessor.
func NewRedisEventProcessor(publisher Publisher, channelPrefix string, logger *slog.Logger) *RedisEventProcessor {
	return &RedisEventProcessor{
		publisher:     publisher,
		channelPrefix: channelPrefix,
		logger:        logger,
	}
}

// ChatChannel returns the channel name for a chat.
func (p *RedisEventProcessor) ChatChannel(chatID string) string {
	return fmt.Sprintf("%s:chat:%s", p.channelPrefix, chatID)
}

// Process publishes the event. Publish failures are returned so the worker retries.
func (p *RedisEventProcessor) Process(ctx context.Context, event *domain.OutboxEvent) error {
	notification, err := decodeMessageEvent(event)
	if err != nil {
		return err
	}

	if notification == nil {
		if p.logger != nil {
			p.logger.WarnContext(ctx, "skipping unknown event type", slog.String("event_type", event.EventType))
		}
		return nil
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode notification")
	}

	channel := p.ChatChannel(notification.Data.ChatID.String())
	receivers, err := p.publisher.Publish(ctx, channel, body).Result()
	if err != nil {
		return apperrors.Wrap(err, "failed to publish notification")
	}

	if p.logger != nil {
		p.logger.DebugContext(ctx, "published message event",
			slog.String("channel", channel),
			slog.String("event_type", notification.Type),
			slog.Int64("receivers", receivers),
		)
	}

	return nil
}
