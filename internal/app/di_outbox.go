package app

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	outboxRepository "github.com/allisson/cipherchat/internal/outbox/repository"
	outboxUseCase "github.com/allisson/cipherchat/internal/outbox/usecase"
)

// OutboxRepository returns the outbox event repository for the configured database driver.
func (c *Container) OutboxRepository() (outboxUseCase.OutboxEventRepository, error) {
	var err error
	c.outboxRepositoryInit.Do(func() {
		c.outboxRepository, err = c.initOutboxRepository()
		if err != nil {
			c.initErrors["outboxRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxRepository"]; exists {
		return nil, storedErr
	}
	return c.outboxRepository, nil
}

// RedisClient returns the Redis client used to publish message events.
// It returns nil when REDIS_URL is not configured.
func (c *Container) RedisClient() (*redis.Client, error) {
	var err error
	c.redisClientInit.Do(func() {
		c.redisClient, err = c.initRedisClient()
		if err != nil {
			c.initErrors["redisClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["redisClient"]; exists {
		return nil, storedErr
	}
	return c.redisClient, nil
}

// EventProcessor returns the Redis publisher when Redis is configured and a
// log-only processor otherwise.
func (c *Container) EventProcessor() (outboxUseCase.EventProcessor, error) {
	var err error
	c.eventProcessorInit.Do(func() {
		c.eventProcessor, err = c.initEventProcessor()
		if err != nil {
			c.initErrors["eventProcessor"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventProcessor"]; exists {
		return nil, storedErr
	}
	return c.eventProcessor, nil
}

// OutboxUseCase returns the outbox worker.
func (c *Container) OutboxUseCase() (outboxUseCase.UseCase, error) {
	var err error
	c.outboxUseCaseInit.Do(func() {
		c.outboxUseCase, err = c.initOutboxUseCase()
		if err != nil {
			c.initErrors["outboxUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxUseCase"]; exists {
		return nil, storedErr
	}
	return c.outboxUseCase, nil
}

func (c *Container) initOutboxRepository() (outboxUseCase.OutboxEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return outboxRepository.NewPostgreSQLOutboxEventRepository(db), nil
	case "mysql":
		return outboxRepository.NewMySQLOutboxEventRepository(db), nil
	case "sqlite3":
		return outboxRepository.NewSQLiteOutboxEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initRedisClient() (*redis.Client, error) {
	if c.config.RedisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(c.config.RedisURL)
	if err != nil {
		// The URL may carry a password, keep it out of the error.
		return nil, fmt.Errorf("invalid REDIS_URL")
	}

	return redis.NewClient(opts), nil
}

func (c *Container) initEventProcessor() (outboxUseCase.EventProcessor, error) {
	logger := c.Logger()

	client, err := c.RedisClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get redis client for event processor: %w", err)
	}
	if client == nil {
		logger.Info("redis not configured, message events will only be logged")
		return outboxUseCase.NewDefaultEventProcessor(logger), nil
	}

	return outboxUseCase.NewRedisEventProcessor(client, c.config.RedisChannelPrefix, logger), nil
}

func (c *Container) initOutboxUseCase() (outboxUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for outbox use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for outbox use case: %w", err)
	}

	eventProcessor, err := c.EventProcessor()
	if err != nil {
		return nil, fmt.Errorf("failed to get event processor for outbox use case: %w", err)
	}

	useCaseConfig := outboxUseCase.Config{
		Interval:      c.config.WorkerInterval,
		BatchSize:     c.config.WorkerBatchSize,
		MaxRetries:    c.config.WorkerMaxRetries,
		RetryInterval: c.config.WorkerRetryInterval,
	}

	return outboxUseCase.NewOutboxUseCase(useCaseConfig, txManager, outboxRepo, eventProcessor, c.Logger()), nil
}
