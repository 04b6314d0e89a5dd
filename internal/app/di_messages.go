package app

import (
	"fmt"

	messagesHTTP "github.com/allisson/cipherchat/internal/messages/http"
	messagesRepository "github.com/allisson/cipherchat/internal/messages/repository"
	messagesUseCase "github.com/allisson/cipherchat/internal/messages/usecase"
)

// MessageRepository returns the message repository for the configured database driver.
func (c *Container) MessageRepository() (messagesUseCase.MessageRepository, error) {
	var err error
	c.messageRepositoryInit.Do(func() {
		c.messageRepository, err = c.initMessageRepository()
		if err != nil {
			c.initErrors["messageRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["messageRepository"]; exists {
		return nil, storedErr
	}
	return c.messageRepository, nil
}

// MessageUseCase returns the message use case, wrapped with metrics when enabled.
func (c *Container) MessageUseCase() (messagesUseCase.MessageUseCase, error) {
	var err error
	c.messageUseCaseInit.Do(func() {
		c.messageUseCase, err = c.initMessageUseCase()
		if err != nil {
			c.initErrors["messageUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["messageUseCase"]; exists {
		return nil, storedErr
	}
	return c.messageUseCase, nil
}

// MessageHandler returns the HTTP handler for message endpoints.
func (c *Container) MessageHandler() (*messagesHTTP.MessageHandler, error) {
	var err error
	c.messageHandlerInit.Do(func() {
		c.messageHandler, err = c.initMessageHandler()
		if err != nil {
			c.initErrors["messageHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["messageHandler"]; exists {
		return nil, storedErr
	}
	return c.messageHandler, nil
}

func (c *Container) initMessageRepository() (messagesUseCase.MessageRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for message repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return messagesRepository.NewPostgreSQLMessageRepository(db), nil
	case "mysql":
		return messagesRepository.NewMySQLMessageRepository(db), nil
	case "sqlite3":
		return messagesRepository.NewSQLiteMessageRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initMessageUseCase() (messagesUseCase.MessageUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for message use case: %w", err)
	}

	messageRepo, err := c.MessageRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get message repository for message use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for message use case: %w", err)
	}

	baseUseCase := messagesUseCase.NewMessageUseCase(
		messagesUseCase.Config{
			DefaultAlgorithm: c.config.DefaultAlgorithm(),
			DecryptWorkers:   c.config.DecryptWorkers,
		},
		txManager,
		messageRepo,
		outboxRepo,
		c.MessageCipher(),
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for message use case: %w", err)
		}
		return messagesUseCase.NewMessageUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initMessageHandler() (*messagesHTTP.MessageHandler, error) {
	useCase, err := c.MessageUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get message use case for message handler: %w", err)
	}
	return messagesHTTP.NewMessageHandler(useCase, c.Logger()), nil
}
