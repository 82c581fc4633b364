package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"studentfin/internal/amqp"
	applog "studentfin/internal/log"
	"studentfin/internal/services"
	"studentfin/internal/storage"
	"studentfin/internal/storage/firestore"
	"studentfin/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend opens the configured store and, when an AMQP URL is set,
// the event publisher. A store that cannot be opened is an error; a broker
// that cannot be reached only disables notifications.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store storage.Store
		err   error
	)
	switch config.Type {
	case SQLiteBackend:
		store, err = storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case FirestoreBackend:
		store, err = firestore.NewStore(ctx, config.FirestoreProjectID, config.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Firestore client: %w", err)
		}
		f.logger.Info("Initialized Firestore backend", "project_id", config.FirestoreProjectID)
	case MemoryBackend:
		store = memory.NewStore()
		f.logger.Info("Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("store ping failed: %w", err)
	}

	publisher, amqpClient := f.createPublisher(config)

	return &BackendResult{
		Store:     store,
		Publisher: publisher,
		Cleanup: func() error {
			var errs []error
			if amqpClient != nil {
				errs = append(errs, amqpClient.Close())
			}
			errs = append(errs, store.Close())
			return errors.Join(errs...)
		},
	}, nil
}

func (f *DefaultFactory) createPublisher(config Config) (services.EventPublisher, *amqp.Client) {
	if config.AMQPURL == "" {
		return services.NopPublisher{}, nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without notifications",
			applog.FieldComponent, applog.ComponentAMQP,
			applog.FieldError, err)
		return services.NopPublisher{}, nil
	}
	f.logger.Info("Initialized AMQP client",
		applog.FieldComponent, applog.ComponentAMQP,
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client, client
}
