package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"xpense/internal/amqp"
	"xpense/internal/services"
	"xpense/internal/storage"
	"xpense/internal/store/memory"
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

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	loc, err := time.LoadLocation(config.BucketTZ)
	if err != nil {
		return nil, fmt.Errorf("load bucket timezone %q: %w", config.BucketTZ, err)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config, loc)
	case MemoryBackend:
		return f.createMemoryBackend(loc)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config, loc *time.Location) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// AMQP is optional; without it records stay pending until the
	// worker's periodic sweep picks them up.
	var publisher services.SyncPublisher
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			publisher = amqpClient
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", publisher != nil,
		"bucket_tz", loc.String())

	cleanup := func() error {
		if amqpClient != nil {
			amqpClient.Close()
		}
		return repo.Close()
	}

	return &BackendResult{
		Backend:   repo,
		Publisher: publisher,
		Cleanup:   cleanup,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(loc *time.Location) (*BackendResult, error) {
	store := memory.New(loc)

	f.logger.Info("Initialized memory backend", "bucket_tz", loc.String())

	return &BackendResult{
		Backend: store,
	}, nil
}
