// Package bootstrap builds the runtime dependencies shared by the binaries
// from a config.Config.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/split-ledger/pkg/audit"
	"github.com/chris/split-ledger/pkg/config"
	"github.com/chris/split-ledger/pkg/notify"
	"github.com/chris/split-ledger/pkg/storage"
	dydbstore "github.com/chris/split-ledger/pkg/storage/dynamodb"
	"github.com/chris/split-ledger/pkg/storage/memory"
	"github.com/chris/split-ledger/pkg/storage/postgres"
	"github.com/redis/go-redis/v9"
)

// OpenStore returns the configured storage backend and a func that releases it.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Storage, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		store, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case config.BackendDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to load SDK config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg)
		return dydbstore.New(client, cfg.ExpensesTable, cfg.LedgerTable, cfg.BalancesTable), func() {}, nil
	default:
		return memory.New(), func() {}, nil
	}
}

// NewNotifier returns a started Dispatcher publishing to SQS, or a no-op
// notifier when no queue is configured. The returned func drains the buffer.
func NewNotifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (notify.Notifier, func(), error) {
	if cfg.NotificationsQueueURL == "" {
		logger.Info("no notifications queue configured, events will be discarded")
		return notify.NoOpNotifier{}, func() {}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	publisher := notify.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.NotificationsQueueURL)
	dispatcher := notify.NewDispatcher(publisher, cfg.NotifyBufferSize, logger)
	dispatcher.Start()
	return dispatcher, dispatcher.Shutdown, nil
}

// NewLocker returns a Redis-backed audit lock, or nil when Redis is not configured.
func NewLocker(cfg *config.Config) (audit.Locker, func()) {
	if cfg.RedisAddress == "" {
		return nil, func() {}
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	return audit.NewRedisLocker(rdb, cfg.AuditLockTTL), func() { rdb.Close() }
}
