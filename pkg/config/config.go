// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted in STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
)

// Config is the service configuration.
type Config struct {
	HTTPPort     string
	StoreBackend string

	DatabaseURL string

	ExpensesTable string
	LedgerTable   string
	BalancesTable string

	NotificationsQueueURL string
	NotifyBufferSize      int

	RedisAddress string
	AuditLockTTL time.Duration
}

// Load reads a .env file when one exists and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv and checks that the selected backend is complete.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		HTTPPort:              withDefault(getenv("HTTP_PORT"), "8080"),
		StoreBackend:          withDefault(getenv("STORE_BACKEND"), BackendMemory),
		DatabaseURL:           getenv("DATABASE_URL"),
		ExpensesTable:         getenv("DYNAMODB_EXPENSES_TABLE_NAME"),
		LedgerTable:           getenv("DYNAMODB_LEDGER_TABLE_NAME"),
		BalancesTable:         getenv("DYNAMODB_BALANCES_TABLE_NAME"),
		NotificationsQueueURL: getenv("SQS_NOTIFICATIONS_QUEUE_URL"),
		RedisAddress:          getenv("REDIS_ADDRESS"),
		NotifyBufferSize:      256,
		AuditLockTTL:          30 * time.Second,
	}

	if v := getenv("NOTIFY_BUFFER_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("NOTIFY_BUFFER_SIZE must be a positive integer, got %q", v)
		}
		cfg.NotifyBufferSize = n
	}
	if v := getenv("AUDIT_LOCK_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("AUDIT_LOCK_TTL: %w", err)
		}
		cfg.AuditLockTTL = d
	}

	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL environment variable not set")
		}
	case BackendDynamoDB:
		if cfg.ExpensesTable == "" || cfg.LedgerTable == "" || cfg.BalancesTable == "" {
			return nil, errors.New("one or more DynamoDB table name environment variables are not set")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	return cfg, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
