package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := FromEnv(env(nil))

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, BackendMemory, cfg.StoreBackend)
		assert.Equal(t, 256, cfg.NotifyBufferSize)
		assert.Equal(t, 30*time.Second, cfg.AuditLockTTL)
	})

	t.Run("DynamoDB", func(t *testing.T) {
		cfg, err := FromEnv(env(map[string]string{
			"STORE_BACKEND":                "dynamodb",
			"DYNAMODB_EXPENSES_TABLE_NAME": "expenses",
			"DYNAMODB_LEDGER_TABLE_NAME":   "ledger",
			"DYNAMODB_BALANCES_TABLE_NAME": "balances",
			"NOTIFY_BUFFER_SIZE":           "16",
		}))

		require.NoError(t, err)
		assert.Equal(t, "ledger", cfg.LedgerTable)
		assert.Equal(t, 16, cfg.NotifyBufferSize)
	})

	t.Run("DynamoDB Missing Table", func(t *testing.T) {
		_, err := FromEnv(env(map[string]string{
			"STORE_BACKEND":                "dynamodb",
			"DYNAMODB_EXPENSES_TABLE_NAME": "expenses",
		}))

		assert.Error(t, err)
	})

	t.Run("Postgres Missing URL", func(t *testing.T) {
		_, err := FromEnv(env(map[string]string{"STORE_BACKEND": "postgres"}))

		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("Unknown Backend", func(t *testing.T) {
		_, err := FromEnv(env(map[string]string{"STORE_BACKEND": "sqlite"}))

		assert.Error(t, err)
	})

	t.Run("Bad Buffer Size", func(t *testing.T) {
		_, err := FromEnv(env(map[string]string{"NOTIFY_BUFFER_SIZE": "zero"}))

		assert.Error(t, err)
	})
}
