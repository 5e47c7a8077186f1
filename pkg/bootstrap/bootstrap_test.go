package bootstrap

import (
	"context"
	"log/slog"
	"testing"

	"github.com/chris/split-ledger/pkg/audit"
	"github.com/chris/split-ledger/pkg/config"
	"github.com/chris/split-ledger/pkg/notify"
	"github.com/chris/split-ledger/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStoreMemory(t *testing.T) {
	store, closeStore, err := OpenStore(context.Background(), &config.Config{StoreBackend: config.BackendMemory})
	require.NoError(t, err)
	defer closeStore()

	assert.IsType(t, &memory.Store{}, store)
}

func TestNewNotifierWithoutQueue(t *testing.T) {
	n, stop, err := NewNotifier(context.Background(), &config.Config{}, slog.Default())
	require.NoError(t, err)
	defer stop()

	assert.Equal(t, notify.NoOpNotifier{}, n)
}

func TestNewLocker(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		locker, stop := NewLocker(&config.Config{})
		defer stop()

		assert.Nil(t, locker)
	})

	t.Run("Redis", func(t *testing.T) {
		locker, stop := NewLocker(&config.Config{RedisAddress: "localhost:6379"})
		defer stop()

		assert.IsType(t, &audit.RedisLocker{}, locker)
	})
}
