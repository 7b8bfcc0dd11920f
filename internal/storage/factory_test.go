package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regportal/internal/models"
)

func TestFactoryCreate(t *testing.T) {
	factory := NewFactory()

	t.Run("memory", func(t *testing.T) {
		store, err := factory.Create(models.StorageConfig{Type: models.StorageTypeMemory})
		require.NoError(t, err)
		assert.IsType(t, &MemoryStorage{}, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := factory.Create(models.StorageConfig{
			Type:     models.StorageTypeSQLite,
			Database: models.DatabaseConfig{DSN: ":memory:"},
		})
		require.NoError(t, err)
		assert.IsType(t, &SQLiteStorage{}, store)
		store.Close()
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		_, err := factory.Create(models.StorageConfig{Type: models.StorageTypePostgres})
		assert.Error(t, err)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := factory.Create(models.StorageConfig{Type: "redis"})
		assert.Error(t, err)
	})
}

func TestFactoryGetSupportedProviders(t *testing.T) {
	providers := NewFactory().GetSupportedProviders()
	assert.ElementsMatch(t, []string{"memory", "postgres", "sqlite"}, providers)
}
