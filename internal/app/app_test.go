package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/exercisetracker/internal/config"
	"github.com/patric-chuzhbe/exercisetracker/internal/db/jsondb"
	"github.com/patric-chuzhbe/exercisetracker/internal/db/memorystorage"
	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

func TestGetAvailableStorageType(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want int
	}{
		{
			name: "postgres wins over everything",
			cfg:  config.Config{DatabaseDSN: "postgres://localhost/db", MongoURI: "mongodb://localhost", DBFileName: "db.json"},
			want: models.StorageTypePostgresql,
		},
		{
			name: "mongo wins over file",
			cfg:  config.Config{MongoURI: "mongodb://localhost", DBFileName: "db.json"},
			want: models.StorageTypeMongo,
		},
		{
			name: "file",
			cfg:  config.Config{DBFileName: "db.json"},
			want: models.StorageTypeFile,
		},
		{
			name: "memory by default",
			cfg:  config.Config{},
			want: models.StorageTypeMemory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getAvailableStorageType(&tt.cfg))
		})
	}
}

func TestGetStorageByType(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		db, err := getStorageByType(context.Background(), &config.Config{})
		require.NoError(t, err)
		assert.IsType(t, &memorystorage.MemoryStorage{}, db)
		assert.NoError(t, db.Close())
	})

	t.Run("file", func(t *testing.T) {
		fileName := filepath.Join(t.TempDir(), "db.json")

		db, err := getStorageByType(context.Background(), &config.Config{DBFileName: fileName})
		require.NoError(t, err)
		assert.IsType(t, &jsondb.JSONDB{}, db)
		assert.FileExists(t, fileName)
		assert.NoError(t, db.Close())
	})
}

func TestStorageTypeName(t *testing.T) {
	assert.Equal(t, "postgresql", storageTypeName(models.StorageTypePostgresql))
	assert.Equal(t, "mongodb", storageTypeName(models.StorageTypeMongo))
	assert.Equal(t, "file", storageTypeName(models.StorageTypeFile))
	assert.Equal(t, "memory", storageTypeName(models.StorageTypeMemory))
	assert.Equal(t, "unknown", storageTypeName(models.StorageTypeUnknown))
}
