package storage_test

import (
	"github.com/patric-chuzhbe/exercisetracker/internal/db/jsondb"
	"github.com/patric-chuzhbe/exercisetracker/internal/db/memorystorage"
	"github.com/patric-chuzhbe/exercisetracker/internal/db/mongodb"
	"github.com/patric-chuzhbe/exercisetracker/internal/db/postgresdb"
	"github.com/patric-chuzhbe/exercisetracker/internal/db/storage"
	"github.com/patric-chuzhbe/exercisetracker/internal/mockstorage"
)

var (
	_ storage.Storage = (*jsondb.JSONDB)(nil)
	_ storage.Storage = (*memorystorage.MemoryStorage)(nil)
	_ storage.Storage = (*postgresdb.PostgresDB)(nil)
	_ storage.Storage = (*mongodb.MongoDB)(nil)
	_ storage.Storage = (*mockstorage.StorageMock)(nil)
)
