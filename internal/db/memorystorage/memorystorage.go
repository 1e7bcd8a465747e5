package memorystorage

import (
	"github.com/patric-chuzhbe/exercisetracker/internal/db/jsondb"
)

// MemoryStorage is a JSONDB that never touches the disk.
type MemoryStorage struct {
	*jsondb.JSONDB
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: jsondb.NewWithCache(jsondb.NewCache()),
	}, nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}
