// Package jsondb keeps users and exercises in memory and persists them to a
// JSON file when the storage is closed.
package jsondb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/patric-chuzhbe/exercisetracker/internal/calendar"
	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

type JSONDB struct {
	fileName string
	mu       sync.RWMutex
	Cache    CacheStruct
}

type CacheStruct struct {
	Users     []models.User
	Exercises []models.Exercise
}

// NewCache returns an empty cache.
func NewCache() CacheStruct {
	return CacheStruct{
		Users:     []models.User{},
		Exercises: []models.Exercise{},
	}
}

func initDBFile(fileName string) error {
	return writeToJSONFile(fileName, NewCache())
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	return nil
}

func parseJSONFile(fileName string, cache *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(cache)
}

func New(fileName string) (*JSONDB, error) {
	db := &JSONDB{
		fileName: fileName,
		Cache:    NewCache(),
	}

	err := parseJSONFile(db.fileName, &db.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("in internal/db/jsondb/jsondb.go/New(): error while `parseJSONFile()` calling: %w", err)
		}
		if err := initDBFile(fileName); err != nil {
			return nil, fmt.Errorf("in internal/db/jsondb/jsondb.go/New(): error while `initDBFile()` calling: %w", err)
		}
	}

	return db, nil
}

// NewWithCache builds a storage around cache that is never written to disk.
func NewWithCache(cache CacheStruct) *JSONDB {
	return &JSONDB{Cache: cache}
}

func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

func (db *JSONDB) Close() error {
	if db.fileName == "" {
		return nil
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	return writeToJSONFile(db.fileName, db.Cache)
}

func (db *JSONDB) InsertUser(ctx context.Context, username string) (models.User, error) {
	usr := models.User{
		ID:       uuid.New().String(),
		Username: username,
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.Cache.Users = append(db.Cache.Users, usr)

	return usr, nil
}

func (db *JSONDB) FindUserByID(ctx context.Context, userID string) (models.User, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, usr := range db.Cache.Users {
		if usr.ID == userID {
			return usr, true, nil
		}
	}

	return models.User{}, false, nil
}

func (db *JSONDB) ListUsers(ctx context.Context) ([]models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := make([]models.User, len(db.Cache.Users))
	copy(result, db.Cache.Users)

	return result, nil
}

// ErrDateOutOfRange is returned for exercises the JSON file could not encode.
var ErrDateOutOfRange = errors.New("exercise date is outside the storable range")

func (db *JSONDB) InsertExercise(ctx context.Context, exercise models.Exercise) (models.Exercise, error) {
	if !calendar.InRange(exercise.Date) {
		return models.Exercise{}, fmt.Errorf("inserting exercise dated %d: %w", exercise.Date.Year(), ErrDateOutOfRange)
	}

	exercise.ID = uuid.New().String()

	db.mu.Lock()
	defer db.mu.Unlock()

	db.Cache.Exercises = append(db.Cache.Exercises, exercise)

	return exercise, nil
}

// FindExercises filters in insertion order and sorts stably, so entries
// sharing a date keep the order they were logged in.
func (db *JSONDB) FindExercises(ctx context.Context, query models.LogQuery) ([]models.Exercise, error) {
	db.mu.RLock()
	result := []models.Exercise{}
	for _, exercise := range db.Cache.Exercises {
		if query.Matches(exercise) {
			result = append(result, exercise)
		}
	}
	db.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	if query.Limit > 0 && len(result) > query.Limit {
		result = result[:query.Limit]
	}

	return result, nil
}
