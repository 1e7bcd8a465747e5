// Package mockstorage provides a testify-based mock implementation
// of the storage interfaces used by the service and router packages.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

// StorageMock is a testify mock of the exercise tracker storage.
//
// Use it to simulate storage failures and to assert which calls were made.
type StorageMock struct {
	mock.Mock
}

// Ping mocks the storage health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// InsertUser mocks user creation.
func (m *StorageMock) InsertUser(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(models.User), args.Error(1)
}

// FindUserByID mocks the lookup of a single user.
func (m *StorageMock) FindUserByID(ctx context.Context, userID string) (models.User, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Bool(1), args.Error(2)
}

// ListUsers mocks listing all users.
func (m *StorageMock) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

// InsertExercise mocks storing an exercise.
func (m *StorageMock) InsertExercise(ctx context.Context, exercise models.Exercise) (models.Exercise, error) {
	args := m.Called(ctx, exercise)
	return args.Get(0).(models.Exercise), args.Error(1)
}

// FindExercises mocks the log lookup.
func (m *StorageMock) FindExercises(ctx context.Context, query models.LogQuery) ([]models.Exercise, error) {
	args := m.Called(ctx, query)
	exercises, _ := args.Get(0).([]models.Exercise)
	return exercises, args.Error(1)
}

// Close mocks closing the storage.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
