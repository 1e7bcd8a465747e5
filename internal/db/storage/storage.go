// Package storage defines the contract shared by the storage backends.
package storage

import (
	"context"

	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

type Storage interface {
	InsertUser(ctx context.Context, username string) (models.User, error)

	// FindUserByID reports false, without error, for ids the backend cannot
	// have issued.
	FindUserByID(ctx context.Context, userID string) (models.User, bool, error)

	ListUsers(ctx context.Context) ([]models.User, error)

	InsertExercise(ctx context.Context, exercise models.Exercise) (models.Exercise, error)

	// FindExercises returns the user's exercises matching query, ordered by
	// date and then by insertion.
	FindExercises(ctx context.Context, query models.LogQuery) ([]models.Exercise, error)

	Ping(ctx context.Context) error

	Close() error
}
