// Package storagetest holds the behaviour every storage backend must share.
// Backend packages call Run from their own tests.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/exercisetracker/internal/db/storage"
	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func descriptions(exercises []models.Exercise) []string {
	result := []string{}
	for _, exercise := range exercises {
		result = append(result, exercise.Description)
	}
	return result
}

// Run checks db against the storage contract. db must be empty.
func Run(t *testing.T, db storage.Storage) {
	ctx := context.Background()

	require.NoError(t, db.Ping(ctx))

	first, err := db.InsertUser(ctx, "fcc_test")
	require.NoError(t, err)
	second, err := db.InsertUser(ctx, "fcc_test")
	require.NoError(t, err)
	other, err := db.InsertUser(ctx, "other")
	require.NoError(t, err)

	t.Run("users get distinct ids and keep creation order", func(t *testing.T) {
		assert.NotEmpty(t, first.ID)
		assert.NotEqual(t, first.ID, second.ID)

		users, err := db.ListUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.User{first, second, other}, users)
	})

	t.Run("user lookup", func(t *testing.T) {
		found, ok, err := db.FindUserByID(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, first, found)

		_, ok, err = db.FindUserByID(ctx, "not-an-id")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	inserted := []models.Exercise{
		{UserID: first.ID, Description: "feb", Duration: 20, Date: day(2024, time.February, 1)},
		{UserID: first.ID, Description: "jan-31", Duration: 31, Date: day(2024, time.January, 31)},
		{UserID: first.ID, Description: "jan-1-first", Duration: 1.5, Date: day(2024, time.January, 1)},
		{UserID: other.ID, Description: "foreign", Duration: 10, Date: day(2024, time.January, 10)},
		{UserID: first.ID, Description: "jan-1-second", Duration: -5, Date: day(2024, time.January, 1)},
		{UserID: first.ID, Description: "dec", Duration: 0, Date: day(2023, time.December, 31)},
	}
	for _, exercise := range inserted {
		stored, err := db.InsertExercise(ctx, exercise)
		require.NoError(t, err)
		assert.NotEmpty(t, stored.ID)
		assert.Equal(t, exercise.Description, stored.Description)
	}

	t.Run("owner's exercises sorted by date", func(t *testing.T) {
		exercises, err := db.FindExercises(ctx, models.LogQuery{UserID: first.ID})
		require.NoError(t, err)
		assert.Equal(t, []string{"dec", "jan-1-first", "jan-1-second", "jan-31", "feb"}, descriptions(exercises))

		assert.Equal(t, 1.5, exercises[1].Duration)
		assert.Equal(t, -5.0, exercises[2].Duration)
		assert.True(t, day(2024, time.January, 1).Equal(exercises[1].Date))
	})

	t.Run("inclusive range", func(t *testing.T) {
		from, to := day(2024, time.January, 1), day(2024, time.January, 31)
		exercises, err := db.FindExercises(ctx, models.LogQuery{UserID: first.ID, DateFrom: &from, DateTo: &to})
		require.NoError(t, err)
		assert.Equal(t, []string{"jan-1-first", "jan-1-second", "jan-31"}, descriptions(exercises))
	})

	t.Run("lower bound with limit", func(t *testing.T) {
		from := day(2024, time.January, 2)
		exercises, err := db.FindExercises(ctx, models.LogQuery{UserID: first.ID, DateFrom: &from, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"jan-31"}, descriptions(exercises))
	})

	t.Run("unknown owner yields nothing", func(t *testing.T) {
		exercises, err := db.FindExercises(ctx, models.LogQuery{UserID: second.ID})
		require.NoError(t, err)
		assert.Empty(t, exercises)
	})
}
