package memorystorage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/exercisetracker/internal/db/storagetest"
	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

func Test(t *testing.T) {
	t.Run("The base memorystorage package test", func(t *testing.T) {
		ctx := context.Background()

		theStorage, err := New()
		assert.NoError(t, err, "The memorystorage.New() should not return error")

		usr, err := theStorage.InsertUser(ctx, "someone")
		require.NoError(t, err, "The `theStorage.InsertUser()` should not return error")

		_, err = theStorage.InsertExercise(ctx, models.Exercise{
			UserID:      usr.ID,
			Description: "yoga",
			Duration:    30,
			Date:        time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err, "The `theStorage.InsertExercise()` should not return error")

		exercises, err := theStorage.FindExercises(ctx, models.LogQuery{UserID: usr.ID})
		require.NoError(t, err)
		require.Len(t, exercises, 1)
		assert.Equal(t, "yoga", exercises[0].Description)

		err = theStorage.Ping(ctx)
		assert.NoError(t, err, "The memorystorage.Ping() should not return error")

		err = theStorage.Close()
		assert.NoError(t, err, "The memorystorage.Close() should not return error")
	})
}

func TestStorageContract(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	storagetest.Run(t, theStorage)
}
