package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/exercisetracker/internal/db/memorystorage"
	"github.com/patric-chuzhbe/exercisetracker/internal/mockstorage"
	"github.com/patric-chuzhbe/exercisetracker/internal/models"
	"github.com/patric-chuzhbe/exercisetracker/internal/validation"
)

var fixedToday = time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)

type countingMetrics struct {
	users     int
	exercises int
}

func (c *countingMetrics) UserCreated()    { c.users++ }
func (c *countingMetrics) ExerciseLogged() { c.exercises++ }

func newMemoryService(t *testing.T) (*Service, *countingMetrics) {
	db, err := memorystorage.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	metrics := &countingMetrics{}
	return New(db, WithClock(func() time.Time { return fixedToday }), WithMetrics(metrics)), metrics
}

func exerciseRequest(description, duration, date string) models.AddExerciseRequest {
	request := models.AddExerciseRequest{
		Description: models.NewFormValue(description),
		Duration:    models.NewFormValue(duration),
	}
	if date != "" {
		request.Date = models.NewFormValue(date)
	}
	return request
}

func TestCreateAndListUsers(t *testing.T) {
	s, metrics := newMemoryService(t)
	ctx := context.Background()

	first, err := s.CreateUser(ctx, models.CreateUserRequest{Username: models.NewFormValue("alice")})
	require.NoError(t, err)
	second, err := s.CreateUser(ctx, models.CreateUserRequest{Username: models.NewFormValue("alice")})
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID, "duplicate usernames still get distinct ids")
	assert.Equal(t, 2, metrics.users)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.UserResponse{first, second}, users)

	_, err = s.CreateUser(ctx, models.CreateUserRequest{})
	var invalidErr *validation.InvalidError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestAddExerciseAndGetLog(t *testing.T) {
	s, metrics := newMemoryService(t)
	ctx := context.Background()

	usr, err := s.CreateUser(ctx, models.CreateUserRequest{Username: models.NewFormValue("bob")})
	require.NoError(t, err)

	created, err := s.AddExercise(ctx, usr.ID, exerciseRequest("swim", "45", "2024-01-15"))
	require.NoError(t, err)
	assert.Equal(t, models.ExerciseCreatedResponse{
		ID:          usr.ID,
		Username:    "bob",
		Date:        "Mon Jan 15 2024",
		Duration:    45,
		Description: "swim",
	}, created)

	withoutDate, err := s.AddExercise(ctx, usr.ID, exerciseRequest("walk", "0", ""))
	require.NoError(t, err)
	assert.Equal(t, "Sat Feb 10 2024", withoutDate.Date)
	assert.Equal(t, 2, metrics.exercises)

	log, err := s.GetLog(ctx, usr.ID, models.LogRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, log.Count)
	assert.Equal(t, "swim", log.Log[0].Description)
	assert.Equal(t, "walk", log.Log[1].Description)

	from, to, limit := "2024-01-01", "2024-01-31", "5"
	log, err = s.GetLog(ctx, usr.ID, models.LogRequest{From: &from, To: &to, Limit: &limit})
	require.NoError(t, err)
	assert.Equal(t, 1, log.Count)
	assert.Equal(t, []models.LogEntry{{Description: "swim", Duration: 45, Date: "Mon Jan 15 2024"}}, log.Log)
}

func TestAddExerciseRejectsInvalidInput(t *testing.T) {
	s, metrics := newMemoryService(t)
	ctx := context.Background()

	usr, err := s.CreateUser(ctx, models.CreateUserRequest{Username: models.NewFormValue("carol")})
	require.NoError(t, err)

	testCases := []struct {
		name    string
		request models.AddExerciseRequest
		field   string
	}{
		{name: "missing description", request: models.AddExerciseRequest{Duration: models.NewFormValue("5")}, field: "description"},
		{name: "bad duration", request: exerciseRequest("run", "abc", ""), field: "duration"},
		{name: "bad date", request: exerciseRequest("run", "5", "31/31/2024"), field: "date"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := s.AddExercise(ctx, usr.ID, testCase.request)
			var invalidErr *validation.InvalidError
			require.ErrorAs(t, err, &invalidErr)
			assert.Equal(t, testCase.field, invalidErr.Field)
		})
	}

	assert.Zero(t, metrics.exercises)
}

func TestUnknownUserIsNotFoundWithoutWrites(t *testing.T) {
	db := new(mockstorage.StorageMock)
	db.On("FindUserByID", mock.Anything, "missing").Return(models.User{}, false, nil)

	s := New(db)
	ctx := context.Background()

	_, err := s.AddExercise(ctx, "missing", exerciseRequest("run", "10", ""))
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.GetLog(ctx, "missing", models.LogRequest{})
	assert.ErrorIs(t, err, ErrUserNotFound)

	db.AssertNotCalled(t, "InsertExercise", mock.Anything, mock.Anything)
	db.AssertNotCalled(t, "FindExercises", mock.Anything, mock.Anything)
}

func TestValidationRunsBeforeStorage(t *testing.T) {
	db := new(mockstorage.StorageMock)
	s := New(db)

	_, err := s.AddExercise(context.Background(), "any", exerciseRequest("run", "fast", ""))
	var invalidErr *validation.InvalidError
	require.ErrorAs(t, err, &invalidErr)

	db.AssertNotCalled(t, "FindUserByID", mock.Anything, mock.Anything)
}

func TestGetLogValidatesAfterLookup(t *testing.T) {
	db := new(mockstorage.StorageMock)
	usr := models.User{ID: "u1", Username: "dan"}
	db.On("FindUserByID", mock.Anything, "u1").Return(usr, true, nil)

	s := New(db)
	limit := "zero"

	_, err := s.GetLog(context.Background(), "u1", models.LogRequest{Limit: &limit})
	var invalidErr *validation.InvalidError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, "limit", invalidErr.Field)

	db.AssertNotCalled(t, "FindExercises", mock.Anything, mock.Anything)
}

func TestStoreFailuresAreWrapped(t *testing.T) {
	storeErr := errors.New("connection reset")
	usr := models.User{ID: "u1", Username: "erin"}

	db := new(mockstorage.StorageMock)
	db.On("FindUserByID", mock.Anything, "broken").Return(models.User{}, false, storeErr)
	db.On("FindUserByID", mock.Anything, "u1").Return(usr, true, nil)
	db.On("InsertExercise", mock.Anything, mock.Anything).Return(models.Exercise{}, storeErr)
	db.On("FindExercises", mock.Anything, models.LogQuery{UserID: "u1"}).Return(nil, storeErr)
	db.On("InsertUser", mock.Anything, "erin").Return(models.User{}, storeErr)
	db.On("ListUsers", mock.Anything).Return(nil, storeErr)

	s := New(db)
	ctx := context.Background()

	_, err := s.AddExercise(ctx, "broken", exerciseRequest("run", "10", ""))
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrUserNotFound)

	_, err = s.AddExercise(ctx, "u1", exerciseRequest("run", "10", ""))
	assert.ErrorIs(t, err, storeErr)

	_, err = s.GetLog(ctx, "u1", models.LogRequest{})
	assert.ErrorIs(t, err, storeErr)

	_, err = s.CreateUser(ctx, models.CreateUserRequest{Username: models.NewFormValue("erin")})
	assert.ErrorIs(t, err, storeErr)

	_, err = s.ListUsers(ctx)
	assert.ErrorIs(t, err, storeErr)
}
