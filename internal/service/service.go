// Package service composes input validation, storage access and response
// shaping into the operations exposed by the exercise tracker.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patric-chuzhbe/exercisetracker/internal/calendar"
	"github.com/patric-chuzhbe/exercisetracker/internal/models"
	"github.com/patric-chuzhbe/exercisetracker/internal/shaper"
	"github.com/patric-chuzhbe/exercisetracker/internal/validation"
)

type userKeeper interface {
	InsertUser(ctx context.Context, username string) (models.User, error)
	FindUserByID(ctx context.Context, userID string) (models.User, bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type exerciseKeeper interface {
	InsertExercise(ctx context.Context, exercise models.Exercise) (models.Exercise, error)
	FindExercises(ctx context.Context, query models.LogQuery) ([]models.Exercise, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type storage interface {
	userKeeper
	exerciseKeeper
	pinger
}

type createdCounter interface {
	UserCreated()
	ExerciseLogged()
}

// ErrUserNotFound is returned when the referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

type Service struct {
	db      storage
	metrics createdCounter
	today   func() time.Time
}

type InitOption func(*Service)

// WithClock overrides the source of "today" used for exercises logged without a date.
func WithClock(today func() time.Time) InitOption {
	return func(s *Service) {
		s.today = today
	}
}

// WithMetrics reports created users and exercises to counter.
func WithMetrics(counter createdCounter) InitOption {
	return func(s *Service) {
		s.metrics = counter
	}
}

func New(db storage, optionsProto ...InitOption) *Service {
	s := &Service{
		db:    db,
		today: calendar.Today,
	}
	for _, protoOption := range optionsProto {
		protoOption(s)
	}

	return s
}

// CreateUser registers a new user. Usernames are not required to be unique.
func (s *Service) CreateUser(ctx context.Context, request models.CreateUserRequest) (models.UserResponse, error) {
	username, err := validation.ValidateUsername(request.Username.Ptr())
	if err != nil {
		return models.UserResponse{}, err
	}

	usr, err := s.db.InsertUser(ctx, username)
	if err != nil {
		return models.UserResponse{}, fmt.Errorf("inserting user: %w", err)
	}

	if s.metrics != nil {
		s.metrics.UserCreated()
	}

	return shaper.ShapeUser(usr), nil
}

func (s *Service) ListUsers(ctx context.Context) ([]models.UserResponse, error) {
	users, err := s.db.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	return shaper.ShapeUsers(users), nil
}

// AddExercise validates the request, checks the owner exists and stores the exercise.
// Nothing is written when validation fails or the user is unknown.
func (s *Service) AddExercise(
	ctx context.Context,
	userID string,
	request models.AddExerciseRequest,
) (models.ExerciseCreatedResponse, error) {
	description, err := validation.ValidateDescription(request.Description.Ptr())
	if err != nil {
		return models.ExerciseCreatedResponse{}, err
	}

	duration, err := validation.ValidateDuration(request.Duration.Ptr())
	if err != nil {
		return models.ExerciseCreatedResponse{}, err
	}

	date, err := validation.ParseDate(request.Date.Ptr(), s.today())
	if err != nil {
		return models.ExerciseCreatedResponse{}, err
	}

	usr, err := s.findUser(ctx, userID)
	if err != nil {
		return models.ExerciseCreatedResponse{}, err
	}

	exercise, err := s.db.InsertExercise(ctx, models.Exercise{
		UserID:      usr.ID,
		Description: description,
		Duration:    duration,
		Date:        date,
	})
	if err != nil {
		return models.ExerciseCreatedResponse{}, fmt.Errorf("inserting exercise: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ExerciseLogged()
	}

	return shaper.ShapeExerciseCreated(usr, exercise), nil
}

// GetLog returns the user's exercises matching the optional range and limit.
func (s *Service) GetLog(ctx context.Context, userID string, request models.LogRequest) (models.LogResponse, error) {
	usr, err := s.findUser(ctx, userID)
	if err != nil {
		return models.LogResponse{}, err
	}

	query, err := validation.BuildLogQuery(usr.ID, request.From, request.To, request.Limit)
	if err != nil {
		return models.LogResponse{}, err
	}

	exercises, err := s.db.FindExercises(ctx, query)
	if err != nil {
		return models.LogResponse{}, fmt.Errorf("finding exercises: %w", err)
	}

	return shaper.ShapeLog(usr, exercises), nil
}

// Ping checks the health of the storage layer.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Service) findUser(ctx context.Context, userID string) (models.User, error) {
	usr, found, err := s.db.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("finding user %q: %w", userID, err)
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}

	return usr, nil
}
