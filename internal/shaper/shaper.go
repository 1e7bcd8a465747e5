// Package shaper converts stored records into the response shapes returned to clients.
package shaper

import (
	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/exercisetracker/internal/calendar"
	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

func ShapeUser(user models.User) models.UserResponse {
	return models.UserResponse{
		Username: user.Username,
		ID:       user.ID,
	}
}

func ShapeUsers(users []models.User) []models.UserResponse {
	if len(users) == 0 {
		return []models.UserResponse{}
	}

	return funk.Map(users, ShapeUser).([]models.UserResponse)
}

// ShapeExerciseCreated describes a freshly logged exercise. The id is the owner's.
func ShapeExerciseCreated(user models.User, exercise models.Exercise) models.ExerciseCreatedResponse {
	return models.ExerciseCreatedResponse{
		ID:          user.ID,
		Username:    user.Username,
		Date:        calendar.Format(exercise.Date),
		Duration:    exercise.Duration,
		Description: exercise.Description,
	}
}

func shapeLogEntry(exercise models.Exercise) models.LogEntry {
	return models.LogEntry{
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        calendar.Format(exercise.Date),
	}
}

// ShapeLog keeps the order of exercises; Count is the number of entries returned.
func ShapeLog(user models.User, exercises []models.Exercise) models.LogResponse {
	log := []models.LogEntry{}
	if len(exercises) > 0 {
		log = funk.Map(exercises, shapeLogEntry).([]models.LogEntry)
	}

	return models.LogResponse{
		ID:       user.ID,
		Username: user.Username,
		Count:    len(log),
		Log:      log,
	}
}
