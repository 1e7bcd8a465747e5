package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// User is a registered user as kept by the storage.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Exercise is a logged exercise entry. Date is a calendar day at 00:00 UTC.
type Exercise struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Date        time.Time `json:"date"`
}

// LogQuery describes a lookup of a user's exercises: filtered by owner and by
// an optional inclusive date range, sorted by date ascending, capped at Limit
// entries when Limit is positive.
type LogQuery struct {
	UserID   string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
}

// Matches reports whether exercise satisfies the query filter.
func (q LogQuery) Matches(exercise Exercise) bool {
	if exercise.UserID != q.UserID {
		return false
	}
	if q.DateFrom != nil && exercise.Date.Before(*q.DateFrom) {
		return false
	}
	if q.DateTo != nil && exercise.Date.After(*q.DateTo) {
		return false
	}
	return true
}

// FormValue is a raw request field. It decodes from a JSON string or number
// and remembers whether the field was present at all.
type FormValue struct {
	Value   string
	Present bool
}

// NewFormValue builds a present FormValue.
func NewFormValue(value string) FormValue {
	return FormValue{Value: value, Present: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *FormValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*v = FormValue{}
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*v = NewFormValue(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*v = NewFormValue(number.String())

	return nil
}

// Ptr returns nil for an absent value.
func (v FormValue) Ptr() *string {
	if !v.Present {
		return nil
	}
	value := v.Value
	return &value
}

type CreateUserRequest struct {
	Username FormValue `json:"username"`
}

type AddExerciseRequest struct {
	Description FormValue `json:"description"`
	Duration    FormValue `json:"duration"`
	Date        FormValue `json:"date"`
}

// LogRequest carries the raw query parameters of a log lookup.
type LogRequest struct {
	From  *string
	To    *string
	Limit *string
}

type UserResponse struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

type ExerciseCreatedResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Date        string  `json:"date"`
	Duration    float64 `json:"duration"`
	Description string  `json:"description"`
}

type LogEntry struct {
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

type LogResponse struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Count    int        `json:"count"`
	Log      []LogEntry `json:"log"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeMongo
	StorageTypeFile
	StorageTypeMemory
)
