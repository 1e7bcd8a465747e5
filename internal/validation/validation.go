// Package validation turns untrusted request fields into validated values and
// builds store-agnostic log queries. Nothing here touches the storage.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/patric-chuzhbe/exercisetracker/internal/calendar"
	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

// InvalidError reports a malformed or missing input field.
type InvalidError struct {
	Field  string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *InvalidError {
	return &InvalidError{Field: field, Reason: reason}
}

var validate = validator.New()

func requireText(field string, raw *string) (string, error) {
	if raw == nil {
		return "", invalid(field, "is required")
	}
	if err := validate.Var(*raw, "required"); err != nil {
		return "", invalid(field, "must not be empty")
	}

	return *raw, nil
}

// ValidateUsername rejects an absent or empty username. Whitespace is kept as is.
func ValidateUsername(raw *string) (string, error) {
	return requireText("username", raw)
}

// ValidateDescription rejects an absent or empty description.
func ValidateDescription(raw *string) (string, error) {
	return requireText("description", raw)
}

// ValidateDuration accepts any finite numeric text, including fractions, zero
// and negative values. Only absent or non-numeric input is rejected.
func ValidateDuration(raw *string) (float64, error) {
	if raw == nil || *raw == "" {
		return 0, invalid("duration", "is required")
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0, invalid("duration", fmt.Sprintf("%q is not a number", *raw))
	}

	return duration, nil
}

// ParseDate returns defaultDate when raw is absent or empty, otherwise the
// calendar date raw denotes.
func ParseDate(raw *string, defaultDate time.Time) (time.Time, error) {
	return parseDateField("date", raw, defaultDate)
}

func parseDateField(field string, raw *string, defaultDate time.Time) (time.Time, error) {
	if raw == nil || *raw == "" {
		return calendar.Date(defaultDate), nil
	}

	date, err := calendar.Parse(*raw)
	if err != nil {
		return time.Time{}, invalid(field, fmt.Sprintf("%q is not a valid date", *raw))
	}

	return date, nil
}

func parseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	date, err := parseDateField(field, raw, time.Time{})
	if err != nil {
		return nil, err
	}

	return &date, nil
}

func parseLimit(raw *string) (int, error) {
	if raw == nil || *raw == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil {
		return 0, invalid("limit", fmt.Sprintf("%q is not an integer", *raw))
	}
	if limit <= 0 {
		return 0, invalid("limit", "must be greater than zero")
	}

	return limit, nil
}

// BuildLogQuery assembles the lookup of userID's exercises. from and to are
// inclusive bounds; a zero Limit in the result means unbounded.
func BuildLogQuery(userID string, from, to, limit *string) (models.LogQuery, error) {
	dateFrom, err := parseOptionalDate("from", from)
	if err != nil {
		return models.LogQuery{}, err
	}

	dateTo, err := parseOptionalDate("to", to)
	if err != nil {
		return models.LogQuery{}, err
	}

	parsedLimit, err := parseLimit(limit)
	if err != nil {
		return models.LogQuery{}, err
	}

	return models.LogQuery{
		UserID:   userID,
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Limit:    parsedLimit,
	}, nil
}
