package service

import (
	"errors"
	"fmt"

	"github.com/aerolinea/booking-backend/internal/database"
)

var (
	// ErrNoAvailability is returned when a flight or a flight class has
	// no free seats left.
	ErrNoAvailability = errors.New("no seats available")

	// ErrSeatConflict is returned when a requested seat is occupied or
	// outside the class label space.
	ErrSeatConflict = errors.New("seat already occupied or invalid")

	// ErrInvalidClass is returned for a flight class outside
	// ECONOMY/BUSINESS/FIRST.
	ErrInvalidClass = errors.New("invalid flight class")

	// ErrValidation is returned for malformed passenger or flight input.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateFlight is returned when a flight with the same number,
	// date and route already exists.
	ErrDuplicateFlight = errors.New("flight already exists")
)

// ConflictError reports a delete blocked by dependent passengers. The
// caller is expected to retry with force=true.
type ConflictError struct {
	Passengers int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("flight has %d passenger(s) attached", e.Passengers)
}

// failureReason maps an error to a metrics label.
func failureReason(err error) string {
	var conflict *ConflictError
	switch {
	case errors.Is(err, database.ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNoAvailability):
		return "no_availability"
	case errors.Is(err, ErrSeatConflict):
		return "seat_conflict"
	case errors.Is(err, ErrInvalidClass):
		return "invalid_class"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.As(err, &conflict):
		return "conflict"
	}
	return "internal"
}
