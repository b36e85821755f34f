// Package seats computes the labeled seat space of a flight class.
//
// Seat labels are derived, not stored: each class gets a prefix
// (A economy, B business, F first) followed by a 1-based index up to the
// class capacity. The free set is the label space minus the seat numbers
// held by persisted passengers, so it is a pure function of the flight's
// capacity and the current manifest.
package seats

import (
	"fmt"

	"github.com/aerolinea/booking-backend/internal/database"
)

// Prefix returns the seat label prefix of a class.
func Prefix(class database.FlightClass) string {
	switch class {
	case database.ClassBusiness:
		return "B"
	case database.ClassFirst:
		return "F"
	default:
		return "A"
	}
}

// Capacity returns the seat capacity of a class on the given flight.
func Capacity(f *database.Flight, class database.FlightClass) int {
	switch class {
	case database.ClassBusiness:
		return f.BusinessSeats
	case database.ClassFirst:
		return f.FirstSeats
	default:
		return f.EconomySeats
	}
}

// Labels returns every seat label of a class in ascending index order.
func Labels(f *database.Flight, class database.FlightClass) []string {
	capacity := Capacity(f, class)
	prefix := Prefix(class)
	labels := make([]string, 0, capacity)
	for i := 1; i <= capacity; i++ {
		labels = append(labels, fmt.Sprintf("%s%d", prefix, i))
	}
	return labels
}

// Free returns the free seat labels of a class: the full label space
// minus the occupied set, in ascending index order. The first entry is
// the lowest-numbered free seat. Occupied labels outside the class label
// space are ignored.
func Free(f *database.Flight, class database.FlightClass, occupied []string) []string {
	taken := make(map[string]struct{}, len(occupied))
	for _, s := range occupied {
		taken[s] = struct{}{}
	}

	var free []string
	for _, label := range Labels(f, class) {
		if _, ok := taken[label]; !ok {
			free = append(free, label)
		}
	}
	return free
}

// IsFree reports whether the given seat label is free in the class.
func IsFree(f *database.Flight, class database.FlightClass, occupied []string, seat string) bool {
	for _, label := range Free(f, class, occupied) {
		if label == seat {
			return true
		}
	}
	return false
}
