package database

import "context"

// Store is the persistence contract consumed by the service layer. It is
// implemented by *Repository; tests substitute an in-memory fake.
type Store interface {
	// InTx runs fn inside a transaction against a Store bound to it.
	InTx(ctx context.Context, fn func(Store) error) error

	// Flights
	ListFlights(ctx context.Context) ([]Flight, error)
	GetFlight(ctx context.Context, id int64) (*Flight, error)
	LockFlightForUpdate(ctx context.Context, id int64) (*Flight, error)
	CreateFlight(ctx context.Context, f *Flight) error
	UpdateFlight(ctx context.Context, f *Flight) error
	UpdateFlightAvailability(ctx context.Context, id int64, seatsAvailable int) error
	DeleteFlight(ctx context.Context, id int64) error
	FlightExists(ctx context.Context, flightNumber string, departureDate Date, origin, destination string) (bool, error)
	SearchByDestination(ctx context.Context, destination string, from Date) ([]Flight, error)
	SearchByDestinationAndDateRange(ctx context.Context, destination string, start, end Date) ([]Flight, error)
	SearchByRoute(ctx context.Context, origin, destination string, fromDate Date) ([]Flight, error)
	SearchFuzzy(ctx context.Context, term string) ([]Flight, error)
	FlightsByRecommendation(ctx context.Context, recommendationID int64) ([]Flight, error)
	ListPastFlights(ctx context.Context, before Date) ([]Flight, error)
	DistinctDestinations(ctx context.Context) ([]string, error)
	DistinctCities(ctx context.Context) ([]string, error)

	// Passengers
	ListPassengers(ctx context.Context) ([]Passenger, error)
	ListPassengersByFlight(ctx context.Context, flightID int64) ([]Passenger, error)
	GetPassenger(ctx context.Context, id int64) (*Passenger, error)
	CreatePassenger(ctx context.Context, p *Passenger) error
	DeletePassenger(ctx context.Context, id int64) error
	OccupiedSeats(ctx context.Context, flightID int64, class FlightClass) ([]string, error)
	CountPassengersByFlight(ctx context.Context, flightID int64) (int64, error)
	DeletePassengersByFlight(ctx context.Context, flightID int64) (int64, error)

	// Recommendations
	ListRecommendations(ctx context.Context) ([]Recommendation, error)
	GetRecommendation(ctx context.Context, id int64) (*Recommendation, error)
}

var _ Store = (*Repository)(nil)
