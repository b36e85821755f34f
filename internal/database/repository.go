package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a flight, passenger or recommendation
// does not exist.
var ErrNotFound = errors.New("not found")

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so repository
// methods run unchanged inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository handles all database operations.
type Repository struct {
	pool *pgxpool.Pool // nil when bound to a transaction
	db   querier
}

// NewRepository creates a new repository over a connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, db: pool}
}

// InTx runs fn inside a transaction. The Store passed to fn is bound to
// that transaction; rollback on error, commit on nil. Calls made while
// already inside a transaction join the enclosing one.
func (r *Repository) InTx(ctx context.Context, fn func(Store) error) error {
	if r.pool == nil {
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Repository{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// --- Flight Operations ---

const flightColumns = `
	id, flight_number, origin, destination, departure_date, departure_time,
	arrival_date, arrival_time, price, seats_available, economy_seats,
	business_seats, first_seats, airline, aircraft_type, flight_status,
	image_urls, description, recommendation_id, created_at, updated_at`

func scanFlight(row pgx.Row) (*Flight, error) {
	var f Flight
	err := row.Scan(
		&f.ID, &f.FlightNumber, &f.Origin, &f.Destination, &f.DepartureDate,
		&f.DepartureTime, &f.ArrivalDate, &f.ArrivalTime, &f.Price,
		&f.SeatsAvailable, &f.EconomySeats, &f.BusinessSeats, &f.FirstSeats,
		&f.Airline, &f.AircraftType, &f.FlightStatus, &f.ImageURLs,
		&f.Description, &f.RecommendationID, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan flight: %w", err)
	}
	return &f, nil
}

func (r *Repository) queryFlights(ctx context.Context, query string, args ...any) ([]Flight, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query flights: %w", err)
	}
	defer rows.Close()

	var flights []Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

// ListFlights returns all flights ordered by departure.
func (r *Repository) ListFlights(ctx context.Context) ([]Flight, error) {
	return r.queryFlights(ctx, `
		SELECT `+flightColumns+`
		FROM flights
		ORDER BY departure_date, departure_time, id`)
}

// GetFlight returns a flight by ID.
func (r *Repository) GetFlight(ctx context.Context, id int64) (*Flight, error) {
	return scanFlight(r.db.QueryRow(ctx, `
		SELECT `+flightColumns+`
		FROM flights
		WHERE id = $1`, id))
}

// LockFlightForUpdate acquires an exclusive row-level lock on the flight
// for the duration of the enclosing transaction. Concurrent lockers of
// the same flight block until it releases; this is what serializes
// purchase/cancel/delete for a flight and prevents overselling.
func (r *Repository) LockFlightForUpdate(ctx context.Context, id int64) (*Flight, error) {
	return scanFlight(r.db.QueryRow(ctx, `
		SELECT `+flightColumns+`
		FROM flights
		WHERE id = $1
		FOR UPDATE`, id))
}

// CreateFlight inserts a flight and fills in its generated fields.
func (r *Repository) CreateFlight(ctx context.Context, f *Flight) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO flights (
			flight_number, origin, destination, departure_date, departure_time,
			arrival_date, arrival_time, price, seats_available, economy_seats,
			business_seats, first_seats, airline, aircraft_type, flight_status,
			image_urls, description, recommendation_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at`,
		f.FlightNumber, f.Origin, f.Destination, f.DepartureDate, f.DepartureTime,
		f.ArrivalDate, f.ArrivalTime, f.Price, f.SeatsAvailable, f.EconomySeats,
		f.BusinessSeats, f.FirstSeats, f.Airline, f.AircraftType, f.FlightStatus,
		f.ImageURLs, f.Description, f.RecommendationID,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create flight: %w", err)
	}
	return nil
}

// UpdateFlight persists all mutable fields of a flight.
func (r *Repository) UpdateFlight(ctx context.Context, f *Flight) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE flights
		SET flight_number = $2, origin = $3, destination = $4,
		    departure_date = $5, departure_time = $6, arrival_date = $7,
		    arrival_time = $8, price = $9, seats_available = $10,
		    economy_seats = $11, business_seats = $12, first_seats = $13,
		    airline = $14, aircraft_type = $15, flight_status = $16,
		    image_urls = $17, description = $18, recommendation_id = $19,
		    updated_at = NOW()
		WHERE id = $1`,
		f.ID, f.FlightNumber, f.Origin, f.Destination, f.DepartureDate,
		f.DepartureTime, f.ArrivalDate, f.ArrivalTime, f.Price,
		f.SeatsAvailable, f.EconomySeats, f.BusinessSeats, f.FirstSeats,
		f.Airline, f.AircraftType, f.FlightStatus, f.ImageURLs,
		f.Description, f.RecommendationID)
	if err != nil {
		return fmt.Errorf("failed to update flight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateFlightAvailability persists the aggregate availability counter.
func (r *Repository) UpdateFlightAvailability(ctx context.Context, id int64, seatsAvailable int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE flights
		SET seats_available = $2, updated_at = NOW()
		WHERE id = $1`, id, seatsAvailable)
	if err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFlight removes a flight row.
func (r *Repository) DeleteFlight(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete flight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FlightExists reports whether a flight with the same number, date and
// route is already stored.
func (r *Repository) FlightExists(ctx context.Context, flightNumber string, departureDate Date, origin, destination string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM flights
			WHERE flight_number = $1 AND departure_date = $2
			  AND origin = $3 AND destination = $4
		)`, flightNumber, departureDate, origin, destination).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check flight existence: %w", err)
	}
	return exists, nil
}

// SearchByDestination returns flights to a destination departing on or
// after the given date.
func (r *Repository) SearchByDestination(ctx context.Context, destination string, from Date) ([]Flight, error) {
	return r.queryFlights(ctx, `
		SELECT `+flightColumns+`
		FROM flights
		WHERE lower(destination) = lower($1) AND departure_date >= $2
		ORDER BY departure_date, departure_time`, destination, from)
}

// SearchByDestinationAndDateRange returns flights to a destination
// within [start, end].
func (r *Repository) SearchByDestinationAndDateRange(ctx context.Context, destination string, start, end Date) ([]Flight, error) {
	return r.queryFlights(ctx, `
		SELECT `+flightColumns+`
		FROM flights
		WHERE lower(destination) = lower($1)
		  AND departure_date BETWEEN $2 AND $3
		ORDER BY departure_date, departure_time`, destination, start, end)
}

// SearchByRoute returns flights on an exact origin/destination pair
// departing on or after fromDate.
func (r *Repository) SearchByRoute(ctx context.Context, origin, destination string, fromDate Date) ([]Flight, error) {
	return r.queryFlights(ctx, `
		SELECT `+flightColumns+`
		FROM flights
		WHERE origin = $1 AND destination = $2 AND departure_date >= $3
		ORDER BY departure_date, departure_time`, origin, destination, fromDate)
}

// SearchFuzzy matches the term against origin or destination.
func (r *Repository) SearchFuzzy(ctx context.Context, term string) ([]Flight, error) {
	return r.queryFlights(ctx, `
		SELECT `+flightColumns+`
		FROM flights
		WHERE destination ILIKE '%' || $1 || '%'
		   OR origin ILIKE '%' || $1 || '%'
		ORDER BY destination, departure_date, departure_time`, term)
}

// FlightsByRecommendation returns flights attached to a promotion.
func (r *Repository) FlightsByRecommendation(ctx context.Context, recommendationID int64) ([]Flight, error) {
	return r.queryFlights(ctx, `
		SELECT `+flightColumns+`
		FROM flights
		WHERE recommendation_id = $1
		ORDER BY departure_date, departure_time`, recommendationID)
}

// ListPastFlights returns flights that departed before the given date.
func (r *Repository) ListPastFlights(ctx context.Context, before Date) ([]Flight, error) {
	return r.queryFlights(ctx, `
		SELECT `+flightColumns+`
		FROM flights
		WHERE departure_date < $1
		ORDER BY departure_date`, before)
}

// DistinctDestinations returns all known destinations, sorted.
func (r *Repository) DistinctDestinations(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, `
		SELECT DISTINCT destination FROM flights ORDER BY destination`)
}

// DistinctCities returns every city appearing as an origin or a
// destination, for autocomplete.
func (r *Repository) DistinctCities(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, `
		SELECT origin AS city FROM flights
		UNION
		SELECT destination FROM flights
		ORDER BY city`)
}

func (r *Repository) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// --- Passenger Operations ---

const passengerColumns = `
	id, first_name, last_name, email, phone, document_number, channel,
	flight_class, seat_number, purchased_at, flight_id`

func scanPassenger(row pgx.Row) (*Passenger, error) {
	var p Passenger
	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.DocumentNumber, &p.Channel, &p.FlightClass, &p.SeatNumber,
		&p.PurchasedAt, &p.FlightID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan passenger: %w", err)
	}
	return &p, nil
}

func (r *Repository) queryPassengers(ctx context.Context, query string, args ...any) ([]Passenger, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query passengers: %w", err)
	}
	defer rows.Close()

	var passengers []Passenger
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, err
		}
		passengers = append(passengers, *p)
	}
	return passengers, rows.Err()
}

// ListPassengers returns all passengers.
func (r *Repository) ListPassengers(ctx context.Context) ([]Passenger, error) {
	return r.queryPassengers(ctx, `
		SELECT `+passengerColumns+`
		FROM passengers
		ORDER BY id`)
}

// ListPassengersByFlight returns the manifest of a flight.
func (r *Repository) ListPassengersByFlight(ctx context.Context, flightID int64) ([]Passenger, error) {
	return r.queryPassengers(ctx, `
		SELECT `+passengerColumns+`
		FROM passengers
		WHERE flight_id = $1
		ORDER BY id`, flightID)
}

// GetPassenger returns a passenger by ID.
func (r *Repository) GetPassenger(ctx context.Context, id int64) (*Passenger, error) {
	return scanPassenger(r.db.QueryRow(ctx, `
		SELECT `+passengerColumns+`
		FROM passengers
		WHERE id = $1`, id))
}

// CreatePassenger inserts a passenger and fills in its generated ID.
func (r *Repository) CreatePassenger(ctx context.Context, p *Passenger) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO passengers (
			first_name, last_name, email, phone, document_number,
			channel, flight_class, seat_number, purchased_at, flight_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		p.FirstName, p.LastName, p.Email, p.Phone, p.DocumentNumber,
		p.Channel, p.FlightClass, p.SeatNumber, p.PurchasedAt, p.FlightID,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create passenger: %w", err)
	}
	return nil
}

// DeletePassenger removes a passenger row.
func (r *Repository) DeletePassenger(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM passengers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete passenger: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// OccupiedSeats returns the seat labels currently taken on a flight in
// the given class. This manifest, not the aggregate counter, is the
// authority for seat assignment.
func (r *Repository) OccupiedSeats(ctx context.Context, flightID int64, class FlightClass) ([]string, error) {
	return r.queryStrings(ctx, `
		SELECT seat_number
		FROM passengers
		WHERE flight_id = $1 AND flight_class = $2 AND seat_number <> ''
		ORDER BY seat_number`, flightID, class)
}

// CountPassengersByFlight counts the passengers attached to a flight.
func (r *Repository) CountPassengersByFlight(ctx context.Context, flightID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM passengers WHERE flight_id = $1`, flightID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count passengers: %w", err)
	}
	return count, nil
}

// DeletePassengersByFlight removes every passenger of a flight and
// returns how many were deleted.
func (r *Repository) DeletePassengersByFlight(ctx context.Context, flightID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM passengers WHERE flight_id = $1`, flightID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete passengers: %w", err)
	}
	return tag.RowsAffected(), nil
}

// --- Recommendation Operations (read-only collaborator) ---

// ListRecommendations returns all promotions.
func (r *Repository) ListRecommendations(ctx context.Context) ([]Recommendation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, origin, destination, description, image_urls
		FROM recommendations
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var recs []Recommendation
	for rows.Next() {
		var rec Recommendation
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Origin, &rec.Destination, &rec.Description, &rec.ImageURLs); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// GetRecommendation returns a promotion by ID.
func (r *Repository) GetRecommendation(ctx context.Context, id int64) (*Recommendation, error) {
	var rec Recommendation
	err := r.db.QueryRow(ctx, `
		SELECT id, title, origin, destination, description, image_urls
		FROM recommendations
		WHERE id = $1`, id).Scan(&rec.ID, &rec.Title, &rec.Origin, &rec.Destination, &rec.Description, &rec.ImageURLs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}
	return &rec, nil
}
