package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aerolinea/booking-backend/internal/database"
)

// fakeStore is an in-memory database.Store. InTx serializes through a
// mutex, standing in for the per-flight row lock (coarser, but it gives
// the same all-or-nothing and mutual-exclusion guarantees the services
// rely on), and snapshots state so a failed unit of work rolls back.
type fakeStore struct {
	mu sync.Mutex

	flights         map[int64]*database.Flight
	passengers      map[int64]*database.Passenger
	recommendations map[int64]*database.Recommendation
	nextFlightID    int64
	nextPassengerID int64

	inTx bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		flights:         make(map[int64]*database.Flight),
		passengers:      make(map[int64]*database.Passenger),
		recommendations: make(map[int64]*database.Recommendation),
	}
}

var _ database.Store = (*fakeStore)(nil)

func (s *fakeStore) addFlight(f database.Flight) *database.Flight {
	s.nextFlightID++
	f.ID = s.nextFlightID
	s.flights[f.ID] = &f
	return &f
}

func (s *fakeStore) addPassenger(p database.Passenger) *database.Passenger {
	s.nextPassengerID++
	p.ID = s.nextPassengerID
	s.passengers[p.ID] = &p
	return &p
}

func (s *fakeStore) snapshot() *fakeStore {
	tx := &fakeStore{
		flights:         make(map[int64]*database.Flight, len(s.flights)),
		passengers:      make(map[int64]*database.Passenger, len(s.passengers)),
		recommendations: make(map[int64]*database.Recommendation, len(s.recommendations)),
		nextFlightID:    s.nextFlightID,
		nextPassengerID: s.nextPassengerID,
		inTx:            true,
	}
	for id, f := range s.flights {
		c := *f
		tx.flights[id] = &c
	}
	for id, p := range s.passengers {
		c := *p
		tx.passengers[id] = &c
	}
	for id, r := range s.recommendations {
		c := *r
		tx.recommendations[id] = &c
	}
	return tx
}

func (s *fakeStore) InTx(ctx context.Context, fn func(database.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.snapshot()
	if err := fn(tx); err != nil {
		return err
	}
	s.flights = tx.flights
	s.passengers = tx.passengers
	s.recommendations = tx.recommendations
	s.nextFlightID = tx.nextFlightID
	s.nextPassengerID = tx.nextPassengerID
	return nil
}

// --- Flights ---

func (s *fakeStore) ListFlights(ctx context.Context) ([]database.Flight, error) {
	var out []database.Flight
	for _, f := range s.flights {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) GetFlight(ctx context.Context, id int64) (*database.Flight, error) {
	f, ok := s.flights[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	c := *f
	return &c, nil
}

func (s *fakeStore) LockFlightForUpdate(ctx context.Context, id int64) (*database.Flight, error) {
	return s.GetFlight(ctx, id)
}

func (s *fakeStore) CreateFlight(ctx context.Context, f *database.Flight) error {
	created := s.addFlight(*f)
	f.ID = created.ID
	return nil
}

func (s *fakeStore) UpdateFlight(ctx context.Context, f *database.Flight) error {
	if _, ok := s.flights[f.ID]; !ok {
		return database.ErrNotFound
	}
	c := *f
	s.flights[f.ID] = &c
	return nil
}

func (s *fakeStore) UpdateFlightAvailability(ctx context.Context, id int64, seatsAvailable int) error {
	f, ok := s.flights[id]
	if !ok {
		return database.ErrNotFound
	}
	f.SeatsAvailable = seatsAvailable
	return nil
}

func (s *fakeStore) DeleteFlight(ctx context.Context, id int64) error {
	if _, ok := s.flights[id]; !ok {
		return database.ErrNotFound
	}
	delete(s.flights, id)
	return nil
}

func (s *fakeStore) FlightExists(ctx context.Context, flightNumber string, departureDate database.Date, origin, destination string) (bool, error) {
	for _, f := range s.flights {
		if f.FlightNumber == flightNumber && f.DepartureDate.String() == departureDate.String() &&
			f.Origin == origin && f.Destination == destination {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) SearchByDestination(ctx context.Context, destination string, from database.Date) ([]database.Flight, error) {
	return s.filterFlights(func(f *database.Flight) bool {
		return strings.EqualFold(f.Destination, destination) && !f.DepartureDate.Before(from.Time)
	}), nil
}

func (s *fakeStore) SearchByDestinationAndDateRange(ctx context.Context, destination string, start, end database.Date) ([]database.Flight, error) {
	return s.filterFlights(func(f *database.Flight) bool {
		return strings.EqualFold(f.Destination, destination) &&
			!f.DepartureDate.Before(start.Time) && !f.DepartureDate.After(end.Time)
	}), nil
}

func (s *fakeStore) SearchByRoute(ctx context.Context, origin, destination string, fromDate database.Date) ([]database.Flight, error) {
	return s.filterFlights(func(f *database.Flight) bool {
		return f.Origin == origin && f.Destination == destination && !f.DepartureDate.Before(fromDate.Time)
	}), nil
}

func (s *fakeStore) SearchFuzzy(ctx context.Context, term string) ([]database.Flight, error) {
	term = strings.ToLower(term)
	return s.filterFlights(func(f *database.Flight) bool {
		return strings.Contains(strings.ToLower(f.Origin), term) ||
			strings.Contains(strings.ToLower(f.Destination), term)
	}), nil
}

func (s *fakeStore) FlightsByRecommendation(ctx context.Context, recommendationID int64) ([]database.Flight, error) {
	return s.filterFlights(func(f *database.Flight) bool {
		return f.RecommendationID != nil && *f.RecommendationID == recommendationID
	}), nil
}

func (s *fakeStore) ListPastFlights(ctx context.Context, before database.Date) ([]database.Flight, error) {
	return s.filterFlights(func(f *database.Flight) bool {
		return f.DepartureDate.Before(before.Time)
	}), nil
}

func (s *fakeStore) filterFlights(keep func(*database.Flight) bool) []database.Flight {
	var out []database.Flight
	for _, f := range s.flights {
		if keep(f) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeStore) DistinctDestinations(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	for _, f := range s.flights {
		seen[f.Destination] = struct{}{}
	}
	return sortedKeys(seen), nil
}

func (s *fakeStore) DistinctCities(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	for _, f := range s.flights {
		seen[f.Origin] = struct{}{}
		seen[f.Destination] = struct{}{}
	}
	return sortedKeys(seen), nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// --- Passengers ---

func (s *fakeStore) ListPassengers(ctx context.Context) ([]database.Passenger, error) {
	return s.filterPassengers(func(*database.Passenger) bool { return true }), nil
}

func (s *fakeStore) ListPassengersByFlight(ctx context.Context, flightID int64) ([]database.Passenger, error) {
	return s.filterPassengers(func(p *database.Passenger) bool {
		return p.FlightID != nil && *p.FlightID == flightID
	}), nil
}

func (s *fakeStore) filterPassengers(keep func(*database.Passenger) bool) []database.Passenger {
	var out []database.Passenger
	for _, p := range s.passengers {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeStore) GetPassenger(ctx context.Context, id int64) (*database.Passenger, error) {
	p, ok := s.passengers[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (s *fakeStore) CreatePassenger(ctx context.Context, p *database.Passenger) error {
	created := s.addPassenger(*p)
	p.ID = created.ID
	return nil
}

func (s *fakeStore) DeletePassenger(ctx context.Context, id int64) error {
	if _, ok := s.passengers[id]; !ok {
		return database.ErrNotFound
	}
	delete(s.passengers, id)
	return nil
}

func (s *fakeStore) OccupiedSeats(ctx context.Context, flightID int64, class database.FlightClass) ([]string, error) {
	var out []string
	for _, p := range s.passengers {
		if p.FlightID != nil && *p.FlightID == flightID && p.FlightClass == class && p.SeatNumber != "" {
			out = append(out, p.SeatNumber)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *fakeStore) CountPassengersByFlight(ctx context.Context, flightID int64) (int64, error) {
	return int64(len(s.filterPassengers(func(p *database.Passenger) bool {
		return p.FlightID != nil && *p.FlightID == flightID
	}))), nil
}

func (s *fakeStore) DeletePassengersByFlight(ctx context.Context, flightID int64) (int64, error) {
	var deleted int64
	for id, p := range s.passengers {
		if p.FlightID != nil && *p.FlightID == flightID {
			delete(s.passengers, id)
			deleted++
		}
	}
	return deleted, nil
}

// --- Recommendations ---

func (s *fakeStore) ListRecommendations(ctx context.Context) ([]database.Recommendation, error) {
	var out []database.Recommendation
	for _, r := range s.recommendations {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) GetRecommendation(ctx context.Context, id int64) (*database.Recommendation, error) {
	r, ok := s.recommendations[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	c := *r
	return &c, nil
}
