package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/aerolinea/booking-backend/internal/database"
	"github.com/aerolinea/booking-backend/pkg/logger"
	"github.com/aerolinea/booking-backend/pkg/metrics"
)

// DeleteGuardResult reports whether a flight can be deleted without a
// forced cascade.
type DeleteGuardResult struct {
	CanDelete  bool
	Passengers int64
	Message    string
}

// FlightService covers flight CRUD, searches and guarded deletion.
type FlightService interface {
	Create(ctx context.Context, f *database.Flight) (*database.Flight, error)
	Get(ctx context.Context, id int64) (*database.Flight, error)
	List(ctx context.Context) ([]database.Flight, error)
	Update(ctx context.Context, id int64, in *database.Flight) (*database.Flight, error)
	Delete(ctx context.Context, id int64, force bool) error
	DeleteGuard(ctx context.Context, id int64) (*DeleteGuardResult, error)
	ReconcileAvailability(ctx context.Context, id int64) (int, error)
	DeletePastFlights(ctx context.Context) (int, error)

	SearchByDestination(ctx context.Context, destination string) ([]database.Flight, error)
	SearchByDestinationAndDateRange(ctx context.Context, destination string, start, end database.Date) ([]database.Flight, error)
	SearchByRoute(ctx context.Context, origin, destination string, fromDate database.Date) ([]database.Flight, error)
	SearchFuzzy(ctx context.Context, term string) ([]database.Flight, error)
	Random(ctx context.Context, max int) ([]database.Flight, error)
	DistinctDestinations(ctx context.Context) ([]string, error)
	DistinctCities(ctx context.Context) ([]string, error)

	FlightsByRecommendation(ctx context.Context, recommendationID int64) ([]database.Flight, error)
	ListRecommendations(ctx context.Context) ([]database.Recommendation, error)
	GetRecommendation(ctx context.Context, id int64) (*database.Recommendation, error)
}

type flightService struct {
	store   database.Store
	log     logger.Logger
	metrics *metrics.Metrics
	hub     Broadcaster
}

// NewFlightService creates a FlightService.
func NewFlightService(store database.Store, log logger.Logger, m *metrics.Metrics, hub Broadcaster) FlightService {
	return &flightService{store: store, log: log, metrics: m, hub: hub}
}

// Create stores a new flight, rejecting duplicates on
// (number, departure date, origin, destination).
func (s *flightService) Create(ctx context.Context, f *database.Flight) (*database.Flight, error) {
	f.Normalize()
	if f.FlightNumber == "" {
		return nil, fmt.Errorf("%w: flightNumber is required", ErrValidation)
	}

	exists, err := s.store.FlightExists(ctx, f.FlightNumber, f.DepartureDate, f.Origin, f.Destination)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s on %s (%s -> %s)",
			ErrDuplicateFlight, f.FlightNumber, f.DepartureDate, f.Origin, f.Destination)
	}

	if err := s.store.CreateFlight(ctx, f); err != nil {
		return nil, err
	}
	s.log.Info("flight created", "flightId", f.ID, "flightNumber", f.FlightNumber)
	return f, nil
}

func (s *flightService) Get(ctx context.Context, id int64) (*database.Flight, error) {
	return s.store.GetFlight(ctx, id)
}

func (s *flightService) List(ctx context.Context) ([]database.Flight, error) {
	return s.store.ListFlights(ctx)
}

// Update merges the provided fields into the stored flight. Text fields
// are replaced when non-empty; seat and price fields always.
func (s *flightService) Update(ctx context.Context, id int64, in *database.Flight) (*database.Flight, error) {
	var updated *database.Flight
	err := s.store.InTx(ctx, func(tx database.Store) error {
		existing, err := tx.LockFlightForUpdate(ctx, id)
		if err != nil {
			return err
		}

		in.Normalize()
		if in.FlightNumber != "" {
			existing.FlightNumber = in.FlightNumber
		}
		if in.Origin != "" {
			existing.Origin = in.Origin
		}
		if in.Destination != "" {
			existing.Destination = in.Destination
		}
		if !in.DepartureDate.IsZero() {
			existing.DepartureDate = in.DepartureDate
		}
		if in.DepartureTime != "" {
			existing.DepartureTime = in.DepartureTime
		}
		if !in.ArrivalDate.IsZero() {
			existing.ArrivalDate = in.ArrivalDate
		}
		if in.ArrivalTime != "" {
			existing.ArrivalTime = in.ArrivalTime
		}

		existing.Price = in.Price
		existing.SeatsAvailable = in.SeatsAvailable
		existing.EconomySeats = in.EconomySeats
		existing.BusinessSeats = in.BusinessSeats
		existing.FirstSeats = in.FirstSeats

		if in.Airline != "" {
			existing.Airline = in.Airline
		}
		if in.AircraftType != "" {
			existing.AircraftType = in.AircraftType
		}
		if in.FlightStatus != "" {
			existing.FlightStatus = in.FlightStatus
		}
		if in.Description != "" {
			existing.Description = in.Description
		}
		if in.ImageURLs != nil {
			existing.ImageURLs = in.ImageURLs
		}
		if in.RecommendationID != nil {
			existing.RecommendationID = in.RecommendationID
		}

		if err := tx.UpdateFlight(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("flight updated", "flightId", id)
	return updated, nil
}

// DeleteGuard reports whether a flight can be deleted without touching
// its passengers.
func (s *flightService) DeleteGuard(ctx context.Context, id int64) (*DeleteGuardResult, error) {
	if _, err := s.store.GetFlight(ctx, id); err != nil {
		return nil, err
	}
	count, err := s.store.CountPassengersByFlight(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &DeleteGuardResult{
		CanDelete:  count == 0,
		Passengers: count,
		Message:    "Flight can be deleted",
	}
	if count > 0 {
		result.Message = "Flight has passengers attached"
	}
	return result, nil
}

// Delete removes a flight. With passengers attached it fails with a
// ConflictError unless force is set, in which case passengers are
// deleted first and the whole cascade commits atomically. The row lock
// is taken up front so no purchase can land between the count and the
// delete.
func (s *flightService) Delete(ctx context.Context, id int64, force bool) error {
	var cascaded int64
	err := s.store.InTx(ctx, func(tx database.Store) error {
		if _, err := tx.LockFlightForUpdate(ctx, id); err != nil {
			return err
		}

		count, err := tx.CountPassengersByFlight(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 && !force {
			return &ConflictError{Passengers: count}
		}
		if count > 0 {
			if cascaded, err = tx.DeletePassengersByFlight(ctx, id); err != nil {
				return err
			}
		}
		return tx.DeleteFlight(ctx, id)
	})
	if err != nil {
		s.metrics.FlightDeletions.WithLabelValues(failureReason(err)).Inc()
		return err
	}

	outcome := "deleted"
	if cascaded > 0 {
		outcome = "force_deleted"
	}
	s.metrics.FlightDeletions.WithLabelValues(outcome).Inc()
	s.log.Info("flight deleted", "flightId", id, "force", force, "cascadedPassengers", cascaded)
	return nil
}

// ReconcileAvailability recomputes the aggregate counter from capacity
// minus the persisted manifest, under the row lock. Used to repair
// drift after out-of-band admin edits.
func (s *flightService) ReconcileAvailability(ctx context.Context, id int64) (int, error) {
	var available int
	err := s.store.InTx(ctx, func(tx database.Store) error {
		flight, err := tx.LockFlightForUpdate(ctx, id)
		if err != nil {
			return err
		}
		count, err := tx.CountPassengersByFlight(ctx, id)
		if err != nil {
			return err
		}

		available = flight.Capacity() - int(count)
		if available < 0 {
			available = 0
		}
		return tx.UpdateFlightAvailability(ctx, id, available)
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("availability reconciled", "flightId", id, "seatsAvailable", available)
	if s.hub != nil {
		s.hub.AvailabilityChanged(id, "", "", "reconciled", available)
	}
	return available, nil
}

// DeletePastFlights removes flights that already departed, cascading to
// their passengers. Each flight is its own atomic unit.
func (s *flightService) DeletePastFlights(ctx context.Context) (int, error) {
	past, err := s.store.ListPastFlights(ctx, database.Today())
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, f := range past {
		err := s.store.InTx(ctx, func(tx database.Store) error {
			if _, err := tx.LockFlightForUpdate(ctx, f.ID); err != nil {
				return err
			}
			if _, err := tx.DeletePassengersByFlight(ctx, f.ID); err != nil {
				return err
			}
			return tx.DeleteFlight(ctx, f.ID)
		})
		if err != nil {
			return deleted, err
		}
		deleted++
	}

	if deleted > 0 {
		s.log.Info("past flights removed", "deleted", deleted)
	}
	return deleted, nil
}

func (s *flightService) SearchByDestination(ctx context.Context, destination string) ([]database.Flight, error) {
	return s.store.SearchByDestination(ctx, destination, database.Today())
}

func (s *flightService) SearchByDestinationAndDateRange(ctx context.Context, destination string, start, end database.Date) ([]database.Flight, error) {
	return s.store.SearchByDestinationAndDateRange(ctx, destination, start, end)
}

func (s *flightService) SearchByRoute(ctx context.Context, origin, destination string, fromDate database.Date) ([]database.Flight, error) {
	return s.store.SearchByRoute(ctx, origin, destination, fromDate)
}

func (s *flightService) SearchFuzzy(ctx context.Context, term string) ([]database.Flight, error) {
	if term == "" {
		return nil, nil
	}
	return s.store.SearchFuzzy(ctx, term)
}

// Random returns up to max flights in random order, for the home page
// teaser carousel.
func (s *flightService) Random(ctx context.Context, max int) ([]database.Flight, error) {
	flights, err := s.store.ListFlights(ctx)
	if err != nil {
		return nil, err
	}
	rand.Shuffle(len(flights), func(i, j int) {
		flights[i], flights[j] = flights[j], flights[i]
	})
	if max < 1 {
		max = 1
	}
	if len(flights) > max {
		flights = flights[:max]
	}
	return flights, nil
}

func (s *flightService) DistinctDestinations(ctx context.Context) ([]string, error) {
	return s.store.DistinctDestinations(ctx)
}

func (s *flightService) DistinctCities(ctx context.Context) ([]string, error) {
	return s.store.DistinctCities(ctx)
}

func (s *flightService) FlightsByRecommendation(ctx context.Context, recommendationID int64) ([]database.Flight, error) {
	return s.store.FlightsByRecommendation(ctx, recommendationID)
}

func (s *flightService) ListRecommendations(ctx context.Context) ([]database.Recommendation, error) {
	return s.store.ListRecommendations(ctx)
}

func (s *flightService) GetRecommendation(ctx context.Context, id int64) (*database.Recommendation, error) {
	return s.store.GetRecommendation(ctx, id)
}
