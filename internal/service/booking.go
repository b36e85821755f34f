package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aerolinea/booking-backend/internal/database"
	"github.com/aerolinea/booking-backend/internal/seats"
	"github.com/aerolinea/booking-backend/pkg/logger"
	"github.com/aerolinea/booking-backend/pkg/metrics"
)

// Broadcaster pushes availability changes to clients watching a flight.
// Implemented by the websocket hub; nil disables broadcasting.
type Broadcaster interface {
	AvailabilityChanged(flightID int64, class database.FlightClass, seat, action string, seatsAvailable int)
}

// CancelNoFlight is returned by Cancel when the passenger had no flight
// attached, so no seat refund was possible.
const CancelNoFlight = -1

// BookingService is the transaction manager for purchases and
// cancellations. Every mutation of a flight's availability or manifest
// happens inside a transaction that holds that flight's row lock.
type BookingService interface {
	Purchase(ctx context.Context, draft *database.Passenger, flightID int64) (*database.Passenger, error)
	Cancel(ctx context.Context, passengerID int64, refundSeat bool) (int, error)
	AvailableSeats(ctx context.Context, flightID int64, class database.FlightClass) ([]string, error)
	ListPassengers(ctx context.Context) ([]database.Passenger, error)
	ListPassengersByFlight(ctx context.Context, flightID int64) ([]database.Passenger, error)
}

type bookingService struct {
	store   database.Store
	log     logger.Logger
	metrics *metrics.Metrics
	hub     Broadcaster
}

// NewBookingService creates a BookingService.
func NewBookingService(store database.Store, log logger.Logger, m *metrics.Metrics, hub Broadcaster) BookingService {
	return &bookingService{store: store, log: log, metrics: m, hub: hub}
}

// Purchase books a seat for the passenger draft on the given flight.
// The whole operation runs under the flight's exclusive row lock:
// validate availability, resolve the seat against the persisted
// manifest, persist the passenger and decrement the aggregate counter
// as one atomic unit.
func (s *bookingService) Purchase(ctx context.Context, draft *database.Passenger, flightID int64) (*database.Passenger, error) {
	if err := validateDraft(draft); err != nil {
		s.metrics.BookingFailures.WithLabelValues("validation").Inc()
		return nil, err
	}

	start := time.Now()
	var remaining int
	err := s.store.InTx(ctx, func(tx database.Store) error {
		flight, err := tx.LockFlightForUpdate(ctx, flightID)
		if err != nil {
			return err
		}

		if flight.SeatsAvailable <= 0 {
			return fmt.Errorf("%w on flight %d", ErrNoAvailability, flightID)
		}

		if draft.Channel == "" {
			draft.Channel = database.ChannelCounter
		}
		if !draft.Channel.Valid() {
			return fmt.Errorf("%w: channel must be COUNTER or ONLINE", ErrValidation)
		}

		draft.FlightClass = draft.FlightClass.Normalize()
		if !draft.FlightClass.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidClass, draft.FlightClass)
		}

		occupied, err := tx.OccupiedSeats(ctx, flightID, draft.FlightClass)
		if err != nil {
			return err
		}
		free := seats.Free(flight, draft.FlightClass, occupied)

		if draft.SeatNumber == "" {
			if len(free) == 0 {
				return fmt.Errorf("%w in class %s", ErrNoAvailability, draft.FlightClass)
			}
			draft.SeatNumber = free[0]
		} else if !contains(free, draft.SeatNumber) {
			return fmt.Errorf("%w: %s", ErrSeatConflict, draft.SeatNumber)
		}

		now := time.Now()
		draft.PurchasedAt = &now
		draft.FlightID = &flightID

		if err := tx.CreatePassenger(ctx, draft); err != nil {
			return err
		}
		remaining = flight.SeatsAvailable - 1
		return tx.UpdateFlightAvailability(ctx, flightID, remaining)
	})
	if err != nil {
		s.metrics.BookingFailures.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	s.metrics.PurchasesTotal.Inc()
	s.metrics.PurchaseDuration.Observe(time.Since(start).Seconds())
	s.log.Info("seat purchased",
		"flightId", flightID,
		"passengerId", draft.ID,
		"seat", draft.SeatNumber,
		"class", draft.FlightClass,
		"channel", draft.Channel,
	)
	if s.hub != nil {
		s.hub.AvailabilityChanged(flightID, draft.FlightClass, draft.SeatNumber, "purchased", remaining)
	}
	return draft, nil
}

// Cancel removes a passenger. When refundSeat is set, the flight's
// availability is incremented under the row lock before the passenger
// row is deleted. Returns the resulting availability, or CancelNoFlight
// when the passenger had no flight attached.
func (s *bookingService) Cancel(ctx context.Context, passengerID int64, refundSeat bool) (int, error) {
	remaining := CancelNoFlight
	var flightID int64
	var class database.FlightClass
	var seat string

	err := s.store.InTx(ctx, func(tx database.Store) error {
		p, err := tx.GetPassenger(ctx, passengerID)
		if err != nil {
			return err
		}

		if p.FlightID == nil {
			return tx.DeletePassenger(ctx, passengerID)
		}
		flightID, class, seat = *p.FlightID, p.FlightClass, p.SeatNumber

		flight, err := tx.LockFlightForUpdate(ctx, flightID)
		if err != nil {
			return err
		}

		if refundSeat {
			flight.SeatsAvailable++
			if err := tx.UpdateFlightAvailability(ctx, flightID, flight.SeatsAvailable); err != nil {
				return err
			}
		}

		if err := tx.DeletePassenger(ctx, passengerID); err != nil {
			return err
		}
		remaining = flight.SeatsAvailable
		return nil
	})
	if err != nil {
		s.metrics.BookingFailures.WithLabelValues(failureReason(err)).Inc()
		return 0, err
	}

	s.metrics.CancellationsTotal.Inc()
	s.log.Info("passenger cancelled",
		"passengerId", passengerID,
		"flightId", flightID,
		"refundSeat", refundSeat,
		"seatsAvailable", remaining,
	)
	if s.hub != nil && remaining != CancelNoFlight {
		s.hub.AvailabilityChanged(flightID, class, seat, "cancelled", remaining)
	}
	return remaining, nil
}

// AvailableSeats returns the ordered free seat labels of a flight class.
func (s *bookingService) AvailableSeats(ctx context.Context, flightID int64, class database.FlightClass) ([]string, error) {
	class = class.Normalize()
	if !class.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidClass, class)
	}

	flight, err := s.store.GetFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}
	occupied, err := s.store.OccupiedSeats(ctx, flightID, class)
	if err != nil {
		return nil, err
	}
	return seats.Free(flight, class, occupied), nil
}

func (s *bookingService) ListPassengers(ctx context.Context) ([]database.Passenger, error) {
	return s.store.ListPassengers(ctx)
}

func (s *bookingService) ListPassengersByFlight(ctx context.Context, flightID int64) ([]database.Passenger, error) {
	return s.store.ListPassengersByFlight(ctx, flightID)
}

func validateDraft(p *database.Passenger) error {
	if p.FirstName == "" {
		return fmt.Errorf("%w: firstName is required", ErrValidation)
	}
	if p.LastName == "" {
		return fmt.Errorf("%w: lastName is required", ErrValidation)
	}
	if p.DocumentNumber == "" {
		return fmt.Errorf("%w: documentNumber is required", ErrValidation)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
