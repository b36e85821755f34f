package mocks

import (
	"context"

	"github.com/aerolinea/booking-backend/internal/database"
	"github.com/aerolinea/booking-backend/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockBookingService is a mock implementation of service.BookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Purchase(ctx context.Context, draft *database.Passenger, flightID int64) (*database.Passenger, error) {
	args := m.Called(ctx, draft, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Passenger), args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, passengerID int64, refundSeat bool) (int, error) {
	args := m.Called(ctx, passengerID, refundSeat)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingService) AvailableSeats(ctx context.Context, flightID int64, class database.FlightClass) ([]string, error) {
	args := m.Called(ctx, flightID, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookingService) ListPassengers(ctx context.Context) ([]database.Passenger, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Passenger), args.Error(1)
}

func (m *MockBookingService) ListPassengersByFlight(ctx context.Context, flightID int64) ([]database.Passenger, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Passenger), args.Error(1)
}

// MockFlightService is a mock implementation of service.FlightService
type MockFlightService struct {
	mock.Mock
}

func (m *MockFlightService) Create(ctx context.Context, f *database.Flight) (*database.Flight, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Flight), args.Error(1)
}

func (m *MockFlightService) Get(ctx context.Context, id int64) (*database.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Flight), args.Error(1)
}

func (m *MockFlightService) List(ctx context.Context) ([]database.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Flight), args.Error(1)
}

func (m *MockFlightService) Update(ctx context.Context, id int64, in *database.Flight) (*database.Flight, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Flight), args.Error(1)
}

func (m *MockFlightService) Delete(ctx context.Context, id int64, force bool) error {
	args := m.Called(ctx, id, force)
	return args.Error(0)
}

func (m *MockFlightService) DeleteGuard(ctx context.Context, id int64) (*service.DeleteGuardResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DeleteGuardResult), args.Error(1)
}

func (m *MockFlightService) ReconcileAvailability(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockFlightService) DeletePastFlights(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockFlightService) SearchByDestination(ctx context.Context, destination string) ([]database.Flight, error) {
	args := m.Called(ctx, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Flight), args.Error(1)
}

func (m *MockFlightService) SearchByDestinationAndDateRange(ctx context.Context, destination string, start, end database.Date) ([]database.Flight, error) {
	args := m.Called(ctx, destination, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Flight), args.Error(1)
}

func (m *MockFlightService) SearchByRoute(ctx context.Context, origin, destination string, fromDate database.Date) ([]database.Flight, error) {
	args := m.Called(ctx, origin, destination, fromDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Flight), args.Error(1)
}

func (m *MockFlightService) SearchFuzzy(ctx context.Context, term string) ([]database.Flight, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Flight), args.Error(1)
}

func (m *MockFlightService) Random(ctx context.Context, max int) ([]database.Flight, error) {
	args := m.Called(ctx, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Flight), args.Error(1)
}

func (m *MockFlightService) DistinctDestinations(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFlightService) DistinctCities(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFlightService) FlightsByRecommendation(ctx context.Context, recommendationID int64) ([]database.Flight, error) {
	args := m.Called(ctx, recommendationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Flight), args.Error(1)
}

func (m *MockFlightService) ListRecommendations(ctx context.Context) ([]database.Recommendation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Recommendation), args.Error(1)
}

func (m *MockFlightService) GetRecommendation(ctx context.Context, id int64) (*database.Recommendation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Recommendation), args.Error(1)
}
