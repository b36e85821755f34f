package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aerolinea/booking-backend/internal/database"
	"github.com/aerolinea/booking-backend/internal/service"
	"github.com/aerolinea/booking-backend/internal/service/mocks"
	"github.com/aerolinea/booking-backend/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTest() (*mocks.MockBookingService, *mocks.MockFlightService, *mux.Router) {
	booking := new(mocks.MockBookingService)
	flights := new(mocks.MockFlightService)
	h := NewHandler(booking, flights, logger.NewNop())

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/flights", h.ListFlights).Methods(http.MethodGet)
	api.HandleFunc("/flights", h.CreateFlight).Methods(http.MethodPost)
	api.HandleFunc("/flights/{id}", h.GetFlight).Methods(http.MethodGet)
	api.HandleFunc("/flights/{id}", h.DeleteFlight).Methods(http.MethodDelete)
	api.HandleFunc("/flights/{id}/delete-guard", h.DeleteGuard).Methods(http.MethodGet)
	api.HandleFunc("/flights/{id}/available-seats", h.AvailableSeats).Methods(http.MethodGet)
	api.HandleFunc("/flights/{id}/reconcile", h.ReconcileAvailability).Methods(http.MethodPost)
	api.HandleFunc("/passengers", h.CreatePassenger).Methods(http.MethodPost)
	api.HandleFunc("/passengers/purchase", h.Purchase).Methods(http.MethodPost)
	api.HandleFunc("/passengers/{id}", h.CancelPassenger).Methods(http.MethodDelete)
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	return booking, flights, r
}

func doRequest(r *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetFlight(t *testing.T) {
	_, flights, r := setupTest()
	flights.On("Get", mock.Anything, int64(7)).Return(&database.Flight{ID: 7, FlightNumber: "AR1234"}, nil)

	w := doRequest(r, http.MethodGet, "/api/flights/7", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var got database.Flight
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "AR1234", got.FlightNumber)
	flights.AssertExpectations(t)
}

func TestGetFlight_NotFound(t *testing.T) {
	_, flights, r := setupTest()
	flights.On("Get", mock.Anything, int64(99)).Return(nil, database.ErrNotFound)

	w := doRequest(r, http.MethodGet, "/api/flights/99", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetFlight_InvalidID(t *testing.T) {
	_, _, r := setupTest()

	w := doRequest(r, http.MethodGet, "/api/flights/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateFlight_Duplicate(t *testing.T) {
	_, flights, r := setupTest()
	flights.On("Create", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: AR1234", service.ErrDuplicateFlight))

	w := doRequest(r, http.MethodPost, "/api/flights", map[string]interface{}{"flightNumber": "AR1234"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteFlight(t *testing.T) {
	_, flights, r := setupTest()
	flights.On("Delete", mock.Anything, int64(7), false).Return(nil)

	w := doRequest(r, http.MethodDelete, "/api/flights/7", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	flights.AssertExpectations(t)
}

func TestDeleteFlight_ConflictCarriesHint(t *testing.T) {
	_, flights, r := setupTest()
	flights.On("Delete", mock.Anything, int64(7), false).Return(&service.ConflictError{Passengers: 3})

	w := doRequest(r, http.MethodDelete, "/api/flights/7", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "hint")
	assert.Contains(t, body["hint"], "force=true")
}

func TestDeleteFlight_ForceFlagForwarded(t *testing.T) {
	_, flights, r := setupTest()
	flights.On("Delete", mock.Anything, int64(7), true).Return(nil)

	w := doRequest(r, http.MethodDelete, "/api/flights/7?force=true", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	flights.AssertExpectations(t)
}

func TestDeleteFlight_NotFound(t *testing.T) {
	_, flights, r := setupTest()
	flights.On("Delete", mock.Anything, int64(99), false).Return(database.ErrNotFound)

	w := doRequest(r, http.MethodDelete, "/api/flights/99", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteGuard(t *testing.T) {
	_, flights, r := setupTest()
	flights.On("DeleteGuard", mock.Anything, int64(7)).Return(&service.DeleteGuardResult{
		CanDelete:  false,
		Passengers: 2,
		Message:    "Flight has passengers attached",
	}, nil)

	w := doRequest(r, http.MethodGet, "/api/flights/7/delete-guard", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		CanDelete bool `json:"canDelete"`
		Counts    struct {
			Passengers int64 `json:"passengers"`
		} `json:"counts"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.CanDelete)
	assert.EqualValues(t, 2, body.Counts.Passengers)
	assert.Equal(t, "Flight has passengers attached", body.Message)
}

func TestDeleteGuard_NotFound(t *testing.T) {
	_, flights, r := setupTest()
	flights.On("DeleteGuard", mock.Anything, int64(99)).Return(nil, database.ErrNotFound)

	w := doRequest(r, http.MethodGet, "/api/flights/99/delete-guard", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAvailableSeats(t *testing.T) {
	booking, _, r := setupTest()
	booking.On("AvailableSeats", mock.Anything, int64(7), database.ClassEconomy).Return([]string{"A1", "A2"}, nil)

	w := doRequest(r, http.MethodGet, "/api/flights/7/available-seats?flightClass=ECONOMY", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var seats []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &seats))
	assert.Equal(t, []string{"A1", "A2"}, seats)
}

func TestAvailableSeats_EmptyIsArray(t *testing.T) {
	booking, _, r := setupTest()
	booking.On("AvailableSeats", mock.Anything, int64(7), database.ClassFirst).Return(nil, nil)

	w := doRequest(r, http.MethodGet, "/api/flights/7/available-seats?flightClass=FIRST", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestReconcileAvailability(t *testing.T) {
	_, flights, r := setupTest()
	flights.On("ReconcileAvailability", mock.Anything, int64(7)).Return(5, nil)

	w := doRequest(r, http.MethodPost, "/api/flights/7/reconcile", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"seatsAvailable": 5}`, w.Body.String())
}

func TestPurchase(t *testing.T) {
	booking, _, r := setupTest()
	booking.On("Purchase", mock.Anything, mock.MatchedBy(func(p *database.Passenger) bool {
		return p.DocumentNumber == "30111222" && p.FlightClass == database.ClassEconomy
	}), int64(7)).Return(&database.Passenger{
		ID:          12,
		Channel:     database.ChannelCounter,
		FlightClass: database.ClassEconomy,
		SeatNumber:  "A1",
	}, nil)

	w := doRequest(r, http.MethodPost, "/api/passengers/purchase", map[string]interface{}{
		"flightId":       7,
		"firstName":      "Ana",
		"lastName":       "Gomez",
		"documentNumber": "30111222",
		"flightClass":    "ECONOMY",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		PassengerID int64  `json:"passengerId"`
		FlightID    int64  `json:"flightId"`
		Channel     string `json:"channel"`
		SeatNumber  string `json:"seatNumber"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 12, body.PassengerID)
	assert.EqualValues(t, 7, body.FlightID)
	assert.Equal(t, "COUNTER", body.Channel)
	assert.Equal(t, "A1", body.SeatNumber)
	booking.AssertExpectations(t)
}

func TestPurchase_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"sold out", service.ErrNoAvailability, http.StatusConflict},
		{"seat taken", service.ErrSeatConflict, http.StatusConflict},
		{"bad class", service.ErrInvalidClass, http.StatusBadRequest},
		{"missing fields", service.ErrValidation, http.StatusBadRequest},
		{"unknown flight", database.ErrNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking, _, r := setupTest()
			booking.On("Purchase", mock.Anything, mock.Anything, int64(7)).Return(nil, tt.err)

			w := doRequest(r, http.MethodPost, "/api/passengers/purchase", map[string]interface{}{
				"flightId": 7, "firstName": "Ana", "lastName": "Gomez", "documentNumber": "1",
			})

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestPurchase_InvalidBody(t *testing.T) {
	_, _, r := setupTest()

	req := httptest.NewRequest(http.MethodPost, "/api/passengers/purchase", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePassenger_ReturnsFullRecord(t *testing.T) {
	booking, _, r := setupTest()
	booking.On("Purchase", mock.Anything, mock.Anything, int64(7)).Return(&database.Passenger{
		ID:         12,
		FirstName:  "Ana",
		SeatNumber: "A1",
	}, nil)

	w := doRequest(r, http.MethodPost, "/api/passengers", map[string]interface{}{
		"flightId": 7, "firstName": "Ana", "lastName": "Gomez", "documentNumber": "1",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var got database.Passenger
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.EqualValues(t, 12, got.ID)
	assert.Equal(t, "A1", got.SeatNumber)
}

func TestCancelPassenger(t *testing.T) {
	booking, _, r := setupTest()
	booking.On("Cancel", mock.Anything, int64(12), true).Return(4, nil)

	w := doRequest(r, http.MethodDelete, "/api/passengers/12", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"seatsAvailable": 4}`, w.Body.String())
	booking.AssertExpectations(t)
}

func TestCancelPassenger_NoRefund(t *testing.T) {
	booking, _, r := setupTest()
	booking.On("Cancel", mock.Anything, int64(12), false).Return(4, nil)

	w := doRequest(r, http.MethodDelete, "/api/passengers/12?refundSeat=false", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	booking.AssertExpectations(t)
}

func TestCancelPassenger_NotFound(t *testing.T) {
	booking, _, r := setupTest()
	booking.On("Cancel", mock.Anything, int64(99), true).Return(0, database.ErrNotFound)

	w := doRequest(r, http.MethodDelete, "/api/passengers/99", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthCheck(t *testing.T) {
	_, _, r := setupTest()

	w := doRequest(r, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}
