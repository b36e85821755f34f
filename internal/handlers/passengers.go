package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aerolinea/booking-backend/internal/database"
)

type passengerRequest struct {
	FlightID       int64  `json:"flightId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	DocumentNumber string `json:"documentNumber"`
	Channel        string `json:"channel"`
	FlightClass    string `json:"flightClass"`
	SeatNumber     string `json:"seatNumber"`
}

func (req *passengerRequest) draft() *database.Passenger {
	return &database.Passenger{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		DocumentNumber: req.DocumentNumber,
		Channel:        database.Channel(req.Channel),
		FlightClass:    database.FlightClass(req.FlightClass),
		SeatNumber:     req.SeatNumber,
	}
}

// ListPassengers handles GET /api/passengers.
func (h *Handler) ListPassengers(w http.ResponseWriter, r *http.Request) {
	passengers, err := h.booking.ListPassengers(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, passengers)
}

// ListPassengersByFlight handles GET /api/passengers/by-flight/{flightId}.
func (h *Handler) ListPassengersByFlight(w http.ResponseWriter, r *http.Request) {
	flightID, err := pathID(r, "flightId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flight id")
		return
	}
	passengers, err := h.booking.ListPassengersByFlight(r.Context(), flightID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, passengers)
}

// CreatePassenger handles POST /api/passengers. The purchase runs under
// the flight's row lock and returns the passenger with its assigned seat.
func (h *Handler) CreatePassenger(w http.ResponseWriter, r *http.Request) {
	var req passengerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	passenger, err := h.booking.Purchase(r.Context(), req.draft(), req.FlightID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, passenger)
}

// Purchase handles POST /api/passengers/purchase, the compact variant
// of CreatePassenger kept for the storefront checkout.
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req passengerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	passenger, err := h.booking.Purchase(r.Context(), req.draft(), req.FlightID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"passengerId": passenger.ID,
		"flightId":    req.FlightID,
		"channel":     passenger.Channel,
		"seatNumber":  passenger.SeatNumber,
	})
}

// CancelPassenger handles DELETE /api/passengers/{id}. The seat is
// refunded unless refundSeat=false; the resulting availability is
// returned (-1 when the passenger had no flight).
func (h *Handler) CancelPassenger(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid passenger id")
		return
	}

	refundSeat := r.URL.Query().Get("refundSeat") != "false"

	remaining, err := h.booking.Cancel(r.Context(), id, refundSeat)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"seatsAvailable": remaining})
}
