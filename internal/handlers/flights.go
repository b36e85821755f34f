package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aerolinea/booking-backend/internal/database"
)

// ListFlights handles GET /api/flights.
func (h *Handler) ListFlights(w http.ResponseWriter, r *http.Request) {
	flights, err := h.flights.List(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flights)
}

// GetFlight handles GET /api/flights/{id}.
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flight id")
		return
	}
	flight, err := h.flights.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// CreateFlight handles POST /api/flights.
func (h *Handler) CreateFlight(w http.ResponseWriter, r *http.Request) {
	var flight database.Flight
	if err := json.NewDecoder(r.Body).Decode(&flight); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	created, err := h.flights.Create(r.Context(), &flight)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, created)
}

// UpdateFlight handles PUT /api/flights/{id}.
func (h *Handler) UpdateFlight(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flight id")
		return
	}
	var flight database.Flight
	if err := json.NewDecoder(r.Body).Decode(&flight); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	updated, err := h.flights.Update(r.Context(), id, &flight)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteFlight handles DELETE /api/flights/{id}?force=bool. With
// passengers attached and force unset it answers 409 with a hint to
// retry with force.
func (h *Handler) DeleteFlight(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flight id")
		return
	}
	force := r.URL.Query().Get("force") == "true"

	if err := h.flights.Delete(r.Context(), id, force); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteGuard handles GET /api/flights/{id}/delete-guard.
func (h *Handler) DeleteGuard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flight id")
		return
	}
	guard, err := h.flights.DeleteGuard(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"canDelete": guard.CanDelete,
		"counts":    map[string]int64{"passengers": guard.Passengers},
		"message":   guard.Message,
	})
}

// AvailableSeats handles GET /api/flights/{id}/available-seats?flightClass=X.
func (h *Handler) AvailableSeats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flight id")
		return
	}
	class := database.FlightClass(r.URL.Query().Get("flightClass"))

	free, err := h.booking.AvailableSeats(r.Context(), id, class)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if free == nil {
		free = []string{}
	}
	respondJSON(w, http.StatusOK, free)
}

// ReconcileAvailability handles POST /api/flights/{id}/reconcile.
func (h *Handler) ReconcileAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flight id")
		return
	}
	available, err := h.flights.ReconcileAvailability(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"seatsAvailable": available})
}

// SearchFlights handles GET /api/flights/search?origin=&destination=&fromDate=.
func (h *Handler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	origin := r.URL.Query().Get("origin")
	destination := r.URL.Query().Get("destination")
	fromDate, err := database.ParseDate(r.URL.Query().Get("fromDate"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid fromDate, expected YYYY-MM-DD")
		return
	}

	flights, err := h.flights.SearchByRoute(r.Context(), origin, destination, fromDate)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flights)
}

// SearchByDestination handles GET /api/flights/search/by-destination?destination=.
func (h *Handler) SearchByDestination(w http.ResponseWriter, r *http.Request) {
	flights, err := h.flights.SearchByDestination(r.Context(), r.URL.Query().Get("destination"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flights)
}

// SearchByDestinationAndMonth handles
// GET /api/flights/search/by-destination-and-month?destination=&ym=YYYY-MM.
func (h *Handler) SearchByDestinationAndMonth(w http.ResponseWriter, r *http.Request) {
	destination := r.URL.Query().Get("destination")
	ym := r.URL.Query().Get("ym")

	month, err := time.Parse("2006-01", ym)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ym parameter, expected YYYY-MM (e.g. 2025-08)")
		return
	}
	start := database.NewDate(month.Year(), month.Month(), 1)
	end := database.Date{Time: start.AddDate(0, 1, -1)}

	flights, err := h.flights.SearchByDestinationAndDateRange(r.Context(), destination, start, end)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"content":     flights,
		"destination": destination,
		"ym":          ym,
	})
}

// SearchFuzzy handles GET /api/flights/search/fuzzy?term=.
func (h *Handler) SearchFuzzy(w http.ResponseWriter, r *http.Request) {
	flights, err := h.flights.SearchFuzzy(r.Context(), r.URL.Query().Get("term"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flights)
}

// RandomFlights handles GET /api/flights/random?max=.
func (h *Handler) RandomFlights(w http.ResponseWriter, r *http.Request) {
	max, err := strconv.Atoi(r.URL.Query().Get("max"))
	if err != nil || max < 1 {
		max = 10
	}
	flights, err := h.flights.Random(r.Context(), max)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flights)
}

// DistinctDestinations handles GET /api/flights/destinations.
func (h *Handler) DistinctDestinations(w http.ResponseWriter, r *http.Request) {
	destinations, err := h.flights.DistinctDestinations(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, destinations)
}

// DistinctCities handles GET /api/flights/search/cities.
func (h *Handler) DistinctCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.flights.DistinctCities(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cities)
}

// CleanupPastFlights handles POST /api/flights/admin/cleanup-past.
func (h *Handler) CleanupPastFlights(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.flights.DeletePastFlights(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// FlightsByRecommendation handles GET /api/flights/recommendation/{recommendationId}.
func (h *Handler) FlightsByRecommendation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "recommendationId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid recommendation id")
		return
	}
	flights, err := h.flights.FlightsByRecommendation(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flights)
}

// ListRecommendations handles GET /api/recommendations.
func (h *Handler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := h.flights.ListRecommendations(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, recs)
}

// GetRecommendation handles GET /api/recommendations/{id}.
func (h *Handler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid recommendation id")
		return
	}
	rec, err := h.flights.GetRecommendation(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}
